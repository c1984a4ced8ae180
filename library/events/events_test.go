package events_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/0xAtelerix/talentgraph/library/events"
	"github.com/0xAtelerix/talentgraph/library/tests"
)

const transferABIs = `[
{"type":"event","name":"Transfer20","anonymous":false,"inputs":[
	{"name":"from","type":"address","indexed":true},
	{"name":"to","type":"address","indexed":true},
	{"name":"value","type":"uint256","indexed":false}]},
{"type":"event","name":"Tagged","anonymous":false,"inputs":[
	{"name":"label","type":"string","indexed":true},
	{"name":"delta","type":"int256","indexed":false}]},
{"type":"event","name":"Mint","anonymous":false,"inputs":[
	{"name":"_platformOwnerAddress","type":"address","indexed":true},
	{"name":"_tokenId","type":"uint256","indexed":false},
	{"name":"_platformName","type":"string","indexed":false},
	{"name":"_fee","type":"uint256","indexed":false}]}
]`

// Both ERC-20 and ERC-721 Transfer hash to the same topic0; the indexed
// layout tells them apart.
const erc721ABI = `[{"type":"event","name":"Transfer","anonymous":false,"inputs":[
	{"name":"from","type":"address","indexed":true},
	{"name":"to","type":"address","indexed":true},
	{"name":"tokenId","type":"uint256","indexed":true}]}]`

const erc20ABI = `[{"type":"event","name":"Transfer","anonymous":false,"inputs":[
	{"name":"from","type":"address","indexed":true},
	{"name":"to","type":"address","indexed":true},
	{"name":"value","type":"uint256","indexed":false}]}]`

type mint struct {
	Owner common.Address `abi:"_platformOwnerAddress"`
	ID    *big.Int       `abi:"_tokenId"`
	Name  string         `abi:"_platformName"`
	Fee   *big.Int       `abi:"_fee"`
}

type erc20Transfer struct {
	From  common.Address `abi:"from"`
	To    common.Address `abi:"to"`
	Value *big.Int       `abi:"value"`
}

type erc721Transfer struct {
	From    common.Address
	To      common.Address
	TokenID *big.Int `abi:"tokenId"`
}

func mustABI(t *testing.T, s string) abi.ABI {
	t.Helper()

	a, err := abi.JSON(strings.NewReader(s))
	require.NoError(t, err)

	return a
}

func TestDecodeEventIntoMixedIndexedFields(t *testing.T) {
	t.Parallel()

	a := mustABI(t, transferABIs)
	ev := a.Events["Mint"]
	owner := tests.Addr(0x42)

	lg := &gethtypes.Log{
		Topics: []common.Hash{ev.ID, tests.AddrTopic(owner)},
		Data:   tests.MustPack(t, ev.Inputs.NonIndexed(), big.NewInt(12), "hirevibes", big.NewInt(100)),
	}

	out, matched, err := events.DecodeEventInto[mint](a, "Mint", lg)
	require.NoError(t, err)
	require.True(t, matched)
	require.Equal(t, owner, out.Owner)
	require.Equal(t, "12", out.ID.String())
	require.Equal(t, "hirevibes", out.Name)
	require.Equal(t, "100", out.Fee.String())
}

func TestDecodeEventIntoUint256Amounts(t *testing.T) {
	t.Parallel()

	type mintAmounts struct {
		ID  *uint256.Int `abi:"_tokenId"`
		Fee uint256.Int  `abi:"_fee"`
	}

	a := mustABI(t, transferABIs)
	ev := a.Events["Mint"]

	fee, ok := new(big.Int).SetString("340282366920938463463374607431768211457", 10)
	require.True(t, ok)

	lg := &gethtypes.Log{
		Topics: []common.Hash{ev.ID, tests.AddrTopic(tests.Addr(7))},
		Data:   tests.MustPack(t, ev.Inputs.NonIndexed(), big.NewInt(3), "p", fee),
	}

	out, matched, err := events.DecodeEventInto[mintAmounts](a, "Mint", lg)
	require.NoError(t, err)
	require.True(t, matched)
	require.Equal(t, uint64(3), out.ID.Uint64())
	require.Equal(t, fee.String(), out.Fee.Dec())
}

func TestDecodeEventIntoIndexedStringAndSignedRange(t *testing.T) {
	t.Parallel()

	type taggedHash struct {
		Label common.Hash `abi:"label"`
		Delta *big.Int    `abi:"delta"`
	}

	type taggedUnsigned struct {
		Delta uint256.Int `abi:"delta"`
	}

	a := mustABI(t, transferABIs)
	ev := a.Events["Tagged"]
	label := crypto.Keccak256Hash([]byte("design"))

	lg := &gethtypes.Log{
		Topics: []common.Hash{ev.ID, label},
		Data:   tests.MustPack(t, ev.Inputs.NonIndexed(), big.NewInt(-5)),
	}

	out, matched, err := events.DecodeEventInto[taggedHash](a, "Tagged", lg)
	require.NoError(t, err)
	require.True(t, matched)
	require.Equal(t, label, out.Label)
	require.Equal(t, int64(-5), out.Delta.Int64())

	_, matched, err = events.DecodeEventInto[taggedUnsigned](a, "Tagged", lg)
	require.True(t, matched)
	require.ErrorIs(t, err, events.ErrABIValueOutOfRange)
}

func TestDecodeEventIntoSignatureMismatch(t *testing.T) {
	t.Parallel()

	a := mustABI(t, transferABIs)

	lg := &gethtypes.Log{
		Topics: []common.Hash{crypto.Keccak256Hash([]byte("SomethingElse(bytes32)"))},
	}

	_, matched, err := events.DecodeEventInto[mint](a, "Mint", lg)
	require.NoError(t, err)
	require.False(t, matched)

	_, _, err = events.DecodeEventInto[mint](a, "Missing", lg)
	require.ErrorIs(t, err, events.ErrABIUnknownEvent)
}

func TestDecodeEventIntoTypeMismatch(t *testing.T) {
	t.Parallel()

	type wrong struct {
		Name int `abi:"_platformName"`
	}

	a := mustABI(t, transferABIs)
	ev := a.Events["Mint"]

	lg := &gethtypes.Log{
		Topics: []common.Hash{ev.ID, tests.AddrTopic(tests.Addr(1))},
		Data:   tests.MustPack(t, ev.Inputs.NonIndexed(), big.NewInt(1), "x", big.NewInt(0)),
	}

	_, matched, err := events.DecodeEventInto[wrong](a, "Mint", lg)
	require.True(t, matched)
	require.ErrorIs(t, err, events.ErrABIPlanTypeMismatched)

	_, _, err = events.DecodeEventInto[int](a, "Mint", lg)
	require.ErrorIs(t, err, events.ErrStructRequired)
}

func TestRegistrySharedSignatureSplitsByIndexedLayout(t *testing.T) {
	t.Parallel()

	a20 := mustABI(t, erc20ABI)
	a721 := mustABI(t, erc721ABI)
	require.Equal(t, a20.Events["Transfer"].ID, a721.Events["Transfer"].ID)

	reg := events.NewRegistry[events.AppEvent]()

	sig20, err := events.RegisterEvent[erc20Transfer](reg, a20, "Transfer", "erc20")
	require.NoError(t, err)

	sig721, err := events.RegisterEvent[erc721Transfer](reg, a721, "Transfer", "erc721")
	require.NoError(t, err)
	require.Equal(t, sig20, sig721)
	require.Len(t, reg.Signatures(), 1)

	from, to := tests.Addr(1), tests.Addr(2)

	lg721 := &gethtypes.Log{
		Topics: []common.Hash{sig721, tests.AddrTopic(from), tests.AddrTopic(to), tests.UintTopic(77)},
		TxHash: common.HexToHash("0x5"),
		Index:  1,
	}

	out, matched, err := reg.HandleLog(lg721, events.MetaFromLog(lg721, 10))
	require.NoError(t, err)
	require.True(t, matched)
	require.Len(t, out, 1)
	require.Equal(t, "erc721", out[0].Kind())

	nft, ok := events.As[erc721Transfer](out[0])
	require.True(t, ok)
	require.Equal(t, from, nft.Payload.From)
	require.Equal(t, to, nft.Payload.To)
	require.Equal(t, "77", nft.Payload.TokenID.String())
	require.Equal(t, uint64(10), nft.Timestamp())

	lg20 := &gethtypes.Log{
		Topics: []common.Hash{sig20, tests.AddrTopic(from), tests.AddrTopic(to)},
		Data:   tests.MustPack(t, a20.Events["Transfer"].Inputs.NonIndexed(), big.NewInt(5)),
	}

	out, matched, err = reg.HandleLog(lg20, events.MetaFromLog(lg20, 0))
	require.NoError(t, err)
	require.True(t, matched)
	require.Len(t, events.Filter[erc20Transfer](out), 1)
	require.Empty(t, events.Filter[erc721Transfer](out))
}

func TestRegistryIgnoresEmptyTopics(t *testing.T) {
	t.Parallel()

	reg := events.NewRegistry[events.AppEvent]()

	out, matched, err := reg.HandleLog(&gethtypes.Log{}, events.Meta{})
	require.NoError(t, err)
	require.False(t, matched)
	require.Empty(t, out)
}
