package subscriber

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/0xAtelerix/talentgraph/library/events"
	"github.com/0xAtelerix/talentgraph/library/tests"
	"github.com/0xAtelerix/talentgraph/store"
)

const cidUpdatedABI = `[{"type":"event","name":"CidUpdated","anonymous":false,"inputs":[
	{"name":"_tokenId","type":"uint256","indexed":true},
	{"name":"_newCid","type":"string","indexed":false}]}]`

type cidUpdated struct {
	TokenID *big.Int `abi:"_tokenId"`
	NewCid  string   `abi:"_newCid"`
}

func cidLog(t *testing.T, a abi.ABI, contract common.Address, id int64, cid string) *gethtypes.Log {
	t.Helper()

	ev := a.Events["CidUpdated"]

	return &gethtypes.Log{
		Address:     contract,
		Topics:      []common.Hash{ev.ID, tests.UintTopic(id)},
		Data:        tests.MustPack(t, ev.Inputs.NonIndexed(), cid),
		BlockNumber: 7,
		TxHash:      common.HexToHash("0xabc"),
		Index:       3,
	}
}

func TestHandleRoutesSameSignatureByContract(t *testing.T) {
	t.Parallel()

	a, err := abi.JSON(strings.NewReader(cidUpdatedABI))
	require.NoError(t, err)

	platforms, users := tests.Addr(1), tests.Addr(2)

	var gotPlatform, gotUser []events.Event[cidUpdated]

	s := NewSubscriber()

	_, err = AddEVMEvent(s, platforms, a, "CidUpdated", "platform.CidUpdated",
		func(_ context.Context, ev events.Event[cidUpdated], _ store.Tx) error {
			gotPlatform = append(gotPlatform, ev)

			return nil
		})
	require.NoError(t, err)

	_, err = AddEVMEvent(s, users, a, "CidUpdated", "user.CidUpdated",
		func(_ context.Context, ev events.Event[cidUpdated], _ store.Tx) error {
			gotUser = append(gotUser, ev)

			return nil
		})
	require.NoError(t, err)

	handled, err := s.Handle(t.Context(), nil, cidLog(t, a, users, 9, "QmUser"), 1_700_000_000)
	require.NoError(t, err)
	require.True(t, handled)

	require.Empty(t, gotPlatform)
	require.Len(t, gotUser, 1)
	require.Equal(t, "9", gotUser[0].Payload.TokenID.String())
	require.Equal(t, "QmUser", gotUser[0].Payload.NewCid)
	require.Equal(t, uint64(1_700_000_000), gotUser[0].Timestamp())
	require.Equal(t, uint64(7), gotUser[0].Meta.BlockNumber)
	require.Equal(t, common.HexToHash("0xabc").Hex()+"-3", gotUser[0].UniqueID())
}

func TestHandleIgnoresUnknownContractAndSignature(t *testing.T) {
	t.Parallel()

	a, err := abi.JSON(strings.NewReader(cidUpdatedABI))
	require.NoError(t, err)

	s := NewSubscriber()

	_, err = AddEVMEvent(s, tests.Addr(1), a, "CidUpdated", "platform.CidUpdated", Ignore[cidUpdated])
	require.NoError(t, err)

	handled, err := s.Handle(t.Context(), nil, cidLog(t, a, tests.Addr(5), 1, "Qm"), 0)
	require.NoError(t, err)
	require.False(t, handled)

	lg := cidLog(t, a, tests.Addr(1), 1, "Qm")
	lg.Topics[0] = common.HexToHash("0xdead")

	handled, err = s.Handle(t.Context(), nil, lg, 0)
	require.NoError(t, err)
	require.False(t, handled)
}

func TestHandlePropagatesHandlerError(t *testing.T) {
	t.Parallel()

	a, err := abi.JSON(strings.NewReader(cidUpdatedABI))
	require.NoError(t, err)

	s := NewSubscriber()

	boom := context.Canceled

	_, err = AddEVMEvent(s, tests.Addr(1), a, "CidUpdated", "platform.CidUpdated",
		func(context.Context, events.Event[cidUpdated], store.Tx) error {
			return boom
		})
	require.NoError(t, err)

	handled, err := s.Handle(t.Context(), nil, cidLog(t, a, tests.Addr(1), 1, "Qm"), 0)
	require.True(t, handled)
	require.ErrorIs(t, err, boom)
}

func TestAddEVMEventUnknownEvent(t *testing.T) {
	t.Parallel()

	a, err := abi.JSON(strings.NewReader(cidUpdatedABI))
	require.NoError(t, err)

	_, err = AddEVMEvent(NewSubscriber(), tests.Addr(1), a, "Nope", "x", Ignore[cidUpdated])
	require.ErrorIs(t, err, events.ErrABIUnknownEvent)
}

func TestContractsAndTopicsSorted(t *testing.T) {
	t.Parallel()

	a, err := abi.JSON(strings.NewReader(cidUpdatedABI))
	require.NoError(t, err)

	s := NewSubscriber()
	for _, b := range []byte{9, 3, 5} {
		_, err = AddEVMEvent(s, tests.Addr(b), a, "CidUpdated", "k", Ignore[cidUpdated])
		require.NoError(t, err)
	}

	require.Equal(t, []common.Address{tests.Addr(3), tests.Addr(5), tests.Addr(9)}, s.Contracts())
	require.Equal(t, []common.Hash{a.Events["CidUpdated"].ID}, s.Topics())
}
