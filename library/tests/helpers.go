package tests

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func Addr(i byte) common.Address {
	var a common.Address

	a[19] = i

	return a
}

func AddrTopic(a common.Address) common.Hash {
	var h common.Hash
	copy(h[12:], a[:]) // ABI-encoded indexed address (left-padded to 32)

	return h
}

func UintTopic(v int64) common.Hash {
	return common.BigToHash(big.NewInt(v))
}

func MustPack(t *testing.T, args abi.Arguments, vs ...any) []byte {
	t.Helper()

	b, err := args.Pack(vs...)
	require.NoError(t, err)

	return b
}
