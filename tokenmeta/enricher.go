// Package tokenmeta caches ERC20 metadata for every token the protocol references.
package tokenmeta

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"

	"github.com/0xAtelerix/talentgraph/entity"
	"github.com/0xAtelerix/talentgraph/metrics"
	"github.com/0xAtelerix/talentgraph/scheme"
	"github.com/0xAtelerix/talentgraph/store"
)

// Caller is the read-only contract call surface; *ethclient.Client satisfies it.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Result is the outcome of one best-effort call. OK is false when it reverted.
type Result[T any] struct {
	Value T
	OK    bool
}

func (r Result[T]) Ptr() *T {
	if !r.OK {
		return nil
	}

	v := r.Value

	return &v
}

type Enricher struct {
	caller Caller
	logger *zerolog.Logger
}

func NewEnricher(caller Caller, logger *zerolog.Logger) *Enricher {
	return &Enricher{caller: caller, logger: logger}
}

// GetOrCreateToken returns the cached Token for addr, or queries symbol, name
// and decimals at the given block and writes the Token once.
func (e *Enricher) GetOrCreateToken(
	ctx context.Context,
	tx store.Tx,
	addr common.Address,
	block uint64,
) (*entity.Token, error) {
	id := entity.TokenID(addr)

	token := &entity.Token{}

	ok, err := tx.Get(scheme.TokenBucket, id, token)
	if err != nil {
		return nil, err
	}

	if ok {
		return token, nil
	}

	var at *big.Int
	if block > 0 {
		at = new(big.Int).SetUint64(block)
	}

	symbol, err := call[string](ctx, e, addr, at, MethodSymbol)
	if err != nil {
		return nil, err
	}

	name, err := call[string](ctx, e, addr, at, MethodName)
	if err != nil {
		return nil, err
	}

	decimals, err := call[uint8](ctx, e, addr, at, MethodDecimals)
	if err != nil {
		return nil, err
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	token = &entity.Token{
		ID:       id,
		Address:  id,
		Symbol:   symbol.Ptr(),
		Name:     name.Ptr(),
		Decimals: decimals.Ptr(),
	}

	if err = token.Save(tx); err != nil {
		return nil, err
	}

	return token, nil
}

// executionRevertedCode is the JSON-RPC error code nodes use for a reverted eth_call.
const executionRevertedCode = 3

// isRevert tells a contract-level failure apart from a transport one. Only
// the former may be cached as missing metadata.
func isRevert(err error) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == executionRevertedCode {
		return true
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "execution reverted")
}

// call returns a zero Result when the contract reverted or answered with
// undecodable data. Any other call failure is returned as an error.
func call[T any](ctx context.Context, e *Enricher, token common.Address, at *big.Int, method string) (Result[T], error) {
	reverted := func(err error) (Result[T], error) {
		metrics.TokenCalls.WithLabelValues(method, metrics.OutcomeReverted).Inc()
		e.logger.Info().
			Str("token", token.Hex()).
			Str("method", method).
			Err(err).
			Msg("Reverted")

		return Result[T]{}, nil
	}

	data, err := erc20Metadata.Pack(method)
	if err != nil {
		return Result[T]{}, fmt.Errorf("pack %s: %w", method, err)
	}

	out, err := e.caller.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, at)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result[T]{}, ctxErr
		}

		if !isRevert(err) {
			metrics.TokenCalls.WithLabelValues(method, metrics.OutcomeFailed).Inc()

			return Result[T]{}, fmt.Errorf("%s on token %s: %w", method, token.Hex(), err)
		}

		return reverted(err)
	}

	if len(out) == 0 {
		return reverted(nil)
	}

	vals, err := erc20Metadata.Unpack(method, out)
	if err != nil {
		return reverted(err)
	}

	if len(vals) != 1 {
		return reverted(nil)
	}

	v, ok := vals[0].(T)
	if !ok {
		return reverted(nil)
	}

	metrics.TokenCalls.WithLabelValues(method, metrics.OutcomeOK).Inc()
	e.logger.Info().
		Str("token", token.Hex()).
		Str("method", method).
		Any("value", v).
		Msg("Token metadata")

	return Result[T]{Value: v, OK: true}, nil
}
