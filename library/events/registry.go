package events

import (
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Meta carries the provenance of a decoded log.
type Meta struct {
	Contract    common.Address // lg.Address
	TxHash      common.Hash
	LogIndex    uint
	BlockNumber uint64
	BlockTime   uint64 // unix seconds of the enclosing block
}

// MetaFromLog copies provenance out of a log; the block time has to come from the header.
func MetaFromLog(lg *gethtypes.Log, blockTime uint64) Meta {
	return Meta{
		Contract:    lg.Address,
		TxHash:      lg.TxHash,
		LogIndex:    lg.Index,
		BlockNumber: lg.BlockNumber,
		BlockTime:   blockTime,
	}
}

type Mapper[R any] func(meta Meta, val any) ([]R, error)

type regEntry[R any] struct {
	abi       abi.ABI
	eventName string
	decode    func(a abi.ABI, name string, lg *gethtypes.Log) (any, bool, error)
	mapper    Mapper[R]
}

type Registry[R any] struct {
	mu sync.RWMutex
	// several entries per topic0: ERC-20 and ERC-721 Transfer share a signature
	m map[common.Hash][]regEntry[R]
}

func NewRegistry[R any]() *Registry[R] {
	return &Registry[R]{m: make(map[common.Hash][]regEntry[R])}
}

// Register binds a topic0 to a typed decoder T and a mapper to R.
func Register[T any, R any](
	r *Registry[R],
	evSig common.Hash,
	a abi.ABI,
	eventName string,
	mapper func(T, Meta) ([]R, error),
) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := regEntry[R]{
		abi:       a,
		eventName: eventName,
		decode: func(a abi.ABI, name string, lg *gethtypes.Log) (any, bool, error) {
			return DecodeEventInto[T](a, name, lg)
		},
		mapper: func(meta Meta, v any) ([]R, error) {
			return mapper(v.(T), meta)
		},
	}
	r.m[evSig] = append(r.m[evSig], entry)
}

// Signatures returns every registered topic0.
func (r *Registry[R]) Signatures() []common.Hash {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]common.Hash, 0, len(r.m))
	for sig := range r.m {
		out = append(out, sig)
	}

	return out
}

// HandleLog decodes and maps a single log into []R based on topic0.
func (r *Registry[R]) HandleLog(lg *gethtypes.Log, meta Meta) ([]R, bool, error) {
	if len(lg.Topics) == 0 {
		return nil, false, nil
	}

	r.mu.RLock()
	entries, ok := r.m[lg.Topics[0]]
	r.mu.RUnlock()

	if !ok || len(entries) == 0 {
		return nil, false, nil
	}

	// try every candidate under this signature until one matches
	for _, ent := range entries {
		val, matched, err := ent.decode(ent.abi, ent.eventName, lg)
		if !matched {
			continue
		}

		if err != nil {
			return nil, true, err
		}

		out, mapErr := ent.mapper(meta, val)

		return out, true, mapErr
	}

	return nil, false, nil
}
