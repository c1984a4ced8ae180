package subscriber

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/0xAtelerix/talentgraph/library/events"
	"github.com/0xAtelerix/talentgraph/store"
)

// Subscriber owns the contract set the indexer follows and routes their logs to handlers.
//
// Registries are per contract: several protocol contracts emit events with the
// same signature (CidUpdated, MintFeeUpdated) that mean different things.
type Subscriber struct {
	Registries map[common.Address]*events.Registry[events.AppEvent] // contract -> topic0 decoders
	Handlers   map[string]AppEventHandler                           // kind -> handler

	mu sync.RWMutex
}

func NewSubscriber() *Subscriber {
	return &Subscriber{
		Registries: make(map[common.Address]*events.Registry[events.AppEvent]),
		Handlers:   make(map[string]AppEventHandler),
	}
}

// Subscribe adds a contract and, optionally, a handler for one event kind.
func (s *Subscriber) Subscribe(contract common.Address, h ...AppEventHandler) *events.Registry[events.AppEvent] {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.Registries[contract]
	if !ok {
		reg = events.NewRegistry[events.AppEvent]()
		s.Registries[contract] = reg
	}

	if len(h) > 0 && h[0] != nil {
		s.Handlers[h[0].Kind()] = h[0]
	}

	return reg
}

// Contracts returns the subscribed addresses in byte order.
func (s *Subscriber) Contracts() []common.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.Address, 0, len(s.Registries))
	for addr := range s.Registries {
		out = append(out, addr)
	}

	slices.SortFunc(out, func(a, b common.Address) int {
		return bytes.Compare(a[:], b[:])
	})

	return out
}

// Topics returns the union of topic0 values over every contract, sorted.
func (s *Subscriber) Topics() []common.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[common.Hash]struct{})
	for _, reg := range s.Registries {
		for _, sig := range reg.Signatures() {
			seen[sig] = struct{}{}
		}
	}

	out := make([]common.Hash, 0, len(seen))
	for sig := range seen {
		out = append(out, sig)
	}

	slices.SortFunc(out, func(a, b common.Hash) int {
		return bytes.Compare(a[:], b[:])
	})

	return out
}

// Handle decodes lg against its contract's registry and runs the handler of every produced event.
// Logs from unknown contracts or with unregistered signatures return handled == false.
func (s *Subscriber) Handle(
	ctx context.Context,
	tx store.Tx,
	lg *gethtypes.Log,
	blockTime uint64,
) (handled bool, err error) {
	s.mu.RLock()
	reg, ok := s.Registries[lg.Address]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}

	evs, matched, err := reg.HandleLog(lg, events.MetaFromLog(lg, blockTime))
	if !matched {
		return false, nil
	}

	if err != nil {
		return true, fmt.Errorf("decode log %s#%d: %w", lg.TxHash.Hex(), lg.Index, err)
	}

	for _, ev := range evs {
		s.mu.RLock()
		h, ok := s.Handlers[ev.Kind()]
		s.mu.RUnlock()

		if !ok {
			continue
		}

		if err = h.Handle(ctx, []events.AppEvent{ev}, tx); err != nil {
			return true, fmt.Errorf("%s at block %d: %w", ev.Kind(), lg.BlockNumber, err)
		}
	}

	return true, nil
}
