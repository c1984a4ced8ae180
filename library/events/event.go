package events

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// AppEvent is the type-erased form of every decoded event the indexer dispatches.
type AppEvent interface {
	Kind() string
}

// Event wraps a decoded ABI payload T with its provenance.
type Event[T any] struct {
	Payload T

	EventKind string
	Meta      Meta
}

func (e Event[T]) Kind() string {
	return e.EventKind
}

// Timestamp is the enclosing block time in unix seconds.
func (e Event[T]) Timestamp() uint64 {
	return e.Meta.BlockTime
}

// UniqueID identifies the log that produced the event: "<txHash>-<logIndex>".
func (e Event[T]) UniqueID() string {
	return fmt.Sprintf("%s-%d", e.Meta.TxHash.Hex(), e.Meta.LogIndex)
}

// RegisterEvent registers a decoder for T under `kind` and returns the event signature.
func RegisterEvent[T any](
	r *Registry[AppEvent],
	a abi.ABI,
	eventName string,
	kind string,
) (common.Hash, error) {
	ev, ok := a.Events[eventName]
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: %s", ErrABIUnknownEvent, eventName)
	}

	Register[T, AppEvent](r, ev.ID, a, eventName,
		func(t T, m Meta) ([]AppEvent, error) {
			return []AppEvent{Event[T]{
				Payload:   t,
				EventKind: kind,
				Meta:      m,
			}}, nil
		},
	)

	return ev.ID, nil
}

func As[T any](ev AppEvent) (Event[T], bool) {
	v, ok := ev.(Event[T])

	return v, ok
}

func Filter[T any](evs []AppEvent) []Event[T] {
	out := make([]Event[T], 0, len(evs))
	for _, e := range evs {
		if v, ok := e.(Event[T]); ok {
			out = append(out, v)
		}
	}

	return out
}
