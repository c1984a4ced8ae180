package subscriber

import (
	"context"

	"github.com/0xAtelerix/talentgraph/library/events"
	"github.com/0xAtelerix/talentgraph/store"
)

type AppEventHandler interface {
	Kind() string
	Handle(ctx context.Context, evs []events.AppEvent, tx store.Tx) error
}

type HandlerFor[T any] struct {
	EventKind string
	Filter    func([]events.AppEvent) []events.Event[T]
	Handler   func(context.Context, events.Event[T], store.Tx) error
}

func (h HandlerFor[T]) Kind() string {
	return h.EventKind
}

func (h HandlerFor[T]) Handle(ctx context.Context, evs []events.AppEvent, tx store.Tx) error {
	for _, e := range h.Filter(evs) {
		// filter narrows []AppEvent -> []Event[T]
		if err := h.Handler(ctx, e, tx); err != nil {
			return err
		}
	}

	return nil
}

// NewEVMHandler builds a type-safe handler and returns a type-erased adapter.
func NewEVMHandler[T any](
	kind string,
	fn func(context.Context, events.Event[T], store.Tx) error,
) AppEventHandler {
	return HandlerFor[T]{
		EventKind: kind,
		Filter:    events.Filter[T],
		Handler:   fn,
	}
}

// Ignore is a handler body for events that are decoded but carry nothing to store.
func Ignore[T any](context.Context, events.Event[T], store.Tx) error {
	return nil
}
