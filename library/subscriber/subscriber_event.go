package subscriber

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/0xAtelerix/talentgraph/library/events"
	"github.com/0xAtelerix/talentgraph/store"
)

// AddEVMEvent registers (contract, ABI, eventName) -> kind and attaches a
// type-safe handler for that kind.
func AddEVMEvent[T any](
	s *Subscriber,
	contract common.Address,
	a abi.ABI,
	eventName string,
	kind string,
	fn func(context.Context, events.Event[T], store.Tx) error,
) (sig common.Hash, err error) {
	reg := s.Subscribe(contract, NewEVMHandler(kind, fn))

	sig, err = events.RegisterEvent[T](reg, a, eventName, kind)
	if err != nil {
		return common.Hash{}, err
	}

	return sig, nil
}
