package events

import (
	"fmt"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// DecodeEventInto decodes a log of eventName into T. Fields bind by `abi` tag,
// else by field name, case-insensitively. uint values may land in *big.Int,
// uint256.Int or *uint256.Int fields.
//
// matched is false when the log is a different event or a variant of the same
// signature with another indexed layout (ERC20 vs ERC721 Transfer).
func DecodeEventInto[T any](a abi.ABI, eventName string, lg *gethtypes.Log) (out T, matched bool, err error) {
	ev, ok := a.Events[eventName]
	if !ok {
		return out, false, fmt.Errorf("%w: %s", ErrABIUnknownEvent, eventName)
	}

	if len(lg.Topics) == 0 || lg.Topics[0] != ev.ID {
		return out, false, nil
	}

	p, err := planFor(reflect.TypeFor[T](), ev)
	if err != nil {
		return out, true, err
	}

	if len(lg.Topics)-1 != len(p.indexed) {
		return out, false, nil
	}

	if err = p.apply(reflect.ValueOf(&out).Elem(), lg.Topics[1:], lg.Data); err != nil {
		var zero T

		return zero, true, fmt.Errorf("%s: %w", eventName, err)
	}

	return out, true, nil
}
