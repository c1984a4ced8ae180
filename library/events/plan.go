package events

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// setter stores one decoded ABI value into its destination field.
type setter func(dst, src reflect.Value) error

// slot binds one event input to a field of the payload struct.
type slot struct {
	name string
	path []int
	set  setter
}

// plan is the compiled layout of one event onto one payload type. Inputs the
// payload does not declare have no slot and are dropped.
type plan struct {
	indexed    abi.Arguments
	nonIndexed abi.Arguments
	slots      []slot
}

// planKey includes the indexed layout: ERC20 and ERC721 Transfer share an ID.
type planKey struct {
	payload reflect.Type
	event   common.Hash
	layout  string
}

func layoutOf(ev abi.Event) string {
	var b strings.Builder

	for _, arg := range ev.Inputs {
		if arg.Indexed {
			b.WriteByte('i')
		} else {
			b.WriteByte('d')
		}
	}

	return b.String()
}

//nolint:gochecknoglobals // plans are shared by every registry
var plans sync.Map // planKey -> *plan

func planFor(t reflect.Type, ev abi.Event) (*plan, error) {
	key := planKey{payload: t, event: ev.ID, layout: layoutOf(ev)}

	if p, ok := plans.Load(key); ok {
		return p.(*plan), nil //nolint:forcetypeassert // only *plan is stored
	}

	p, err := compile(t, ev)
	if err != nil {
		return nil, err
	}

	actual, _ := plans.LoadOrStore(key, p)

	return actual.(*plan), nil //nolint:forcetypeassert // only *plan is stored
}

func compile(t reflect.Type, ev abi.Event) (*plan, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v", ErrStructRequired, t)
	}

	fields := make(map[string][]int)
	collectFields(t, nil, fields)

	p := &plan{nonIndexed: ev.Inputs.NonIndexed()}

	for _, arg := range ev.Inputs {
		if arg.Indexed {
			p.indexed = append(p.indexed, arg)
		}

		path, ok := fields[strings.ToLower(arg.Name)]
		if !ok {
			continue
		}

		set, err := setterFor(sourceType(arg), t.FieldByIndex(path).Type)
		if err != nil {
			return nil, fmt.Errorf("%w for %s.%s", err, ev.Name, arg.Name)
		}

		p.slots = append(p.slots, slot{name: arg.Name, path: path, set: set})
	}

	return p, nil
}

// collectFields maps lower-cased abi names (tag, else field name) to field
// paths, descending into embedded structs.
func collectFields(t reflect.Type, prefix []int, out map[string][]int) {
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		path := append(append([]int(nil), prefix...), i)

		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			collectFields(sf.Type, path, out)

			continue
		}

		name := sf.Tag.Get("abi")
		if name == "" {
			name = sf.Name
		}

		out[strings.ToLower(name)] = path
	}
}

// sourceType is the Go type go-ethereum yields for arg. Indexed dynamic
// values only survive as their topic hash.
func sourceType(arg abi.Argument) reflect.Type {
	if arg.Indexed {
		switch arg.Type.T {
		case abi.StringTy, abi.BytesTy, abi.SliceTy, abi.ArrayTy:
			return reflect.TypeFor[common.Hash]()
		}
	}

	return arg.Type.GetType()
}

//nolint:gochecknoglobals // reflect types of the canonical amount forms
var (
	bigIntType  = reflect.TypeFor[*big.Int]()
	u256Type    = reflect.TypeFor[uint256.Int]()
	u256PtrType = reflect.TypeFor[*uint256.Int]()
)

func setterFor(src, dst reflect.Type) (setter, error) {
	switch {
	case src.AssignableTo(dst):
		return func(d, s reflect.Value) error {
			d.Set(s)

			return nil
		}, nil

	case src == bigIntType && (dst == u256Type || dst == u256PtrType):
		return func(d, s reflect.Value) error {
			u, err := toUint256(s.Interface().(*big.Int)) //nolint:forcetypeassert // checked at compile
			if err != nil {
				return err
			}

			if dst == u256PtrType {
				d.Set(reflect.ValueOf(u))
			} else {
				d.Set(reflect.ValueOf(*u))
			}

			return nil
		}, nil

	case src.ConvertibleTo(dst):
		return func(d, s reflect.Value) error {
			d.Set(s.Convert(dst))

			return nil
		}, nil
	}

	return nil, fmt.Errorf("%w: have %v want %v", ErrABIPlanTypeMismatched, src, dst)
}

func toUint256(v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}

	if v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s", ErrABIValueOutOfRange, v)
	}

	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("%w: %s", ErrABIValueOutOfRange, v)
	}

	return u, nil
}

// apply decodes the log body and topics and writes them into dst.
func (p *plan) apply(dst reflect.Value, topics []common.Hash, data []byte) error {
	values := make(map[string]any, len(p.indexed)+len(p.nonIndexed))

	if err := p.nonIndexed.UnpackIntoMap(values, data); err != nil {
		return fmt.Errorf("unpack data: %w", err)
	}

	if err := abi.ParseTopicsIntoMap(values, p.indexed, topics); err != nil {
		return fmt.Errorf("parse topics: %w", err)
	}

	for _, s := range p.slots {
		v, ok := values[s.name]
		if !ok {
			continue
		}

		if err := s.set(dst.FieldByIndex(s.path), reflect.ValueOf(v)); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	return nil
}
