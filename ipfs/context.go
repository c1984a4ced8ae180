package ipfs

import (
	"fmt"
	"math/big"

	"github.com/0xAtelerix/talentgraph/library"
)

// Context keys shared by the event handlers that schedule documents and the
// document handlers that consume them.
const (
	KeyID         = "id" // CID of the document, the description id
	KeyTimestamp  = "timestamp"
	KeyServiceID  = "serviceId"
	KeyProposalID = "proposalId"
	KeyUserID     = "userId"
	KeyPlatformID = "platformId"
	KeyReviewID   = "reviewId"
	KeyEvidenceID = "evidenceId"
)

type ValueKind uint8

const (
	StringValue ValueKind = iota + 1
	BigIntValue
)

type ContextValue struct {
	Kind ValueKind `cbor:"1,keyasint"`
	Str  string    `cbor:"2,keyasint,omitempty"`
	Int  *big.Int  `cbor:"3,keyasint,omitempty"`
}

// DataContext is the typed key/value bag a document handler receives from the event that scheduled it.
type DataContext map[string]ContextValue

func NewDataContext() DataContext {
	return make(DataContext)
}

func (c DataContext) SetString(key, v string) DataContext {
	c[key] = ContextValue{Kind: StringValue, Str: v}

	return c
}

func (c DataContext) SetBigInt(key string, v *big.Int) DataContext {
	if v == nil {
		v = new(big.Int)
	}

	c[key] = ContextValue{Kind: BigIntValue, Int: new(big.Int).Set(v)}

	return c
}

func (c DataContext) SetUint64(key string, v uint64) DataContext {
	return c.SetBigInt(key, new(big.Int).SetUint64(v))
}

func (c DataContext) GetString(key string) (string, error) {
	v, ok := c[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", library.ErrMissingContext, key)
	}

	if v.Kind != StringValue {
		return "", fmt.Errorf("%w: %s is not a string", library.ErrWrongContextKind, key)
	}

	return v.Str, nil
}

func (c DataContext) GetBigInt(key string) (*big.Int, error) {
	v, ok := c[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", library.ErrMissingContext, key)
	}

	if v.Kind != BigIntValue || v.Int == nil {
		return nil, fmt.Errorf("%w: %s is not a big integer", library.ErrWrongContextKind, key)
	}

	return new(big.Int).Set(v.Int), nil
}
