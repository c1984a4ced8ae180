package metadata

import (
	"bytes"
	"math/big"

	"github.com/goccy/go-json"

	"github.com/0xAtelerix/talentgraph/library"
)

// JSONKind is the kind of a raw JSON value, decided by its first byte.
type JSONKind uint8

const (
	Missing JSONKind = iota
	Null
	Bool
	Number
	String
	Array
	Object
)

// Document is a parsed top-level JSON object. Values stay raw until a field is read.
type Document struct {
	fields map[string]json.RawMessage
}

const (
	errInvalidJSON = library.IndexerError("document is not valid JSON")
	errNotObject   = library.IndexerError("document is not a JSON object")
)

// ParseDocument accepts only a single, fully valid JSON object. Nested values
// are validated up front because they stay raw until read.
func ParseDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, errInvalidJSON
	}

	if trimmed[0] != '{' {
		return nil, errNotObject
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, err
	}

	return &Document{fields: fields}, nil
}

// Field returns the value under key; a missing key yields a Missing value.
func (d *Document) Field(key string) Value {
	raw, ok := d.fields[key]
	if !ok {
		return Value{}
	}

	return Value{raw: bytes.TrimSpace(raw)}
}

// Value is one field of a Document. The As* accessors never coerce: a value
// of any other kind reads as nil.
type Value struct {
	raw json.RawMessage
}

func (v Value) Kind() JSONKind {
	if len(v.raw) == 0 {
		return Missing
	}

	switch c := v.raw[0]; {
	case c == 'n':
		return Null
	case c == 't' || c == 'f':
		return Bool
	case c == '"':
		return String
	case c == '[':
		return Array
	case c == '{':
		return Object
	default:
		return Number
	}
}

func (v Value) AsString() *string {
	if v.Kind() != String {
		return nil
	}

	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return nil
	}

	return &s
}

// AsBigInt reads integer literals only; fractions and exponents are absent.
func (v Value) AsBigInt() *big.Int {
	if v.Kind() != Number {
		return nil
	}

	n, ok := new(big.Int).SetString(string(v.raw), 10)
	if !ok {
		return nil
	}

	return n
}
