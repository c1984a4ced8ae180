// Package store persists entities keyed by bucket and string id.
//
// Plain entities live under their id and are overwritten by Put. Description
// entities are written with Append, which keeps every write as a new version
// of the same id; Latest returns the most recent one.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/0xAtelerix/talentgraph/library"
)

type Reader interface {
	// Get decodes the entity stored under id into dst. ok is false on a miss.
	Get(bucket, id string, dst any) (ok bool, err error)
	// Latest decodes the newest version of a versioned id into dst.
	Latest(bucket, id string, dst any) (version uint32, ok bool, err error)
	// Versions counts the versions written for id.
	Versions(bucket, id string) (uint32, error)
	// ForEach walks plain keys of a bucket in key order. raw is only valid inside fn.
	ForEach(bucket string, fn func(id string, raw []byte) error) error
}

type Tx interface {
	Reader
	Put(bucket, id string, v any) error
	Append(bucket, id string, v any) (version uint32, err error)
	Delete(bucket, id string) error
}

type DB interface {
	Update(ctx context.Context, fn func(Tx) error) error
	View(ctx context.Context, fn func(Reader) error) error
	Close()
}

//nolint:gochecknoglobals // read only after init
var encMode cbor.EncMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

func Encode(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

func Decode(raw []byte, dst any) error {
	if err := cbor.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %w", library.ErrCorruptedValue, err)
	}

	return nil
}

func checkID(id string) error {
	if id == "" || strings.IndexByte(id, 0) >= 0 {
		return fmt.Errorf("%w: %q", library.ErrMalformedKey, id)
	}

	return nil
}
