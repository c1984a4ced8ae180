package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/ledgerwatch/erigon-lib/kv"
	"github.com/ledgerwatch/erigon-lib/kv/mdbx"
	mdbxlog "github.com/ledgerwatch/log/v3"

	"github.com/0xAtelerix/talentgraph/scheme"
)

// KV is the erigon-lib kv backend: MDBX in production, memdb in tests.
type KV struct {
	db kv.RwDB
}

func NewKV(db kv.RwDB) *KV {
	return &KV{db: db}
}

// OpenMDBX opens (or creates) an MDBX environment with every indexer table.
func OpenMDBX(path string) (*KV, error) {
	db, err := mdbx.NewMDBX(mdbxlog.New()).
		Path(path).
		WithTableCfg(func(_ kv.TableCfg) kv.TableCfg {
			return scheme.DefaultTables()
		}).
		Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open mdbx at %s: %w", path, err)
	}

	return NewKV(db), nil
}

func (s *KV) Update(ctx context.Context, fn func(Tx) error) error {
	return s.db.Update(ctx, func(tx kv.RwTx) error {
		return fn(&kvTx{kvReader: kvReader{tx: tx}, rw: tx})
	})
}

func (s *KV) View(ctx context.Context, fn func(Reader) error) error {
	return s.db.View(ctx, func(tx kv.Tx) error {
		return fn(&kvReader{tx: tx})
	})
}

func (s *KV) Close() {
	s.db.Close()
}

type kvReader struct {
	tx kv.Tx
}

type kvTx struct {
	kvReader

	rw kv.RwTx
}

func versionPrefix(id string) []byte {
	return append([]byte(id), 0)
}

func versionKey(id string, version uint32) []byte {
	key := versionPrefix(id)

	return binary.BigEndian.AppendUint32(key, version)
}

func (r *kvReader) Get(bucket, id string, dst any) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}

	v, err := r.tx.GetOne(bucket, []byte(id))
	if err != nil {
		return false, err
	}

	if v == nil {
		return false, nil
	}

	return true, Decode(v, dst)
}

// lastVersion finds the newest version key under id and hands its value to fn.
func (r *kvReader) lastVersion(bucket, id string, fn func(v []byte) error) (uint32, error) {
	if err := checkID(id); err != nil {
		return 0, err
	}

	c, err := r.tx.Cursor(bucket)
	if err != nil {
		return 0, err
	}
	defer c.Close()

	prefix := versionPrefix(id)

	var (
		last    uint32
		lastVal []byte
	)

	k, v, err := c.Seek(prefix)
	for ; err == nil && k != nil; k, v, err = c.Next() {
		if !bytes.HasPrefix(k, prefix) || len(k) != len(prefix)+4 {
			break
		}

		last = binary.BigEndian.Uint32(k[len(prefix):])
		lastVal = bytes.Clone(v)
	}

	if err != nil {
		return 0, err
	}

	if last == 0 || fn == nil {
		return last, nil
	}

	return last, fn(lastVal)
}

func (r *kvReader) Latest(bucket, id string, dst any) (uint32, bool, error) {
	version, err := r.lastVersion(bucket, id, func(v []byte) error {
		return Decode(v, dst)
	})
	if err != nil {
		return 0, false, err
	}

	return version, version > 0, nil
}

func (r *kvReader) Versions(bucket, id string) (uint32, error) {
	return r.lastVersion(bucket, id, nil)
}

func (r *kvReader) ForEach(bucket string, fn func(id string, raw []byte) error) error {
	return r.tx.ForEach(bucket, nil, func(k, v []byte) error {
		return fn(string(k), v)
	})
}

func (t *kvTx) Put(bucket, id string, v any) error {
	if err := checkID(id); err != nil {
		return err
	}

	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", bucket, id, err)
	}

	return t.rw.Put(bucket, []byte(id), data)
}

func (t *kvTx) Append(bucket, id string, v any) (uint32, error) {
	last, err := t.lastVersion(bucket, id, nil)
	if err != nil {
		return 0, err
	}

	data, err := Encode(v)
	if err != nil {
		return 0, fmt.Errorf("encode %s/%s: %w", bucket, id, err)
	}

	next := last + 1
	if err := t.rw.Put(bucket, versionKey(id, next), data); err != nil {
		return 0, err
	}

	return next, nil
}

func (t *kvTx) Delete(bucket, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	return t.rw.Delete(bucket, []byte(id))
}
