package tests

import (
	"testing"

	"github.com/ledgerwatch/erigon-lib/kv"
	"github.com/ledgerwatch/erigon-lib/kv/memdb"
	"github.com/stretchr/testify/require"

	"github.com/0xAtelerix/talentgraph/scheme"
	"github.com/0xAtelerix/talentgraph/store"
)

func TestDB(t *testing.T, buckets ...string) (kv.RwDB, func()) {
	t.Helper()

	db := memdb.NewTestDB(t)

	err := db.Update(t.Context(), func(tx kv.RwTx) error {
		for _, bucket := range buckets {
			txErr := tx.CreateBucket(bucket)
			require.NoError(t, txErr)
		}

		return nil
	})
	if err != nil {
		db.Close()
	}

	require.NoError(t, err)

	return db, db.Close
}

// TestStore is an in-memory store with every indexer bucket created.
func TestStore(t *testing.T) *store.KV {
	t.Helper()

	db, closeDB := TestDB(t, scheme.Buckets()...)
	t.Cleanup(closeDB)

	return store.NewKV(db)
}

// CountingTx records writes per bucket on top of another store.Tx.
type CountingTx struct {
	store.Tx

	Puts    map[string]int
	Appends map[string]int
}

func NewCountingTx(tx store.Tx) *CountingTx {
	return &CountingTx{
		Tx:      tx,
		Puts:    make(map[string]int),
		Appends: make(map[string]int),
	}
}

func (c *CountingTx) Put(bucket, id string, v any) error {
	c.Puts[bucket]++

	return c.Tx.Put(bucket, id, v)
}

func (c *CountingTx) Append(bucket, id string, v any) (uint32, error) {
	c.Appends[bucket]++

	return c.Tx.Append(bucket, id, v)
}
