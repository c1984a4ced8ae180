package ipfs_test

import (
	"math/big"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/0xAtelerix/talentgraph/ipfs"
	"github.com/0xAtelerix/talentgraph/library"
	"github.com/0xAtelerix/talentgraph/library/tests"
	"github.com/0xAtelerix/talentgraph/store"
)

const cid = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

func TestDataContext(t *testing.T) {
	t.Parallel()

	dc := ipfs.NewDataContext().
		SetBigInt(ipfs.KeyServiceID, big.NewInt(12)).
		SetString(ipfs.KeyProposalID, "12-3").
		SetUint64(ipfs.KeyTimestamp, 1_700_000_000)

	id, err := dc.GetBigInt(ipfs.KeyServiceID)
	require.NoError(t, err)
	require.Equal(t, "12", id.String())

	p, err := dc.GetString(ipfs.KeyProposalID)
	require.NoError(t, err)
	require.Equal(t, "12-3", p)

	_, err = dc.GetString(ipfs.KeyServiceID)
	require.ErrorIs(t, err, library.ErrWrongContextKind)

	_, err = dc.GetBigInt(ipfs.KeyUserID)
	require.ErrorIs(t, err, library.ErrMissingContext)
}

func TestScheduleQueuesInOrder(t *testing.T) {
	t.Parallel()

	db := tests.TestStore(t)
	logger := zerolog.Nop()
	s := ipfs.NewScheduler(&logger)

	err := db.Update(t.Context(), func(tx store.Tx) error {
		for i := range 12 {
			ok, err := s.Schedule(tx, ipfs.ServiceData, "ipfs://"+cid,
				ipfs.NewDataContext().SetBigInt(ipfs.KeyServiceID, big.NewInt(int64(i))), uint64(100+i))
			require.NoError(t, err)
			require.True(t, ok)
		}

		return nil
	})
	require.NoError(t, err)

	var pending []ipfs.Pending

	err = db.View(t.Context(), func(r store.Reader) error {
		var err error

		pending, err = ipfs.PendingRequests(r, 100)

		return err
	})
	require.NoError(t, err)
	require.Len(t, pending, 12)

	for i, p := range pending {
		require.Equal(t, ipfs.ServiceData, p.Kind)
		require.Equal(t, cid, p.CID)
		require.Equal(t, uint64(100+i), p.ScheduledAt)

		id, err := p.Context.GetBigInt(ipfs.KeyServiceID)
		require.NoError(t, err)
		require.Equal(t, int64(i), id.Int64())

		docID, err := p.Context.GetString(ipfs.KeyID)
		require.NoError(t, err)
		require.Equal(t, cid, docID)
	}

	err = db.View(t.Context(), func(r store.Reader) error {
		first, err := ipfs.PendingRequests(r, 5)
		require.Len(t, first, 5)

		return err
	})
	require.NoError(t, err)

	err = db.Update(t.Context(), func(tx store.Tx) error {
		return ipfs.Remove(tx, pending[0].Key)
	})
	require.NoError(t, err)

	err = db.View(t.Context(), func(r store.Reader) error {
		rest, err := ipfs.PendingRequests(r, 100)
		require.Len(t, rest, 11)
		require.Equal(t, pending[1].Key, rest[0].Key)

		return err
	})
	require.NoError(t, err)
}

func TestScheduleSkipsInvalidCID(t *testing.T) {
	t.Parallel()

	db := tests.TestStore(t)
	logger := zerolog.Nop()
	s := ipfs.NewScheduler(&logger)

	err := db.Update(t.Context(), func(tx store.Tx) error {
		ok, err := s.Schedule(tx, ipfs.UserData, "not a cid", nil, 1)
		require.NoError(t, err)
		require.False(t, ok)

		return nil
	})
	require.NoError(t, err)

	err = db.View(t.Context(), func(r store.Reader) error {
		pending, err := ipfs.PendingRequests(r, 10)
		require.Empty(t, pending)

		return err
	})
	require.NoError(t, err)
}

func TestScheduleRollsBackWithTransaction(t *testing.T) {
	t.Parallel()

	db := tests.TestStore(t)
	logger := zerolog.Nop()
	s := ipfs.NewScheduler(&logger)

	err := db.Update(t.Context(), func(tx store.Tx) error {
		_, err := s.Schedule(tx, ipfs.UserData, cid, nil, 1)
		require.NoError(t, err)

		return library.ErrEntityNotFound
	})
	require.ErrorIs(t, err, library.ErrEntityNotFound)

	err = db.View(t.Context(), func(r store.Reader) error {
		pending, err := ipfs.PendingRequests(r, 10)
		require.Empty(t, pending)

		return err
	})
	require.NoError(t, err)
}
