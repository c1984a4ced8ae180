package indexer_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/0xAtelerix/talentgraph/entity"
	"github.com/0xAtelerix/talentgraph/indexer"
	"github.com/0xAtelerix/talentgraph/ipfs"
	"github.com/0xAtelerix/talentgraph/library"
	"github.com/0xAtelerix/talentgraph/library/tests"
	"github.com/0xAtelerix/talentgraph/metadata"
	"github.com/0xAtelerix/talentgraph/scheme"
	"github.com/0xAtelerix/talentgraph/store"
)

const (
	cidOK        = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	cidMissing   = "QmT78zSuBmuS4z925WZfrqQ1qHaJ56DQaTfyMUF7F8ff5o"
	cidMalformed = "QmNLei78zWmzUdbeRB3CiUfAizWUrbeeZh5K1rhAQKCh51"
)

type fakeFetcher struct {
	docs  map[string]string
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, cid string) ([]byte, error) {
	f.calls = append(f.calls, cid)

	doc, ok := f.docs[cid]
	if !ok {
		return nil, library.ErrFetchFailed
	}

	return []byte(doc), nil
}

func scheduleUserData(t *testing.T, db store.DB, cids ...string) {
	t.Helper()

	logger := zerolog.Nop()
	s := ipfs.NewScheduler(&logger)

	err := db.Update(t.Context(), func(tx store.Tx) error {
		for _, c := range cids {
			ok, err := s.Schedule(tx, ipfs.UserData, c,
				ipfs.NewDataContext().SetBigInt(ipfs.KeyUserID, big.NewInt(4)), 10)
			require.NoError(t, err)
			require.True(t, ok)
		}

		return nil
	})
	require.NoError(t, err)
}

func pendingCount(t *testing.T, db store.DB) int {
	t.Helper()

	var n int

	err := db.View(t.Context(), func(r store.Reader) error {
		p, err := ipfs.PendingRequests(r, 100)
		n = len(p)

		return err
	})
	require.NoError(t, err)

	return n
}

func userDescription(t *testing.T, db store.DB, cid string) (entity.UserDescription, bool) {
	t.Helper()

	var (
		d  entity.UserDescription
		ok bool
	)

	err := db.View(t.Context(), func(r store.Reader) error {
		var err error

		ok, err = entity.LatestDescription(r, scheme.UserDescriptionBucket, cid, &d)

		return err
	})
	require.NoError(t, err)

	return d, ok
}

func newDocuments(t *testing.T, db store.DB, f ipfs.Fetcher, batch int) *indexer.Documents {
	t.Helper()

	logger := zerolog.Nop()

	return indexer.NewDocuments(db, f, metadata.NewHandlers(&logger), batch, 0, &logger)
}

func TestDocumentsDrain(t *testing.T) {
	t.Parallel()

	db := tests.TestStore(t)
	f := &fakeFetcher{docs: map[string]string{
		cidOK:        `{"title":"Solidity dev","skills":"Go, SOLIDITY"}`,
		cidMalformed: `not json`,
	}}

	scheduleUserData(t, db, cidOK, cidMissing, cidMalformed)

	n, err := newDocuments(t, db, f, 10).Drain(t.Context())
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []string{cidOK, cidMissing, cidMalformed}, f.calls)

	d, ok := userDescription(t, db, cidOK)
	require.True(t, ok)
	require.Equal(t, "4", d.User)
	require.Equal(t, "Solidity dev", *d.Title)
	require.Equal(t, "go, solidity", *d.SkillsRaw)

	_, ok = userDescription(t, db, cidMissing)
	require.False(t, ok)

	_, ok = userDescription(t, db, cidMalformed)
	require.False(t, ok)

	// every request leaves the queue, failed fetches are not retried
	require.Zero(t, pendingCount(t, db))

	n, err = newDocuments(t, db, f, 10).Drain(t.Context())
	require.NoError(t, err)
	require.Zero(t, n)
	require.Len(t, f.calls, 3)
}

func TestDocumentsDrainHonoursBatchSize(t *testing.T) {
	t.Parallel()

	db := tests.TestStore(t)
	f := &fakeFetcher{docs: map[string]string{cidOK: `{}`}}

	scheduleUserData(t, db, cidOK, cidOK, cidOK)

	docs := newDocuments(t, db, f, 2)

	n, err := docs.Drain(t.Context())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 1, pendingCount(t, db))

	n, err = docs.Drain(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var versions uint32

	err = db.View(t.Context(), func(r store.Reader) error {
		var err error

		versions, err = r.Versions(scheme.UserDescriptionBucket, cidOK)

		return err
	})
	require.NoError(t, err)
	require.Equal(t, uint32(3), versions)
}

func TestDocumentsKeepRequestOnHandlerError(t *testing.T) {
	t.Parallel()

	db := tests.TestStore(t)
	logger := zerolog.Nop()
	f := &fakeFetcher{docs: map[string]string{cidOK: `{}`}}

	// a user document without the user id in its context
	err := db.Update(t.Context(), func(tx store.Tx) error {
		_, err := ipfs.NewScheduler(&logger).Schedule(tx, ipfs.UserData, cidOK, nil, 10)

		return err
	})
	require.NoError(t, err)

	_, err = newDocuments(t, db, f, 10).Drain(t.Context())
	require.ErrorIs(t, err, library.ErrMissingContext)
	require.Equal(t, 1, pendingCount(t, db))
}
