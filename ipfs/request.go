package ipfs

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/0xAtelerix/talentgraph/library"
	"github.com/0xAtelerix/talentgraph/scheme"
	"github.com/0xAtelerix/talentgraph/store"
)

// Kind names the document template a request is handled by.
type Kind string

const (
	ServiceData  Kind = "ServiceData"
	ProposalData Kind = "ProposalData"
	UserData     Kind = "UserData"
	PlatformData Kind = "PlatformData"
	ReviewData   Kind = "ReviewData"
	EvidenceData Kind = "EvidenceData"
)

type Request struct {
	Kind        Kind        `cbor:"1,keyasint"`
	CID         string      `cbor:"2,keyasint"`
	Context     DataContext `cbor:"3,keyasint"`
	ScheduledAt uint64      `cbor:"4,keyasint"` // block number of the triggering event
}

// Pending is a queued request together with its queue key.
type Pending struct {
	Key string
	Request
}

// Scheduler queues document requests in the store. Requests are written in
// the caller's transaction, so they commit or roll back with the event.
type Scheduler struct {
	logger *zerolog.Logger
}

func NewScheduler(logger *zerolog.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Schedule queues kind for rawCID. An invalid CID is logged and skipped, scheduled is false then.
func (s *Scheduler) Schedule(
	tx store.Tx,
	kind Kind,
	rawCID string,
	dc DataContext,
	block uint64,
) (scheduled bool, err error) {
	cid, err := NormalizeCID(rawCID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("kind", string(kind)).
			Uint64("block", block).
			Msg("Not scheduling document")

		return false, nil
	}

	if dc == nil {
		dc = NewDataContext()
	}

	dc.SetString(KeyID, cid)

	var seq uint64
	if _, err = tx.Get(scheme.ConfigBucket, scheme.DocumentSeqKey, &seq); err != nil {
		return false, err
	}

	seq++

	if err = tx.Put(scheme.PendingDocumentsBucket, queueKey(seq), &Request{
		Kind:        kind,
		CID:         cid,
		Context:     dc,
		ScheduledAt: block,
	}); err != nil {
		return false, err
	}

	if err = tx.Put(scheme.ConfigBucket, scheme.DocumentSeqKey, seq); err != nil {
		return false, err
	}

	return true, nil
}

// queueKey pads the sequence so lexical key order is schedule order.
func queueKey(seq uint64) string {
	return fmt.Sprintf("%020d", seq)
}

const errEnough = library.IndexerError("pending limit reached")

// PendingRequests returns up to limit queued requests in schedule order.
func PendingRequests(r store.Reader, limit int) ([]Pending, error) {
	var out []Pending

	err := r.ForEach(scheme.PendingDocumentsBucket, func(key string, raw []byte) error {
		if len(out) >= limit {
			return errEnough
		}

		var req Request
		if err := store.Decode(raw, &req); err != nil {
			return fmt.Errorf("pending document %s: %w", key, err)
		}

		out = append(out, Pending{Key: key, Request: req})

		return nil
	})
	if err != nil && !errors.Is(err, errEnough) {
		return nil, err
	}

	return out, nil
}

func Remove(tx store.Tx, key string) error {
	return tx.Delete(scheme.PendingDocumentsBucket, key)
}
