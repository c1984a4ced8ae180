package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/0xAtelerix/talentgraph/ipfs"
	"github.com/0xAtelerix/talentgraph/metadata"
	"github.com/0xAtelerix/talentgraph/metrics"
	"github.com/0xAtelerix/talentgraph/store"
)

// Documents drains the pending document queue. Each document is applied in
// its own transaction together with the removal of its request.
type Documents struct {
	db           store.DB
	fetcher      ipfs.Fetcher
	handlers     *metadata.Handlers
	batchSize    int
	pollInterval time.Duration
	logger       *zerolog.Logger
}

func NewDocuments(
	db store.DB,
	fetcher ipfs.Fetcher,
	handlers *metadata.Handlers,
	batchSize int,
	pollInterval time.Duration,
	logger *zerolog.Logger,
) *Documents {
	if batchSize <= 0 {
		batchSize = 1
	}

	return &Documents{
		db:           db,
		fetcher:      fetcher,
		handlers:     handlers,
		batchSize:    batchSize,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

func (d *Documents) Run(ctx context.Context) error {
	for {
		n, err := d.Drain(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			d.logger.Error().Err(err).Msg("Failed to process documents")

			return err
		}

		if n > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(d.pollInterval):
		}
	}
}

// Drain processes up to one batch of pending requests and returns how many were taken off the queue.
func (d *Documents) Drain(ctx context.Context) (int, error) {
	var pending []ipfs.Pending

	err := d.db.View(ctx, func(r store.Reader) error {
		var err error

		pending, err = ipfs.PendingRequests(r, d.batchSize)

		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read pending documents: %w", err)
	}

	for i, p := range pending {
		if err = d.process(ctx, p); err != nil {
			return i, err
		}
	}

	return len(pending), nil
}

func (d *Documents) process(ctx context.Context, p ipfs.Pending) error {
	data, fetchErr := d.fetcher.Fetch(ctx, p.CID)
	if fetchErr != nil && ctx.Err() != nil {
		return ctx.Err()
	}

	outcome := metrics.OutcomeFailed

	err := d.db.Update(ctx, func(tx store.Tx) error {
		if fetchErr == nil {
			stored, err := d.handlers.Handle(tx, p.Kind, data, p.Context)
			if err != nil {
				return err
			}

			outcome = metrics.OutcomeMalformed
			if stored {
				outcome = metrics.OutcomeStored
			}
		}

		return ipfs.Remove(tx, p.Key)
	})
	if err != nil {
		return fmt.Errorf("document %s (%s): %w", p.CID, p.Kind, err)
	}

	if fetchErr != nil {
		d.logger.Warn().
			Err(fetchErr).
			Str("cid", p.CID).
			Str("kind", string(p.Kind)).
			Msg("Dropping document")
	}

	metrics.Documents.WithLabelValues(string(p.Kind), outcome).Inc()

	return nil
}
