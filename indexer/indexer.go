// Package indexer is the host runtime: it reads confirmed logs from an EVM
// node, applies them through the subscriber inside one store transaction per
// block range, and drains the off-chain document queue.
package indexer

import (
	"cmp"
	"context"
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"github.com/0xAtelerix/talentgraph/library/subscriber"
	"github.com/0xAtelerix/talentgraph/metrics"
	"github.com/0xAtelerix/talentgraph/scheme"
	"github.com/0xAtelerix/talentgraph/store"
)

// LogSource is the subset of ethclient.Client the indexer reads from.
type LogSource interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]gethtypes.Log, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*gethtypes.Header, error)
}

type Config struct {
	StartBlock    uint64
	Confirmations uint64
	BatchSize     uint64
	PollInterval  time.Duration
}

type Indexer struct {
	cfg    Config
	source LogSource
	sub    *subscriber.Subscriber
	db     store.DB
	logger *zerolog.Logger
}

func New(cfg Config, source LogSource, sub *subscriber.Subscriber, db store.DB, logger *zerolog.Logger) *Indexer {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 1
	}

	return &Indexer{
		cfg:    cfg,
		source: source,
		sub:    sub,
		db:     db,
		logger: logger,
	}
}

// Run indexes until ctx is cancelled or a batch fails.
func (i *Indexer) Run(ctx context.Context) error {
	i.logger.Info().
		Int("contracts", len(i.sub.Contracts())).
		Uint64("start_block", i.cfg.StartBlock).
		Msg("Indexer run started")

	for {
		caughtUp, err := i.Step(ctx)
		if err != nil {
			if ctx.Err() != nil {
				i.logger.Info().Msg("Indexer context cancelled, stopping")

				return nil
			}

			i.logger.Error().Err(err).Msg("Failed to handle batch")

			return err
		}

		if !caughtUp {
			continue
		}

		select {
		case <-ctx.Done():
			i.logger.Info().Msg("Indexer context cancelled, stopping")

			return nil
		case <-time.After(i.cfg.PollInterval):
		}
	}
}

// Step applies the next confirmed block range. caughtUp is true when there
// was nothing to apply or the range reached the confirmed head.
func (i *Indexer) Step(ctx context.Context) (caughtUp bool, err error) {
	next, err := i.NextBlock(ctx)
	if err != nil {
		return false, err
	}

	head, err := i.source.BlockNumber(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get head block: %w", err)
	}

	if head < i.cfg.Confirmations || head-i.cfg.Confirmations < next {
		return true, nil
	}

	safe := head - i.cfg.Confirmations
	to := min(next+i.cfg.BatchSize-1, safe)

	logs, err := i.source.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(next),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: i.sub.Contracts(),
		Topics:    [][]common.Hash{i.sub.Topics()},
	})
	if err != nil {
		return false, fmt.Errorf("failed to filter logs [%d, %d]: %w", next, to, err)
	}

	timestamps, err := i.blockTimes(ctx, logs)
	if err != nil {
		return false, err
	}

	if err = i.ProcessLogs(ctx, logs, timestamps, to); err != nil {
		return false, err
	}

	i.logger.Info().
		Uint64("from", next).
		Uint64("to", to).
		Int("logs", len(logs)).
		Msg("Block range processed and committed")

	metrics.ProcessedBlocks.Add(float64(to - next + 1))

	return to == safe, nil
}

// NextBlock is the first block not yet committed.
func (i *Indexer) NextBlock(ctx context.Context) (uint64, error) {
	var (
		last  uint64
		found bool
	)

	err := i.db.View(ctx, func(r store.Reader) error {
		var err error

		found, err = r.Get(scheme.ConfigBucket, scheme.LastBlockKey, &last)

		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get last block: %w", err)
	}

	if !found {
		return i.cfg.StartBlock, nil
	}

	return max(last+1, i.cfg.StartBlock), nil
}

func (i *Indexer) blockTimes(ctx context.Context, logs []gethtypes.Log) (map[uint64]uint64, error) {
	out := make(map[uint64]uint64)

	for _, lg := range logs {
		if _, ok := out[lg.BlockNumber]; ok {
			continue
		}

		h, err := i.source.HeaderByNumber(ctx, new(big.Int).SetUint64(lg.BlockNumber))
		if err != nil {
			return nil, fmt.Errorf("failed to get header %d: %w", lg.BlockNumber, err)
		}

		out[lg.BlockNumber] = h.Time
	}

	return out, nil
}

// ProcessLogs applies logs in (block, index) order and moves the cursor to
// `to`, all in one transaction. Any handler error rolls the range back.
func (i *Indexer) ProcessLogs(ctx context.Context, logs []gethtypes.Log, timestamps map[uint64]uint64, to uint64) error {
	start := time.Now()

	sorted := slices.Clone(logs)
	slices.SortStableFunc(sorted, func(a, b gethtypes.Log) int {
		if c := cmp.Compare(a.BlockNumber, b.BlockNumber); c != 0 {
			return c
		}

		return cmp.Compare(a.Index, b.Index)
	})

	err := i.db.Update(ctx, func(tx store.Tx) error {
		for idx := range sorted {
			lg := &sorted[idx]
			if lg.Removed {
				continue
			}

			ts, ok := timestamps[lg.BlockNumber]
			if !ok {
				return fmt.Errorf("no timestamp for block %d", lg.BlockNumber)
			}

			handled, err := i.sub.Handle(ctx, tx, lg, ts)
			if err != nil {
				return err
			}

			if !handled {
				i.logger.Debug().
					Str("contract", lg.Address.Hex()).
					Uint64("block", lg.BlockNumber).
					Uint("index", lg.Index).
					Msg("Unhandled log")
			}
		}

		return tx.Put(scheme.ConfigBucket, scheme.LastBlockKey, to)
	})
	if err != nil {
		return fmt.Errorf("failed to process blocks up to %d: %w", to, err)
	}

	metrics.IndexedBlock.Set(float64(to))
	metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())

	return nil
}
