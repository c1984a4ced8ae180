package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

//nolint:gochecknoglobals // prometheus collectors
var (
	ProcessedBlocks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "talentgraph",
			Subsystem: "indexer",
			Name:      "processed_blocks_total",
			Help:      "Total number of blocks applied to the entity store",
		},
	)

	ProcessedEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentgraph",
			Subsystem: "indexer",
			Name:      "processed_events_total",
			Help:      "Decoded contract events by kind",
		},
		[]string{"kind"},
	)

	IndexedBlock = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "talentgraph",
			Subsystem: "indexer",
			Name:      "indexed_block",
			Help:      "Last block committed to the store",
		},
	)

	BatchProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "talentgraph",
			Subsystem: "indexer",
			Name:      "batch_processing_duration_seconds",
			Help:      "Time to apply one block range, excluding RPC reads",
			Buckets:   prometheus.DefBuckets,
		},
	)

	TokenCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentgraph",
			Subsystem: "tokens",
			Name:      "metadata_calls_total",
			Help:      "ERC20 metadata calls by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	Documents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentgraph",
			Subsystem: "documents",
			Name:      "processed_total",
			Help:      "Off-chain documents by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	DocumentFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "talentgraph",
			Subsystem: "documents",
			Name:      "fetch_duration_seconds",
			Help:      "Time to fetch a single document",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"fetcher"},
	)
)

// Outcome label values.
const (
	OutcomeOK        = "ok"
	OutcomeReverted  = "reverted"
	OutcomeStored    = "stored"
	OutcomeMalformed = "malformed"
	OutcomeFailed    = "failed"
)

func init() {
	prometheus.MustRegister(
		ProcessedBlocks,
		ProcessedEvents,
		IndexedBlock,
		BatchProcessingDuration,
		TokenCalls,
		Documents,
		DocumentFetchDuration,
	)
}
