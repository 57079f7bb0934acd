package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// pagesFetched tracks page fetches by outcome.
	pagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_pages_fetched_total",
		Help: "Total number of search page fetches by outcome",
	}, []string{"outcome"}) // outcome: merged, exhausted, app_error, transport_error, stale

	// dealsMerged tracks unique deals merged into the collection per identity key.
	dealsMerged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_deals_merged_total",
		Help: "Total number of unique deals merged by identity key",
	}, []string{"key"})

	// duplicatesDropped tracks candidates suppressed by the merge per identity key.
	duplicatesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_duplicates_dropped_total",
		Help: "Total number of duplicate candidates dropped by identity key",
	}, []string{"key"})

	// exhaustions counts keyword sessions reaching the exhausted state.
	exhaustions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_exhaustions_total",
		Help: "Total number of pagination sessions that reached exhaustion",
	})

	// collectionSize is the current size of the raw collection.
	collectionSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "feed_collection_size",
		Help: "Current number of deals in the raw collection",
	})

	// bootstrapStepDuration tracks per-seed bootstrap step durations.
	bootstrapStepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feed_bootstrap_step_duration_seconds",
		Help:    "Time taken per bootstrap seed keyword, delay excluded",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	// mergeBatchSize tracks the distribution of unique-result batch sizes.
	mergeBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feed_merge_batch_size",
		Help:    "Number of unique deals per merged page",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
	})
)
