package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Answer pipeline Prometheus metrics.
var (
	AskTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campusqa",
			Name:      "ask_total",
			Help:      "Questions answered by intent and outcome",
		},
		[]string{"intent", "status"}, // status: ok / failed
	)

	AskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "campusqa",
			Name:      "ask_duration_seconds",
			Help:      "End-to-end ask pipeline latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"intent"},
	)

	CompletionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campusqa",
			Name:      "completion_total",
			Help:      "Generative AI completions by outcome reason",
		},
		[]string{"reason"},
	)

	CompletionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "campusqa",
			Name:      "completion_duration_seconds",
			Help:      "Generative AI completion latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
	)

	EmbeddingTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campusqa",
			Name:      "embedding_total",
			Help:      "Embeddings produced by source",
		},
		[]string{"source"}, // "model" / "digest" / "fallback"
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "campusqa",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding model request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campusqa",
			Name:      "embedding_errors_total",
			Help:      "Embedding model errors by type",
		},
		[]string{"model", "error_type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campusqa",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	RetentionDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "campusqa",
			Name:      "retention_deleted_total",
			Help:      "Conversation turns removed by retention pruning",
		},
	)

	BatchItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campusqa",
			Name:      "batch_items_total",
			Help:      "Batch and import items processed by outcome",
		},
		[]string{"status"},
	)
)

// DocStoreOpDuration is observed by the Redis document store for every command.
var DocStoreOpDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "campusqa",
		Subsystem: "docstore",
		Name:      "op_duration_seconds",
		Help:      "Document store command latency by operation and result",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
	},
	[]string{"op", "result"},
)

var registerPipelineOnce sync.Once

// RegisterPipelineMetrics registers the pipeline metrics with the default registry. Repeat calls are no-ops.
func RegisterPipelineMetrics() {
	registerPipelineOnce.Do(registerPipeline)
}

func registerPipeline() {
	prometheus.MustRegister(
		AskTotal,
		AskDuration,
		CompletionTotal,
		CompletionDuration,
		EmbeddingTotal,
		EmbeddingRequestDuration,
		EmbeddingErrorsTotal,
		EmbeddingCacheTotal,
		RetentionDeletedTotal,
		BatchItemsTotal,
		DocStoreOpDuration,
	)
}
