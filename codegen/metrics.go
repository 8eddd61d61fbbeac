package codegen

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var documentsGenerated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "oapigen_documents_generated_total",
	Help: "Number of documents rendered successfully",
})

var schemasSkipped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "oapigen_schemas_skipped_total",
	Help: "Number of schemas left out of a document because they failed to lower",
})

var buildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "oapigen_build_duration_seconds",
	Help:    "Time spent collecting, lowering and merging one document",
	Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
})
