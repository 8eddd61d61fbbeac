package lower

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var declarationsLowered = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "oapigen_declarations_lowered_total",
	Help: "Number of declarations produced by schema lowering, by category",
}, []string{"category"})

var loweringErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "oapigen_lowering_errors_total",
	Help: "Number of schemas that failed to lower, by reason",
}, []string{"reason"})

var formatFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "oapigen_format_fallbacks_total",
	Help: "Number of unrecognized formats resolved to their category default",
}, []string{"category"})

var unionsSynthesized = promauto.NewCounter(prometheus.CounterOpts{
	Name: "oapigen_unions_synthesized_total",
	Help: "Number of multi-typed schemas folded into a single declaration",
})

var mergeDuplicates = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "oapigen_merge_duplicates_total",
	Help: "Number of duplicate imports and declarations dropped while merging",
}, []string{"kind"})
