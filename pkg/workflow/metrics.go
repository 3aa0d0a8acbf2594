package workflow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
)

var (
	// transitionsTotal counts transition attempts by kind, edge and outcome.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_transitions_total",
		Help: "Total number of status transition attempts by kind, from_state, to_state and outcome",
	}, []string{"kind", "from_state", "to_state", "outcome"})

	// transitionDuration tracks fetch-validate-compute-commit latency.
	transitionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workflow_transition_duration_seconds",
		Help:    "Duration of status transitions by kind and outcome",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"kind", "outcome"})

	// fieldEditsTotal counts non-status field edits by kind and outcome.
	fieldEditsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_field_edits_total",
		Help: "Total number of non-status field edits by kind and outcome",
	}, []string{"kind", "outcome"})
)

func observeTransition(kind Kind, def *statemachine.Definition, from, to string, err error, elapsed time.Duration) {
	outcome := Code(err)
	k := sanitizeKind(kind)
	transitionsTotal.WithLabelValues(k, sanitizeState(def, from), sanitizeState(def, to), outcome).Inc()
	transitionDuration.WithLabelValues(k, outcome).Observe(elapsed.Seconds())
}

func observeEdit(kind Kind, err error) {
	fieldEditsTotal.WithLabelValues(sanitizeKind(kind), Code(err)).Inc()
}

// Label values come from callers, so anything outside the declared sets
// collapses into "unknown" to keep cardinality bounded.
func sanitizeKind(kind Kind) string {
	if !kind.Valid() {
		return "unknown"
	}
	return string(kind)
}

func sanitizeState(def *statemachine.Definition, name string) string {
	if name == "" {
		return "none"
	}
	if def == nil {
		return "unknown"
	}
	if _, ok := def.Lookup(name); !ok {
		return "unknown"
	}
	return name
}
