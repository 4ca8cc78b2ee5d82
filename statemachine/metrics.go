package statemachine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric definitions with appropriate labels.
var (
	// dispatchesTotal counts event dispatches by outcome (handled, ignored,
	// rejected, error).
	dispatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statemachine_dispatches_total",
		Help: "Total number of event dispatches by machine, event, and outcome",
	}, []string{"machine", "event", "outcome"})

	// transitionTotal counts committed state changes.
	transitionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statemachine_transitions_total",
		Help: "Total number of state transitions by machine, from_state, to_state, and event",
	}, []string{"machine", "from_state", "to_state", "event"})

	// dispatchDuration tracks the time spent in handled dispatches, hooks and
	// listeners included.
	dispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "statemachine_dispatch_duration_seconds",
		Help:    "Duration of handled event dispatches by machine and event",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}, []string{"machine", "event"})
)

// unknownEventLabel replaces event names no state defines.
const unknownEventLabel = "unknown"

// Helper functions for label sanitization.
func sanitizeMachine(name string) string {
	if name == "" {
		return "unknown"
	}

	return name
}

func sanitizeEvent(event string) string {
	if event == "" {
		return "none"
	}

	return event
}
