package schedule

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	conflictsRejected *prometheus.CounterVec
	slotSearches      prometheus.Counter
	searchMisses      prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Counter, prometheus.Counter) {
	rej := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_conflicts_rejected_total",
			Help: "Write operations rejected because they would double-book a participant",
		},
		[]string{"kind"},
	)
	searches := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "slot_searches_total",
			Help: "Number of best-slot grid searches performed",
		},
	)
	misses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "slot_search_misses_total",
			Help: "Grid searches that found no feasible candidate",
		},
	)
	return rej, searches, misses
}

func init() {
	conflictsRejected, slotSearches, searchMisses = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers scheduling metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(conflictsRejected, slotSearches, searchMisses)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	conflictsRejected, slotSearches, searchMisses = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
