package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records scheduling events in Prometheus metrics.
type PromSink struct {
	events  *prometheus.CounterVec
	minutes *prometheus.CounterVec
	batches *prometheus.HistogramVec
}

// NewPromSink registers scheduling metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_events_total",
		Help: "Total number of committed scheduling mutations",
	}, []string{"action", "service_type"})
	minutes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduled_minutes_total",
		Help: "Weekly service minutes committed, by service type",
	}, []string{"service_type"})
	batches := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "batch_run_duration_seconds",
		Help:    "Duration of batch auto-schedule runs",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	events, err := registerCounterVec(reg, events)
	if err != nil {
		return nil, err
	}
	minutes, err = registerCounterVec(reg, minutes)
	if err != nil {
		return nil, err
	}
	if err := reg.Register(batches); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			batches = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{events: events, minutes: minutes, batches: batches}, nil
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, err
	}
	return c, nil
}

// RecordScheduleEvent increments the counters for each event.
func (s *PromSink) RecordScheduleEvent(events []ScheduleEvent) error {
	for _, e := range events {
		s.events.WithLabelValues(e.Action, e.ServiceType.String()).Inc()
		if e.Action == "created" {
			s.minutes.WithLabelValues(e.ServiceType.String()).Add(float64(e.Minutes))
		}
	}
	return nil
}

// RecordBatchOutcome observes the batch duration, labelled by whether any
// item failed.
func (s *PromSink) RecordBatchOutcome(o BatchOutcome) error {
	outcome := "clean"
	if o.Failed > 0 {
		outcome = "partial"
	}
	s.batches.WithLabelValues(outcome).Observe(o.Duration.Seconds())
	return nil
}
