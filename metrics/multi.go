package metrics

// MultiSink fans scheduling events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordScheduleEvent forwards the events to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordScheduleEvent(events []ScheduleEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordScheduleEvent(events); err != nil {
			return err
		}
	}
	return nil
}

// RecordBatchOutcome forwards the outcome to sinks that support it.
func (m *MultiSink) RecordBatchOutcome(o BatchOutcome) error {
	for _, s := range m.Sinks {
		if br, ok := s.(BatchRecorder); ok {
			if err := br.RecordBatchOutcome(o); err != nil {
				return err
			}
		}
	}
	return nil
}
