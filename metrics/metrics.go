package metrics

import (
	"time"

	"github.com/spedops/pullout/core/model"
)

// ScheduleEvent represents one committed scheduling mutation to be recorded.
type ScheduleEvent struct {
	Action      string
	Actor       string
	ServiceType model.ServiceType
	Day         model.Weekday
	Minutes     int
	StudentID   string
	StaffID     string
	Time        time.Time
}

// MetricsSink records scheduling events for observability purposes.
type MetricsSink interface {
	RecordScheduleEvent(events []ScheduleEvent) error
}

// BatchOutcome captures the counts of a completed batch run.
type BatchOutcome struct {
	Scheduled int
	Skipped   int
	Failed    int
	Duration  time.Duration
	Time      time.Time
}

// BatchRecorder records batch auto-schedule outcomes. Sinks implement it
// optionally.
type BatchRecorder interface {
	RecordBatchOutcome(o BatchOutcome) error
}

// NopSink discards all records.
type NopSink struct{}

// RecordScheduleEvent implements MetricsSink.
func (NopSink) RecordScheduleEvent([]ScheduleEvent) error { return nil }

// RecordBatchOutcome implements BatchRecorder.
func (NopSink) RecordBatchOutcome(BatchOutcome) error { return nil }
