package schedule

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spedops/pullout/core/events"
	"github.com/spedops/pullout/core/model"
	"github.com/spedops/pullout/metrics"
)

// maxFailureDetails bounds the per-failure detail list so a pathological run
// cannot balloon the result. Counts are always complete.
const maxFailureDetails = 50

// BatchFailure records why one requirement could not be auto-scheduled.
type BatchFailure struct {
	RequirementID uuid.UUID
	Reason        string
}

// BatchResult summarizes a batch auto-schedule run. Scheduled, SkippedNoStaff
// and Failed always sum to the number of requirements attempted.
type BatchResult struct {
	Scheduled      int
	SkippedNoStaff int
	Failed         int
	Failures       []BatchFailure
}

// ScheduleAll runs best-slot auto-scheduling over each requirement in turn,
// against the schedule as left by the previous placements in the same run.
// One requirement failing never aborts the rest.
func (s *Scheduler) ScheduleAll(actor string, requirementIDs []uuid.UUID) BatchResult {
	started := time.Now()
	var res BatchResult
	for _, id := range requirementIDs {
		_, err := s.AutoSchedule(actor, id)
		switch {
		case err == nil:
			res.Scheduled++
		case errors.Is(err, ErrMissingStaffAssignment):
			res.SkippedNoStaff++
		default:
			res.Failed++
			if len(res.Failures) < maxFailureDetails {
				res.Failures = append(res.Failures, BatchFailure{RequirementID: id, Reason: err.Error()})
			}
			s.log.Warnf("batch: requirement %s not scheduled: %v", id, err)
		}
	}
	s.finishBatch(actor, res, time.Since(started))
	return res
}

// ScheduleAllPending batch-schedules every requirement that is not fully
// scheduled yet.
func (s *Scheduler) ScheduleAllPending(actor string) (BatchResult, error) {
	reqs, err := s.ServicesNeedingScheduling()
	if err != nil {
		return BatchResult{}, err
	}
	return s.ScheduleAll(actor, requirementIDs(reqs)), nil
}

// ScheduleAllForStudent batch-schedules every not-fully-scheduled requirement
// belonging to one student.
func (s *Scheduler) ScheduleAllForStudent(actor, studentID string) (BatchResult, error) {
	reqs, err := s.store.Requirements()
	if err != nil {
		return BatchResult{}, err
	}
	var mine []model.ServiceRequirement
	for _, r := range reqs {
		if r.StudentID == studentID && r.Status != model.FullyScheduled {
			mine = append(mine, r)
		}
	}
	return s.ScheduleAll(actor, requirementIDs(mine)), nil
}

func (s *Scheduler) finishBatch(actor string, res BatchResult, took time.Duration) {
	s.log.Infof("batch run: %d scheduled, %d skipped (no staff), %d failed in %s",
		res.Scheduled, res.SkippedNoStaff, res.Failed, took)
	if rec, ok := s.sink.(metrics.BatchRecorder); ok {
		if err := rec.RecordBatchOutcome(metrics.BatchOutcome{
			Scheduled: res.Scheduled,
			Skipped:   res.SkippedNoStaff,
			Failed:    res.Failed,
			Duration:  took,
			Time:      time.Now(),
		}); err != nil {
			s.log.Warnf("metrics sink: %v", err)
		}
	}
	if s.bus != nil {
		s.bus.Publish(events.BatchEvent{
			Actor:     actor,
			Scheduled: res.Scheduled,
			Skipped:   res.SkippedNoStaff,
			Failed:    res.Failed,
		})
	}
}

func requirementIDs(reqs []model.ServiceRequirement) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ID)
	}
	return ids
}
