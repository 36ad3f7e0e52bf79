package schedule

import (
	"sort"

	"github.com/google/uuid"

	"github.com/spedops/pullout/core/compliance"
	"github.com/spedops/pullout/core/conflict"
	"github.com/spedops/pullout/core/model"
)

// ServicesNeedingScheduling lists requirements that are not fully scheduled
// yet, in store order.
func (s *Scheduler) ServicesNeedingScheduling() ([]model.ServiceRequirement, error) {
	reqs, err := s.store.Requirements()
	if err != nil {
		return nil, err
	}
	var out []model.ServiceRequirement
	for _, r := range reqs {
		if r.Status != model.FullyScheduled {
			out = append(out, r)
		}
	}
	return out, nil
}

// ActiveSessions returns every session that currently counts toward
// compliance and conflicts.
func (s *Scheduler) ActiveSessions() ([]model.ScheduledSession, error) {
	sessions, err := s.store.Sessions()
	if err != nil {
		return nil, err
	}
	var out []model.ScheduledSession
	for _, sess := range sessions {
		if sess.Status == model.SessionActive {
			out = append(out, sess)
		}
	}
	return out, nil
}

// DetectConflicts sweeps the full committed schedule for double-bookings.
// A clean write path keeps this empty; the sweep exists for audits and for
// data imported from outside the scheduler.
func (s *Scheduler) DetectConflicts() ([]conflict.Conflict, error) {
	sessions, err := s.store.Sessions()
	if err != nil {
		return nil, err
	}
	return conflict.FindConflicts(sessions), nil
}

// StudentSchedule returns the student's active sessions ordered by day then
// start time.
func (s *Scheduler) StudentSchedule(studentID string) ([]model.ScheduledSession, error) {
	return s.scheduleFor(func(sess model.ScheduledSession) bool {
		return sess.StudentID == studentID
	})
}

// StaffSchedule returns the staff member's active sessions ordered by day
// then start time.
func (s *Scheduler) StaffSchedule(staffID string) ([]model.ScheduledSession, error) {
	return s.scheduleFor(func(sess model.ScheduledSession) bool {
		return sess.StaffID == staffID
	})
}

func (s *Scheduler) scheduleFor(match func(model.ScheduledSession) bool) ([]model.ScheduledSession, error) {
	sessions, err := s.store.Sessions()
	if err != nil {
		return nil, err
	}
	var out []model.ScheduledSession
	for _, sess := range sessions {
		if sess.Status == model.SessionActive && match(sess) {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].Start < out[j].Start
	})
	return out, nil
}

// StudentWeeklyMinutes sums the student's active minutes across the week.
func (s *Scheduler) StudentWeeklyMinutes(studentID string) (int, error) {
	sessions, err := s.StudentSchedule(studentID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, sess := range sessions {
		total += sess.DurationMinutes()
	}
	return total, nil
}

// StaffWorkload reports the staff member's scheduled weekly minutes and the
// band those minutes fall in against the given target.
func (s *Scheduler) StaffWorkload(staffID string, targetMinutes int, t compliance.WorkloadThresholds) (int, compliance.WorkloadBand, error) {
	sessions, err := s.StaffSchedule(staffID)
	if err != nil {
		return 0, compliance.WorkloadBalanced, err
	}
	total := 0
	for _, sess := range sessions {
		total += sess.DurationMinutes()
	}
	return total, compliance.ClassifyWorkload(total, targetMinutes, t), nil
}

// Compliance recomputes the requirement's snapshot from the committed state.
func (s *Scheduler) Compliance(requirementID uuid.UUID) (compliance.Snapshot, error) {
	r, err := s.requirement(requirementID)
	if err != nil {
		return compliance.Snapshot{}, err
	}
	sessions, err := s.store.Sessions()
	if err != nil {
		return compliance.Snapshot{}, err
	}
	return compliance.Recompute(r, sessions), nil
}

// Summary rolls compliance up across every requirement in the store.
func (s *Scheduler) Summary() (compliance.SchoolSummary, error) {
	reqs, err := s.store.Requirements()
	if err != nil {
		return compliance.SchoolSummary{}, err
	}
	sessions, err := s.store.Sessions()
	if err != nil {
		return compliance.SchoolSummary{}, err
	}
	return compliance.Summarize(reqs, sessions), nil
}
