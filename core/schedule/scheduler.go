// Package schedule is the single write path for scheduled sessions. Every
// mutation validates its candidate against the committed state, commits, and
// recomputes the owning requirement's compliance before returning, so the
// no-double-booking invariants hold at every intermediate point.
package schedule

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spedops/pullout/core/compliance"
	"github.com/spedops/pullout/core/conflict"
	"github.com/spedops/pullout/core/events"
	"github.com/spedops/pullout/core/model"
	"github.com/spedops/pullout/core/slot"
	"github.com/spedops/pullout/directory"
	"github.com/spedops/pullout/infra/logger"
	"github.com/spedops/pullout/infra/store"
	"github.com/spedops/pullout/internal/eventbus"
	"github.com/spedops/pullout/metrics"
)

// casRetries bounds the optimistic write retry loop against the store.
const casRetries = 3

// Scheduler owns all session mutations. A single mutex serializes writers so
// validation and commit form one indivisible unit; reads work on store
// snapshots and never block behind the write path.
type Scheduler struct {
	mu       sync.Mutex
	store    store.Store
	calendar directory.BlockingCalendar
	searcher *slot.Searcher
	log      logger.Logger
	sink     metrics.MetricsSink
	bus      eventbus.EventBus
}

// New creates a Scheduler. The store and searcher are mandatory; calendar,
// sink and bus may be nil, and a nil logger falls back to a no-op.
func New(st store.Store, cal directory.BlockingCalendar, searcher *slot.Searcher, log logger.Logger, sink metrics.MetricsSink, bus eventbus.EventBus) (*Scheduler, error) {
	if st == nil || searcher == nil {
		return nil, fmt.Errorf("schedule: nil store or searcher provided to New")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Scheduler{store: st, calendar: cal, searcher: searcher, log: log, sink: sink, bus: bus}, nil
}

// CreateRequest describes a manual session placement.
type CreateRequest struct {
	RequirementID uuid.UUID
	Day           model.Weekday
	Start         model.TimeOfDay
	End           model.TimeOfDay
	RoomID        string
	Notes         string
}

// Create validates and commits a new session for the requirement. It rejects
// the placement with a ConflictError when it would double-book the student or
// the staff member against the currently committed state.
func (s *Scheduler) Create(actor string, req CreateRequest) (model.ScheduledSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(actor, req)
}

func (s *Scheduler) createLocked(actor string, req CreateRequest) (model.ScheduledSession, error) {
	r, err := s.requirement(req.RequirementID)
	if err != nil {
		return model.ScheduledSession{}, err
	}
	if req.End <= req.Start {
		return model.ScheduledSession{}, ErrInvalidTimeRange
	}
	if r.AssignedStaffID == "" {
		return model.ScheduledSession{}, ErrMissingStaffAssignment
	}

	sess := model.ScheduledSession{
		ID:            uuid.New(),
		RequirementID: r.ID,
		StudentID:     r.StudentID,
		StaffID:       r.AssignedStaffID,
		Day:           req.Day,
		Start:         req.Start,
		End:           req.End,
		RoomID:        req.RoomID,
		Status:        model.SessionActive,
		Recurring:     true,
		StartDate:     time.Now(),
		Notes:         req.Notes,
	}
	if err := sess.Validate(); err != nil {
		return model.ScheduledSession{}, err
	}

	existing, err := s.store.Sessions()
	if err != nil {
		return model.ScheduledSession{}, err
	}
	if c := conflict.Check(sess, existing, uuid.Nil); c != nil {
		conflictsRejected.WithLabelValues(c.Kind.String()).Inc()
		return model.ScheduledSession{}, &ConflictError{Conflict: *c}
	}

	if err := s.store.PutSession(sess); err != nil {
		return model.ScheduledSession{}, err
	}
	committed, err := s.store.Session(sess.ID)
	if err != nil {
		return model.ScheduledSession{}, err
	}
	if err := s.recomputeLocked(r.ID); err != nil {
		return model.ScheduledSession{}, err
	}

	s.committed(actor, events.ActionCreated, committed, r.Type)
	s.log.Infof("created session %s for requirement %s on %s %s-%s",
		committed.ID, r.ID, committed.Day, committed.Start, committed.End)
	return committed, nil
}

// Reschedule moves a session to a new day and time. The session being moved
// is excluded from the conflict check so it never collides with itself. On
// failure the original placement is left untouched.
func (s *Scheduler) Reschedule(actor string, sessionID uuid.UUID, day model.Weekday, start, end model.TimeOfDay) (model.ScheduledSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if end <= start {
		return model.ScheduledSession{}, ErrInvalidTimeRange
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		sess, err := s.session(sessionID)
		if err != nil {
			return model.ScheduledSession{}, err
		}
		if sess.Status == model.SessionCancelled {
			return model.ScheduledSession{}, ErrSessionCancelled
		}

		moved := sess
		moved.Day = day
		moved.Start = start
		moved.End = end
		if err := moved.Validate(); err != nil {
			return model.ScheduledSession{}, err
		}

		existing, err := s.store.Sessions()
		if err != nil {
			return model.ScheduledSession{}, err
		}
		if c := conflict.Check(moved, existing, sess.ID); c != nil {
			conflictsRejected.WithLabelValues(c.Kind.String()).Inc()
			return model.ScheduledSession{}, &ConflictError{Conflict: *c}
		}

		if err := s.store.PutSession(moved); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				continue
			}
			return model.ScheduledSession{}, err
		}
		committed, err := s.store.Session(sess.ID)
		if err != nil {
			return model.ScheduledSession{}, err
		}
		if err := s.recomputeLocked(sess.RequirementID); err != nil {
			return model.ScheduledSession{}, err
		}

		s.committedForRequirement(actor, events.ActionRescheduled, committed)
		s.log.Infof("rescheduled session %s to %s %s-%s", sess.ID, day, start, end)
		return committed, nil
	}
	return model.ScheduledSession{}, ErrConcurrentModification
}

// Cancel marks the session cancelled, excluding it from all invariants and
// minute sums while preserving the row for audit history. Cancelling an
// already-cancelled session is a no-op.
func (s *Scheduler) Cancel(actor string, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; attempt < casRetries; attempt++ {
		sess, err := s.session(sessionID)
		if err != nil {
			return err
		}
		if sess.Status == model.SessionCancelled {
			return nil
		}

		sess.Status = model.SessionCancelled
		if err := s.store.PutSession(sess); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				continue
			}
			return err
		}
		if err := s.recomputeLocked(sess.RequirementID); err != nil {
			return err
		}

		s.committedForRequirement(actor, events.ActionCancelled, sess)
		s.log.Infof("cancelled session %s", sessionID)
		return nil
	}
	return ErrConcurrentModification
}

// Delete removes the session permanently. Prefer Cancel; Delete exists for
// records created by mistake and loses audit history of the placement.
func (s *Scheduler) Delete(actor string, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteSession(sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	if err := s.recomputeLocked(sess.RequirementID); err != nil {
		return err
	}

	s.committedForRequirement(actor, events.ActionDeleted, sess)
	s.log.Infof("deleted session %s", sessionID)
	return nil
}

// Update replaces a session record wholesale. The carried version must match
// the stored one; a mismatch reports ErrConcurrentModification without
// retrying, since the caller's copy is already stale.
func (s *Scheduler) Update(actor string, sess model.ScheduledSession) (model.ScheduledSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.session(sess.ID)
	if err != nil {
		return model.ScheduledSession{}, err
	}
	if current.Status == model.SessionCancelled {
		return model.ScheduledSession{}, ErrSessionCancelled
	}
	if sess.End <= sess.Start {
		return model.ScheduledSession{}, ErrInvalidTimeRange
	}
	if err := sess.Validate(); err != nil {
		return model.ScheduledSession{}, err
	}
	if _, err := s.requirement(sess.RequirementID); err != nil {
		return model.ScheduledSession{}, err
	}

	if sess.Status == model.SessionActive {
		existing, err := s.store.Sessions()
		if err != nil {
			return model.ScheduledSession{}, err
		}
		if c := conflict.Check(sess, existing, sess.ID); c != nil {
			conflictsRejected.WithLabelValues(c.Kind.String()).Inc()
			return model.ScheduledSession{}, &ConflictError{Conflict: *c}
		}
	}

	if err := s.store.PutSession(sess); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return model.ScheduledSession{}, ErrConcurrentModification
		}
		return model.ScheduledSession{}, err
	}
	committed, err := s.store.Session(sess.ID)
	if err != nil {
		return model.ScheduledSession{}, err
	}
	if err := s.recomputeLocked(current.RequirementID); err != nil {
		return model.ScheduledSession{}, err
	}
	if sess.RequirementID != current.RequirementID {
		if err := s.recomputeLocked(sess.RequirementID); err != nil {
			return model.ScheduledSession{}, err
		}
	}

	s.committedForRequirement(actor, events.ActionRescheduled, committed)
	return committed, nil
}

// AutoSchedule finds the best feasible slot for the requirement and commits
// it. It fails fast with ErrMissingStaffAssignment before searching and with
// ErrNoAvailableSlot when the grid is exhausted.
func (s *Scheduler) AutoSchedule(actor string, requirementID uuid.UUID) (model.ScheduledSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.requirement(requirementID)
	if err != nil {
		return model.ScheduledSession{}, err
	}
	if r.AssignedStaffID == "" {
		return model.ScheduledSession{}, ErrMissingStaffAssignment
	}

	best, err := s.bestSlot(r)
	if err != nil {
		return model.ScheduledSession{}, err
	}
	return s.createLocked(actor, CreateRequest{
		RequirementID: r.ID,
		Day:           best.Day,
		Start:         best.Start,
		End:           best.End,
	})
}

// FindBestSlot previews the best feasible slot for the requirement without
// committing anything.
func (s *Scheduler) FindBestSlot(requirementID uuid.UUID) (slot.Candidate, error) {
	r, err := s.requirement(requirementID)
	if err != nil {
		return slot.Candidate{}, err
	}
	if r.AssignedStaffID == "" {
		return slot.Candidate{}, ErrMissingStaffAssignment
	}
	return s.bestSlot(r)
}

// FindAvailableSlots returns every feasible candidate for the requirement
// grouped by day, for a human picker.
func (s *Scheduler) FindAvailableSlots(requirementID uuid.UUID) (map[model.Weekday][]slot.Candidate, error) {
	r, err := s.requirement(requirementID)
	if err != nil {
		return nil, err
	}
	if r.AssignedStaffID == "" {
		return nil, ErrMissingStaffAssignment
	}
	sessions, err := s.store.Sessions()
	if err != nil {
		return nil, err
	}
	return s.searcher.FindAvailable(r, sessions, s.blackoutsFor(r)), nil
}

func (s *Scheduler) bestSlot(r model.ServiceRequirement) (slot.Candidate, error) {
	sessions, err := s.store.Sessions()
	if err != nil {
		return slot.Candidate{}, err
	}
	slotSearches.Inc()
	best, ok := s.searcher.FindBest(r, sessions, s.blackoutsFor(r))
	if !ok {
		searchMisses.Inc()
		return slot.Candidate{}, ErrNoAvailableSlot
	}
	return best, nil
}

func (s *Scheduler) blackoutsFor(r model.ServiceRequirement) []model.BlockingEvent {
	if s.calendar == nil {
		return nil
	}
	out := s.calendar.BlackoutsFor(r.StudentID)
	if r.AssignedStaffID != "" {
		out = append(out, s.calendar.BlackoutsFor(r.AssignedStaffID)...)
	}
	return out
}

// recomputeLocked re-derives the requirement's compliance from the committed
// session set and persists the new status.
func (s *Scheduler) recomputeLocked(requirementID uuid.UUID) error {
	r, err := s.requirement(requirementID)
	if err != nil {
		return err
	}
	sessions, err := s.store.Sessions()
	if err != nil {
		return err
	}
	snap := compliance.Recompute(r, sessions)
	if snap.Status == r.Status {
		return nil
	}
	from := r.Status
	r.Status = snap.Status
	if err := s.store.PutRequirement(r); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(events.RequirementStatusEvent{RequirementID: r.ID, From: from, To: snap.Status})
	}
	s.log.Debugw("requirement status changed", map[string]any{
		"requirement": r.ID.String(),
		"from":        from.String(),
		"to":          snap.Status.String(),
	})
	return nil
}

func (s *Scheduler) committed(actor string, action events.SessionAction, sess model.ScheduledSession, t model.ServiceType) {
	_ = s.store.AppendAudit(store.AuditEntry{
		Time:          time.Now(),
		Actor:         actor,
		Action:        string(action),
		SessionID:     sess.ID,
		RequirementID: sess.RequirementID,
		Detail:        fmt.Sprintf("%s %s-%s", sess.Day, sess.Start, sess.End),
	})
	if err := s.sink.RecordScheduleEvent([]metrics.ScheduleEvent{{
		Action:      string(action),
		Actor:       actor,
		ServiceType: t,
		Day:         sess.Day,
		Minutes:     sess.DurationMinutes(),
		StudentID:   sess.StudentID,
		StaffID:     sess.StaffID,
		Time:        time.Now(),
	}}); err != nil {
		s.log.Warnf("metrics sink: %v", err)
	}
	if s.bus != nil {
		s.bus.Publish(events.SessionEvent{Action: action, Actor: actor, Session: sess})
	}
}

// committedForRequirement resolves the service type before recording; used
// by mutations that only hold the session.
func (s *Scheduler) committedForRequirement(actor string, action events.SessionAction, sess model.ScheduledSession) {
	t := model.ServiceType(0)
	if r, err := s.requirement(sess.RequirementID); err == nil {
		t = r.Type
	}
	s.committed(actor, action, sess, t)
}

func (s *Scheduler) requirement(id uuid.UUID) (model.ServiceRequirement, error) {
	r, err := s.store.Requirement(id)
	if errors.Is(err, store.ErrNotFound) {
		return model.ServiceRequirement{}, ErrRequirementNotFound
	}
	return r, err
}

func (s *Scheduler) session(id uuid.UUID) (model.ScheduledSession, error) {
	sess, err := s.store.Session(id)
	if errors.Is(err, store.ErrNotFound) {
		return model.ScheduledSession{}, ErrSessionNotFound
	}
	return sess, err
}
