package schedule

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spedops/pullout/core/events"
	"github.com/spedops/pullout/core/model"
	"github.com/spedops/pullout/core/slot"
	"github.com/spedops/pullout/directory"
	"github.com/spedops/pullout/infra/store"
	"github.com/spedops/pullout/internal/eventbus"
)

func newTestScheduler(t *testing.T) (*Scheduler, *store.MemoryStore, *directory.MemoryDirectory) {
	t.Helper()
	st := store.NewMemoryStore()
	dir := directory.NewMemoryDirectory()
	searcher, err := slot.NewSearcher(slot.DefaultConfig())
	require.NoError(t, err)
	sched, err := New(st, dir, searcher, nil, nil, nil)
	require.NoError(t, err)
	return sched, st, dir
}

func seedRequirement(t *testing.T, st *store.MemoryStore, studentID, staffID string, minutesPerWeek, duration int) model.ServiceRequirement {
	t.Helper()
	r := model.ServiceRequirement{
		ID:                     uuid.New(),
		StudentID:              studentID,
		Type:                   model.SpeechTherapy,
		MinutesPerWeek:         minutesPerWeek,
		SessionDurationMinutes: duration,
		AssignedStaffID:        staffID,
		Status:                 model.Unscheduled,
	}
	require.NoError(t, st.PutRequirement(r))
	return r
}

func tod(t *testing.T, s string) model.TimeOfDay {
	t.Helper()
	v, err := model.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func TestCreateUpdatesCompliance(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	req := seedRequirement(t, st, "s1", "t1", 60, 30)

	_, err := sched.Create("case-manager", CreateRequest{
		RequirementID: req.ID,
		Day:           model.Monday,
		Start:         tod(t, "09:00"),
		End:           tod(t, "09:30"),
	})
	require.NoError(t, err)

	snap, err := sched.Compliance(req.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, snap.ScheduledMinutesPerWeek)
	assert.Equal(t, model.PartiallyScheduled, snap.Status)

	stored, err := st.Requirement(req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PartiallyScheduled, stored.Status)

	_, err = sched.Create("case-manager", CreateRequest{
		RequirementID: req.ID,
		Day:           model.Wednesday,
		Start:         tod(t, "10:00"),
		End:           tod(t, "10:30"),
	})
	require.NoError(t, err)

	snap, err = sched.Compliance(req.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, snap.ScheduledMinutesPerWeek)
	assert.Equal(t, model.FullyScheduled, snap.Status)
	assert.Equal(t, 0, snap.Shortfall)
}

func TestCreateRejectsStudentConflict(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	r1 := seedRequirement(t, st, "s1", "t1", 60, 30)
	r2 := seedRequirement(t, st, "s1", "t2", 60, 30)

	_, err := sched.Create("cm", CreateRequest{
		RequirementID: r1.ID, Day: model.Monday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	require.NoError(t, err)

	_, err = sched.Create("cm", CreateRequest{
		RequirementID: r2.ID, Day: model.Monday, Start: tod(t, "09:15"), End: tod(t, "09:45"),
	})
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)

	sessions, err := sched.ActiveSessions()
	require.NoError(t, err)
	assert.Len(t, sessions, 1, "rejected write must not change committed state")

	stored, err := st.Requirement(r2.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Unscheduled, stored.Status)
}

func TestCreateValidation(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	req := seedRequirement(t, st, "s1", "t1", 60, 30)

	_, err := sched.Create("cm", CreateRequest{
		RequirementID: req.ID, Day: model.Monday, Start: tod(t, "10:00"), End: tod(t, "09:30"),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = sched.Create("cm", CreateRequest{
		RequirementID: uuid.New(), Day: model.Monday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	assert.ErrorIs(t, err, ErrRequirementNotFound)

	unassigned := seedRequirement(t, st, "s2", "", 60, 30)
	_, err = sched.Create("cm", CreateRequest{
		RequirementID: unassigned.ID, Day: model.Monday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	assert.ErrorIs(t, err, ErrMissingStaffAssignment)
}

func TestAutoScheduleFillsRequirement(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	req := seedRequirement(t, st, "s1", "t1", 60, 30)

	first, err := sched.AutoSchedule("cm", req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Monday, first.Day)
	assert.Equal(t, tod(t, "08:30"), first.Start, "preferred window starts at 08:30")

	snap, err := sched.Compliance(req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PartiallyScheduled, snap.Status)

	second, err := sched.AutoSchedule("cm", req.ID)
	require.NoError(t, err)
	assert.False(t, first.Overlaps(second), "placements for one student must not overlap")

	snap, err = sched.Compliance(req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FullyScheduled, snap.Status)
}

func TestAutoScheduleRequiresStaff(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	req := seedRequirement(t, st, "s1", "", 60, 30)

	_, err := sched.AutoSchedule("cm", req.ID)
	assert.ErrorIs(t, err, ErrMissingStaffAssignment)

	_, err = sched.FindBestSlot(req.ID)
	assert.ErrorIs(t, err, ErrMissingStaffAssignment)
}

func TestAutoScheduleExhaustedGrid(t *testing.T) {
	sched, st, dir := newTestScheduler(t)
	req := seedRequirement(t, st, "s1", "t1", 60, 30)

	for _, day := range model.Weekdays() {
		dir.AddBlackout(model.BlockingEvent{
			OwnerID: "s1", Day: day, Start: tod(t, "08:00"), End: tod(t, "15:30"),
		})
	}

	_, err := sched.AutoSchedule("cm", req.ID)
	assert.ErrorIs(t, err, ErrNoAvailableSlot)
}

func TestRescheduleMovesSession(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	req := seedRequirement(t, st, "s1", "t1", 60, 30)

	sess, err := sched.Create("cm", CreateRequest{
		RequirementID: req.ID, Day: model.Monday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	require.NoError(t, err)

	// Overlapping its own previous placement is fine; the session never
	// conflicts with itself.
	moved, err := sched.Reschedule("cm", sess.ID, model.Monday, tod(t, "09:15"), tod(t, "09:45"))
	require.NoError(t, err)
	assert.Equal(t, tod(t, "09:15"), moved.Start)
	assert.Greater(t, moved.Version, sess.Version)
}

func TestRescheduleRejectionKeepsOriginal(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	r1 := seedRequirement(t, st, "s1", "t1", 60, 30)
	r2 := seedRequirement(t, st, "s2", "t1", 60, 30)

	a, err := sched.Create("cm", CreateRequest{
		RequirementID: r1.ID, Day: model.Monday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	require.NoError(t, err)
	b, err := sched.Create("cm", CreateRequest{
		RequirementID: r2.ID, Day: model.Tuesday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	require.NoError(t, err)

	// Shared staff: moving b onto a's time must be rejected.
	_, err = sched.Reschedule("cm", b.ID, model.Monday, tod(t, "09:00"), tod(t, "09:30"))
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "STAFF", ce.Conflict.Kind.String())
	assert.Equal(t, a.ID, ce.Conflict.B.ID)

	current, err := st.Session(b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Tuesday, current.Day)
	assert.Equal(t, b.Start, current.Start)
}

func TestCancelIsIdempotent(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	req := seedRequirement(t, st, "s1", "t1", 30, 30)

	sess, err := sched.Create("cm", CreateRequest{
		RequirementID: req.ID, Day: model.Monday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	require.NoError(t, err)

	require.NoError(t, sched.Cancel("cm", sess.ID))
	require.NoError(t, sched.Cancel("cm", sess.ID), "second cancel is a no-op")

	snap, err := sched.Compliance(req.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.ScheduledMinutesPerWeek)
	assert.Equal(t, model.Unscheduled, snap.Status)

	// The record survives for history.
	stored, err := st.Session(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionCancelled, stored.Status)

	_, err = sched.Reschedule("cm", sess.ID, model.Tuesday, tod(t, "09:00"), tod(t, "09:30"))
	assert.ErrorIs(t, err, ErrSessionCancelled)
}

func TestCancelledSlotBecomesFree(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	r1 := seedRequirement(t, st, "s1", "t1", 30, 30)
	r2 := seedRequirement(t, st, "s1", "t2", 30, 30)

	sess, err := sched.Create("cm", CreateRequest{
		RequirementID: r1.ID, Day: model.Monday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	require.NoError(t, err)
	require.NoError(t, sched.Cancel("cm", sess.ID))

	_, err = sched.Create("cm", CreateRequest{
		RequirementID: r2.ID, Day: model.Monday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	assert.NoError(t, err, "cancelled sessions do not block new placements")
}

func TestDeleteRecomputes(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	req := seedRequirement(t, st, "s1", "t1", 30, 30)

	sess, err := sched.Create("cm", CreateRequest{
		RequirementID: req.ID, Day: model.Monday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	require.NoError(t, err)

	require.NoError(t, sched.Delete("cm", sess.ID))
	assert.ErrorIs(t, sched.Delete("cm", sess.ID), ErrSessionNotFound)

	stored, err := st.Requirement(req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Unscheduled, stored.Status)
}

func TestUpdateStaleVersion(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	req := seedRequirement(t, st, "s1", "t1", 60, 30)

	sess, err := sched.Create("cm", CreateRequest{
		RequirementID: req.ID, Day: model.Monday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	require.NoError(t, err)

	stale := sess
	_, err = sched.Reschedule("cm", sess.ID, model.Tuesday, tod(t, "09:00"), tod(t, "09:30"))
	require.NoError(t, err)

	stale.Notes = "written from an old read"
	_, err = sched.Update("cm", stale)
	assert.ErrorIs(t, err, ErrConcurrentModification)
}

func TestUpdateUnknownRequirement(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	req := seedRequirement(t, st, "s1", "t1", 60, 30)

	sess, err := sched.Create("cm", CreateRequest{
		RequirementID: req.ID, Day: model.Monday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	require.NoError(t, err)

	edited := sess
	edited.RequirementID = uuid.New()
	_, err = sched.Update("cm", edited)
	assert.ErrorIs(t, err, ErrRequirementNotFound)

	// Nothing was committed: the session still points at its requirement.
	stored, err := st.Session(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, stored.RequirementID)
	assert.Equal(t, sess.Version, stored.Version)
}

func TestUpdateCancelledSession(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	req := seedRequirement(t, st, "s1", "t1", 60, 30)

	sess, err := sched.Create("cm", CreateRequest{
		RequirementID: req.ID, Day: model.Monday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	require.NoError(t, err)
	require.NoError(t, sched.Cancel("cm", sess.ID))

	stored, err := st.Session(sess.ID)
	require.NoError(t, err)

	// Neither an edit nor flipping the status back is allowed.
	edited := stored
	edited.Notes = "late change"
	_, err = sched.Update("cm", edited)
	assert.ErrorIs(t, err, ErrSessionCancelled)

	revived := stored
	revived.Status = model.SessionActive
	_, err = sched.Update("cm", revived)
	assert.ErrorIs(t, err, ErrSessionCancelled)

	after, err := st.Session(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionCancelled, after.Status)
	assert.Equal(t, stored.Version, after.Version)
}

func TestAuditTrailAndEvents(t *testing.T) {
	st := store.NewMemoryStore()
	dir := directory.NewMemoryDirectory()
	searcher, err := slot.NewSearcher(slot.DefaultConfig())
	require.NoError(t, err)
	bus := eventbus.New()
	sched, err := New(st, dir, searcher, nil, nil, bus)
	require.NoError(t, err)

	sub := bus.Subscribe()
	req := seedRequirement(t, st, "s1", "t1", 30, 30)

	sess, err := sched.Create("rivera", CreateRequest{
		RequirementID: req.ID, Day: model.Monday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	require.NoError(t, err)
	require.NoError(t, sched.Cancel("rivera", sess.ID))

	entries, err := st.Audit(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "rivera", entries[0].Actor)
	assert.Equal(t, "created", entries[0].Action)
	assert.Equal(t, "cancelled", entries[1].Action)
	assert.Equal(t, sess.ID, entries[1].SessionID)

	var sessionEvents []events.SessionEvent
	var statusEvents []events.RequirementStatusEvent
drain:
	for {
		select {
		case e := <-sub:
			switch ev := e.(type) {
			case events.SessionEvent:
				sessionEvents = append(sessionEvents, ev)
			case events.RequirementStatusEvent:
				statusEvents = append(statusEvents, ev)
			}
		default:
			break drain
		}
	}
	require.Len(t, sessionEvents, 2)
	assert.Equal(t, events.ActionCreated, sessionEvents[0].Action)
	assert.Equal(t, events.ActionCancelled, sessionEvents[1].Action)
	require.Len(t, statusEvents, 2, "unscheduled -> fully -> unscheduled")
	assert.Equal(t, model.FullyScheduled, statusEvents[0].To)
	assert.Equal(t, model.Unscheduled, statusEvents[1].To)
}

func TestStudentAndStaffSchedules(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	r1 := seedRequirement(t, st, "s1", "t1", 60, 30)
	r2 := seedRequirement(t, st, "s2", "t1", 30, 30)

	_, err := sched.Create("cm", CreateRequest{
		RequirementID: r1.ID, Day: model.Wednesday, Start: tod(t, "10:00"), End: tod(t, "10:30"),
	})
	require.NoError(t, err)
	_, err = sched.Create("cm", CreateRequest{
		RequirementID: r1.ID, Day: model.Monday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	require.NoError(t, err)
	_, err = sched.Create("cm", CreateRequest{
		RequirementID: r2.ID, Day: model.Monday, Start: tod(t, "11:00"), End: tod(t, "11:30"),
	})
	require.NoError(t, err)

	student, err := sched.StudentSchedule("s1")
	require.NoError(t, err)
	require.Len(t, student, 2)
	assert.Equal(t, model.Monday, student[0].Day, "ordered by day then start")
	assert.Equal(t, model.Wednesday, student[1].Day)

	staff, err := sched.StaffSchedule("t1")
	require.NoError(t, err)
	assert.Len(t, staff, 3)

	minutes, err := sched.StudentWeeklyMinutes("s1")
	require.NoError(t, err)
	assert.Equal(t, 60, minutes)
}

func TestSummaryRollsUp(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	r1 := seedRequirement(t, st, "s1", "t1", 60, 30)
	seedRequirement(t, st, "s2", "t1", 90, 45)

	_, err := sched.Create("cm", CreateRequest{
		RequirementID: r1.ID, Day: model.Monday, Start: tod(t, "09:00"), End: tod(t, "09:30"),
	})
	require.NoError(t, err)

	sum, err := sched.Summary()
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Requirements)
	assert.Equal(t, 1, sum.Unscheduled)
	assert.Equal(t, 1, sum.PartiallyScheduled)
	assert.Equal(t, 150, sum.RequiredMinutes)
	assert.Equal(t, 30, sum.ScheduledMinutes)
	assert.InDelta(t, 20.0, sum.OverallPercentage, 0.01)
}

func TestDetectConflictsCleanAfterWrites(t *testing.T) {
	sched, st, _ := newTestScheduler(t)
	for i := 0; i < 4; i++ {
		req := seedRequirement(t, st, "s1", "t1", 120, 30)
		_, err := sched.AutoSchedule("cm", req.ID)
		require.NoError(t, err)
	}

	conflicts, err := sched.DetectConflicts()
	require.NoError(t, err)
	assert.Empty(t, conflicts, "write path must never commit a double-booking")
}

func TestFindAvailableSlotsRespectsBlackouts(t *testing.T) {
	sched, st, dir := newTestScheduler(t)
	req := seedRequirement(t, st, "s1", "t1", 60, 30)

	for _, day := range model.Weekdays() {
		if day == model.Friday {
			continue
		}
		dir.AddBlackout(model.BlockingEvent{
			OwnerID: "t1", Day: day, Start: tod(t, "08:00"), End: tod(t, "15:30"),
		})
	}

	byDay, err := sched.FindAvailableSlots(req.ID)
	require.NoError(t, err)
	require.Len(t, byDay, 1)
	assert.NotEmpty(t, byDay[model.Friday])
}
