package compliance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/spedops/pullout/core/model"
)

func req(minutes, sessionLen int) model.ServiceRequirement {
	return model.ServiceRequirement{
		ID:                     uuid.New(),
		StudentID:              "s1",
		Type:                   model.SpeechTherapy,
		MinutesPerWeek:         minutes,
		SessionDurationMinutes: sessionLen,
		AssignedStaffID:        "t1",
	}
}

func sessionFor(r model.ServiceRequirement, day model.Weekday, start string, minutes int, status model.SessionStatus) model.ScheduledSession {
	st := model.MustParseTimeOfDay(start)
	return model.ScheduledSession{
		ID:            uuid.New(),
		RequirementID: r.ID,
		StudentID:     r.StudentID,
		StaffID:       r.AssignedStaffID,
		Day:           day,
		Start:         st,
		End:           st.Add(minutes),
		Status:        status,
	}
}

func TestRecomputePartial(t *testing.T) {
	r := req(150, 30)
	sessions := []model.ScheduledSession{
		sessionFor(r, model.Monday, "09:00", 30, model.SessionActive),
		sessionFor(r, model.Tuesday, "09:00", 45, model.SessionActive),
	}

	snap := Recompute(r, sessions)
	assert.Equal(t, 75, snap.ScheduledMinutesPerWeek)
	assert.InDelta(t, 50.0, snap.CompliancePercentage, 1e-9)
	assert.Equal(t, 75, snap.Shortfall)
	assert.Equal(t, model.PartiallyScheduled, snap.Status)
}

func TestRecomputeIgnoresCancelledAndForeignSessions(t *testing.T) {
	r := req(60, 30)
	other := req(60, 30)
	sessions := []model.ScheduledSession{
		sessionFor(r, model.Monday, "09:00", 30, model.SessionCancelled),
		sessionFor(other, model.Monday, "10:00", 30, model.SessionActive),
	}

	snap := Recompute(r, sessions)
	assert.Equal(t, 0, snap.ScheduledMinutesPerWeek)
	assert.Equal(t, model.Unscheduled, snap.Status)
	assert.Equal(t, 60, snap.Shortfall)
}

func TestRecomputeFullyScheduledUnboundedAbove(t *testing.T) {
	r := req(60, 30)
	sessions := []model.ScheduledSession{
		sessionFor(r, model.Monday, "09:00", 45, model.SessionActive),
		sessionFor(r, model.Wednesday, "09:00", 45, model.SessionActive),
	}

	snap := Recompute(r, sessions)
	assert.Equal(t, 90, snap.ScheduledMinutesPerWeek)
	assert.InDelta(t, 150.0, snap.CompliancePercentage, 1e-9)
	assert.Equal(t, 0, snap.Shortfall)
	assert.Equal(t, model.FullyScheduled, snap.Status)
}

func TestSummarize(t *testing.T) {
	a := req(60, 30)
	b := req(90, 45)
	c := req(30, 30)
	sessions := []model.ScheduledSession{
		sessionFor(a, model.Monday, "09:00", 60, model.SessionActive),
		sessionFor(b, model.Tuesday, "09:00", 45, model.SessionActive),
	}

	sum := Summarize([]model.ServiceRequirement{a, b, c}, sessions)
	assert.Equal(t, 3, sum.Requirements)
	assert.Equal(t, 1, sum.FullyScheduled)
	assert.Equal(t, 1, sum.PartiallyScheduled)
	assert.Equal(t, 1, sum.Unscheduled)
	assert.Equal(t, 180, sum.RequiredMinutes)
	assert.Equal(t, 105, sum.ScheduledMinutes)
}

func TestClassifyWorkload(t *testing.T) {
	th := DefaultWorkloadThresholds()
	assert.Equal(t, WorkloadOverloaded, ClassifyWorkload(700, 500, th))
	assert.Equal(t, WorkloadHigh, ClassifyWorkload(580, 500, th))
	assert.Equal(t, WorkloadBalanced, ClassifyWorkload(500, 500, th))
	assert.Equal(t, WorkloadUnder, ClassifyWorkload(300, 500, th))
	assert.Equal(t, WorkloadBalanced, ClassifyWorkload(300, 0, th))
}
