package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func session(day Weekday, start, end string) ScheduledSession {
	return ScheduledSession{
		ID:            uuid.New(),
		RequirementID: uuid.New(),
		StudentID:     "s1",
		StaffID:       "t1",
		Day:           day,
		Start:         MustParseTimeOfDay(start),
		End:           MustParseTimeOfDay(end),
		Status:        SessionActive,
	}
}

func TestOverlapsSymmetric(t *testing.T) {
	a := session(Monday, "09:00", "09:30")
	b := session(Monday, "09:15", "09:45")
	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
}

func TestOverlapsAdjacentIntervals(t *testing.T) {
	a := session(Monday, "09:00", "09:30")
	b := session(Monday, "09:30", "10:00")
	assert.False(t, a.Overlaps(b), "half-open intervals must not overlap at the boundary")
	assert.False(t, b.Overlaps(a))
}

func TestOverlapsDifferentDays(t *testing.T) {
	a := session(Monday, "09:00", "09:30")
	b := session(Tuesday, "09:00", "09:30")
	assert.False(t, a.Overlaps(b))
}

func TestSessionValidate(t *testing.T) {
	s := session(Wednesday, "10:00", "10:45")
	assert.NoError(t, s.Validate())

	bad := s
	bad.End = bad.Start
	assert.Error(t, bad.Validate())

	bad = s
	bad.StaffID = ""
	bad.StudentID = ""
	err := bad.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "staff reference is required")
	assert.Contains(t, err.Error(), "student reference is required")
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("WEDNESDAY")
	assert.NoError(t, err)
	assert.Equal(t, Wednesday, d)

	_, err = ParseWeekday("SUNDAY")
	assert.Error(t, err)
}

func TestTimeOfDay(t *testing.T) {
	ts := MustParseTimeOfDay("08:05")
	assert.Equal(t, 8, ts.Hour())
	assert.Equal(t, 5, ts.Minute())
	assert.Equal(t, "08:05", ts.String())
	assert.Equal(t, MustParseTimeOfDay("08:35"), ts.Add(30))
}

func TestParseServiceType(t *testing.T) {
	st, err := ParseServiceType("SPEECH_THERAPY")
	assert.NoError(t, err)
	assert.Equal(t, SpeechTherapy, st)

	_, err = ParseServiceType("YOGA")
	assert.Error(t, err)
}

func TestRequirementValidate(t *testing.T) {
	r := ServiceRequirement{ID: uuid.New(), StudentID: "s1", Type: Counseling, MinutesPerWeek: 60, SessionDurationMinutes: 30}
	assert.NoError(t, r.Validate())

	r.MinutesPerWeek = 0
	assert.Error(t, r.Validate())
}
