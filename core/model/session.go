package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionStatus describes the lifecycle state of a scheduled session.
type SessionStatus int

const (
	SessionActive SessionStatus = iota
	SessionCancelled
)

// String returns a human-readable representation of the session status.
func (s SessionStatus) String() string {
	switch s {
	case SessionActive:
		return "ACTIVE"
	case SessionCancelled:
		return "CANCELLED"
	default:
		return "unknown"
	}
}

// ScheduledSession is one recurring weekly placement fulfilling part of a
// service requirement. Student and staff references are denormalized from the
// requirement at scheduling time so conflict checks never need a directory
// lookup. Cancelled sessions are kept for audit history and excluded from all
// sums and invariants.
type ScheduledSession struct {
	ID            uuid.UUID
	RequirementID uuid.UUID
	StudentID     string
	StaffID       string

	Day   Weekday
	Start TimeOfDay
	End   TimeOfDay

	// RoomID is advisory metadata. Rooms are never conflict-checked.
	RoomID string

	Status    SessionStatus
	Recurring bool
	// StartDate and EndDate bound the recurrence. Zero values mean unbounded.
	StartDate time.Time
	EndDate   time.Time

	Notes string

	// Version increments on every committed mutation. Stores reject writes
	// carrying a stale version so concurrent writers cannot silently
	// overwrite each other.
	Version int64
}

// DurationMinutes returns the session length in minutes.
func (s ScheduledSession) DurationMinutes() int {
	return int(s.End - s.Start)
}

// Overlaps reports whether two sessions occupy intersecting [start,end)
// intervals on the same day. The predicate is symmetric.
func (s ScheduledSession) Overlaps(o ScheduledSession) bool {
	return s.Day == o.Day && s.Start < o.End && o.Start < s.End
}

// Validate checks that the session is well formed. All field errors are
// collected so a caller can surface them at once.
func (s ScheduledSession) Validate() error {
	var errs []error
	if s.RequirementID == uuid.Nil {
		errs = append(errs, errors.New("service requirement reference is required"))
	}
	if s.StudentID == "" {
		errs = append(errs, errors.New("student reference is required"))
	}
	if s.StaffID == "" {
		errs = append(errs, errors.New("staff reference is required"))
	}
	if !s.Day.Valid() {
		errs = append(errs, errors.New("day of week must be a school day"))
	}
	if s.End <= s.Start {
		errs = append(errs, errors.New("end time must be after start time"))
	}
	return errors.Join(errs...)
}
