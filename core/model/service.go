package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ServiceType enumerates the pull-out services a requirement can mandate.
type ServiceType int

const (
	SpeechTherapy ServiceType = iota
	OccupationalTherapy
	PhysicalTherapy
	Counseling
	BehavioralSupport
	ResourceRoom
)

// String returns a human-readable representation of the service type.
func (t ServiceType) String() string {
	switch t {
	case SpeechTherapy:
		return "SPEECH_THERAPY"
	case OccupationalTherapy:
		return "OCCUPATIONAL_THERAPY"
	case PhysicalTherapy:
		return "PHYSICAL_THERAPY"
	case Counseling:
		return "COUNSELING"
	case BehavioralSupport:
		return "BEHAVIORAL_SUPPORT"
	case ResourceRoom:
		return "RESOURCE_ROOM"
	default:
		return "unknown"
	}
}

// ParseServiceType converts a service type name to its enumerated value.
func ParseServiceType(s string) (ServiceType, error) {
	for _, t := range []ServiceType{SpeechTherapy, OccupationalTherapy, PhysicalTherapy, Counseling, BehavioralSupport, ResourceRoom} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown service type %q", s)
}

// RequirementStatus describes how much of a requirement's weekly minute quota
// is covered by active sessions.
type RequirementStatus int

const (
	Unscheduled RequirementStatus = iota
	PartiallyScheduled
	FullyScheduled
)

// String returns a human-readable representation of the requirement status.
func (s RequirementStatus) String() string {
	switch s {
	case Unscheduled:
		return "UNSCHEDULED"
	case PartiallyScheduled:
		return "PARTIALLY_SCHEDULED"
	case FullyScheduled:
		return "FULLY_SCHEDULED"
	default:
		return "unknown"
	}
}

// ServiceRequirement is a student's legally mandated weekly service quota.
// It anchors the sessions scheduled against it; the student and staff it
// references live in external directories.
type ServiceRequirement struct {
	ID        uuid.UUID
	StudentID string
	Type      ServiceType

	// MinutesPerWeek is the mandated weekly quota.
	MinutesPerWeek int
	// SessionDurationMinutes is the typical single-session length.
	SessionDurationMinutes int

	// AssignedStaffID is empty until a staff member is assigned. Scheduling
	// cannot be attempted while it is empty.
	AssignedStaffID string

	Status      RequirementStatus
	Description string
}

// Validate checks that the requirement is well formed.
func (r ServiceRequirement) Validate() error {
	var errs []error
	if r.StudentID == "" {
		errs = append(errs, errors.New("student reference is required"))
	}
	if r.MinutesPerWeek <= 0 {
		errs = append(errs, errors.New("minutes per week must be positive"))
	}
	if r.SessionDurationMinutes <= 0 {
		errs = append(errs, errors.New("session duration must be positive"))
	}
	return errors.Join(errs...)
}

// BlockingEvent is an external calendar entry that pre-empts scheduling for
// its owner (a student or staff member) during its span.
type BlockingEvent struct {
	OwnerID string
	Day     Weekday
	Start   TimeOfDay
	End     TimeOfDay
}

// Covers reports whether the candidate interval intersects the blocked span.
func (b BlockingEvent) Covers(day Weekday, start, end TimeOfDay) bool {
	return b.Day == day && start < b.End && b.Start < end
}
