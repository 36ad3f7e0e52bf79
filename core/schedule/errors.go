package schedule

import (
	"errors"
	"fmt"

	"github.com/spedops/pullout/core/conflict"
)

var (
	// ErrInvalidTimeRange rejects a session whose end is not after its start.
	ErrInvalidTimeRange = errors.New("schedule: end time must be after start time")
	// ErrMissingStaffAssignment rejects search or auto-scheduling for a
	// requirement with no assigned staff.
	ErrMissingStaffAssignment = errors.New("schedule: requirement has no assigned staff")
	// ErrNoAvailableSlot reports an exhausted weekly grid.
	ErrNoAvailableSlot = errors.New("schedule: no feasible slot in the weekly grid")
	// ErrRequirementNotFound reports an unknown requirement id.
	ErrRequirementNotFound = errors.New("schedule: requirement not found")
	// ErrSessionNotFound reports an unknown session id.
	ErrSessionNotFound = errors.New("schedule: session not found")
	// ErrSessionCancelled rejects mutations of a cancelled session other
	// than the idempotent cancel itself.
	ErrSessionCancelled = errors.New("schedule: session is cancelled")
	// ErrConcurrentModification reports an exhausted optimistic retry loop.
	ErrConcurrentModification = errors.New("schedule: concurrent modification retries exhausted")
)

// ConflictError rejects a commit that would double-book a student or staff
// member. It carries both colliding sessions so callers can surface the
// details instead of a generic failure.
type ConflictError struct {
	Conflict conflict.Conflict
}

func (e *ConflictError) Error() string {
	c := e.Conflict
	return fmt.Sprintf("schedule: %s conflict on %s: %s-%s collides with session %s (%s-%s)",
		c.Kind, c.A.Day, c.A.Start, c.A.End, c.B.ID, c.B.Start, c.B.End)
}
