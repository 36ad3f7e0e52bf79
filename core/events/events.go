package events

import (
	"github.com/google/uuid"

	"github.com/spedops/pullout/core/model"
)

// SessionAction names the mutation applied to a session.
type SessionAction string

const (
	ActionCreated     SessionAction = "created"
	ActionRescheduled SessionAction = "rescheduled"
	ActionCancelled   SessionAction = "cancelled"
	ActionDeleted     SessionAction = "deleted"
)

// SessionEvent is emitted after every committed session mutation.
type SessionEvent struct {
	Action  SessionAction
	Actor   string
	Session model.ScheduledSession
}

// RequirementStatusEvent is emitted when a ledger recompute moves a
// requirement between compliance states.
type RequirementStatusEvent struct {
	RequirementID uuid.UUID
	From          model.RequirementStatus
	To            model.RequirementStatus
}

// BatchEvent is emitted once per completed batch run with the final counts.
type BatchEvent struct {
	Actor     string
	Scheduled int
	Skipped   int
	Failed    int
}
