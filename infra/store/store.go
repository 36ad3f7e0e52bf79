// Package store persists service requirements, scheduled sessions and the
// scheduling audit trail. The scheduling core defines the invariants the
// store must uphold; the store only guarantees durability and version
// checking.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spedops/pullout/core/model"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("store: record not found")

// ErrVersionConflict is returned when a session write carries a version that
// no longer matches the stored row.
var ErrVersionConflict = errors.New("store: session version conflict")

// AuditEntry records who performed a scheduling mutation and what it touched.
type AuditEntry struct {
	Time          time.Time `json:"time"`
	Actor         string    `json:"actor"`
	Action        string    `json:"action"`
	SessionID     uuid.UUID `json:"session_id"`
	RequirementID uuid.UUID `json:"requirement_id"`
	Detail        string    `json:"detail,omitempty"`
}

// Store persists requirements, sessions and audit entries.
//
// Reads return copies; mutating a returned value never affects stored state
// until it is written back. PutSession performs a compare-and-swap on the
// session version: the write succeeds only when the carried version matches
// the stored one, and the stored version is then incremented.
type Store interface {
	Requirement(id uuid.UUID) (model.ServiceRequirement, error)
	Requirements() ([]model.ServiceRequirement, error)
	PutRequirement(req model.ServiceRequirement) error

	Session(id uuid.UUID) (model.ScheduledSession, error)
	Sessions() ([]model.ScheduledSession, error)
	PutSession(s model.ScheduledSession) error
	DeleteSession(id uuid.UUID) error

	AppendAudit(e AuditEntry) error
	Audit(limit int) ([]AuditEntry, error)

	Close() error
}
