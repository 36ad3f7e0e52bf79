// Package directory defines the read-only collaborators the scheduling core
// consumes: student, staff and room lookups plus the blocking-event calendar.
// The core references these records but never owns their lifecycle.
package directory

import (
	"fmt"

	"github.com/spedops/pullout/core/model"
)

// Student is a directory record for a student receiving services.
type Student struct {
	ID    string
	Name  string
	Grade string
}

// Staff is a directory record for a service provider.
type Staff struct {
	ID   string
	Name string
	Role string
}

// Room is a directory record for a service location. Rooms are advisory for
// scheduling; the core never conflict-checks them.
type Room struct {
	ID       string
	Name     string
	Capacity int
}

// StudentDirectory resolves student references.
type StudentDirectory interface {
	Student(id string) (Student, error)
}

// StaffDirectory resolves staff references.
type StaffDirectory interface {
	Staff(id string) (Staff, error)
}

// RoomDirectory resolves room references.
type RoomDirectory interface {
	Room(id string) (Room, error)
}

// BlockingCalendar lists the standing commitments that pre-empt scheduling
// for a participant (assemblies, existing non-pull-out commitments).
type BlockingCalendar interface {
	// BlackoutsFor returns every blocking event owned by the given student
	// or staff id across the week.
	BlackoutsFor(ownerID string) []model.BlockingEvent
}

// NotFoundError reports a missing directory record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found in directory", e.Kind, e.ID)
}
