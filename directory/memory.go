package directory

import (
	"sync"

	"github.com/spedops/pullout/core/model"
)

// MemoryDirectory is an in-memory implementation of every directory
// interface. It backs tests, scenario runs and single-school deployments
// where the authoritative directories are loaded at startup.
type MemoryDirectory struct {
	mu        sync.RWMutex
	students  map[string]Student
	staff     map[string]Staff
	rooms     map[string]Room
	blackouts map[string][]model.BlockingEvent
}

// NewMemoryDirectory returns an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		students:  make(map[string]Student),
		staff:     make(map[string]Staff),
		rooms:     make(map[string]Room),
		blackouts: make(map[string][]model.BlockingEvent),
	}
}

// AddStudent registers a student record.
func (d *MemoryDirectory) AddStudent(s Student) {
	d.mu.Lock()
	d.students[s.ID] = s
	d.mu.Unlock()
}

// AddStaff registers a staff record.
func (d *MemoryDirectory) AddStaff(s Staff) {
	d.mu.Lock()
	d.staff[s.ID] = s
	d.mu.Unlock()
}

// AddRoom registers a room record.
func (d *MemoryDirectory) AddRoom(r Room) {
	d.mu.Lock()
	d.rooms[r.ID] = r
	d.mu.Unlock()
}

// AddBlackout appends a blocking event for its owner.
func (d *MemoryDirectory) AddBlackout(b model.BlockingEvent) {
	d.mu.Lock()
	d.blackouts[b.OwnerID] = append(d.blackouts[b.OwnerID], b)
	d.mu.Unlock()
}

// Student implements StudentDirectory.
func (d *MemoryDirectory) Student(id string) (Student, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.students[id]
	if !ok {
		return Student{}, NotFoundError{Kind: "student", ID: id}
	}
	return s, nil
}

// Staff implements StaffDirectory.
func (d *MemoryDirectory) Staff(id string) (Staff, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.staff[id]
	if !ok {
		return Staff{}, NotFoundError{Kind: "staff", ID: id}
	}
	return s, nil
}

// Room implements RoomDirectory.
func (d *MemoryDirectory) Room(id string) (Room, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rooms[id]
	if !ok {
		return Room{}, NotFoundError{Kind: "room", ID: id}
	}
	return r, nil
}

// BlackoutsFor implements BlockingCalendar. The returned slice is a copy.
func (d *MemoryDirectory) BlackoutsFor(ownerID string) []model.BlockingEvent {
	d.mu.RLock()
	defer d.mu.RUnlock()
	src := d.blackouts[ownerID]
	if len(src) == 0 {
		return nil
	}
	out := make([]model.BlockingEvent, len(src))
	copy(out, src)
	return out
}
