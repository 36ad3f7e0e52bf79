// Package conflict finds time overlaps between scheduled sessions that share
// a student or a staff member. Room double-booking is deliberately not
// checked: rooms are advisory metadata on a session.
package conflict

import (
	"sort"

	"github.com/google/uuid"

	"github.com/spedops/pullout/core/model"
)

// Kind distinguishes whether a conflict is keyed by a shared student or a
// shared staff member.
type Kind int

const (
	KindStudent Kind = iota
	KindStaff
)

// String returns a human-readable representation of the conflict kind.
func (k Kind) String() string {
	switch k {
	case KindStudent:
		return "STUDENT"
	case KindStaff:
		return "STAFF"
	default:
		return "unknown"
	}
}

// Conflict is one pairwise overlap between two active sessions.
type Conflict struct {
	Kind Kind
	A    model.ScheduledSession
	B    model.ScheduledSession
}

// FindConflicts sweeps the given session set and returns every pairwise
// overlap between ACTIVE sessions sharing a student, and independently every
// overlap between ACTIVE sessions sharing a staff member. Sessions are
// bucketed by day; within a day the check is quadratic, which is fine at
// school scale. The result ordering is deterministic.
func FindConflicts(sessions []model.ScheduledSession) []Conflict {
	byDay := make(map[model.Weekday][]model.ScheduledSession)
	for _, s := range sessions {
		if s.Status != model.SessionActive {
			continue
		}
		byDay[s.Day] = append(byDay[s.Day], s)
	}

	var out []Conflict
	for _, day := range model.Weekdays() {
		bucket := byDay[day]
		sort.Slice(bucket, func(i, j int) bool {
			if bucket[i].Start != bucket[j].Start {
				return bucket[i].Start < bucket[j].Start
			}
			return bucket[i].ID.String() < bucket[j].ID.String()
		})
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				a, b := bucket[i], bucket[j]
				if !a.Overlaps(b) {
					continue
				}
				if a.StudentID != "" && a.StudentID == b.StudentID {
					out = append(out, Conflict{Kind: KindStudent, A: a, B: b})
				}
				if a.StaffID != "" && a.StaffID == b.StaffID {
					out = append(out, Conflict{Kind: KindStaff, A: a, B: b})
				}
			}
		}
	}
	return out
}

// Check tests a single candidate against the existing ACTIVE session set and
// returns the first conflict it would create, or nil. excludeID removes one
// session from consideration so a reschedule never collides with the
// placement it is moving. The overlap predicate is the same one FindConflicts
// uses, keeping the write-path check and the audit sweep consistent.
func Check(candidate model.ScheduledSession, existing []model.ScheduledSession, excludeID uuid.UUID) *Conflict {
	for _, s := range existing {
		if s.Status != model.SessionActive || s.ID == excludeID {
			continue
		}
		if !candidate.Overlaps(s) {
			continue
		}
		if candidate.StudentID != "" && candidate.StudentID == s.StudentID {
			return &Conflict{Kind: KindStudent, A: candidate, B: s}
		}
		if candidate.StaffID != "" && candidate.StaffID == s.StaffID {
			return &Conflict{Kind: KindStaff, A: candidate, B: s}
		}
	}
	return nil
}
