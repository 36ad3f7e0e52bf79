package slot

import (
	"github.com/google/uuid"

	"github.com/spedops/pullout/core/conflict"
	"github.com/spedops/pullout/core/model"
)

// Candidate is an ephemeral placement proposal. It is never persisted; a
// caller either shows it to a human for approval or commits it immediately.
type Candidate struct {
	Day   model.Weekday
	Start model.TimeOfDay
	End   model.TimeOfDay
	Score float64
}

// Searcher enumerates and scores grid candidates. Construct it with
// NewSearcher; the zero value is not usable.
type Searcher struct {
	dayStart       model.TimeOfDay
	dayEnd         model.TimeOfDay
	preferredStart model.TimeOfDay
	preferredEnd   model.TimeOfDay
	step           int
	weights        Weights
}

// FindBest returns the highest-scoring feasible candidate for the
// requirement, or false if the grid is exhausted. Days are walked in order
// and starts ascending with a strictly-greater comparison, so ties always
// resolve to the earliest day then the earliest start.
//
// The requirement must have assigned staff; the orchestrator enforces that
// precondition before calling.
func (s *Searcher) FindBest(req model.ServiceRequirement, sessions []model.ScheduledSession, blocking []model.BlockingEvent) (Candidate, bool) {
	loads := staffLoadMinutes(sessions)
	var best Candidate
	found := false
	for _, day := range model.Weekdays() {
		for _, c := range s.feasibleForDay(req, day, sessions, blocking) {
			c.Score = s.score(c, req, sessions, loads)
			if !found || c.Score > best.Score {
				best = c
				found = true
			}
		}
	}
	return best, found
}

// FindAvailable returns every feasible candidate grouped by day, scored.
// Callers present this grid to a human picker.
func (s *Searcher) FindAvailable(req model.ServiceRequirement, sessions []model.ScheduledSession, blocking []model.BlockingEvent) map[model.Weekday][]Candidate {
	loads := staffLoadMinutes(sessions)
	out := make(map[model.Weekday][]Candidate)
	for _, day := range model.Weekdays() {
		cands := s.feasibleForDay(req, day, sessions, blocking)
		if len(cands) == 0 {
			continue
		}
		for i := range cands {
			cands[i].Score = s.score(cands[i], req, sessions, loads)
		}
		out[day] = cands
	}
	return out
}

// feasibleForDay walks the day's grid at the configured step and keeps
// candidates that neither fall inside a blocking event for the student or
// staff nor collide with the active session set.
func (s *Searcher) feasibleForDay(req model.ServiceRequirement, day model.Weekday, sessions []model.ScheduledSession, blocking []model.BlockingEvent) []Candidate {
	duration := req.SessionDurationMinutes
	var out []Candidate
	for start := s.dayStart; start.Add(duration) <= s.dayEnd; start = start.Add(s.step) {
		end := start.Add(duration)
		if blocked(blocking, req, day, start, end) {
			continue
		}
		probe := model.ScheduledSession{
			RequirementID: req.ID,
			StudentID:     req.StudentID,
			StaffID:       req.AssignedStaffID,
			Day:           day,
			Start:         start,
			End:           end,
			Status:        model.SessionActive,
		}
		if conflict.Check(probe, sessions, uuid.Nil) != nil {
			continue
		}
		out = append(out, Candidate{Day: day, Start: start, End: end})
	}
	return out
}

func blocked(blocking []model.BlockingEvent, req model.ServiceRequirement, day model.Weekday, start, end model.TimeOfDay) bool {
	for _, b := range blocking {
		if b.OwnerID != req.StudentID && b.OwnerID != req.AssignedStaffID {
			continue
		}
		if b.Covers(day, start, end) {
			return true
		}
	}
	return false
}

// staffLoadMinutes sums active weekly minutes per staff member.
func staffLoadMinutes(sessions []model.ScheduledSession) map[string]int {
	loads := make(map[string]int)
	for _, s := range sessions {
		if s.Status != model.SessionActive || s.StaffID == "" {
			continue
		}
		loads[s.StaffID] += s.DurationMinutes()
	}
	return loads
}
