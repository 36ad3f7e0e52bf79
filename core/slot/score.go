package slot

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/spedops/pullout/core/model"
)

// score combines the three documented inputs:
//
//   - workload balance: the assigned staff member's post-commit weekly load
//     is compared to the mean load across all staff carrying sessions; the
//     deviation is normalized by the load spread and mapped through exp(-x),
//     so staying near the average scores close to 1.
//   - locality: a full bonus when the candidate is back-to-back with another
//     session of the same requirement, half when adjacent to any other
//     session of the same student on that day.
//   - time of day: a penalty growing with the minutes the candidate sticks
//     out of the preferred daily window.
//
// The weighted sum is deterministic for identical inputs.
func (s *Searcher) score(c Candidate, req model.ServiceRequirement, sessions []model.ScheduledSession, loads map[string]int) float64 {
	w := s.weights
	return w.Workload*s.workloadScore(c, req, loads) +
		w.Locality*localityScore(c, req, sessions) -
		w.TimeOfDay*s.timeOfDayPenalty(c)
}

func (s *Searcher) workloadScore(c Candidate, req model.ServiceRequirement, loads map[string]int) float64 {
	duration := float64(int(c.End - c.Start))
	postLoad := float64(loads[req.AssignedStaffID]) + duration

	// Comparable staff: everyone already carrying sessions, plus the
	// candidate staff with the candidate committed.
	var samples []float64
	for id, minutes := range loads {
		if id == req.AssignedStaffID {
			continue
		}
		samples = append(samples, float64(minutes))
	}
	samples = append(samples, postLoad)
	if len(samples) == 1 {
		// No peers to balance against.
		return 1
	}

	mean := stat.Mean(samples, nil)
	spread := stat.StdDev(samples, nil)
	if spread < 30 {
		spread = 30
	}
	return math.Exp(-math.Abs(postLoad-mean) / spread)
}

func localityScore(c Candidate, req model.ServiceRequirement, sessions []model.ScheduledSession) float64 {
	best := 0.0
	for _, s := range sessions {
		if s.Status != model.SessionActive || s.Day != c.Day || s.StudentID != req.StudentID {
			continue
		}
		if s.End != c.Start && c.End != s.Start {
			continue
		}
		if s.RequirementID == req.ID {
			return 1
		}
		best = math.Max(best, 0.5)
	}
	return best
}

func (s *Searcher) timeOfDayPenalty(c Candidate) float64 {
	outside := 0
	if c.Start < s.preferredStart {
		outside += int(s.preferredStart - c.Start)
	}
	if c.End > s.preferredEnd {
		outside += int(c.End - s.preferredEnd)
	}
	return float64(outside) / 60
}
