package compliance

import "github.com/spedops/pullout/core/model"

// SchoolSummary rolls compliance up across every requirement, matching what a
// district dashboard reports.
type SchoolSummary struct {
	Requirements       int
	Unscheduled        int
	PartiallyScheduled int
	FullyScheduled     int

	RequiredMinutes  int
	ScheduledMinutes int
	// OverallPercentage is scheduled over required minutes across the whole
	// school, capped contributions excluded (over-scheduling one student does
	// not offset another's shortfall is a reporting concern, not enforced
	// here).
	OverallPercentage float64
}

// Summarize computes the school-wide roll-up over the given requirements and
// session set.
func Summarize(reqs []model.ServiceRequirement, sessions []model.ScheduledSession) SchoolSummary {
	var sum SchoolSummary
	sum.Requirements = len(reqs)
	for _, r := range reqs {
		snap := Recompute(r, sessions)
		sum.RequiredMinutes += r.MinutesPerWeek
		sum.ScheduledMinutes += snap.ScheduledMinutesPerWeek
		switch snap.Status {
		case model.Unscheduled:
			sum.Unscheduled++
		case model.PartiallyScheduled:
			sum.PartiallyScheduled++
		case model.FullyScheduled:
			sum.FullyScheduled++
		}
	}
	if sum.RequiredMinutes > 0 {
		sum.OverallPercentage = float64(sum.ScheduledMinutes) / float64(sum.RequiredMinutes) * 100
	}
	return sum
}
