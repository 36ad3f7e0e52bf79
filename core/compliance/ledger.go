package compliance

import (
	"github.com/spedops/pullout/core/model"
)

// Snapshot is the derived compliance state of one service requirement against
// the current active session set.
type Snapshot struct {
	ScheduledMinutesPerWeek int
	CompliancePercentage    float64
	Shortfall               int
	Status                  model.RequirementStatus
}

// Recompute derives the compliance snapshot for a requirement from the given
// session set. Only ACTIVE sessions linked to the requirement count. The
// function is pure; the orchestrator re-runs it after every commit touching
// the requirement.
func Recompute(req model.ServiceRequirement, sessions []model.ScheduledSession) Snapshot {
	scheduled := 0
	for _, s := range sessions {
		if s.Status != model.SessionActive || s.RequirementID != req.ID {
			continue
		}
		scheduled += s.DurationMinutes()
	}

	snap := Snapshot{ScheduledMinutesPerWeek: scheduled}
	if req.MinutesPerWeek > 0 {
		snap.CompliancePercentage = float64(scheduled) / float64(req.MinutesPerWeek) * 100
	}
	if shortfall := req.MinutesPerWeek - scheduled; shortfall > 0 {
		snap.Shortfall = shortfall
	}

	switch {
	case scheduled == 0:
		snap.Status = model.Unscheduled
	case scheduled >= req.MinutesPerWeek:
		snap.Status = model.FullyScheduled
	default:
		snap.Status = model.PartiallyScheduled
	}
	return snap
}
