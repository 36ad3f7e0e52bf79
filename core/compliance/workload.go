package compliance

// WorkloadBand classifies a staff member's weekly scheduled minutes against a
// per-staff target.
type WorkloadBand int

const (
	WorkloadUnder WorkloadBand = iota
	WorkloadBalanced
	WorkloadHigh
	WorkloadOverloaded
)

// String returns a human-readable representation of the workload band.
func (b WorkloadBand) String() string {
	switch b {
	case WorkloadUnder:
		return "UNDER"
	case WorkloadBalanced:
		return "BALANCED"
	case WorkloadHigh:
		return "HIGH"
	case WorkloadOverloaded:
		return "OVERLOADED"
	default:
		return "unknown"
	}
}

// WorkloadThresholds are the ratio cut-offs between bands. Ratios are
// scheduled minutes over target minutes.
type WorkloadThresholds struct {
	Overloaded float64 `json:"overloaded"`
	High       float64 `json:"high"`
	Under      float64 `json:"under"`
}

// DefaultWorkloadThresholds mirrors the district reporting cut-offs.
func DefaultWorkloadThresholds() WorkloadThresholds {
	return WorkloadThresholds{Overloaded: 1.3, High: 1.1, Under: 0.7}
}

// ClassifyWorkload assigns a band given scheduled and target weekly minutes.
// A non-positive target yields WorkloadBalanced since no ratio is defined.
func ClassifyWorkload(scheduledMinutes, targetMinutes int, t WorkloadThresholds) WorkloadBand {
	if targetMinutes <= 0 {
		return WorkloadBalanced
	}
	ratio := float64(scheduledMinutes) / float64(targetMinutes)
	switch {
	case ratio > t.Overloaded:
		return WorkloadOverloaded
	case ratio > t.High:
		return WorkloadHigh
	case ratio < t.Under:
		return WorkloadUnder
	default:
		return WorkloadBalanced
	}
}
