package slot

import (
	"fmt"

	"github.com/spedops/pullout/core/model"
)

// Weights tune the relative influence of each scoring input. They are
// configuration, not constants, so districts can bias placement differently.
type Weights struct {
	// Workload rewards candidates that keep the assigned staff member's
	// post-commit weekly load close to the average across staff.
	Workload float64 `json:"workload"`
	// Locality rewards candidates adjacent to the student's existing
	// sessions, reducing fragmented school days.
	Locality float64 `json:"locality"`
	// TimeOfDay penalizes placements outside the preferred daily window.
	TimeOfDay float64 `json:"time_of_day"`
}

// Config defines the scheduling grid and scoring weights. Times are "HH:MM"
// strings so the struct can be unmarshalled directly from configuration.
type Config struct {
	DayStart       string  `json:"day_start"`
	DayEnd         string  `json:"day_end"`
	StepMinutes    int     `json:"step_minutes"`
	PreferredStart string  `json:"preferred_start"`
	PreferredEnd   string  `json:"preferred_end"`
	Weights        Weights `json:"weights"`
}

// SetDefaults applies the standard school operating window and weights.
func (c *Config) SetDefaults() {
	if c.DayStart == "" {
		c.DayStart = "08:00"
	}
	if c.DayEnd == "" {
		c.DayEnd = "15:30"
	}
	if c.StepMinutes == 0 {
		c.StepMinutes = 15
	}
	if c.PreferredStart == "" {
		c.PreferredStart = "08:30"
	}
	if c.PreferredEnd == "" {
		c.PreferredEnd = "14:30"
	}
	if c.Weights == (Weights{}) {
		c.Weights = Weights{Workload: 1.0, Locality: 0.5, TimeOfDay: 0.25}
	}
}

// Validate checks the grid definition.
func (c Config) Validate() error {
	start, err := model.ParseTimeOfDay(c.DayStart)
	if err != nil {
		return err
	}
	end, err := model.ParseTimeOfDay(c.DayEnd)
	if err != nil {
		return err
	}
	if end <= start {
		return fmt.Errorf("day_end %s must be after day_start %s", c.DayEnd, c.DayStart)
	}
	if c.StepMinutes <= 0 {
		return fmt.Errorf("step_minutes must be positive")
	}
	if _, err := model.ParseTimeOfDay(c.PreferredStart); err != nil {
		return err
	}
	if _, err := model.ParseTimeOfDay(c.PreferredEnd); err != nil {
		return err
	}
	return nil
}

// DefaultConfig returns a validated configuration with all defaults applied.
func DefaultConfig() Config {
	var c Config
	c.SetDefaults()
	return c
}

// NewSearcher compiles the configuration into a Searcher.
func NewSearcher(c Config) (*Searcher, error) {
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s := &Searcher{
		dayStart:       model.MustParseTimeOfDay(c.DayStart),
		dayEnd:         model.MustParseTimeOfDay(c.DayEnd),
		preferredStart: model.MustParseTimeOfDay(c.PreferredStart),
		preferredEnd:   model.MustParseTimeOfDay(c.PreferredEnd),
		step:           c.StepMinutes,
		weights:        c.Weights,
	}
	return s, nil
}
