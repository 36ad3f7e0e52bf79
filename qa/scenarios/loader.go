// Package scenarios runs YAML-described scheduling situations end to end
// against the real orchestrator, as a qa safety net beyond unit tests.
package scenarios

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/spedops/pullout/core/model"
	"github.com/spedops/pullout/directory"
)

type StudentDef struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name,omitempty"`
	Grade string `yaml:"grade,omitempty"`
}

type StaffDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
	Role string `yaml:"role,omitempty"`
}

type BlackoutDef struct {
	Owner string `yaml:"owner"`
	Day   string `yaml:"day"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

func (b BlackoutDef) ToModel() (model.BlockingEvent, error) {
	day, err := model.ParseWeekday(b.Day)
	if err != nil {
		return model.BlockingEvent{}, err
	}
	start, err := model.ParseTimeOfDay(b.Start)
	if err != nil {
		return model.BlockingEvent{}, err
	}
	end, err := model.ParseTimeOfDay(b.End)
	if err != nil {
		return model.BlockingEvent{}, err
	}
	return model.BlockingEvent{OwnerID: b.Owner, Day: day, Start: start, End: end}, nil
}

type RequirementDef struct {
	Student         string `yaml:"student"`
	Staff           string `yaml:"staff,omitempty"`
	Type            string `yaml:"type"`
	MinutesPerWeek  int    `yaml:"minutes_per_week"`
	SessionDuration int    `yaml:"session_duration"`
}

func (r RequirementDef) ToModel() (model.ServiceRequirement, error) {
	t, err := model.ParseServiceType(r.Type)
	if err != nil {
		return model.ServiceRequirement{}, err
	}
	return model.ServiceRequirement{
		ID:                     uuid.New(),
		StudentID:              r.Student,
		Type:                   t,
		MinutesPerWeek:         r.MinutesPerWeek,
		SessionDurationMinutes: r.SessionDuration,
		AssignedStaffID:        r.Staff,
		Status:                 model.Unscheduled,
	}, nil
}

type Expected struct {
	Scheduled      int `yaml:"scheduled"`
	Skipped        int `yaml:"skipped"`
	Failed         int `yaml:"failed"`
	FullyScheduled int `yaml:"fully_scheduled"`
}

type Scenario struct {
	Name         string           `yaml:"name"`
	Description  string           `yaml:"description,omitempty"`
	Students     []StudentDef     `yaml:"students"`
	Staff        []StaffDef       `yaml:"staff"`
	Blackouts    []BlackoutDef    `yaml:"blackouts,omitempty"`
	Requirements []RequirementDef `yaml:"requirements"`
	Expected     Expected         `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// BuildDirectory materializes the scenario's people and blackouts.
func (sc *Scenario) BuildDirectory() (*directory.MemoryDirectory, error) {
	dir := directory.NewMemoryDirectory()
	for _, s := range sc.Students {
		dir.AddStudent(directory.Student{ID: s.ID, Name: s.Name, Grade: s.Grade})
	}
	for _, s := range sc.Staff {
		dir.AddStaff(directory.Staff{ID: s.ID, Name: s.Name, Role: s.Role})
	}
	for _, b := range sc.Blackouts {
		ev, err := b.ToModel()
		if err != nil {
			return nil, fmt.Errorf("blackout for %s: %w", b.Owner, err)
		}
		dir.AddBlackout(ev)
	}
	return dir, nil
}
