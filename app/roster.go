package app

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/spedops/pullout/core/model"
	"github.com/spedops/pullout/directory"
)

// Roster is the YAML-described caseload a deployment starts from: the people,
// their standing commitments and the mandated services to schedule.
type Roster struct {
	Students []struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name,omitempty"`
		Grade string `yaml:"grade,omitempty"`
	} `yaml:"students"`
	Staff []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name,omitempty"`
		Role string `yaml:"role,omitempty"`
	} `yaml:"staff"`
	Rooms []struct {
		ID       string `yaml:"id"`
		Name     string `yaml:"name,omitempty"`
		Capacity int    `yaml:"capacity,omitempty"`
	} `yaml:"rooms,omitempty"`
	Blackouts []struct {
		Owner string `yaml:"owner"`
		Day   string `yaml:"day"`
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	} `yaml:"blackouts,omitempty"`
	Requirements []struct {
		Student         string `yaml:"student"`
		Staff           string `yaml:"staff,omitempty"`
		Type            string `yaml:"type"`
		MinutesPerWeek  int    `yaml:"minutes_per_week"`
		SessionDuration int    `yaml:"session_duration"`
		Description     string `yaml:"description,omitempty"`
	} `yaml:"requirements"`
}

// LoadRoster reads the roster file and seeds the directory and the store.
// Requirements are created in Unscheduled state; existing records are left
// alone.
func (s *Service) LoadRoster(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("parse roster %s: %w", path, err)
	}

	for _, st := range r.Students {
		s.Directory.AddStudent(directory.Student{ID: st.ID, Name: st.Name, Grade: st.Grade})
	}
	for _, st := range r.Staff {
		s.Directory.AddStaff(directory.Staff{ID: st.ID, Name: st.Name, Role: st.Role})
	}
	for _, rm := range r.Rooms {
		s.Directory.AddRoom(directory.Room{ID: rm.ID, Name: rm.Name, Capacity: rm.Capacity})
	}
	for _, b := range r.Blackouts {
		day, err := model.ParseWeekday(b.Day)
		if err != nil {
			return fmt.Errorf("blackout for %s: %w", b.Owner, err)
		}
		start, err := model.ParseTimeOfDay(b.Start)
		if err != nil {
			return fmt.Errorf("blackout for %s: %w", b.Owner, err)
		}
		end, err := model.ParseTimeOfDay(b.End)
		if err != nil {
			return fmt.Errorf("blackout for %s: %w", b.Owner, err)
		}
		s.Directory.AddBlackout(model.BlockingEvent{OwnerID: b.Owner, Day: day, Start: start, End: end})
	}

	for _, def := range r.Requirements {
		t, err := model.ParseServiceType(def.Type)
		if err != nil {
			return fmt.Errorf("requirement for %s: %w", def.Student, err)
		}
		req := model.ServiceRequirement{
			ID:                     uuid.New(),
			StudentID:              def.Student,
			Type:                   t,
			MinutesPerWeek:         def.MinutesPerWeek,
			SessionDurationMinutes: def.SessionDuration,
			AssignedStaffID:        def.Staff,
			Status:                 model.Unscheduled,
			Description:            def.Description,
		}
		if err := req.Validate(); err != nil {
			return fmt.Errorf("requirement for %s: %w", def.Student, err)
		}
		if err := s.Store.PutRequirement(req); err != nil {
			return err
		}
	}
	s.log.Infof("roster %s loaded: %d students, %d staff, %d requirements",
		path, len(r.Students), len(r.Staff), len(r.Requirements))
	return nil
}
