// Package export serializes the committed weekly schedule for consumption
// outside the engine (district reporting, spreadsheet review).
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/spedops/pullout/core/model"
)

// WriteJSON writes the sessions to w in JSON format.
func WriteJSON(w io.Writer, sessions []model.ScheduledSession) error {
	enc := json.NewEncoder(w)
	return enc.Encode(sessions)
}

// WriteCSV writes the sessions to w in CSV format, one row per session.
func WriteCSV(w io.Writer, sessions []model.ScheduledSession) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"session_id", "requirement_id", "student_id", "staff_id", "day", "start", "end", "minutes", "room", "status"}); err != nil {
		return err
	}
	for _, s := range sessions {
		rec := []string{
			s.ID.String(),
			s.RequirementID.String(),
			s.StudentID,
			s.StaffID,
			s.Day.String(),
			s.Start.String(),
			s.End.String(),
			strconv.Itoa(s.DurationMinutes()),
			s.RoomID,
			s.Status.String(),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
