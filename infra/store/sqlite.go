package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/spedops/pullout/core/model"
)

// SQLiteStore persists scheduling records to a SQLite database. Rows carry a
// JSON copy of the record plus a few indexed columns for querying; the JSON
// form keeps the schema stable as the model grows.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `
    CREATE TABLE IF NOT EXISTS requirements (
        id TEXT PRIMARY KEY,
        student_id TEXT,
        service_type TEXT,
        status TEXT,
        record TEXT
    );
    CREATE TABLE IF NOT EXISTS sessions (
        id TEXT PRIMARY KEY,
        requirement_id TEXT,
        student_id TEXT,
        staff_id TEXT,
        day TEXT,
        status TEXT,
        version INTEGER,
        record TEXT
    );
    CREATE TABLE IF NOT EXISTS audit_log (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        ts INTEGER,
        actor TEXT,
        action TEXT,
        record TEXT
    );
    CREATE INDEX IF NOT EXISTS idx_sessions_requirement ON sessions(requirement_id);
    CREATE INDEX IF NOT EXISTS idx_sessions_student ON sessions(student_id);
    CREATE INDEX IF NOT EXISTS idx_sessions_staff ON sessions(staff_id);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Requirement returns the requirement with the given id.
func (s *SQLiteStore) Requirement(id uuid.UUID) (model.ServiceRequirement, error) {
	var data string
	err := s.db.QueryRow(`SELECT record FROM requirements WHERE id = ?`, id.String()).Scan(&data)
	if err == sql.ErrNoRows {
		return model.ServiceRequirement{}, ErrNotFound
	}
	if err != nil {
		return model.ServiceRequirement{}, err
	}
	var r model.ServiceRequirement
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return model.ServiceRequirement{}, fmt.Errorf("unmarshal requirement: %w", err)
	}
	return r, nil
}

// Requirements returns every stored requirement ordered by id.
func (s *SQLiteStore) Requirements() ([]model.ServiceRequirement, error) {
	rows, err := s.db.Query(`SELECT record FROM requirements ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.ServiceRequirement
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r model.ServiceRequirement
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal requirement: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PutRequirement inserts or replaces a requirement.
func (s *SQLiteStore) PutRequirement(req model.ServiceRequirement) error {
	b, err := json.Marshal(req)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO requirements (id, student_id, service_type, status, record)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET student_id=excluded.student_id,
             service_type=excluded.service_type, status=excluded.status,
             record=excluded.record`,
		req.ID.String(), req.StudentID, req.Type.String(), req.Status.String(), string(b))
	return err
}

// Session returns the session with the given id.
func (s *SQLiteStore) Session(id uuid.UUID) (model.ScheduledSession, error) {
	var data string
	err := s.db.QueryRow(`SELECT record FROM sessions WHERE id = ?`, id.String()).Scan(&data)
	if err == sql.ErrNoRows {
		return model.ScheduledSession{}, ErrNotFound
	}
	if err != nil {
		return model.ScheduledSession{}, err
	}
	var sess model.ScheduledSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return model.ScheduledSession{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}

// Sessions returns every stored session ordered by id.
func (s *SQLiteStore) Sessions() ([]model.ScheduledSession, error) {
	rows, err := s.db.Query(`SELECT record FROM sessions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.ScheduledSession
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var sess model.ScheduledSession
		if err := json.Unmarshal([]byte(data), &sess); err != nil {
			return nil, fmt.Errorf("unmarshal session: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// PutSession writes the session guarded by a version compare-and-swap.
func (s *SQLiteStore) PutSession(sess model.ScheduledSession) error {
	var stored int64
	err := s.db.QueryRow(`SELECT version FROM sessions WHERE id = ?`, sess.ID.String()).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		// New row.
	case err != nil:
		return err
	case stored != sess.Version:
		return ErrVersionConflict
	}

	sess.Version++
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (id, requirement_id, student_id, staff_id, day, status, version, record)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET requirement_id=excluded.requirement_id,
             student_id=excluded.student_id, staff_id=excluded.staff_id,
             day=excluded.day, status=excluded.status,
             version=excluded.version, record=excluded.record`,
		sess.ID.String(), sess.RequirementID.String(), sess.StudentID, sess.StaffID,
		sess.Day.String(), sess.Status.String(), sess.Version, string(b))
	return err
}

// DeleteSession removes the session permanently.
func (s *SQLiteStore) DeleteSession(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendAudit records an audit entry.
func (s *SQLiteStore) AppendAudit(e AuditEntry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO audit_log (ts, actor, action, record) VALUES (?, ?, ?, ?)`,
		e.Time.Unix(), e.Actor, e.Action, string(b))
	return err
}

// Audit returns the most recent entries, newest last.
func (s *SQLiteStore) Audit(limit int) ([]AuditEntry, error) {
	query := `SELECT record FROM audit_log ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []AuditEntry
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var e AuditEntry
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, fmt.Errorf("unmarshal audit entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Reverse to chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
