// Package sessionstore is the SQLite persistence layer for browser
// sessions. It implements session.Store; timestamps are stored as unix
// milliseconds.
package sessionstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/probelab/domscout/dbopen"
	"github.com/probelab/domscout/session"
)

// Store is the session database handle.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the session SQLite database at path and applies
// the schema.
func Open(path string, opts ...dbopen.Option) (*Store, error) {
	allOpts := append([]dbopen.Option{
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(Schema),
	}, opts...)

	db, err := dbopen.Open(path, allOpts...)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// New wraps an already-open database (tests use dbopen.OpenMemory).
func New(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Create inserts a new session row. Writes go through dbopen.Exec so
// transient BUSY errors under WAL contention are retried.
func (s *Store) Create(ctx context.Context, rec *session.Record) error {
	_, err := dbopen.Exec(ctx, s.DB, `
		INSERT INTO browser_sessions
			(session_token, project_id, is_authenticated, current_state, current_url,
			 started_at, last_activity, expires_at, auth_flow_id)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		rec.Token, rec.ProjectID, boolToInt(rec.IsAuthenticated), rec.CurrentState, rec.CurrentURL,
		rec.StartedAt.UnixMilli(), rec.LastActivity.UnixMilli(), rec.ExpiresAt.UnixMilli(),
		rec.AuthFlowID,
	)
	return err
}

// Get retrieves a session by token; (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, token string) (*session.Record, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT session_token, project_id, is_authenticated, current_state, current_url,
		       started_at, last_activity, expires_at, auth_flow_id
		FROM browser_sessions WHERE session_token = ?`, token)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Update rewrites the mutable session fields.
func (s *Store) Update(ctx context.Context, rec *session.Record) error {
	_, err := dbopen.Exec(ctx, s.DB, `
		UPDATE browser_sessions SET
			is_authenticated = ?, current_state = ?, current_url = ?,
			last_activity = ?, expires_at = ?, auth_flow_id = ?
		WHERE session_token = ?`,
		boolToInt(rec.IsAuthenticated), rec.CurrentState, rec.CurrentURL,
		rec.LastActivity.UnixMilli(), rec.ExpiresAt.UnixMilli(), rec.AuthFlowID,
		rec.Token,
	)
	return err
}

// Delete removes the session row.
func (s *Store) Delete(ctx context.Context, token string) error {
	_, err := dbopen.Exec(ctx, s.DB, `DELETE FROM browser_sessions WHERE session_token = ?`, token)
	return err
}

// ListExpired returns sessions whose expiry is before now.
func (s *Store) ListExpired(ctx context.Context, now time.Time) ([]*session.Record, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT session_token, project_id, is_authenticated, current_state, current_url,
		       started_at, last_activity, expires_at, auth_flow_id
		FROM browser_sessions WHERE expires_at < ?
		ORDER BY expires_at`, now.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*session.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*session.Record, error) {
	var (
		rec                              session.Record
		auth                             int
		startedAt, lastActivity, expires int64
	)
	err := row.Scan(
		&rec.Token, &rec.ProjectID, &auth, &rec.CurrentState, &rec.CurrentURL,
		&startedAt, &lastActivity, &expires, &rec.AuthFlowID,
	)
	if err != nil {
		return nil, err
	}
	rec.IsAuthenticated = auth != 0
	rec.StartedAt = time.UnixMilli(startedAt).UTC()
	rec.LastActivity = time.UnixMilli(lastActivity).UTC()
	rec.ExpiresAt = time.UnixMilli(expires).UTC()
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
