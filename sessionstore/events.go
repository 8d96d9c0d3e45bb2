package sessionstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/probelab/domscout/dbopen"
	"github.com/probelab/domscout/idgen"
)

// Event types recorded in the audit trail.
const (
	EventCreated      = "created"
	EventAuth         = "authenticated"
	EventNavigated    = "navigated"
	EventAction       = "action"
	EventExtended     = "extended"
	EventClosed       = "closed"
	EventSwept        = "swept"
	EventAuthFailed   = "auth_failed"
	EventActionFailed = "action_failed"
)

// Event is one session audit row.
type Event struct {
	ID        string `json:"id"`
	Token     string `json:"sessionToken"`
	Type      string `json:"eventType"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// LogEvent appends to the session audit trail. It never propagates
// failures: the audit trail is advisory and must not fail the operation it
// records.
func (s *Store) LogEvent(ctx context.Context, token, eventType, detail string) {
	_, err := dbopen.Exec(ctx, s.DB, `
		INSERT INTO session_events (id, session_token, event_type, detail, created_at)
		VALUES (?,?,?,?,?)`,
		idgen.Prefixed("evt_", idgen.Default)(), token, eventType, detail,
		time.Now().UnixMilli(),
	)
	if err != nil {
		slog.Warn("sessionstore: event log failed",
			"token", token, "event", eventType, "error", err)
	}
}

// Events returns the audit trail for one session, newest first.
func (s *Store) Events(ctx context.Context, token string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, session_token, event_type, detail, created_at
		FROM session_events WHERE session_token = ?
		ORDER BY created_at DESC LIMIT ?`, token, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Token, &e.Type, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
