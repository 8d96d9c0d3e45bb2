package sessionstore

// Schema contains the complete DDL for the session tables.
const Schema = `
-- One row per live (or recently crashed) browser session.
CREATE TABLE IF NOT EXISTS browser_sessions (
    session_token    TEXT PRIMARY KEY,
    project_id       TEXT NOT NULL DEFAULT '',
    is_authenticated INTEGER NOT NULL DEFAULT 0,
    current_state    TEXT NOT NULL DEFAULT 'initial',
    current_url      TEXT NOT NULL DEFAULT '',
    started_at       INTEGER NOT NULL,
    last_activity    INTEGER NOT NULL,
    expires_at       INTEGER NOT NULL,
    auth_flow_id     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sessions_expires ON browser_sessions(expires_at);
CREATE INDEX IF NOT EXISTS idx_sessions_project ON browser_sessions(project_id);

-- Audit trail of session lifecycle events.
CREATE TABLE IF NOT EXISTS session_events (
    id            TEXT PRIMARY KEY,
    session_token TEXT NOT NULL,
    event_type    TEXT NOT NULL,
    detail        TEXT NOT NULL DEFAULT '',
    created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_session ON session_events(session_token);
CREATE INDEX IF NOT EXISTS idx_events_time ON session_events(created_at DESC);
`
