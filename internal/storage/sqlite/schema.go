// ABOUTME: SQLite schema for support turn transcripts
// ABOUTME: One row per completed turn, indexed by session and recency
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Completed turns, one row each (successes and exhausted failures alike)
CREATE TABLE IF NOT EXISTS transcripts (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    user_message TEXT NOT NULL,
    reply TEXT,
    failure_kind TEXT,
    failure_message TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transcripts_session ON transcripts(session_id);
CREATE INDEX IF NOT EXISTS idx_transcripts_created ON transcripts(created_at);
`
