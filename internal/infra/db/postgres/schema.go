package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
  id               TEXT PRIMARY KEY,
  session_id       TEXT NOT NULL,
  status           TEXT NOT NULL,
  type             TEXT NOT NULL,
  instructions     TEXT NOT NULL DEFAULT '',
  context_summary  TEXT NOT NULL DEFAULT '',
  result           TEXT NOT NULL DEFAULT '',
  created_at       TIMESTAMPTZ NOT NULL,
  updated_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_session ON jobs (session_id);

CREATE TABLE IF NOT EXISTS conversations (
  id                  TEXT PRIMARY KEY,
  channel             TEXT NOT NULL,
  target_user_id      TEXT NOT NULL,
  session_id          TEXT NOT NULL,
  job_id              TEXT NOT NULL REFERENCES jobs(id),
  delivery_ts         TEXT NOT NULL,
  extracted_email     TEXT NOT NULL DEFAULT '',
  extracted_question  TEXT NOT NULL DEFAULT '',
  user_response       TEXT,
  UNIQUE (channel, target_user_id)
);
CREATE INDEX IF NOT EXISTS idx_conversations_job ON conversations (job_id);

CREATE TABLE IF NOT EXISTS chat_messages (
  id          TEXT PRIMARY KEY,
  session_id  TEXT NOT NULL,
  role        TEXT NOT NULL,
  content     TEXT NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages (session_id, created_at);
`

// EnsureSchema creates tables when they do not exist. Safe to run at startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
