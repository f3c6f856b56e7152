// internal/repository/schema.go
package repository

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS access_tokens (
  id SERIAL PRIMARY KEY,
  token VARCHAR(32) NOT NULL UNIQUE,
  is_used BOOLEAN NOT NULL DEFAULT false,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS respondents (
  id UUID PRIMARY KEY,
  name TEXT NOT NULL,
  phone_no VARCHAR(32) NOT NULL,
  email TEXT NOT NULL,
  current_qualification TEXT NOT NULL,
  access_token VARCHAR(32) NOT NULL UNIQUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS responses (
  id SERIAL PRIMARY KEY,
  access_token VARCHAR(32) NOT NULL,
  section VARCHAR(64) NOT NULL,
  answers JSONB NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_responses_access_token ON responses (access_token);

CREATE TABLE IF NOT EXISTS stream_assessments (
  id UUID PRIMARY KEY,
  access_token VARCHAR(32) NOT NULL UNIQUE,
  variant VARCHAR(16) NOT NULL,
  result JSONB NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reports (
  id UUID PRIMARY KEY,
  access_token VARCHAR(32) NOT NULL,
  format VARCHAR(8) NOT NULL,
  content BYTEA NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_reports_access_token ON reports (access_token);
`

// EnsureSchema creates every table the workers use. It is safe to run on
// every start.
func EnsureSchema(ctx context.Context, db DBTX) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
