package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates the tables, indexes and the checkin_meal function if
// they do not exist yet. It is safe to run on every start.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

-- Applicants
CREATE TABLE IF NOT EXISTS applicants (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email TEXT NOT NULL,
    full_name TEXT NOT NULL DEFAULT '',
    university TEXT NOT NULL DEFAULT '',
    graduation_year TEXT NOT NULL DEFAULT '',
    shirt_size TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'waitlisted', 'denied')),
    decision_note TEXT,
    decided_by TEXT,
    qr_token TEXT UNIQUE,
    checked_in_at TIMESTAMPTZ,
    meal_checkins JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_applicants_email_lower ON applicants(lower(email));
CREATE INDEX IF NOT EXISTS idx_applicants_created_at ON applicants(created_at DESC);

-- Email provider events
CREATE TABLE IF NOT EXISTS email_logs (
    id UUID PRIMARY KEY,
    event_type TEXT NOT NULL,
    applicant_id UUID REFERENCES applicants(id) ON DELETE SET NULL,
    applicant_email TEXT NOT NULL,
    subject TEXT,
    provider_message_id TEXT,
    provider_event_id TEXT,
    reason TEXT,
    raw_event JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_email_logs_created_at ON email_logs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_email_logs_email_type ON email_logs(lower(applicant_email), event_type);

-- Adds a meal entry only when the key is absent. Concurrent callers on the
-- same row serialize on the row lock and re-check the predicate.
CREATE OR REPLACE FUNCTION checkin_meal(p_id UUID, p_meal TEXT, p_entry JSONB)
RETURNS BOOLEAN AS $$
DECLARE
    changed INTEGER;
BEGIN
    UPDATE applicants
    SET meal_checkins = COALESCE(meal_checkins, '{}'::jsonb) || jsonb_build_object(p_meal, p_entry),
        updated_at = NOW()
    WHERE id = p_id
      AND NOT (COALESCE(meal_checkins, '{}'::jsonb) ? p_meal);
    GET DIAGNOSTICS changed = ROW_COUNT;
    RETURN changed > 0;
END;
$$ LANGUAGE plpgsql;
`
