package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS clipboard_entries (
    id UUID PRIMARY KEY,
    owner_id TEXT NOT NULL,
    device_id TEXT NOT NULL,
    ciphertext TEXT NOT NULL,
    content_type TEXT NOT NULL,
    encryption_algorithm TEXT NOT NULL,
    encryption_iv TEXT NOT NULL,
    encryption_key_length INT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    expires_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS clipboard_entries_owner_created
    ON clipboard_entries (owner_id, created_at DESC);

CREATE TABLE IF NOT EXISTS audit_logs (
    id UUID PRIMARY KEY,
    ts TIMESTAMPTZ NOT NULL,
    actor_user_id TEXT NOT NULL,
    device_id TEXT NOT NULL,
    action TEXT NOT NULL,
    target_domain TEXT NOT NULL DEFAULT '',
    target_application TEXT NOT NULL DEFAULT '',
    content_hash TEXT NOT NULL,
    status TEXT NOT NULL,
    previous_log_hash TEXT NOT NULL,
    integrity_signature TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS audit_logs_ts ON audit_logs (ts DESC);

CREATE TABLE IF NOT EXISTS domain_rules (
    id UUID PRIMARY KEY,
    organization_id TEXT NOT NULL,
    pattern TEXT NOT NULL,
    rule_type TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS application_rules (
    id UUID PRIMARY KEY,
    organization_id TEXT NOT NULL,
    pattern TEXT NOT NULL,
    rule_type TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);
`

func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
