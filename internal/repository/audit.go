package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/clipsentry/clipsentry/internal/models"
)

// PostgresAuditRepository stores audit log rows in PostgreSQL. Rows are
// append-only; there are no update or delete operations.
type PostgresAuditRepository struct {
	DB *sql.DB
}

// NewPostgresAuditRepository creates an audit repository over the provided *sql.DB.
func NewPostgresAuditRepository(db *sql.DB) *PostgresAuditRepository {
	return &PostgresAuditRepository{DB: db}
}

const auditColumns = `id, ts, actor_user_id, device_id, action,
	target_domain, target_application, content_hash, status,
	previous_log_hash, integrity_signature`

// LatestEntry returns the most recent audit entry by timestamp, or nil if
// the log is empty.
func (r *PostgresAuditRepository) LatestEntry(ctx context.Context) (*models.AuditLogEntry, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+auditColumns+`
		FROM audit_logs
		ORDER BY ts DESC
		LIMIT 1
	`)
	e, err := scanAudit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: latest audit entry: %v", ErrPersistence, err)
	}
	return e, nil
}

// CreateEntry persists a signed audit entry.
func (r *PostgresAuditRepository) CreateEntry(ctx context.Context, e *models.AuditLogEntry) (*models.AuditLogEntry, error) {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO audit_logs
			(id, ts, actor_user_id, device_id, action,
			 target_domain, target_application, content_hash, status,
			 previous_log_hash, integrity_signature)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, e.ID, e.Timestamp, e.ActorUserID, e.DeviceID, e.Action,
		e.TargetDomain, e.TargetApplication, e.ContentHash, e.Status,
		e.PreviousLogHash, e.IntegritySignature)
	if err != nil {
		return nil, fmt.Errorf("%w: create audit entry: %v", ErrPersistence, err)
	}
	return e, nil
}

// ListEntries returns audit entries newest first, for the dashboard.
func (r *PostgresAuditRepository) ListEntries(ctx context.Context, limit, offset int) ([]models.AuditLogEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+auditColumns+`
		FROM audit_logs
		ORDER BY ts DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list audit entries: %v", ErrPersistence, err)
	}
	defer rows.Close()
	return collectAudit(rows)
}

// AllEntriesAsc returns the full log oldest first, the order chain
// verification walks in.
func (r *PostgresAuditRepository) AllEntriesAsc(ctx context.Context) ([]models.AuditLogEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+auditColumns+`
		FROM audit_logs
		ORDER BY ts ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: load audit chain: %v", ErrPersistence, err)
	}
	defer rows.Close()
	return collectAudit(rows)
}

func collectAudit(rows *sql.Rows) ([]models.AuditLogEntry, error) {
	var entries []models.AuditLogEntry
	for rows.Next() {
		e, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan audit entry: %v", ErrPersistence, err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate audit entries: %v", ErrPersistence, err)
	}
	return entries, nil
}

func scanAudit(s scanner) (*models.AuditLogEntry, error) {
	var e models.AuditLogEntry
	err := s.Scan(&e.ID, &e.Timestamp, &e.ActorUserID, &e.DeviceID, &e.Action,
		&e.TargetDomain, &e.TargetApplication, &e.ContentHash, &e.Status,
		&e.PreviousLogHash, &e.IntegritySignature)
	if err != nil {
		return nil, err
	}
	// Signatures cover UTC timestamps; normalize what the driver returns.
	e.Timestamp = e.Timestamp.UTC()
	return &e, nil
}
