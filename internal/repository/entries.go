// Package repository provides PostgreSQL persistence for clipboard entries,
// audit log rows, and paste rules.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clipsentry/clipsentry/internal/models"
)

// ErrPersistence wraps create/fetch failures so callers can classify them
// without depending on driver error types.
var ErrPersistence = errors.New("persistence failure")

// PostgresEntryRepository stores clipboard entries in PostgreSQL.
type PostgresEntryRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresEntryRepository creates an entry repository over the provided *sql.DB.
func NewPostgresEntryRepository(db *sql.DB) *PostgresEntryRepository {
	return &PostgresEntryRepository{DB: db}
}

// CreateEntry persists a new clipboard entry, assigning its ID and creation
// timestamp, and returns the completed entry.
func (r *PostgresEntryRepository) CreateEntry(ctx context.Context, e *models.ClipboardEntry) (*models.ClipboardEntry, error) {
	id := uuid.NewString()
	var createdAt time.Time
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO clipboard_entries
			(id, owner_id, device_id, ciphertext, content_type,
			 encryption_algorithm, encryption_iv, encryption_key_length, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`, id, e.OwnerID, e.DeviceID, e.Ciphertext, e.ContentType,
		e.EncryptionMetadata.Algorithm, e.EncryptionMetadata.IV, e.EncryptionMetadata.KeyLength,
		e.ExpiresAt).Scan(&createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: create clipboard entry: %v", ErrPersistence, err)
	}

	created := *e
	created.ID = id
	created.CreatedAt = createdAt
	return &created, nil
}

// LatestEntry returns the newest unexpired entry owned by the user, or nil
// if none exists. Expired entries are treated as absent.
func (r *PostgresEntryRepository) LatestEntry(ctx context.Context, ownerID string, now time.Time) (*models.ClipboardEntry, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, owner_id, device_id, ciphertext, content_type,
		       encryption_algorithm, encryption_iv, encryption_key_length,
		       created_at, expires_at
		FROM clipboard_entries
		WHERE owner_id = $1 AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY created_at DESC
		LIMIT 1
	`, ownerID, now)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: latest clipboard entry: %v", ErrPersistence, err)
	}
	return e, nil
}

// EntriesByOwner returns the user's unexpired entries newest first.
func (r *PostgresEntryRepository) EntriesByOwner(ctx context.Context, ownerID string, now time.Time, limit, offset int) ([]models.ClipboardEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, device_id, ciphertext, content_type,
		       encryption_algorithm, encryption_iv, encryption_key_length,
		       created_at, expires_at
		FROM clipboard_entries
		WHERE owner_id = $1 AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, ownerID, now, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list clipboard entries: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var entries []models.ClipboardEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan clipboard entry: %v", ErrPersistence, err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate clipboard entries: %v", ErrPersistence, err)
	}
	return entries, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.ClipboardEntry, error) {
	var e models.ClipboardEntry
	var expiresAt sql.NullTime
	err := s.Scan(&e.ID, &e.OwnerID, &e.DeviceID, &e.Ciphertext, &e.ContentType,
		&e.EncryptionMetadata.Algorithm, &e.EncryptionMetadata.IV, &e.EncryptionMetadata.KeyLength,
		&e.CreatedAt, &expiresAt)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		e.ExpiresAt = &t
	}
	return &e, nil
}
