package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartExpiredEntryCleaner deletes clipboard entries past their expiry on an
// interval. Readers already treat expired entries as absent; this reclaims
// the rows. Audit logs are never touched: they are append-only and retention
// is a compliance-policy concern handled elsewhere.
func StartExpiredEntryCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				res, err := db.ExecContext(ctx, `
                    DELETE FROM clipboard_entries
                     WHERE expires_at IS NOT NULL
                       AND expires_at < now()
                `)
				if err != nil {
					log.Error("failed to clean expired clipboard entries", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned expired clipboard entries", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
