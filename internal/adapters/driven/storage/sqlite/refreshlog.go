package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/docent-labs/docent-cli/internal/core/domain"
	"github.com/docent-labs/docent-cli/internal/core/ports/driven"
)

// refreshLog implements driven.RefreshLog.
type refreshLog struct {
	store *Store
}

var _ driven.RefreshLog = (*refreshLog)(nil)

// Record appends one scrape attempt.
func (l *refreshLog) Record(ctx context.Context, attempt domain.RefreshAttempt) error {
	if attempt.URL == "" {
		return domain.ErrInvalidInput
	}

	_, err := l.store.db.ExecContext(ctx, `
		INSERT INTO refresh_attempts (url, started_at, ended_at, success, error, quality_score, chunk_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, attempt.URL,
		attempt.StartedAt.Format(time.RFC3339Nano),
		attempt.EndedAt.Format(time.RFC3339Nano),
		boolToInt(attempt.Success),
		nullString(attempt.Error),
		attempt.QualityScore,
		attempt.ChunkCount)

	if err != nil {
		return fmt.Errorf("recording refresh attempt: %w", err)
	}
	return nil
}

// History returns recent attempts for a URL.
// Attempts are ordered by start time descending (most recent first).
func (l *refreshLog) History(ctx context.Context, url string, limit int) ([]domain.RefreshAttempt, error) {
	rows, err := l.store.db.QueryContext(ctx, `
		SELECT url, started_at, ended_at, success, error, quality_score, chunk_count
		FROM refresh_attempts
		WHERE url = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, url, limit)
	if err != nil {
		return nil, fmt.Errorf("querying refresh history: %w", err)
	}
	defer rows.Close()

	var attempts []domain.RefreshAttempt //nolint:prealloc // size unknown from query
	for rows.Next() {
		attempt, err := scanRefreshAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating refresh history: %w", err)
	}

	return attempts, nil
}

// Prune removes old attempts beyond the retention limit.
// Keeps the most recent 'keep' attempts per URL.
func (l *refreshLog) Prune(ctx context.Context, keep int) error {
	_, err := l.store.db.ExecContext(ctx, `
		DELETE FROM refresh_attempts
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY url ORDER BY started_at DESC) as rn
				FROM refresh_attempts
			) WHERE rn <= ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning refresh history: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// scanRefreshAttempt scans a refresh attempt from *sql.Rows.
func scanRefreshAttempt(rows *sql.Rows) (*domain.RefreshAttempt, error) {
	var attempt domain.RefreshAttempt
	var startedAt, endedAt string
	var success int
	var errMsg sql.NullString

	if err := rows.Scan(&attempt.URL, &startedAt, &endedAt,
		&success, &errMsg, &attempt.QualityScore, &attempt.ChunkCount); err != nil {
		return nil, fmt.Errorf("scanning refresh attempt: %w", err)
	}

	if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		attempt.StartedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, endedAt); err == nil {
		attempt.EndedAt = t
	}
	attempt.Success = success == 1
	if errMsg.Valid {
		attempt.Error = errMsg.String
	}

	return &attempt, nil
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
