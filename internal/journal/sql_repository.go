package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vidkeeper/internal/dbx"
	"github.com/dmitrijs2005/vidkeeper/internal/models"
	"github.com/google/uuid"
)

// DefaultMaxEvents bounds the journal when no explicit limit is configured.
const DefaultMaxEvents = 1000

// SQLRepository implements Repository over database/sql for both sqlite and
// postgres.
type SQLRepository struct {
	db        *sql.DB
	dialect   dbx.Dialect
	maxEvents int
	now       func() time.Time
}

// NewSQLRepository returns a repository bound to db. maxEvents <= 0 selects
// DefaultMaxEvents.
func NewSQLRepository(db *sql.DB, dialect dbx.Dialect, maxEvents int) *SQLRepository {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	return &SQLRepository{db: db, dialect: dialect, maxEvents: maxEvents, now: time.Now}
}

// Append inserts ev and trims the oldest rows beyond the configured maximum
// in one transaction.
func (r *SQLRepository) Append(ctx context.Context, ev *models.Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = r.now()
	}

	insert := dbx.Rebind(r.dialect, `
		INSERT INTO events (id, kind, path, size, checksum, message, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	trim := dbx.Rebind(r.dialect, `
		DELETE FROM events
		WHERE id NOT IN (SELECT id FROM events ORDER BY occurred_at DESC, id DESC LIMIT ?)`)

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, insert,
			ev.ID, string(ev.Kind), ev.Path, ev.Size, ev.Checksum, ev.Message, ev.OccurredAt.UnixNano()); err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
		if _, err := tx.ExecContext(ctx, trim, r.maxEvents); err != nil {
			return fmt.Errorf("failed to trim events: %w", err)
		}
		return nil
	})
}

// List returns events newest first.
func (r *SQLRepository) List(ctx context.Context, limit int) ([]models.Event, error) {
	query := `SELECT id, kind, path, size, checksum, message, occurred_at FROM events ORDER BY occurred_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, dbx.Rebind(r.dialect, query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	defer rows.Close()

	var result []models.Event
	for rows.Next() {
		var (
			ev   models.Event
			kind string
			ns   int64
		)
		if err := rows.Scan(&ev.ID, &kind, &ev.Path, &ev.Size, &ev.Checksum, &ev.Message, &ns); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Kind = models.EventKind(kind)
		ev.OccurredAt = time.Unix(0, ns)
		result = append(result, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
