package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists events in the verification_events table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Schema is the DDL the store expects. Applied by migrations in production
// and directly by integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS verification_events (
	id         UUID PRIMARY KEY,
	workflow   TEXT NOT NULL,
	subject    TEXT NOT NULL,
	verdict    TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT '',
	channel_id TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS verification_events_subject_idx ON verification_events (subject, created_at DESC);
`

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	const q = `
		INSERT INTO verification_events (id, workflow, subject, verdict, detail, channel_id, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`
	_, err := s.pool.Exec(ctx, q,
		event.ID, event.Workflow, event.Subject, event.Verdict,
		event.Detail, event.ChannelID, event.RequestID, event.Timestamp)
	if err != nil {
		return fmt.Errorf("insert verification event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subject string) ([]Event, error) {
	const q = `
		SELECT id, workflow, subject, verdict, detail, channel_id, request_id, created_at
		FROM verification_events
		WHERE subject = $1
		ORDER BY created_at ASC`
	rows, err := s.pool.Query(ctx, q, subject)
	if err != nil {
		return nil, fmt.Errorf("list verification events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	const q = `
		SELECT id, workflow, subject, verdict, detail, channel_id, request_id, created_at
		FROM verification_events
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent verification events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEvents(rows pgxRows) ([]Event, error) {
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Workflow, &e.Subject, &e.Verdict,
			&e.Detail, &e.ChannelID, &e.RequestID, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan verification event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
