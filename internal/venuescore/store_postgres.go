package venuescore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresStore backs the score engine with two tables: venue_events is the
// append-only record of countable occurrences, venues carries the persisted
// score and its components.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the backing tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS venues (
			id               TEXT PRIMARY KEY,
			score            INTEGER NOT NULL DEFAULT 750,
			score_components JSONB,
			score_updated_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS venue_events (
			id          BIGSERIAL PRIMARY KEY,
			venue_id    TEXT NOT NULL,
			kind        TEXT NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS venue_events_venue_kind_idx
			ON venue_events (venue_id, kind)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate venuescore tables: %w", err)
		}
	}
	return nil
}

const (
	kindEventCompleted = "event_completed"
	kindRefund         = "refund"
	kindDispute        = "dispute"
	kindSafetyIncident = "safety_incident"
)

func (s *PostgresStore) CountEventsCompleted(ctx context.Context, venueID string) (int, error) {
	return s.count(ctx, venueID, kindEventCompleted)
}

func (s *PostgresStore) CountRefunds(ctx context.Context, venueID string) (int, error) {
	return s.count(ctx, venueID, kindRefund)
}

func (s *PostgresStore) CountDisputes(ctx context.Context, venueID string) (int, error) {
	return s.count(ctx, venueID, kindDispute)
}

func (s *PostgresStore) CountSafetyIncidents(ctx context.Context, venueID string) (int, error) {
	return s.count(ctx, venueID, kindSafetyIncident)
}

func (s *PostgresStore) count(ctx context.Context, venueID, kind string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM venue_events WHERE venue_id = $1 AND kind = $2`,
		venueID, kind,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s for venue %s: %w", kind, venueID, err)
	}
	return n, nil
}

func (s *PostgresStore) ListVenueIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM venues ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan venue id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return ids, nil
}

// UpdateScore writes the score and its components in one statement so a
// reader never sees them disagree.
func (s *PostgresStore) UpdateScore(ctx context.Context, venueID string, components Components) error {
	body, err := json.Marshal(components)
	if err != nil {
		return fmt.Errorf("encode score components for venue %s: %w", venueID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO venues (id, score, score_components, score_updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET
			score = EXCLUDED.score,
			score_components = EXCLUDED.score_components,
			score_updated_at = now()
	`, venueID, components.TotalScore, body)
	if err != nil {
		return fmt.Errorf("update score for venue %s: %w", venueID, err)
	}
	return nil
}

// RecordEvent appends a countable occurrence for a venue.
func (s *PostgresStore) RecordEvent(ctx context.Context, venueID, kind string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO venue_events (venue_id, kind) VALUES ($1, $2)`,
		venueID, kind,
	)
	if err != nil {
		return fmt.Errorf("record %s for venue %s: %w", kind, venueID, err)
	}
	return nil
}
