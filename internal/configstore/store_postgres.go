package configstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"gatehouse/pkg/platform/sentinel"
)

// PostgresStore persists the configuration documents as JSONB rows in a
// single documents table, one row per document name.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed config store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the backing table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS config_documents (
			name       TEXT PRIMARY KEY,
			body       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate config_documents: %w", err)
	}
	return nil
}

// EnsureDefaults seeds any missing document with its default. Existing
// documents are left untouched; the seed runs once per document, ever.
func (s *PostgresStore) EnsureDefaults(ctx context.Context) error {
	seeds := []struct {
		doc  Document
		body any
	}{
		{DocFeatures, DefaultFeatures()},
		{DocPricing, DefaultPricing()},
		{DocLimits, DefaultLimits()},
		{DocAdminFlags, DefaultAdminFlags()},
	}
	for _, seed := range seeds {
		body, err := json.Marshal(seed.body)
		if err != nil {
			return fmt.Errorf("marshal default %s: %w", seed.doc, err)
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO config_documents (name, body)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, string(seed.doc), body)
		if err != nil {
			return fmt.Errorf("seed default %s: %w", seed.doc, err)
		}
	}
	return nil
}

func (s *PostgresStore) GetFeatures(ctx context.Context) (Features, error) {
	var f Features
	err := s.get(ctx, DocFeatures, &f)
	return f, err
}

func (s *PostgresStore) PutFeatures(ctx context.Context, f Features) error {
	return s.put(ctx, DocFeatures, f)
}

func (s *PostgresStore) GetPricing(ctx context.Context) (Pricing, error) {
	var p Pricing
	err := s.get(ctx, DocPricing, &p)
	return p, err
}

func (s *PostgresStore) PutPricing(ctx context.Context, p Pricing) error {
	return s.put(ctx, DocPricing, p)
}

func (s *PostgresStore) GetLimits(ctx context.Context) (Limits, error) {
	var l Limits
	err := s.get(ctx, DocLimits, &l)
	return l, err
}

func (s *PostgresStore) PutLimits(ctx context.Context, l Limits) error {
	return s.put(ctx, DocLimits, l)
}

func (s *PostgresStore) GetAdminFlags(ctx context.Context) (AdminFlags, error) {
	var a AdminFlags
	err := s.get(ctx, DocAdminFlags, &a)
	return a, err
}

func (s *PostgresStore) PutAdminFlags(ctx context.Context, a AdminFlags) error {
	return s.put(ctx, DocAdminFlags, a)
}

func (s *PostgresStore) get(ctx context.Context, doc Document, out any) error {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM config_documents WHERE name = $1`, string(doc),
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("config document %s: %w", doc, sentinel.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get config document %s: %w", doc, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode config document %s: %w", doc, err)
	}
	return nil
}

func (s *PostgresStore) put(ctx context.Context, doc Document, in any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode config document %s: %w", doc, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO config_documents (name, body, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET
			body = EXCLUDED.body,
			updated_at = now()
	`, string(doc), body)
	if err != nil {
		return fmt.Errorf("put config document %s: %w", doc, err)
	}
	return nil
}
