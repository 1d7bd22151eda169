package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/caretrack/internal/gateway"
)

const uniqueViolation = "23505"

// Store is a self-hosted document store, user directory and message log on PostgreSQL
type Store struct {
	db *sqlx.DB
}

func NewDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Gateway returns a gateway.Backend backed by s. Files live elsewhere.
func (s *Store) Gateway(files gateway.FileStorage, collections gateway.Collections) gateway.Backend {
	return gateway.Backend{
		Documents:   s,
		Users:       s,
		Files:       files,
		Messages:    s,
		Collections: collections,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the tables the store needs
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// WithTx executes a function within a transaction
func (s *Store) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("error rolling back transaction: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	database_id   TEXT        NOT NULL,
	collection_id TEXT        NOT NULL,
	id            TEXT        NOT NULL,
	data          JSONB       NOT NULL DEFAULT '{}'::jsonb,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (database_id, collection_id, id)
);

CREATE INDEX IF NOT EXISTS documents_created_at_idx
	ON documents (database_id, collection_id, created_at DESC);

CREATE TABLE IF NOT EXISTS directory_users (
	id         TEXT        PRIMARY KEY,
	name       TEXT        NOT NULL,
	email      TEXT        NOT NULL,
	phone      TEXT        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS directory_users_email_idx ON directory_users (lower(email));

CREATE TABLE IF NOT EXISTS sms_messages (
	id         TEXT        PRIMARY KEY,
	content    TEXT        NOT NULL,
	topics     TEXT[]      NOT NULL DEFAULT '{}',
	user_ids   TEXT[]      NOT NULL DEFAULT '{}',
	status     TEXT        NOT NULL DEFAULT 'processing',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`
