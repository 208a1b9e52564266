package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/deskpulse/deskpulse/internal/ports"
)

const documentsSchema = `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		body JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (collection, id)
	)
`

// PostgresDocumentStore implements DocumentStore on a single jsonb table
type PostgresDocumentStore struct {
	db *sql.DB
}

// OpenPostgres opens and pings a lib/pq connection pool.
func OpenPostgres(ctx context.Context, dsn string, maxConns int, maxIdleTime time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
	}
	db.SetConnMaxIdleTime(maxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// NewPostgresDocumentStore creates a new PostgreSQL document store
func NewPostgresDocumentStore(db *sql.DB) *PostgresDocumentStore {
	return &PostgresDocumentStore{db: db}
}

// EnsureSchema creates the documents table when missing
func (s *PostgresDocumentStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, documentsSchema); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

// Get retrieves a document by collection and id
func (s *PostgresDocumentStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	query := `SELECT body FROM documents WHERE collection = $1 AND id = $2`

	var body []byte
	err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return body, nil
}

// Put inserts or replaces a document
func (s *PostgresDocumentStore) Put(ctx context.Context, collection, id string, body []byte) error {
	query := `
		INSERT INTO documents (collection, id, body, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (collection, id) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, collection, id, body); err != nil {
		return fmt.Errorf("failed to put document: %w", err)
	}
	return nil
}

// Delete removes a document
func (s *PostgresDocumentStore) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`

	result, err := s.db.ExecContext(ctx, query, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ports.ErrDocumentNotFound
	}
	return nil
}

// List returns all documents of a collection
func (s *PostgresDocumentStore) List(ctx context.Context, collection string) ([][]byte, error) {
	query := `SELECT body FROM documents WHERE collection = $1 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var bodies [][]byte
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		bodies = append(bodies, body)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return bodies, nil
}

func (s *PostgresDocumentStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresDocumentStore) Close() error {
	return s.db.Close()
}
