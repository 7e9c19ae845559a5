package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq" // postgres driver
	"github.com/pgvector/pgvector-go"
)

// PgVectorStore persists chunk vectors in PostgreSQL with the pgvector
// extension. All collections share one table partitioned by a collection
// column; deleting a collection is a single bulk delete.
type PgVectorStore struct {
	db         *sql.DB
	logger     *slog.Logger
	dimensions int
}

func NewPgVectorStore(ctx context.Context, logger *slog.Logger, databaseURL string, dimensions int) (*PgVectorStore, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vector database: %w", err)
	}

	if err := database.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping vector database: %w", err)
	}

	store := &PgVectorStore{
		db:         database,
		logger:     logger.With("module", "pgvector_store"),
		dimensions: dimensions,
	}

	if err := store.migrate(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *PgVectorStore) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS chunk_embeddings (
				collection TEXT NOT NULL,
				chunk_id   TEXT NOT NULL,
				content    TEXT NOT NULL,
				metadata   JSONB,
				embedding  vector(%d) NOT NULL,
				PRIMARY KEY (collection, chunk_id)
			)`, s.dimensions),
		`CREATE INDEX IF NOT EXISTS idx_chunk_embeddings_collection ON chunk_embeddings (collection)`,
	}

	for _, statement := range statements {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to migrate vector store: %w", err)
		}
	}

	return nil
}

func (s *PgVectorStore) Upsert(ctx context.Context, collection string, items []Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin upsert transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO chunk_embeddings (collection, chunk_id, content, metadata, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (collection, chunk_id)
		DO UPDATE SET content = EXCLUDED.content, metadata = EXCLUDED.metadata, embedding = EXCLUDED.embedding
	`

	for _, item := range items {
		metadata, err := json.Marshal(item.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode chunk metadata: %w", err)
		}

		_, err = tx.ExecContext(ctx, query,
			collection, item.ID, item.Content, metadata, pgvector.NewVector(item.Vector))
		if err != nil {
			return fmt.Errorf("failed to upsert chunk %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert transaction: %w", err)
	}

	return nil
}

func (s *PgVectorStore) Query(ctx context.Context, collection string, vector []float32, topK int) ([]Match, error) {
	query := `
		SELECT
			chunk_id
		  , content
		  , metadata
		  , embedding <=> $1 AS distance
		FROM chunk_embeddings
		WHERE collection = $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, pgvector.NewVector(vector), collection, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	matches := make([]Match, 0, topK)

	for rows.Next() {
		var (
			match    Match
			metadata []byte
		)

		if err := rows.Scan(&match.ID, &match.Content, &metadata, &match.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &match.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode chunk metadata: %w", err)
			}
		}

		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}

	if len(matches) == 0 {
		exists, err := s.collectionExists(ctx, collection)
		if err != nil {
			return nil, err
		}

		if !exists {
			return nil, ErrCollectionNotFound
		}
	}

	return matches, nil
}

func (s *PgVectorStore) DeleteCollection(ctx context.Context, collection string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM chunk_embeddings WHERE collection = $1`, collection)
	if err != nil {
		return false, fmt.Errorf("failed to delete collection %s: %w", collection, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted chunks: %w", err)
	}

	return affected > 0, nil
}

func (s *PgVectorStore) collectionExists(ctx context.Context, collection string) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM chunk_embeddings WHERE collection = $1)`, collection).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check collection %s: %w", collection, err)
	}

	return exists, nil
}

func (s *PgVectorStore) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping vector database: %w", err)
	}

	return nil
}

func (s *PgVectorStore) Close(_ context.Context) error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("failed to close vector database connection: %w", err)
		}
	}

	return nil
}
