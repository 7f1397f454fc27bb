package vectorstore

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/Slothdemon22/CampusMinus/internal/domain/question"
)

// Postgres codes that mean the vector capability is absent rather than
// the statement being wrong: missing column, missing type (extension
// not installed), missing table (schema not migrated).
var capabilityCodes = map[string]string{
	"42703": "embedding column missing",
	"42704": "vector type missing",
	"42P01": "questions table missing",
}

// Postgres stores question embeddings in a pgvector column and answers
// nearest-neighbor queries with the L2 operator.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger

	mu          sync.Mutex
	unavailable string
}

// NewPostgres constructs the adapter.
func NewPostgres(pool *pgxpool.Pool, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{pool: pool, logger: logger.With("component", "vectorstore.postgres")}
}

// Upsert stores or clears the embedding for a row. When the store
// lacks the vector capability the write degrades to a no-op and the
// outcome is Skipped; the surrounding row write must not fail.
func (s *Postgres) Upsert(ctx context.Context, id uuid.UUID, embedding []float32) (question.UpsertOutcome, error) {
	if reason := s.knownUnavailable(); reason != "" {
		return question.Skipped(reason), nil
	}

	var err error
	if embedding == nil {
		_, err = s.pool.Exec(ctx, `
			UPDATE questions SET embedding = NULL WHERE id = $1
		`, id)
	} else {
		_, err = s.pool.Exec(ctx, `
			UPDATE questions SET embedding = $2 WHERE id = $1
		`, id, pgvector.NewVector(embedding))
	}
	if err != nil {
		if reason, ok := capabilityMissing(err); ok {
			s.markUnavailable(reason)
			return question.Skipped(reason), nil
		}
		return question.UpsertOutcome{}, err
	}
	return question.Stored(), nil
}

// NearestNeighbors returns up to limit ids by ascending L2 distance.
// Rows without a stored vector never appear; ties fall back to newest
// first. A store without the capability yields an empty list.
func (s *Postgres) NearestNeighbors(ctx context.Context, embedding []float32, limit int) ([]uuid.UUID, error) {
	if reason := s.knownUnavailable(); reason != "" {
		s.logger.Debug("nearest neighbor query skipped", "reason", reason)
		return nil, nil
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id
		FROM questions
		WHERE embedding IS NOT NULL
		ORDER BY embedding <-> $1 ASC, created_at DESC
		LIMIT $2
	`, pgvector.NewVector(embedding), limit)
	if err != nil {
		if reason, ok := capabilityMissing(err); ok {
			s.markUnavailable(reason)
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// HasVector probes whether a vector is stored for the id.
func (s *Postgres) HasVector(ctx context.Context, id uuid.UUID) (bool, error) {
	if reason := s.knownUnavailable(); reason != "" {
		return false, nil
	}
	var present bool
	err := s.pool.QueryRow(ctx, `
		SELECT embedding IS NOT NULL FROM questions WHERE id = $1
	`, id).Scan(&present)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		if reason, ok := capabilityMissing(err); ok {
			s.markUnavailable(reason)
			return false, nil
		}
		return false, err
	}
	return present, nil
}

func (s *Postgres) knownUnavailable() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unavailable
}

func (s *Postgres) markUnavailable(reason string) {
	s.mu.Lock()
	first := s.unavailable == ""
	s.unavailable = reason
	s.mu.Unlock()
	if first {
		s.logger.Warn("vector capability unavailable, degrading to rows without embeddings", "reason", reason)
	}
}

func capabilityMissing(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	reason, ok := capabilityCodes[pgErr.Code]
	return reason, ok
}

var _ question.VectorStore = (*Postgres)(nil)
