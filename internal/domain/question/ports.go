package question

import (
	"context"

	"github.com/google/uuid"
)

// Embedder converts free text into a fixed-length vector. Exactly one
// outbound call per invocation; retry policy belongs to callers, and
// callers here do not retry.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// UpsertStatus tags the result of a vector write.
type UpsertStatus string

const (
	// UpsertStored means the vector is persisted next to the row.
	UpsertStored UpsertStatus = "stored"
	// UpsertSkipped means the store lacks the vector capability and the
	// write degraded to a no-op. Not an error: row writes must succeed
	// independent of vector-store health.
	UpsertSkipped UpsertStatus = "skipped"
)

// UpsertOutcome is the tagged result of VectorStore.Upsert.
type UpsertOutcome struct {
	Status UpsertStatus
	Reason string
}

// Stored builds a successful outcome.
func Stored() UpsertOutcome {
	return UpsertOutcome{Status: UpsertStored}
}

// Skipped builds a degraded outcome with the capability reason.
func Skipped(reason string) UpsertOutcome {
	return UpsertOutcome{Status: UpsertSkipped, Reason: reason}
}

// VectorStore persists embeddings keyed by question id and answers
// nearest-neighbor queries. Distance is L2 throughout.
type VectorStore interface {
	// Upsert stores the vector for a row, or clears it when embedding is
	// nil. A store without the vector capability reports Skipped instead
	// of failing.
	Upsert(ctx context.Context, id uuid.UUID, embedding []float32) (UpsertOutcome, error)
	// NearestNeighbors returns up to limit ids ordered by ascending L2
	// distance. Rows without a stored vector are never returned.
	NearestNeighbors(ctx context.Context, embedding []float32, limit int) ([]uuid.UUID, error)
	// HasVector reports whether a vector is stored for the id.
	HasVector(ctx context.Context, id uuid.UUID) (bool, error)
}

// Repository owns question rows plus the vector-aware read/write paths.
type Repository interface {
	Create(ctx context.Context, draft Draft, embedding []float32) (Question, error)
	Get(ctx context.Context, id uuid.UUID) (Question, bool, error)
	List(ctx context.Context) ([]Question, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]Question, error)
	Update(ctx context.Context, id uuid.UUID, update Update) (Question, bool, error)
	// Delete removes the row and its vector in the same statement.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// SearchByEmbedding ranks questions by ascending distance to the
	// query vector and hydrates each hit, authors included.
	SearchByEmbedding(ctx context.Context, embedding []float32, limit int) ([]Question, error)
	// ReindexEmbedding replaces a stored vector outside the edit path,
	// for offline backfills.
	ReindexEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) (UpsertOutcome, error)
}

// SearchLog tracks query popularity. Best-effort: failures are logged,
// never surfaced.
type SearchLog interface {
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}

// ImageStorage resolves stored attachment keys into short-lived read
// URLs at hydration time.
type ImageStorage interface {
	PresignedGet(ctx context.Context, key string) (string, error)
}
