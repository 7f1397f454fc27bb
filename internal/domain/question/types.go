package question

import (
	"time"

	"github.com/google/uuid"
)

// Error codes surfaced through pkg/errors.AppError.
const (
	CodeInvalidInput          = "invalid_input"
	CodeEmbedderNotConfigured = "embedder_not_configured"
	CodeEmbedderUpstream      = "embedder_upstream"
	CodeEmbedderMalformed     = "embedder_malformed"
	CodeDimensionMismatch     = "dimension_mismatch"
	CodeNotFound              = "not_found"
	CodeQuestionError         = "question_error"
)

// DeletedAuthorName is shown when the owning user no longer exists.
const DeletedAuthorName = "deleted user"

// Author is the read-time view of a question owner.
type Author struct {
	ID          int64  `json:"id,omitempty"`
	DisplayName string `json:"displayName"`
}

// DeletedAuthor is the sentinel used when the owner row is gone. The
// question survives its author, so hydration centralizes this here
// instead of null checks in every caller.
func DeletedAuthor() Author {
	return Author{DisplayName: DeletedAuthorName}
}

// Question is a community question with an optional embedding. The
// embedding is nil until one has been computed successfully and is
// never refreshed by ordinary edits.
type Question struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Images      []string  `json:"images,omitempty"`
	ImageURLs   []string  `json:"imageUrls,omitempty"`
	AuthorID    *int64    `json:"authorId,omitempty"`
	Author      Author    `json:"author"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Embedding   []float32 `json:"-"`
}

// HasEmbedding reports whether a vector is stored for this question.
func (q Question) HasEmbedding() bool {
	return len(q.Embedding) > 0
}

// Draft carries the writable fields of a new question.
type Draft struct {
	Title       string
	Description string
	Images      []string
	AuthorID    *int64
}

// Update carries the editable fields. Nil pointers leave the current
// value untouched; the embedding is deliberately not editable.
type Update struct {
	Title       *string
	Description *string
	Images      []string
}

// AskRequest is the transport payload for posting a question.
type AskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	AuthorID    *int64   `json:"-"`
}

// UpdateRequest is the transport payload for editing a question.
type UpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Images      []string `json:"images"`
}

// SearchRequest is the transport payload for semantic search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// SearchResponse wraps the ranked result list.
type SearchResponse struct {
	Questions []Question `json:"questions"`
}

// TrendingQuery represents a frequently searched query.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}
