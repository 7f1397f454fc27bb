package embedder

import (
	"context"
	"hash/fnv"

	"github.com/Slothdemon22/CampusMinus/internal/domain/question"
	apperrors "github.com/Slothdemon22/CampusMinus/pkg/errors"
)

// DeterministicEmbedder avoids network calls by hashing text into a
// vector. Used for local development and tests.
type DeterministicEmbedder struct {
	dim int
}

// NewDeterministicEmbedder constructs the embedder.
func NewDeterministicEmbedder(dim int) *DeterministicEmbedder {
	if dim <= 0 {
		dim = 32
	}
	return &DeterministicEmbedder{dim: dim}
}

// Embed converts the text into a pseudo-random but stable vector.
func (e *DeterministicEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, apperrors.New(question.CodeInvalidInput, "embedding input cannot be empty")
	}
	vector := make([]float32, e.dim)
	hash := fnv.New64a()
	_, _ = hash.Write([]byte(text))
	seed := hash.Sum64()
	for i := 0; i < e.dim; i++ {
		seed = seed*1099511628211 + 1469598103934665603
		vector[i] = float32(seed%997) / 997.0
	}
	return vector, nil
}

// Disabled is the embedder wired when no provider credentials exist.
// Every call fails fast with the configuration error.
type Disabled struct{}

// Embed always reports the missing configuration.
func (Disabled) Embed(context.Context, string) ([]float32, error) {
	return nil, apperrors.New(question.CodeEmbedderNotConfigured, "no embedding provider configured")
}

var (
	_ question.Embedder = (*DeterministicEmbedder)(nil)
	_ question.Embedder = Disabled{}
)
