package question

import (
	"fmt"

	apperrors "github.com/Slothdemon22/CampusMinus/pkg/errors"
)

// ConformEmbedding applies the ingestion dimension policy: providers
// may return more components than D, in which case the excess is
// dropped; a vector strictly shorter than D is rejected rather than
// padded or stored truncated.
func ConformEmbedding(embedding []float32, dim int) ([]float32, error) {
	if len(embedding) == 0 {
		return nil, apperrors.New(CodeEmbedderMalformed, "embedding is empty")
	}
	if len(embedding) < dim {
		return nil, apperrors.New(CodeDimensionMismatch,
			fmt.Sprintf("embedding has %d components, expected %d", len(embedding), dim))
	}
	out := make([]float32, dim)
	copy(out, embedding[:dim])
	return out, nil
}
