package storage

import (
	"context"

	"github.com/Slothdemon22/CampusMinus/internal/domain/question"
)

// PassthroughStorage is the fallback when no object storage is
// configured: image keys are returned as-is so clients that store
// absolute URLs keep working.
type PassthroughStorage struct{}

// NewPassthroughStorage constructs the fallback.
func NewPassthroughStorage() PassthroughStorage {
	return PassthroughStorage{}
}

// PresignedGet returns the key unchanged.
func (PassthroughStorage) PresignedGet(_ context.Context, key string) (string, error) {
	return key, nil
}

var _ question.ImageStorage = PassthroughStorage{}
