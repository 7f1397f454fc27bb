package embedder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeterministicEmbedderIsStable(t *testing.T) {
	emb := NewDeterministicEmbedder(16)

	first, err := emb.Embed(context.Background(), "derivative rules")
	require.NoError(t, err)
	require.Len(t, first, 16)

	second, err := emb.Embed(context.Background(), "derivative rules")
	require.NoError(t, err)
	require.Equal(t, first, second)

	other, err := emb.Embed(context.Background(), "integration by parts")
	require.NoError(t, err)
	require.NotEqual(t, first, other)
}

func TestDeterministicEmbedderDefaultsDimension(t *testing.T) {
	emb := NewDeterministicEmbedder(0)
	vec, err := emb.Embed(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, vec, 32)
}
