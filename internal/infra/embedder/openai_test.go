package embedder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Slothdemon22/CampusMinus/internal/domain/question"
	"github.com/Slothdemon22/CampusMinus/internal/infra/llm/chatgpt"
	apperrors "github.com/Slothdemon22/CampusMinus/pkg/errors"
)

func newTestEmbedder(t *testing.T, handler http.HandlerFunc) (*OpenAIEmbedder, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := chatgpt.NewClient("test-key", server.URL, 5*time.Second)
	require.NoError(t, err)
	return NewOpenAIEmbedder(client, "text-embedding-3-small", 0, nil), server
}

func TestOpenAIEmbedderReturnsVector(t *testing.T) {
	emb, _ := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/embeddings", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	})

	vec, err := emb.Embed(context.Background(), "derivative rules")
	require.NoError(t, err)
	require.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestOpenAIEmbedderClassifiesUpstreamFailure(t *testing.T) {
	emb, _ := newTestEmbedder(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := emb.Embed(context.Background(), "derivative rules")
	require.True(t, apperrors.IsCode(err, question.CodeEmbedderUpstream))
}

func TestOpenAIEmbedderClassifiesMalformedBody(t *testing.T) {
	emb, _ := newTestEmbedder(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json at all`))
	})

	_, err := emb.Embed(context.Background(), "derivative rules")
	require.True(t, apperrors.IsCode(err, question.CodeEmbedderMalformed))
}

func TestOpenAIEmbedderRejectsEmptyData(t *testing.T) {
	emb, _ := newTestEmbedder(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := emb.Embed(context.Background(), "derivative rules")
	require.True(t, apperrors.IsCode(err, question.CodeEmbedderMalformed))
}

func TestOpenAIEmbedderClassifiesNetworkFailure(t *testing.T) {
	emb, server := newTestEmbedder(t, func(http.ResponseWriter, *http.Request) {})
	server.Close()

	_, err := emb.Embed(context.Background(), "derivative rules")
	require.True(t, apperrors.IsCode(err, question.CodeEmbedderUpstream))
}

func TestOpenAIEmbedderRejectsEmptyInput(t *testing.T) {
	emb, _ := newTestEmbedder(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("request should not reach the provider")
	})

	_, err := emb.Embed(context.Background(), "   ")
	require.True(t, apperrors.IsCode(err, question.CodeInvalidInput))
}

func TestDisabledEmbedder(t *testing.T) {
	_, err := Disabled{}.Embed(context.Background(), "anything")
	require.True(t, apperrors.IsCode(err, question.CodeEmbedderNotConfigured))
}
