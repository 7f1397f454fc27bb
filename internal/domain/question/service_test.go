package question

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Slothdemon22/CampusMinus/pkg/errors"
)

const testDim = 8

func newTestService(repo Repository, emb Embedder, log SearchLog) Service {
	if log == nil {
		log = &stubSearchLog{}
	}
	return NewService(Config{
		Dimensions:         testDim,
		DefaultSearchLimit: 3,
		MaxSearchLimit:     10,
		TrendingSize:       5,
	}, repo, emb, log, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func makeVector(dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(i) / 10
	}
	return vec
}

func TestAskStoresConformedEmbedding(t *testing.T) {
	repo := &stubRepo{}
	// provider returns more components than D, excess must be dropped
	emb := &stubEmbedder{vector: makeVector(testDim + 4)}

	svc := newTestService(repo, emb, nil)
	created, err := svc.Ask(context.Background(), AskRequest{Title: "Derivative of x^2", Description: "How do I differentiate x squared?"})
	require.NoError(t, err)
	require.Equal(t, 1, emb.calls)
	require.Len(t, repo.lastEmbedding, testDim)
	require.Equal(t, makeVector(testDim+4)[:testDim], repo.lastEmbedding)
	require.Equal(t, "Derivative of x^2", created.Title)
}

func TestAskSucceedsWhenEmbedderFails(t *testing.T) {
	failures := map[string]error{
		"not configured": apperrors.New(CodeEmbedderNotConfigured, "no embedding provider configured"),
		"upstream":       apperrors.New(CodeEmbedderUpstream, "status 500"),
		"malformed":      apperrors.New(CodeEmbedderMalformed, "not a vector"),
	}
	for name, failure := range failures {
		t.Run(name, func(t *testing.T) {
			repo := &stubRepo{}
			emb := &stubEmbedder{err: failure}

			svc := newTestService(repo, emb, nil)
			created, err := svc.Ask(context.Background(), AskRequest{Title: "Title", Description: "Body"})
			require.NoError(t, err)
			require.Nil(t, repo.lastEmbedding)
			require.False(t, created.HasEmbedding())
		})
	}
}

func TestAskSwallowsShortEmbedding(t *testing.T) {
	repo := &stubRepo{}
	emb := &stubEmbedder{vector: makeVector(testDim - 1)}

	svc := newTestService(repo, emb, nil)
	created, err := svc.Ask(context.Background(), AskRequest{Title: "Title", Description: "Body"})
	require.NoError(t, err)
	require.Nil(t, repo.lastEmbedding)
	require.False(t, created.HasEmbedding())
}

func TestAskValidatesInput(t *testing.T) {
	repo := &stubRepo{}
	emb := &stubEmbedder{vector: makeVector(testDim)}
	svc := newTestService(repo, emb, nil)

	_, err := svc.Ask(context.Background(), AskRequest{Title: "  ", Description: "Body"})
	require.True(t, apperrors.IsCode(err, CodeInvalidInput))

	_, err = svc.Ask(context.Background(), AskRequest{Title: "Title", Description: ""})
	require.True(t, apperrors.IsCode(err, CodeInvalidInput))

	require.Equal(t, 0, emb.calls)
	require.Equal(t, 0, repo.createCalls)
}

func TestSearchValidatesQuery(t *testing.T) {
	emb := &stubEmbedder{vector: makeVector(testDim)}
	svc := newTestService(&stubRepo{}, emb, nil)

	_, err := svc.Search(context.Background(), SearchRequest{Query: "   "})
	require.True(t, apperrors.IsCode(err, CodeInvalidInput))
	require.Equal(t, 0, emb.calls)
}

func TestSearchSurfacesEmbedderFailure(t *testing.T) {
	for _, code := range []string{CodeEmbedderNotConfigured, CodeEmbedderUpstream, CodeEmbedderMalformed} {
		svc := newTestService(&stubRepo{}, &stubEmbedder{err: apperrors.New(code, "boom")}, nil)
		_, err := svc.Search(context.Background(), SearchRequest{Query: "derivative rules"})
		require.True(t, apperrors.IsCode(err, code))
	}
}

func TestSearchRejectsShortQueryEmbedding(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubEmbedder{vector: makeVector(testDim - 2)}, nil)
	_, err := svc.Search(context.Background(), SearchRequest{Query: "derivative rules"})
	require.True(t, apperrors.IsCode(err, CodeDimensionMismatch))
}

func TestSearchAppliesLimitPolicy(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(repo, &stubEmbedder{vector: makeVector(testDim)}, nil)

	_, err := svc.Search(context.Background(), SearchRequest{Query: "q"})
	require.NoError(t, err)
	require.Equal(t, 3, repo.lastLimit)

	_, err = svc.Search(context.Background(), SearchRequest{Query: "q", Limit: 100})
	require.NoError(t, err)
	require.Equal(t, 10, repo.lastLimit)

	_, err = svc.Search(context.Background(), SearchRequest{Query: "q", Limit: 7})
	require.NoError(t, err)
	require.Equal(t, 7, repo.lastLimit)
}

func TestSearchPreservesRankedOrder(t *testing.T) {
	first := Question{ID: uuid.New(), Title: "closest"}
	second := Question{ID: uuid.New(), Title: "further"}
	repo := &stubRepo{searchResult: []Question{first, second}}

	svc := newTestService(repo, &stubEmbedder{vector: makeVector(testDim)}, nil)
	resp, err := svc.Search(context.Background(), SearchRequest{Query: "derivative rules"})
	require.NoError(t, err)
	require.Len(t, resp.Questions, 2)
	require.Equal(t, first.ID, resp.Questions[0].ID)
	require.Equal(t, second.ID, resp.Questions[1].ID)
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubEmbedder{vector: makeVector(testDim)}, nil)
	resp, err := svc.Search(context.Background(), SearchRequest{Query: "nobody asked this"})
	require.NoError(t, err)
	require.Empty(t, resp.Questions)
}

func TestSearchRecordsTrendingQuery(t *testing.T) {
	log := &stubSearchLog{}
	svc := newTestService(&stubRepo{}, &stubEmbedder{vector: makeVector(testDim)}, log)

	_, err := svc.Search(context.Background(), SearchRequest{Query: "  Derivative RULES?  "})
	require.NoError(t, err)
	require.Equal(t, []string{"derivative rules"}, log.canonicals)
	require.Equal(t, []string{"Derivative RULES?"}, log.displays)
}

func TestDeleteNotFound(t *testing.T) {
	svc := newTestService(&stubRepo{}, &stubEmbedder{vector: makeVector(testDim)}, nil)
	err := svc.Delete(context.Background(), uuid.New())
	require.True(t, apperrors.IsCode(err, CodeNotFound))
}

type stubEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (s *stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]float32(nil), s.vector...), nil
}

type stubRepo struct {
	createCalls   int
	lastDraft     Draft
	lastEmbedding []float32
	lastLimit     int
	searchResult  []Question
	deleteFound   bool
}

func (s *stubRepo) Create(_ context.Context, draft Draft, embedding []float32) (Question, error) {
	s.createCalls++
	s.lastDraft = draft
	s.lastEmbedding = embedding
	return Question{ID: uuid.New(), Title: draft.Title, Description: draft.Description, Embedding: embedding}, nil
}

func (s *stubRepo) Get(context.Context, uuid.UUID) (Question, bool, error) {
	return Question{}, false, nil
}

func (s *stubRepo) List(context.Context) ([]Question, error) {
	return nil, nil
}

func (s *stubRepo) ListByAuthor(context.Context, int64) ([]Question, error) {
	return nil, nil
}

func (s *stubRepo) Update(context.Context, uuid.UUID, Update) (Question, bool, error) {
	return Question{}, false, nil
}

func (s *stubRepo) Delete(context.Context, uuid.UUID) (bool, error) {
	return s.deleteFound, nil
}

func (s *stubRepo) SearchByEmbedding(_ context.Context, _ []float32, limit int) ([]Question, error) {
	s.lastLimit = limit
	return s.searchResult, nil
}

func (s *stubRepo) ReindexEmbedding(context.Context, uuid.UUID, []float32) (UpsertOutcome, error) {
	return Stored(), nil
}

type stubSearchLog struct {
	canonicals []string
	displays   []string
}

func (s *stubSearchLog) IncrementQuery(_ context.Context, canonical, display string) error {
	s.canonicals = append(s.canonicals, canonical)
	s.displays = append(s.displays, display)
	return nil
}

func (s *stubSearchLog) TopQueries(context.Context, int) ([]TrendingQuery, error) {
	return nil, nil
}
