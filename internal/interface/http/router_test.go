package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Slothdemon22/CampusMinus/internal/domain/question"
	"github.com/Slothdemon22/CampusMinus/internal/infra/config"
	apperrors "github.com/Slothdemon22/CampusMinus/pkg/errors"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T, svc question.Service) http.Handler {
	t.Helper()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{Address: ":0"},
		Auth: config.AuthConfig{JWTSecret: testSecret},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewRouter(cfg, NewHandler(svc, logger))
	return server.Handler
}

func signToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestSearchEndpointReturnsResults(t *testing.T) {
	svc := &serviceStub{
		search: func(req question.SearchRequest) (question.SearchResponse, error) {
			require.Equal(t, "derivative rules", req.Query)
			require.Equal(t, 5, req.Limit)
			return question.SearchResponse{Questions: []question.Question{{ID: uuid.New(), Title: "near"}}}, nil
		},
	}
	router := newTestRouter(t, svc)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/questions/search", `{"query":"derivative rules","limit":5}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp question.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Questions, 1)
	require.Equal(t, "near", resp.Questions[0].Title)
}

func TestSearchEndpointRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter(t, &serviceStub{})
	rec := doJSON(t, router, http.MethodPost, "/api/v1/questions/search", `{"query":`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", errorCode(t, rec))
}

func TestSearchEndpointStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		code       string
		wantStatus int
		wantCode   string
	}{
		{"invalid input", question.CodeInvalidInput, http.StatusBadRequest, "invalid_request"},
		{"not configured", question.CodeEmbedderNotConfigured, http.StatusInternalServerError, question.CodeEmbedderNotConfigured},
		{"upstream", question.CodeEmbedderUpstream, http.StatusBadGateway, question.CodeEmbedderUpstream},
		{"malformed", question.CodeEmbedderMalformed, http.StatusBadGateway, question.CodeEmbedderMalformed},
		{"dimension mismatch", question.CodeDimensionMismatch, http.StatusBadGateway, question.CodeDimensionMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &serviceStub{
				search: func(question.SearchRequest) (question.SearchResponse, error) {
					return question.SearchResponse{}, apperrors.New(tc.code, "boom")
				},
			}
			router := newTestRouter(t, svc)
			rec := doJSON(t, router, http.MethodPost, "/api/v1/questions/search", `{"query":"q"}`, "")
			require.Equal(t, tc.wantStatus, rec.Code)
			require.Equal(t, tc.wantCode, errorCode(t, rec))
		})
	}
}

func TestAskEndpointRequiresToken(t *testing.T) {
	router := newTestRouter(t, &serviceStub{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/questions", `{"title":"t","description":"d"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/questions", bytes.NewBufferString(`{}`))
	req.Header.Set("Authorization", "Basic abc")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAskEndpointRejectsBadToken(t *testing.T) {
	router := newTestRouter(t, &serviceStub{})
	rec := doJSON(t, router, http.MethodPost, "/api/v1/questions", `{"title":"t","description":"d"}`, "not-a-jwt")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "invalid_token", errorCode(t, rec))
}

func TestAskEndpointSetsAuthorFromToken(t *testing.T) {
	var gotAuthor *int64
	svc := &serviceStub{
		ask: func(req question.AskRequest) (question.Question, error) {
			gotAuthor = req.AuthorID
			return question.Question{ID: uuid.New(), Title: req.Title}, nil
		},
	}
	router := newTestRouter(t, svc)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/questions", `{"title":"t","description":"d"}`, signToken(t, "42"))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, gotAuthor)
	require.Equal(t, int64(42), *gotAuthor)
}

func TestAuthNotConfigured(t *testing.T) {
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: ":0"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(cfg, NewHandler(&serviceStub{}, logger)).Handler

	rec := doJSON(t, router, http.MethodPost, "/api/v1/questions", `{"title":"t","description":"d"}`, signToken(t, "42"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "auth_not_configured", errorCode(t, rec))
}

func TestGetEndpointValidatesID(t *testing.T) {
	router := newTestRouter(t, &serviceStub{})
	rec := doJSON(t, router, http.MethodGet, "/api/v1/questions/not-a-uuid", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEndpointNotFound(t *testing.T) {
	svc := &serviceStub{
		get: func(uuid.UUID) (question.Question, error) {
			return question.Question{}, apperrors.New(question.CodeNotFound, "question not found")
		},
	}
	router := newTestRouter(t, svc)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/questions/"+uuid.NewString(), "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", errorCode(t, rec))
}

func TestDeleteEndpoint(t *testing.T) {
	svc := &serviceStub{del: func(uuid.UUID) error { return nil }}
	router := newTestRouter(t, svc)
	rec := doJSON(t, router, http.MethodDelete, "/api/v1/questions/"+uuid.NewString(), "", signToken(t, "7"))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTrendingEndpoint(t *testing.T) {
	svc := &serviceStub{
		trending: func() ([]question.TrendingQuery, error) {
			return []question.TrendingQuery{{Query: "derivative rules", Count: 3}}, nil
		},
	}
	router := newTestRouter(t, svc)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/questions/trending", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Queries []question.TrendingQuery `json:"queries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Queries, 1)
	require.Equal(t, int64(3), body.Queries[0].Count)
}

type serviceStub struct {
	ask      func(question.AskRequest) (question.Question, error)
	get      func(uuid.UUID) (question.Question, error)
	list     func(*int64) ([]question.Question, error)
	update   func(uuid.UUID, question.UpdateRequest) (question.Question, error)
	del      func(uuid.UUID) error
	search   func(question.SearchRequest) (question.SearchResponse, error)
	trending func() ([]question.TrendingQuery, error)
}

func (s *serviceStub) Ask(_ context.Context, req question.AskRequest) (question.Question, error) {
	if s.ask == nil {
		return question.Question{}, nil
	}
	return s.ask(req)
}

func (s *serviceStub) Get(_ context.Context, id uuid.UUID) (question.Question, error) {
	if s.get == nil {
		return question.Question{}, nil
	}
	return s.get(id)
}

func (s *serviceStub) List(_ context.Context, authorID *int64) ([]question.Question, error) {
	if s.list == nil {
		return nil, nil
	}
	return s.list(authorID)
}

func (s *serviceStub) Update(_ context.Context, id uuid.UUID, req question.UpdateRequest) (question.Question, error) {
	if s.update == nil {
		return question.Question{}, nil
	}
	return s.update(id, req)
}

func (s *serviceStub) Delete(_ context.Context, id uuid.UUID) error {
	if s.del == nil {
		return nil
	}
	return s.del(id)
}

func (s *serviceStub) Search(_ context.Context, req question.SearchRequest) (question.SearchResponse, error) {
	if s.search == nil {
		return question.SearchResponse{}, nil
	}
	return s.search(req)
}

func (s *serviceStub) Trending(context.Context) ([]question.TrendingQuery, error) {
	if s.trending == nil {
		return nil, nil
	}
	return s.trending()
}

var _ question.Service = (*serviceStub)(nil)
