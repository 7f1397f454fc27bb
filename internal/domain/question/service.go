package question

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/Slothdemon22/CampusMinus/pkg/errors"
)

// Service exposes question CRUD plus semantic search.
type Service interface {
	Ask(ctx context.Context, req AskRequest) (Question, error)
	Get(ctx context.Context, id uuid.UUID) (Question, error)
	List(ctx context.Context, authorID *int64) ([]Question, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, req SearchRequest) (SearchResponse, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
}

type service struct {
	cfg       Config
	repo      Repository
	embedder  Embedder
	searchLog SearchLog
	images    ImageStorage
	logger    *slog.Logger
}

// NewService wires up the question domain.
func NewService(cfg Config, repo Repository, embedder Embedder, searchLog SearchLog, images ImageStorage, logger *slog.Logger) Service {
	return &service{
		cfg:       cfg,
		repo:      repo,
		embedder:  embedder,
		searchLog: searchLog,
		images:    images,
		logger:    logger.With("component", "question.service"),
	}
}

// Ask creates a question. Embedding is attempted synchronously but
// best-effort: the question is persisted whether or not the provider
// cooperates, so posting never fails because of embedding health.
func (s *service) Ask(ctx context.Context, req AskRequest) (Question, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" {
		return Question{}, apperrors.New(CodeInvalidInput, "title cannot be empty")
	}
	if description == "" {
		return Question{}, apperrors.New(CodeInvalidInput, "description cannot be empty")
	}

	embedding := s.tryEmbed(ctx, title+"\n\n"+description)

	created, err := s.repo.Create(ctx, Draft{
		Title:       title,
		Description: description,
		Images:      req.Images,
		AuthorID:    req.AuthorID,
	}, embedding)
	if err != nil {
		return Question{}, apperrors.Wrap(CodeQuestionError, "failed to create question", err)
	}
	s.resolveImages(ctx, &created)
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (Question, error) {
	q, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return Question{}, apperrors.Wrap(CodeQuestionError, "failed to load question", err)
	}
	if !found {
		return Question{}, apperrors.New(CodeNotFound, "question not found")
	}
	s.resolveImages(ctx, &q)
	return q, nil
}

func (s *service) List(ctx context.Context, authorID *int64) ([]Question, error) {
	var (
		questions []Question
		err       error
	)
	if authorID != nil {
		questions, err = s.repo.ListByAuthor(ctx, *authorID)
	} else {
		questions, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, apperrors.Wrap(CodeQuestionError, "failed to list questions", err)
	}
	for i := range questions {
		s.resolveImages(ctx, &questions[i])
	}
	return questions, nil
}

// Update edits title/description/images. The stored embedding is left
// untouched: vectors are computed once at creation and only replaced
// through ReindexEmbedding.
func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (Question, error) {
	update := Update{Images: req.Images}
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			return Question{}, apperrors.New(CodeInvalidInput, "title cannot be empty")
		}
		update.Title = &trimmed
	}
	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		if trimmed == "" {
			return Question{}, apperrors.New(CodeInvalidInput, "description cannot be empty")
		}
		update.Description = &trimmed
	}

	updated, found, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return Question{}, apperrors.Wrap(CodeQuestionError, "failed to update question", err)
	}
	if !found {
		return Question{}, apperrors.New(CodeNotFound, "question not found")
	}
	s.resolveImages(ctx, &updated)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperrors.Wrap(CodeQuestionError, "failed to delete question", err)
	}
	if !found {
		return apperrors.New(CodeNotFound, "question not found")
	}
	return nil
}

// Search embeds the query text and ranks stored questions by ascending
// distance. Unlike Ask, provider failures here surface to the caller:
// there is no text-search substitute.
func (s *service) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return SearchResponse{}, apperrors.New(CodeInvalidInput, "query cannot be empty")
	}
	limit := s.clampLimit(req.Limit)

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return SearchResponse{}, err
	}
	embedding, err = ConformEmbedding(embedding, s.cfg.Dimensions)
	if err != nil {
		return SearchResponse{}, err
	}

	questions, err := s.repo.SearchByEmbedding(ctx, embedding, limit)
	if err != nil {
		return SearchResponse{}, apperrors.Wrap(CodeQuestionError, "similarity lookup failed", err)
	}
	for i := range questions {
		s.resolveImages(ctx, &questions[i])
	}

	if canonical := normalizeQuery(query); canonical != "" {
		if err := s.searchLog.IncrementQuery(ctx, canonical, query); err != nil {
			s.logger.Warn("trending increment failed", "error", err)
		}
	}

	return SearchResponse{Questions: questions}, nil
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	queries, err := s.searchLog.TopQueries(ctx, s.cfg.TrendingSize)
	if err != nil {
		return nil, apperrors.Wrap(CodeQuestionError, "failed to load trending queries", err)
	}
	return queries, nil
}

// tryEmbed returns a conformed vector or nil. Every failure mode here
// (provider down, misconfigured, malformed or short vector) degrades
// to "no embedding" so that creation proceeds.
func (s *service) tryEmbed(ctx context.Context, text string) []float32 {
	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("embedding skipped", "code", apperrors.CodeOf(err), "error", err)
		return nil
	}
	embedding, err = ConformEmbedding(embedding, s.cfg.Dimensions)
	if err != nil {
		s.logger.Warn("embedding skipped", "code", apperrors.CodeOf(err), "error", err)
		return nil
	}
	return embedding
}

func (s *service) resolveImages(ctx context.Context, q *Question) {
	if s.images == nil || len(q.Images) == 0 {
		return
	}
	urls := make([]string, 0, len(q.Images))
	for _, key := range q.Images {
		url, err := s.images.PresignedGet(ctx, key)
		if err != nil {
			s.logger.Warn("image url resolution failed", "key", key, "error", err)
			url = key
		}
		urls = append(urls, url)
	}
	q.ImageURLs = urls
}

func (s *service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultSearchLimit
	}
	if s.cfg.MaxSearchLimit > 0 && limit > s.cfg.MaxSearchLimit {
		return s.cfg.MaxSearchLimit
	}
	return limit
}
