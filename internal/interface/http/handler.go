package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Slothdemon22/CampusMinus/internal/domain/question"
	apperrors "github.com/Slothdemon22/CampusMinus/pkg/errors"
)

// Handler wires the HTTP transport to the question domain.
type Handler struct {
	questionSvc question.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(questionSvc question.Service, logger *slog.Logger) *Handler {
	return &Handler{
		questionSvc: questionSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

// AskQuestion creates a question for the authenticated user.
func (h *Handler) AskQuestion(c *gin.Context) {
	var req question.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if userID, ok := authedUser(c); ok {
		req.AuthorID = &userID
	}

	created, err := h.questionSvc.Ask(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, questionError(err, "ask_failed"))
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetQuestion fetches a single question.
func (h *Handler) GetQuestion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	q, err := h.questionSvc.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, questionError(err, "question_failed"))
		return
	}
	c.JSON(http.StatusOK, q)
}

// ListQuestions lists all questions, optionally filtered by author.
func (h *Handler) ListQuestions(c *gin.Context) {
	var authorID *int64
	if raw := c.Query("author"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "author must be an integer id", err))
			return
		}
		authorID = &parsed
	}

	questions, err := h.questionSvc.List(c.Request.Context(), authorID)
	if err != nil {
		abortWithError(c, questionError(err, "question_failed"))
		return
	}
	if questions == nil {
		questions = []question.Question{}
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// UpdateQuestion edits title/description/images.
func (h *Handler) UpdateQuestion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req question.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	updated, err := h.questionSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, questionError(err, "update_failed"))
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteQuestion removes a question together with its vector.
func (h *Handler) DeleteQuestion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.questionSvc.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, questionError(err, "delete_failed"))
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchQuestions runs semantic search over previously asked questions.
func (h *Handler) SearchQuestions(c *gin.Context) {
	var req question.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.questionSvc.Search(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, questionError(err, "search_failed"))
		return
	}
	if resp.Questions == nil {
		resp.Questions = []question.Question{}
	}
	c.JSON(http.StatusOK, resp)
}

// TrendingSearches returns the most popular search queries.
func (h *Handler) TrendingSearches(c *gin.Context) {
	items, err := h.questionSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, questionError(err, "trending_failed"))
		return
	}
	if items == nil {
		items = []question.TrendingQuery{}
	}
	c.JSON(http.StatusOK, gin.H{"queries": items})
}

// questionError maps domain error codes onto transport statuses.
func questionError(err error, fallbackCode string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch apperrors.CodeOf(err) {
	case question.CodeInvalidInput:
		status = http.StatusBadRequest
		code = "invalid_request"
	case question.CodeNotFound:
		status = http.StatusNotFound
		code = "not_found"
	case question.CodeEmbedderNotConfigured:
		code = question.CodeEmbedderNotConfigured
	case question.CodeEmbedderUpstream, question.CodeEmbedderMalformed, question.CodeDimensionMismatch:
		status = http.StatusBadGateway
		code = apperrors.CodeOf(err)
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "id must be a uuid", err))
		return uuid.UUID{}, false
	}
	return id, true
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
