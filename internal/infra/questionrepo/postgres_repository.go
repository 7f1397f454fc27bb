package questionrepo

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Slothdemon22/CampusMinus/internal/domain/question"
)

// PostgresRepository implements question.Repository using pgx. Vector
// writes and lookups go through the vector store adapter so the
// capability degrade path stays in one place.
type PostgresRepository struct {
	pool    *pgxpool.Pool
	vectors question.VectorStore
	logger  *slog.Logger
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool, vectors question.VectorStore, logger *slog.Logger) *PostgresRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRepository{
		pool:    pool,
		vectors: vectors,
		logger:  logger.With("component", "questionrepo.postgres"),
	}
}

const questionColumns = `
	q.id, q.title, q.description, q.images, q.author_id, q.created_at, q.updated_at,
	u.id, u.nickname
`

// Create persists the row first, then attempts the vector upsert. A
// skipped or failed upsert is logged and the question is returned
// without an embedding; creation itself does not fail.
func (r *PostgresRepository) Create(ctx context.Context, draft question.Draft, embedding []float32) (question.Question, error) {
	id := uuid.New()
	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO questions (id, title, description, images, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, id, draft.Title, draft.Description, draft.Images, draft.AuthorID, now)
	if err != nil {
		return question.Question{}, err
	}

	var stored []float32
	if embedding != nil {
		outcome, err := r.vectors.Upsert(ctx, id, embedding)
		switch {
		case err != nil:
			r.logger.Warn("embedding upsert failed, question kept without vector", "question_id", id, "error", err)
		case outcome.Status == question.UpsertSkipped:
			r.logger.Info("embedding skipped", "question_id", id, "reason", outcome.Reason)
		default:
			stored = embedding
		}
	}

	created, found, err := r.Get(ctx, id)
	if err != nil {
		return question.Question{}, err
	}
	if !found {
		return question.Question{}, errors.New("created question row not found")
	}
	created.Embedding = stored
	return created, nil
}

// Get fetches a question with its author hydrated.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (question.Question, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+questionColumns+`
		FROM questions q
		LEFT JOIN users u ON u.id = q.author_id
		WHERE q.id = $1
		LIMIT 1
	`, id)
	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return question.Question{}, false, nil
		}
		return question.Question{}, false, err
	}
	return q, true, nil
}

// List returns all questions, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]question.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+questionColumns+`
		FROM questions q
		LEFT JOIN users u ON u.id = q.author_id
		ORDER BY q.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectQuestions(rows)
}

// ListByAuthor returns one user's questions, newest first.
func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID int64) ([]question.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+questionColumns+`
		FROM questions q
		LEFT JOIN users u ON u.id = q.author_id
		WHERE q.author_id = $1
		ORDER BY q.created_at DESC
	`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectQuestions(rows)
}

// Update edits the writable columns. The embedding column is never
// touched here.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, update question.Update) (question.Question, bool, error) {
	query := `UPDATE questions SET updated_at = NOW()`
	args := []any{id}
	argPos := 2
	if update.Title != nil {
		query += `, title = $` + strconv.Itoa(argPos)
		args = append(args, *update.Title)
		argPos++
	}
	if update.Description != nil {
		query += `, description = $` + strconv.Itoa(argPos)
		args = append(args, *update.Description)
		argPos++
	}
	if update.Images != nil {
		query += `, images = $` + strconv.Itoa(argPos)
		args = append(args, update.Images)
		argPos++
	}
	query += ` WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return question.Question{}, false, err
	}
	if tag.RowsAffected() == 0 {
		return question.Question{}, false, nil
	}
	return r.Get(ctx, id)
}

// Delete removes the row; the embedding lives in the same row so the
// vector goes with it in the same statement.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SearchByEmbedding ranks ids through the vector store and hydrates
// each hit, preserving the adapter's distance ordering.
func (r *PostgresRepository) SearchByEmbedding(ctx context.Context, embedding []float32, limit int) ([]question.Question, error) {
	ids, err := r.vectors.NearestNeighbors(ctx, embedding, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+questionColumns+`
		FROM questions q
		LEFT JOIN users u ON u.id = q.author_id
		WHERE q.id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	fetched, err := collectQuestions(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]question.Question, len(fetched))
	for _, q := range fetched {
		byID[q.ID] = q
	}
	ranked := make([]question.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ranked = append(ranked, q)
		}
	}
	return ranked, nil
}

// ReindexEmbedding replaces the stored vector for an existing row.
func (r *PostgresRepository) ReindexEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) (question.UpsertOutcome, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM questions WHERE id = $1)
	`, id).Scan(&exists); err != nil {
		return question.UpsertOutcome{}, err
	}
	if !exists {
		return question.UpsertOutcome{}, errors.New("question not found")
	}
	return r.vectors.Upsert(ctx, id, embedding)
}

func collectQuestions(rows pgx.Rows) ([]question.Question, error) {
	var questions []question.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanQuestion hydrates a joined row. The deleted-author sentinel is
// constructed here so callers never special-case a missing owner.
func scanQuestion(row rowScanner) (question.Question, error) {
	var (
		q            question.Question
		authorID     sql.NullInt64
		joinedID     sql.NullInt64
		joinedName   sql.NullString
		created, upd time.Time
	)
	if err := row.Scan(&q.ID, &q.Title, &q.Description, &q.Images, &authorID, &created, &upd, &joinedID, &joinedName); err != nil {
		return question.Question{}, err
	}
	q.CreatedAt = created.UTC()
	q.UpdatedAt = upd.UTC()
	if authorID.Valid {
		id := authorID.Int64
		q.AuthorID = &id
	}
	if joinedID.Valid && joinedName.Valid {
		q.Author = question.Author{ID: joinedID.Int64, DisplayName: joinedName.String}
	} else {
		q.Author = question.DeletedAuthor()
	}
	return q, nil
}

var _ question.Repository = (*PostgresRepository)(nil)
