package userrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Slothdemon22/CampusMinus/internal/domain/user"
)

// PostgresRepository resolves users from Postgres. Only the read path
// lives here; account management belongs to the identity service.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetByID fetches by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (user.User, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, nickname, created_at
		FROM users
		WHERE id = $1
		LIMIT 1
	`, id)
	var (
		u       user.User
		created time.Time
	)
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, false, nil
		}
		return user.User{}, false, err
	}
	u.CreatedAt = created.UTC()
	return u, true, nil
}

var _ user.Repository = (*PostgresRepository)(nil)
