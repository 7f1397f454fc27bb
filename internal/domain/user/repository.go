package user

import "context"

// Repository resolves question authors.
type Repository interface {
	GetByID(ctx context.Context, id int64) (User, bool, error)
}
