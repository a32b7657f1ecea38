package user

import (
	"context"

	domuser "github.com/peroute/hackwest-project/internal/domain/user"
)

// Repository persists accounts.
type Repository interface {
	Create(ctx context.Context, u *domuser.User) (domuser.User, error)
	Get(ctx context.Context, id int64) (domuser.User, error)
	FindByUsername(ctx context.Context, username string) (domuser.User, error)
	FindByEmail(ctx context.Context, email string) (domuser.User, error)
	List(ctx context.Context, skip, limit int) ([]domuser.User, error)
	Update(ctx context.Context, u *domuser.User) error
	Delete(ctx context.Context, id int64) error
}
