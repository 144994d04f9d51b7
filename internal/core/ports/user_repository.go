package ports

import (
	"context"

	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
)

// UserRepository is the credential store. Emails are stored normalized and
// must be unique; Create reports a collision as domain.ErrDuplicateEmail.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// List returns all users, newest first.
	List(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
}
