package ports

import (
	"context"

	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
)

// RegisterInput carries the registration form. Role is raw caller input and
// is validated against the closed role set by the service.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthService registers and authenticates users.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// TokenService mints and verifies stateless session tokens.
type TokenService interface {
	Issue(userID string, role domain.Role) (string, error)
	Verify(token string) (*domain.TokenClaims, error)
}

// AdminService covers administrative user management.
type AdminService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	ChangeRole(ctx context.Context, userID, role string) (*domain.User, error)
}
