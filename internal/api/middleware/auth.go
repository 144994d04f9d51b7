package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/programmableapple/attorney-portfolio/internal/api/metrics"
	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
	"github.com/programmableapple/attorney-portfolio/internal/core/ports"
	"github.com/programmableapple/attorney-portfolio/pkg/logger"
)

// identityKey is the echo context key holding the AuthenticatedIdentity.
const identityKey = "identity"

// UserFinder reloads the caller on every request.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Auth validates the bearer token, reloads the user it names and injects an
// AuthenticatedIdentity into the context. The identity carries the role
// currently stored for the user, not the role the token was minted with.
func Auth(tokens ports.TokenService, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return fmt.Errorf("%w: missing authorization header", domain.ErrUnauthorized)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return fmt.Errorf("%w: invalid authorization header", domain.ErrUnauthorized)
			}

			claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return fmt.Errorf("%w: invalid or expired token", domain.ErrUnauthorized)
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					metrics.AuthRejectionsTotal.WithLabelValues("unknown_user").Inc()
					return fmt.Errorf("%w: user no longer exists", domain.ErrUnauthorized)
				}
				return fmt.Errorf("load identity: %w", err)
			}

			SetIdentity(c, domain.AuthenticatedIdentity{
				UserID:    user.ID,
				Role:      user.Role,
				TokenRole: claims.Role,
				IssuedAt:  claims.IssuedAt,
				ExpiresAt: claims.ExpiresAt,
				User:      user.Public(),
			})
			logger.SetCaller(c, user.ID, user.Role.String())

			return next(c)
		}
	}
}

// CurrentIdentity returns the identity injected by Auth.
func CurrentIdentity(c echo.Context) (domain.AuthenticatedIdentity, bool) {
	id, ok := c.Get(identityKey).(domain.AuthenticatedIdentity)
	return id, ok && id.UserID != ""
}

// SetIdentity attaches id to c. Used by Auth and by tests of downstream
// handlers.
func SetIdentity(c echo.Context, id domain.AuthenticatedIdentity) {
	c.Set(identityKey, id)
}
