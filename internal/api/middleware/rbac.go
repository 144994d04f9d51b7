package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/programmableapple/attorney-portfolio/internal/api/metrics"
	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
)

// RequireRole enforces role-based access control. It must run after Auth.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := CurrentIdentity(c)
			if !ok {
				return domain.ErrUnauthorized
			}
			if _, ok := allowed[id.Role]; !ok {
				metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
