package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/programmableapple/attorney-portfolio/internal/api/middleware"
	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
)

// ctxIdentity returns the identity injected by the Auth middleware. Its
// absence means the route was mounted without Auth, so the request is
// treated as unauthenticated.
func ctxIdentity(c echo.Context) (domain.AuthenticatedIdentity, error) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return domain.AuthenticatedIdentity{}, domain.ErrUnauthorized
	}
	return id, nil
}
