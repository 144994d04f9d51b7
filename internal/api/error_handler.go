package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/programmableapple/attorney-portfolio/internal/core/domain"
	"github.com/programmableapple/attorney-portfolio/pkg/logger"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorMapping ties a domain error to its HTTP rendering. An empty message
// means the error text itself is safe to show.
type errorMapping struct {
	target  error
	status  int
	kind    string
	message string
}

// Order matters: specific errors precede the families they belong to.
var errorMappings = []errorMapping{
	{domain.ErrDuplicateEmail, http.StatusBadRequest, "DuplicateEmail", "email already registered"},
	{domain.ErrInvalidRole, http.StatusBadRequest, "InvalidRole", "role must be one of: client, attorney, admin"},
	{domain.ErrValidation, http.StatusBadRequest, "ValidationFailed", ""},
	{domain.ErrDuplicateSector, http.StatusBadRequest, "DuplicateSector", "sector already exists"},
	{domain.ErrLawyerUnavailable, http.StatusBadRequest, "LawyerUnavailable", "lawyer is not accepting bookings"},
	{domain.ErrIdempotencyConflict, http.StatusConflict, "IdempotencyConflict", "a request with this idempotency key is still in progress"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "InvalidCredentials", "invalid email or password"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "Unauthorized", "invalid or expired token"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized", ""},
	{domain.ErrForbidden, http.StatusForbidden, "Forbidden", ""},
	{domain.ErrUserNotFound, http.StatusNotFound, "NotFound", "user not found"},
	{domain.ErrLawyerNotFound, http.StatusNotFound, "NotFound", "lawyer not found"},
	{domain.ErrSectorNotFound, http.StatusNotFound, "NotFound", "sector not found"},
	{domain.ErrBookingNotFound, http.StatusNotFound, "NotFound", "booking not found"},
	{domain.ErrNotFound, http.StatusNotFound, "NotFound", "resource not found"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and error kind.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<Kind>", "message": "<text>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, c, err)
			msg = "internal server error"
		}
		return he.Code, errorResponse{Error: kindForStatus(he.Code), Message: msg}
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			return m.status, errorResponse{Error: m.kind, Message: msg}
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	logUnhandled(log, c, err)
	return http.StatusInternalServerError, errorResponse{Error: "InternalError", Message: "internal server error"}
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str(logger.FieldRequestID, c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}

// kindForStatus derives an error kind from an HTTP status, e.g. 405 becomes
// "MethodNotAllowed".
func kindForStatus(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "BadRequest"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "NotFound"
	}
	if code >= http.StatusInternalServerError {
		return "InternalError"
	}
	text := http.StatusText(code)
	if text == "" {
		return "Error"
	}
	return strings.ReplaceAll(strings.ReplaceAll(text, " ", ""), "-", "")
}
