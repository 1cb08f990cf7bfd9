package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hearthkeep/household-system/internal/core/domain"
	"github.com/hearthkeep/household-system/internal/core/ports"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
//
// Auth failures deliberately surface the same generic message regardless of
// cause; the internal reason is only ever logged.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors map to deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrHouseholdNotFound),
		errors.Is(err, domain.ErrInvitationNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, domain.ErrAlreadyMember):
		return http.StatusConflict, "user is already a member"
	case errors.Is(err, domain.ErrNotMember):
		return http.StatusConflict, "user is not a member"
	case errors.Is(err, domain.ErrInviteNotPending):
		return http.StatusConflict, "invitation is no longer pending"
	case errors.Is(err, domain.ErrOwnerProtected):
		return http.StatusForbidden, "household owner cannot be removed"
	case errors.Is(err, domain.ErrOwnerRoleGrant):
		return http.StatusBadRequest, "owner role cannot be granted directly"
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrNoHouseholdRole):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, ports.ErrTokenInvalid),
		errors.Is(err, ports.ErrTokenExpired),
		errors.Is(err, ports.ErrNoPayload):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ports.ErrTokenNotAcceptable):
		return http.StatusBadRequest, "token not acceptable"
	case errors.Is(err, ports.ErrSessionReset):
		// The refresh handler clears cookies before returning this; the
		// distinct message lets clients tell a full teardown from a plain
		// auth failure.
		return http.StatusUnauthorized, "session reset"
	case errors.Is(err, domain.ErrCorruptState):
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("membership invariant violated")
		return http.StatusInternalServerError, "internal server error"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
