package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hearthkeep/household-system/internal/api/session"
)

// CSRF enforces the double-submit anti-forgery check: on every
// state-changing request the client must echo the anti-forgery cookie in
// the X-CSRF-Token header, and the two copies must match exactly. Safe
// (read-only) methods are exempt. The check runs regardless of
// authentication state.
func CSRF() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if safeMethod(c.Request().Method) {
				return next(c)
			}

			cookie, err := c.Cookie(session.CSRFCookie)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusForbidden, "missing anti-forgery token")
			}
			header := c.Request().Header.Get(session.CSRFHeader)
			if header == "" {
				return echo.NewHTTPError(http.StatusForbidden, "missing anti-forgery token")
			}
			if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
				return echo.NewHTTPError(http.StatusForbidden, "anti-forgery token mismatch")
			}

			return next(c)
		}
	}
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
