package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hearthkeep/household-system/internal/api/session"
	"github.com/hearthkeep/household-system/internal/core/domain"
	"github.com/hearthkeep/household-system/internal/core/ports"
)

// userContextKey is where Auth stores the resolved caller.
const userContextKey = "auth_user"

// Auth authenticates the request from the access-token cookie and attaches
// the resolved (password-stripped) user to the context. Every verification
// failure collapses into the same 401 externally; the underlying reason is
// logged for diagnosis.
func Auth(tokens ports.TokenService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(session.AccessCookie)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			user, err := tokens.Verify(c.Request().Context(), cookie.Value)
			if err != nil {
				log.Debug().Err(err).Str("path", c.Path()).Msg("token verification failed")
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the caller attached by Auth, or nil on an
// unauthenticated route.
func CurrentUser(c echo.Context) *domain.PublicUser {
	user, _ := c.Get(userContextKey).(*domain.PublicUser)
	return user
}
