package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hearthkeep/household-system/internal/core/domain"
)

// RequirePermission enforces role-based access control: the authenticated
// caller must hold the permission in the household addressed by the :id
// path parameter. A caller with no role in the household gets the same 403
// as one whose role lacks the permission.
func RequirePermission(perm domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			householdID := c.Param("id")
			if householdID == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "missing household id")
			}

			caller := &domain.User{ID: user.ID, HouseholdRoles: user.HouseholdRoles}
			if !domain.HasPermission(caller, householdID, perm) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
