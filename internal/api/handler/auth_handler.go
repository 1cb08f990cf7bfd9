package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hearthkeep/household-system/internal/api/metrics"
	"github.com/hearthkeep/household-system/internal/api/session"
	"github.com/hearthkeep/household-system/internal/core/domain"
	"github.com/hearthkeep/household-system/internal/core/ports"
)

// AuthHandler exposes registration, login, credential rotation and the
// anonymous anti-forgery endpoint. Session state travels only in cookies;
// response bodies never carry tokens.
type AuthHandler struct {
	auth       ports.AuthService
	tokens     ports.TokenService
	refreshTTL time.Duration
	secure     bool
}

func NewAuthHandler(auth ports.AuthService, tokens ports.TokenService, refreshTTL time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, refreshTTL: refreshTTL, secure: secure}
}

// Register creates a new account and opens a session.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, pair, err := h.auth.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}

	if err := h.openSession(c, pair); err != nil {
		return err
	}
	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, authResponse{User: user.Public()})
}

// Login authenticates a user and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, pair, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("login").Inc()
		return err
	}

	if err := h.openSession(c, pair); err != nil {
		return err
	}
	metrics.LoginsTotal.Inc()
	return c.JSON(http.StatusOK, authResponse{User: user.Public()})
}

// Refresh rotates an expired access token. Both cookies must be present;
// the request is malformed without them. An unusable refresh token tears
// the session down: all three cookies are cleared and the client sees the
// distinct "session reset" response.
//
// @Summary      Rotate the credential pair
// @Tags         auth
// @Produce      json
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	access, errA := c.Cookie(session.AccessCookie)
	refresh, errR := c.Cookie(session.RefreshCookie)
	if errA != nil || errR != nil || access.Value == "" || refresh.Value == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing session cookies")
	}

	pair, err := h.tokens.Refresh(c.Request().Context(), access.Value, refresh.Value)
	if err != nil {
		if errors.Is(err, ports.ErrSessionReset) {
			session.Clear(c.Response(), h.secure)
			metrics.SessionResetsTotal.Inc()
		}
		metrics.AuthFailuresTotal.WithLabelValues("refresh").Inc()
		return err
	}

	if err := h.openSession(c, pair); err != nil {
		return err
	}
	metrics.TokenRefreshesTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// Logout clears the session cookies.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	session.Clear(c.Response(), h.secure)
	return c.NoContent(http.StatusNoContent)
}

// CSRFToken issues an anti-forgery token to anonymous callers so the first
// state-changing request (login itself) can pass the double-submit check.
//
// @Summary      Issue an anti-forgery token
// @Tags         auth
// @Produce      json
// @Success      200   {object}  csrfResponse
// @Router       /auth/csrf [get]
func (h *AuthHandler) CSRFToken(c echo.Context) error {
	token, err := session.NewCSRFToken()
	if err != nil {
		return err
	}
	session.WriteCSRF(c.Response(), token, h.refreshTTL, h.secure)
	return c.JSON(http.StatusOK, csrfResponse{Token: token})
}

// openSession writes the cookie triple for a fresh credential pair.
func (h *AuthHandler) openSession(c echo.Context, pair *domain.TokenPair) error {
	csrf, err := session.NewCSRFToken()
	if err != nil {
		return err
	}
	session.Write(c.Response(), pair, csrf, h.refreshTTL, h.secure)
	return nil
}
