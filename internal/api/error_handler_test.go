package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hearthkeep/household-system/internal/core/domain"
	"github.com/hearthkeep/household-system/internal/core/ports"
)

func renderError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not the error envelope: %s", rec.Body.String())
	}
	return rec.Code, body.Error
}

func TestErrorHandler_SessionResetIsDistinct(t *testing.T) {
	code, msg := renderError(t, ports.ErrSessionReset)
	if code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}
	if msg != "session reset" {
		t.Fatalf("message = %q, want the distinct session reset marker", msg)
	}
}

func TestErrorHandler_AuthFailuresStayGeneric(t *testing.T) {
	for _, err := range []error{
		domain.ErrInvalidCredentials,
		ports.ErrTokenInvalid,
		ports.ErrTokenExpired,
		ports.ErrNoPayload,
		fmt.Errorf("%w: user not found", ports.ErrTokenInvalid),
	} {
		code, msg := renderError(t, err)
		if code != http.StatusUnauthorized {
			t.Errorf("%v: status = %d, want 401", err, code)
		}
		if msg != "unauthorized" {
			t.Errorf("%v: message = %q, internal reason must not leak", err, msg)
		}
	}
}

func TestErrorHandler_CorruptStateMasked(t *testing.T) {
	code, msg := renderError(t, fmt.Errorf("get members: member u1: %w", domain.ErrCorruptState))
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if msg != "internal server error" {
		t.Fatalf("message = %q, corruption details must not leak", msg)
	}
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrHouseholdNotFound, http.StatusNotFound},
		{domain.ErrInvitationNotFound, http.StatusNotFound},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrAlreadyMember, http.StatusConflict},
		{domain.ErrInviteNotPending, http.StatusConflict},
		{domain.ErrOwnerProtected, http.StatusForbidden},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrOwnerRoleGrant, http.StatusBadRequest},
		{ports.ErrTokenNotAcceptable, http.StatusBadRequest},
		{errors.New("some unknown failure"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if code, _ := renderError(t, tc.err); code != tc.code {
			t.Errorf("%v: status = %d, want %d", tc.err, code, tc.code)
		}
	}
}

func TestErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	code, msg := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if code != http.StatusBadRequest || msg != "invalid payload" {
		t.Fatalf("got %d %q, want 400 invalid payload", code, msg)
	}
}
