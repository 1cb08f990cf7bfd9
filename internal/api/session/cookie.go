// Package session centralizes session cookie behavior: names, attributes,
// and the write/clear pairing the token flows depend on.
package session

import (
	"net/http"
	"time"

	"github.com/hearthkeep/household-system/internal/core/domain"
)

// Cookie names. Access and refresh cookies are httpOnly; the anti-forgery
// cookie must stay readable so the client can echo it in a header.
const (
	AccessCookie  = "hk_access"
	RefreshCookie = "hk_refresh"
	CSRFCookie    = "hk_csrf"
)

// CSRFHeader is the header the client echoes the anti-forgery cookie into
// on every state-changing request.
const CSRFHeader = "X-CSRF-Token"

// Write sets the three session cookies for a freshly issued credential pair.
func Write(w http.ResponseWriter, pair *domain.TokenPair, csrfToken string, refreshTTL time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	WriteCSRF(w, csrfToken, refreshTTL, secure)
}

// WriteCSRF sets only the anti-forgery cookie, for the anonymous issue path.
func WriteCSRF(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear expires all three session cookies. Used on logout and on session
// reset (an unusable refresh token).
func Clear(w http.ResponseWriter, secure bool) {
	for _, name := range []string{AccessCookie, RefreshCookie, CSRFCookie} {
		httpOnly := name != CSRFCookie
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: httpOnly,
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
