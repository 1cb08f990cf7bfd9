package ports

import (
	"context"
	"errors"

	"github.com/hearthkeep/household-system/internal/core/domain"
)

// Auth failure reasons. Externally every one of these surfaces as a generic
// unauthorized response; the distinctions exist for logs and for the
// refresh flow, which must tell "reject the request" apart from "tear the
// whole session down".
var (
	ErrNoPayload          = errors.New("no payload")
	ErrTokenExpired       = errors.New("expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotAcceptable = errors.New("token not acceptable")
	// ErrSessionReset means the refresh token itself is unusable; the
	// transport layer must clear all session cookies, not just fail.
	ErrSessionReset = errors.New("session reset")
)

// TokenService issues, verifies and rotates the access/refresh credential
// pair that authenticates every request.
type TokenService interface {
	Issue(user *domain.User) (*domain.TokenPair, error)
	// Verify checks an access token end to end: signature, payload,
	// expiry, and subject resolution against the user store. On success it
	// returns the password-stripped subject.
	Verify(ctx context.Context, token string) (*domain.PublicUser, error)
	// Refresh rotates an expired access token. A still-valid access token
	// is rejected with ErrTokenNotAcceptable; an unusable refresh token
	// fails with ErrSessionReset.
	Refresh(ctx context.Context, accessToken, refreshToken string) (*domain.TokenPair, error)
}
