package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes the two halves of a credential pair on the wire.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "user"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenClaims is the signed credential payload. Expiration is carried as
// epoch milliseconds in a custom field (the wire contract predates standard
// JWT registered claims and downstream clients parse it directly).
type TokenClaims struct {
	ID         string    `json:"id"`
	Email      string    `json:"email,omitempty"`
	Expiration int64     `json:"expiration"`
	Kind       TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// ExpiryTime converts the epoch-millis expiration to a time.Time.
func (c *TokenClaims) ExpiryTime() time.Time {
	return time.UnixMilli(c.Expiration).UTC()
}

// Expired reports whether the claim is past its expiration at now.
func (c *TokenClaims) Expired(now time.Time) bool {
	return now.After(c.ExpiryTime())
}

// TokenPair is an access/refresh credential pair. Both tokens are always
// issued together, share a subject, and the access token always expires
// strictly before its paired refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
