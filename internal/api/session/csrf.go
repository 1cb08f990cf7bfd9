package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewCSRFToken generates a fresh anti-forgery token. The token is
// independent of the JWT pair: it proves the request came from the
// legitimate client UI, not that the caller is authenticated.
func NewCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate anti-forgery token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
