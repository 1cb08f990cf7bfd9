package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/hearthkeep/household-system/internal/core/domain"
	"github.com/hearthkeep/household-system/internal/core/ports"
)

// RotationGuard marks refresh tokens as consumed so each can rotate a
// session at most once. Backed by Redis in production.
type RotationGuard interface {
	// Consume marks the token used until its natural expiry. It reports
	// false when the token was already consumed.
	Consume(ctx context.Context, token string, ttl time.Duration) (bool, error)
}

// TokenService issues and rotates the access/refresh credential pair. The
// signing secret is process-wide, loaded once at construction and never
// rotated at runtime; rotating it would invalidate every outstanding
// session.
type TokenService struct {
	users      ports.UserRepository
	guard      RotationGuard
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        zerolog.Logger

	now func() time.Time
}

func NewTokenService(users ports.UserRepository, guard RotationGuard, secret string, accessTTL, refreshTTL time.Duration, log zerolog.Logger) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= accessTTL {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenService{
		users:      users,
		guard:      guard,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        log,
		now:        time.Now,
	}
}

// Issue mints a fresh credential pair for the user. Both tokens carry the
// same subject; only the access token carries the email, and the access
// expiry is strictly shorter than the refresh expiry.
func (s *TokenService) Issue(user *domain.User) (*domain.TokenPair, error) {
	now := s.now().UTC()

	access, err := s.sign(&domain.TokenClaims{
		ID:         user.ID,
		Email:      user.Email,
		Expiration: now.Add(s.accessTTL).UnixMilli(),
		Kind:       domain.TokenKindAccess,
	})
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := s.sign(&domain.TokenClaims{
		ID:         user.ID,
		Expiration: now.Add(s.refreshTTL).UnixMilli(),
		Kind:       domain.TokenKindRefresh,
	})
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify authenticates an access token and resolves its subject. All
// failure reasons collapse into a generic unauthorized response upstream;
// the distinct errors here feed logs and the refresh flow only.
func (s *TokenService) Verify(ctx context.Context, token string) (*domain.PublicUser, error) {
	claims, err := s.decode(token)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ports.ErrNoPayload
	}
	// A refresh token never authenticates a request, even while unexpired;
	// it is only good for minting a new pair via Refresh.
	if claims.Kind != domain.TokenKindAccess {
		return nil, fmt.Errorf("%w: wrong token kind", ports.ErrTokenInvalid)
	}
	if claims.Expired(s.now().UTC()) {
		return nil, ports.ErrTokenExpired
	}

	user, err := s.users.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("subject_id", claims.ID).Msg("token subject no longer exists")
			return nil, fmt.Errorf("%w: user not found", ports.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return user.Public(), nil
}

// Refresh rotates an expired access token using its paired refresh token.
// A still-valid access token is a client error, not a rotation; an
// unusable refresh token tears the whole session down.
func (s *TokenService) Refresh(ctx context.Context, accessToken, refreshToken string) (*domain.TokenPair, error) {
	accessClaims, err := s.decode(accessToken)
	if err != nil {
		return nil, ports.ErrTokenNotAcceptable
	}
	now := s.now().UTC()
	if !accessClaims.Expired(now) {
		return nil, ports.ErrTokenNotAcceptable
	}

	refreshClaims, err := s.decode(refreshToken)
	if err != nil || refreshClaims.Kind != domain.TokenKindRefresh || refreshClaims.Expired(now) {
		return nil, ports.ErrSessionReset
	}
	if refreshClaims.ID != accessClaims.ID {
		s.log.Warn().
			Str("access_subject", accessClaims.ID).
			Str("refresh_subject", refreshClaims.ID).
			Msg("refresh attempted with mismatched token pair")
		return nil, ports.ErrSessionReset
	}

	// Each refresh token rotates a session at most once; replaying a
	// consumed token forces a full re-login.
	if s.guard != nil {
		remaining := refreshClaims.ExpiryTime().Sub(now)
		fresh, err := s.guard.Consume(ctx, refreshToken, remaining)
		if err != nil {
			s.log.Warn().Err(err).Msg("rotation guard unavailable, allowing refresh")
		} else if !fresh {
			s.log.Warn().Str("subject_id", refreshClaims.ID).Msg("refresh token replay detected")
			return nil, ports.ErrSessionReset
		}
	}

	user, err := s.users.FindByID(ctx, refreshClaims.ID)
	if err != nil {
		return nil, ports.ErrSessionReset
	}

	pair, err := s.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	s.log.Info().Str("subject_id", user.ID).Msg("credential pair rotated")
	return pair, nil
}

func (s *TokenService) sign(claims *domain.TokenClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// decode parses and signature-checks a token without judging expiry; the
// payload carries its own expiration field which callers check against the
// clock that suits their flow.
func (s *TokenService) decode(token string) (*domain.TokenClaims, error) {
	claims := &domain.TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ports.ErrTokenInvalid
	}
	return claims, nil
}
