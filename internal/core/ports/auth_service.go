package ports

import (
	"context"

	"github.com/hearthkeep/household-system/internal/core/domain"
)

// AuthService implements account registration and login. Both return the
// authenticated user alongside a freshly issued credential pair.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, *domain.TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error)
}
