package ports

import (
	"context"

	"github.com/hearthkeep/household-system/internal/core/domain"
)

// UserRepository defines persistence for user identities and their
// per-household role assignments.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// SetHouseholdRole writes or overwrites the user's role entry for a
	// household. Only the membership service may call it.
	SetHouseholdRole(ctx context.Context, userID, householdID string, role domain.Role) error
	// RemoveHouseholdRole deletes the user's role entry for a household.
	RemoveHouseholdRole(ctx context.Context, userID, householdID string) error
}
