package ports

import (
	"context"

	"github.com/hearthkeep/household-system/internal/core/domain"
)

// HouseholdRepository defines persistence for households and their
// membership sets.
type HouseholdRepository interface {
	Create(ctx context.Context, household *domain.Household) (*domain.Household, error)
	FindByID(ctx context.Context, id string) (*domain.Household, error)
	// AddMember appends userID to the membership set. The store enforces
	// uniqueness: a concurrent duplicate insert fails with ErrAlreadyMember
	// rather than silently duplicating.
	AddMember(ctx context.Context, householdID, userID string) error
	RemoveMember(ctx context.Context, householdID, userID string) error
	SetOwner(ctx context.Context, householdID, ownerID string) error
}
