package ports

import (
	"context"

	"github.com/hearthkeep/household-system/internal/core/domain"
)

// CreateHouseholdInput carries the data needed to create a household.
type CreateHouseholdInput struct {
	Name        string
	Description string
	OwnerID     string
}

// MembershipService is the single writer of Household.Members and
// User.HouseholdRoles. All membership mutations flow through it so the
// two views of the membership fact cannot diverge silently.
type MembershipService interface {
	CreateHousehold(ctx context.Context, in CreateHouseholdInput) (*domain.Household, error)
	AddMember(ctx context.Context, householdID, userID string, role domain.Role) error
	RemoveMember(ctx context.Context, householdID, userID string) error
	GetMembers(ctx context.Context, householdID string) ([]domain.Member, error)
	HasMember(ctx context.Context, householdID, userID string) (bool, error)
	TransferOwnership(ctx context.Context, householdID, newOwnerID string) error
	GetHousehold(ctx context.Context, householdID string) (*domain.Household, error)
}
