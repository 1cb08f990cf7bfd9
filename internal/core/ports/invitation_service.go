package ports

import (
	"context"

	"github.com/hearthkeep/household-system/internal/core/domain"
)

// CreateInvitationInput carries the data needed to issue an invitation.
type CreateInvitationInput struct {
	Email       string
	Name        string
	Role        domain.Role
	HouseholdID string
	InvitedBy   string
}

// RedeemResult is returned to a redeemer: which household they joined and
// with what role.
type RedeemResult struct {
	HouseholdID   string      `json:"household_id"`
	HouseholdName string      `json:"household_name"`
	Role          domain.Role `json:"role"`
}

// InvitationService manages the invitation lifecycle: issuance, the
// pending → terminal state machine, and redemption into a membership.
type InvitationService interface {
	CreateInvitation(ctx context.Context, in CreateInvitationInput) (*domain.Invitation, error)
	RedeemByCode(ctx context.Context, code, redeemingUserID string) (*RedeemResult, error)
	// CancelByID cancels an invitation on behalf of caller, who must hold
	// the invite permission in the invitation's household.
	CancelByID(ctx context.Context, id string, caller *domain.User) (*domain.Invitation, error)
	ListByHousehold(ctx context.Context, householdID string) ([]*domain.Invitation, error)
}
