package ports

import (
	"context"
	"errors"

	"github.com/hearthkeep/household-system/internal/core/domain"
)

// ErrDuplicateCode is reported by Create on an invitation code collision.
// It lives here rather than in domain because it is a store-level concern
// the invitation service retries on, never a caller-visible outcome.
var ErrDuplicateCode = errors.New("invitation code already exists")

// InvitationRepository defines persistence for invitation codes. The store
// enforces global code uniqueness (Create fails with a duplicate-code error
// on collision) and implements the pending→terminal transition as an atomic
// compare-and-swap so racing redeemers cannot both succeed.
type InvitationRepository interface {
	Create(ctx context.Context, invitation *domain.Invitation) (*domain.Invitation, error)
	FindByID(ctx context.Context, id string) (*domain.Invitation, error)
	FindByCode(ctx context.Context, code string) (*domain.Invitation, error)
	ListByHousehold(ctx context.Context, householdID string) ([]*domain.Invitation, error)
	// Transition moves the invitation from pending to the given terminal
	// status. It fails with ErrInviteNotPending when the invitation is no
	// longer pending, and the check-and-set is atomic at the store.
	Transition(ctx context.Context, id string, next domain.InvitationStatus) (*domain.Invitation, error)
}
