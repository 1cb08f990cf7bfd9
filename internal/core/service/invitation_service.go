package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/hearthkeep/household-system/internal/core/domain"
	"github.com/hearthkeep/household-system/internal/core/ports"
)

// codeRetries bounds how many times invitation creation retries on a code
// collision before giving up. The 32^6 space makes collisions rare but the
// store's uniqueness constraint makes them deterministic when they happen.
const codeRetries = 5

// InvitationService owns the invitation lifecycle: issuing time-boxed codes
// and driving the pending → terminal state machine through redemption.
type InvitationService struct {
	invitations ports.InvitationRepository
	membership  ports.MembershipService
	households  ports.HouseholdRepository
	ttl         time.Duration
	log         zerolog.Logger

	now func() time.Time
}

func NewInvitationService(
	invitations ports.InvitationRepository,
	membership ports.MembershipService,
	households ports.HouseholdRepository,
	ttl time.Duration,
	log zerolog.Logger,
) *InvitationService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &InvitationService{
		invitations: invitations,
		membership:  membership,
		households:  households,
		ttl:         ttl,
		log:         log,
		now:         time.Now,
	}
}

// CreateInvitation issues a pending invitation with a fresh code. The
// requested role is recorded on the invitation but redemption always grants
// guest; see RedeemByCode.
func (s *InvitationService) CreateInvitation(ctx context.Context, in ports.CreateInvitationInput) (*domain.Invitation, error) {
	if _, err := s.households.FindByID(ctx, in.HouseholdID); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	now := s.now().UTC()
	invitation := &domain.Invitation{
		Email:       in.Email,
		Name:        in.Name,
		Role:        in.Role,
		HouseholdID: in.HouseholdID,
		InvitedBy:   in.InvitedBy,
		Status:      domain.InviteStatusPending,
		ExpiresAt:   now.Add(s.ttl),
		CreatedAt:   now,
	}

	for attempt := 0; attempt < codeRetries; attempt++ {
		code, err := generateInviteCode()
		if err != nil {
			return nil, fmt.Errorf("create invitation: %w", err)
		}
		invitation.Code = code

		created, err := s.invitations.Create(ctx, invitation)
		if err != nil {
			if errors.Is(err, ports.ErrDuplicateCode) {
				s.log.Warn().Str("code", code).Int("attempt", attempt+1).Msg("invitation code collision, regenerating")
				continue
			}
			return nil, fmt.Errorf("create invitation: %w", err)
		}

		s.log.Info().
			Str("invitation_id", created.ID).
			Str("household_id", in.HouseholdID).
			Str("email", in.Email).
			Msg("invitation created")
		return created, nil
	}

	return nil, fmt.Errorf("create invitation: exhausted %d code generation attempts", codeRetries)
}

// RedeemByCode resolves a pending invitation and turns it into a membership.
// Flow:
//  1. Look up by code; a missing or no-longer-valid invitation is NotFound
//     (the caller learns nothing about why a code stopped working).
//  2. Resolve the household; an orphaned invitation is a Conflict.
//  3. Reject a redeemer who is already a member, before the code is
//     consumed.
//  4. Claim the invitation with an atomic pending→redeemed transition at
//     the store, so of two racing redeemers exactly one proceeds.
//  5. Add the redeemer as a member. The role granted is always guest,
//     regardless of the role recorded on the invitation.
func (s *InvitationService) RedeemByCode(ctx context.Context, code, redeemingUserID string) (*ports.RedeemResult, error) {
	invitation, err := s.invitations.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("redeem invitation: %w", err)
	}
	if !invitation.IsValid(s.now().UTC()) {
		return nil, fmt.Errorf("redeem invitation: %w", domain.ErrInvitationNotFound)
	}

	household, err := s.households.FindByID(ctx, invitation.HouseholdID)
	if err != nil {
		if errors.Is(err, domain.ErrHouseholdNotFound) {
			s.log.Warn().
				Str("invitation_id", invitation.ID).
				Str("household_id", invitation.HouseholdID).
				Msg("invitation references a deleted household")
			return nil, fmt.Errorf("redeem invitation: orphaned: %w", domain.ErrInviteNotPending)
		}
		return nil, fmt.Errorf("redeem invitation: %w", err)
	}

	// An existing member fails here, before the claim, so the code is not
	// burned on them and the intended recipient can still use it. AddMember
	// re-checks under the store's uniqueness constraint for the racy case.
	if household.HasMember(redeemingUserID) {
		return nil, fmt.Errorf("redeem invitation: %w", domain.ErrAlreadyMember)
	}

	if _, err := s.invitations.Transition(ctx, invitation.ID, domain.InviteStatusRedeemed); err != nil {
		return nil, fmt.Errorf("redeem invitation: %w", err)
	}

	grantedRole := domain.RoleGuest
	if err := s.membership.AddMember(ctx, household.ID, redeemingUserID, grantedRole); err != nil {
		// The invitation is already burned; membership must be granted out
		// of band. Logged as a partial failure, not rolled back.
		s.log.Error().Err(err).
			Str("invitation_id", invitation.ID).
			Str("household_id", household.ID).
			Str("user_id", redeemingUserID).
			Msg("invitation redeemed but membership grant failed")
		return nil, fmt.Errorf("redeem invitation: add member: %w", err)
	}

	s.log.Info().
		Str("invitation_id", invitation.ID).
		Str("household_id", household.ID).
		Str("user_id", redeemingUserID).
		Msg("invitation redeemed")

	return &ports.RedeemResult{
		HouseholdID:   household.ID,
		HouseholdName: household.Name,
		Role:          grantedRole,
	}, nil
}

// CancelByID cancels a pending invitation. The caller must hold the invite
// permission in the invitation's household; the route carries only the
// invitation ID, so the check cannot happen earlier. Cancelling an
// already-terminal invitation is a no-op that returns it unchanged.
func (s *InvitationService) CancelByID(ctx context.Context, id string, caller *domain.User) (*domain.Invitation, error) {
	invitation, err := s.invitations.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cancel invitation: %w", err)
	}
	if !domain.HasPermission(caller, invitation.HouseholdID, domain.PermMemberInvite) {
		return nil, fmt.Errorf("cancel invitation: %w", domain.ErrForbidden)
	}
	if invitation.Status != domain.InviteStatusPending {
		return invitation, nil
	}

	cancelled, err := s.invitations.Transition(ctx, id, domain.InviteStatusCancelled)
	if err != nil {
		// Raced against a redeemer or another cancel; re-read and return
		// the terminal record unchanged per the no-op contract.
		if errors.Is(err, domain.ErrInviteNotPending) {
			return s.invitations.FindByID(ctx, id)
		}
		return nil, fmt.Errorf("cancel invitation: %w", err)
	}

	s.log.Info().Str("invitation_id", id).Msg("invitation cancelled")
	return cancelled, nil
}

// ListByHousehold lists all invitations issued for a household.
func (s *InvitationService) ListByHousehold(ctx context.Context, householdID string) ([]*domain.Invitation, error) {
	invitations, err := s.invitations.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}

// generateInviteCode draws a 6-character code uniformly from the
// transcription-safe 32-symbol alphabet using a CSPRNG.
func generateInviteCode() (string, error) {
	max := big.NewInt(int64(len(domain.CodeAlphabet)))
	code := make([]byte, domain.CodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		code[i] = domain.CodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
