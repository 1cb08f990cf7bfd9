package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hearthkeep/household-system/internal/core/domain"
	"github.com/hearthkeep/household-system/internal/core/ports"
)

// MembershipService coordinates the two stores that together hold the
// membership fact: Household.Members and User.HouseholdRoles. It is the
// only writer of either, which makes it the single place where the
// paired-write gap (no cross-store transaction) lives and can be audited.
type MembershipService struct {
	users      ports.UserRepository
	households ports.HouseholdRepository
	log        zerolog.Logger
}

func NewMembershipService(users ports.UserRepository, households ports.HouseholdRepository, log zerolog.Logger) *MembershipService {
	return &MembershipService{users: users, households: households, log: log}
}

// CreateHousehold creates a household with the owner as its sole member and
// assigns the owner role. The two writes are not atomic: if the role
// assignment fails after the household is created, the error is logged and
// returned and the household must be treated as provisionally invalid.
func (s *MembershipService) CreateHousehold(ctx context.Context, in ports.CreateHouseholdInput) (*domain.Household, error) {
	if _, err := s.users.FindByID(ctx, in.OwnerID); err != nil {
		return nil, fmt.Errorf("create household: resolve owner: %w", err)
	}

	now := time.Now().UTC()
	household := &domain.Household{
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     in.OwnerID,
		Members:     []string{in.OwnerID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.households.Create(ctx, household)
	if err != nil {
		return nil, fmt.Errorf("create household: %w", err)
	}

	if err := s.users.SetHouseholdRole(ctx, in.OwnerID, created.ID, domain.RoleOwner); err != nil {
		s.log.Error().Err(err).
			Str("household_id", created.ID).
			Str("owner_id", in.OwnerID).
			Msg("household created but owner role assignment failed; household is provisionally invalid")
		return nil, fmt.Errorf("create household: assign owner role: %w", err)
	}

	s.log.Info().Str("household_id", created.ID).Str("owner_id", in.OwnerID).Msg("household created")
	return created, nil
}

// AddMember adds a user to the household and sets their role symmetrically.
// Ownership is never granted through this path.
func (s *MembershipService) AddMember(ctx context.Context, householdID, userID string, role domain.Role) error {
	if role == domain.RoleOwner {
		return fmt.Errorf("add member: %w", domain.ErrOwnerRoleGrant)
	}

	household, err := s.households.FindByID(ctx, householdID)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	if household.HasMember(userID) {
		return fmt.Errorf("add member: %w", domain.ErrAlreadyMember)
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return fmt.Errorf("add member: resolve user: %w", err)
	}

	if err := s.households.AddMember(ctx, householdID, userID); err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	if err := s.users.SetHouseholdRole(ctx, userID, householdID, role); err != nil {
		s.log.Error().Err(err).
			Str("household_id", householdID).
			Str("user_id", userID).
			Msg("member added but role assignment failed; membership state diverged")
		return fmt.Errorf("add member: assign role: %w", err)
	}

	s.log.Info().
		Str("household_id", householdID).
		Str("user_id", userID).
		Str("role", string(role)).
		Msg("member added")
	return nil
}

// RemoveMember removes a user from the household and deletes the paired role
// entry. The owner can never be removed; ownership moves only through
// TransferOwnership.
func (s *MembershipService) RemoveMember(ctx context.Context, householdID, userID string) error {
	household, err := s.households.FindByID(ctx, householdID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if userID == household.OwnerID {
		return fmt.Errorf("remove member: %w", domain.ErrOwnerProtected)
	}
	if !household.HasMember(userID) {
		return fmt.Errorf("remove member: %w", domain.ErrNotMember)
	}
	// A missing user record here means a prior write already diverged. The
	// membership array is left untouched rather than partially repaired.
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return fmt.Errorf("remove member: resolve user: %w", err)
	}

	if err := s.households.RemoveMember(ctx, householdID, userID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if err := s.users.RemoveHouseholdRole(ctx, userID, householdID); err != nil {
		s.log.Error().Err(err).
			Str("household_id", householdID).
			Str("user_id", userID).
			Msg("member removed but role entry deletion failed; membership state diverged")
		return fmt.Errorf("remove member: delete role: %w", err)
	}

	s.log.Info().Str("household_id", householdID).Str("user_id", userID).Msg("member removed")
	return nil
}

// GetMembers joins the membership set against the user store. A member with
// no role entry for this household violates the membership invariant and
// surfaces as ErrCorruptState, never as a silently skipped row.
func (s *MembershipService) GetMembers(ctx context.Context, householdID string) ([]domain.Member, error) {
	household, err := s.households.FindByID(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("get members: %w", err)
	}

	members := make([]domain.Member, 0, len(household.Members))
	for _, userID := range household.Members {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get members: resolve %s: %w", userID, err)
		}
		role, ok := user.RoleIn(householdID)
		if !ok {
			s.log.Error().
				Str("household_id", householdID).
				Str("user_id", userID).
				Msg("member has no role entry for household")
			return nil, fmt.Errorf("get members: member %s: %w", userID, domain.ErrCorruptState)
		}
		members = append(members, domain.Member{ID: user.ID, Name: user.Name, Role: role})
	}
	return members, nil
}

// HasMember is a pure membership check with no side effects.
func (s *MembershipService) HasMember(ctx context.Context, householdID, userID string) (bool, error) {
	household, err := s.households.FindByID(ctx, householdID)
	if err != nil {
		return false, fmt.Errorf("has member: %w", err)
	}
	return household.HasMember(userID), nil
}

// TransferOwnership moves the owner role to another existing member. The
// previous owner stays in the household as an admin. This is the only path
// that ever changes household.OwnerID or grants the owner role.
func (s *MembershipService) TransferOwnership(ctx context.Context, householdID, newOwnerID string) error {
	household, err := s.households.FindByID(ctx, householdID)
	if err != nil {
		return fmt.Errorf("transfer ownership: %w", err)
	}
	if newOwnerID == household.OwnerID {
		return fmt.Errorf("transfer ownership: %w", domain.ErrAlreadyMember)
	}
	if !household.HasMember(newOwnerID) {
		return fmt.Errorf("transfer ownership: %w", domain.ErrNotMember)
	}

	previousOwner := household.OwnerID
	if err := s.households.SetOwner(ctx, householdID, newOwnerID); err != nil {
		return fmt.Errorf("transfer ownership: %w", err)
	}
	if err := s.users.SetHouseholdRole(ctx, newOwnerID, householdID, domain.RoleOwner); err != nil {
		s.log.Error().Err(err).
			Str("household_id", householdID).
			Str("new_owner_id", newOwnerID).
			Msg("owner changed but role promotion failed; membership state diverged")
		return fmt.Errorf("transfer ownership: promote new owner: %w", err)
	}
	if err := s.users.SetHouseholdRole(ctx, previousOwner, householdID, domain.RoleAdmin); err != nil {
		s.log.Error().Err(err).
			Str("household_id", householdID).
			Str("previous_owner_id", previousOwner).
			Msg("new owner promoted but previous owner demotion failed; two owner roles present")
		return fmt.Errorf("transfer ownership: demote previous owner: %w", err)
	}

	s.log.Info().
		Str("household_id", householdID).
		Str("previous_owner_id", previousOwner).
		Str("new_owner_id", newOwnerID).
		Msg("ownership transferred")
	return nil
}

// GetHousehold resolves a household by ID.
func (s *MembershipService) GetHousehold(ctx context.Context, householdID string) (*domain.Household, error) {
	household, err := s.households.FindByID(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	return household, nil
}
