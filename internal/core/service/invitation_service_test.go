package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hearthkeep/household-system/internal/core/domain"
	"github.com/hearthkeep/household-system/internal/core/ports"
)

type invitationFixture struct {
	svc         *InvitationService
	invitations *stubInvitationRepo
	users       *stubUserRepo
	households  *stubHouseholdRepo
	membership  *MembershipService
}

func newInvitationFixture(t *testing.T) *invitationFixture {
	t.Helper()
	users := newStubUserRepo()
	households := newStubHouseholdRepo()
	invitations := newStubInvitationRepo()
	membership := NewMembershipService(users, households, zerolog.Nop())
	svc := NewInvitationService(invitations, membership, households, 7*24*time.Hour, zerolog.Nop())
	return &invitationFixture{svc: svc, invitations: invitations, users: users, households: households, membership: membership}
}

func (f *invitationFixture) household(t *testing.T) (*domain.User, *domain.Household) {
	t.Helper()
	owner := f.users.add("olive")
	h, err := f.membership.CreateHousehold(context.Background(), ports.CreateHouseholdInput{Name: "Elm St", OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("CreateHousehold: %v", err)
	}
	return owner, h
}

func TestInvitationService_Create(t *testing.T) {
	f := newInvitationFixture(t)
	owner, h := f.household(t)

	inv, err := f.svc.CreateInvitation(context.Background(), ports.CreateInvitationInput{
		Email:       "guest@example.com",
		Role:        domain.RoleAdmin,
		HouseholdID: h.ID,
		InvitedBy:   owner.ID,
	})
	if err != nil {
		t.Fatalf("CreateInvitation: %v", err)
	}
	if inv.Status != domain.InviteStatusPending {
		t.Fatalf("status = %q, want pending", inv.Status)
	}
	if len(inv.Code) != domain.CodeLength {
		t.Fatalf("code length = %d, want %d", len(inv.Code), domain.CodeLength)
	}
	for _, r := range inv.Code {
		if !strings.ContainsRune(domain.CodeAlphabet, r) {
			t.Fatalf("code %q contains %q outside the alphabet", inv.Code, r)
		}
	}
	if !inv.ExpiresAt.After(inv.CreatedAt) {
		t.Fatalf("expiry %v not after creation %v", inv.ExpiresAt, inv.CreatedAt)
	}
}

func TestInvitationService_Create_UnknownHousehold(t *testing.T) {
	f := newInvitationFixture(t)

	_, err := f.svc.CreateInvitation(context.Background(), ports.CreateInvitationInput{
		Email:       "guest@example.com",
		Role:        domain.RoleGuest,
		HouseholdID: "ghost",
	})
	if !errors.Is(err, domain.ErrHouseholdNotFound) {
		t.Fatalf("expected ErrHouseholdNotFound, got %v", err)
	}
}

func TestInvitationService_Create_RetriesOnCodeCollision(t *testing.T) {
	f := newInvitationFixture(t)
	owner, h := f.household(t)

	// two forced collisions, then success
	f.invitations.createErrs = []error{ports.ErrDuplicateCode, ports.ErrDuplicateCode, nil}

	inv, err := f.svc.CreateInvitation(context.Background(), ports.CreateInvitationInput{
		Email:       "guest@example.com",
		Role:        domain.RoleGuest,
		HouseholdID: h.ID,
		InvitedBy:   owner.ID,
	})
	if err != nil {
		t.Fatalf("CreateInvitation after collisions: %v", err)
	}
	if inv.Code == "" {
		t.Fatalf("expected a regenerated code")
	}
}

func TestInvitationService_CodeUniqueness(t *testing.T) {
	f := newInvitationFixture(t)
	owner, h := f.household(t)

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		inv, err := f.svc.CreateInvitation(context.Background(), ports.CreateInvitationInput{
			Email:       "guest@example.com",
			Role:        domain.RoleGuest,
			HouseholdID: h.ID,
			InvitedBy:   owner.ID,
		})
		if err != nil {
			t.Fatalf("CreateInvitation #%d: %v", i, err)
		}
		if _, dup := seen[inv.Code]; dup {
			t.Fatalf("duplicate code %q survived the uniqueness constraint", inv.Code)
		}
		seen[inv.Code] = struct{}{}
	}
}

func TestInvitationService_RedeemByCode_GrantsGuestRegardlessOfRequestedRole(t *testing.T) {
	f := newInvitationFixture(t)
	owner, h := f.household(t)
	redeemer := f.users.add("rita")

	inv, _ := f.svc.CreateInvitation(context.Background(), ports.CreateInvitationInput{
		Email:       "rita@example.com",
		Role:        domain.RoleAdmin,
		HouseholdID: h.ID,
		InvitedBy:   owner.ID,
	})

	result, err := f.svc.RedeemByCode(context.Background(), inv.Code, redeemer.ID)
	if err != nil {
		t.Fatalf("RedeemByCode: %v", err)
	}
	if result.Role != domain.RoleGuest {
		t.Fatalf("granted role = %q, want guest despite admin being requested", result.Role)
	}
	if result.HouseholdID != h.ID || result.HouseholdName != h.Name {
		t.Fatalf("unexpected result: %+v", result)
	}
	if role := f.users.users[redeemer.ID].HouseholdRoles[h.ID]; role != domain.RoleGuest {
		t.Fatalf("stored role = %q, want guest", role)
	}
	if got, _ := f.invitations.FindByID(context.Background(), inv.ID); got.Status != domain.InviteStatusRedeemed {
		t.Fatalf("invitation status = %q, want redeemed", got.Status)
	}
}

func TestInvitationService_RedeemByCode_UnknownOrSpentCode(t *testing.T) {
	f := newInvitationFixture(t)
	owner, h := f.household(t)
	redeemer := f.users.add("rita")

	if _, err := f.svc.RedeemByCode(context.Background(), "AAAAAA", redeemer.ID); !errors.Is(err, domain.ErrInvitationNotFound) {
		t.Fatalf("expected ErrInvitationNotFound for unknown code, got %v", err)
	}

	inv, _ := f.svc.CreateInvitation(context.Background(), ports.CreateInvitationInput{
		Email: "rita@example.com", Role: domain.RoleGuest, HouseholdID: h.ID, InvitedBy: owner.ID,
	})
	if _, err := f.invitations.Transition(context.Background(), inv.ID, domain.InviteStatusCancelled); err != nil {
		t.Fatalf("Transition: %v", err)
	}

	// cancelled invitations look exactly like missing ones to a redeemer
	if _, err := f.svc.RedeemByCode(context.Background(), inv.Code, redeemer.ID); !errors.Is(err, domain.ErrInvitationNotFound) {
		t.Fatalf("expected ErrInvitationNotFound for cancelled code, got %v", err)
	}
}

func TestInvitationService_RedeemByCode_Expired(t *testing.T) {
	f := newInvitationFixture(t)
	owner, h := f.household(t)
	redeemer := f.users.add("rita")

	inv, _ := f.svc.CreateInvitation(context.Background(), ports.CreateInvitationInput{
		Email: "rita@example.com", Role: domain.RoleGuest, HouseholdID: h.ID, InvitedBy: owner.ID,
	})

	// jump past the expiry instant
	f.svc.now = fixedClock(inv.ExpiresAt.Add(time.Second))

	if _, err := f.svc.RedeemByCode(context.Background(), inv.Code, redeemer.ID); !errors.Is(err, domain.ErrInvitationNotFound) {
		t.Fatalf("expected ErrInvitationNotFound for expired code, got %v", err)
	}
}

func TestInvitationService_RedeemByCode_OrphanedHousehold(t *testing.T) {
	f := newInvitationFixture(t)
	owner, h := f.household(t)
	redeemer := f.users.add("rita")

	inv, _ := f.svc.CreateInvitation(context.Background(), ports.CreateInvitationInput{
		Email: "rita@example.com", Role: domain.RoleGuest, HouseholdID: h.ID, InvitedBy: owner.ID,
	})

	delete(f.households.households, h.ID)

	if _, err := f.svc.RedeemByCode(context.Background(), inv.Code, redeemer.ID); !errors.Is(err, domain.ErrInviteNotPending) {
		t.Fatalf("expected conflict for orphaned invitation, got %v", err)
	}
}

func TestInvitationService_RedeemByCode_LosingRacerFailsCleanly(t *testing.T) {
	f := newInvitationFixture(t)
	owner, h := f.household(t)
	winner := f.users.add("wendy")
	loser := f.users.add("lou")

	inv, _ := f.svc.CreateInvitation(context.Background(), ports.CreateInvitationInput{
		Email: "race@example.com", Role: domain.RoleGuest, HouseholdID: h.ID, InvitedBy: owner.ID,
	})

	if _, err := f.svc.RedeemByCode(context.Background(), inv.Code, winner.ID); err != nil {
		t.Fatalf("winner redeem: %v", err)
	}
	if _, err := f.svc.RedeemByCode(context.Background(), inv.Code, loser.ID); err == nil {
		t.Fatalf("loser must fail after the code is spent")
	}
	if _, ok := f.users.users[loser.ID].HouseholdRoles[h.ID]; ok {
		t.Fatalf("loser gained a role despite failing")
	}
}

func TestInvitationService_RedeemByCode_ExistingMemberDoesNotBurnCode(t *testing.T) {
	f := newInvitationFixture(t)
	owner, h := f.household(t)
	member := f.users.add("mia")
	if err := f.membership.AddMember(context.Background(), h.ID, member.ID, domain.RoleMember); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	inv, _ := f.svc.CreateInvitation(context.Background(), ports.CreateInvitationInput{
		Email: "mia@example.com", Role: domain.RoleGuest, HouseholdID: h.ID, InvitedBy: owner.ID,
	})

	if _, err := f.svc.RedeemByCode(context.Background(), inv.Code, member.ID); !errors.Is(err, domain.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	// the code survives for the intended recipient
	if got, _ := f.invitations.FindByID(context.Background(), inv.ID); got.Status != domain.InviteStatusPending {
		t.Fatalf("status = %q, a rejected redeemer must not consume the code", got.Status)
	}
	newcomer := f.users.add("ned")
	if _, err := f.svc.RedeemByCode(context.Background(), inv.Code, newcomer.ID); err != nil {
		t.Fatalf("redeem after rejected attempt: %v", err)
	}
}

func TestInvitationService_TerminalStatesAreSticky(t *testing.T) {
	f := newInvitationFixture(t)
	owner, h := f.household(t)

	inv, _ := f.svc.CreateInvitation(context.Background(), ports.CreateInvitationInput{
		Email: "x@example.com", Role: domain.RoleGuest, HouseholdID: h.ID, InvitedBy: owner.ID,
	})

	// expire, then attempt cancel: status stays expired
	if _, err := f.invitations.Transition(context.Background(), inv.ID, domain.InviteStatusExpired); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	got, err := f.svc.CancelByID(context.Background(), inv.ID, owner)
	if err != nil {
		t.Fatalf("CancelByID on expired: %v", err)
	}
	if got.Status != domain.InviteStatusExpired {
		t.Fatalf("status = %q, want expired to stick", got.Status)
	}
}

func TestInvitationService_CancelByID(t *testing.T) {
	f := newInvitationFixture(t)
	owner, h := f.household(t)

	inv, _ := f.svc.CreateInvitation(context.Background(), ports.CreateInvitationInput{
		Email: "x@example.com", Role: domain.RoleGuest, HouseholdID: h.ID, InvitedBy: owner.ID,
	})

	got, err := f.svc.CancelByID(context.Background(), inv.ID, owner)
	if err != nil {
		t.Fatalf("CancelByID: %v", err)
	}
	if got.Status != domain.InviteStatusCancelled {
		t.Fatalf("status = %q, want cancelled", got.Status)
	}

	// second cancel is a no-op
	again, err := f.svc.CancelByID(context.Background(), inv.ID, owner)
	if err != nil {
		t.Fatalf("second CancelByID: %v", err)
	}
	if again.Status != domain.InviteStatusCancelled {
		t.Fatalf("status changed on repeat cancel: %q", again.Status)
	}
}

func TestInvitationService_CancelByID_RequiresInvitePermission(t *testing.T) {
	f := newInvitationFixture(t)
	owner, h := f.household(t)

	inv, _ := f.svc.CreateInvitation(context.Background(), ports.CreateInvitationInput{
		Email: "x@example.com", Role: domain.RoleGuest, HouseholdID: h.ID, InvitedBy: owner.ID,
	})

	outsider := f.users.add("oscar")
	if _, err := f.svc.CancelByID(context.Background(), inv.ID, outsider); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider, got %v", err)
	}

	guest := f.users.add("gina")
	if err := f.membership.AddMember(context.Background(), h.ID, guest.ID, domain.RoleGuest); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if _, err := f.svc.CancelByID(context.Background(), inv.ID, guest); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for guest, got %v", err)
	}

	if got, _ := f.invitations.FindByID(context.Background(), inv.ID); got.Status != domain.InviteStatusPending {
		t.Fatalf("status = %q, forbidden cancels must not transition", got.Status)
	}
}

func TestInvitationService_ListByHousehold(t *testing.T) {
	f := newInvitationFixture(t)
	owner, h := f.household(t)

	for i := 0; i < 3; i++ {
		if _, err := f.svc.CreateInvitation(context.Background(), ports.CreateInvitationInput{
			Email: "x@example.com", Role: domain.RoleGuest, HouseholdID: h.ID, InvitedBy: owner.ID,
		}); err != nil {
			t.Fatalf("CreateInvitation: %v", err)
		}
	}

	list, err := f.svc.ListByHousehold(context.Background(), h.ID)
	if err != nil {
		t.Fatalf("ListByHousehold: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("invitations = %d, want 3", len(list))
	}
}
