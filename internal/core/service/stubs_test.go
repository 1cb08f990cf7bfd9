package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hearthkeep/household-system/internal/core/domain"
	"github.com/hearthkeep/household-system/internal/core/ports"
)

// In-memory stubs shared by the service tests. Error injection fields let
// individual tests force partial-failure paths.

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int

	failSetRole    error
	failRemoveRole error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) add(name string) *domain.User {
	r.nextID++
	id := fmt.Sprintf("user_%d", r.nextID)
	u := &domain.User{
		ID:             id,
		Email:          name + "@example.com",
		Name:           name,
		HouseholdRoles: map[string]domain.Role{},
	}
	r.users[id] = u
	return u
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.HouseholdRoles = make(map[string]domain.Role, len(u.HouseholdRoles))
	for k, v := range u.HouseholdRoles {
		clone.HouseholdRoles[k] = v
	}
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[clone.ID] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) SetHouseholdRole(_ context.Context, userID, householdID string, role domain.Role) error {
	if r.failSetRole != nil {
		return r.failSetRole
	}
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.HouseholdRoles[householdID] = role
	return nil
}

func (r *stubUserRepo) RemoveHouseholdRole(_ context.Context, userID, householdID string) error {
	if r.failRemoveRole != nil {
		return r.failRemoveRole
	}
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(u.HouseholdRoles, householdID)
	return nil
}

type stubHouseholdRepo struct {
	households map[string]*domain.Household
	nextID     int
}

func newStubHouseholdRepo() *stubHouseholdRepo {
	return &stubHouseholdRepo{households: make(map[string]*domain.Household)}
}

func cloneHousehold(h *domain.Household) *domain.Household {
	clone := *h
	clone.Members = append([]string(nil), h.Members...)
	return &clone
}

func (r *stubHouseholdRepo) Create(_ context.Context, h *domain.Household) (*domain.Household, error) {
	r.nextID++
	clone := cloneHousehold(h)
	clone.ID = fmt.Sprintf("hh_%d", r.nextID)
	r.households[clone.ID] = clone
	return cloneHousehold(clone), nil
}

func (r *stubHouseholdRepo) FindByID(_ context.Context, id string) (*domain.Household, error) {
	h, ok := r.households[id]
	if !ok {
		return nil, domain.ErrHouseholdNotFound
	}
	return cloneHousehold(h), nil
}

func (r *stubHouseholdRepo) AddMember(_ context.Context, householdID, userID string) error {
	h, ok := r.households[householdID]
	if !ok {
		return domain.ErrHouseholdNotFound
	}
	if h.HasMember(userID) {
		return domain.ErrAlreadyMember
	}
	h.Members = append(h.Members, userID)
	return nil
}

func (r *stubHouseholdRepo) RemoveMember(_ context.Context, householdID, userID string) error {
	h, ok := r.households[householdID]
	if !ok {
		return domain.ErrHouseholdNotFound
	}
	members := h.Members[:0]
	for _, m := range h.Members {
		if m != userID {
			members = append(members, m)
		}
	}
	h.Members = members
	return nil
}

func (r *stubHouseholdRepo) SetOwner(_ context.Context, householdID, ownerID string) error {
	h, ok := r.households[householdID]
	if !ok {
		return domain.ErrHouseholdNotFound
	}
	h.OwnerID = ownerID
	return nil
}

type stubInvitationRepo struct {
	invitations map[string]*domain.Invitation
	nextID      int
	createErrs  []error // consumed in order by Create, nil means success
}

func newStubInvitationRepo() *stubInvitationRepo {
	return &stubInvitationRepo{invitations: make(map[string]*domain.Invitation)}
}

func cloneInvitation(i *domain.Invitation) *domain.Invitation {
	clone := *i
	return &clone
}

func (r *stubInvitationRepo) Create(_ context.Context, inv *domain.Invitation) (*domain.Invitation, error) {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	for _, existing := range r.invitations {
		if existing.Code == inv.Code {
			return nil, ports.ErrDuplicateCode
		}
	}
	r.nextID++
	clone := cloneInvitation(inv)
	clone.ID = fmt.Sprintf("inv_%d", r.nextID)
	r.invitations[clone.ID] = clone
	return cloneInvitation(clone), nil
}

func (r *stubInvitationRepo) FindByID(_ context.Context, id string) (*domain.Invitation, error) {
	inv, ok := r.invitations[id]
	if !ok {
		return nil, domain.ErrInvitationNotFound
	}
	return cloneInvitation(inv), nil
}

func (r *stubInvitationRepo) FindByCode(_ context.Context, code string) (*domain.Invitation, error) {
	for _, inv := range r.invitations {
		if inv.Code == code {
			return cloneInvitation(inv), nil
		}
	}
	return nil, domain.ErrInvitationNotFound
}

func (r *stubInvitationRepo) ListByHousehold(_ context.Context, householdID string) ([]*domain.Invitation, error) {
	var out []*domain.Invitation
	for _, inv := range r.invitations {
		if inv.HouseholdID == householdID {
			out = append(out, cloneInvitation(inv))
		}
	}
	return out, nil
}

func (r *stubInvitationRepo) Transition(_ context.Context, id string, next domain.InvitationStatus) (*domain.Invitation, error) {
	inv, ok := r.invitations[id]
	if !ok {
		return nil, domain.ErrInvitationNotFound
	}
	if inv.Status != domain.InviteStatusPending {
		return nil, domain.ErrInviteNotPending
	}
	inv.Status = next
	return cloneInvitation(inv), nil
}

// fixedClock returns a now func pinned to t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
