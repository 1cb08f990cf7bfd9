package domain

import "time"

// User models an account holder. HouseholdRoles maps household ID to the
// role the user holds there; it is mutated only by the membership service
// so that it never diverges from Household.Members.
type User struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	PasswordHash   string          `json:"-"`
	Name           string          `json:"name"`
	HouseholdRoles map[string]Role `json:"household_roles"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// RoleIn returns the user's role in the given household, if any.
func (u *User) RoleIn(householdID string) (Role, bool) {
	role, ok := u.HouseholdRoles[householdID]
	return role, ok
}

// PublicUser is the password-stripped representation attached to request
// contexts and returned by the API.
type PublicUser struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	HouseholdRoles map[string]Role `json:"household_roles"`
}

// Public strips credentials from the user.
func (u *User) Public() *PublicUser {
	roles := make(map[string]Role, len(u.HouseholdRoles))
	for id, role := range u.HouseholdRoles {
		roles[id] = role
	}
	return &PublicUser{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		HouseholdRoles: roles,
	}
}
