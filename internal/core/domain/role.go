package domain

import "fmt"

// Role is the closed set of member roles within a household, ordered by
// privilege: owner > admin > member > guest. Each role maps to an explicit
// permission set (see rolePermissions); the sets are nested in practice but
// the mapping is authoritative, not the ordering.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleGuest  Role = "guest"
)

// ParseRole validates a role string against the closed enum.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleMember, RoleGuest:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Permission names a single authorizable action within a household.
type Permission string

const (
	PermHouseholdView   Permission = "household:view"
	PermHouseholdUpdate Permission = "household:update"
	PermHouseholdDelete Permission = "household:delete"

	PermMemberInvite     Permission = "member:invite"
	PermMemberRemove     Permission = "member:remove"
	PermMemberRoleChange Permission = "member:role_change"
	PermOwnerTransfer    Permission = "owner:transfer"

	PermAssetView   Permission = "asset:view"
	PermAssetManage Permission = "asset:manage"

	PermDocumentView   Permission = "document:view"
	PermDocumentManage Permission = "document:manage"
)

// rolePermissions is the static role → permission-set table. Built once at
// package init and treated as immutable for the process lifetime.
var rolePermissions = map[Role]map[Permission]struct{}{
	RoleOwner: permSet(
		PermHouseholdView, PermHouseholdUpdate, PermHouseholdDelete,
		PermMemberInvite, PermMemberRemove, PermMemberRoleChange, PermOwnerTransfer,
		PermAssetView, PermAssetManage,
		PermDocumentView, PermDocumentManage,
	),
	RoleAdmin: permSet(
		PermHouseholdView, PermHouseholdUpdate,
		PermMemberInvite, PermMemberRemove, PermMemberRoleChange,
		PermAssetView, PermAssetManage,
		PermDocumentView, PermDocumentManage,
	),
	RoleMember: permSet(
		PermHouseholdView,
		PermAssetView, PermAssetManage,
		PermDocumentView, PermDocumentManage,
	),
	RoleGuest: permSet(
		PermHouseholdView,
		PermAssetView,
		PermDocumentView,
	),
}

func permSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// HasPermission reports whether the user's role in the household grants the
// permission. A user with no role in the household gets false, not an error.
func HasPermission(user *User, householdID string, perm Permission) bool {
	role, ok := user.RoleIn(householdID)
	if !ok {
		return false
	}
	_, granted := rolePermissions[role][perm]
	return granted
}

// HasAnyPermission reports whether at least one of the permissions is granted.
func HasAnyPermission(user *User, householdID string, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(user, householdID, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every one of the permissions is granted.
func HasAllPermissions(user *User, householdID string, perms ...Permission) bool {
	for _, p := range perms {
		if !HasPermission(user, householdID, p) {
			return false
		}
	}
	return true
}

// UserPermissions enumerates the permissions the user holds in the
// household. Unlike the boolean queries, a missing role is an error here:
// enumeration callers need "no role" and "role with empty grant"
// distinguished.
func UserPermissions(user *User, householdID string) ([]Permission, error) {
	role, ok := user.RoleIn(householdID)
	if !ok {
		return nil, ErrNoHouseholdRole
	}
	set := rolePermissions[role]
	perms := make([]Permission, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	return perms, nil
}
