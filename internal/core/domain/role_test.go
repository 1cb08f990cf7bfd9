package domain

import (
	"errors"
	"testing"
)

func userWithRole(householdID string, role Role) *User {
	return &User{
		ID:             "u1",
		HouseholdRoles: map[string]Role{householdID: role},
	}
}

func TestHasPermission_NoRoleReturnsFalse(t *testing.T) {
	u := userWithRole("h1", RoleAdmin)

	if HasPermission(u, "no-such-household", PermHouseholdView) {
		t.Fatalf("no role must mean false, not a grant")
	}
}

func TestUserPermissions_NoRoleIsAnError(t *testing.T) {
	u := userWithRole("h1", RoleAdmin)

	if _, err := UserPermissions(u, "no-such-household"); !errors.Is(err, ErrNoHouseholdRole) {
		t.Fatalf("expected ErrNoHouseholdRole, got %v", err)
	}

	// the boolean query and the enumeration deliberately disagree in shape
	if HasPermission(u, "no-such-household", PermHouseholdView) {
		t.Fatalf("boolean query must stay false")
	}
}

func TestRolePermissionSets(t *testing.T) {
	cases := []struct {
		role    Role
		granted []Permission
		denied  []Permission
	}{
		{RoleOwner, []Permission{PermHouseholdDelete, PermOwnerTransfer, PermMemberRemove}, nil},
		{RoleAdmin, []Permission{PermMemberInvite, PermMemberRemove, PermHouseholdUpdate}, []Permission{PermHouseholdDelete, PermOwnerTransfer}},
		{RoleMember, []Permission{PermAssetManage, PermDocumentManage}, []Permission{PermMemberInvite, PermHouseholdUpdate}},
		{RoleGuest, []Permission{PermHouseholdView, PermAssetView, PermDocumentView}, []Permission{PermAssetManage, PermDocumentManage, PermMemberInvite}},
	}

	for _, tc := range cases {
		u := userWithRole("h1", tc.role)
		for _, p := range tc.granted {
			if !HasPermission(u, "h1", p) {
				t.Errorf("%s should hold %s", tc.role, p)
			}
		}
		for _, p := range tc.denied {
			if HasPermission(u, "h1", p) {
				t.Errorf("%s should not hold %s", tc.role, p)
			}
		}
	}
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	u := userWithRole("h1", RoleMember)

	if !HasAnyPermission(u, "h1", PermMemberInvite, PermAssetView) {
		t.Fatalf("any: member holds asset:view")
	}
	if HasAnyPermission(u, "h1", PermMemberInvite, PermHouseholdDelete) {
		t.Fatalf("any: member holds neither")
	}
	if !HasAllPermissions(u, "h1", PermAssetView, PermDocumentView) {
		t.Fatalf("all: member holds both")
	}
	if HasAllPermissions(u, "h1", PermAssetView, PermMemberInvite) {
		t.Fatalf("all: member lacks member:invite")
	}
	// no role: both forms are false, never an error
	if HasAnyPermission(u, "h2", PermHouseholdView) || HasAllPermissions(u, "h2", PermHouseholdView) {
		t.Fatalf("no role must mean false")
	}
}

func TestUserPermissions_Enumerates(t *testing.T) {
	u := userWithRole("h1", RoleGuest)

	perms, err := UserPermissions(u, "h1")
	if err != nil {
		t.Fatalf("UserPermissions: %v", err)
	}
	if len(perms) != 3 {
		t.Fatalf("guest permissions = %d, want 3", len(perms))
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"owner", "admin", "member", "guest"} {
		if _, err := ParseRole(valid); err != nil {
			t.Errorf("ParseRole(%q): %v", valid, err)
		}
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}
