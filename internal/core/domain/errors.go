package domain

import "errors"

// Sentinel errors for the identity and access-control core. The API layer
// maps these to HTTP status codes in one place (internal/api/error_handler.go).
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrHouseholdNotFound = errors.New("household not found")
	ErrAlreadyMember     = errors.New("user is already a member")
	ErrNotMember         = errors.New("user is not a member")
	ErrOwnerProtected    = errors.New("household owner cannot be removed")
	ErrOwnerRoleGrant    = errors.New("owner role cannot be granted directly")
	ErrForbidden         = errors.New("access forbidden")

	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInviteNotPending   = errors.New("invitation is no longer pending")

	// ErrCorruptState signals a broken membership invariant discovered at
	// read time (a member with no role entry). Never masked.
	ErrCorruptState = errors.New("membership state is corrupt")

	ErrNoHouseholdRole = errors.New("user has no role in household")
)
