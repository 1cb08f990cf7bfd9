package domain

import "time"

// InvitationStatus is the lifecycle state of an invitation.
type InvitationStatus string

const (
	InviteStatusPending   InvitationStatus = "pending"
	InviteStatusRedeemed  InvitationStatus = "redeemed"
	InviteStatusCancelled InvitationStatus = "cancelled"
	InviteStatusExpired   InvitationStatus = "expired"
)

// CodeAlphabet is the 32-symbol alphabet invitation codes are drawn from.
// 0, 1, O and I are excluded to avoid transcription ambiguity.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the fixed length of an invitation code.
const CodeLength = 6

// Invitation is a time-boxed, single-use membership grant. Everything but
// Status is immutable after creation; Status moves from pending to exactly
// one of redeemed, cancelled or expired and never leaves a terminal state.
type Invitation struct {
	ID          string           `json:"id"`
	Code        string           `json:"code"`
	Email       string           `json:"email"`
	Name        string           `json:"name,omitempty"`
	Role        Role             `json:"role"`
	HouseholdID string           `json:"household_id"`
	InvitedBy   string           `json:"invited_by"`
	Status      InvitationStatus `json:"status"`
	ExpiresAt   time.Time        `json:"expires_at"`
	CreatedAt   time.Time        `json:"created_at"`
}

// IsValid is the canonical redeemability check: pending and not past the
// expiry instant. The boundary instant itself counts as valid; every caller
// uses this one check so the boundary cannot disagree across code paths.
func (i *Invitation) IsValid(now time.Time) bool {
	return i.Status == InviteStatusPending && !now.After(i.ExpiresAt)
}

// Redeem transitions pending → redeemed. On a non-pending invitation it is
// a no-op: the invitation is returned unchanged.
func (i *Invitation) Redeem() *Invitation {
	return i.transition(InviteStatusRedeemed)
}

// Cancel transitions pending → cancelled, no-op when already terminal.
func (i *Invitation) Cancel() *Invitation {
	return i.transition(InviteStatusCancelled)
}

// Expire transitions pending → expired, no-op when already terminal.
func (i *Invitation) Expire() *Invitation {
	return i.transition(InviteStatusExpired)
}

func (i *Invitation) transition(next InvitationStatus) *Invitation {
	if i.Status != InviteStatusPending {
		return i
	}
	i.Status = next
	return i
}
