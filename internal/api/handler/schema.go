package handler

import (
	"time"

	"github.com/hearthkeep/household-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"     validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User *domain.PublicUser `json:"user"`
}

type csrfResponse struct {
	Token string `json:"token"`
}

// --- Households ---

type createHouseholdRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type householdResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
}

type membersResponse struct {
	Members []domain.Member `json:"members"`
}

type transferOwnershipRequest struct {
	NewOwnerID string `json:"new_owner_id" validate:"required"`
}

// --- Invitations ---

type createInvitationRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
	Role  string `json:"role"  validate:"required,oneof=admin member guest"`
}

type invitationResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Email       string    `json:"email"`
	Name        string    `json:"name,omitempty"`
	Role        string    `json:"role"`
	HouseholdID string    `json:"household_id"`
	InvitedBy   string    `json:"invited_by"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type redeemRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

func toInvitationResponse(inv *domain.Invitation) invitationResponse {
	return invitationResponse{
		ID:          inv.ID,
		Code:        inv.Code,
		Email:       inv.Email,
		Name:        inv.Name,
		Role:        string(inv.Role),
		HouseholdID: inv.HouseholdID,
		InvitedBy:   inv.InvitedBy,
		Status:      string(inv.Status),
		ExpiresAt:   inv.ExpiresAt,
		CreatedAt:   inv.CreatedAt,
	}
}

func toHouseholdResponse(h *domain.Household) householdResponse {
	return householdResponse{
		ID:          h.ID,
		Name:        h.Name,
		Description: h.Description,
		OwnerID:     h.OwnerID,
		Members:     h.Members,
		CreatedAt:   h.CreatedAt,
	}
}
