package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hearthkeep/household-system/internal/api/metrics"
	"github.com/hearthkeep/household-system/internal/api/middleware"
	"github.com/hearthkeep/household-system/internal/core/domain"
	"github.com/hearthkeep/household-system/internal/core/ports"
)

// InvitationHandler exposes invitation issuance, listing, cancellation, and
// redemption.
type InvitationHandler struct {
	invitations ports.InvitationService
}

func NewInvitationHandler(invitations ports.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

// Create issues an invitation for a household.
//
// @Summary      Create an invitation
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "Household ID"
// @Param        body  body      createInvitationRequest   true  "Invitation details"
// @Success      201   {object}  invitationResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /households/{id}/invitations [post]
func (h *InvitationHandler) Create(c echo.Context) error {
	var req createInvitationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	caller := middleware.CurrentUser(c)
	invitation, err := h.invitations.CreateInvitation(c.Request().Context(), ports.CreateInvitationInput{
		Email:       req.Email,
		Name:        req.Name,
		Role:        role,
		HouseholdID: c.Param("id"),
		InvitedBy:   caller.ID,
	})
	if err != nil {
		return err
	}

	metrics.InvitationsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toInvitationResponse(invitation))
}

// List returns all invitations for a household.
//
// @Summary      List household invitations
// @Tags         invitations
// @Produce      json
// @Param        id    path      string  true  "Household ID"
// @Success      200   {array}   invitationResponse
// @Failure      403   {object}  errorResponse
// @Router       /households/{id}/invitations [get]
func (h *InvitationHandler) List(c echo.Context) error {
	invitations, err := h.invitations.ListByHousehold(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	out := make([]invitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		out = append(out, toInvitationResponse(inv))
	}
	return c.JSON(http.StatusOK, out)
}

// Cancel cancels a pending invitation; cancelling a terminal invitation is
// a no-op that returns the unchanged record. The route carries only the
// invitation ID, so the invite-permission check happens in the service once
// the household is known.
//
// @Summary      Cancel an invitation
// @Tags         invitations
// @Produce      json
// @Param        id    path      string  true  "Invitation ID"
// @Success      200   {object}  invitationResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /invitations/{id} [delete]
func (h *InvitationHandler) Cancel(c echo.Context) error {
	user := middleware.CurrentUser(c)
	caller := &domain.User{ID: user.ID, HouseholdRoles: user.HouseholdRoles}

	invitation, err := h.invitations.CancelByID(c.Request().Context(), c.Param("id"), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInvitationResponse(invitation))
}

// Redeem joins the caller to the household behind an invitation code.
//
// @Summary      Redeem an invitation code
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        body  body      redeemRequest  true  "Invitation code"
// @Success      200   {object}  ports.RedeemResult
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /invitations/redeem [post]
func (h *InvitationHandler) Redeem(c echo.Context) error {
	var req redeemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	caller := middleware.CurrentUser(c)
	result, err := h.invitations.RedeemByCode(c.Request().Context(), req.Code, caller.ID)
	if err != nil {
		metrics.InvitationsRedeemedTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.InvitationsRedeemedTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, result)
}
