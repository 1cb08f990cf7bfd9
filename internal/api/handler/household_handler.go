package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hearthkeep/household-system/internal/api/metrics"
	"github.com/hearthkeep/household-system/internal/api/middleware"
	"github.com/hearthkeep/household-system/internal/core/ports"
)

// HouseholdHandler exposes household creation and membership management.
// Authorization happens in middleware; handlers only translate between HTTP
// and the membership service.
type HouseholdHandler struct {
	membership ports.MembershipService
}

func NewHouseholdHandler(membership ports.MembershipService) *HouseholdHandler {
	return &HouseholdHandler{membership: membership}
}

// Create creates a household owned by the caller.
//
// @Summary      Create a household
// @Tags         households
// @Accept       json
// @Produce      json
// @Param        body  body      createHouseholdRequest  true  "Household details"
// @Success      201   {object}  householdResponse
// @Failure      400   {object}  errorResponse
// @Router       /households [post]
func (h *HouseholdHandler) Create(c echo.Context) error {
	var req createHouseholdRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	caller := middleware.CurrentUser(c)
	household, err := h.membership.CreateHousehold(c.Request().Context(), ports.CreateHouseholdInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     caller.ID,
	})
	if err != nil {
		return err
	}

	metrics.HouseholdsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toHouseholdResponse(household))
}

// Get returns a household the caller can view.
//
// @Summary      Get a household
// @Tags         households
// @Produce      json
// @Param        id    path      string  true  "Household ID"
// @Success      200   {object}  householdResponse
// @Failure      404   {object}  errorResponse
// @Router       /households/{id} [get]
func (h *HouseholdHandler) Get(c echo.Context) error {
	household, err := h.membership.GetHousehold(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHouseholdResponse(household))
}

// ListMembers returns the joined member view of a household.
//
// @Summary      List household members
// @Tags         households
// @Produce      json
// @Param        id    path      string  true  "Household ID"
// @Success      200   {object}  membersResponse
// @Failure      404   {object}  errorResponse
// @Router       /households/{id}/members [get]
func (h *HouseholdHandler) ListMembers(c echo.Context) error {
	members, err := h.membership.GetMembers(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, membersResponse{Members: members})
}

// RemoveMember removes a member from the household. Removing the owner is
// always rejected.
//
// @Summary      Remove a household member
// @Tags         households
// @Param        id      path  string  true  "Household ID"
// @Param        userId  path  string  true  "User ID"
// @Success      204
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /households/{id}/members/{userId} [delete]
func (h *HouseholdHandler) RemoveMember(c echo.Context) error {
	if err := h.membership.RemoveMember(c.Request().Context(), c.Param("id"), c.Param("userId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// TransferOwnership moves the owner role to another member.
//
// @Summary      Transfer household ownership
// @Tags         households
// @Accept       json
// @Param        id    path  string                    true  "Household ID"
// @Param        body  body  transferOwnershipRequest  true  "New owner"
// @Success      204
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /households/{id}/transfer [post]
func (h *HouseholdHandler) TransferOwnership(c echo.Context) error {
	var req transferOwnershipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.membership.TransferOwnership(c.Request().Context(), c.Param("id"), req.NewOwnerID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
