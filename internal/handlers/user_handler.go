package handlers

import (
	"event-ticketing-backend/internal/middleware"
	"event-ticketing-backend/internal/services"
	"event-ticketing-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// GetProfile returns the authenticated user
// @Summary Get profile
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} utils.Response
// @Router /users/profile [get]
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	user, err := h.userSvc.GetProfile(userID)
	if err != nil {
		return err
	}

	return utils.Success(c, user, "")
}

// UpdateProfile changes the authenticated user's name
// @Summary Update profile
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body services.UpdateProfileRequest true "Profile data"
// @Success 200 {object} utils.Response
// @Router /users/profile [patch]
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req services.UpdateProfileRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	user, err := h.userSvc.UpdateProfile(userID, req)
	if err != nil {
		return err
	}

	return utils.Success(c, user, "Profile updated successfully")
}

// UpgradeToOrganizer attaches an organizer profile to an attendee.
// Existing access tokens keep the old role until refreshed.
// @Summary Become an organizer
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body services.OrganizerProfileInput true "Organizer profile"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /users/organizer [post]
func (h *Handler) UpgradeToOrganizer(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req services.OrganizerProfileInput
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	user, err := h.userSvc.UpgradeToOrganizer(userID, req)
	if err != nil {
		return err
	}

	return utils.Success(c, user, "Organizer profile created successfully")
}
