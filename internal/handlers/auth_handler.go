package handlers

import (
	"event-ticketing-backend/internal/middleware"
	"event-ticketing-backend/internal/services"
	"event-ticketing-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Register creates an attendee or organizer account
// @Summary Register
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Account data"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /auth/register [post]
func (h *Handler) Register(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	user, err := h.authSvc.Register(req)
	if err != nil {
		return err
	}

	return utils.Created(c, user, "User registered successfully")
}

// Login handles user authentication
// @Summary User login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Login credentials"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 429 {object} utils.Response
// @Router /auth/login [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	loginResp, err := h.authSvc.Login(req)
	if err != nil {
		return err
	}

	return utils.Success(c, loginResp, "Login successful")
}

// Refresh exchanges a refresh token for a new token pair
// @Summary Refresh tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.RefreshRequest true "Refresh token"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /auth/refresh [post]
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req services.RefreshRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	tokens, err := h.authSvc.Refresh(req)
	if err != nil {
		return err
	}

	return utils.Success(c, tokens, "Token refreshed successfully")
}

// Logout revokes the caller's refresh token
// @Summary Logout
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} utils.Response
// @Router /auth/logout [post]
func (h *Handler) Logout(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	if err := h.authSvc.Logout(userID); err != nil {
		return err
	}

	return utils.Success(c, nil, "Logged out successfully")
}
