package handlers

import (
	"event-ticketing-backend/internal/middleware"
	"event-ticketing-backend/internal/services"
	"event-ticketing-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {object} utils.Response
// @Router /categories [get]
func (h *Handler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categorySvc.FindAll()
	if err != nil {
		return err
	}
	return utils.Success(c, categories, "")
}

// @Summary Get category
// @Tags Categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /categories/{id} [get]
func (h *Handler) GetCategory(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id", "category")
	if err != nil {
		return err
	}

	category, err := h.categorySvc.FindOne(id)
	if err != nil {
		return err
	}
	return utils.Success(c, category, "")
}

// @Summary Create category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body services.CategoryRequest true "Category"
// @Success 201 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /categories [post]
func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req services.CategoryRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	category, err := h.categorySvc.Create(req, actor)
	if err != nil {
		return err
	}
	return utils.Created(c, category, "Category created successfully")
}

// @Summary Rename category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body services.CategoryRequest true "Category"
// @Success 200 {object} utils.Response
// @Router /categories/{id} [put]
func (h *Handler) UpdateCategory(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id", "category")
	if err != nil {
		return err
	}

	var req services.CategoryRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	category, err := h.categorySvc.Update(id, req, actor)
	if err != nil {
		return err
	}
	return utils.Success(c, category, "Category updated successfully")
}

// @Summary Delete category
// @Tags Categories
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} utils.Response
// @Router /categories/{id} [delete]
func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id", "category")
	if err != nil {
		return err
	}

	if err := h.categorySvc.Remove(id, actor); err != nil {
		return err
	}
	return utils.Success(c, nil, "Category deleted successfully")
}
