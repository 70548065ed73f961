package handlers

import (
	"event-ticketing-backend/internal/middleware"
	"event-ticketing-backend/internal/services"
	"event-ticketing-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateReview reviews an event the caller attended after it has ended
// @Summary Create review
// @Tags Reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body services.CreateReviewRequest true "Review"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /reviews [post]
func (h *Handler) CreateReview(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req services.CreateReviewRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	review, err := h.reviewSvc.Create(req, actor)
	if err != nil {
		return err
	}

	return utils.Created(c, review, "Review created successfully")
}

// GetEventReviews lists an event's reviews together with its rating stats
// @Summary Event reviews
// @Tags Reviews
// @Produce json
// @Param eventId path string true "Event ID"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param rating query int false "Only this rating (1-5)"
// @Success 200 {object} utils.Response
// @Router /reviews/event/{eventId} [get]
func (h *Handler) GetEventReviews(c *fiber.Ctx) error {
	eventID, err := parseUUIDParam(c, "eventId", "event")
	if err != nil {
		return err
	}

	q := services.ReviewQuery{Pagination: paginationFromQuery(c)}
	if c.Query("rating") != "" {
		rating := c.QueryInt("rating")
		q.Rating = &rating
	}

	page, err := h.reviewSvc.FindEventReviews(eventID, q)
	if err != nil {
		return err
	}

	data := fiber.Map{
		"reviews": page.Items,
		"stats":   page.Stats,
	}
	return utils.SuccessWithMeta(c, data, pageMeta(page.Page), "")
}

// @Summary Event rating stats
// @Tags Reviews
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} utils.Response
// @Router /reviews/event/{eventId}/stats [get]
func (h *Handler) GetEventReviewStats(c *fiber.Ctx) error {
	eventID, err := parseUUIDParam(c, "eventId", "event")
	if err != nil {
		return err
	}

	stats, err := h.reviewSvc.GetEventStats(eventID)
	if err != nil {
		return err
	}

	return utils.Success(c, stats, "")
}

// @Summary My reviews
// @Tags Reviews
// @Security BearerAuth
// @Produce json
// @Success 200 {object} utils.Response
// @Router /reviews/my-reviews [get]
func (h *Handler) GetMyReviews(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	reviews, err := h.reviewSvc.FindMyReviews(actor)
	if err != nil {
		return err
	}

	return utils.Success(c, reviews, "")
}

// @Summary Get review
// @Tags Reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /reviews/{id} [get]
func (h *Handler) GetReview(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id", "review")
	if err != nil {
		return err
	}

	review, err := h.reviewSvc.FindOne(id)
	if err != nil {
		return err
	}

	return utils.Success(c, review, "")
}

// @Summary Update review
// @Tags Reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param request body services.UpdateReviewRequest true "Rating and/or comment"
// @Success 200 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /reviews/{id} [put]
func (h *Handler) UpdateReview(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id", "review")
	if err != nil {
		return err
	}

	var req services.UpdateReviewRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	review, err := h.reviewSvc.Update(id, req, actor)
	if err != nil {
		return err
	}

	return utils.Success(c, review, "Review updated successfully")
}

// @Summary Delete review
// @Tags Reviews
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /reviews/{id} [delete]
func (h *Handler) DeleteReview(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id", "review")
	if err != nil {
		return err
	}

	if err := h.reviewSvc.Remove(id, actor); err != nil {
		return err
	}

	return utils.Success(c, nil, "Review deleted successfully")
}
