package handlers

import (
	"time"

	"event-ticketing-backend/internal/middleware"
	"event-ticketing-backend/internal/services"
	"event-ticketing-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CreateEvent creates a new event with its location and tickets
// @Summary Create event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateEventRequest true "Event data"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /events [post]
func (h *Handler) CreateEvent(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req services.CreateEventRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	event, err := h.eventSvc.Create(req, actor)
	if err != nil {
		return err
	}

	return utils.Created(c, event, "Event created successfully")
}

// UpdateEvent applies a partial update to an upcoming event
// @Summary Update event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body services.UpdateEventRequest true "Fields to change"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /events/{id} [put]
func (h *Handler) UpdateEvent(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id", "event")
	if err != nil {
		return err
	}

	var req services.UpdateEventRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	event, err := h.eventSvc.Update(id, req, actor)
	if err != nil {
		return err
	}

	return utils.Success(c, event, "Event updated successfully")
}

// DeleteEvent removes an event that has no active bookings
// @Summary Delete event
// @Tags Events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /events/{id} [delete]
func (h *Handler) DeleteEvent(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id", "event")
	if err != nil {
		return err
	}

	if err := h.eventSvc.Remove(id, actor); err != nil {
		return err
	}

	return utils.Success(c, nil, "Event deleted successfully")
}

// ListEvents returns published events
// @Summary List events
// @Tags Events
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param search query string false "Name or description contains"
// @Param city query string false "City"
// @Param category_id query string false "Category ID"
// @Param from query string false "Starts at or after (RFC3339)"
// @Param to query string false "Ends at or before (RFC3339)"
// @Success 200 {object} utils.Response
// @Router /events [get]
func (h *Handler) ListEvents(c *fiber.Ctx) error {
	q := services.EventQuery{
		Pagination: paginationFromQuery(c),
		Search:     c.Query("search"),
		City:       c.Query("city"),
	}

	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return utils.Error(c, "Invalid category_id", fiber.StatusBadRequest)
		}
		q.CategoryID = &categoryID
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return utils.Error(c, "Invalid from format", fiber.StatusBadRequest)
		}
		q.From = &from
	}

	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return utils.Error(c, "Invalid to format", fiber.StatusBadRequest)
		}
		q.To = &to
	}

	page, err := h.eventSvc.FindAll(q)
	if err != nil {
		return err
	}

	return utils.SuccessWithMeta(c, page.Items, pageMeta(page), "")
}

// GetEvent returns a single event with its tickets and organizer
// @Summary Get event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /events/{id} [get]
func (h *Handler) GetEvent(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id", "event")
	if err != nil {
		return err
	}

	event, err := h.eventSvc.FindOne(id)
	if err != nil {
		return err
	}

	return utils.Success(c, event, "")
}

// GetMyEvents lists the caller's events
// @Summary My events
// @Tags Events
// @Security BearerAuth
// @Produce json
// @Success 200 {object} utils.Response
// @Router /events/my-events [get]
func (h *Handler) GetMyEvents(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	events, err := h.eventSvc.GetMyEvents(actor)
	if err != nil {
		return err
	}

	return utils.Success(c, events, "")
}

// GetOrganizerStats aggregates bookings and revenue across the caller's events
// @Summary Organizer dashboard stats
// @Tags Events
// @Security BearerAuth
// @Produce json
// @Success 200 {object} utils.Response
// @Router /events/organizer-stats [get]
func (h *Handler) GetOrganizerStats(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	stats, err := h.eventSvc.GetOrganizerStats(actor)
	if err != nil {
		return err
	}

	return utils.Success(c, stats, "")
}

// GetEventAnalytics returns booking and revenue figures for one event
// @Summary Event analytics
// @Tags Events
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /events/{id}/analytics [get]
func (h *Handler) GetEventAnalytics(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id", "event")
	if err != nil {
		return err
	}

	analytics, err := h.eventSvc.GetEventAnalytics(id, actor)
	if err != nil {
		return err
	}

	return utils.Success(c, analytics, "")
}
