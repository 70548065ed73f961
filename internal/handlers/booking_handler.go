package handlers

import (
	"event-ticketing-backend/internal/middleware"
	"event-ticketing-backend/internal/models"
	"event-ticketing-backend/internal/services"
	"event-ticketing-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateBooking books a ticket. When the event is full the booking is
// waitlisted instead of rejected.
// @Summary Book a ticket
// @Tags Bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body services.CreateBookingRequest true "Booking"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 429 {object} utils.Response
// @Router /bookings [post]
func (h *Handler) CreateBooking(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req services.CreateBookingRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	booking, err := h.bookingSvc.Create(req, actor)
	if err != nil {
		return err
	}

	return utils.Created(c, booking, "Booking created successfully")
}

// @Summary My bookings
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "CONFIRMED, WAITLISTED or CANCELLED"
// @Success 200 {object} utils.Response
// @Router /bookings/my-bookings [get]
func (h *Handler) GetMyBookings(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	q := services.BookingQuery{Pagination: paginationFromQuery(c)}
	if raw := c.Query("status"); raw != "" {
		status := models.BookingStatus(upper(raw))
		q.Status = &status
	}

	page, err := h.bookingSvc.FindMyBookings(actor, q)
	if err != nil {
		return err
	}

	return utils.SuccessWithMeta(c, page.Items, pageMeta(page), "")
}

// @Summary Bookings for an event
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /bookings/event/{eventId} [get]
func (h *Handler) GetEventBookings(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	eventID, err := parseUUIDParam(c, "eventId", "event")
	if err != nil {
		return err
	}

	bookings, err := h.bookingSvc.GetEventBookings(eventID, actor)
	if err != nil {
		return err
	}

	return utils.Success(c, bookings, "")
}

// @Summary Get booking
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /bookings/{id} [get]
func (h *Handler) GetBooking(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id", "booking")
	if err != nil {
		return err
	}

	booking, err := h.bookingSvc.FindOne(id, actor)
	if err != nil {
		return err
	}

	return utils.Success(c, booking, "")
}

// @Summary Change booking status
// @Tags Bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body services.UpdateBookingRequest true "New status"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /bookings/{id} [patch]
func (h *Handler) UpdateBooking(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id", "booking")
	if err != nil {
		return err
	}

	var req services.UpdateBookingRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	booking, err := h.bookingSvc.Update(id, req, actor)
	if err != nil {
		return err
	}

	return utils.Success(c, booking, "Booking updated successfully")
}

// @Summary Cancel booking
// @Tags Bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /bookings/{id} [delete]
func (h *Handler) CancelBooking(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id", "booking")
	if err != nil {
		return err
	}

	if err := h.bookingSvc.Cancel(id, actor); err != nil {
		return err
	}

	return utils.Success(c, nil, "Booking cancelled successfully")
}

// GetBookingQR streams the ticket QR code as a PNG
// @Summary Booking QR code
// @Tags Bookings
// @Security BearerAuth
// @Produce png
// @Param id path string true "Booking ID"
// @Success 200 {file} binary
// @Failure 400 {object} utils.Response
// @Router /bookings/{id}/qr [get]
func (h *Handler) GetBookingQR(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id", "booking")
	if err != nil {
		return err
	}

	png, err := h.bookingSvc.TicketQR(id, actor)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
