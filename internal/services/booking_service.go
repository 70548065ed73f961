package services

import (
	"errors"
	"fmt"
	"time"

	"event-ticketing-backend/internal/models"
	"event-ticketing-backend/internal/queue"
	"event-ticketing-backend/internal/repositories"
	"event-ticketing-backend/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingService struct {
	repo     *repositories.Repository
	notifier notifier
	now      func() time.Time
}

func NewBookingService(repo *repositories.Repository, publisher queue.Publisher) *BookingService {
	return &BookingService{
		repo:     repo,
		notifier: newNotifier(publisher),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type CreateBookingRequest struct {
	EventID  uuid.UUID `json:"event_id" validate:"required"`
	TicketID uuid.UUID `json:"ticket_id" validate:"required"`
}

type UpdateBookingRequest struct {
	Status models.BookingStatus `json:"status" validate:"required,oneof=CONFIRMED WAITLISTED CANCELLED"`
}

type BookingQuery struct {
	Pagination
	Status *models.BookingStatus
}

type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type TicketSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
}

type BookingEventSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	City      string    `json:"city"`
	Images    []string  `json:"images"`
}

type BookingResponse struct {
	ID          uuid.UUID            `json:"id"`
	Status      models.BookingStatus `json:"status"`
	User        UserSummary          `json:"user"`
	Event       BookingEventSummary  `json:"event"`
	Ticket      TicketSummary        `json:"ticket"`
	BookingDate time.Time            `json:"booking_date"`
}

type EventBookingResponse struct {
	ID          uuid.UUID            `json:"id"`
	Status      models.BookingStatus `json:"status"`
	User        UserSummary          `json:"user"`
	Ticket      TicketSummary        `json:"ticket"`
	BookingDate time.Time            `json:"booking_date"`
}

func newUserSummary(u *models.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func newTicketSummary(t *models.Ticket) TicketSummary {
	return TicketSummary{ID: t.ID, Name: t.Name, Price: t.Price}
}

func newBookingResponse(b *models.Booking) BookingResponse {
	images := make([]string, 0, len(b.Event.Images))
	for _, img := range b.Event.Images {
		images = append(images, img.ImageURL)
	}

	return BookingResponse{
		ID:     b.ID,
		Status: b.Status,
		User:   newUserSummary(&b.User),
		Event: BookingEventSummary{
			ID:        b.Event.ID,
			Name:      b.Event.Name,
			StartDate: b.Event.StartDate,
			EndDate:   b.Event.EndDate,
			City:      b.Event.Location.City,
			Images:    images,
		},
		Ticket:      newTicketSummary(&b.Ticket),
		BookingDate: b.CreatedAt,
	}
}

// Create books ticket for the caller. The event row stays locked until
// commit so the confirmed count cannot change underneath; once capacity is
// reached new bookings are WAITLISTED.
func (s *BookingService) Create(req CreateBookingRequest, actor Actor) (*BookingResponse, error) {
	now := s.now()
	var booking *models.Booking
	var event *models.Event
	var ticket *models.Ticket

	err := s.repo.Transaction(func(tx *repositories.Repository) error {
		if _, err := tx.UserRepo.GetUserByID(actor.UserID); err != nil {
			return storeError(err, "user not found", "")
		}

		var err error
		event, err = tx.EventRepo.GetEventForUpdate(req.EventID)
		if err != nil {
			return storeError(err, "event not found", "")
		}
		ticket, err = tx.EventRepo.GetTicketByID(req.TicketID)
		if err != nil {
			return storeError(err, "ticket not found", "")
		}
		if ticket.EventID != event.ID {
			return badRequest("ticket does not belong to this event")
		}
		if ticket.Retired {
			return badRequest("ticket is no longer available")
		}
		// Sales run from SalesStartDate inclusive to SalesEndDate exclusive.
		if now.Before(ticket.SalesStartDate) || !now.Before(ticket.SalesEndDate) {
			return badRequest("ticket is not on sale")
		}

		existing, err := tx.BookingRepo.GetBookingByUserAndEvent(actor.UserID, event.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			return conflict("you already have a booking for this event")
		}

		confirmed, err := tx.BookingRepo.CountBookingsByStatus(event.ID, models.BookingConfirmed)
		if err != nil {
			return err
		}

		status := models.BookingConfirmed
		if confirmed >= int64(event.Capacity) {
			status = models.BookingWaitlisted
		}

		booking = &models.Booking{
			UserID:   actor.UserID,
			EventID:  event.ID,
			TicketID: ticket.ID,
			Status:   status,
		}
		return tx.BookingRepo.CreateBooking(booking)
	})
	if err != nil {
		return nil, storeError(err, "", "you already have a booking for this event")
	}

	s.notifier.publish(queue.BookingCreated, bookingMessage(booking, event, ticket, now))
	return s.FindOne(booking.ID, actor)
}

func (s *BookingService) FindMyBookings(actor Actor, q BookingQuery) (*Page[BookingResponse], error) {
	if err := q.Pagination.validate(); err != nil {
		return nil, err
	}
	if q.Status != nil && !q.Status.Valid() {
		return nil, badRequest("invalid booking status")
	}

	bookings, total, err := s.repo.BookingRepo.ListBookingsByUser(actor.UserID, q.offset(), q.Limit, q.Status)
	if err != nil {
		return nil, storeError(err, "", "")
	}

	items := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, newBookingResponse(&bookings[i]))
	}
	return newPage(items, total, q.Pagination), nil
}

// FindOne returns the booking only to its owner. A missing booking and a
// booking owned by someone else both fail with the same Forbidden error.
func (s *BookingService) FindOne(id uuid.UUID, actor Actor) (*BookingResponse, error) {
	booking, err := s.repo.BookingRepo.GetBookingDetails(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, forbidden("access denied")
		}
		return nil, storeError(err, "", "")
	}
	if err := requireOwner(actor, booking.UserID, "access denied"); err != nil {
		return nil, err
	}

	resp := newBookingResponse(booking)
	return &resp, nil
}

func (s *BookingService) Update(id uuid.UUID, req UpdateBookingRequest, actor Actor) (*BookingResponse, error) {
	if err := s.changeStatus(id, req.Status, actor); err != nil {
		return nil, err
	}
	return s.FindOne(id, actor)
}

func (s *BookingService) Cancel(id uuid.UUID, actor Actor) error {
	return s.changeStatus(id, models.BookingCancelled, actor)
}

// changeStatus moves a booking along the status state machine. Cancelling
// a CONFIRMED booking hands its seat to the oldest WAITLISTED booking.
func (s *BookingService) changeStatus(id uuid.UUID, target models.BookingStatus, actor Actor) error {
	if !target.Valid() {
		return badRequest("invalid booking status")
	}

	now := s.now()
	var booking *models.Booking
	var event *models.Event
	var promoted []models.Booking

	err := s.repo.Transaction(func(tx *repositories.Repository) error {
		var err error
		booking, err = tx.BookingRepo.GetBookingByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return forbidden("access denied")
			}
			return err
		}
		if err := requireOwner(actor, booking.UserID, "access denied"); err != nil {
			return err
		}

		if booking.Status == target {
			if target == models.BookingCancelled {
				return badRequest("booking is already cancelled")
			}
			return badRequest(fmt.Sprintf("booking is already %s", target))
		}
		if !booking.Status.CanTransitionTo(target) {
			return badRequest(fmt.Sprintf("cannot change booking status from %s to %s", booking.Status, target))
		}

		event, err = tx.EventRepo.GetEventForUpdate(booking.EventID)
		if err != nil {
			return storeError(err, "event not found", "")
		}

		if target == models.BookingConfirmed {
			confirmed, err := tx.BookingRepo.CountBookingsByStatus(event.ID, models.BookingConfirmed)
			if err != nil {
				return err
			}
			if confirmed >= int64(event.Capacity) {
				return conflict("event is at full capacity")
			}
		}

		freesSeat := booking.Status == models.BookingConfirmed && target == models.BookingCancelled
		if err := tx.BookingRepo.UpdateBookingStatus(booking.ID, target); err != nil {
			return err
		}
		booking.Status = target

		if freesSeat {
			promoted, err = promoteWaitlisted(tx, event)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storeError(err, "", "")
	}

	ticket := messageTicket(s.repo, booking.TicketID)
	switch target {
	case models.BookingCancelled:
		s.notifier.publish(queue.BookingCancelled, bookingMessage(booking, event, ticket, now))
	case models.BookingConfirmed:
		s.notifier.publish(queue.BookingPromoted, bookingMessage(booking, event, ticket, now))
	}
	if len(promoted) > 0 {
		s.notifier.publish(queue.BookingPromoted, promotionMessages(s.repo, event, promoted, now)...)
	}
	return nil
}

func (s *BookingService) GetEventBookings(eventID uuid.UUID, actor Actor) ([]EventBookingResponse, error) {
	event, err := s.repo.EventRepo.GetEventByID(eventID)
	if err != nil {
		return nil, storeError(err, "event not found", "")
	}
	if err := requireOwner(actor, event.OrganizerID, "access denied"); err != nil {
		return nil, err
	}

	bookings, err := s.repo.BookingRepo.ListBookingsByEvent(event.ID)
	if err != nil {
		return nil, storeError(err, "", "")
	}

	items := make([]EventBookingResponse, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		items = append(items, EventBookingResponse{
			ID:          b.ID,
			Status:      b.Status,
			User:        newUserSummary(&b.User),
			Ticket:      newTicketSummary(&b.Ticket),
			BookingDate: b.CreatedAt,
		})
	}
	return items, nil
}

// TicketQR renders the PNG QR code presented at the door for a confirmed booking.
func (s *BookingService) TicketQR(id uuid.UUID, actor Actor) ([]byte, error) {
	booking, err := s.FindOne(id, actor)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingConfirmed {
		return nil, badRequest("QR codes are only available for confirmed bookings")
	}

	png, err := utils.GenerateQRCodePNG(booking.ID.String())
	if err != nil {
		return nil, NewServiceError("failed to generate QR code", ErrDatabaseError, err)
	}
	return png, nil
}
