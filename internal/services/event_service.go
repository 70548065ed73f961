package services

import (
	"strings"
	"time"

	"event-ticketing-backend/internal/models"
	"event-ticketing-backend/internal/queue"
	"event-ticketing-backend/internal/repositories"

	"github.com/google/uuid"
)

type EventService struct {
	repo     *repositories.Repository
	notifier notifier
	now      func() time.Time
}

func NewEventService(repo *repositories.Repository, publisher queue.Publisher) *EventService {
	return &EventService{
		repo:     repo,
		notifier: newNotifier(publisher),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type LocationInput struct {
	Address        string  `json:"address" validate:"required,max=255"`
	City           string  `json:"city" validate:"required,max=100"`
	State          string  `json:"state" validate:"required,max=100"`
	Country        string  `json:"country" validate:"required,max=100"`
	PostalCode     string  `json:"postal_code" validate:"required,max=20"`
	GoogleMapsLink *string `json:"google_maps_link" validate:"omitempty,url"`
}

func (in LocationInput) apply(loc *models.EventLocation) {
	loc.Address = strings.TrimSpace(in.Address)
	loc.City = strings.TrimSpace(in.City)
	loc.State = strings.TrimSpace(in.State)
	loc.Country = strings.TrimSpace(in.Country)
	loc.PostalCode = strings.TrimSpace(in.PostalCode)
	loc.GoogleMapsLink = in.GoogleMapsLink
}

type TicketInput struct {
	Name           string    `json:"name" validate:"required,max=100"`
	Price          float64   `json:"price" validate:"gte=0"`
	SalesStartDate time.Time `json:"sales_start_date" validate:"required"`
	SalesEndDate   time.Time `json:"sales_end_date" validate:"required"`
}

type CreateEventRequest struct {
	Name        string        `json:"name" validate:"required,max=200"`
	Description string        `json:"description" validate:"required"`
	StartDate   time.Time     `json:"start_date" validate:"required"`
	EndDate     time.Time     `json:"end_date" validate:"required"`
	Capacity    int           `json:"capacity" validate:"required,gt=0"`
	Location    LocationInput `json:"location"`
	ImageURLs   []string      `json:"image_urls" validate:"omitempty,max=10,dive,url"`
	Tickets     []TicketInput `json:"tickets" validate:"required,min=1,dive"`
	CategoryIDs []uuid.UUID   `json:"category_ids"`
}

// UpdateEventRequest leaves nil fields untouched. A non-nil slice replaces
// the current images, tickets or categories.
type UpdateEventRequest struct {
	Name        *string        `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string        `json:"description" validate:"omitempty,min=1"`
	StartDate   *time.Time     `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	Capacity    *int           `json:"capacity" validate:"omitempty,gt=0"`
	Location    *LocationInput `json:"location"`
	ImageURLs   []string       `json:"image_urls" validate:"omitempty,max=10,dive,url"`
	Tickets     []TicketInput  `json:"tickets" validate:"omitempty,dive"`
	CategoryIDs []uuid.UUID    `json:"category_ids"`
}

type EventQuery struct {
	Pagination
	Search     string
	City       string
	CategoryID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

type OrganizerSummary struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	OrganizationName string    `json:"organization_name,omitempty"`
	City             string    `json:"city,omitempty"`
	State            string    `json:"state,omitempty"`
	Country          string    `json:"country,omitempty"`
}

type EventResponse struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	StartDate   time.Time            `json:"start_date"`
	EndDate     time.Time            `json:"end_date"`
	Capacity    int                  `json:"capacity"`
	Status      models.EventStatus   `json:"status"`
	Organizer   *OrganizerSummary    `json:"organizer,omitempty"`
	Location    models.EventLocation `json:"location"`
	Images      []string             `json:"images"`
	Tickets     []models.Ticket      `json:"tickets"`
	Categories  []models.Category    `json:"categories"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func newEventResponse(e *models.Event, now time.Time) EventResponse {
	resp := EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Capacity:    e.Capacity,
		Status:      e.StatusAt(now),
		Location:    e.Location,
		Images:      make([]string, 0, len(e.Images)),
		Tickets:     e.Tickets,
		Categories:  e.Categories,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	for _, img := range e.Images {
		resp.Images = append(resp.Images, img.ImageURL)
	}
	if resp.Tickets == nil {
		resp.Tickets = []models.Ticket{}
	}
	if resp.Categories == nil {
		resp.Categories = []models.Category{}
	}

	if e.Organizer.ID != uuid.Nil {
		resp.Organizer = &OrganizerSummary{
			ID:    e.Organizer.ID,
			Name:  e.Organizer.Name,
			Email: e.Organizer.Email,
		}
		if p := e.Organizer.OrganizerProfile; p != nil {
			resp.Organizer.OrganizationName = p.OrganizationName
			resp.Organizer.City = p.City
			resp.Organizer.State = p.State
			resp.Organizer.Country = p.Country
		}
	}
	return resp
}

func validateSchedule(start, end, now time.Time) error {
	if !start.Before(end) {
		return badRequest("end date must be after start date")
	}
	if !start.After(now) {
		return badRequest("start date must be in the future")
	}
	return nil
}

// validateTicketWindow checks that sales open before they close and close
// no later than the event starts.
func validateTicketWindow(name string, salesStart, salesEnd, eventStart time.Time) error {
	if !salesStart.Before(salesEnd) {
		return badRequest("ticket " + name + ": sales start must be before sales end")
	}
	if salesEnd.After(eventStart) {
		return badRequest("ticket " + name + ": sales must end before the event starts")
	}
	return nil
}

func buildTickets(inputs []TicketInput, eventID uuid.UUID, eventStart time.Time) ([]models.Ticket, error) {
	if len(inputs) == 0 {
		return nil, badRequest("at least one ticket is required")
	}

	tickets := make([]models.Ticket, 0, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, badRequest("ticket name is required")
		}
		if in.Price < 0 {
			return nil, badRequest("ticket " + name + ": price cannot be negative")
		}
		if err := validateTicketWindow(name, in.SalesStartDate, in.SalesEndDate, eventStart); err != nil {
			return nil, err
		}
		tickets = append(tickets, models.Ticket{
			EventID:        eventID,
			Name:           name,
			Price:          in.Price,
			SalesStartDate: in.SalesStartDate.UTC(),
			SalesEndDate:   in.SalesEndDate.UTC(),
		})
	}
	return tickets, nil
}

// Create persists the event with its location, images, tickets and category
// links in one transaction.
func (s *EventService) Create(req CreateEventRequest, actor Actor) (*EventResponse, error) {
	if err := requireOrganizer(actor); err != nil {
		return nil, err
	}

	now := s.now()
	start, end := req.StartDate.UTC(), req.EndDate.UTC()
	if err := validateSchedule(start, end, now); err != nil {
		return nil, err
	}
	if req.Capacity <= 0 {
		return nil, badRequest("capacity must be greater than zero")
	}

	name, description := strings.TrimSpace(req.Name), strings.TrimSpace(req.Description)
	if name == "" {
		return nil, badRequest("event name is required")
	}
	if description == "" {
		return nil, badRequest("event description is required")
	}

	event := &models.Event{
		Name:        name,
		Description: description,
		StartDate:   start,
		EndDate:     end,
		Capacity:    req.Capacity,
		OrganizerID: actor.UserID,
	}
	event.ID = uuid.New()

	tickets, err := buildTickets(req.Tickets, event.ID, start)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(func(tx *repositories.Repository) error {
		categories, err := resolveCategories(tx.CategoryRepo, req.CategoryIDs)
		if err != nil {
			return err
		}

		location := &models.EventLocation{}
		req.Location.apply(location)
		if err := tx.EventRepo.CreateLocation(location); err != nil {
			return err
		}

		event.LocationID = location.ID
		if err := tx.EventRepo.CreateEvent(event); err != nil {
			return err
		}
		if err := tx.EventRepo.ReplaceImages(event.ID, req.ImageURLs); err != nil {
			return err
		}
		if err := tx.EventRepo.CreateTickets(tickets); err != nil {
			return err
		}
		if len(categories) > 0 {
			return tx.EventRepo.ReplaceCategories(event, categories)
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "", "")
	}

	return s.FindOne(event.ID)
}

// Update applies req to an event that has not started yet. Ticket
// replacement is refused while the event has active bookings.
func (s *EventService) Update(id uuid.UUID, req UpdateEventRequest, actor Actor) (*EventResponse, error) {
	now := s.now()
	var event *models.Event
	var promoted []models.Booking

	err := s.repo.Transaction(func(tx *repositories.Repository) error {
		var err error
		event, err = tx.EventRepo.GetEventForUpdate(id)
		if err != nil {
			return storeError(err, "event not found", "")
		}
		if err := requireOwner(actor, event.OrganizerID, "you can only update your own events"); err != nil {
			return err
		}
		if !now.Before(event.StartDate) {
			return badRequest("cannot update an event that has already started")
		}

		if req.Name != nil {
			event.Name = strings.TrimSpace(*req.Name)
			if event.Name == "" {
				return badRequest("event name is required")
			}
		}
		if req.Description != nil {
			event.Description = strings.TrimSpace(*req.Description)
			if event.Description == "" {
				return badRequest("event description is required")
			}
		}

		scheduleChanged := req.StartDate != nil || req.EndDate != nil
		if req.StartDate != nil {
			event.StartDate = req.StartDate.UTC()
		}
		if req.EndDate != nil {
			event.EndDate = req.EndDate.UTC()
		}
		if scheduleChanged {
			if err := validateSchedule(event.StartDate, event.EndDate, now); err != nil {
				return err
			}
		}

		if req.Capacity != nil {
			confirmed, err := tx.BookingRepo.CountBookingsByStatus(event.ID, models.BookingConfirmed)
			if err != nil {
				return err
			}
			if int64(*req.Capacity) < confirmed {
				return badRequest("capacity cannot be lower than the number of confirmed bookings")
			}
			event.Capacity = *req.Capacity
		}

		if req.Tickets != nil {
			active, err := tx.BookingRepo.CountBookingsByStatus(event.ID, models.BookingConfirmed, models.BookingWaitlisted)
			if err != nil {
				return err
			}
			if active > 0 {
				return badRequest("cannot replace tickets while the event has active bookings")
			}

			tickets, err := buildTickets(req.Tickets, event.ID, event.StartDate)
			if err != nil {
				return err
			}
			if err := tx.EventRepo.ReplaceTickets(event.ID, tickets); err != nil {
				return err
			}
		} else if scheduleChanged {
			current, err := tx.EventRepo.GetTicketsByEventID(event.ID)
			if err != nil {
				return err
			}
			for _, t := range current {
				if err := validateTicketWindow(t.Name, t.SalesStartDate, t.SalesEndDate, event.StartDate); err != nil {
					return err
				}
			}
		}

		if req.Location != nil {
			location := &models.EventLocation{}
			location.ID = event.LocationID
			req.Location.apply(location)
			if err := tx.EventRepo.UpdateLocation(location); err != nil {
				return err
			}
		}

		if req.ImageURLs != nil {
			if err := tx.EventRepo.ReplaceImages(event.ID, req.ImageURLs); err != nil {
				return err
			}
		}

		if req.CategoryIDs != nil {
			categories, err := resolveCategories(tx.CategoryRepo, req.CategoryIDs)
			if err != nil {
				return err
			}
			if err := tx.EventRepo.ReplaceCategories(event, categories); err != nil {
				return err
			}
		}

		if err := tx.EventRepo.UpdateEvent(event); err != nil {
			return err
		}

		if req.Capacity != nil {
			promoted, err = promoteWaitlisted(tx, event)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "", "")
	}

	if len(promoted) > 0 {
		s.notifier.publish(queue.BookingPromoted, promotionMessages(s.repo, event, promoted, now)...)
	}
	return s.FindOne(id)
}

// Remove deletes an event that has no active bookings, together with its
// cancelled bookings, reviews and catalog rows.
func (s *EventService) Remove(id uuid.UUID, actor Actor) error {
	err := s.repo.Transaction(func(tx *repositories.Repository) error {
		event, err := tx.EventRepo.GetEventForUpdate(id)
		if err != nil {
			return storeError(err, "event not found", "")
		}
		if err := requireOwner(actor, event.OrganizerID, "you can only delete your own events"); err != nil {
			return err
		}

		active, err := tx.BookingRepo.CountBookingsByStatus(event.ID, models.BookingConfirmed, models.BookingWaitlisted)
		if err != nil {
			return err
		}
		if active > 0 {
			return conflict("cannot delete an event with active bookings")
		}

		if err := tx.BookingRepo.DeleteBookingsByEvent(event.ID); err != nil {
			return err
		}
		if err := tx.ReviewRepo.DeleteReviewsByEvent(event.ID); err != nil {
			return err
		}
		return tx.EventRepo.DeleteEvent(event)
	})
	if err != nil {
		return storeError(err, "event not found", "")
	}
	return nil
}

func (s *EventService) FindAll(q EventQuery) (*Page[EventResponse], error) {
	if err := q.Pagination.validate(); err != nil {
		return nil, err
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, badRequest("date range end must not be before its start")
	}

	filters := &repositories.EventFilters{
		Search:      strings.TrimSpace(q.Search),
		City:        strings.TrimSpace(q.City),
		CategoryID:  q.CategoryID,
		StartsAfter: q.From,
		EndsBefore:  q.To,
	}

	events, total, err := s.repo.EventRepo.ListEvents(q.offset(), q.Limit, filters)
	if err != nil {
		return nil, storeError(err, "", "")
	}

	now := s.now()
	items := make([]EventResponse, 0, len(events))
	for i := range events {
		items = append(items, newEventResponse(&events[i], now))
	}
	return newPage(items, total, q.Pagination), nil
}

func (s *EventService) FindOne(id uuid.UUID) (*EventResponse, error) {
	event, err := s.repo.EventRepo.GetEventDetails(id)
	if err != nil {
		return nil, storeError(err, "event not found", "")
	}
	resp := newEventResponse(event, s.now())
	return &resp, nil
}

func (s *EventService) GetMyEvents(actor Actor) ([]EventResponse, error) {
	if err := requireOrganizer(actor); err != nil {
		return nil, err
	}

	events, err := s.repo.EventRepo.ListEventsByOrganizer(actor.UserID)
	if err != nil {
		return nil, storeError(err, "", "")
	}

	now := s.now()
	items := make([]EventResponse, 0, len(events))
	for i := range events {
		items = append(items, newEventResponse(&events[i], now))
	}
	return items, nil
}
