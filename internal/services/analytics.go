package services

import (
	"math"
	"time"

	"event-ticketing-backend/internal/models"

	"github.com/google/uuid"
)

type TicketSales struct {
	TicketID uuid.UUID `json:"ticket_id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Sold     int       `json:"sold"`
	Revenue  float64   `json:"revenue"`
}

type BookingCounts struct {
	Total      int `json:"total"`
	Confirmed  int `json:"confirmed"`
	Waitlisted int `json:"waitlisted"`
	Cancelled  int `json:"cancelled"`
}

type EventAnalytics struct {
	EventID       uuid.UUID          `json:"event_id"`
	Name          string             `json:"name"`
	Status        models.EventStatus `json:"status"`
	Capacity      int                `json:"capacity"`
	Bookings      BookingCounts      `json:"bookings"`
	Revenue       float64            `json:"revenue"`
	OccupancyRate float64            `json:"occupancy_rate"`
	TicketSales   []TicketSales      `json:"ticket_sales"`
}

type StatusBucket struct {
	Events            int     `json:"events"`
	ConfirmedBookings int     `json:"confirmed_bookings"`
	Revenue           float64 `json:"revenue"`
}

type EventSummary struct {
	EventID           uuid.UUID          `json:"event_id"`
	Name              string             `json:"name"`
	Status            models.EventStatus `json:"status"`
	StartDate         time.Time          `json:"start_date"`
	ConfirmedBookings int                `json:"confirmed_bookings"`
	Revenue           float64            `json:"revenue"`
}

type OrganizerStats struct {
	TotalEvents  int                                 `json:"total_events"`
	Bookings     BookingCounts                       `json:"bookings"`
	TotalRevenue float64                             `json:"total_revenue"`
	ByStatus     map[models.EventStatus]StatusBucket `json:"by_status"`
	Events       []EventSummary                      `json:"events"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func countBooking(c *BookingCounts, status models.BookingStatus) {
	c.Total++
	switch status {
	case models.BookingConfirmed:
		c.Confirmed++
	case models.BookingWaitlisted:
		c.Waitlisted++
	case models.BookingCancelled:
		c.Cancelled++
	}
}

// computeEventAnalytics aggregates bookings of a single event. Only
// CONFIRMED bookings count towards revenue and tickets sold. Bookings must
// have Ticket loaded.
func computeEventAnalytics(event *models.Event, tickets []models.Ticket, bookings []models.Booking, now time.Time) *EventAnalytics {
	result := &EventAnalytics{
		EventID:     event.ID,
		Name:        event.Name,
		Status:      event.StatusAt(now),
		Capacity:    event.Capacity,
		TicketSales: make([]TicketSales, 0, len(tickets)),
	}

	sales := make(map[uuid.UUID]*TicketSales, len(tickets))
	for _, t := range tickets {
		result.TicketSales = append(result.TicketSales, TicketSales{TicketID: t.ID, Name: t.Name, Price: t.Price})
	}
	for i := range result.TicketSales {
		sales[result.TicketSales[i].TicketID] = &result.TicketSales[i]
	}

	var revenue float64
	for _, b := range bookings {
		countBooking(&result.Bookings, b.Status)
		if b.Status != models.BookingConfirmed {
			continue
		}
		revenue += b.Ticket.Price
		if ts, ok := sales[b.TicketID]; ok {
			ts.Sold++
			ts.Revenue += b.Ticket.Price
		}
	}

	for i := range result.TicketSales {
		result.TicketSales[i].Revenue = round2(result.TicketSales[i].Revenue)
	}
	result.Revenue = round2(revenue)
	if event.Capacity > 0 {
		result.OccupancyRate = round2(float64(result.Bookings.Confirmed) / float64(event.Capacity) * 100)
	}
	return result
}

// computeOrganizerStats rolls bookings up across all of an organizer's
// events, bucketed by the derived event status.
func computeOrganizerStats(events []models.Event, bookings []models.Booking, now time.Time) *OrganizerStats {
	stats := &OrganizerStats{
		TotalEvents: len(events),
		ByStatus: map[models.EventStatus]StatusBucket{
			models.EventUpcoming: {},
			models.EventOngoing:  {},
			models.EventPast:     {},
		},
		Events: make([]EventSummary, 0, len(events)),
	}

	index := make(map[uuid.UUID]int, len(events))
	for i := range events {
		index[events[i].ID] = i
		stats.Events = append(stats.Events, EventSummary{
			EventID:   events[i].ID,
			Name:      events[i].Name,
			Status:    events[i].StatusAt(now),
			StartDate: events[i].StartDate,
		})
	}

	var total float64
	for _, b := range bookings {
		i, ok := index[b.EventID]
		if !ok {
			continue
		}
		countBooking(&stats.Bookings, b.Status)
		if b.Status != models.BookingConfirmed {
			continue
		}
		stats.Events[i].ConfirmedBookings++
		stats.Events[i].Revenue += b.Ticket.Price
		total += b.Ticket.Price
	}

	for i := range stats.Events {
		stats.Events[i].Revenue = round2(stats.Events[i].Revenue)
		bucket := stats.ByStatus[stats.Events[i].Status]
		bucket.Events++
		bucket.ConfirmedBookings += stats.Events[i].ConfirmedBookings
		bucket.Revenue = round2(bucket.Revenue + stats.Events[i].Revenue)
		stats.ByStatus[stats.Events[i].Status] = bucket
	}
	stats.TotalRevenue = round2(total)
	return stats
}

func (s *EventService) GetEventAnalytics(id uuid.UUID, actor Actor) (*EventAnalytics, error) {
	event, err := s.repo.EventRepo.GetEventByID(id)
	if err != nil {
		return nil, storeError(err, "event not found", "")
	}
	if err := requireOwner(actor, event.OrganizerID, "you can only view analytics for your own events"); err != nil {
		return nil, err
	}

	tickets, err := s.repo.EventRepo.GetTicketsByEventID(event.ID)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	bookings, err := s.repo.BookingRepo.ListBookingsByEvents([]uuid.UUID{event.ID})
	if err != nil {
		return nil, storeError(err, "", "")
	}

	return computeEventAnalytics(event, tickets, bookings, s.now()), nil
}

func (s *EventService) GetOrganizerStats(actor Actor) (*OrganizerStats, error) {
	if err := requireOrganizer(actor); err != nil {
		return nil, err
	}

	events, err := s.repo.EventRepo.ListEventsByOrganizer(actor.UserID)
	if err != nil {
		return nil, storeError(err, "", "")
	}

	ids := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	bookings, err := s.repo.BookingRepo.ListBookingsByEvents(ids)
	if err != nil {
		return nil, storeError(err, "", "")
	}

	return computeOrganizerStats(events, bookings, s.now()), nil
}
