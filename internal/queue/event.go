// Package queue carries booking lifecycle messages over RabbitMQ.
package queue

const (
	BookingCreated   = "booking.created"
	BookingCancelled = "booking.cancelled"
	BookingPromoted  = "booking.promoted"
)

// RoutingKeys lists every queue the publisher and consumer declare.
var RoutingKeys = []string{BookingCreated, BookingCancelled, BookingPromoted}

// BookingEvent is published after a booking transaction commits. It holds
// enough for downstream consumers to notify the attendee without reading
// the primary database.
type BookingEvent struct {
	BookingID  string  `json:"booking_id"`
	UserID     string  `json:"user_id"`
	EventID    string  `json:"event_id"`
	EventName  string  `json:"event_name"`
	TicketID   string  `json:"ticket_id"`
	TicketName string  `json:"ticket_name"`
	Price      float64 `json:"price"`
	Status     string  `json:"status"`
	StartsAt   string  `json:"starts_at"`
	OccurredAt string  `json:"occurred_at"`
}
