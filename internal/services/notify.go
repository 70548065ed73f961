package services

import (
	"context"
	"errors"
	"time"

	"event-ticketing-backend/internal/models"
	"event-ticketing-backend/internal/queue"
	"event-ticketing-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const publishTimeout = 5 * time.Second

// notifier publishes booking messages after commit. A failed publish is
// logged and dropped; the booking it describes is already stored.
type notifier struct {
	publisher queue.Publisher
}

func newNotifier(publisher queue.Publisher) notifier {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	return notifier{publisher: publisher}
}

func (n notifier) publish(routingKey string, messages ...queue.BookingEvent) {
	for _, msg := range messages {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := n.publisher.Publish(ctx, routingKey, msg)
		cancel()
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"routing_key": routingKey,
				"booking_id":  msg.BookingID,
			}).Warn("failed to publish booking notification")
		}
	}
}

func bookingMessage(b *models.Booking, event *models.Event, ticket *models.Ticket, now time.Time) queue.BookingEvent {
	msg := queue.BookingEvent{
		BookingID:  b.ID.String(),
		UserID:     b.UserID.String(),
		EventID:    b.EventID.String(),
		TicketID:   b.TicketID.String(),
		Status:     string(b.Status),
		OccurredAt: now.UTC().Format(time.RFC3339),
	}
	if event != nil {
		msg.EventName = event.Name
		msg.StartsAt = event.StartDate.UTC().Format(time.RFC3339)
	}
	if ticket != nil {
		msg.TicketName = ticket.Name
		msg.Price = ticket.Price
	}
	return msg
}

// promoteWaitlisted confirms waitlisted bookings, oldest first, while the
// event has free capacity. It must run inside the transaction that holds
// the event row lock.
func promoteWaitlisted(tx *repositories.Repository, event *models.Event) ([]models.Booking, error) {
	confirmed, err := tx.BookingRepo.CountBookingsByStatus(event.ID, models.BookingConfirmed)
	if err != nil {
		return nil, err
	}

	var promoted []models.Booking
	for confirmed < int64(event.Capacity) {
		next, err := tx.BookingRepo.GetOldestWaitlisted(event.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}

		if err := tx.BookingRepo.UpdateBookingStatus(next.ID, models.BookingConfirmed); err != nil {
			return nil, err
		}
		next.Status = models.BookingConfirmed
		promoted = append(promoted, *next)
		confirmed++
	}
	return promoted, nil
}

// promotionMessages builds booking.promoted payloads, loading ticket names
// outside the transaction.
func promotionMessages(repo *repositories.Repository, event *models.Event, promoted []models.Booking, now time.Time) []queue.BookingEvent {
	messages := make([]queue.BookingEvent, 0, len(promoted))
	for i := range promoted {
		ticket := messageTicket(repo, promoted[i].TicketID)
		messages = append(messages, bookingMessage(&promoted[i], event, ticket, now))
	}
	return messages
}

// messageTicket loads the ticket named in a booking message. A failed lookup
// is logged and the message goes out without ticket details.
func messageTicket(repo *repositories.Repository, id uuid.UUID) *models.Ticket {
	ticket, err := repo.EventRepo.GetTicketByID(id)
	if err != nil {
		logrus.WithError(err).WithField("ticket_id", id).Warn("failed to load ticket for booking message")
		return nil
	}
	return ticket
}
