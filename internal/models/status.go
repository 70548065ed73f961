package models

type Role string

const (
	RoleAttendee  Role = "ATTENDEE"
	RoleOrganizer Role = "ORGANIZER"
)

func (r Role) Valid() bool {
	return r == RoleAttendee || r == RoleOrganizer
}

type BookingStatus string

const (
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingWaitlisted BookingStatus = "WAITLISTED"
	BookingCancelled  BookingStatus = "CANCELLED"
)

// bookingTransitions lists every allowed status change. CANCELLED is terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingConfirmed:  {BookingCancelled},
	BookingWaitlisted: {BookingConfirmed, BookingCancelled},
	BookingCancelled:  nil,
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// Active reports whether the booking still holds (or waits for) a seat.
func (s BookingStatus) Active() bool {
	return s == BookingConfirmed || s == BookingWaitlisted
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type EventStatus string

const (
	EventUpcoming EventStatus = "UPCOMING"
	EventOngoing  EventStatus = "ONGOING"
	EventPast     EventStatus = "PAST"
)
