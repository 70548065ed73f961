package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the primary key and timestamps shared by every table.
// IDs are generated client side so the schema works on both Postgres and SQLite.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type User struct {
	Base
	Name             string  `gorm:"size:100;not null" json:"name"`
	Email            string  `gorm:"uniqueIndex;not null" json:"email"`
	Password         string  `gorm:"not null" json:"-"`
	Role             Role    `gorm:"type:varchar(20);not null;default:'ATTENDEE'" json:"role"`
	RefreshTokenHash *string `json:"-"`

	// Relations
	OrganizerProfile *OrganizerProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"organizer_profile,omitempty"`
}

type OrganizerProfile struct {
	Base
	UserID           uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	OrganizationName string    `gorm:"not null" json:"organization_name"`
	Address          string    `gorm:"not null" json:"address"`
	City             string    `gorm:"not null" json:"city"`
	State            string    `gorm:"not null" json:"state"`
	Country          string    `gorm:"not null" json:"country"`
	ZipCode          string    `gorm:"not null" json:"zip_code"`
}

type Category struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type EventLocation struct {
	Base
	Address        string  `gorm:"not null" json:"address"`
	City           string  `gorm:"index;not null" json:"city"`
	State          string  `gorm:"not null" json:"state"`
	Country        string  `gorm:"not null" json:"country"`
	PostalCode     string  `gorm:"not null" json:"postal_code"`
	GoogleMapsLink *string `json:"google_maps_link,omitempty"`
}

type Event struct {
	Base
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	StartDate   time.Time `gorm:"index;not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	OrganizerID uuid.UUID `gorm:"type:uuid;index;not null" json:"organizer_id"`
	LocationID  uuid.UUID `gorm:"type:uuid;not null" json:"location_id"`

	// Relations
	Organizer  User          `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	Location   EventLocation `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Images     []EventImage  `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Tickets    []Ticket      `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"tickets,omitempty"`
	Categories []Category    `gorm:"many2many:event_categories;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
}

// StatusAt derives the lifecycle status of the event relative to now.
func (e *Event) StatusAt(now time.Time) EventStatus {
	switch {
	case now.Before(e.StartDate):
		return EventUpcoming
	case now.After(e.EndDate):
		return EventPast
	default:
		return EventOngoing
	}
}

type EventImage struct {
	Base
	EventID  uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	ImageURL string    `gorm:"not null" json:"image_url"`
}

type Ticket struct {
	Base
	EventID        uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	Name           string    `gorm:"not null" json:"name"`
	Price          float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	SalesStartDate time.Time `gorm:"not null" json:"sales_start_date"`
	SalesEndDate   time.Time `gorm:"not null" json:"sales_end_date"`
	// Retired tickets were replaced on the event but are still referenced by
	// cancelled bookings. They are never listed or sold.
	Retired bool `gorm:"not null;default:false;index" json:"-"`
}

// Booking is unique per (user, event) at the storage layer, whatever ticket was chosen.
type Booking struct {
	Base
	UserID   uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_booking_user_event" json:"user_id"`
	EventID  uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_booking_user_event;index" json:"event_id"`
	TicketID uuid.UUID     `gorm:"type:uuid;index;not null" json:"ticket_id"`
	Status   BookingStatus `gorm:"type:varchar(20);not null;default:'CONFIRMED';index" json:"status"`

	// Relations
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Event  Event  `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Ticket Ticket `gorm:"foreignKey:TicketID" json:"ticket,omitempty"`
}

type Review struct {
	Base
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_event" json:"user_id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_event;index" json:"event_id"`
	Rating  int       `gorm:"not null" json:"rating"`
	Comment string    `gorm:"type:text;not null" json:"comment"`

	// Relations
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Event Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}
