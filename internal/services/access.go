package services

import (
	"event-ticketing-backend/internal/models"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uuid.UUID
	Role   models.Role
}

func (a Actor) IsOrganizer() bool {
	return a.Role == models.RoleOrganizer
}

// requireOwner fails with Forbidden unless the actor owns the resource.
func requireOwner(actor Actor, ownerID uuid.UUID, message string) error {
	if actor.UserID == uuid.Nil || actor.UserID != ownerID {
		return forbidden(message)
	}
	return nil
}

func requireOrganizer(actor Actor) error {
	if !actor.IsOrganizer() {
		return forbidden("organizer role required")
	}
	return nil
}
