package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	testCases := []struct {
		from, to BookingStatus
		allowed  bool
	}{
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingWaitlisted, false},
		{BookingConfirmed, BookingConfirmed, false},
		{BookingWaitlisted, BookingConfirmed, true},
		{BookingWaitlisted, BookingCancelled, true},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCancelled, BookingWaitlisted, false},
		{BookingCancelled, BookingCancelled, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestBookingStatusValidAndActive(t *testing.T) {
	assert.True(t, BookingConfirmed.Valid())
	assert.True(t, BookingCancelled.Valid())
	assert.False(t, BookingStatus("PENDING").Valid())

	assert.True(t, BookingConfirmed.Active())
	assert.True(t, BookingWaitlisted.Active())
	assert.False(t, BookingCancelled.Active())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAttendee.Valid())
	assert.True(t, RoleOrganizer.Valid())
	assert.False(t, Role("admin").Valid())
}

func TestEventStatusAt(t *testing.T) {
	start := time.Date(2025, 7, 15, 18, 0, 0, 0, time.UTC)
	event := &Event{StartDate: start, EndDate: start.Add(4 * time.Hour)}

	assert.Equal(t, EventUpcoming, event.StatusAt(start.Add(-time.Minute)))
	assert.Equal(t, EventOngoing, event.StatusAt(start))
	assert.Equal(t, EventOngoing, event.StatusAt(start.Add(4*time.Hour)))
	assert.Equal(t, EventPast, event.StatusAt(start.Add(4*time.Hour+time.Second)))
}
