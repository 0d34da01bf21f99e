package seats

import (
	"testing"

	"seatline/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSectionSeat() Seat {
	section := uuid.New()
	return Seat{ID: uuid.New(), SectionID: &section, Label: "Floor-A1", Status: StatusAvailable}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusAvailable, StatusHeld, true},
		{StatusAvailable, StatusBooked, true},
		{StatusAvailable, StatusAvailable, false},
		{StatusHeld, StatusAvailable, true},
		{StatusHeld, StatusBooked, true},
		{StatusBooked, StatusAvailable, true},
		{StatusBooked, StatusHeld, false},
		{Status("SOLD"), StatusAvailable, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestApplySetsOwner(t *testing.T) {
	seat := newSectionSeat()
	holdID := uuid.New()

	require.NoError(t, seat.Apply(Transition{Status: StatusHeld, HoldID: &holdID}))
	assert.Equal(t, StatusHeld, seat.Status)
	assert.Equal(t, &holdID, seat.HoldID)

	bookingID := uuid.New()
	require.NoError(t, seat.Apply(Transition{Status: StatusBooked, BookingID: &bookingID}))
	assert.Nil(t, seat.HoldID)
	assert.Equal(t, &bookingID, seat.BookingID)
}

func TestApplyRejectsBookedToHeld(t *testing.T) {
	seat := newSectionSeat()
	bookingID := uuid.New()
	require.NoError(t, seat.Apply(Transition{Status: StatusBooked, BookingID: &bookingID}))

	holdID := uuid.New()
	err := seat.Apply(Transition{Status: StatusHeld, HoldID: &holdID})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusBooked, seat.Status)
}

func TestCheckInvariant(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name   string
		mutate func(s *Seat)
		ok     bool
	}{
		{name: "available without owner", mutate: func(s *Seat) {}, ok: true},
		{name: "available with hold", mutate: func(s *Seat) { s.HoldID = &id }},
		{name: "held without hold", mutate: func(s *Seat) { s.Status = StatusHeld }},
		{name: "held with booking", mutate: func(s *Seat) { s.Status, s.HoldID, s.BookingID = StatusHeld, &id, &id }},
		{name: "booked with booking", mutate: func(s *Seat) { s.Status, s.BookingID = StatusBooked, &id }, ok: true},
		{name: "no parent", mutate: func(s *Seat) { s.SectionID = nil }},
		{name: "two parents", mutate: func(s *Seat) { s.TableID = &id }},
		{name: "unknown status", mutate: func(s *Seat) { s.Status = "SOLD" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seat := newSectionSeat()
			tt.mutate(&seat)
			if tt.ok {
				assert.NoError(t, seat.CheckInvariant())
			} else {
				assert.Error(t, seat.CheckInvariant())
			}
		})
	}
}

func TestParseIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	ids, err := ParseIDs([]string{a.String(), b.String()})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	ids, err = ParseIDs([]string{a.String(), "x", "Floor-A1"})
	assert.Nil(t, ids)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, []string{"x", "Floor-A1"}, apperrors.DetailsOf(err))
}
