package memstore

import (
	"context"

	"seatline/internal/events"
	"seatline/internal/seats"
	"seatline/internal/venues"
	"seatline/pkg/logger"

	"github.com/google/uuid"
)

// SeedVenue stores event and builds its venue map through the venues
// service, so seats get the same labels and parents they get in
// production. It returns the seats keyed by label.
func (s *Store) SeedVenue(ctx context.Context, event events.Event, req venues.CreateVenueMapRequest) (events.Event, map[string]seats.Seat, error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	s.PutEvent(event)

	svc := venues.NewService(s.Venues(), s.Events(), seats.NewLedger(s.Seats()), s, logger.Discard())
	if _, err := svc.CreateVenueMap(ctx, event.ID, req); err != nil {
		return event, nil, err
	}
	// Seeding is setup; counts start from the first call under test.
	s.ResetTransactions()
	return event, s.SeatsByLabel(event.ID), nil
}

// SeatsByLabel returns the current seats of an event's venue map.
func (s *Store) SeatsByLabel(eventID uuid.UUID) map[string]seats.Seat {
	s.mu.Lock()
	vm, ok := s.venueMaps[eventID]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	out := map[string]seats.Seat{}
	for _, seat := range s.AllSeats() {
		if seat.VenueMapID == vm.ID {
			out[seat.Label] = seat
		}
	}
	return out
}

// SingleSection is a venue map request with one section and no price.
func SingleSection(name string, rows, cols int) venues.CreateVenueMapRequest {
	return venues.CreateVenueMapRequest{
		Stage: venues.StageRequest{Width: 10, Height: 4},
		Sections: []venues.SectionRequest{
			{Name: name, Rows: rows, Cols: cols},
		},
	}
}
