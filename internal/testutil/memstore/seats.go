package memstore

import (
	"context"
	"sort"

	"seatline/internal/seats"

	"github.com/google/uuid"
)

type seatRepo struct{ s *Store }

func (r seatRepo) CreateSeats(_ context.Context, list []seats.Seat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, seat := range list {
		if seat.ID == uuid.Nil {
			seat.ID = uuid.New()
		}
		seat.CreatedAt, seat.UpdatedAt = now(), now()
		r.s.seats[seat.ID] = seat
	}
	return nil
}

func (r seatRepo) LockSeats(_ context.Context, ids []uuid.UUID) ([]seats.Seat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []seats.Seat
	for _, id := range ids {
		if seat, ok := r.s.seats[id]; ok {
			out = append(out, seat)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r seatRepo) filter(keep func(seats.Seat) bool) []seats.Seat {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []seats.Seat
	for _, seat := range r.s.seats {
		if keep(seat) {
			out = append(out, seat)
		}
	}
	sortSeatsByLabel(out)
	return out
}

func (r seatRepo) GetSeatsByVenueMapID(_ context.Context, venueMapID uuid.UUID) ([]seats.Seat, error) {
	return r.filter(func(seat seats.Seat) bool { return seat.VenueMapID == venueMapID }), nil
}

func (r seatRepo) GetSeatsByHoldID(_ context.Context, holdID uuid.UUID) ([]seats.Seat, error) {
	return r.filter(func(seat seats.Seat) bool { return seat.HoldID != nil && *seat.HoldID == holdID }), nil
}

func (r seatRepo) GetSeatsByBookingID(_ context.Context, bookingID uuid.UUID) ([]seats.Seat, error) {
	return r.filter(func(seat seats.Seat) bool { return seat.BookingID != nil && *seat.BookingID == bookingID }), nil
}

func (r seatRepo) CountByStatus(_ context.Context, venueMapID uuid.UUID, status seats.Status) (int64, error) {
	n := len(r.filter(func(seat seats.Seat) bool {
		return seat.VenueMapID == venueMapID && seat.Status == status
	}))
	return int64(n), nil
}

func (r seatRepo) CompareAndSwap(_ context.Context, ids []uuid.UUID, from []seats.Status, to seats.Transition) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		seat, ok := r.s.seats[id]
		if !ok || !statusIn(seat.Status, from) {
			continue
		}
		seat.Status = to.Status
		seat.HoldID = copyID(to.HoldID)
		seat.BookingID = copyID(to.BookingID)
		seat.UpdatedAt = now()
		r.s.seats[id] = seat
		n++
	}
	return n, nil
}

func (r seatRepo) ReleaseByHoldID(_ context.Context, holdID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, seat := range r.s.seats {
		if seat.Status != seats.StatusHeld || seat.HoldID == nil || *seat.HoldID != holdID {
			continue
		}
		seat.Status = seats.StatusAvailable
		seat.HoldID = nil
		seat.UpdatedAt = now()
		r.s.seats[id] = seat
		n++
	}
	return n, nil
}

func (r seatRepo) ReleaseByBookingID(_ context.Context, bookingID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, seat := range r.s.seats {
		if seat.Status != seats.StatusBooked || seat.BookingID == nil || *seat.BookingID != bookingID {
			continue
		}
		seat.Status = seats.StatusAvailable
		seat.BookingID = nil
		seat.UpdatedAt = now()
		r.s.seats[id] = seat
		n++
	}
	return n, nil
}

func statusIn(status seats.Status, set []seats.Status) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

func sortSeatsByLabel(list []seats.Seat) {
	sort.Slice(list, func(i, j int) bool { return list[i].Label < list[j].Label })
}
