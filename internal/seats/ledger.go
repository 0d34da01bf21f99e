package seats

import (
	"context"
	"fmt"
	"sort"

	"seatline/internal/shared/apperrors"

	"github.com/google/uuid"
)

// BookPolicy decides what happens to HELD seats on the way to BOOKED.
type BookPolicy int

const (
	// RejectHeld refuses held seats. Used by direct admin bookings.
	RejectHeld BookPolicy = iota
	// ClearHeld drops the hold reference and books the seat. Used once a
	// payment has been confirmed for exactly these seats.
	ClearHeld
)

// Ledger owns every seat status transition. All methods expect to run
// inside the caller's transaction; they never open one themselves.
type Ledger struct {
	repo Repository
}

func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// Repository exposes the underlying store for bulk creation.
func (l *Ledger) Repository() Repository {
	return l.repo
}

// Resolve locks the requested seats and checks that every id exists and
// belongs to venueMapID. Duplicate ids collapse to one seat.
func (l *Ledger) Resolve(ctx context.Context, venueMapID uuid.UUID, ids []uuid.UUID) ([]Seat, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return nil, apperrors.InvalidInput("at least one seat is required")
	}

	seats, err := l.repo.LockSeats(ctx, unique)
	if err != nil {
		return nil, apperrors.FromDB(fmt.Errorf("failed to lock seats: %w", err))
	}

	found := make(map[uuid.UUID]bool, len(seats))
	var foreign []string
	for _, seat := range seats {
		found[seat.ID] = true
		if seat.VenueMapID != venueMapID {
			foreign = append(foreign, seat.Label)
		}
	}

	var missing []string
	for _, id := range unique {
		if !found[id] {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.InvalidInput("unknown seats", missing...)
	}
	if len(foreign) > 0 {
		return nil, apperrors.InvalidInput("seats do not belong to this venue map", foreign...)
	}

	return seats, nil
}

// PlaceHold moves AVAILABLE seats to HELD under holdID.
func (l *Ledger) PlaceHold(ctx context.Context, seats []Seat, holdID uuid.UUID) error {
	var unavailable []string
	for _, seat := range seats {
		if seat.Status != StatusAvailable {
			unavailable = append(unavailable, seat.Label)
		}
	}
	if len(unavailable) > 0 {
		return apperrors.Conflict("seats are not available", unavailable...)
	}

	to := Transition{Status: StatusHeld, HoldID: &holdID}
	if err := l.swap(ctx, seats, []Status{StatusAvailable}, to); err != nil {
		return err
	}
	return applyAll(seats, to)
}

// CheckBookable validates seats against policy without writing anything.
func (l *Ledger) CheckBookable(seats []Seat, policy BookPolicy) error {
	var booked, held []string
	for _, seat := range seats {
		switch seat.Status {
		case StatusBooked:
			booked = append(booked, seat.Label)
		case StatusHeld:
			held = append(held, seat.Label)
		}
	}
	if len(booked) > 0 {
		return apperrors.Conflict("seats are already booked", booked...)
	}
	if len(held) > 0 && policy == RejectHeld {
		return apperrors.Conflict("seats are on hold", held...)
	}
	return nil
}

// Book moves seats to BOOKED under bookingID, clearing any hold reference
// when policy allows held seats.
func (l *Ledger) Book(ctx context.Context, seats []Seat, bookingID uuid.UUID, policy BookPolicy) error {
	if err := l.CheckBookable(seats, policy); err != nil {
		return err
	}

	from := []Status{StatusAvailable}
	if policy == ClearHeld {
		from = append(from, StatusHeld)
	}
	to := Transition{Status: StatusBooked, BookingID: &bookingID}
	if err := l.swap(ctx, seats, from, to); err != nil {
		return err
	}
	return applyAll(seats, to)
}

// ReleaseHold returns every seat held by holdID to AVAILABLE.
func (l *Ledger) ReleaseHold(ctx context.Context, holdID uuid.UUID) (int64, error) {
	n, err := l.repo.ReleaseByHoldID(ctx, holdID)
	if err != nil {
		return 0, apperrors.FromDB(fmt.Errorf("failed to release hold seats: %w", err))
	}
	return n, nil
}

// ReleaseBooking returns every seat owned by bookingID to AVAILABLE.
func (l *Ledger) ReleaseBooking(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	n, err := l.repo.ReleaseByBookingID(ctx, bookingID)
	if err != nil {
		return 0, apperrors.FromDB(fmt.Errorf("failed to release booking seats: %w", err))
	}
	return n, nil
}

func (l *Ledger) CountBooked(ctx context.Context, venueMapID uuid.UUID) (int64, error) {
	n, err := l.repo.CountByStatus(ctx, venueMapID, StatusBooked)
	if err != nil {
		return 0, apperrors.FromDB(fmt.Errorf("failed to count booked seats: %w", err))
	}
	return n, nil
}

func (l *Ledger) SeatsForHold(ctx context.Context, holdID uuid.UUID) ([]Seat, error) {
	seats, err := l.repo.GetSeatsByHoldID(ctx, holdID)
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return seats, nil
}

func (l *Ledger) SeatsForBooking(ctx context.Context, bookingID uuid.UUID) ([]Seat, error) {
	seats, err := l.repo.GetSeatsByBookingID(ctx, bookingID)
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return seats, nil
}

func (l *Ledger) SeatsForVenueMap(ctx context.Context, venueMapID uuid.UUID) ([]Seat, error) {
	seats, err := l.repo.GetSeatsByVenueMapID(ctx, venueMapID)
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return seats, nil
}

// swap issues the conditional update and fails the whole operation when
// fewer rows moved than requested.
func (l *Ledger) swap(ctx context.Context, seats []Seat, from []Status, to Transition) error {
	n, err := l.repo.CompareAndSwap(ctx, IDs(seats), from, to)
	if err != nil {
		return apperrors.FromDB(fmt.Errorf("failed to update seats: %w", err))
	}
	if n != int64(len(seats)) {
		return apperrors.Conflict(
			fmt.Sprintf("seat status changed concurrently (%d of %d updated)", n, len(seats)),
			Labels(seats)...,
		)
	}
	return nil
}

func applyAll(seats []Seat, to Transition) error {
	for i := range seats {
		if err := seats[i].Apply(to); err != nil {
			return apperrors.Internal("seat ledger invariant violated", err)
		}
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
