// Package memstore holds in-memory implementations of the repositories
// and the transaction manager, for service tests that need the real
// ledger logic without Postgres.
//
// Transactions are serialized by one mutex, which gives the same
// guarantee the event row lock gives in Postgres, and a failed
// transaction restores the snapshot taken when it began.
package memstore

import (
	"context"
	"sync"
	"time"

	"seatline/internal/bookings"
	"seatline/internal/events"
	"seatline/internal/holds"
	"seatline/internal/promos"
	"seatline/internal/seats"
	"seatline/internal/shared/apperrors"
	"seatline/internal/venues"

	"github.com/google/uuid"
)

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	seats     map[uuid.UUID]seats.Seat
	holds     map[uuid.UUID]holds.Hold
	bookings  map[uuid.UUID]bookings.Booking
	events    map[uuid.UUID]events.Event
	venueMaps map[uuid.UUID]venues.VenueMap // keyed by event id
	promos    map[uuid.UUID]promos.Promo

	txFailures []error
	txCount    int
}

func New() *Store {
	return &Store{
		seats:     map[uuid.UUID]seats.Seat{},
		holds:     map[uuid.UUID]holds.Hold{},
		bookings:  map[uuid.UUID]bookings.Booking{},
		events:    map[uuid.UUID]events.Event{},
		venueMaps: map[uuid.UUID]venues.VenueMap{},
		promos:    map[uuid.UUID]promos.Promo{},
	}
}

// FailTransactions makes the next len(errs) transactions fail with the
// given errors before running their body.
func (s *Store) FailTransactions(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txFailures = append(s.txFailures, errs...)
}

// Transactions returns how many transactions were started.
func (s *Store) Transactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txCount
}

// ResetTransactions zeroes the transaction counter.
func (s *Store) ResetTransactions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCount = 0
}

type snapshot struct {
	seats     map[uuid.UUID]seats.Seat
	holds     map[uuid.UUID]holds.Hold
	bookings  map[uuid.UUID]bookings.Booking
	events    map[uuid.UUID]events.Event
	venueMaps map[uuid.UUID]venues.VenueMap
	promos    map[uuid.UUID]promos.Promo
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		seats:     cloneMap(s.seats),
		holds:     cloneMap(s.holds),
		bookings:  cloneMap(s.bookings),
		events:    cloneMap(s.events),
		venueMaps: cloneMap(s.venueMaps),
		promos:    cloneMap(s.promos),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seats = snap.seats
	s.holds = snap.holds
	s.bookings = snap.bookings
	s.events = snap.events
	s.venueMaps = snap.venueMaps
	s.promos = snap.promos
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type txKey struct{}

// WithinTx implements transaction.Manager.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.txCount++
	var injected error
	if len(s.txFailures) > 0 {
		injected = s.txFailures[0]
		s.txFailures = s.txFailures[1:]
	}
	s.mu.Unlock()
	if injected != nil {
		return apperrors.FromDB(injected)
	}

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return apperrors.FromDB(err)
	}
	return nil
}

// Repositories

func (s *Store) Seats() seats.Repository       { return seatRepo{s} }
func (s *Store) Holds() holds.Repository       { return holdRepo{s} }
func (s *Store) Bookings() bookings.Repository { return bookingRepo{s} }
func (s *Store) Events() events.Repository     { return eventRepo{s} }
func (s *Store) Venues() venues.Repository     { return venueRepo{s} }
func (s *Store) Promos() promos.Repository     { return promoRepo{s} }

// AllSeats returns every seat, for invariant checks.
func (s *Store) AllSeats() []seats.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]seats.Seat, 0, len(s.seats))
	for _, seat := range s.seats {
		out = append(out, seat)
	}
	sortSeatsByLabel(out)
	return out
}

// PutEvent stores an event as is, for test setup.
func (s *Store) PutEvent(e events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	s.events[e.ID] = e
}

func now() time.Time {
	return time.Now().UTC()
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
