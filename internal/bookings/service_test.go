package bookings_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"seatline/internal/bookings"
	"seatline/internal/events"
	"seatline/internal/holds"
	"seatline/internal/notifications"
	"seatline/internal/promos"
	"seatline/internal/seats"
	"seatline/internal/shared/apperrors"
	"seatline/internal/testutil/memstore"
	"seatline/internal/venues"
	"seatline/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *memstore.Store
	ledger *seats.Ledger
	svc    bookings.Service
	event  events.Event
	seats  map[string]seats.Seat
}

func newFixture(t *testing.T, maxSeats *int, req venues.CreateVenueMapRequest) *fixture {
	t.Helper()
	store := memstore.New()
	event, byLabel, err := store.SeedVenue(context.Background(), events.Event{
		Name:              "Launch Night",
		StartsAt:          time.Now().Add(24 * time.Hour),
		MaxSeats:          maxSeats,
		DefaultPriceCents: 2500,
	}, req)
	require.NoError(t, err)

	ledger := seats.NewLedger(store.Seats())
	svc := bookings.NewService(store.Bookings(), store.Events(), store.Venues(), store.Promos(), ledger, store, logger.Discard())
	return &fixture{store: store, ledger: ledger, svc: svc, event: event, seats: byLabel}
}

func (f *fixture) ids(labels ...string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		out = append(out, f.seats[l].ID.String())
	}
	return out
}

func (f *fixture) uuids(labels ...string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(labels))
	for _, l := range labels {
		out = append(out, f.seats[l].ID)
	}
	return out
}

func (f *fixture) book(labels ...string) (*bookings.BookingResponse, error) {
	return f.svc.CreateBooking(context.Background(), bookings.CreateBookingRequest{
		EventID:       f.event.ID.String(),
		SeatIDs:       f.ids(labels...),
		AttendeeName:  "Ada Lovelace",
		AttendeeEmail: "ada@example.com",
	})
}

func (f *fixture) bookedCount(t *testing.T) int {
	t.Helper()
	n := 0
	for _, seat := range f.store.AllSeats() {
		if seat.Status == seats.StatusBooked {
			n++
		}
	}
	return n
}

func (f *fixture) assertInvariants(t *testing.T) {
	t.Helper()
	for _, seat := range f.store.AllSeats() {
		assert.NoError(t, seat.CheckInvariant())
	}
}

func labels(prefix string, from, to int) []string {
	var out []string
	for i := from; i <= to; i++ {
		out = append(out, prefix+strconv.Itoa(i))
	}
	return out
}

func intPtr(v int) *int { return &v }

func TestCreateBooking_CapacityCeiling(t *testing.T) {
	// The ceiling is below the physical seat count so the capacity check,
	// not seat availability, decides the outcome.
	f := newFixture(t, intPtr(10), memstore.SingleSection("Floor", 1, 12))

	first, err := f.book(labels("Floor-A", 1, 6)...)
	require.NoError(t, err)
	assert.Equal(t, 6, first.SeatCount)

	_, err = f.book(labels("Floor-A", 7, 11)...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrCapacityExceeded))
	assert.Equal(t, 6, f.bookedCount(t))

	_, err = f.book(labels("Floor-A", 7, 10)...)
	require.NoError(t, err)
	assert.Equal(t, 10, f.bookedCount(t))

	f.assertInvariants(t)
}

func TestCreateBooking_ConcurrentCapacity(t *testing.T) {
	f := newFixture(t, intPtr(10), memstore.SingleSection("Floor", 1, 20))

	_, err := f.book(labels("Floor-A", 1, 6)...)
	require.NoError(t, err)

	// Seven disjoint pairs race for the four remaining places.
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < 7; i++ {
		pair := []string{"Floor-A" + strconv.Itoa(7+2*i), "Floor-A" + strconv.Itoa(8+2*i)}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.book(pair...)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperrors.ErrCapacityExceeded):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded)
	assert.Equal(t, 5, rejected)
	assert.Equal(t, 10, f.bookedCount(t))
	f.assertInvariants(t)
}

func TestCreateBooking_NoDoubleAllocation(t *testing.T) {
	f := newFixture(t, nil, memstore.SingleSection("Floor", 1, 4))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.book("Floor-A1", "Floor-A2")
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, apperrors.ErrConflict), "got %v", err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 2, f.bookedCount(t))
	f.assertInvariants(t)
}

func TestCreateBooking_HeldSeatRejectedUntilReleased(t *testing.T) {
	f := newFixture(t, nil, memstore.SingleSection("Floor", 1, 4))
	holdSvc := holds.NewService(f.store.Holds(), f.store.Venues(), f.ledger, f.store, logger.Discard())
	ctx := context.Background()

	hold, err := holdSvc.CreateHold(ctx, f.event.ID, f.uuids("Floor-A1", "Floor-A2"), "VIP", nil)
	require.NoError(t, err)

	_, err = f.book("Floor-A1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.Contains(t, err.Error(), "on hold")
	assert.Equal(t, []string{"Floor-A1"}, apperrors.DetailsOf(err))

	holdID, err := uuid.Parse(hold.ID)
	require.NoError(t, err)
	require.NoError(t, holdSvc.ReleaseHold(ctx, holdID))

	booking, err := f.book("Floor-A1")
	require.NoError(t, err)
	assert.Equal(t, 1, booking.SeatCount)
	f.assertInvariants(t)
}

func TestCreateBooking_AlreadyBooked(t *testing.T) {
	f := newFixture(t, nil, memstore.SingleSection("Floor", 1, 4))

	_, err := f.book("Floor-A1", "Floor-A2")
	require.NoError(t, err)

	_, err = f.book("Floor-A2", "Floor-A3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, []string{"Floor-A2"}, apperrors.DetailsOf(err))

	// Nothing from the failed attempt leaked.
	assert.Equal(t, seats.StatusAvailable, f.store.SeatsByLabel(f.event.ID)["Floor-A3"].Status)
}

func TestCreateBooking_InvalidSeats(t *testing.T) {
	f := newFixture(t, nil, memstore.SingleSection("Floor", 1, 4))
	other, otherSeats, err := f.store.SeedVenue(context.Background(), events.Event{
		Name: "Matinee", StartsAt: time.Now(),
	}, memstore.SingleSection("Balcony", 1, 2))
	require.NoError(t, err)
	require.NotEqual(t, f.event.ID, other.ID)

	t.Run("unknown seat", func(t *testing.T) {
		_, err := f.svc.CreateBooking(context.Background(), bookings.CreateBookingRequest{
			EventID:       f.event.ID.String(),
			SeatIDs:       []string{uuid.NewString()},
			AttendeeName:  "Ada",
			AttendeeEmail: "ada@example.com",
		})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("seat of another venue", func(t *testing.T) {
		_, err := f.svc.CreateBooking(context.Background(), bookings.CreateBookingRequest{
			EventID:       f.event.ID.String(),
			SeatIDs:       []string{f.seats["Floor-A1"].ID.String(), otherSeats["Balcony-A1"].ID.String()},
			AttendeeName:  "Ada",
			AttendeeEmail: "ada@example.com",
		})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		assert.Equal(t, []string{"Balcony-A1"}, apperrors.DetailsOf(err))
	})

	t.Run("malformed seat id", func(t *testing.T) {
		_, err := f.svc.CreateBooking(context.Background(), bookings.CreateBookingRequest{
			EventID:       f.event.ID.String(),
			SeatIDs:       []string{f.seats["Floor-A1"].ID.String(), "not-a-seat-id"},
			AttendeeName:  "Ada",
			AttendeeEmail: "ada@example.com",
		})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		assert.Equal(t, []string{"not-a-seat-id"}, apperrors.DetailsOf(err))
		assert.Equal(t, seats.StatusAvailable, f.store.SeatsByLabel(f.event.ID)["Floor-A1"].Status)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := f.svc.CreateBooking(context.Background(), bookings.CreateBookingRequest{
			EventID:       uuid.NewString(),
			SeatIDs:       f.ids("Floor-A1"),
			AttendeeName:  "Ada",
			AttendeeEmail: "ada@example.com",
		})
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	assert.Zero(t, f.bookedCount(t))
}

func TestConfirmBooking_Idempotent(t *testing.T) {
	f := newFixture(t, nil, memstore.SingleSection("Floor", 2, 4))
	payment := bookings.PaymentConfirmation{
		PaymentReference: "pay_123",
		EventID:          f.event.ID,
		SeatIDs:          f.uuids("Floor-B1", "Floor-B2"),
		AttendeeName:     "Grace Hopper",
		AttendeeEmail:    "grace@example.com",
	}

	first, err := f.svc.ConfirmBooking(context.Background(), payment)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)
	assert.Equal(t, 2, f.bookedCount(t))

	second, err := f.svc.ConfirmBooking(context.Background(), payment)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Booking.ID, second.Booking.ID)
	assert.Len(t, second.Booking.Seats, 2)
	assert.Equal(t, 2, f.bookedCount(t))

	found, err := f.svc.FindByPaymentReference(context.Background(), "pay_123")
	require.NoError(t, err)
	assert.Equal(t, first.Booking.ID, found.ID)
	f.assertInvariants(t)
}

func TestConfirmBooking_ClearsOwnHold(t *testing.T) {
	f := newFixture(t, nil, memstore.SingleSection("Floor", 1, 4))
	holdSvc := holds.NewService(f.store.Holds(), f.store.Venues(), f.ledger, f.store, logger.Discard())

	_, err := holdSvc.CreateHold(context.Background(), f.event.ID, f.uuids("Floor-A1", "Floor-A2"), "checkout", nil)
	require.NoError(t, err)

	resp, err := f.svc.ConfirmBooking(context.Background(), bookings.PaymentConfirmation{
		PaymentReference: "pay_hold",
		EventID:          f.event.ID,
		SeatIDs:          f.uuids("Floor-A1"),
		AttendeeName:     "Grace",
		AttendeeEmail:    "grace@example.com",
	})
	require.NoError(t, err)
	assert.False(t, resp.Duplicate)

	current := f.store.SeatsByLabel(f.event.ID)
	assert.Equal(t, seats.StatusBooked, current["Floor-A1"].Status)
	assert.Nil(t, current["Floor-A1"].HoldID)
	assert.Equal(t, seats.StatusHeld, current["Floor-A2"].Status)
	f.assertInvariants(t)
}

func TestConfirmBooking_SeatsTakenByAnotherBooking(t *testing.T) {
	f := newFixture(t, nil, memstore.SingleSection("Floor", 1, 4))

	_, err := f.book("Floor-A1")
	require.NoError(t, err)

	_, err = f.svc.ConfirmBooking(context.Background(), bookings.PaymentConfirmation{
		PaymentReference: "pay_late",
		EventID:          f.event.ID,
		SeatIDs:          f.uuids("Floor-A1", "Floor-A2"),
		AttendeeName:     "Grace",
		AttendeeEmail:    "grace@example.com",
	})
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, 1, f.bookedCount(t))
}

func TestConfirmBooking_ConcurrentDuplicates(t *testing.T) {
	f := newFixture(t, nil, memstore.SingleSection("Floor", 1, 4))
	payment := bookings.PaymentConfirmation{
		PaymentReference: "pay_race",
		EventID:          f.event.ID,
		SeatIDs:          f.uuids("Floor-A1", "Floor-A2"),
		AttendeeName:     "Grace",
		AttendeeEmail:    "grace@example.com",
	}

	results := make([]*bookings.ConfirmationResponse, 5)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.svc.ConfirmBooking(context.Background(), payment)
			assert.NoError(t, err)
			results[i] = resp
		}(i)
	}
	wg.Wait()

	fresh := 0
	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, results[0].Booking.ID, r.Booking.ID)
		if !r.Duplicate {
			fresh++
		}
	}
	assert.Equal(t, 1, fresh)
	assert.Equal(t, 2, f.bookedCount(t))
}

func TestCreateBooking_PricingWithPromo(t *testing.T) {
	vipPrice := int64(5000)
	f := newFixture(t, nil, venues.CreateVenueMapRequest{
		Stage: venues.StageRequest{Width: 10, Height: 4},
		Sections: []venues.SectionRequest{
			{Name: "VIP", Rows: 1, Cols: 2, PriceCents: &vipPrice},
			{Name: "Floor", Rows: 1, Cols: 2},
		},
	})
	require.NoError(t, f.store.Promos().Create(context.Background(), &promos.Promo{
		EventID: f.event.ID, Code: "EARLY", DiscountType: promos.DiscountPercent, Value: 10, Active: true,
	}))

	resp, err := f.svc.CreateBooking(context.Background(), bookings.CreateBookingRequest{
		EventID:       f.event.ID.String(),
		SeatIDs:       f.ids("VIP-A1", "Floor-A1"),
		AttendeeName:  "Ada",
		AttendeeEmail: "ada@example.com",
		PromoCode:     " early ",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7500), resp.SubtotalCents)
	assert.Equal(t, int64(750), resp.DiscountCents)
	assert.Equal(t, int64(6750), resp.TotalCents)
	assert.Equal(t, "EARLY", resp.PromoCode)

	unknown, err := f.svc.CreateBooking(context.Background(), bookings.CreateBookingRequest{
		EventID:       f.event.ID.String(),
		SeatIDs:       f.ids("VIP-A2"),
		AttendeeName:  "Ada",
		AttendeeEmail: "ada@example.com",
		PromoCode:     "NOPE",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), unknown.TotalCents)
	assert.Empty(t, unknown.PromoCode)
}

func TestQuote_DoesNotChangeSeats(t *testing.T) {
	f := newFixture(t, nil, memstore.SingleSection("Floor", 1, 3))

	quote, err := f.svc.Quote(context.Background(), bookings.QuoteRequest{
		EventID: f.event.ID.String(),
		SeatIDs: f.ids("Floor-A1", "Floor-A2"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, quote.SeatCount)
	assert.Equal(t, int64(5000), quote.TotalCents)
	assert.Len(t, quote.Lines, 2)
	assert.Zero(t, f.bookedCount(t))
}

func TestQuote_RejectsMalformedSeatIDs(t *testing.T) {
	f := newFixture(t, nil, memstore.SingleSection("Floor", 1, 3))

	_, err := f.svc.Quote(context.Background(), bookings.QuoteRequest{
		EventID: f.event.ID.String(),
		SeatIDs: append(f.ids("Floor-A1"), "A2"),
	})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Equal(t, []string{"A2"}, apperrors.DetailsOf(err))
}

func TestDeleteBooking_ReleasesSeats(t *testing.T) {
	f := newFixture(t, intPtr(2), memstore.SingleSection("Floor", 1, 4))

	booking, err := f.book("Floor-A1", "Floor-A2")
	require.NoError(t, err)

	_, err = f.book("Floor-A3")
	require.True(t, errors.Is(err, apperrors.ErrCapacityExceeded))

	id, err := uuid.Parse(booking.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteBooking(context.Background(), id))
	assert.Zero(t, f.bookedCount(t))

	err = f.svc.DeleteBooking(context.Background(), id)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	// Capacity freed by the deletion is sellable again.
	_, err = f.book("Floor-A3")
	require.NoError(t, err)
	f.assertInvariants(t)
}

func TestCheckIn(t *testing.T) {
	f := newFixture(t, nil, memstore.SingleSection("Floor", 1, 2))

	booking, err := f.book("Floor-A1")
	require.NoError(t, err)
	id := uuid.MustParse(booking.ID)

	checked, err := f.svc.CheckIn(context.Background(), id)
	require.NoError(t, err)
	assert.NotNil(t, checked.CheckedInAt)

	_, err = f.svc.CheckIn(context.Background(), id)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	_, err = f.svc.CheckIn(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCreateBooking_TransientFailureIsUnavailable(t *testing.T) {
	f := newFixture(t, nil, memstore.SingleSection("Floor", 1, 2))
	f.store.FailTransactions(&pgconn.PgError{Code: "55P03", Message: "lock timeout"})

	_, err := f.book("Floor-A1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnavailable))
	assert.True(t, apperrors.Retryable(err))
	assert.Zero(t, f.bookedCount(t))

	_, err = f.book("Floor-A1")
	require.NoError(t, err)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*notifications.BookingEvent
	err    error
}

func (p *recordingPublisher) PublishBookingEvent(_ context.Context, e *notifications.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []notifications.BookingEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []notifications.BookingEventType
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func TestBookingEventsPublishedAfterCommit(t *testing.T) {
	f := newFixture(t, nil, memstore.SingleSection("Floor", 1, 4))
	pub := &recordingPublisher{}
	f.svc.SetPublisher(pub)

	booking, err := f.book("Floor-A1")
	require.NoError(t, err)

	payment := bookings.PaymentConfirmation{
		PaymentReference: "pay_evt",
		EventID:          f.event.ID,
		SeatIDs:          f.uuids("Floor-A2"),
		AttendeeName:     "Grace",
		AttendeeEmail:    "grace@example.com",
	}
	_, err = f.svc.ConfirmBooking(context.Background(), payment)
	require.NoError(t, err)
	_, err = f.svc.ConfirmBooking(context.Background(), payment)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteBooking(context.Background(), uuid.MustParse(booking.ID)))

	assert.Equal(t, []notifications.BookingEventType{
		notifications.BookingEventCreated,
		notifications.BookingEventConfirmed,
		notifications.BookingEventCancelled,
	}, pub.types())

	// Rejected bookings publish nothing.
	_, err = f.book("Floor-A2")
	require.Error(t, err)
	assert.Len(t, pub.types(), 3)
}

func TestPublishFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t, nil, memstore.SingleSection("Floor", 1, 2))
	f.svc.SetPublisher(&recordingPublisher{err: errors.New("kafka down")})

	_, err := f.book("Floor-A1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.bookedCount(t))
}
