package holds_test

import (
	"context"
	"testing"
	"time"

	"seatline/internal/bookings"
	"seatline/internal/events"
	"seatline/internal/holds"
	"seatline/internal/seats"
	"seatline/internal/shared/apperrors"
	"seatline/internal/testutil/memstore"
	"seatline/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memstore.Store
	svc      holds.Service
	bookings bookings.Service
	eventID  uuid.UUID
	seats    map[string]seats.Seat
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	event, byLabel, err := store.SeedVenue(context.Background(), events.Event{
		Name:     "Gala",
		StartsAt: time.Now().Add(72 * time.Hour),
	}, memstore.SingleSection("Balcony", 2, 4))
	require.NoError(t, err)

	ledger := seats.NewLedger(store.Seats())
	return &fixture{
		store:    store,
		svc:      holds.NewService(store.Holds(), store.Venues(), ledger, store, logger.Discard()),
		bookings: bookings.NewService(store.Bookings(), store.Events(), store.Venues(), store.Promos(), ledger, store, logger.Discard()),
		eventID:  event.ID,
		seats:    byLabel,
	}
}

func (f *fixture) ids(labels ...string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(labels))
	for _, l := range labels {
		out = append(out, f.seats[l].ID)
	}
	return out
}

func (f *fixture) status(label string) seats.Status {
	return f.store.SeatsByLabel(f.eventID)[label].Status
}

func TestCreateHold(t *testing.T) {
	f := newFixture(t)

	hold, err := f.svc.CreateHold(context.Background(), f.eventID, f.ids("Balcony-A1", "Balcony-A2"), "press", nil)
	require.NoError(t, err)
	assert.Equal(t, "press", hold.Label)
	assert.Equal(t, 2, hold.SeatCount)

	holdID := uuid.MustParse(hold.ID)
	for _, l := range []string{"Balcony-A1", "Balcony-A2"} {
		seat := f.store.SeatsByLabel(f.eventID)[l]
		assert.Equal(t, seats.StatusHeld, seat.Status)
		require.NotNil(t, seat.HoldID)
		assert.Equal(t, holdID, *seat.HoldID)
	}
	assert.Equal(t, seats.StatusAvailable, f.status("Balcony-A3"))
}

func TestCreateHoldRequiresLabel(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateHold(context.Background(), f.eventID, f.ids("Balcony-A1"), "", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, 0, f.store.Transactions())
}

func TestCreateHoldRejectsTakenSeats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateHold(ctx, f.eventID, f.ids("Balcony-A1"), "sponsor", nil)
	require.NoError(t, err)

	_, err = f.svc.CreateHold(ctx, f.eventID, f.ids("Balcony-A1", "Balcony-A2"), "press", nil)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, apperrors.DetailsOf(err), "Balcony-A1")

	// The failed hold leaves nothing behind.
	assert.Equal(t, seats.StatusAvailable, f.status("Balcony-A2"))
	list, err := f.svc.ListHolds(ctx, f.eventID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateHoldUnknownEvent(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateHold(context.Background(), uuid.New(), f.ids("Balcony-A1"), "press", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestHeldSeatsBlockBookingUntilReleased(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hold, err := f.svc.CreateHold(ctx, f.eventID, f.ids("Balcony-B1", "Balcony-B2"), "vip", nil)
	require.NoError(t, err)

	req := bookings.CreateBookingRequest{
		EventID:       f.eventID.String(),
		SeatIDs:       []string{f.seats["Balcony-B1"].ID.String()},
		AttendeeName:  "Alan Turing",
		AttendeeEmail: "alan@example.com",
	}
	_, err = f.bookings.CreateBooking(ctx, req)
	require.ErrorIs(t, err, apperrors.ErrConflict)

	require.NoError(t, f.svc.ReleaseHold(ctx, uuid.MustParse(hold.ID)))
	assert.Equal(t, seats.StatusAvailable, f.status("Balcony-B1"))
	assert.Equal(t, seats.StatusAvailable, f.status("Balcony-B2"))

	booking, err := f.bookings.CreateBooking(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, booking.SeatCount)
}

func TestReleaseHoldTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hold, err := f.svc.CreateHold(ctx, f.eventID, f.ids("Balcony-A4"), "crew", nil)
	require.NoError(t, err)
	holdID := uuid.MustParse(hold.ID)

	require.NoError(t, f.svc.ReleaseHold(ctx, holdID))
	err = f.svc.ReleaseHold(ctx, holdID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReleaseHoldLeavesOtherHoldsAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	press, err := f.svc.CreateHold(ctx, f.eventID, f.ids("Balcony-A1"), "press", nil)
	require.NoError(t, err)
	_, err = f.svc.CreateHold(ctx, f.eventID, f.ids("Balcony-A2"), "sponsor", nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.ReleaseHold(ctx, uuid.MustParse(press.ID)))
	assert.Equal(t, seats.StatusAvailable, f.status("Balcony-A1"))
	assert.Equal(t, seats.StatusHeld, f.status("Balcony-A2"))
}

func TestGetAndListHolds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	createdBy := uuid.New()

	created, err := f.svc.CreateHold(ctx, f.eventID, f.ids("Balcony-A1", "Balcony-B4"), "press", &createdBy)
	require.NoError(t, err)

	got, err := f.svc.GetHold(ctx, uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.ElementsMatch(t, []string{"Balcony-A1", "Balcony-B4"}, []string{got.Seats[0].Label, got.Seats[1].Label})

	list, err := f.svc.ListHolds(ctx, f.eventID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].SeatCount)

	_, err = f.svc.GetHold(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
