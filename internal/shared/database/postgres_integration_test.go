//go:build integration

// Run with a disposable database:
//
//	SEATLINE_TEST_DATABASE_DSN="host=localhost user=postgres password=postgres dbname=seatline_test sslmode=disable" \
//	    go test -tags integration ./internal/shared/database/...
package database_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"seatline/internal/bookings"
	"seatline/internal/events"
	"seatline/internal/holds"
	"seatline/internal/promos"
	"seatline/internal/seats"
	"seatline/internal/shared/apperrors"
	"seatline/internal/shared/database"
	"seatline/internal/shared/transaction"
	"seatline/internal/venues"
	"seatline/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type pgFixture struct {
	db        *gorm.DB
	txManager transaction.Manager
	seatsRepo seats.Repository
	ledger    *seats.Ledger
	bookings  bookings.Service
	event     events.Event
	seats     map[string]seats.Seat
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("SEATLINE_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("SEATLINE_TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.MigrateConstraints(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newPgFixture(t *testing.T, maxSeats *int, rows, cols int) *pgFixture {
	t.Helper()
	db := openTestDB(t)
	ctx := context.Background()

	txManager := transaction.NewGormManager(db, transaction.Options{
		Timeout:     10 * time.Second,
		LockTimeout: 5 * time.Second,
	})
	eventsRepo := events.NewRepository(db)
	venuesRepo := venues.NewRepository(db)
	seatsRepo := seats.NewRepository(db)
	ledger := seats.NewLedger(seatsRepo)

	event := events.Event{
		Name:              "Integration " + uuid.NewString()[:8],
		StartsAt:          time.Now().Add(24 * time.Hour).UTC(),
		MaxSeats:          maxSeats,
		DefaultPriceCents: 1000,
	}
	require.NoError(t, eventsRepo.Create(ctx, &event))

	venueSvc := venues.NewService(venuesRepo, eventsRepo, ledger, txManager, logger.Discard())
	vm, err := venueSvc.CreateVenueMap(ctx, event.ID, venues.CreateVenueMapRequest{
		Stage:    venues.StageRequest{Width: 10, Height: 4},
		Sections: []venues.SectionRequest{{Name: "Floor", Rows: rows, Cols: cols}},
	})
	require.NoError(t, err)

	list, err := seatsRepo.GetSeatsByVenueMapID(ctx, uuid.MustParse(vm.ID))
	require.NoError(t, err)
	byLabel := make(map[string]seats.Seat, len(list))
	for _, s := range list {
		byLabel[s.Label] = s
	}

	svc := bookings.NewService(bookings.NewRepository(db), eventsRepo, venuesRepo, promos.NewRepository(db), ledger, txManager, logger.Discard())
	return &pgFixture{
		db:        db,
		txManager: txManager,
		seatsRepo: seatsRepo,
		ledger:    ledger,
		bookings:  svc,
		event:     event,
		seats:     byLabel,
	}
}

func (f *pgFixture) ids(labels ...string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(labels))
	for _, l := range labels {
		out = append(out, f.seats[l].ID)
	}
	return out
}

func TestCompareAndSwapOnlyMovesMatchingRows(t *testing.T) {
	f := newPgFixture(t, nil, 1, 3)
	ctx := context.Background()
	hold := holds.Hold{ID: uuid.New(), EventID: f.event.ID, VenueMapID: f.seats["Floor-A1"].VenueMapID, Label: "press"}

	err := f.txManager.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, holds.NewRepository(f.db).Create(ctx, &hold))

		locked, err := f.seatsRepo.LockSeats(ctx, f.ids("Floor-A3", "Floor-A1", "Floor-A2"))
		require.NoError(t, err)
		require.Len(t, locked, 3)
		for i := 1; i < len(locked); i++ {
			assert.Less(t, locked[i-1].ID.String(), locked[i].ID.String())
		}

		n, err := f.seatsRepo.CompareAndSwap(ctx, f.ids("Floor-A1", "Floor-A2"), []seats.Status{seats.StatusHeld},
			seats.Transition{Status: seats.StatusAvailable})
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = f.seatsRepo.CompareAndSwap(ctx, f.ids("Floor-A1", "Floor-A2"), []seats.Status{seats.StatusAvailable},
			seats.Transition{Status: seats.StatusHeld, HoldID: &hold.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = f.seatsRepo.CompareAndSwap(ctx, f.ids("Floor-A1", "Floor-A2", "Floor-A3"), []seats.Status{seats.StatusAvailable},
			seats.Transition{Status: seats.StatusHeld, HoldID: &hold.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		return nil
	})
	require.NoError(t, err)

	held, err := f.seatsRepo.GetSeatsByHoldID(ctx, hold.ID)
	require.NoError(t, err)
	assert.Len(t, held, 3)
}

func TestOwnerCheckRejectsHeldSeatWithoutHold(t *testing.T) {
	f := newPgFixture(t, nil, 1, 2)

	err := f.txManager.WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := f.seatsRepo.CompareAndSwap(ctx, f.ids("Floor-A1"), []seats.Status{seats.StatusAvailable},
			seats.Transition{Status: seats.StatusHeld})
		return err
	})
	require.Error(t, err)

	list, err := f.seatsRepo.GetSeatsByVenueMapID(context.Background(), f.seats["Floor-A1"].VenueMapID)
	require.NoError(t, err)
	for _, s := range list {
		assert.Equal(t, seats.StatusAvailable, s.Status)
	}
}

func TestConcurrentBookingsRespectCapacity(t *testing.T) {
	limit := 3
	f := newPgFixture(t, &limit, 1, 8)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		rejected int
	)
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(label string) {
			defer wg.Done()
			_, err := f.bookings.CreateBooking(context.Background(), bookings.CreateBookingRequest{
				EventID:       f.event.ID.String(),
				SeatIDs:       []string{f.seats[label].ID.String()},
				AttendeeName:  "Ada",
				AttendeeEmail: "ada@example.com",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, apperrors.ErrCapacityExceeded):
				rejected++
			default:
				t.Errorf("unexpected error for %s: %v", label, err)
			}
		}(fmt.Sprintf("Floor-A%d", i))
	}
	wg.Wait()

	assert.Equal(t, 3, created)
	assert.Equal(t, 5, rejected)

	booked, err := f.ledger.CountBooked(context.Background(), f.seats["Floor-A1"].VenueMapID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), booked)
}

func TestConcurrentConfirmationsShareOneBooking(t *testing.T) {
	f := newPgFixture(t, nil, 1, 4)
	payment := bookings.PaymentConfirmation{
		PaymentReference: "pay_" + uuid.NewString(),
		EventID:          f.event.ID,
		SeatIDs:          f.ids("Floor-A1", "Floor-A2"),
		AttendeeName:     "Grace",
		AttendeeEmail:    "grace@example.com",
	}

	results := make([]*bookings.ConfirmationResponse, 4)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.bookings.ConfirmBooking(context.Background(), payment)
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
}
