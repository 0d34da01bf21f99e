package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"seatline/internal/checkout"
	"seatline/internal/events"
	"seatline/internal/promos"
	"seatline/internal/seats"
	"seatline/internal/shared/config"
	"seatline/internal/shared/database"
	"seatline/internal/shared/transaction"
	"seatline/internal/venues"
	"seatline/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Seeder struct {
	db        *database.DB
	txManager transaction.Manager
	log       *logger.Logger
}

func main() {
	fmt.Println("Starting Seatline database seeder...")

	cfg := config.Load()
	appLogger := logger.NewWithLevel(cfg.LogLevel)
	cfg.Redis.Enabled = false

	db, err := database.InitDB(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db, txManager: db.TxManager(cfg.Booking), log: appLogger}

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\nSeeding completed. Database is ready for testing.")
}

// CleanDatabase truncates every table; CASCADE takes care of ordering.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"payment_sessions",
		"promos",
		"seats",
		"bookings",
		"holds",
		"venue_tables",
		"venue_sections",
		"venue_maps",
		"events",
	}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

// SeedAll creates one event with a mixed floor plan, a promo code and two
// payment sessions: one paid, one still pending.
func (s *Seeder) SeedAll(ctx context.Context) error {
	pg := s.db.PostgreSQL
	eventsRepo := events.NewRepository(pg)
	ledger := seats.NewLedger(seats.NewRepository(pg))

	eventService := events.NewService(eventsRepo, s.txManager, s.log)
	maxSeats := 40
	event, err := eventService.CreateEvent(ctx, nil, events.CreateEventRequest{
		Name:              "Seatline Launch Night",
		Description:       "Seeded event with sections, tables and a promo code",
		StartsAt:          time.Now().Add(14 * 24 * time.Hour),
		MaxSeats:          &maxSeats,
		DefaultPriceCents: 2500,
	})
	if err != nil {
		return fmt.Errorf("failed to seed event: %w", err)
	}
	eventID := uuid.MustParse(event.ID)
	fmt.Printf("  Event: %s (%s)\n", event.Name, event.ID)

	vip := int64(5000)
	table := int64(8000)
	venueService := venues.NewService(venues.NewRepository(pg), eventsRepo, ledger, s.txManager, s.log)
	vm, err := venueService.CreateVenueMap(ctx, eventID, venues.CreateVenueMapRequest{
		Stage: venues.StageRequest{Width: 16, Height: 3},
		Sections: []venues.SectionRequest{
			{Name: "VIP", Rows: 2, Cols: 6, Color: "#d4af37", PriceCents: &vip},
			{Name: "Floor", Rows: 4, Cols: 8, Color: "#4a90d9"},
		},
		Tables: []venues.TableRequest{
			{Name: "T1", SeatCount: 6, PriceCents: &table},
			{Name: "T2", SeatCount: 6, PriceCents: &table},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to seed venue map: %w", err)
	}
	fmt.Printf("  Venue map: %d seats on a %dx%d grid\n", vm.SeatCount, vm.GridCols, vm.GridRows)

	promoService := promos.NewService(promos.NewRepository(pg), eventsRepo)
	if _, err := promoService.CreatePromo(ctx, eventID, promos.CreatePromoRequest{
		Code:         "EARLY",
		DiscountType: promos.DiscountPercent,
		Value:        10,
	}); err != nil {
		return fmt.Errorf("failed to seed promo: %w", err)
	}
	fmt.Println("  Promo: EARLY (10%)")

	all, err := ledger.SeatsForVenueMap(ctx, uuid.MustParse(vm.ID))
	if err != nil {
		return err
	}
	byLabel := make(map[string]uuid.UUID, len(all))
	for _, seat := range all {
		byLabel[seat.Label] = seat.ID
	}

	expires := time.Now().Add(30 * time.Minute)
	sessions := []checkout.PaymentSession{
		{
			Reference:     "pay_demo_paid",
			EventID:       eventID,
			SeatIDs:       []uuid.UUID{byLabel["VIP-A1"], byLabel["VIP-A2"]},
			AttendeeName:  "Ada Lovelace",
			AttendeeEmail: "ada@example.com",
			PromoCode:     "EARLY",
			AmountCents:   9000,
			Paid:          true,
			ExpiresAt:     &expires,
		},
		{
			Reference:     "pay_demo_pending",
			EventID:       eventID,
			SeatIDs:       []uuid.UUID{byLabel["T1-1"]},
			AttendeeName:  "Alan Turing",
			AttendeeEmail: "alan@example.com",
			AmountCents:   8000,
			ExpiresAt:     &expires,
		},
	}
	if err := pg.WithContext(ctx).Create(&sessions).Error; err != nil {
		return fmt.Errorf("failed to seed payment sessions: %w", err)
	}
	for _, session := range sessions {
		fmt.Printf("  Payment session: %s (paid=%t)\n", session.Reference, session.Paid)
	}

	return nil
}
