package database

import (
	"fmt"

	"seatline/internal/bookings"
	"seatline/internal/checkout"
	"seatline/internal/events"
	"seatline/internal/holds"
	"seatline/internal/promos"
	"seatline/internal/seats"
	"seatline/internal/venues"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to enable uuid-ossp: %w", err)
	}

	return db.AutoMigrate(
		&events.Event{},
		&venues.VenueMap{},
		&venues.Section{},
		&venues.Table{},
		&holds.Hold{},
		&bookings.Booking{},
		&seats.Seat{},
		&promos.Promo{},
		&checkout.PaymentSession{},
	)
}
