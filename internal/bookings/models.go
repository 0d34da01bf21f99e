package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is a confirmed reservation. Its seats are the ones whose
// booking_id points at it; deleting the booking releases them.
type Booking struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID       uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	VenueMapID    uuid.UUID `json:"venue_map_id" gorm:"type:uuid;not null"`
	AttendeeName  string    `json:"attendee_name" gorm:"not null;size:255"`
	AttendeeEmail string    `json:"attendee_email" gorm:"not null;size:255;index"`

	// PaymentReference is set for bookings created by payment confirmation
	// and is what makes confirmation idempotent.
	PaymentReference *string `json:"payment_reference" gorm:"size:255;uniqueIndex:idx_bookings_payment_reference"`

	PromoCode     string `json:"promo_code" gorm:"size:64"`
	SubtotalCents int64  `json:"subtotal_cents" gorm:"not null;default:0"`
	DiscountCents int64  `json:"discount_cents" gorm:"not null;default:0"`
	TotalCents    int64  `json:"total_cents" gorm:"not null;default:0;check:total_cents >= 0"`
	SeatCount     int    `json:"seat_count" gorm:"not null"`

	CheckedInAt *time.Time `json:"checked_in_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) IsCheckedIn() bool {
	return b.CheckedInAt != nil
}
