package checkout

import (
	"time"

	"github.com/google/uuid"
)

// PaymentSession is the payment integration's record of a checkout. It is
// written when the session is created and flipped to paid by the payment
// webhook; this service only reads it.
type PaymentSession struct {
	Reference     string      `json:"reference" gorm:"primaryKey;size:255"`
	EventID       uuid.UUID   `json:"event_id" gorm:"type:uuid;not null;index"`
	SeatIDs       []uuid.UUID `json:"seat_ids" gorm:"type:jsonb;serializer:json;not null"`
	AttendeeName  string      `json:"attendee_name" gorm:"not null;size:255"`
	AttendeeEmail string      `json:"attendee_email" gorm:"not null;size:255"`
	PromoCode     string      `json:"promo_code" gorm:"size:64"`
	AmountCents   int64       `json:"amount_cents" gorm:"not null;default:0"`
	Paid          bool        `json:"paid" gorm:"not null;default:false"`
	ExpiresAt     *time.Time  `json:"expires_at"`
	CreatedAt     time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

func (PaymentSession) TableName() string {
	return "payment_sessions"
}

// Payment is what the orchestrator needs to know about a reference.
type Payment struct {
	Reference     string
	Paid          bool
	EventID       uuid.UUID
	SeatIDs       []uuid.UUID
	AttendeeName  string
	AttendeeEmail string
	PromoCode     string
}

type ConfirmRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required,max=255"`
}
