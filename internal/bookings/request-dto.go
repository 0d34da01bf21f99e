package bookings

import "github.com/google/uuid"

type CreateBookingRequest struct {
	EventID       string   `json:"event_id" binding:"required,uuid"`
	SeatIDs       []string `json:"seat_ids" binding:"required,min=1,max=500,dive,uuid"`
	AttendeeName  string   `json:"attendee_name" binding:"required,min=1,max=255"`
	AttendeeEmail string   `json:"attendee_email" binding:"required,email,max=255"`
	PromoCode     string   `json:"promo_code" binding:"omitempty,max=64"`
}

type QuoteRequest struct {
	EventID   string   `json:"event_id" binding:"required,uuid"`
	SeatIDs   []string `json:"seat_ids" binding:"required,min=1,max=500,dive,uuid"`
	PromoCode string   `json:"promo_code" binding:"omitempty,max=64"`
}

// PaymentConfirmation is what the payment subsystem knows about a paid
// checkout session.
type PaymentConfirmation struct {
	PaymentReference string
	EventID          uuid.UUID
	SeatIDs          []uuid.UUID
	AttendeeName     string
	AttendeeEmail    string
	PromoCode        string
}
