package bookings

import (
	"time"

	"seatline/internal/seats"
)

type BookingResponse struct {
	ID               string               `json:"id"`
	EventID          string               `json:"event_id"`
	VenueMapID       string               `json:"venue_map_id"`
	AttendeeName     string               `json:"attendee_name"`
	AttendeeEmail    string               `json:"attendee_email"`
	PaymentReference *string              `json:"payment_reference,omitempty"`
	PromoCode        string               `json:"promo_code,omitempty"`
	SubtotalCents    int64                `json:"subtotal_cents"`
	DiscountCents    int64                `json:"discount_cents"`
	TotalCents       int64                `json:"total_cents"`
	SeatCount        int                  `json:"seat_count"`
	Seats            []seats.SeatResponse `json:"seats"`
	CheckedInAt      *time.Time           `json:"checked_in_at,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

// ConfirmationResponse tells the caller whether the payment reference had
// already been turned into this booking.
type ConfirmationResponse struct {
	Booking   BookingResponse `json:"booking"`
	Duplicate bool            `json:"duplicate"`
}

type QuoteResponse struct {
	EventID       string      `json:"event_id"`
	SeatCount     int         `json:"seat_count"`
	Lines         []PriceLine `json:"lines"`
	PromoCode     string      `json:"promo_code,omitempty"`
	SubtotalCents int64       `json:"subtotal_cents"`
	DiscountCents int64       `json:"discount_cents"`
	TotalCents    int64       `json:"total_cents"`
}

func (b *Booking) ToResponse(owned []seats.Seat) BookingResponse {
	return BookingResponse{
		ID:               b.ID.String(),
		EventID:          b.EventID.String(),
		VenueMapID:       b.VenueMapID.String(),
		AttendeeName:     b.AttendeeName,
		AttendeeEmail:    b.AttendeeEmail,
		PaymentReference: b.PaymentReference,
		PromoCode:        b.PromoCode,
		SubtotalCents:    b.SubtotalCents,
		DiscountCents:    b.DiscountCents,
		TotalCents:       b.TotalCents,
		SeatCount:        b.SeatCount,
		Seats:            seats.ToResponses(owned),
		CheckedInAt:      b.CheckedInAt,
		CreatedAt:        b.CreatedAt,
	}
}
