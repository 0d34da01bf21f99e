package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BookingEventType names what happened to a booking.
type BookingEventType string

const (
	BookingEventCreated   BookingEventType = "BOOKING_CREATED"
	BookingEventConfirmed BookingEventType = "BOOKING_CONFIRMED"
	BookingEventCancelled BookingEventType = "BOOKING_CANCELLED"
)

// BookingEvent is the message downstream consumers (email, QR tickets,
// analytics) receive after a booking transaction commits.
type BookingEvent struct {
	ID               uuid.UUID        `json:"id"`
	Type             BookingEventType `json:"type"`
	BookingID        uuid.UUID        `json:"booking_id"`
	EventID          uuid.UUID        `json:"event_id"`
	AttendeeName     string           `json:"attendee_name"`
	AttendeeEmail    string           `json:"attendee_email"`
	PaymentReference *string          `json:"payment_reference,omitempty"`
	SeatLabels       []string         `json:"seat_labels"`
	TotalCents       int64            `json:"total_cents"`
	OccurredAt       time.Time        `json:"occurred_at"`
}

// NewBookingEvent stamps an id and the current time.
func NewBookingEvent(eventType BookingEventType, bookingID, eventID uuid.UUID) *BookingEvent {
	return &BookingEvent{
		ID:         uuid.New(),
		Type:       eventType,
		BookingID:  bookingID,
		EventID:    eventID,
		OccurredAt: time.Now().UTC(),
	}
}

// GetPartitionKey keeps every message of one booking on one partition so
// consumers see created/cancelled in order.
func (e *BookingEvent) GetPartitionKey() string {
	return e.BookingID.String()
}

func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
