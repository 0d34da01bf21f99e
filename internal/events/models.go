package events

import (
	"time"

	"github.com/google/uuid"
)

// Event carries the capacity ceiling and default seat price the booking
// service enforces. MaxSeats nil means only the physical seat count limits
// sales.
type Event struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name              string    `json:"name" gorm:"not null;size:255"`
	Description       string    `json:"description" gorm:"type:text"`
	StartsAt          time.Time `json:"starts_at" gorm:"not null"`
	MaxSeats          *int      `json:"max_seats" gorm:"check:max_seats IS NULL OR max_seats >= 0"`
	DefaultPriceCents int64     `json:"default_price_cents" gorm:"not null;default:0;check:default_price_cents >= 0"`

	CreatedBy *uuid.UUID `json:"created_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}

type EventResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	StartsAt          time.Time `json:"starts_at"`
	MaxSeats          *int      `json:"max_seats"`
	DefaultPriceCents int64     `json:"default_price_cents"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type CreateEventRequest struct {
	Name              string    `json:"name" binding:"required,min=3,max=255"`
	Description       string    `json:"description" binding:"max=2000"`
	StartsAt          time.Time `json:"starts_at" binding:"required"`
	MaxSeats          *int      `json:"max_seats" binding:"omitempty,min=0,max=1000000"`
	DefaultPriceCents int64     `json:"default_price_cents" binding:"min=0"`
}

// UpdateCapacityRequest sets or clears (null) the capacity ceiling.
type UpdateCapacityRequest struct {
	MaxSeats *int `json:"max_seats" binding:"omitempty,min=0,max=1000000"`
}

func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:                e.ID.String(),
		Name:              e.Name,
		Description:       e.Description,
		StartsAt:          e.StartsAt,
		MaxSeats:          e.MaxSeats,
		DefaultPriceCents: e.DefaultPriceCents,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

// HasCapacityFor reports whether booking requested more seats keeps the
// event within its ceiling.
func (e *Event) HasCapacityFor(booked int64, requested int) bool {
	if e.MaxSeats == nil {
		return true
	}
	return booked+int64(requested) <= int64(*e.MaxSeats)
}
