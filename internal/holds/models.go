package holds

import (
	"time"

	"seatline/internal/seats"

	"github.com/google/uuid"
)

// Hold is a named claim on a set of seats. Its seats are the ones whose
// hold_id points at it.
type Hold struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID    uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;index"`
	VenueMapID uuid.UUID  `json:"venue_map_id" gorm:"type:uuid;not null"`
	Label      string     `json:"label" gorm:"not null;size:64"`
	CreatedBy  *uuid.UUID `json:"created_by" gorm:"type:uuid"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (Hold) TableName() string {
	return "holds"
}

type CreateHoldRequest struct {
	EventID string   `json:"event_id" binding:"required,uuid"`
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,max=500,dive,uuid"`
	Label   string   `json:"label" binding:"required,min=1,max=64"`
}

type HoldResponse struct {
	ID         string               `json:"id"`
	EventID    string               `json:"event_id"`
	VenueMapID string               `json:"venue_map_id"`
	Label      string               `json:"label"`
	SeatCount  int                  `json:"seat_count"`
	Seats      []seats.SeatResponse `json:"seats"`
	CreatedAt  time.Time            `json:"created_at"`
}

func (h *Hold) ToResponse(held []seats.Seat) HoldResponse {
	return HoldResponse{
		ID:         h.ID.String(),
		EventID:    h.EventID.String(),
		VenueMapID: h.VenueMapID.String(),
		Label:      h.Label,
		SeatCount:  len(held),
		Seats:      seats.ToResponses(held),
		CreatedAt:  h.CreatedAt,
	}
}
