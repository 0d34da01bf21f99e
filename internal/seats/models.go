package seats

import (
	"errors"
	"fmt"
	"time"

	"seatline/internal/shared/apperrors"

	"github.com/google/uuid"
)

// Seat is one sellable unit. It belongs to exactly one section or table and
// carries at most one owner reference, matching its status.
type Seat struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueMapID uuid.UUID  `gorm:"type:uuid;index:idx_seats_venue_status;not null" json:"venue_map_id"`
	SectionID  *uuid.UUID `gorm:"type:uuid;index" json:"section_id,omitempty"`
	TableID    *uuid.UUID `gorm:"type:uuid;index" json:"table_id,omitempty"`
	Label      string     `gorm:"not null;size:32" json:"label"`
	Row        int        `gorm:"not null" json:"row"`
	Position   int        `gorm:"not null" json:"position"`
	Status     Status     `gorm:"type:varchar(16);index:idx_seats_venue_status;not null;default:'AVAILABLE';check:status IN ('AVAILABLE', 'HELD', 'BOOKED')" json:"status"`
	HoldID     *uuid.UUID `gorm:"type:uuid;index" json:"hold_id,omitempty"`
	BookingID  *uuid.UUID `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// Transition is the target state of a compare-and-set on a group of seats.
type Transition struct {
	Status    Status
	HoldID    *uuid.UUID
	BookingID *uuid.UUID
}

var ErrInvalidTransition = errors.New("invalid seat transition")

// Apply moves the seat to t if the state machine allows it.
func (s *Seat) Apply(t Transition) error {
	if !s.Status.CanTransitionTo(t.Status) {
		return fmt.Errorf("%w: %s %s -> %s", ErrInvalidTransition, s.Label, s.Status, t.Status)
	}
	s.Status = t.Status
	s.HoldID = t.HoldID
	s.BookingID = t.BookingID
	return s.CheckInvariant()
}

// CheckInvariant verifies that status and owner references agree and that
// the seat has exactly one parent.
func (s *Seat) CheckInvariant() error {
	if (s.SectionID == nil) == (s.TableID == nil) {
		return fmt.Errorf("seat %s must belong to exactly one section or table", s.Label)
	}
	switch s.Status {
	case StatusAvailable:
		if s.HoldID != nil || s.BookingID != nil {
			return fmt.Errorf("available seat %s has an owner", s.Label)
		}
	case StatusHeld:
		if s.HoldID == nil || s.BookingID != nil {
			return fmt.Errorf("held seat %s must reference only a hold", s.Label)
		}
	case StatusBooked:
		if s.BookingID == nil || s.HoldID != nil {
			return fmt.Errorf("booked seat %s must reference only a booking", s.Label)
		}
	default:
		return fmt.Errorf("seat %s has unknown status %q", s.Label, s.Status)
	}
	return nil
}

func (s *Seat) IsAvailable() bool {
	return s.Status == StatusAvailable
}

// SeatResponse for API responses
type SeatResponse struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	SectionID *string `json:"section_id,omitempty"`
	TableID   *string `json:"table_id,omitempty"`
	Row       int     `json:"row"`
	Position  int     `json:"position"`
	Status    Status  `json:"status"`
}

func (s *Seat) ToResponse() SeatResponse {
	return SeatResponse{
		ID:        s.ID.String(),
		Label:     s.Label,
		SectionID: uuidString(s.SectionID),
		TableID:   uuidString(s.TableID),
		Row:       s.Row,
		Position:  s.Position,
		Status:    s.Status,
	}
}

func ToResponses(seats []Seat) []SeatResponse {
	out := make([]SeatResponse, 0, len(seats))
	for i := range seats {
		out = append(out, seats[i].ToResponse())
	}
	return out
}

// Labels returns the labels of seats in order.
func Labels(seats []Seat) []string {
	labels := make([]string, 0, len(seats))
	for _, seat := range seats {
		labels = append(labels, seat.Label)
	}
	return labels
}

// IDs returns the ids of seats in order.
func IDs(seats []Seat) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(seats))
	for _, seat := range seats {
		ids = append(ids, seat.ID)
	}
	return ids
}

// ParseIDs parses raw seat ids. Malformed ids fail the whole set, listed
// in the error details.
func ParseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	var bad []string
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			bad = append(bad, s)
			continue
		}
		ids = append(ids, id)
	}
	if len(bad) > 0 {
		return nil, apperrors.InvalidInput("invalid seat ids", bad...)
	}
	return ids, nil
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
