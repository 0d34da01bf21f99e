package venues

import (
	"time"

	"seatline/internal/seats"
)

type StageResponse struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type SectionResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Rows                int    `json:"rows"`
	Cols                int    `json:"cols"`
	X                   int    `json:"x"`
	Y                   int    `json:"y"`
	HasExplicitPosition bool   `json:"has_explicit_position"`
	Color               string `json:"color,omitempty"`
	PriceCents          *int64 `json:"price_cents,omitempty"`
}

type TableResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	SeatCount           int    `json:"seat_count"`
	CenterX             int    `json:"center_x"`
	CenterY             int    `json:"center_y"`
	HasExplicitPosition bool   `json:"has_explicit_position"`
	Color               string `json:"color,omitempty"`
	PriceCents          *int64 `json:"price_cents,omitempty"`
}

type VenueMapResponse struct {
	ID        string            `json:"id"`
	EventID   string            `json:"event_id"`
	GridCols  int               `json:"grid_cols"`
	GridRows  int               `json:"grid_rows"`
	Stage     StageResponse     `json:"stage"`
	Sections  []SectionResponse `json:"sections"`
	Tables    []TableResponse   `json:"tables"`
	SeatCount int               `json:"seat_count"`
	CreatedAt time.Time         `json:"created_at"`
}

type SeatCounts struct {
	Available int `json:"available"`
	Held      int `json:"held"`
	Booked    int `json:"booked"`
}

// SeatMapResponse is the cached per-event snapshot of seat statuses.
type SeatMapResponse struct {
	EventID    string               `json:"event_id"`
	VenueMapID string               `json:"venue_map_id"`
	Counts     SeatCounts           `json:"counts"`
	Seats      []seats.SeatResponse `json:"seats"`
}

func (vm *VenueMap) ToResponse() VenueMapResponse {
	resp := VenueMapResponse{
		ID:       vm.ID.String(),
		EventID:  vm.EventID.String(),
		GridCols: vm.GridCols,
		GridRows: vm.GridRows,
		Stage: StageResponse{
			X: vm.StageX, Y: vm.StageY, Width: vm.StageWidth, Height: vm.StageHeight,
		},
		Sections:  make([]SectionResponse, 0, len(vm.Sections)),
		Tables:    make([]TableResponse, 0, len(vm.Tables)),
		CreatedAt: vm.CreatedAt,
	}
	for _, s := range vm.Sections {
		resp.Sections = append(resp.Sections, SectionResponse{
			ID:                  s.ID.String(),
			Name:                s.Name,
			Rows:                s.Rows,
			Cols:                s.Cols,
			X:                   s.PosX,
			Y:                   s.PosY,
			HasExplicitPosition: s.HasExplicitPosition,
			Color:               s.Color,
			PriceCents:          s.PriceCents,
		})
		resp.SeatCount += s.Rows * s.Cols
	}
	for _, t := range vm.Tables {
		resp.Tables = append(resp.Tables, TableResponse{
			ID:                  t.ID.String(),
			Name:                t.Name,
			SeatCount:           t.SeatCount,
			CenterX:             t.CenterX,
			CenterY:             t.CenterY,
			HasExplicitPosition: t.HasExplicitPosition,
			Color:               t.Color,
			PriceCents:          t.PriceCents,
		})
		resp.SeatCount += t.SeatCount
	}
	return resp
}

func newSeatMapResponse(vm *VenueMap, all []seats.Seat) SeatMapResponse {
	resp := SeatMapResponse{
		EventID:    vm.EventID.String(),
		VenueMapID: vm.ID.String(),
		Seats:      seats.ToResponses(all),
	}
	for _, seat := range all {
		switch seat.Status {
		case seats.StatusAvailable:
			resp.Counts.Available++
		case seats.StatusHeld:
			resp.Counts.Held++
		case seats.StatusBooked:
			resp.Counts.Booked++
		}
	}
	return resp
}
