package venues

type StageRequest struct {
	X      int `json:"x" binding:"min=0,max=1000"`
	Y      int `json:"y" binding:"min=0,max=1000"`
	Width  int `json:"width" binding:"required,min=1,max=1000"`
	Height int `json:"height" binding:"required,min=1,max=1000"`
}

// PositionRequest is an operator supplied coordinate. A nil position asks
// the layout placer to choose one; an explicit {0, 0} is kept as is.
type PositionRequest struct {
	X int `json:"x" binding:"min=0,max=1000"`
	Y int `json:"y" binding:"min=0,max=1000"`
}

type SectionRequest struct {
	Name       string           `json:"name" binding:"required,min=1,max=64"`
	Rows       int              `json:"rows" binding:"required,min=1,max=100"`
	Cols       int              `json:"cols" binding:"required,min=1,max=100"`
	Position   *PositionRequest `json:"position"`
	Color      string           `json:"color" binding:"hexcolor_or_empty"`
	PriceCents *int64           `json:"price_cents" binding:"omitempty,min=0"`
}

type TableRequest struct {
	Name       string           `json:"name" binding:"required,min=1,max=64"`
	SeatCount  int              `json:"seat_count" binding:"required,min=1,max=24"`
	Center     *PositionRequest `json:"center"`
	Color      string           `json:"color" binding:"hexcolor_or_empty"`
	PriceCents *int64           `json:"price_cents" binding:"omitempty,min=0"`
}

type CreateVenueMapRequest struct {
	GridCols int              `json:"grid_cols" binding:"min=0,max=1000"`
	GridRows int              `json:"grid_rows" binding:"min=0,max=1000"`
	Stage    StageRequest     `json:"stage"`
	Sections []SectionRequest `json:"sections" binding:"max=50,dive"`
	Tables   []TableRequest   `json:"tables" binding:"max=200,dive"`
}

type DuplicateVenueMapRequest struct {
	SourceEventID string `json:"source_event_id" binding:"required,uuid"`
}
