package venues

import (
	"strconv"

	"seatline/internal/seats"

	"github.com/google/uuid"
)

// RowLabel turns a zero-based row index into A, B, ..., Z, AA, AB, ...
func RowLabel(index int) string {
	label := ""
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		label = string(rune('A'+(n-1)%26)) + label
	}
	return label
}

// SectionSeatLabel names a section seat, e.g. "Orchestra-B12".
func SectionSeatLabel(section string, row, position int) string {
	return section + "-" + RowLabel(row-1) + strconv.Itoa(position)
}

// TableSeatLabel names a table seat, e.g. "T4-3".
func TableSeatLabel(table string, position int) string {
	return table + "-" + strconv.Itoa(position)
}

// GenerateSeats builds every seat of the map in AVAILABLE state. Section
// and table ids must already be assigned.
func GenerateSeats(vm *VenueMap) []seats.Seat {
	total := 0
	for _, s := range vm.Sections {
		total += s.Rows * s.Cols
	}
	for _, t := range vm.Tables {
		total += t.SeatCount
	}

	out := make([]seats.Seat, 0, total)
	for _, s := range vm.Sections {
		sectionID := s.ID
		for row := 1; row <= s.Rows; row++ {
			for pos := 1; pos <= s.Cols; pos++ {
				out = append(out, seats.Seat{
					ID:         uuid.New(),
					VenueMapID: vm.ID,
					SectionID:  &sectionID,
					Label:      SectionSeatLabel(s.Name, row, pos),
					Row:        row,
					Position:   pos,
					Status:     seats.StatusAvailable,
				})
			}
		}
	}
	for _, t := range vm.Tables {
		tableID := t.ID
		for pos := 1; pos <= t.SeatCount; pos++ {
			out = append(out, seats.Seat{
				ID:         uuid.New(),
				VenueMapID: vm.ID,
				TableID:    &tableID,
				Label:      TableSeatLabel(t.Name, pos),
				Row:        1,
				Position:   pos,
				Status:     seats.StatusAvailable,
			})
		}
	}
	return out
}

// buildVenueMap turns a request into an unplaced map with fresh ids.
func buildVenueMap(eventID uuid.UUID, req CreateVenueMapRequest) *VenueMap {
	vm := &VenueMap{
		ID:          uuid.New(),
		EventID:     eventID,
		GridCols:    req.GridCols,
		GridRows:    req.GridRows,
		StageX:      req.Stage.X,
		StageY:      req.Stage.Y,
		StageWidth:  req.Stage.Width,
		StageHeight: req.Stage.Height,
	}
	for i, s := range req.Sections {
		section := Section{
			ID:         uuid.New(),
			VenueMapID: vm.ID,
			Name:       s.Name,
			Rows:       s.Rows,
			Cols:       s.Cols,
			Color:      s.Color,
			PriceCents: s.PriceCents,
			SortOrder:  i,
		}
		if s.Position != nil {
			section.PosX, section.PosY = s.Position.X, s.Position.Y
			section.HasExplicitPosition = true
		}
		vm.Sections = append(vm.Sections, section)
	}
	for i, t := range req.Tables {
		table := Table{
			ID:         uuid.New(),
			VenueMapID: vm.ID,
			Name:       t.Name,
			SeatCount:  t.SeatCount,
			Color:      t.Color,
			PriceCents: t.PriceCents,
			SortOrder:  i,
		}
		if t.Center != nil {
			table.CenterX, table.CenterY = t.Center.X, t.Center.Y
			table.HasExplicitPosition = true
		}
		vm.Tables = append(vm.Tables, table)
	}
	return vm
}

// copyVenueMap clones src for another event with fresh ids. Items placed
// by the layout placer are reset so the placer chooses their position again.
func copyVenueMap(src *VenueMap, eventID uuid.UUID) *VenueMap {
	req := CreateVenueMapRequest{
		GridCols: src.GridCols,
		GridRows: src.GridRows,
		Stage: StageRequest{
			X: src.StageX, Y: src.StageY, Width: src.StageWidth, Height: src.StageHeight,
		},
	}
	for _, s := range src.Sections {
		sr := SectionRequest{Name: s.Name, Rows: s.Rows, Cols: s.Cols, Color: s.Color, PriceCents: copyPrice(s.PriceCents)}
		if s.HasExplicitPosition {
			sr.Position = &PositionRequest{X: s.PosX, Y: s.PosY}
		}
		req.Sections = append(req.Sections, sr)
	}
	for _, t := range src.Tables {
		tr := TableRequest{Name: t.Name, SeatCount: t.SeatCount, Color: t.Color, PriceCents: copyPrice(t.PriceCents)}
		if t.HasExplicitPosition {
			tr.Center = &PositionRequest{X: t.CenterX, Y: t.CenterY}
		}
		req.Tables = append(req.Tables, tr)
	}
	return buildVenueMap(eventID, req)
}

func copyPrice(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// duplicateNames returns names used by more than one section or table.
// Seat labels are derived from them and must stay unique within a map.
func duplicateNames(req CreateVenueMapRequest) []string {
	seen := make(map[string]int)
	var dups []string
	add := func(name string) {
		seen[name]++
		if seen[name] == 2 {
			dups = append(dups, name)
		}
	}
	for _, s := range req.Sections {
		add(s.Name)
	}
	for _, t := range req.Tables {
		add(t.Name)
	}
	return dups
}
