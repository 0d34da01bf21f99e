package venues

import (
	"time"

	"github.com/google/uuid"
)

// VenueMap is one event's floor plan. The stage occupies the top of the
// grid; sections and tables are laid out below it.
type VenueMap struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"event_id"`
	GridCols    int       `gorm:"not null;check:grid_cols > 0" json:"grid_cols"`
	GridRows    int       `gorm:"not null;check:grid_rows > 0" json:"grid_rows"`
	StageX      int       `gorm:"not null;default:0" json:"stage_x"`
	StageY      int       `gorm:"not null;default:0" json:"stage_y"`
	StageWidth  int       `gorm:"not null;default:0" json:"stage_width"`
	StageHeight int       `gorm:"not null;default:0" json:"stage_height"`
	Sections    []Section `gorm:"foreignKey:VenueMapID" json:"sections"`
	Tables      []Table   `gorm:"foreignKey:VenueMapID" json:"tables"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (VenueMap) TableName() string {
	return "venue_maps"
}

// Section is a rows x cols block of seats positioned by its top-left cell.
type Section struct {
	ID                  uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueMapID          uuid.UUID `gorm:"type:uuid;not null;index" json:"venue_map_id"`
	Name                string    `gorm:"not null;size:64" json:"name"`
	Rows                int       `gorm:"not null;check:rows > 0" json:"rows"`
	Cols                int       `gorm:"not null;check:cols > 0" json:"cols"`
	PosX                int       `gorm:"not null" json:"pos_x"`
	PosY                int       `gorm:"not null" json:"pos_y"`
	HasExplicitPosition bool      `gorm:"not null;default:false" json:"has_explicit_position"`
	Color               string    `gorm:"size:16" json:"color"`
	PriceCents          *int64    `gorm:"check:price_cents IS NULL OR price_cents >= 0" json:"price_cents"`
	SortOrder           int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (Section) TableName() string {
	return "venue_sections"
}

// Table is a ring of SeatCount seats positioned by its center cell.
type Table struct {
	ID                  uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueMapID          uuid.UUID `gorm:"type:uuid;not null;index" json:"venue_map_id"`
	Name                string    `gorm:"not null;size:64" json:"name"`
	SeatCount           int       `gorm:"not null;check:seat_count > 0" json:"seat_count"`
	CenterX             int       `gorm:"not null" json:"center_x"`
	CenterY             int       `gorm:"not null" json:"center_y"`
	HasExplicitPosition bool      `gorm:"not null;default:false" json:"has_explicit_position"`
	Color               string    `gorm:"size:16" json:"color"`
	PriceCents          *int64    `gorm:"check:price_cents IS NULL OR price_cents >= 0" json:"price_cents"`
	SortOrder           int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (Table) TableName() string {
	return "venue_tables"
}

// PriceTiers maps every section and table id of the map to its price.
// Parents without a price are absent.
func (vm *VenueMap) PriceTiers() map[uuid.UUID]int64 {
	tiers := make(map[uuid.UUID]int64, len(vm.Sections)+len(vm.Tables))
	for _, s := range vm.Sections {
		if s.PriceCents != nil {
			tiers[s.ID] = *s.PriceCents
		}
	}
	for _, t := range vm.Tables {
		if t.PriceCents != nil {
			tiers[t.ID] = *t.PriceCents
		}
	}
	return tiers
}

// Layout converts the map into placer input.
func (vm *VenueMap) Layout() Layout {
	l := Layout{
		GridCols: vm.GridCols,
		GridRows: vm.GridRows,
		Stage:    Rect{X: vm.StageX, Y: vm.StageY, W: vm.StageWidth, H: vm.StageHeight},
	}
	for _, s := range vm.Sections {
		l.Sections = append(l.Sections, SectionSlot{
			Rows: s.Rows, Cols: s.Cols, X: s.PosX, Y: s.PosY, Explicit: s.HasExplicitPosition,
		})
	}
	for _, t := range vm.Tables {
		l.Tables = append(l.Tables, TableSlot{
			CenterX: t.CenterX, CenterY: t.CenterY, Explicit: t.HasExplicitPosition,
		})
	}
	return l
}

// ApplyLayout copies placed coordinates and grid size back onto the map.
func (vm *VenueMap) ApplyLayout(l Layout) {
	vm.GridCols = l.GridCols
	vm.GridRows = l.GridRows
	for i := range vm.Sections {
		vm.Sections[i].PosX = l.Sections[i].X
		vm.Sections[i].PosY = l.Sections[i].Y
	}
	for i := range vm.Tables {
		vm.Tables[i].CenterX = l.Tables[i].CenterX
		vm.Tables[i].CenterY = l.Tables[i].CenterY
	}
}
