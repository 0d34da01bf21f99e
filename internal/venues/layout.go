package venues

// Layout constants, in grid cells.
const (
	StageMargin     = 2
	TableFootprint  = 4
	TableGap        = 1
	TableBandHeight = 6
	SectionGap      = 1
	SideMargin      = 1
	BottomMargin    = 2
)

// Rect is a half-open block of grid cells: [X, X+W) x [Y, Y+H).
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Bottom() int { return r.Y + r.H }
func (r Rect) Right() int  { return r.X + r.W }

// Overlaps reports whether two rectangles share at least one cell.
func (r Rect) Overlaps(o Rect) bool {
	if r.W <= 0 || r.H <= 0 || o.W <= 0 || o.H <= 0 {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// SectionSlot is a section as the placer sees it. X and Y are the top-left
// cell and are only read when Explicit is set.
type SectionSlot struct {
	Rows, Cols int
	X, Y       int
	Explicit   bool
}

func (s SectionSlot) Rect() Rect {
	return Rect{X: s.X, Y: s.Y, W: s.Cols, H: s.Rows}
}

// TableSlot is a table as the placer sees it, positioned by its center.
type TableSlot struct {
	CenterX, CenterY int
	Explicit         bool
}

func (t TableSlot) Rect() Rect {
	half := TableFootprint / 2
	return Rect{X: t.CenterX - half, Y: t.CenterY - half, W: TableFootprint, H: TableFootprint}
}

// Layout is a floor plan before or after placement.
type Layout struct {
	GridCols int
	GridRows int
	Stage    Rect
	Sections []SectionSlot
	Tables   []TableSlot
}

// Place fills in coordinates for every section and table without an
// explicit position and grows the grid until everything fits. Explicit
// coordinates are never changed and the grid never shrinks below the
// requested size.
//
// Below the stage sits the table band: auto-placed tables go left to right
// and start a new band row when the current one is full. Sections stack
// below the table band in input order, each horizontally centered and
// followed by a one-row gap. Auto-placed items never land on an explicit
// one; they move to the next free slot instead.
func Place(in Layout) Layout {
	out := Layout{
		GridCols: in.GridCols,
		GridRows: in.GridRows,
		Stage:    in.Stage,
		Sections: append([]SectionSlot(nil), in.Sections...),
		Tables:   append([]TableSlot(nil), in.Tables...),
	}

	out.GridCols = requiredCols(out)
	fixed := explicitRects(out)

	bandTop := out.Stage.Bottom() + StageMargin
	bandRows := placeTables(out.Tables, out.GridCols, bandTop, fixed)

	cursor := bandTop + bandRows*TableBandHeight
	for i := range out.Sections {
		s := &out.Sections[i]
		if s.Explicit {
			continue
		}
		s.X = (out.GridCols - s.Cols) / 2
		s.Y = cursor
		// Slide below any explicit item in the way.
		for {
			blocker, ok := firstOverlap(s.Rect(), fixed)
			if !ok {
				break
			}
			s.Y = blocker.Bottom() + SectionGap
		}
		cursor = s.Y + s.Rows + SectionGap
	}

	// The section stack always ends with a gap row when it is non-empty.
	needed := cursor + BottomMargin
	for _, s := range out.Sections {
		if s.Explicit {
			needed = max(needed, s.Rect().Bottom()+BottomMargin)
		}
	}
	for _, t := range out.Tables {
		if t.Explicit {
			needed = max(needed, t.Rect().Bottom()+BottomMargin)
		}
	}
	out.GridRows = max(out.GridRows, needed)

	return out
}

// requiredCols returns the narrowest grid that holds the stage, the widest
// section, one table and every explicitly placed item.
func requiredCols(l Layout) int {
	cols := max(l.GridCols, l.Stage.Right(), TableFootprint+2*SideMargin)
	for _, s := range l.Sections {
		if s.Explicit {
			cols = max(cols, s.Rect().Right())
		} else {
			cols = max(cols, s.Cols+2*SideMargin)
		}
	}
	for _, t := range l.Tables {
		if t.Explicit {
			cols = max(cols, t.Rect().Right())
		}
	}
	return cols
}

func explicitRects(l Layout) []Rect {
	var rects []Rect
	for _, s := range l.Sections {
		if s.Explicit {
			rects = append(rects, s.Rect())
		}
	}
	for _, t := range l.Tables {
		if t.Explicit {
			rects = append(rects, t.Rect())
		}
	}
	return rects
}

func firstOverlap(r Rect, others []Rect) (Rect, bool) {
	for _, o := range others {
		if r.Overlaps(o) {
			return o, true
		}
	}
	return Rect{}, false
}

// placeTables positions auto tables in place and returns how many band
// rows they use. Slots covered by an explicit item are skipped. The band
// is reserved even when there are no tables.
func placeTables(tables []TableSlot, gridCols, bandTop int, fixed []Rect) int {
	step := TableFootprint + TableGap
	perRow := (gridCols - 2*SideMargin + TableGap) / step
	if perRow < 1 {
		perRow = 1
	}

	half := TableFootprint / 2
	inset := (TableBandHeight - TableFootprint) / 2

	placed := 0
	for i := range tables {
		t := &tables[i]
		if t.Explicit {
			continue
		}
		for {
			row, col := placed/perRow, placed%perRow
			t.CenterX = SideMargin + col*step + half
			t.CenterY = bandTop + row*TableBandHeight + inset + half
			placed++
			if _, blocked := firstOverlap(t.Rect(), fixed); !blocked {
				break
			}
		}
	}

	rows := (placed + perRow - 1) / perRow
	if rows < 1 {
		rows = 1
	}
	return rows
}
