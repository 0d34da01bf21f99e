package venues

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placedRects(l Layout) []Rect {
	var rects []Rect
	for _, t := range l.Tables {
		rects = append(rects, t.Rect())
	}
	for _, s := range l.Sections {
		rects = append(rects, s.Rect())
	}
	return rects
}

func assertNoOverlap(t *testing.T, l Layout) {
	t.Helper()
	rects := placedRects(l)
	for i := range rects {
		assert.False(t, rects[i].Overlaps(l.Stage), "item %d overlaps the stage: %+v", i, rects[i])
		assert.GreaterOrEqual(t, rects[i].X, 0)
		assert.LessOrEqual(t, rects[i].Right(), l.GridCols, "item %d exceeds grid width", i)
		assert.LessOrEqual(t, rects[i].Bottom(), l.GridRows, "item %d exceeds grid height", i)
		for j := i + 1; j < len(rects); j++ {
			assert.False(t, rects[i].Overlaps(rects[j]), "items %d and %d overlap: %+v %+v", i, j, rects[i], rects[j])
		}
	}
}

func TestPlaceStackedSections(t *testing.T) {
	in := Layout{
		GridCols: 20,
		GridRows: 10,
		Stage:    Rect{X: 0, Y: 0, W: 20, H: 4},
		Sections: []SectionSlot{
			{Rows: 8, Cols: 10},
			{Rows: 6, Cols: 12},
			{Rows: 10, Cols: 8},
		},
	}

	out := Place(in)

	bandTop := 4 + StageMargin
	sectionsTop := bandTop + TableBandHeight
	require.Len(t, out.Sections, 3)
	assert.Equal(t, sectionsTop, out.Sections[0].Y)
	assert.Equal(t, sectionsTop+8+SectionGap, out.Sections[1].Y)
	assert.Equal(t, sectionsTop+8+SectionGap+6+SectionGap, out.Sections[2].Y)

	// 4 stage + 2 margin + 6 table band + (8+1) + (6+1) + (10+1) + 2
	assert.Equal(t, 41, out.GridRows)
	assert.GreaterOrEqual(t, out.GridRows, 4+3+8+8+6+1+10+1)

	for i := 0; i < len(out.Sections)-1; i++ {
		assert.Less(t, out.Sections[i].Rect().Bottom(), out.Sections[i+1].Y)
	}
	assertNoOverlap(t, out)
}

func TestPlaceCentersSections(t *testing.T) {
	out := Place(Layout{
		GridCols: 20,
		Stage:    Rect{W: 20, H: 2},
		Sections: []SectionSlot{{Rows: 2, Cols: 10}, {Rows: 2, Cols: 7}},
	})

	assert.Equal(t, 5, out.Sections[0].X)
	assert.Equal(t, 6, out.Sections[1].X)
}

func TestPlaceKeepsExplicitOrigin(t *testing.T) {
	in := Layout{
		GridCols: 30,
		GridRows: 30,
		Stage:    Rect{X: 10, Y: 0, W: 10, H: 3},
		Sections: []SectionSlot{
			{Rows: 3, Cols: 4, X: 0, Y: 0, Explicit: true},
			{Rows: 3, Cols: 4},
		},
		Tables: []TableSlot{
			{CenterX: 2, CenterY: 2, Explicit: true},
		},
	}

	out := Place(in)

	assert.Equal(t, 0, out.Sections[0].X)
	assert.Equal(t, 0, out.Sections[0].Y)
	assert.Equal(t, 2, out.Tables[0].CenterX)
	assert.Equal(t, 2, out.Tables[0].CenterY)
	assert.Equal(t, 3+StageMargin+TableBandHeight, out.Sections[1].Y)
	assert.Equal(t, 30, out.GridRows)
}

func TestPlaceDoesNotMutateInput(t *testing.T) {
	in := Layout{
		Stage:    Rect{W: 10, H: 2},
		Sections: []SectionSlot{{Rows: 2, Cols: 2}},
		Tables:   []TableSlot{{}},
	}

	_ = Place(in)

	assert.Equal(t, 0, in.Sections[0].Y)
	assert.Equal(t, 0, in.Tables[0].CenterX)
}

func TestPlaceGrowsGridToFitContent(t *testing.T) {
	out := Place(Layout{
		GridCols: 5,
		GridRows: 5,
		Stage:    Rect{W: 8, H: 2},
		Sections: []SectionSlot{
			{Rows: 4, Cols: 16},
			{Rows: 3, Cols: 3, X: 40, Y: 50, Explicit: true},
		},
	})

	assert.Equal(t, 43, out.GridCols)
	assert.Equal(t, 55, out.GridRows)
	assertNoOverlap(t, out)
}

func TestPlaceNeverShrinksRequestedGrid(t *testing.T) {
	out := Place(Layout{
		GridCols: 100,
		GridRows: 200,
		Stage:    Rect{W: 10, H: 2},
		Sections: []SectionSlot{{Rows: 2, Cols: 2}},
	})

	assert.Equal(t, 100, out.GridCols)
	assert.Equal(t, 200, out.GridRows)
}

func TestPlaceWrapsTablesIntoNewBandRow(t *testing.T) {
	// 16 columns hold three tables per band row.
	in := Layout{
		GridCols: 16,
		Stage:    Rect{W: 16, H: 2},
		Tables:   make([]TableSlot, 7),
		Sections: []SectionSlot{{Rows: 2, Cols: 6}},
	}

	out := Place(in)

	bandTop := 2 + StageMargin
	assert.Equal(t, out.Tables[0].CenterY, out.Tables[2].CenterY)
	assert.Equal(t, out.Tables[0].CenterY+TableBandHeight, out.Tables[3].CenterY)
	assert.Equal(t, out.Tables[0].CenterY+2*TableBandHeight, out.Tables[6].CenterY)
	assert.Equal(t, bandTop+3*TableBandHeight, out.Sections[0].Y)
	assertNoOverlap(t, out)
}

func TestPlaceReservesTableBandWithoutTables(t *testing.T) {
	out := Place(Layout{
		Stage:    Rect{W: 10, H: 4},
		Sections: []SectionSlot{{Rows: 1, Cols: 1}},
	})

	assert.Equal(t, 4+StageMargin+TableBandHeight, out.Sections[0].Y)
	assert.Equal(t, out.Sections[0].Y+1+SectionGap+BottomMargin, out.GridRows)
}

func TestPlaceIsDeterministic(t *testing.T) {
	in := Layout{
		GridCols: 12,
		Stage:    Rect{W: 12, H: 3},
		Sections: []SectionSlot{{Rows: 3, Cols: 5}, {Rows: 1, Cols: 9}},
		Tables:   make([]TableSlot, 4),
	}
	assert.Equal(t, Place(in), Place(in))
}

func TestPlaceNeverOverlapsDefaultItems(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for n := 0; n < 200; n++ {
		in := Layout{
			GridCols: rng.Intn(40),
			GridRows: rng.Intn(40),
			Stage:    Rect{X: 0, Y: rng.Intn(3), W: 1 + rng.Intn(30), H: 1 + rng.Intn(6)},
		}
		for i := rng.Intn(6); i > 0; i-- {
			in.Sections = append(in.Sections, SectionSlot{Rows: 1 + rng.Intn(12), Cols: 1 + rng.Intn(25)})
		}
		in.Tables = make([]TableSlot, rng.Intn(12))

		t.Run(fmt.Sprintf("case_%d", n), func(t *testing.T) {
			out := Place(in)
			assertNoOverlap(t, out)

			minRows := in.Stage.Bottom() + StageMargin + TableBandHeight + BottomMargin
			for _, s := range in.Sections {
				minRows += s.Rows + SectionGap
			}
			assert.GreaterOrEqual(t, out.GridRows, minRows)
		})
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 4, H: 4}
	assert.True(t, a.Overlaps(Rect{X: 3, Y: 3, W: 2, H: 2}))
	assert.False(t, a.Overlaps(Rect{X: 4, Y: 0, W: 2, H: 2}))
	assert.False(t, a.Overlaps(Rect{X: 0, Y: 4, W: 2, H: 2}))
	assert.False(t, a.Overlaps(Rect{X: 1, Y: 1, W: 0, H: 2}))
}

func TestPlaceSkipsExplicitItems(t *testing.T) {
	in := Layout{
		GridCols: 20,
		GridRows: 10,
		Stage:    Rect{X: 0, Y: 0, W: 10, H: 3},
		Sections: []SectionSlot{
			{Rows: 2, Cols: 6, X: 5, Y: 12, Explicit: true},
			{Rows: 3, Cols: 4},
			{Rows: 2, Cols: 10},
		},
		Tables: []TableSlot{
			{CenterX: 3, CenterY: 8, Explicit: true},
			{},
		},
	}

	out := Place(in)

	// The first band slot is taken by the explicit table.
	assert.Equal(t, 8, out.Tables[1].CenterX)
	assert.Equal(t, 8, out.Tables[1].CenterY)

	// The first auto section would cover rows 11-13 and slides below the
	// explicit one; the next keeps stacking from there.
	assert.Equal(t, 15, out.Sections[1].Y)
	assert.Equal(t, 19, out.Sections[2].Y)
	assert.Equal(t, 24, out.GridRows)
	assertNoOverlap(t, out)
}
