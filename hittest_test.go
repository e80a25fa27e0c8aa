package takeoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMarkup(t *testing.T, kind Kind, shape Shape) Markup {
	t.Helper()
	m, err := NewMarkup(kind, 1, shape)
	require.NoError(t, err)
	return m
}

func TestFindMarkupAt_Box(t *testing.T) {
	tol := DefaultHitTolerances()
	box := mustMarkup(t, KindRectangle, Box{X: 10, Y: 10, Width: 100, Height: 50})
	markups := []Markup{box}

	require.NotNil(t, FindMarkupAt(Point{X: 50, Y: 30}, markups, 100, tol))
	assert.Nil(t, FindMarkupAt(Point{X: 10, Y: 30}, markups, 100, tol), "edges are outside")
	assert.Nil(t, FindMarkupAt(Point{X: 5, Y: 30}, markups, 100, tol))
}

func TestFindMarkupAt_TopmostWins(t *testing.T) {
	tol := DefaultHitTolerances()
	below := mustMarkup(t, KindRectangle, Box{X: 0, Y: 0, Width: 100, Height: 100})
	above := mustMarkup(t, KindEllipse, Box{X: 50, Y: 50, Width: 100, Height: 100})

	got := FindMarkupAt(Point{X: 75, Y: 75}, []Markup{below, above}, 100, tol)
	require.NotNil(t, got)
	assert.Equal(t, above.ID, got.ID)

	got = FindMarkupAt(Point{X: 25, Y: 25}, []Markup{below, above}, 100, tol)
	require.NotNil(t, got)
	assert.Equal(t, below.ID, got.ID)
}

func TestFindMarkupAt_LineToleranceScalesWithZoom(t *testing.T) {
	tol := DefaultHitTolerances()
	line := []Markup{mustMarkup(t, KindArrow, LineFromPoints(Point{X: 0, Y: 0}, Point{X: 100, Y: 0}))}

	assert.NotNil(t, FindMarkupAt(Point{X: 50, Y: 9}, line, 100, tol))
	assert.Nil(t, FindMarkupAt(Point{X: 50, Y: 11}, line, 100, tol))
	assert.Nil(t, FindMarkupAt(Point{X: 50, Y: 6}, line, 200, tol))
	assert.NotNil(t, FindMarkupAt(Point{X: 50, Y: 19}, line, 50, tol))

	// distance is clamped to the segment, not the infinite line
	assert.Nil(t, FindMarkupAt(Point{X: 115, Y: 0}, line, 100, tol))
	assert.NotNil(t, FindMarkupAt(Point{X: 108, Y: 0}, line, 100, tol))
}

func TestFindMarkupAt_PathUsesPaddedBounds(t *testing.T) {
	tol := DefaultHitTolerances()
	// an L shape; (80, 80) is inside the bounding box but outside the polygon
	l := mustMarkup(t, KindPolygon, Path{Points: []Point{
		{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 80}, {X: 100, Y: 80}, {X: 100, Y: 100}, {X: 0, Y: 100},
	}})
	markups := []Markup{l}

	assert.NotNil(t, FindMarkupAt(Point{X: 80, Y: 40}, markups, 100, tol))
	assert.NotNil(t, FindMarkupAt(Point{X: 104, Y: 50}, markups, 100, tol))
	assert.Nil(t, FindMarkupAt(Point{X: 106, Y: 50}, markups, 100, tol))
}

func TestFindMarkupAt_MeasureLengthUsesLineTest(t *testing.T) {
	tol := DefaultHitTolerances()
	m := mustMarkup(t, KindMeasureLength, Measurement{Points: []Point{{X: 0, Y: 0}, {X: 100, Y: 100}}})
	markups := []Markup{m}

	assert.NotNil(t, FindMarkupAt(Point{X: 52, Y: 48}, markups, 100, tol))
	assert.Nil(t, FindMarkupAt(Point{X: 90, Y: 10}, markups, 100, tol), "inside bounds but far from the segment")
}

func TestFindMarkupAt_CountRadius(t *testing.T) {
	tol := DefaultHitTolerances()
	m := mustMarkup(t, KindCount, CountMarker{X: 50, Y: 50, GroupID: "g"})
	markups := []Markup{m}

	assert.NotNil(t, FindMarkupAt(Point{X: 60, Y: 60}, markups, 100, tol))
	assert.Nil(t, FindMarkupAt(Point{X: 62, Y: 62}, markups, 100, tol))
	assert.Nil(t, FindMarkupAt(Point{X: 60, Y: 60}, markups, 200, tol))
}

func TestGetHandleAt(t *testing.T) {
	tol := DefaultHitTolerances()

	t.Run("box corners and edges", func(t *testing.T) {
		m := mustMarkup(t, KindRectangle, Box{X: 100, Y: 100, Width: 200, Height: 100})
		tests := []struct {
			p    Point
			want HandleID
		}{
			{Point{X: 101, Y: 99}, HandleNW},
			{Point{X: 300, Y: 100}, HandleNE},
			{Point{X: 305, Y: 204}, HandleSE},
			{Point{X: 100, Y: 200}, HandleSW},
			{Point{X: 200, Y: 103}, HandleN},
			{Point{X: 300, Y: 150}, HandleE},
			{Point{X: 200, Y: 200}, HandleS},
			{Point{X: 96, Y: 150}, HandleW},
		}
		for _, tt := range tests {
			got, ok := GetHandleAt(tt.p, m, 100, tol)
			require.True(t, ok, "point %v", tt.p)
			assert.Equal(t, tt.want, got, "point %v", tt.p)
		}

		_, ok := GetHandleAt(Point{X: 200, Y: 150}, m, 100, tol)
		assert.False(t, ok)
	})

	t.Run("corner before edge", func(t *testing.T) {
		m := mustMarkup(t, KindRectangle, Box{X: 0, Y: 0, Width: 10, Height: 10})
		got, ok := GetHandleAt(Point{X: 5, Y: 0}, m, 100, tol)
		require.True(t, ok)
		assert.Equal(t, HandleNW, got)
	})

	t.Run("line endpoints", func(t *testing.T) {
		m := mustMarkup(t, KindLine, LineFromPoints(Point{X: 0, Y: 0}, Point{X: 100, Y: 0}))
		got, ok := GetHandleAt(Point{X: 98, Y: 3}, m, 100, tol)
		require.True(t, ok)
		assert.Equal(t, HandleEnd, got)

		got, ok = GetHandleAt(Point{X: 2, Y: 0}, m, 100, tol)
		require.True(t, ok)
		assert.Equal(t, HandleStart, got)
	})

	t.Run("zoomed out widens the radius", func(t *testing.T) {
		m := mustMarkup(t, KindRectangle, Box{X: 0, Y: 0, Width: 100, Height: 100})
		_, ok := GetHandleAt(Point{X: -12, Y: 0}, m, 100, tol)
		assert.False(t, ok)
		_, ok = GetHandleAt(Point{X: -12, Y: 0}, m, 50, tol)
		assert.True(t, ok)
	})

	t.Run("paths have no handles", func(t *testing.T) {
		m := mustMarkup(t, KindPolyline, Path{Points: []Point{{X: 0, Y: 0}, {X: 10, Y: 10}}})
		_, ok := GetHandleAt(Point{X: 0, Y: 0}, m, 100, tol)
		assert.False(t, ok)
	})
}
