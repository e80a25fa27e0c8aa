package takeoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineMarkup(t *testing.T, a, b Point) Markup {
	t.Helper()
	m, err := NewMarkup(KindLine, 1, LineFromPoints(a, b))
	require.NoError(t, err)
	return m
}

func TestSnapEngine_MarkupBeatsGrid(t *testing.T) {
	settings := DefaultSnapSettings()
	settings.GridEnabled = true
	settings.GridSize = 20

	e := NewSnapEngine(settings)
	e.SetMarkups([]Markup{lineMarkup(t, Point{X: 106, Y: 0}, Point{X: 106, Y: 200})})

	// 3 units from the markup endpoint and from the grid point (100, 0)
	got := e.GetSnapPoint(Point{X: 103, Y: 0}, Viewport{Zoom: 100})

	assert.Equal(t, SnapMarkup, got.Type)
	assert.Equal(t, Point{X: 106, Y: 0}, got.Point)
}

func TestSnapEngine_PoolPriority(t *testing.T) {
	data := &SnapData{
		Lines:     []Segment{{Start: Point{X: 0, Y: 0}, End: Point{X: 100, Y: 0}}},
		Endpoints: []Point{{X: 0, Y: 0}, {X: 100, Y: 0}},
	}
	e := NewSnapEngine(DefaultSnapSettings())
	e.SetData(data)
	v := Viewport{Zoom: 100}

	t.Run("endpoint before line", func(t *testing.T) {
		got := e.GetSnapPoint(Point{X: 97, Y: 2}, v)
		assert.Equal(t, SnapEndpoint, got.Type)
		assert.Equal(t, Point{X: 100, Y: 0}, got.Point)
	})

	t.Run("nearest point on line", func(t *testing.T) {
		got := e.GetSnapPoint(Point{X: 50, Y: 3}, v)
		assert.Equal(t, SnapLine, got.Type)
		assert.Equal(t, Point{X: 50, Y: 0}, got.Point)
	})

	t.Run("nothing in range", func(t *testing.T) {
		raw := Point{X: 50, Y: 40}
		got := e.GetSnapPoint(raw, v)
		assert.False(t, got.Snapped())
		assert.Equal(t, raw, got.Point)
	})
}

func TestSnapEngine_Intersection(t *testing.T) {
	e := NewSnapEngine(DefaultSnapSettings())
	e.SetData(&SnapData{Intersections: []Point{{X: 50, Y: 50}}})

	got := e.GetSnapPoint(Point{X: 55, Y: 52}, Viewport{Zoom: 100})
	assert.Equal(t, SnapIntersection, got.Type)
	assert.Equal(t, Point{X: 50, Y: 50}, got.Point)
}

func TestSnapEngine_NearestWithinPool(t *testing.T) {
	e := NewSnapEngine(DefaultSnapSettings())
	e.SetData(&SnapData{Endpoints: []Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 5, Y: 0}}})

	got := e.GetSnapPoint(Point{X: 6, Y: 0}, Viewport{Zoom: 100})
	assert.Equal(t, Point{X: 5, Y: 0}, got.Point)
}

func TestSnapEngine_ToleranceScalesWithZoom(t *testing.T) {
	e := NewSnapEngine(DefaultSnapSettings())
	e.SetData(&SnapData{Endpoints: []Point{{X: 0, Y: 0}}})
	raw := Point{X: 7, Y: 0}

	assert.True(t, e.GetSnapPoint(raw, Viewport{Zoom: 100}).Snapped())
	assert.False(t, e.GetSnapPoint(raw, Viewport{Zoom: 200}).Snapped(), "10px is 5 units at 200%")
	assert.True(t, e.GetSnapPoint(Point{X: 15, Y: 0}, Viewport{Zoom: 50}).Snapped())
}

func TestSnapEngine_ExcludesOwnMarkup(t *testing.T) {
	m := lineMarkup(t, Point{X: 0, Y: 0}, Point{X: 100, Y: 0})
	e := NewSnapEngine(DefaultSnapSettings())
	e.SetMarkups([]Markup{m})

	assert.True(t, e.snap(Point{X: 2, Y: 2}, Viewport{Zoom: 100}, "").Snapped())
	assert.False(t, e.snap(Point{X: 2, Y: 2}, Viewport{Zoom: 100}, m.ID).Snapped())
}

func TestSnapEngine_Disabled(t *testing.T) {
	settings := DefaultSnapSettings()
	settings.Enabled = false
	settings.GridEnabled = true
	settings.GridSize = 20

	e := NewSnapEngine(settings)
	e.SetData(&SnapData{Endpoints: []Point{{X: 41, Y: 41}}})

	got := e.GetSnapPoint(Point{X: 42, Y: 43}, Viewport{Zoom: 100})
	assert.Equal(t, SnapGrid, got.Type)
	assert.Equal(t, Point{X: 40, Y: 40}, got.Point)
}

func TestSnapEngine_FreehandBypass(t *testing.T) {
	e := NewSnapEngine(DefaultSnapSettings())
	e.SetData(&SnapData{Endpoints: []Point{{X: 0, Y: 0}}})
	raw := Point{X: 1, Y: 1}

	assert.Equal(t, SnapResult{Point: raw}, e.SnapForTool(ToolFreehand, raw, Viewport{Zoom: 100}))
	assert.Equal(t, SnapEndpoint, e.SnapForTool(ToolPolyline, raw, Viewport{Zoom: 100}).Type)
}

func TestSnapEngine_DenseIndex(t *testing.T) {
	var lines []Segment
	for i := range 400 {
		y := float64(i) * 5
		lines = append(lines, Segment{Start: Point{X: 0, Y: y}, End: Point{X: 2000, Y: y}})
	}
	data := ExtractVectorPathsWithLimits(PageContent{}, DefaultExtractionLimits())
	data.Lines = lines

	e := NewSnapEngine(DefaultSnapSettings())
	e.SetData(data)

	got := e.GetSnapPoint(Point{X: 1234, Y: 1001.5}, Viewport{Zoom: 100})
	assert.Equal(t, SnapLine, got.Type)
	assert.InDelta(t, 1234, got.Point.X, 1e-9)
	assert.Equal(t, 1000.0, got.Point.Y)
}

func TestSnapHighlightToText(t *testing.T) {
	words := []TextItem{
		{Text: "Door", Box: Rect{X0: 10, Y0: 10, X1: 40, Y1: 20}},
		{Text: "schedule", Box: Rect{X0: 45, Y0: 10, X1: 100, Y1: 21}},
		{Text: "Notes", Box: Rect{X0: 10, Y0: 50, X1: 40, Y1: 60}},
	}

	got := SnapHighlightToText(Rect{X0: 30, Y0: 14, X1: 50, Y1: 16}, words)
	assert.Equal(t, Rect{X0: 10, Y0: 10, X1: 100, Y1: 21}, got)

	empty := Rect{X0: 200, Y0: 200, X1: 210, Y1: 210}
	assert.Equal(t, empty, SnapHighlightToText(empty, words))
}

func TestQuadTree_Query(t *testing.T) {
	qt := newQuadTree(Rect{X0: 0, Y0: 0, X1: 1000, Y1: 1000}, 4)
	for i := range 100 {
		x := float64(i%10) * 100
		y := float64(i/10) * 100
		require.True(t, qt.insert(Rect{X0: x, Y0: y, X1: x + 1, Y1: y + 1}, i))
	}

	found := qt.query(Rect{X0: 150, Y0: 150, X1: 350, Y1: 350}, nil)
	assert.ElementsMatch(t, []int{22, 23, 32, 33}, found)

	assert.False(t, qt.insert(Rect{X0: 2000, Y0: 2000, X1: 2001, Y1: 2001}, 999))
}

func TestQuadTree_CoincidentPoints(t *testing.T) {
	qt := newQuadTree(Rect{X0: 0, Y0: 0, X1: 1000, Y1: 1000}, 4)
	p := Rect{X0: 10, Y0: 10, X1: 10, Y1: 10}
	for i := range 50 {
		require.True(t, qt.insert(p, i))
	}

	var deepest func(n *quadTree) int
	deepest = func(n *quadTree) int {
		d := n.depth
		for _, c := range n.nodes {
			d = max(d, deepest(c))
		}
		return d
	}
	assert.Equal(t, maxQuadDepth, deepest(qt))
	assert.Len(t, qt.query(p.Expand(1), nil), 50)
}
