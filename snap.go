package takeoff

import "math"

// SnapType classifies the geometry a snapped point came from.
type SnapType string

const (
	SnapNone         SnapType = ""
	SnapMarkup       SnapType = "markup"
	SnapEndpoint     SnapType = "endpoint"
	SnapLine         SnapType = "line"
	SnapIntersection SnapType = "intersection"
	SnapGrid         SnapType = "grid"
)

// SnapResult is the outcome of a snap lookup. Type is SnapNone when the
// raw point was returned unchanged.
type SnapResult struct {
	Point Point
	Type  SnapType
}

// Snapped reports whether a candidate was found.
func (r SnapResult) Snapped() bool {
	return r.Type != SnapNone
}

// SnapSettings controls which pools the snap engine considers.
type SnapSettings struct {
	// Enabled turns snapping to document and markup geometry on.
	Enabled bool

	// SnapToMarkups includes existing markup vertices.
	SnapToMarkups bool

	// GridEnabled adds grid intersections as the lowest-priority pool.
	GridEnabled bool
	GridSize    float64

	Tolerances SnapTolerances
}

// DefaultSnapSettings enables object snapping with the grid off.
func DefaultSnapSettings() SnapSettings {
	return SnapSettings{
		Enabled:       true,
		SnapToMarkups: true,
		GridSize:      20,
		Tolerances:    DefaultSnapTolerances(),
	}
}

// SnapEngine resolves raw cursor positions to nearby geometry.
type SnapEngine struct {
	settings SnapSettings
	data     *SnapData
	markups  []Markup
}

// NewSnapEngine returns an engine with no page geometry loaded.
func NewSnapEngine(settings SnapSettings) *SnapEngine {
	return &SnapEngine{settings: settings}
}

// Settings returns the current settings.
func (e *SnapEngine) Settings() SnapSettings { return e.settings }

// SetSettings replaces the settings.
func (e *SnapEngine) SetSettings(s SnapSettings) { e.settings = s }

// SetData replaces the page geometry. A nil value clears it.
func (e *SnapEngine) SetData(d *SnapData) { e.data = d }

// Data returns the page geometry in use, if any.
func (e *SnapEngine) Data() *SnapData { return e.data }

// SetMarkups replaces the markups whose vertices are snap candidates.
func (e *SnapEngine) SetMarkups(markups []Markup) { e.markups = markups }

// GetSnapPoint returns the best candidate for raw within tolerance.
func (e *SnapEngine) GetSnapPoint(raw Point, v Viewport) SnapResult {
	return e.snap(raw, v, "")
}

// SnapForTool is GetSnapPoint except that freehand strokes are never snapped.
func (e *SnapEngine) SnapForTool(tool Tool, raw Point, v Viewport) SnapResult {
	if tool == ToolFreehand {
		return SnapResult{Point: raw}
	}
	return e.snap(raw, v, "")
}

// snap tries each pool in priority order. The first pool that yields a
// candidate wins; within a pool the nearest candidate wins.
func (e *SnapEngine) snap(raw Point, v Viewport, excludeID string) SnapResult {
	t := e.settings.Tolerances

	if e.settings.Enabled {
		if e.settings.SnapToMarkups {
			if p, ok := e.nearestMarkupVertex(raw, v.ToDocument(t.Markup), excludeID); ok {
				return SnapResult{Point: p, Type: SnapMarkup}
			}
		}
		if e.data != nil {
			idx := e.data.spatialIndex()
			if p, ok := idx.nearestPoint(idx.endpoints, e.data.Endpoints, raw, v.ToDocument(t.Endpoint)); ok {
				return SnapResult{Point: p, Type: SnapEndpoint}
			}
			if p, ok := idx.nearestOnLine(e.data.Lines, raw, v.ToDocument(t.Line)); ok {
				return SnapResult{Point: p, Type: SnapLine}
			}
			if p, ok := idx.nearestPoint(idx.intersections, e.data.Intersections, raw, v.ToDocument(t.Intersection)); ok {
				return SnapResult{Point: p, Type: SnapIntersection}
			}
		}
	}

	if e.settings.GridEnabled && e.settings.GridSize > 0 {
		g := e.settings.GridSize
		p := Point{X: math.Round(raw.X/g) * g, Y: math.Round(raw.Y/g) * g}
		if p.Distance(raw) <= v.ToDocument(t.Grid) {
			return SnapResult{Point: p, Type: SnapGrid}
		}
	}

	return SnapResult{Point: raw}
}

func (e *SnapEngine) nearestMarkupVertex(raw Point, tol float64, excludeID string) (Point, bool) {
	best, bestDist, found := Point{}, tol, false
	for _, m := range e.markups {
		if m.ID == excludeID {
			continue
		}
		for _, p := range m.Vertices() {
			if d := p.Distance(raw); d <= bestDist {
				best, bestDist, found = p, d, true
			}
		}
	}
	return best, found
}

// snapIndex accelerates candidate lookup on dense pages.
type snapIndex struct {
	lines         *quadTree
	endpoints     *quadTree
	intersections *quadTree
}

func (d *SnapData) spatialIndex() *snapIndex {
	d.indexOnce.Do(func() {
		d.index = buildSnapIndex(d)
	})
	return d.index
}

func buildSnapIndex(d *SnapData) *snapIndex {
	var bounds Rect
	first := true
	grow := func(r Rect) {
		if first {
			bounds, first = r, false
			return
		}
		bounds = bounds.Union(r)
	}
	for _, l := range d.Lines {
		grow(l.Bounds())
	}
	for _, p := range d.Endpoints {
		grow(Rect{X0: p.X, Y0: p.Y, X1: p.X, Y1: p.Y})
	}
	for _, p := range d.Intersections {
		grow(Rect{X0: p.X, Y0: p.Y, X1: p.X, Y1: p.Y})
	}
	bounds = bounds.Expand(1)

	idx := &snapIndex{
		lines:         newQuadTree(bounds, 16),
		endpoints:     newQuadTree(bounds, 16),
		intersections: newQuadTree(bounds, 16),
	}
	for i, l := range d.Lines {
		idx.lines.insert(l.Bounds(), i)
	}
	for i, p := range d.Endpoints {
		idx.endpoints.insert(Rect{X0: p.X, Y0: p.Y, X1: p.X, Y1: p.Y}, i)
	}
	for i, p := range d.Intersections {
		idx.intersections.insert(Rect{X0: p.X, Y0: p.Y, X1: p.X, Y1: p.Y}, i)
	}
	return idx
}

func (idx *snapIndex) nearestPoint(tree *quadTree, points []Point, raw Point, tol float64) (Point, bool) {
	query := Rect{X0: raw.X, Y0: raw.Y, X1: raw.X, Y1: raw.Y}.Expand(tol)
	best, bestDist, bestIdx := Point{}, tol, -1
	for _, i := range tree.query(query, nil) {
		d := points[i].Distance(raw)
		if d < bestDist || (d == bestDist && (bestIdx < 0 || i < bestIdx)) {
			best, bestDist, bestIdx = points[i], d, i
		}
	}
	return best, bestIdx >= 0
}

func (idx *snapIndex) nearestOnLine(lines []Segment, raw Point, tol float64) (Point, bool) {
	query := Rect{X0: raw.X, Y0: raw.Y, X1: raw.X, Y1: raw.Y}.Expand(tol)
	best, bestDist, bestIdx := Point{}, tol, -1
	for _, i := range idx.lines.query(query, nil) {
		p := lines[i].ClosestPoint(raw)
		d := p.Distance(raw)
		if d < bestDist || (d == bestDist && (bestIdx < 0 || i < bestIdx)) {
			best, bestDist, bestIdx = p, d, i
		}
	}
	return best, bestIdx >= 0
}

// SnapHighlightToText expands a highlight rectangle to cover every word it
// overlaps. Without overlapping words r is returned unchanged.
func SnapHighlightToText(r Rect, words []TextItem) Rect {
	out, hit := r, false
	for _, w := range words {
		if !w.Box.Intersects(r) {
			continue
		}
		if !hit {
			out, hit = w.Box, true
			continue
		}
		out = out.Union(w.Box)
	}
	return out
}
