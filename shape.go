package takeoff

import "slices"

// Shape is the geometry of a markup. It is implemented only by Box, Line,
// Path, CountMarker and Measurement.
type Shape interface {
	isShape()
}

// Box is the geometry of rectangle-like markups. Width and Height are
// never negative.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BoxFromCorners returns the normalized box spanned by two drawn corners.
func BoxFromCorners(a, b Point) Box {
	r := NormalizeRect(a, b)
	return Box{X: r.X0, Y: r.Y0, Width: r.Width(), Height: r.Height()}
}

// Rect returns the box as a Rect.
func (b Box) Rect() Rect {
	return Rect{X0: b.X, Y0: b.Y, X1: b.X + b.Width, Y1: b.Y + b.Height}
}

// Line is the geometry of line and arrow markups.
type Line struct {
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
}

// LineFromPoints builds a Line from two points.
func LineFromPoints(a, b Point) Line {
	return Line{StartX: a.X, StartY: a.Y, EndX: b.X, EndY: b.Y}
}

// Start returns the start point.
func (l Line) Start() Point { return Point{X: l.StartX, Y: l.StartY} }

// End returns the end point.
func (l Line) End() Point { return Point{X: l.EndX, Y: l.EndY} }

// Segment returns the line as a Segment.
func (l Line) Segment() Segment { return Segment{Start: l.Start(), End: l.End()} }

// Path is the geometry of polygon, polyline, freehand and cloud markups.
// Points is never modified in place; use WithPoints.
type Path struct {
	Points []Point `json:"points"`
}

// WithPoints returns a path holding a copy of points.
func (p Path) WithPoints(points []Point) Path {
	return Path{Points: slices.Clone(points)}
}

// CountMarker is a single click of the count tool.
type CountMarker struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	GroupID   string  `json:"groupId"`
	ProductID string  `json:"productId,omitempty"`
}

// Position returns the marker location.
func (c CountMarker) Position() Point { return Point{X: c.X, Y: c.Y} }

// Measurement is the geometry of length and area measurements. Value is
// the raw pixel metric, ScaledValue the calibrated one. Area values are in
// square units: area is divided by the square of the pixels-per-unit scale.
type Measurement struct {
	Points      []Point `json:"points"`
	Value       float64 `json:"value"`
	ScaledValue float64 `json:"scaledValue"`
	Unit        string  `json:"unit"`
}

func (Box) isShape()         {}
func (Line) isShape()        {}
func (Path) isShape()        {}
func (CountMarker) isShape() {}
func (Measurement) isShape() {}

// ShapeVisitor handles every shape variant. Adding a variant adds a method
// here, so every handler must be updated before the code compiles.
type ShapeVisitor[T any] interface {
	Box(Box) T
	Line(Line) T
	Path(Path) T
	Count(CountMarker) T
	Measurement(Measurement) T
}

// VisitShape dispatches s to the matching visitor method.
func VisitShape[T any](s Shape, v ShapeVisitor[T]) T {
	switch s := s.(type) {
	case Box:
		return v.Box(s)
	case Line:
		return v.Line(s)
	case Path:
		return v.Path(s)
	case CountMarker:
		return v.Count(s)
	case Measurement:
		return v.Measurement(s)
	}
	var zero T
	return zero
}

func familyOf(s Shape) Family {
	switch s.(type) {
	case Box:
		return FamilyBox
	case Line:
		return FamilySegment
	case Path:
		return FamilyPath
	case CountMarker:
		return FamilyCount
	case Measurement:
		return FamilyMeasurement
	}
	return FamilyUnknown
}

// pointCount returns the number of points of path-like shapes, or -1.
func pointCount(s Shape) int {
	switch s := s.(type) {
	case Path:
		return len(s.Points)
	case Measurement:
		return len(s.Points)
	}
	return -1
}

type boundsVisitor struct{}

func (boundsVisitor) Box(b Box) Rect   { return b.Rect() }
func (boundsVisitor) Line(l Line) Rect { return l.Segment().Bounds() }
func (boundsVisitor) Path(p Path) Rect { return boundsOf(p.Points) }
func (boundsVisitor) Count(c CountMarker) Rect {
	return Rect{X0: c.X, Y0: c.Y, X1: c.X, Y1: c.Y}
}
func (boundsVisitor) Measurement(m Measurement) Rect { return boundsOf(m.Points) }

type verticesVisitor struct{}

func (verticesVisitor) Box(b Box) []Point {
	r := b.Rect()
	c := r.Center()
	return []Point{
		{X: r.X0, Y: r.Y0}, {X: r.X1, Y: r.Y0}, {X: r.X1, Y: r.Y1}, {X: r.X0, Y: r.Y1},
		{X: c.X, Y: r.Y0}, {X: r.X1, Y: c.Y}, {X: c.X, Y: r.Y1}, {X: r.X0, Y: c.Y},
	}
}

func (verticesVisitor) Line(l Line) []Point {
	s := l.Segment()
	return []Point{s.Start, s.End, s.Midpoint()}
}

func (verticesVisitor) Path(p Path) []Point {
	return polylineVertices(p.Points)
}

func (verticesVisitor) Count(c CountMarker) []Point {
	return []Point{c.Position()}
}

func (verticesVisitor) Measurement(m Measurement) []Point {
	return polylineVertices(m.Points)
}

func polylineVertices(points []Point) []Point {
	out := slices.Clone(points)
	for i := 1; i < len(points); i++ {
		out = append(out, Segment{Start: points[i-1], End: points[i]}.Midpoint())
	}
	return out
}

type translateVisitor struct{ d Point }

func (t translateVisitor) Box(b Box) Shape {
	b.X += t.d.X
	b.Y += t.d.Y
	return b
}

func (t translateVisitor) Line(l Line) Shape {
	l.StartX += t.d.X
	l.StartY += t.d.Y
	l.EndX += t.d.X
	l.EndY += t.d.Y
	return l
}

func (t translateVisitor) Path(p Path) Shape {
	return Path{Points: translatePoints(p.Points, t.d)}
}

func (t translateVisitor) Count(c CountMarker) Shape {
	c.X += t.d.X
	c.Y += t.d.Y
	return c
}

func (t translateVisitor) Measurement(m Measurement) Shape {
	m.Points = translatePoints(m.Points, t.d)
	return m
}

func translatePoints(points []Point, d Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = p.Add(d)
	}
	return out
}
