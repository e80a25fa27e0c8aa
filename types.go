package takeoff

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Point is a 2D position. Stored geometry is always in document space
// (page pixels at the base render scale, origin top-left, Y down).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Equal reports whether p and q coincide within eps.
func (p Point) Equal(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

func (p Point) vec() vec.Vec2 {
	return vec.Vec2{X: p.X, Y: p.Y}
}

func pointFromVec(v vec.Vec2) Point {
	return Point{X: v.X, Y: v.Y}
}

// Rect represents a bounding box in document coordinates.
type Rect struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.X0 + r.X1) / 2, Y: (r.Y0 + r.Y1) / 2}
}

// Contains reports whether p lies strictly inside r.
func (r Rect) Contains(p Point) bool {
	return p.X > r.X0 && p.X < r.X1 && p.Y > r.Y0 && p.Y < r.Y1
}

// ContainsClosed reports whether p lies inside r or on its border.
func (r Rect) ContainsClosed(p Point) bool {
	return p.X >= r.X0 && p.X <= r.X1 && p.Y >= r.Y0 && p.Y <= r.Y1
}

// Expand grows r by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{X0: r.X0 - margin, Y0: r.Y0 - margin, X1: r.X1 + margin, Y1: r.Y1 + margin}
}

// Intersects reports whether r and o overlap (touching counts).
func (r Rect) Intersects(o Rect) bool {
	return !(o.X0 > r.X1 || o.X1 < r.X0 || o.Y0 > r.Y1 || o.Y1 < r.Y0)
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, o.X0),
		Y0: math.Min(r.Y0, o.Y0),
		X1: math.Max(r.X1, o.X1),
		Y1: math.Max(r.Y1, o.Y1),
	}
}

// NormalizeRect returns the rectangle spanned by two arbitrary corners.
func NormalizeRect(a, b Point) Rect {
	return Rect{
		X0: math.Min(a.X, b.X),
		Y0: math.Min(a.Y, b.Y),
		X1: math.Max(a.X, b.X),
		Y1: math.Max(a.Y, b.Y),
	}
}

// boundsOf returns the bounding box of a non-empty point list.
func boundsOf(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{X0: points[0].X, Y0: points[0].Y, X1: points[0].X, Y1: points[0].Y}
	for _, p := range points[1:] {
		r.X0 = math.Min(r.X0, p.X)
		r.Y0 = math.Min(r.Y0, p.Y)
		r.X1 = math.Max(r.X1, p.X)
		r.Y1 = math.Max(r.Y1, p.Y)
	}
	return r
}

// Segment is a straight line between two points.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Length returns the length of the segment.
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// Midpoint returns the point halfway along the segment.
func (s Segment) Midpoint() Point {
	return Point{X: (s.Start.X + s.End.X) / 2, Y: (s.Start.Y + s.End.Y) / 2}
}

// Bounds returns the axis-aligned bounding box of the segment.
func (s Segment) Bounds() Rect {
	return NormalizeRect(s.Start, s.End)
}

// ClosestPoint returns the point on the segment nearest to p. The
// projection parameter is clamped to [0, 1], so the result never lies
// beyond either end.
func (s Segment) ClosestPoint(p Point) Point {
	d := s.End.vec().Sub(s.Start.vec())
	lenSq := d.X*d.X + d.Y*d.Y
	if lenSq == 0 {
		return s.Start
	}
	t := ((p.X-s.Start.X)*d.X + (p.Y-s.Start.Y)*d.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	return pointFromVec(s.Start.vec().Add(d.Mul(t)))
}

// DistanceTo returns the distance from p to the nearest point of the segment.
func (s Segment) DistanceTo(p Point) float64 {
	return p.Distance(s.ClosestPoint(p))
}

// Intersect returns the intersection point of two segments using the
// parametric determinant method. Parallel segments and intersections
// outside [0, 1] on either segment report false.
func (s Segment) Intersect(o Segment) (Point, float64, float64, bool) {
	x1, y1 := s.Start.X, s.Start.Y
	x2, y2 := s.End.X, s.End.Y
	x3, y3 := o.Start.X, o.Start.Y
	x4, y4 := o.End.X, o.End.Y

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if math.Abs(denom) < 1e-10 {
		return Point{}, 0, 0, false
	}

	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / denom
	u := -((x1-x2)*(y1-y3) - (y1-y2)*(x1-x3)) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, t, u, false
	}

	return Point{X: x1 + t*(x2-x1), Y: y1 + t*(y2-y1)}, t, u, true
}

// TextItem is a word extracted from the page with its bounding box in
// document space.
type TextItem struct {
	Text string
	Box  Rect
}
