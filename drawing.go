package takeoff

import (
	"math"
	"slices"
)

// Tool is the active editor tool.
type Tool string

const (
	ToolSelect        Tool = "select"
	ToolPan           Tool = "pan"
	ToolRectangle     Tool = "rectangle"
	ToolEllipse       Tool = "ellipse"
	ToolLine          Tool = "line"
	ToolArrow         Tool = "arrow"
	ToolText          Tool = "text"
	ToolCallout       Tool = "callout"
	ToolHighlight     Tool = "highlight"
	ToolStamp         Tool = "stamp"
	ToolMeasureLength Tool = "measure-length"
	ToolMeasureArea   Tool = "measure-area"
	ToolPolyline      Tool = "polyline"
	ToolPolygon       Tool = "polygon"
	ToolCloud         Tool = "cloud"
	ToolFreehand      Tool = "freehand"
	ToolCount         Tool = "count"
	ToolCalibrate     Tool = "calibrate"
)

type toolFamily int

const (
	familyNone toolFamily = iota
	familyDrag
	familyMultiClick
	familyFreehand
	familyCount
)

func (t Tool) family() toolFamily {
	switch t {
	case ToolRectangle, ToolEllipse, ToolLine, ToolArrow, ToolText, ToolCallout,
		ToolHighlight, ToolStamp, ToolMeasureLength, ToolMeasureArea:
		return familyDrag
	case ToolPolyline, ToolPolygon, ToolCloud:
		return familyMultiClick
	case ToolFreehand:
		return familyFreehand
	case ToolCount:
		return familyCount
	}
	return familyNone
}

// Kind returns the markup kind the tool creates, or "" for tools that
// create none.
func (t Tool) Kind() Kind {
	if t.family() == familyNone {
		return ""
	}
	return Kind(t)
}

// DrawingState is the in-progress geometry of a drawing gesture.
// Confirmed holds committed clicks; Preview follows the cursor.
type DrawingState struct {
	Confirmed []Point
	Preview   *Point
}

// Points returns the confirmed points followed by the preview, if any.
func (d DrawingState) Points() []Point {
	out := slices.Clone(d.Confirmed)
	if d.Preview != nil {
		out = append(out, *d.Preview)
	}
	return out
}

func (d DrawingState) clone() DrawingState {
	out := DrawingState{Confirmed: slices.Clone(d.Confirmed)}
	if d.Preview != nil {
		p := *d.Preview
		out.Preview = &p
	}
	return out
}

const pointEpsilon = 1e-9

// dragShape builds the geometry of a drag-family tool from its anchor and
// end point. ok is false when the two points coincide.
func dragShape(t Tool, a, b Point, scale Scale, words []TextItem) (Shape, bool) {
	if a.Equal(b, pointEpsilon) {
		return nil, false
	}
	switch t {
	case ToolLine, ToolArrow:
		return LineFromPoints(a, b), true
	case ToolMeasureLength:
		points := []Point{a, b}
		px := MeasureLength(points)
		return Measurement{Points: points, Value: px, ScaledValue: scale.Length(px), Unit: scale.Unit}, true
	case ToolMeasureArea:
		r := NormalizeRect(a, b)
		points := []Point{
			{X: r.X0, Y: r.Y0}, {X: r.X1, Y: r.Y0}, {X: r.X1, Y: r.Y1}, {X: r.X0, Y: r.Y1},
		}
		px := MeasureArea(points)
		return Measurement{Points: points, Value: px, ScaledValue: scale.Area(px), Unit: scale.Unit}, true
	case ToolHighlight:
		r := SnapHighlightToText(NormalizeRect(a, b), words)
		return Box{X: r.X0, Y: r.Y0, Width: r.Width(), Height: r.Height()}, true
	}
	return BoxFromCorners(a, b), true
}

// completePath returns the confirmed points with consecutive duplicates
// removed, or false when fewer than the kind's minimum remain.
func completePath(kind Kind, confirmed []Point) ([]Point, bool) {
	points := slices.CompactFunc(slices.Clone(confirmed), func(a, b Point) bool {
		return a.Equal(b, pointEpsilon)
	})
	if len(points) < kind.MinPoints() {
		return nil, false
	}
	return points, true
}

// constrain applies the shift modifier: segments snap to 45° steps and
// boxes become squares.
func constrain(t Tool, anchor, p Point) Point {
	d := p.Sub(anchor)
	switch t {
	case ToolLine, ToolArrow, ToolMeasureLength:
		length := math.Hypot(d.X, d.Y)
		angle := quantizeAngle(math.Atan2(d.Y, d.X)*180/math.Pi, 45)
		sin, cos := sinCos(angle)
		return Point{X: anchor.X + length*cos, Y: anchor.Y + length*sin}
	}
	side := math.Max(math.Abs(d.X), math.Abs(d.Y))
	return Point{
		X: anchor.X + math.Copysign(side, d.X),
		Y: anchor.Y + math.Copysign(side, d.Y),
	}
}
