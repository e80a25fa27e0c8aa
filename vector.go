package takeoff

import (
	"math"
	"sync"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// OpCode identifies a drawing operator in a page's operator stream.
type OpCode int

const (
	OpUnknown OpCode = iota
	OpSave
	OpRestore
	OpTransform    // a b c d e f
	OpMoveTo       // x y
	OpLineTo       // x y
	OpCurveTo      // x1 y1 x2 y2 x3 y3
	OpCurveTo2     // x2 y2 x3 y3, first control point is the current point
	OpCurveTo3     // x1 y1 x3 y3, second control point is the end point
	OpQuadCurveTo  // cx cy x y
	OpRectangle    // x y w h
	OpClosePath
	OpEndPath
)

var opArgCount = map[OpCode]int{
	OpTransform:   6,
	OpMoveTo:      2,
	OpLineTo:      2,
	OpCurveTo:     6,
	OpCurveTo2:    4,
	OpCurveTo3:    4,
	OpQuadCurveTo: 4,
	OpRectangle:   4,
}

// Operator is one entry of a page's drawing operator stream. Coordinates
// are in the page's native space (origin bottom-left).
type Operator struct {
	Code OpCode
	Args []float64
}

// PageContent is what the document collaborator provides for one page.
type PageContent struct {
	Number    int
	Width     float64 // viewport width at scale 1
	Height    float64 // viewport height at scale 1
	Operators []Operator
	Text      []TextItem
}

// SnapData is the derived, per-page snapping geometry in document space.
type SnapData struct {
	Lines         []Segment
	Endpoints     []Point
	Intersections []Point

	indexOnce sync.Once
	index     *snapIndex
}

// ExtractVectorPaths reconstructs the line segments of a page and derives
// its endpoint and intersection sets using the default limits.
func ExtractVectorPaths(page PageContent) *SnapData {
	return ExtractVectorPathsWithLimits(page, DefaultExtractionLimits())
}

// ExtractVectorPathsWithLimits is ExtractVectorPaths with explicit limits.
// Malformed streams never fail: unknown operators and operators with too
// few arguments are skipped, and an unbalanced restore is ignored.
func ExtractVectorPathsWithLimits(page PageContent, limits ExtractionLimits) *SnapData {
	if limits == (ExtractionLimits{}) {
		limits = DefaultExtractionLimits()
	}
	if limits.CurveSamples < 1 {
		limits.CurveSamples = 1
	}
	if limits.RenderScale == 0 {
		limits.RenderScale = 1
	}
	if limits.EndpointPrecision <= 0 {
		limits.EndpointPrecision = 0.1
	}

	x := &pathExtractor{
		height:  page.Height,
		limits:  limits,
		stack:   []matrix.Matrix{matrix.Identity},
		seen:    make(map[pointKey]struct{}),
		precise: limits.EndpointPrecision,
	}
	for _, op := range page.Operators {
		x.apply(op)
	}

	data := &SnapData{
		Lines:     x.lines,
		Endpoints: x.endpoints,
	}
	data.Intersections = findIntersections(x.lines, x.seen, limits)
	return data
}

type pointKey struct{ x, y int64 }

func keyFor(p Point, precision float64) pointKey {
	return pointKey{
		x: int64(math.Round(p.X / precision)),
		y: int64(math.Round(p.Y / precision)),
	}
}

type pathExtractor struct {
	height  float64
	limits  ExtractionLimits
	precise float64

	stack []matrix.Matrix

	current    vec.Vec2 // in device space, after the CTM
	start      vec.Vec2 // start of the current subpath
	hasCurrent bool

	lines     []Segment
	endpoints []Point
	seen      map[pointKey]struct{}
}

func (x *pathExtractor) ctm() matrix.Matrix {
	return x.stack[len(x.stack)-1]
}

func (x *pathExtractor) point(args []float64, i int) vec.Vec2 {
	return applyMatrix(x.ctm(), vec.Vec2{X: args[i], Y: args[i+1]})
}

func applyMatrix(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	x, y := m.Apply(v.X, v.Y)
	return vec.Vec2{X: x, Y: y}
}

func (x *pathExtractor) apply(op Operator) {
	if n, ok := opArgCount[op.Code]; ok && len(op.Args) < n {
		return
	}
	a := op.Args

	switch op.Code {
	case OpSave:
		x.stack = append(x.stack, x.ctm())
	case OpRestore:
		if len(x.stack) > 1 {
			x.stack = x.stack[:len(x.stack)-1]
		}
	case OpTransform:
		m := matrix.Matrix{a[0], a[1], a[2], a[3], a[4], a[5]}
		x.stack[len(x.stack)-1] = m.Mul(x.ctm())
	case OpMoveTo:
		x.current = x.point(a, 0)
		x.start = x.current
		x.hasCurrent = true
	case OpLineTo:
		p := x.point(a, 0)
		if x.hasCurrent {
			x.addLine(x.current, p)
		} else {
			x.start = p
		}
		x.current = p
		x.hasCurrent = true
	case OpCurveTo:
		x.curve(x.point(a, 0), x.point(a, 2), x.point(a, 4))
	case OpCurveTo2:
		x.curve(x.current, x.point(a, 0), x.point(a, 2))
	case OpCurveTo3:
		end := x.point(a, 2)
		x.curve(x.point(a, 0), end, end)
	case OpQuadCurveTo:
		x.quad(x.point(a, 0), x.point(a, 2))
	case OpRectangle:
		x0, y0, w, h := a[0], a[1], a[2], a[3]
		corners := [4]vec.Vec2{
			applyMatrix(x.ctm(), vec.Vec2{X: x0, Y: y0}),
			applyMatrix(x.ctm(), vec.Vec2{X: x0 + w, Y: y0}),
			applyMatrix(x.ctm(), vec.Vec2{X: x0 + w, Y: y0 + h}),
			applyMatrix(x.ctm(), vec.Vec2{X: x0, Y: y0 + h}),
		}
		for i := range corners {
			x.addLine(corners[i], corners[(i+1)%4])
		}
		x.current = corners[0]
		x.start = corners[0]
		x.hasCurrent = true
	case OpClosePath:
		if x.hasCurrent {
			x.addLine(x.current, x.start)
			x.current = x.start
		}
	case OpEndPath:
		x.hasCurrent = false
	}
}

// curve flattens a cubic Bézier from the current point.
func (x *pathExtractor) curve(c1, c2, end vec.Vec2) {
	if !x.hasCurrent {
		x.current, x.start, x.hasCurrent = end, end, true
		return
	}
	p0 := x.current
	n := x.limits.CurveSamples
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		next := cubicAt(p0, c1, c2, end, t)
		x.addLine(prev, next)
		prev = next
	}
	x.current = end
}

// quad flattens a quadratic Bézier from the current point.
func (x *pathExtractor) quad(c, end vec.Vec2) {
	if !x.hasCurrent {
		x.current, x.start, x.hasCurrent = end, end, true
		return
	}
	p0 := x.current
	n := x.limits.CurveSamples
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		next := quadAt(p0, c, end, t)
		x.addLine(prev, next)
		prev = next
	}
	x.current = end
}

func cubicAt(p0, p1, p2, p3 vec.Vec2, t float64) vec.Vec2 {
	mt := 1 - t
	return p0.Mul(mt * mt * mt).
		Add(p1.Mul(3 * mt * mt * t)).
		Add(p2.Mul(3 * mt * t * t)).
		Add(p3.Mul(t * t * t))
}

func quadAt(p0, p1, p2 vec.Vec2, t float64) vec.Vec2 {
	mt := 1 - t
	return p0.Mul(mt * mt).
		Add(p1.Mul(2 * mt * t)).
		Add(p2.Mul(t * t))
}

// addLine flips a device-space segment into document space and registers
// it, subject to the length and count guards.
func (x *pathExtractor) addLine(a, b vec.Vec2) {
	if len(x.lines) >= x.limits.MaxLines {
		return
	}
	s := x.limits.RenderScale
	seg := Segment{
		Start: Point{X: a.X * s, Y: (x.height - a.Y) * s},
		End:   Point{X: b.X * s, Y: (x.height - b.Y) * s},
	}
	if seg.Length() < x.limits.MinLineLength {
		return
	}
	x.lines = append(x.lines, seg)
	x.addEndpoint(seg.Start)
	x.addEndpoint(seg.End)
}

func (x *pathExtractor) addEndpoint(p Point) {
	k := keyFor(p, x.precise)
	if _, ok := x.seen[k]; ok {
		return
	}
	x.seen[k] = struct{}{}
	x.endpoints = append(x.endpoints, p)
}

// findIntersections derives the unique crossing points of the first
// MaxIntersectionLines lines, skipping points that coincide with an
// endpoint.
func findIntersections(lines []Segment, endpoints map[pointKey]struct{}, limits ExtractionLimits) []Point {
	n := min(len(lines), limits.MaxIntersectionLines)
	found := make(map[pointKey]struct{})
	var out []Point

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if len(out) >= limits.MaxIntersections {
				return out
			}
			p, _, _, ok := lines[i].Intersect(lines[j])
			if !ok {
				continue
			}
			k := keyFor(p, limits.EndpointPrecision)
			if _, isEndpoint := endpoints[k]; isEndpoint {
				continue
			}
			if _, dup := found[k]; dup {
				continue
			}
			found[k] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
