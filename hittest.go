package takeoff

// HandleID names a resize handle.
type HandleID string

const (
	HandleNW    HandleID = "nw"
	HandleNE    HandleID = "ne"
	HandleSE    HandleID = "se"
	HandleSW    HandleID = "sw"
	HandleN     HandleID = "n"
	HandleE     HandleID = "e"
	HandleS     HandleID = "s"
	HandleW     HandleID = "w"
	HandleStart HandleID = "start"
	HandleEnd   HandleID = "end"
)

// Handle is a resize handle position in document space.
type Handle struct {
	ID    HandleID
	Point Point
}

func zoomFactor(zoom float64) float64 {
	if zoom <= 0 {
		return 1
	}
	return zoom / 100
}

// FindMarkupAt returns the topmost markup under p, or nil. Markups later
// in the slice are on top.
func FindMarkupAt(p Point, markups []Markup, zoom float64, tol HitTolerances) *Markup {
	hv := hitVisitor{p: p, f: zoomFactor(zoom), tol: tol}
	for i := len(markups) - 1; i >= 0; i-- {
		if markups[i].Shape == nil {
			continue
		}
		if VisitShape(markups[i].Shape, hv) {
			return &markups[i]
		}
	}
	return nil
}

// HitTest reports whether p hits m.
func HitTest(p Point, m Markup, zoom float64, tol HitTolerances) bool {
	if m.Shape == nil {
		return false
	}
	return VisitShape(m.Shape, hitVisitor{p: p, f: zoomFactor(zoom), tol: tol})
}

type hitVisitor struct {
	p   Point
	f   float64
	tol HitTolerances
}

func (h hitVisitor) Box(b Box) bool {
	return b.Rect().Contains(h.p)
}

func (h hitVisitor) Line(l Line) bool {
	return l.Segment().DistanceTo(h.p) <= h.tol.Line/h.f
}

func (h hitVisitor) Path(p Path) bool {
	if len(p.Points) == 0 {
		return false
	}
	return boundsOf(p.Points).Expand(h.tol.PathPadding / h.f).ContainsClosed(h.p)
}

func (h hitVisitor) Count(c CountMarker) bool {
	return c.Position().Distance(h.p) <= h.tol.CountRadius/h.f
}

func (h hitVisitor) Measurement(m Measurement) bool {
	if len(m.Points) == 2 {
		return Segment{Start: m.Points[0], End: m.Points[1]}.DistanceTo(h.p) <= h.tol.Line/h.f
	}
	return h.Path(Path{Points: m.Points})
}

// Handles returns the resize handles of m, corners first.
func Handles(m Markup) []Handle {
	if m.Shape == nil {
		return nil
	}
	return VisitShape(m.Shape, handlesVisitor{})
}

// GetHandleAt returns the handle of m under p. Corners are tested before
// edge midpoints, so a corner wins where both are within reach.
func GetHandleAt(p Point, m Markup, zoom float64, tol HitTolerances) (HandleID, bool) {
	radius := tol.Handle / zoomFactor(zoom)
	for _, h := range Handles(m) {
		if h.Point.Distance(p) <= radius {
			return h.ID, true
		}
	}
	return "", false
}

type handlesVisitor struct{}

func (handlesVisitor) Box(b Box) []Handle {
	r := b.Rect()
	c := r.Center()
	return []Handle{
		{HandleNW, Point{X: r.X0, Y: r.Y0}},
		{HandleNE, Point{X: r.X1, Y: r.Y0}},
		{HandleSE, Point{X: r.X1, Y: r.Y1}},
		{HandleSW, Point{X: r.X0, Y: r.Y1}},
		{HandleN, Point{X: c.X, Y: r.Y0}},
		{HandleE, Point{X: r.X1, Y: c.Y}},
		{HandleS, Point{X: c.X, Y: r.Y1}},
		{HandleW, Point{X: r.X0, Y: c.Y}},
	}
}

func (handlesVisitor) Line(l Line) []Handle {
	return []Handle{
		{HandleStart, l.Start()},
		{HandleEnd, l.End()},
	}
}

func (handlesVisitor) Path(Path) []Handle               { return nil }
func (handlesVisitor) Count(CountMarker) []Handle       { return nil }
func (handlesVisitor) Measurement(Measurement) []Handle { return nil }
