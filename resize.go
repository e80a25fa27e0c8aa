package takeoff

// ResizeMarkup returns snapshot with handle h moved by delta. The result is
// always computed from the gesture-start snapshot, never from a previous
// frame. Box edges are clamped so neither side drops below minSize.
func ResizeMarkup(snapshot Markup, h HandleID, delta Point, minSize float64) Markup {
	out := snapshot
	if snapshot.Shape == nil {
		return out
	}
	out.Shape = VisitShape(snapshot.Shape, resizeVisitor{h: h, d: delta, min: minSize})
	return out
}

// MoveMarkup returns snapshot translated by delta.
func MoveMarkup(snapshot Markup, delta Point) Markup {
	return snapshot.Translate(delta)
}

type resizeVisitor struct {
	h   HandleID
	d   Point
	min float64
}

func (v resizeVisitor) moves() (west, east, north, south bool) {
	switch v.h {
	case HandleNW:
		return true, false, true, false
	case HandleNE:
		return false, true, true, false
	case HandleSE:
		return false, true, false, true
	case HandleSW:
		return true, false, false, true
	case HandleN:
		north = true
	case HandleE:
		east = true
	case HandleS:
		south = true
	case HandleW:
		west = true
	}
	return
}

func (v resizeVisitor) Box(b Box) Shape {
	r := b.Rect()
	west, east, north, south := v.moves()

	switch {
	case west:
		r.X0 = min(r.X0+v.d.X, r.X1-v.min)
	case east:
		r.X1 = max(r.X1+v.d.X, r.X0+v.min)
	case r.Width() < v.min:
		r.X1 = r.X0 + v.min
	}
	switch {
	case north:
		r.Y0 = min(r.Y0+v.d.Y, r.Y1-v.min)
	case south:
		r.Y1 = max(r.Y1+v.d.Y, r.Y0+v.min)
	case r.Height() < v.min:
		r.Y1 = r.Y0 + v.min
	}

	return Box{X: r.X0, Y: r.Y0, Width: r.Width(), Height: r.Height()}
}

func (v resizeVisitor) Line(l Line) Shape {
	switch v.h {
	case HandleStart:
		l.StartX += v.d.X
		l.StartY += v.d.Y
	case HandleEnd:
		l.EndX += v.d.X
		l.EndY += v.d.Y
	}
	return l
}

func (resizeVisitor) Path(p Path) Shape                { return p }
func (resizeVisitor) Count(c CountMarker) Shape        { return c }
func (resizeVisitor) Measurement(m Measurement) Shape { return m }
