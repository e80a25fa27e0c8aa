package takeoff

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrMarkupNotFound is returned when an operation names an unknown markup.
	ErrMarkupNotFound = errors.New("markup not found")

	// ErrNotCountMarker is returned when a group operation targets a
	// markup that is not a count marker.
	ErrNotCountMarker = errors.New("markup is not a count marker")

	// ErrLocked is returned when a locked markup would be modified.
	ErrLocked = errors.New("markup is locked")
)

// Gesture is the single transient interaction slot. At most one gesture
// is active at a time.
type Gesture int

const (
	GestureIdle Gesture = iota
	GestureDrawing
	GestureResizing
	GestureDragging
	GesturePanning
	GestureCalibrating
)

func (g Gesture) String() string {
	switch g {
	case GestureIdle:
		return "idle"
	case GestureDrawing:
		return "drawing"
	case GestureResizing:
		return "resizing"
	case GestureDragging:
		return "dragging"
	case GesturePanning:
		return "panning"
	case GestureCalibrating:
		return "calibrating"
	}
	return fmt.Sprintf("Gesture(%d)", int(g))
}

// Button is a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Key is a keyboard key the editor reacts to.
type Key string

const (
	KeyEscape Key = "Escape"
	KeyEnter  Key = "Enter"
	KeyDelete Key = "Delete"
)

// PointerEvent is a pointer input in screen space.
type PointerEvent struct {
	Screen    Point
	Button    Button
	PointerID int
	Shift     bool
}

// Result describes what an input event changed.
type Result struct {
	// Committed is the markup created by the event, if any.
	Committed *Markup

	// Updated is the live geometry of a markup being resized or dragged.
	Updated *Markup

	// Pan is the new pan offset while panning.
	Pan *Point

	// Snap is the snap indicator for the cursor, if it snapped.
	Snap *SnapResult

	// CalibrationRequested is set when both calibration points are
	// captured and the real distance should be asked for.
	CalibrationRequested bool
	PixelDistance        float64

	// Changed reports whether any editor state changed.
	Changed bool
}

// ResizeState is the gesture-start snapshot of a resize.
type ResizeState struct {
	Handle    HandleID
	Start     Point // handle position at gesture start
	Snapshot  Markup
	Current   Markup
	PointerID int
}

// DragState is the gesture-start snapshot of a selection drag.
type DragState struct {
	Start     Point
	Snapshot  Markup
	Current   Markup
	PointerID int
}

// PanState is the gesture-start snapshot of a pan.
type PanState struct {
	StartScreen Point
	StartPan    Point
	PointerID   int
}

// Editor drives markup construction from pointer and keyboard events.
// It is not safe for concurrent use; call it from the event loop only.
type Editor struct {
	cfg     Config
	store   MarkupStore
	undo    UndoRecorder
	capture PointerCapturer
	snap    *SnapEngine

	page  int
	words []TextItem
	tool  Tool
	scale Scale

	gesture     Gesture
	drawing     DrawingState
	resize      ResizeState
	drag        DragState
	pan         PanState
	calibration CalibrationState
	selection   string

	activeGroup   string
	linkedProduct string
}

// NewEditor creates an editor for page 1 with the default configuration.
func NewEditor(store MarkupStore) *Editor {
	return NewEditorWithConfig(store, DefaultConfig())
}

// NewEditorWithConfig creates an editor with custom configuration.
func NewEditorWithConfig(store MarkupStore, cfg Config) *Editor {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Editor{
		cfg:     cfg,
		store:   store,
		undo:    NopUndo{},
		capture: NopCapture{},
		snap:    NewSnapEngine(cfg.Snap),
		page:    1,
		tool:    ToolSelect,
		scale:   DefaultScale(),
	}
}

// SetUndoRecorder installs the sink for undo records.
func (e *Editor) SetUndoRecorder(u UndoRecorder) {
	if u == nil {
		u = NopUndo{}
	}
	e.undo = u
}

// SetPointerCapturer installs the pointer capture collaborator.
func (e *Editor) SetPointerCapturer(c PointerCapturer) {
	if c == nil {
		c = NopCapture{}
	}
	e.capture = c
}

func (e *Editor) Tool() Tool                    { return e.tool }
func (e *Editor) Gesture() Gesture              { return e.gesture }
func (e *Editor) Page() int                     { return e.page }
func (e *Editor) Scale() Scale                  { return e.scale }
func (e *Editor) SetScale(s Scale)              { e.scale = s }
func (e *Editor) Calibration() CalibrationState { return e.calibration }
func (e *Editor) Snap() *SnapEngine             { return e.snap }

// Selection returns the id of the selected markup, or "".
func (e *Editor) Selection() string { return e.selection }

// Select selects the markup with the given id. An empty id clears the
// selection.
func (e *Editor) Select(id string) { e.selection = id }

// Drawing returns a copy of the in-progress drawing geometry.
func (e *Editor) Drawing() DrawingState { return e.drawing.clone() }

// ActiveCountGroup returns the explicitly chosen count group, or "".
func (e *Editor) ActiveCountGroup() string { return e.activeGroup }

// SetActiveCountGroup makes new count markers join group. An empty group
// reverts to the product or page default.
func (e *Editor) SetActiveCountGroup(group string) { e.activeGroup = group }

// SetLinkedProduct sets the product new count markers are attributed to.
func (e *Editor) SetLinkedProduct(productID string) { e.linkedProduct = productID }

// SetSnapData replaces the page geometry used for snapping.
func (e *Editor) SetSnapData(data *SnapData) { e.snap.SetData(data) }

// SetPageText replaces the page words used to snap highlights.
func (e *Editor) SetPageText(words []TextItem) { e.words = words }

// SetPage switches to another page, abandoning any gesture and the
// selection. Snap data must be supplied again for the new page.
func (e *Editor) SetPage(page int) {
	if page == e.page {
		return
	}
	e.abort()
	e.page = page
	e.selection = ""
	e.words = nil
	e.snap.SetData(nil)
}

// SetTool switches tools. Any in-progress gesture is abandoned. Choosing
// the calibrate tool enters calibration.
func (e *Editor) SetTool(t Tool) {
	e.abort()
	e.tool = t
	if t == ToolCalibrate {
		e.calibration = CalibrationState{Active: true}
		e.gesture = GestureCalibrating
	}
}

// abort drops any gesture without committing it.
func (e *Editor) abort() {
	switch e.gesture {
	case GesturePanning:
		e.capture.Release(e.pan.PointerID)
	case GestureResizing:
		e.capture.Release(e.resize.PointerID)
	case GestureDragging:
		e.capture.Release(e.drag.PointerID)
	}
	e.gesture = GestureIdle
	e.drawing = DrawingState{}
	e.resize = ResizeState{}
	e.drag = DragState{}
	e.pan = PanState{}
	e.calibration = CalibrationState{}
}

func (e *Editor) load(ctx context.Context) ([]Markup, error) {
	markups, err := e.store.Markups(ctx, e.page)
	if err != nil {
		return nil, errors.Wrapf(err, "load markups for page %d", e.page)
	}
	e.snap.SetMarkups(markups)
	return markups, nil
}

func (e *Editor) save(ctx context.Context, markups []Markup) error {
	if err := e.store.SaveMarkups(ctx, e.page, markups); err != nil {
		return errors.Wrapf(err, "save markups for page %d", e.page)
	}
	e.snap.SetMarkups(markups)
	return nil
}

func (e *Editor) record(ctx context.Context, action UndoAction, before, after []Markup, description string) error {
	rec := UndoRecord{
		Action:      action,
		Page:        e.page,
		Before:      before,
		After:       after,
		Description: description,
	}
	if err := e.undo.Record(ctx, rec); err != nil {
		return errors.Wrapf(err, "record %s", action)
	}
	return nil
}

// snapPoint resolves the document point under the pointer for the active
// tool. exclude omits one markup's own vertices.
func (e *Editor) snapPoint(doc Point, v Viewport, exclude string) SnapResult {
	if e.tool == ToolFreehand {
		return SnapResult{Point: doc}
	}
	return e.snap.snap(doc, v, exclude)
}

func withSnap(r Result, s SnapResult) Result {
	if s.Snapped() {
		r.Snap = &s
	}
	return r
}

// PointerDown starts a gesture or adds a click to the current one.
func (e *Editor) PointerDown(ctx context.Context, ev PointerEvent, v Viewport) (Result, error) {
	doc := ScreenToDocument(ev.Screen, v)

	switch e.gesture {
	case GestureDrawing:
		if e.tool.family() != familyMultiClick || ev.Button != ButtonLeft {
			return Result{}, nil
		}
		s := e.snapPoint(doc, v, "")
		p := s.Point
		e.drawing.Confirmed = append(e.drawing.Confirmed, p)
		e.drawing.Preview = &p
		return withSnap(Result{Changed: true}, s), nil
	case GestureCalibrating:
		if ev.Button != ButtonLeft {
			return Result{}, nil
		}
		return e.calibrationClick(doc, v), nil
	case GestureIdle:
	default:
		return Result{}, nil
	}

	if ev.Button == ButtonMiddle || (ev.Button == ButtonLeft && e.tool == ToolPan) {
		e.pan = PanState{StartScreen: ev.Screen, StartPan: v.Pan, PointerID: ev.PointerID}
		e.gesture = GesturePanning
		e.capture.Capture(ev.PointerID)
		return Result{Changed: true}, nil
	}
	if ev.Button != ButtonLeft {
		return Result{}, nil
	}

	switch e.tool.family() {
	case familyDrag:
		s := e.snapPoint(doc, v, "")
		e.drawing = DrawingState{Confirmed: []Point{s.Point}}
		e.gesture = GestureDrawing
		return withSnap(Result{Changed: true}, s), nil
	case familyMultiClick:
		s := e.snapPoint(doc, v, "")
		p := s.Point
		e.drawing = DrawingState{Confirmed: []Point{p}, Preview: &p}
		e.gesture = GestureDrawing
		return withSnap(Result{Changed: true}, s), nil
	case familyFreehand:
		e.drawing = DrawingState{Confirmed: []Point{doc}}
		e.gesture = GestureDrawing
		return Result{Changed: true}, nil
	case familyCount:
		s := e.snapPoint(doc, v, "")
		return e.placeCount(ctx, s)
	}

	if e.tool == ToolSelect {
		return e.selectAt(ctx, ev, doc, v)
	}
	return Result{}, nil
}

func (e *Editor) selectAt(ctx context.Context, ev PointerEvent, doc Point, v Viewport) (Result, error) {
	markups, err := e.load(ctx)
	if err != nil {
		return Result{}, err
	}

	if i := indexOf(markups, e.selection); i >= 0 && !markups[i].Locked {
		m := markups[i]
		if h, ok := GetHandleAt(doc, m, v.Zoom, e.cfg.HitTolerances); ok {
			start := doc
			for _, hd := range Handles(m) {
				if hd.ID == h {
					start = hd.Point
				}
			}
			e.resize = ResizeState{
				Handle:    h,
				Start:     start,
				Snapshot:  m.Clone(),
				Current:   m.Clone(),
				PointerID: ev.PointerID,
			}
			e.gesture = GestureResizing
			e.capture.Capture(ev.PointerID)
			return Result{Changed: true}, nil
		}
	}

	hit := FindMarkupAt(doc, markups, v.Zoom, e.cfg.HitTolerances)
	if hit == nil {
		changed := e.selection != ""
		e.selection = ""
		return Result{Changed: changed}, nil
	}

	e.selection = hit.ID
	if !hit.Locked {
		e.drag = DragState{
			Start:     doc,
			Snapshot:  hit.Clone(),
			Current:   hit.Clone(),
			PointerID: ev.PointerID,
		}
		e.gesture = GestureDragging
		e.capture.Capture(ev.PointerID)
	}
	return Result{Changed: true}, nil
}

// PointerMove updates the active gesture, or reports the snap indicator
// when idle with a drawing tool.
func (e *Editor) PointerMove(ctx context.Context, ev PointerEvent, v Viewport) (Result, error) {
	doc := ScreenToDocument(ev.Screen, v)

	switch e.gesture {
	case GesturePanning:
		if ev.PointerID != e.pan.PointerID {
			return Result{}, nil
		}
		pan := e.pan.StartPan.Add(ev.Screen.Sub(e.pan.StartScreen))
		return Result{Pan: &pan, Changed: true}, nil

	case GestureResizing:
		if ev.PointerID != e.resize.PointerID {
			return Result{}, nil
		}
		s := e.snap.snap(doc, v, e.resize.Snapshot.ID)
		delta := s.Point.Sub(e.resize.Start)
		e.resize.Current = ResizeMarkup(e.resize.Snapshot, e.resize.Handle, delta, e.cfg.MinResizeSize)
		m := e.resize.Current.Clone()
		return withSnap(Result{Updated: &m, Changed: true}, s), nil

	case GestureDragging:
		if ev.PointerID != e.drag.PointerID {
			return Result{}, nil
		}
		delta := doc.Sub(e.drag.Start)
		e.drag.Current = MoveMarkup(e.drag.Snapshot, delta)
		m := e.drag.Current.Clone()
		return Result{Updated: &m, Changed: true}, nil

	case GestureDrawing:
		switch e.tool.family() {
		case familyFreehand:
			e.drawing.Confirmed = append(e.drawing.Confirmed, doc)
			return Result{Changed: true}, nil
		case familyDrag:
			s := e.snapPoint(doc, v, "")
			p := s.Point
			if ev.Shift {
				p = constrain(e.tool, e.drawing.Confirmed[0], p)
			}
			e.drawing.Preview = &p
			return withSnap(Result{Changed: true}, s), nil
		case familyMultiClick:
			s := e.snapPoint(doc, v, "")
			p := s.Point
			e.drawing.Preview = &p
			return withSnap(Result{Changed: true}, s), nil
		}

	case GestureCalibrating:
		c := e.calibration
		if c.Point1 == nil || c.AwaitingDistance {
			return Result{}, nil
		}
		s := e.snapPoint(doc, v, "")
		p := s.Point
		e.calibration.Point2 = &p
		return withSnap(Result{Changed: true, PixelDistance: e.calibration.PixelDistance()}, s), nil

	case GestureIdle:
		if e.tool == ToolFreehand || e.tool.family() == familyNone {
			return Result{}, nil
		}
		if _, err := e.load(ctx); err != nil {
			return Result{}, err
		}
		return withSnap(Result{}, e.snapPoint(doc, v, "")), nil
	}
	return Result{}, nil
}

// PointerUp ends drag-style gestures. Multi-click drawing ignores it.
func (e *Editor) PointerUp(ctx context.Context, ev PointerEvent, v Viewport) (Result, error) {
	switch e.gesture {
	case GesturePanning:
		if ev.PointerID != e.pan.PointerID {
			return Result{}, nil
		}
		pan := e.pan.StartPan.Add(ev.Screen.Sub(e.pan.StartScreen))
		e.capture.Release(e.pan.PointerID)
		e.pan = PanState{}
		e.gesture = GestureIdle
		return Result{Pan: &pan, Changed: true}, nil

	case GestureResizing:
		if ev.PointerID != e.resize.PointerID {
			return Result{}, nil
		}
		st := e.resize
		e.capture.Release(st.PointerID)
		e.resize = ResizeState{}
		e.gesture = GestureIdle
		return e.replace(ctx, UndoResize, st.Snapshot, st.Current, "Resize "+string(st.Snapshot.Kind))

	case GestureDragging:
		if ev.PointerID != e.drag.PointerID {
			return Result{}, nil
		}
		st := e.drag
		e.capture.Release(st.PointerID)
		e.drag = DragState{}
		e.gesture = GestureIdle
		if st.Current.Bounds() == st.Snapshot.Bounds() {
			return Result{}, nil
		}
		return e.replace(ctx, UndoMove, st.Snapshot, st.Current, "Move "+string(st.Snapshot.Kind))

	case GestureDrawing:
		switch e.tool.family() {
		case familyDrag:
			d := e.drawing
			e.drawing = DrawingState{}
			e.gesture = GestureIdle
			end := d.Confirmed[0]
			if d.Preview != nil {
				end = *d.Preview
			}
			shape, ok := dragShape(e.tool, d.Confirmed[0], end, e.scale, e.words)
			if !ok {
				return Result{Changed: true}, nil
			}
			return e.create(ctx, e.tool.Kind(), shape)
		case familyFreehand:
			points := e.drawing.Confirmed
			e.drawing = DrawingState{}
			e.gesture = GestureIdle
			if len(points) < KindFreehand.MinPoints() {
				return Result{Changed: true}, nil
			}
			return e.create(ctx, KindFreehand, Path{}.WithPoints(points))
		}
	}
	return Result{}, nil
}

// DoubleClick completes a multi-click drawing.
func (e *Editor) DoubleClick(ctx context.Context, ev PointerEvent, v Viewport) (Result, error) {
	if e.gesture != GestureDrawing || e.tool.family() != familyMultiClick {
		return Result{}, nil
	}
	return e.completeMultiClick(ctx)
}

func (e *Editor) completeMultiClick(ctx context.Context) (Result, error) {
	kind := e.tool.Kind()
	confirmed := e.drawing.Confirmed
	e.drawing = DrawingState{}
	e.gesture = GestureIdle

	points, ok := completePath(kind, confirmed)
	if !ok {
		return Result{Changed: true}, nil
	}
	return e.create(ctx, kind, Path{}.WithPoints(points))
}

// KeyDown handles Escape, Enter and Delete.
func (e *Editor) KeyDown(ctx context.Context, key Key) (Result, error) {
	switch key {
	case KeyEscape:
		switch e.gesture {
		case GestureIdle:
			e.selection = ""
			e.tool = ToolSelect
		case GestureCalibrating:
			e.CancelCalibration()
		default:
			e.abort()
		}
		return Result{Changed: true}, nil

	case KeyEnter:
		if e.gesture == GestureDrawing && e.tool.family() == familyMultiClick {
			return e.completeMultiClick(ctx)
		}

	case KeyDelete:
		if e.gesture == GestureIdle && e.selection != "" {
			if err := e.DeleteMarkup(ctx, e.selection); err != nil {
				return Result{}, err
			}
			return Result{Changed: true}, nil
		}
	}
	return Result{}, nil
}

// ContextMenu returns the markup under the pointer for a context menu,
// or nil. It does not change editor state.
func (e *Editor) ContextMenu(ctx context.Context, ev PointerEvent, v Viewport) (*Markup, error) {
	if e.gesture != GestureIdle {
		return nil, nil
	}
	markups, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	doc := ScreenToDocument(ev.Screen, v)
	return FindMarkupAt(doc, markups, v.Zoom, e.cfg.HitTolerances), nil
}

func (e *Editor) calibrationClick(doc Point, v Viewport) Result {
	s := e.snapPoint(doc, v, "")
	p := s.Point
	c := &e.calibration

	switch {
	case c.Point1 == nil:
		c.Point1 = &p
		c.Point2 = nil
		return withSnap(Result{Changed: true}, s)
	case !c.AwaitingDistance:
		c.Point2 = &p
		c.AwaitingDistance = true
		return withSnap(Result{
			Changed:              true,
			CalibrationRequested: true,
			PixelDistance:        c.PixelDistance(),
		}, s)
	}
	return Result{}
}

// CommitCalibration derives the scale from the captured points and the
// real distance between them, then returns to the select tool.
func (e *Editor) CommitCalibration(distance float64, unit string) (Scale, error) {
	c := e.calibration
	if !c.Active || !c.AwaitingDistance || c.Point1 == nil || c.Point2 == nil {
		return Scale{}, ErrNoCalibrationPending
	}
	if err := validateDistance(distance); err != nil {
		return Scale{}, err
	}

	e.scale = DeriveScale(*c.Point1, *c.Point2, distance, unit)
	e.calibration = CalibrationState{}
	e.gesture = GestureIdle
	e.tool = ToolSelect
	if e.cfg.EnableMetricsLogging {
		e.cfg.logger().Printf("Calibrated page %d: %.4f px/%s", e.page, e.scale.PixelsPerUnit, unit)
	}
	return e.scale, nil
}

// CancelCalibration clears both points and leaves the current scale as is.
func (e *Editor) CancelCalibration() {
	if e.gesture == GestureCalibrating {
		e.gesture = GestureIdle
	}
	e.calibration = CalibrationState{}
	if e.tool == ToolCalibrate {
		e.tool = ToolSelect
	}
}

// countGroupID returns the group new markers join.
func (e *Editor) countGroupID() string {
	if e.activeGroup != "" {
		return e.activeGroup
	}
	if e.linkedProduct != "" {
		return "count:" + e.linkedProduct
	}
	return fmt.Sprintf("count:page-%d", e.page)
}

func (e *Editor) placeCount(ctx context.Context, s SnapResult) (Result, error) {
	marker := CountMarker{
		X:         s.Point.X,
		Y:         s.Point.Y,
		GroupID:   e.countGroupID(),
		ProductID: e.linkedProduct,
	}
	r, err := e.create(ctx, KindCount, marker)
	return withSnap(r, s), err
}

func (e *Editor) create(ctx context.Context, kind Kind, shape Shape) (Result, error) {
	m, err := NewMarkup(kind, e.page, shape)
	if err != nil {
		return Result{}, err
	}
	m.Style = e.cfg.DefaultStyle.Normalize()
	m.Author = e.cfg.Author

	markups, err := e.load(ctx)
	if err != nil {
		return Result{}, err
	}
	if n := len(markups); n > 0 && !m.CreatedAt.After(markups[n-1].CreatedAt) {
		// keep creation order strictly increasing for group splits
		m.CreatedAt = markups[n-1].CreatedAt.Add(time.Nanosecond)
	}
	markups = append(markups, m)
	if err := e.save(ctx, markups); err != nil {
		return Result{}, err
	}
	if err := e.record(ctx, UndoCreate, nil, []Markup{m.Clone()}, "Create "+string(kind)); err != nil {
		return Result{}, err
	}
	return Result{Committed: &m, Changed: true}, nil
}

func (e *Editor) replace(ctx context.Context, action UndoAction, before, after Markup, description string) (Result, error) {
	markups, err := e.load(ctx)
	if err != nil {
		return Result{}, err
	}
	i := indexOf(markups, after.ID)
	if i < 0 {
		return Result{}, errors.Wrapf(ErrMarkupNotFound, "id %s", after.ID)
	}
	markups[i] = after
	if err := e.save(ctx, markups); err != nil {
		return Result{}, err
	}
	if err := e.record(ctx, action, []Markup{before}, []Markup{after.Clone()}, description); err != nil {
		return Result{}, err
	}
	return Result{Updated: &after, Changed: true}, nil
}

// DeleteMarkup removes a markup from the current page.
func (e *Editor) DeleteMarkup(ctx context.Context, id string) error {
	markups, err := e.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(markups, id)
	if i < 0 {
		return errors.Wrapf(ErrMarkupNotFound, "id %s", id)
	}
	m := markups[i]
	if m.Locked {
		return errors.Wrapf(ErrLocked, "id %s", id)
	}

	markups = append(markups[:i], markups[i+1:]...)
	if err := e.save(ctx, markups); err != nil {
		return err
	}
	if e.selection == id {
		e.selection = ""
	}
	return e.record(ctx, UndoDelete, []Markup{m}, nil, "Delete "+string(m.Kind))
}

// SplitCountGroup moves the marker id and every marker of its group
// created after it into a new group. It returns the new group id.
func (e *Editor) SplitCountGroup(ctx context.Context, id string) (string, error) {
	markups, err := e.load(ctx)
	if err != nil {
		return "", err
	}
	i := indexOf(markups, id)
	if i < 0 {
		return "", errors.Wrapf(ErrMarkupNotFound, "id %s", id)
	}
	marker, ok := markups[i].Shape.(CountMarker)
	if !ok {
		return "", errors.Wrapf(ErrNotCountMarker, "id %s is %s", id, markups[i].Kind)
	}

	group := CountMarkers(markups, marker.GroupID)
	at := indexOf(group, id)
	moved := group[at:]
	newGroup := marker.GroupID + ":" + NewID()[:8]

	var before, after []Markup
	for _, g := range moved {
		j := indexOf(markups, g.ID)
		before = append(before, markups[j].Clone())
		c := markups[j].Shape.(CountMarker)
		c.GroupID = newGroup
		markups[j].Shape = c
		after = append(after, markups[j].Clone())
	}

	if err := e.save(ctx, markups); err != nil {
		return "", err
	}
	desc := fmt.Sprintf("Split count group %s (%d markers)", marker.GroupID, len(moved))
	if err := e.record(ctx, UndoSplit, before, after, desc); err != nil {
		return "", err
	}
	return newGroup, nil
}
