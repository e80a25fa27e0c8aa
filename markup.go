package takeoff

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Kind identifies the markup variant.
type Kind string

const (
	KindRectangle     Kind = "rectangle"
	KindEllipse       Kind = "ellipse"
	KindHighlight     Kind = "highlight"
	KindText          Kind = "text"
	KindCallout       Kind = "callout"
	KindStamp         Kind = "stamp"
	KindLine          Kind = "line"
	KindArrow         Kind = "arrow"
	KindPolygon       Kind = "polygon"
	KindPolyline      Kind = "polyline"
	KindFreehand      Kind = "freehand"
	KindCloud         Kind = "cloud"
	KindCount         Kind = "count"
	KindMeasureLength Kind = "measure-length"
	KindMeasureArea   Kind = "measure-area"
)

// Family groups kinds that share a geometry shape.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyBox
	FamilySegment
	FamilyPath
	FamilyCount
	FamilyMeasurement
)

// Family returns the geometry family of k.
func (k Kind) Family() Family {
	switch k {
	case KindRectangle, KindEllipse, KindHighlight, KindText, KindCallout, KindStamp:
		return FamilyBox
	case KindLine, KindArrow:
		return FamilySegment
	case KindPolygon, KindPolyline, KindFreehand, KindCloud:
		return FamilyPath
	case KindCount:
		return FamilyCount
	case KindMeasureLength, KindMeasureArea:
		return FamilyMeasurement
	}
	return FamilyUnknown
}

// MinPoints returns the minimum number of points a path-like kind needs.
func (k Kind) MinPoints() int {
	switch k {
	case KindPolygon, KindCloud, KindMeasureArea:
		return 3
	case KindPolyline, KindFreehand, KindMeasureLength:
		return 2
	}
	return 0
}

// Style is the visual style of a markup.
type Style struct {
	StrokeColor string  `json:"strokeColor"`
	FillColor   string  `json:"fillColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     int     `json:"opacity"`
	FontSize    float64 `json:"fontSize,omitempty"`
	FontFamily  string  `json:"fontFamily,omitempty"`
}

// Transparent is the fill colour of unfilled markups.
const Transparent = "transparent"

// DefaultStyle returns a red 2px stroke with no fill.
func DefaultStyle() Style {
	return Style{
		StrokeColor: "#ff0000",
		FillColor:   Transparent,
		StrokeWidth: 2,
		Opacity:     100,
	}
}

// Normalize clamps opacity into 0–100 and fills empty colours.
func (s Style) Normalize() Style {
	if s.Opacity < 0 {
		s.Opacity = 0
	}
	if s.Opacity > 100 {
		s.Opacity = 100
	}
	if s.FillColor == "" {
		s.FillColor = Transparent
	}
	if s.StrokeWidth < 0 {
		s.StrokeWidth = 0
	}
	return s
}

// Markup is a persisted shape on a page.
type Markup struct {
	ID        string
	Kind      Kind
	Page      int
	Style     Style
	Locked    bool
	Author    string
	CreatedAt time.Time
	Text      string
	Shape     Shape
}

// ErrKindMismatch is returned when a shape does not belong to the kind's family.
var ErrKindMismatch = errors.New("shape does not match markup kind")

// ErrTooFewPoints is returned for path-like shapes below the kind's minimum.
var ErrTooFewPoints = errors.New("too few points for markup kind")

// NewID returns a new unique markup identifier.
func NewID() string {
	return uuid.New().String()
}

// NewMarkup builds a markup after checking that shape fits kind. Boxes
// with negative extents are normalized.
func NewMarkup(kind Kind, page int, shape Shape) (Markup, error) {
	if page < 1 {
		return Markup{}, errors.Errorf("invalid page %d", page)
	}
	if shape == nil || familyOf(shape) != kind.Family() {
		return Markup{}, errors.Wrapf(ErrKindMismatch, "kind %q", kind)
	}
	if n := pointCount(shape); n >= 0 && n < kind.MinPoints() {
		return Markup{}, errors.Wrapf(ErrTooFewPoints, "kind %q has %d points", kind, n)
	}
	if b, ok := shape.(Box); ok && (b.Width < 0 || b.Height < 0) {
		shape = BoxFromCorners(Point{X: b.X, Y: b.Y}, Point{X: b.X + b.Width, Y: b.Y + b.Height})
	}
	return Markup{
		ID:        NewID(),
		Kind:      kind,
		Page:      page,
		Style:     DefaultStyle(),
		CreatedAt: time.Now(),
		Shape:     shape,
	}, nil
}

// Bounds returns the axis-aligned bounding box of m.
func (m Markup) Bounds() Rect {
	return VisitShape(m.Shape, boundsVisitor{})
}

// Vertices returns the snappable geometry of m: corners, edge midpoints,
// endpoints and vertices.
func (m Markup) Vertices() []Point {
	return VisitShape(m.Shape, verticesVisitor{})
}

// Translate returns a copy of m moved by d. The page never changes.
func (m Markup) Translate(d Point) Markup {
	out := m
	out.Shape = VisitShape(m.Shape, translateVisitor{d: d})
	return out
}

// Clone returns a deep copy of m.
func (m Markup) Clone() Markup {
	return m.Translate(Point{})
}

// CountMarkers returns the count markers of groupID in creation order.
func CountMarkers(markups []Markup, groupID string) []Markup {
	var out []Markup
	for _, m := range markups {
		if c, ok := m.Shape.(CountMarker); ok && c.GroupID == groupID {
			out = append(out, m)
		}
	}
	sortByCreation(out)
	return out
}

// GroupCounts returns the number of markers per count group.
func GroupCounts(markups []Markup) map[string]int {
	counts := make(map[string]int)
	for _, m := range markups {
		if c, ok := m.Shape.(CountMarker); ok {
			counts[c.GroupID]++
		}
	}
	return counts
}

func sortByCreation(markups []Markup) {
	sort.SliceStable(markups, func(i, j int) bool {
		return markups[i].CreatedAt.Before(markups[j].CreatedAt)
	})
}

func indexOf(markups []Markup, id string) int {
	for i, m := range markups {
		if m.ID == id {
			return i
		}
	}
	return -1
}
