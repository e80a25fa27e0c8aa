package takeoff

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testViewport() Viewport {
	return Viewport{
		Zoom:         100,
		PageWidth:    800,
		PageHeight:   600,
		ScreenCenter: Point{X: 400, Y: 300},
	}
}

func TestScreenToDocument_RoundTrip(t *testing.T) {
	points := []Point{{X: 0, Y: 0}, {X: 123.5, Y: -42}, {X: 800, Y: 600}, {X: 17, Y: 913.25}}
	pans := []Point{{}, {X: 35, Y: -12}, {X: -400, Y: 250.5}}

	for _, zoom := range []float64{10, 55, 100, 237, 500} {
		for _, rotation := range []float64{0, 90, 180, 270} {
			for _, pan := range pans {
				v := testViewport()
				v.Zoom, v.Rotation, v.Pan = zoom, rotation, pan

				for _, p := range points {
					got := DocumentToScreen(ScreenToDocument(p, v), v)
					assert.InDelta(t, p.X, got.X, 1e-9, "zoom=%v rot=%v pan=%v", zoom, rotation, pan)
					assert.InDelta(t, p.Y, got.Y, 1e-9, "zoom=%v rot=%v pan=%v", zoom, rotation, pan)
				}
			}
		}
	}
}

func TestDocumentToScreen_RightAnglesAreExact(t *testing.T) {
	v := Viewport{Zoom: 100, PageWidth: 100, PageHeight: 200}

	tests := []struct {
		rotation float64
		want     Point
	}{
		{0, Point{X: 10, Y: 0}},
		{90, Point{X: 0, Y: 10}},
		{180, Point{X: -10, Y: 0}},
		{270, Point{X: 0, Y: -10}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.rotation), func(t *testing.T) {
			v.Rotation = tt.rotation
			// 10 units right of the page center
			got := DocumentToScreen(Point{X: 60, Y: 100}, v)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScreenToDocument_CenterMapsToPageCenter(t *testing.T) {
	v := testViewport()
	v.Zoom = 250
	v.Rotation = 90
	v.Pan = Point{X: 20, Y: -30}

	got := ScreenToDocument(Point{X: 420, Y: 270}, v)
	assert.InDelta(t, 400, got.X, 1e-9)
	assert.InDelta(t, 300, got.Y, 1e-9)
}

func TestZoomAt_KeepsCursorFixed(t *testing.T) {
	cursors := []Point{{X: 450, Y: 300}, {X: 10, Y: 590}, {X: 777, Y: 12}}

	for _, rotation := range []float64{0, 90, 180, 270} {
		for _, cursor := range cursors {
			v := testViewport()
			v.Rotation = rotation
			v.Pan = Point{X: 13, Y: -7}

			before := ScreenToDocument(cursor, v)
			zoomed := ZoomAt(v, cursor, 315)
			after := ScreenToDocument(cursor, zoomed)

			assert.Equal(t, 315.0, zoomed.Zoom)
			assert.InDelta(t, before.X, after.X, 1e-9)
			assert.InDelta(t, before.Y, after.Y, 1e-9)
		}
	}
}

func TestWheelZoom_ZoomUnderCursor(t *testing.T) {
	v := testViewport()
	cursor := Point{X: v.ScreenCenter.X + 50, Y: v.ScreenCenter.Y}
	doc := ScreenToDocument(cursor, v)

	zoomed := WheelZoom(v, cursor, -1, DefaultConfig())

	assert.Equal(t, 115.0, zoomed.Zoom)
	got := DocumentToScreen(doc, zoomed)
	assert.InDelta(t, cursor.X, got.X, 1e-9)
	assert.InDelta(t, cursor.Y, got.Y, 1e-9)
}

func TestWheelZoom_Clamps(t *testing.T) {
	cfg := DefaultConfig()
	v := testViewport()

	v.Zoom = 495
	assert.Equal(t, 500.0, WheelZoom(v, v.ScreenCenter, -1, cfg).Zoom)

	v.Zoom = 20
	assert.Equal(t, 10.0, WheelZoom(v, v.ScreenCenter, 3, cfg).Zoom)

	assert.Equal(t, v, WheelZoom(v, v.ScreenCenter, 0, cfg))
}

func TestNormalizeRotation(t *testing.T) {
	tests := map[float64]float64{
		0:    0,
		44:   0,
		46:   90,
		-90:  270,
		450:  90,
		360:  0,
		-540: 180,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeRotation(in), "NormalizeRotation(%v)", in)
	}
}

func TestViewport_ToDocument(t *testing.T) {
	v := Viewport{Zoom: 200}
	assert.Equal(t, 5.0, v.ToDocument(10))

	v.Zoom = 50
	assert.Equal(t, 20.0, v.ToDocument(10))
}
