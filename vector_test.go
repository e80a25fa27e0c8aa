package takeoff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

func op(code OpCode, args ...float64) Operator {
	return Operator{Code: code, Args: args}
}

func page(height float64, ops ...Operator) PageContent {
	return PageContent{Number: 1, Width: 200, Height: height, Operators: ops}
}

func TestExtractVectorPaths_Rectangle(t *testing.T) {
	data := ExtractVectorPaths(page(100, op(OpRectangle, 10, 10, 50, 20)))

	require.Len(t, data.Lines, 4)
	// y is flipped against the page height
	assert.Equal(t, Segment{Start: Point{X: 10, Y: 90}, End: Point{X: 60, Y: 90}}, data.Lines[0])
	assert.Len(t, data.Endpoints, 4)
	assert.Empty(t, data.Intersections, "corner crossings coincide with endpoints")
}

func TestExtractVectorPaths_MinLineLength(t *testing.T) {
	data := ExtractVectorPaths(page(100,
		op(OpMoveTo, 0, 0),
		op(OpLineTo, 2, 0),
		op(OpLineTo, 2, 50),
	))

	require.Len(t, data.Lines, 1)
	for _, l := range data.Lines {
		assert.GreaterOrEqual(t, l.Length(), DefaultExtractionLimits().MinLineLength)
	}
}

func TestExtractVectorPaths_TransformStack(t *testing.T) {
	data := ExtractVectorPaths(page(100,
		op(OpSave),
		op(OpTransform, 2, 0, 0, 2, 0, 0),
		op(OpTransform, 1, 0, 0, 1, 10, 0),
		op(OpMoveTo, 0, 0),
		op(OpLineTo, 5, 0),
		op(OpRestore),
		op(OpMoveTo, 0, 0),
		op(OpLineTo, 0, 10),
	))

	require.Len(t, data.Lines, 2)
	// the later transform applies first: translate, then scale
	assert.Equal(t, Segment{Start: Point{X: 20, Y: 100}, End: Point{X: 30, Y: 100}}, data.Lines[0])
	// restore brings back the identity
	assert.Equal(t, Segment{Start: Point{X: 0, Y: 100}, End: Point{X: 0, Y: 90}}, data.Lines[1])
}

func TestExtractVectorPaths_MalformedStream(t *testing.T) {
	data := ExtractVectorPaths(page(100,
		op(OpRestore),
		op(OpRestore),
		op(OpUnknown, 1, 2, 3),
		op(OpCode(99)),
		op(OpMoveTo, 0, 0),
		op(OpLineTo, 50),
		op(OpLineTo, 50, 0),
		op(OpTransform, 1, 0, 0),
	))

	require.Len(t, data.Lines, 1)
	assert.Equal(t, Segment{Start: Point{X: 0, Y: 100}, End: Point{X: 50, Y: 100}}, data.Lines[0])
}

func TestExtractVectorPaths_ClosePath(t *testing.T) {
	data := ExtractVectorPaths(page(100,
		op(OpMoveTo, 0, 0),
		op(OpLineTo, 50, 0),
		op(OpLineTo, 50, 50),
		op(OpClosePath),
	))

	require.Len(t, data.Lines, 3)
	assert.Equal(t, Point{X: 0, Y: 100}, data.Lines[2].End)
	assert.Len(t, data.Endpoints, 3)
}

func TestExtractVectorPaths_Curves(t *testing.T) {
	t.Run("cubic", func(t *testing.T) {
		data := ExtractVectorPaths(page(100,
			op(OpMoveTo, 0, 0),
			op(OpCurveTo, 0, 100, 100, 100, 100, 0),
		))
		require.Len(t, data.Lines, 4)
		assert.Equal(t, Point{X: 0, Y: 100}, data.Lines[0].Start)
		assert.Equal(t, Point{X: 100, Y: 100}, data.Lines[3].End)
		// midpoint of the symmetric curve is at t = 0.5
		assert.InDelta(t, 50, data.Lines[1].End.X, 1e-9)
		assert.InDelta(t, 25, data.Lines[1].End.Y, 1e-9)
	})

	t.Run("quadratic", func(t *testing.T) {
		data := ExtractVectorPaths(page(100,
			op(OpMoveTo, 0, 0),
			op(OpQuadCurveTo, 50, 100, 100, 0),
		))
		require.Len(t, data.Lines, 4)
		assert.InDelta(t, 50, data.Lines[1].End.X, 1e-9)
		assert.InDelta(t, 50, data.Lines[1].End.Y, 1e-9)
	})

	t.Run("curveTo2 uses current point as first control", func(t *testing.T) {
		a := ExtractVectorPaths(page(100, op(OpMoveTo, 0, 0), op(OpCurveTo2, 100, 100, 100, 0)))
		b := ExtractVectorPaths(page(100, op(OpMoveTo, 0, 0), op(OpCurveTo, 0, 0, 100, 100, 100, 0)))
		assert.Equal(t, b.Lines, a.Lines)
	})

	t.Run("curveTo3 uses end point as second control", func(t *testing.T) {
		a := ExtractVectorPaths(page(100, op(OpMoveTo, 0, 0), op(OpCurveTo3, 0, 100, 100, 0)))
		b := ExtractVectorPaths(page(100, op(OpMoveTo, 0, 0), op(OpCurveTo, 0, 100, 100, 0, 100, 0)))
		assert.Equal(t, b.Lines, a.Lines)
	})
}

func TestExtractVectorPaths_Intersections(t *testing.T) {
	t.Run("crossing", func(t *testing.T) {
		data := ExtractVectorPaths(page(100,
			op(OpMoveTo, 0, 50), op(OpLineTo, 100, 50),
			op(OpMoveTo, 50, 0), op(OpLineTo, 50, 100),
		))
		assert.Equal(t, []Point{{X: 50, Y: 50}}, data.Intersections)
	})

	t.Run("T junction is an endpoint", func(t *testing.T) {
		data := ExtractVectorPaths(page(100,
			op(OpMoveTo, 0, 50), op(OpLineTo, 100, 50),
			op(OpMoveTo, 50, 50), op(OpLineTo, 50, 100),
		))
		assert.Empty(t, data.Intersections)
	})

	t.Run("parallel", func(t *testing.T) {
		data := ExtractVectorPaths(page(100,
			op(OpMoveTo, 0, 10), op(OpLineTo, 100, 10),
			op(OpMoveTo, 0, 20), op(OpLineTo, 100, 20),
		))
		assert.Empty(t, data.Intersections)
	})

	t.Run("no extrapolation", func(t *testing.T) {
		data := ExtractVectorPaths(page(100,
			op(OpMoveTo, 0, 50), op(OpLineTo, 40, 50),
			op(OpMoveTo, 50, 0), op(OpLineTo, 50, 100),
		))
		assert.Empty(t, data.Intersections)
	})
}

func gridPage(n int) PageContent {
	var ops []Operator
	for i := 1; i <= n; i++ {
		c := float64(i * 10)
		ops = append(ops,
			op(OpMoveTo, 0, c), op(OpLineTo, 100, c),
			op(OpMoveTo, c, 0), op(OpLineTo, c, 100),
		)
	}
	return page(100, ops...)
}

func TestExtractVectorPaths_IntersectionContainment(t *testing.T) {
	p := gridPage(5)
	p.Operators = append(p.Operators, op(OpMoveTo, 0, 0), op(OpLineTo, 97, 83))
	data := ExtractVectorPaths(p)
	require.NotEmpty(t, data.Intersections)

	for _, x := range data.Intersections {
		var on int
		for _, l := range data.Lines {
			if l.DistanceTo(x) < 1e-6 {
				on++
			}
		}
		assert.GreaterOrEqual(t, on, 2, "intersection %v must lie on two segments", x)
	}
}

func TestExtractVectorPaths_Deterministic(t *testing.T) {
	p := gridPage(6)
	p.Operators = append(p.Operators, op(OpMoveTo, 3, 3), op(OpCurveTo, 10, 90, 90, 90, 97, 3))

	first := ExtractVectorPaths(p)
	for range 5 {
		again := ExtractVectorPaths(p)
		if diff := cmp.Diff(first, again, cmpopts.IgnoreUnexported(SnapData{})); diff != "" {
			t.Fatalf("extraction differs (-first +again):\n%s", diff)
		}
	}
}

func TestExtractVectorPathsWithLimits(t *testing.T) {
	t.Run("max lines", func(t *testing.T) {
		limits := DefaultExtractionLimits()
		limits.MaxLines = 3
		data := ExtractVectorPathsWithLimits(gridPage(3), limits)
		assert.Len(t, data.Lines, 3)
	})

	t.Run("max intersections", func(t *testing.T) {
		limits := DefaultExtractionLimits()
		limits.MaxIntersections = 4
		data := ExtractVectorPathsWithLimits(gridPage(3), limits)
		assert.Len(t, data.Intersections, 4)
	})

	t.Run("intersection line cap", func(t *testing.T) {
		limits := DefaultExtractionLimits()
		limits.MaxIntersectionLines = 2
		data := ExtractVectorPathsWithLimits(gridPage(3), limits)
		// only the first horizontal and vertical line are paired
		require.Len(t, data.Intersections, 1)
		assert.InDelta(t, 10, data.Intersections[0].X, 1e-9)
		assert.InDelta(t, 90, data.Intersections[0].Y, 1e-9)
	})

	t.Run("render scale", func(t *testing.T) {
		limits := DefaultExtractionLimits()
		limits.RenderScale = 2
		data := ExtractVectorPathsWithLimits(page(100, op(OpMoveTo, 0, 0), op(OpLineTo, 10, 0)), limits)
		require.Len(t, data.Lines, 1)
		assert.Equal(t, Segment{Start: Point{X: 0, Y: 200}, End: Point{X: 20, Y: 200}}, data.Lines[0])
	})

	t.Run("zero value uses defaults", func(t *testing.T) {
		data := ExtractVectorPathsWithLimits(gridPage(2), ExtractionLimits{})
		assert.Len(t, data.Lines, 4)
		assert.Len(t, data.Intersections, 4)
	})
}

func TestApplyMatrix(t *testing.T) {
	m := matrix.Matrix{0, 1, -1, 0, 10, 20}
	assert.Equal(t, vec.Vec2{X: 7, Y: 23}, applyMatrix(m, vec.Vec2{X: 3, Y: 3}))
	assert.Equal(t, vec.Vec2{X: 3, Y: 4}, applyMatrix(matrix.Identity, vec.Vec2{X: 3, Y: 4}))
}

func TestExtractVectorPaths_RotatedRectangle(t *testing.T) {
	data := ExtractVectorPaths(page(100,
		op(OpTransform, 0, 1, -1, 0, 50, 0),
		op(OpRectangle, 0, 0, 20, 10),
	))

	require.Len(t, data.Lines, 4)
	// a quarter turn maps the x axis onto the y axis
	assert.Equal(t, Segment{Start: Point{X: 50, Y: 100}, End: Point{X: 50, Y: 80}}, data.Lines[0])
	assert.Equal(t, Segment{Start: Point{X: 50, Y: 80}, End: Point{X: 40, Y: 80}}, data.Lines[1])
}
