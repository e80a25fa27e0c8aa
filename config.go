package takeoff

import "log"

// ExtractionLimits bounds the work done when extracting vector geometry
// from dense drawings.
type ExtractionLimits struct {
	// MinLineLength drops segments shorter than this (document units).
	MinLineLength float64

	// MaxLines stops registering segments once this many lines exist on a page.
	MaxLines int

	// MaxIntersectionLines limits pairwise intersection testing to the
	// first N registered lines.
	MaxIntersectionLines int

	// MaxIntersections stops intersection derivation once reached.
	MaxIntersections int

	// CurveSamples is the number of straight sub-segments a Bézier curve is
	// flattened into.
	CurveSamples int

	// EndpointPrecision is the grid used to deduplicate endpoints.
	EndpointPrecision float64

	// RenderScale maps page units at scale 1 to document pixels.
	RenderScale float64
}

// DefaultExtractionLimits returns the limits used for interactive snapping.
func DefaultExtractionLimits() ExtractionLimits {
	return ExtractionLimits{
		MinLineLength:        3,
		MaxLines:             5000,
		MaxIntersectionLines: 500,
		MaxIntersections:     1000,
		CurveSamples:         4,
		EndpointPrecision:    0.1,
		RenderScale:          1,
	}
}

// SnapTolerances holds the capture radius of each snap pool in screen pixels.
type SnapTolerances struct {
	Markup       float64
	Endpoint     float64
	Line         float64
	Intersection float64
	Grid         float64
}

// DefaultSnapTolerances returns the default per-pool capture radii.
func DefaultSnapTolerances() SnapTolerances {
	return SnapTolerances{
		Markup:       10,
		Endpoint:     10,
		Line:         8,
		Intersection: 10,
		Grid:         8,
	}
}

// HitTolerances controls how forgiving hit-testing is. All values are in
// screen pixels at 100% zoom and are divided by zoom/100 before use.
type HitTolerances struct {
	Line        float64
	PathPadding float64
	CountRadius float64
	Handle      float64
}

// DefaultHitTolerances returns the default hit-test radii.
func DefaultHitTolerances() HitTolerances {
	return HitTolerances{
		Line:        10,
		PathPadding: 5,
		CountRadius: 15,
		Handle:      8,
	}
}

// Config controls editor and extraction behaviour.
type Config struct {
	Limits        ExtractionLimits
	Snap          SnapSettings
	HitTolerances HitTolerances

	// MinResizeSize is the smallest width/height a resize can produce.
	MinResizeSize float64

	// ZoomMin and ZoomMax bound the zoom percentage.
	ZoomMin float64
	ZoomMax float64

	// ZoomStep is the zoom change per wheel notch, in percentage points.
	ZoomStep float64

	// DefaultStyle is applied to newly created markups.
	DefaultStyle Style

	// Author is stamped on newly created markups.
	Author string

	// EnableMetricsLogging enables extraction timing and statistics logging (default: false)
	EnableMetricsLogging bool

	// Logger receives metrics output. Defaults to log.Default().
	Logger *log.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Limits:        DefaultExtractionLimits(),
		Snap:          DefaultSnapSettings(),
		HitTolerances: DefaultHitTolerances(),
		MinResizeSize: 20,
		ZoomMin:       10,
		ZoomMax:       500,
		ZoomStep:      15,
		DefaultStyle:  DefaultStyle(),
	}
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}
