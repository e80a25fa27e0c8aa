package takeoff

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidDistance is returned when a calibration distance is not a
	// positive number.
	ErrInvalidDistance = errors.New("calibration distance must be a positive number")

	// ErrNoCalibrationPending is returned when a calibration is committed
	// before both reference points were captured.
	ErrNoCalibrationPending = errors.New("no calibration awaiting a distance")
)

// Scale converts pixel metrics into real-world units.
type Scale struct {
	PixelsPerUnit float64 `json:"pixelsPerUnit"`
	Unit          string  `json:"unit"`
}

// DefaultScale is the uncalibrated scale: one pixel per pixel.
func DefaultScale() Scale {
	return Scale{PixelsPerUnit: 1, Unit: "px"}
}

// Length converts a pixel length to units.
func (s Scale) Length(pixels float64) float64 {
	if s.PixelsPerUnit == 0 {
		return pixels
	}
	return pixels / s.PixelsPerUnit
}

// Area converts a pixel area to square units.
func (s Scale) Area(pixels float64) float64 {
	if s.PixelsPerUnit == 0 {
		return pixels
	}
	return pixels / (s.PixelsPerUnit * s.PixelsPerUnit)
}

// DeriveScale computes pixels-per-unit from two reference points and the
// real distance between them. realDistance must be positive.
func DeriveScale(p1, p2 Point, realDistance float64, unit string) Scale {
	return Scale{
		PixelsPerUnit: p1.Distance(p2) / realDistance,
		Unit:          unit,
	}
}

// ParseDistance validates a user-entered real-world distance.
func ParseDistance(input string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidDistance, "parse %q", input)
	}
	if err := validateDistance(v); err != nil {
		return 0, err
	}
	return v, nil
}

func validateDistance(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return ErrInvalidDistance
	}
	return nil
}

// CalibrationState is the transient two-point capture. While only Point1
// is confirmed, Point2 follows the cursor as a preview.
type CalibrationState struct {
	Active bool
	Point1 *Point
	Point2 *Point

	// AwaitingDistance is set once the second point is confirmed and the
	// real-world distance has been requested.
	AwaitingDistance bool
}

// PixelDistance returns the distance between the captured points, or 0
// when either is missing.
func (c CalibrationState) PixelDistance() float64 {
	if c.Point1 == nil || c.Point2 == nil {
		return 0
	}
	return c.Point1.Distance(*c.Point2)
}

// MeasureLength returns the total length along a polyline in pixels.
func MeasureLength(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i-1].Distance(points[i])
	}
	return total
}

// MeasureArea returns the enclosed area of a closed polygon in square
// pixels (shoelace formula).
func MeasureArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}
	var sum float64
	for i := range points {
		j := (i + 1) % len(points)
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return math.Abs(sum) / 2
}
