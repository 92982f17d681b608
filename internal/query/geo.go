package query

import (
	"math"
	"strconv"
	"strings"

	"hospital-directory/pkg/apperror"
)

const (
	// MetersPerDegreeLat is the constant approximation used for both axes.
	MetersPerDegreeLat = 111000.0

	// DefaultRadiusMeters applies when a nearby search omits maxDistance.
	DefaultRadiusMeters = 5000.0

	// minCosLat guards the longitude delta near the poles.
	minCosLat = 1e-6
)

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Box is an axis-aligned latitude/longitude rectangle.
// Degenerate is set when the longitude span had to be capped to the full range.
type Box struct {
	MinLat     float64 `json:"min_lat"`
	MaxLat     float64 `json:"max_lat"`
	MinLng     float64 `json:"min_lng"`
	MaxLng     float64 `json:"max_lng"`
	Degenerate bool    `json:"degenerate"`
}

// BoundingBoxCalculator turns a center and a radius into a rectangular bound.
// Implementations may over-approximate the circle; callers must expect corner
// points up to sqrt(2) times the radius away.
type BoundingBoxCalculator interface {
	BoundingBox(center Point, radiusMeters float64) (Box, error)
}

// FlatEarth approximates a degree of latitude as 111 km and scales longitude by
// cos(lat). It does not handle boxes crossing the antimeridian; those are clipped.
type FlatEarth struct{}

// BoundingBox implements BoundingBoxCalculator.
func (FlatEarth) BoundingBox(center Point, radiusMeters float64) (Box, error) {
	if err := center.Validate(); err != nil {
		return Box{}, err
	}
	if math.IsNaN(radiusMeters) || math.IsInf(radiusMeters, 0) || radiusMeters <= 0 {
		return Box{}, apperror.NewValidationError("maxDistance must be a positive number of meters")
	}

	dLat := radiusMeters / MetersPerDegreeLat
	box := Box{
		MinLat: math.Max(center.Lat-dLat, -90),
		MaxLat: math.Min(center.Lat+dLat, 90),
	}

	cos := math.Cos(center.Lat * math.Pi / 180)
	dLng := math.Inf(1)
	if cos > minCosLat {
		dLng = radiusMeters / (MetersPerDegreeLat * cos)
	}
	if math.IsInf(dLng, 0) || math.IsNaN(dLng) || dLng >= 180 {
		box.MinLng, box.MaxLng, box.Degenerate = -180, 180, true
		return box, nil
	}

	box.MinLng = math.Max(center.Lng-dLng, -180)
	box.MaxLng = math.Min(center.Lng+dLng, 180)
	return box, nil
}

// Contains reports whether p lies inside the box, edges included.
func (b Box) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Predicate expresses the box over the given coordinate fields.
func (b Box) Predicate(latField, lngField string) Predicate {
	return Predicate{
		{Field: latField, Op: OpRange, Lo: b.MinLat, Hi: b.MaxLat},
		{Field: lngField, Op: OpRange, Lo: b.MinLng, Hi: b.MaxLng},
	}
}

// Validate checks the coordinate ranges.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return apperror.NewValidationError("latitude must be between -90 and 90")
	}
	if math.IsNaN(p.Lng) || p.Lng < -180 || p.Lng > 180 {
		return apperror.NewValidationError("longitude must be between -180 and 180")
	}
	return nil
}

// ParsePoint parses required lat/lng query values.
func ParsePoint(latRaw, lngRaw string) (Point, error) {
	latRaw, lngRaw = strings.TrimSpace(latRaw), strings.TrimSpace(lngRaw)
	if latRaw == "" || lngRaw == "" {
		return Point{}, apperror.NewValidationError("Latitude (lat) and longitude (lng) are required query parameters.")
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return Point{}, apperror.NewValidationError("lat must be a number")
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return Point{}, apperror.NewValidationError("lng must be a number")
	}
	p := Point{Lat: lat, Lng: lng}
	return p, p.Validate()
}

// ParseRadius parses an optional radius in meters, returning def when absent.
func ParseRadius(raw string, def float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	r, err := strconv.ParseFloat(raw, 64)
	if err != nil || r <= 0 || math.IsInf(r, 0) {
		return 0, apperror.NewValidationError("maxDistance must be a positive number of meters")
	}
	return r, nil
}
