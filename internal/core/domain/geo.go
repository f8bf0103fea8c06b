package domain

import "fmt"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies within latitude/longitude bounds.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Extend grows the box to include p.
func (b *Bounds) Extend(p GeoPoint) {
	b.MinLat = min(b.MinLat, p.Lat)
	b.MinLon = min(b.MinLon, p.Lon)
	b.MaxLat = max(b.MaxLat, p.Lat)
	b.MaxLon = max(b.MaxLon, p.Lon)
}

// ApplyGeotag decides a location's coordinates after a photo geotag is
// resolved. A location without coordinates takes the geotag; a location that
// already has coordinates keeps them. It reports whether the coordinates
// changed. Neither argument is modified.
func ApplyGeotag(current, geotag *GeoPoint) (*GeoPoint, bool) {
	if geotag == nil || current != nil {
		return current, false
	}
	p := *geotag
	return &p, true
}

// PointFromLegacy builds coordinates from a latitude/longitude pair as sent
// by clients that use (0,0) for "unknown". A missing value or the exact
// (0,0) pair yields nil.
func PointFromLegacy(lat, lon *float64) *GeoPoint {
	if lat == nil || lon == nil || (*lat == 0 && *lon == 0) {
		return nil
	}
	return &GeoPoint{Lat: *lat, Lon: *lon}
}
