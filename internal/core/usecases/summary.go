package usecases

import (
	"github.com/samirrijal/tripjournal/internal/core/domain"
	"github.com/samirrijal/tripjournal/internal/pkg/geospatial"
)

// Summarize aggregates the locations of a trip. The path follows located
// locations in the given order.
func Summarize(locs []domain.Location) *domain.TripSummary {
	s := &domain.TripSummary{Locations: len(locs)}
	var path []domain.GeoPoint
	for _, l := range locs {
		s.Photos += len(l.Photos)
		p := l.Coordinates
		if p == nil {
			continue
		}
		s.Located++
		if s.Bounds == nil {
			s.Bounds = &domain.Bounds{MinLat: p.Lat, MinLon: p.Lon, MaxLat: p.Lat, MaxLon: p.Lon}
		} else {
			s.Bounds.Extend(*p)
		}
		path = append(path, *p)
	}
	s.PathLengthKm = geospatial.PathKm(path)
	return s
}
