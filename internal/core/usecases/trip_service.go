package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/tripjournal/internal/core/domain"
	"github.com/samirrijal/tripjournal/internal/core/ports"
	"github.com/samirrijal/tripjournal/internal/pkg/telemetry"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ClampPage applies the default and maximum page size to a requested page.
func ClampPage(offset, limit int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	return max(offset, 0), min(limit, maxPageSize)
}

// TripService handles trip business logic.
type TripService struct {
	repos   Repositories
	janitor ports.FileJanitor
	c       Collaborators
}

// NewTripService creates a new TripService.
func NewTripService(repos Repositories, janitor ports.FileJanitor, c Collaborators) *TripService {
	return &TripService{repos: repos, janitor: janitor, c: c}
}

// Create validates and stores a new trip.
func (s *TripService) Create(ctx context.Context, trip *domain.Trip) error {
	if err := trip.Validate(); err != nil {
		return err
	}
	if err := s.repos.Trips.Create(ctx, trip); err != nil {
		return err
	}
	trip.Locations = []domain.Location{}
	s.c.changed(ctx, domain.Event{Type: domain.EventTripCreated, TripID: trip.ID})
	return nil
}

// List returns a page of trips with their locations and photos, and the
// total number of trips.
func (s *TripService) List(ctx context.Context, offset, limit int) ([]domain.Trip, int, error) {
	offset, limit = ClampPage(offset, limit)

	trips, total, err := s.repos.Trips.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	if len(trips) == 0 {
		return trips, total, nil
	}

	ids := make([]int64, len(trips))
	for i := range trips {
		ids[i] = trips[i].ID
	}
	locs, err := s.repos.Locations.ListByTrips(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("load locations: %w", err)
	}
	if err := withPhotos(ctx, s.repos.Photos, locs); err != nil {
		return nil, 0, fmt.Errorf("load photos: %w", err)
	}

	byTrip := make(map[int64][]domain.Location, len(trips))
	for _, l := range locs {
		byTrip[l.TripID] = append(byTrip[l.TripID], l)
	}
	for i := range trips {
		trips[i].Locations = byTrip[trips[i].ID]
		if trips[i].Locations == nil {
			trips[i].Locations = []domain.Location{}
		}
	}
	return trips, total, nil
}

// GetByID returns a trip with locations, photos and summary.
func (s *TripService) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	var cacheKey string
	if s.c.Cache != nil {
		if version, ok := s.c.tripVersion(ctx, id); ok {
			cacheKey = tripCacheKey(id, version)
			if data, err := s.c.Cache.Get(ctx, cacheKey); err == nil {
				var trip domain.Trip
				if err := json.Unmarshal(data, &trip); err == nil {
					return &trip, nil
				}
			}
		}
	}

	trip, err := s.repos.Trips.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	locs, err := s.repos.Locations.ListByTrip(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	if err := withPhotos(ctx, s.repos.Photos, locs); err != nil {
		return nil, fmt.Errorf("load photos: %w", err)
	}
	if locs == nil {
		locs = []domain.Location{}
	}
	trip.Locations = locs
	trip.Summary = Summarize(locs)

	if cacheKey != "" {
		if data, err := json.Marshal(trip); err == nil {
			_ = s.c.Cache.Set(ctx, cacheKey, data, tripCacheTTL)
		}
	}
	return trip, nil
}

// Update applies patch to the trip with the given id.
func (s *TripService) Update(ctx context.Context, id int64, patch domain.TripPatch) (*domain.Trip, error) {
	trip, err := s.repos.Trips.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(trip)
	if err := trip.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Trips.Update(ctx, trip); err != nil {
		return nil, err
	}
	s.c.changed(ctx, domain.Event{Type: domain.EventTripUpdated, TripID: id})
	return s.GetByID(ctx, id)
}

// Delete removes a trip with everything in it, then its stored photo files.
func (s *TripService) Delete(ctx context.Context, id int64) (*domain.Trip, error) {
	ctx, span := tracer.Start(ctx, "TripService.Delete", trace.WithAttributes(telemetry.TripID.Int64(id)))
	defer span.End()

	trip, files, err := s.repos.Trips.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	purge(ctx, s.janitor, s.c.logger(), files)
	s.c.changed(ctx, domain.Event{Type: domain.EventTripDeleted, TripID: id})
	trip.Locations = []domain.Location{}
	return trip, nil
}
