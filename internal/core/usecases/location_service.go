package usecases

import (
	"context"
	"fmt"
	"io"

	"github.com/samirrijal/tripjournal/internal/core/domain"
	"github.com/samirrijal/tripjournal/internal/core/ports"
)

// LocationService handles location business logic.
type LocationService struct {
	repos   Repositories
	photos  *PhotoService
	janitor ports.FileJanitor
	c       Collaborators
}

// NewLocationService creates a new LocationService.
func NewLocationService(repos Repositories, photos *PhotoService, janitor ports.FileJanitor, c Collaborators) *LocationService {
	return &LocationService{repos: repos, photos: photos, janitor: janitor, c: c}
}

// ListByTrip returns the locations of a trip with their photos.
func (s *LocationService) ListByTrip(ctx context.Context, tripID int64) ([]domain.Location, error) {
	if _, err := s.repos.Trips.GetByID(ctx, tripID); err != nil {
		return nil, err
	}
	locs, err := s.repos.Locations.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := withPhotos(ctx, s.repos.Photos, locs); err != nil {
		return nil, fmt.Errorf("load photos: %w", err)
	}
	if locs == nil {
		locs = []domain.Location{}
	}
	return locs, nil
}

// Create validates and stores a new location.
func (s *LocationService) Create(ctx context.Context, loc *domain.Location) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	if err := s.repos.Locations.Create(ctx, loc); err != nil {
		return err
	}
	loc.Photos = []domain.Photo{}
	s.c.changed(ctx, domain.Event{
		Type: domain.EventLocationCreated, TripID: loc.TripID, LocationID: loc.ID, Coordinates: loc.Coordinates,
	})
	return nil
}

// CreateWithPhoto creates a location and attaches its first photo. When
// the photo cannot be attached the location is removed again.
func (s *LocationService) CreateWithPhoto(ctx context.Context, loc *domain.Location, originalName string, r io.Reader) (*domain.Location, error) {
	if err := s.Create(ctx, loc); err != nil {
		return nil, err
	}

	_, stored, err := s.photos.Attach(ctx, loc.ID, originalName, r)
	if err != nil {
		if _, rbErr := s.Delete(ctx, loc.ID); rbErr != nil {
			s.c.logger().ErrorContext(ctx, "location rollback failed", "location_id", loc.ID, "error", rbErr)
		}
		return nil, fmt.Errorf("attach photo: %w", err)
	}
	return s.photos.withPhotos(ctx, stored)
}

// Update applies patch to the location with the given id.
func (s *LocationService) Update(ctx context.Context, id int64, patch domain.LocationPatch) (*domain.Location, error) {
	loc, err := s.repos.Locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(loc)
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Locations.Update(ctx, loc); err != nil {
		return nil, err
	}
	s.c.changed(ctx, domain.Event{
		Type: domain.EventLocationUpdated, TripID: loc.TripID, LocationID: loc.ID, Coordinates: loc.Coordinates,
	})
	return s.photos.withPhotos(ctx, loc)
}

// Delete removes a location with its photos, then their stored files.
func (s *LocationService) Delete(ctx context.Context, id int64) (*domain.Location, error) {
	loc, files, err := s.repos.Locations.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	purge(ctx, s.janitor, s.c.logger(), files)
	s.c.changed(ctx, domain.Event{Type: domain.EventLocationDeleted, TripID: loc.TripID, LocationID: loc.ID})
	loc.Photos = []domain.Photo{}
	return loc, nil
}
