package usecases

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/tripjournal/internal/core/domain"
	"github.com/samirrijal/tripjournal/internal/core/ports"
	"github.com/samirrijal/tripjournal/internal/pkg/geotag"
	"github.com/samirrijal/tripjournal/internal/pkg/metrics"
	"github.com/samirrijal/tripjournal/internal/pkg/telemetry"
)

// PhotoService handles photo uploads and the geotag flows.
type PhotoService struct {
	repos    Repositories
	files    ports.FileStore
	resolver ports.GeotagResolver
	c        Collaborators
}

// NewPhotoService creates a new PhotoService.
func NewPhotoService(repos Repositories, files ports.FileStore, resolver ports.GeotagResolver, c Collaborators) *PhotoService {
	return &PhotoService{repos: repos, files: files, resolver: resolver, c: c}
}

// GeotagReport describes the embedded geotag of a stored photo.
type GeotagReport struct {
	PhotoID     int64            `json:"photo_id"`
	FileName    string           `json:"file_name"`
	Outcome     string           `json:"outcome"`
	Coordinates *domain.GeoPoint `json:"coordinates"`
	Error       string           `json:"error,omitempty"`
}

// Attach stores an uploaded image, records it as a photo of the location
// and fills in the location's coordinates from the image geotag when the
// location has none. It returns the photo and the location as stored.
func (s *PhotoService) Attach(ctx context.Context, locationID int64, originalName string, r io.Reader) (*domain.Photo, *domain.Location, error) {
	ctx, span := tracer.Start(ctx, "PhotoService.Attach", trace.WithAttributes(
		telemetry.LocationID.Int64(locationID),
	))
	defer span.End()

	name, err := s.files.Save(ctx, originalName, r)
	if err != nil {
		span.SetStatus(codes.Error, "save failed")
		return nil, nil, fmt.Errorf("save photo: %w", err)
	}

	photo := &domain.Photo{
		LocationID:  locationID,
		FileName:    name,
		Coordinates: s.resolver.Resolve(ctx, name),
	}
	span.SetAttributes(telemetry.PhotoGeotagged.Bool(photo.Coordinates != nil))

	loc, updated, err := s.repos.Photos.Attach(ctx, photo)
	if err != nil {
		if derr := s.files.Delete(ctx, name); derr != nil {
			s.c.logger().WarnContext(ctx, "orphaned photo file", "file", name, "error", derr)
		}
		span.SetStatus(codes.Error, "attach failed")
		return nil, nil, err
	}
	span.SetAttributes(telemetry.LocationUpdated.Bool(updated))

	s.c.changed(ctx, domain.Event{
		Type: domain.EventPhotoAttached, TripID: loc.TripID, LocationID: loc.ID,
		PhotoID: photo.ID, Coordinates: photo.Coordinates,
	})
	if updated {
		metrics.LocationsGeotagged.WithLabelValues("attach").Inc()
		s.c.changed(ctx, domain.Event{
			Type: domain.EventLocationGeotag, TripID: loc.TripID, LocationID: loc.ID,
			PhotoID: photo.ID, Coordinates: loc.Coordinates,
		})
	}
	s.c.logger().InfoContext(ctx, "photo attached",
		"photo_id", photo.ID, "location_id", loc.ID, "geotagged", photo.Coordinates != nil, "location_updated", updated)
	return photo, loc, nil
}

// ResetLocation re-reads the photo's geotag and overwrites the owning
// location's coordinates with it, whatever they were. Without a geotag the
// location is returned unchanged.
func (s *PhotoService) ResetLocation(ctx context.Context, photoID int64) (*domain.Location, error) {
	ctx, span := tracer.Start(ctx, "PhotoService.ResetLocation", trace.WithAttributes(
		telemetry.PhotoID.Int64(photoID),
	))
	defer span.End()

	photo, err := s.repos.Photos.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}

	tag := s.resolver.Resolve(ctx, photo.FileName)
	span.SetAttributes(telemetry.PhotoGeotagged.Bool(tag != nil))
	if tag == nil {
		loc, err := s.repos.Locations.GetByID(ctx, photo.LocationID)
		if err != nil {
			return nil, err
		}
		return s.withPhotos(ctx, loc)
	}

	loc, err := s.repos.Locations.SetCoordinates(ctx, photo.LocationID, tag)
	if err != nil {
		return nil, err
	}
	metrics.LocationsGeotagged.WithLabelValues("reset").Inc()
	s.c.changed(ctx, domain.Event{
		Type: domain.EventLocationGeotag, TripID: loc.TripID, LocationID: loc.ID,
		PhotoID: photo.ID, Coordinates: loc.Coordinates,
	})
	return s.withPhotos(ctx, loc)
}

func (s *PhotoService) withPhotos(ctx context.Context, loc *domain.Location) (*domain.Location, error) {
	locs := []domain.Location{*loc}
	if err := withPhotos(ctx, s.repos.Photos, locs); err != nil {
		return nil, fmt.Errorf("load photos: %w", err)
	}
	return &locs[0], nil
}

// Inspect reports the embedded geotag of a stored photo without changing
// anything.
func (s *PhotoService) Inspect(ctx context.Context, photoID int64) (*GeotagReport, error) {
	photo, err := s.repos.Photos.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	report := &GeotagReport{PhotoID: photo.ID, FileName: photo.FileName}
	p, err := s.resolver.Inspect(ctx, photo.FileName)
	report.Outcome = geotag.Outcome(err)
	if err != nil {
		report.Error = err.Error()
	} else {
		report.Coordinates = &p
	}
	return report, nil
}

// Delete removes the photo row, then its stored file. The owning
// location keeps its coordinates.
func (s *PhotoService) Delete(ctx context.Context, photoID int64) (*domain.Photo, error) {
	photo, tripID, err := s.repos.Photos.Delete(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if err := s.files.Delete(ctx, photo.FileName); err != nil {
		s.c.logger().WarnContext(ctx, "photo file not removed", "file", photo.FileName, "error", err)
	}

	s.c.changed(ctx, domain.Event{
		Type:       domain.EventPhotoDeleted,
		TripID:     tripID,
		LocationID: photo.LocationID,
		PhotoID:    photo.ID,
	})
	return photo, nil
}

// Open streams a stored image.
func (s *PhotoService) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, err := s.files.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	return rc, nil
}
