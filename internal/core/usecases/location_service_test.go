package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samirrijal/tripjournal/internal/core/domain"
)

func TestLocationService_ListByTrip_MissingTrip(t *testing.T) {
	f := newFixture()
	f.trips.getByIDFn = func(ctx context.Context, id int64) (*domain.Trip, error) {
		return nil, domain.ErrNotFound
	}
	if _, err := f.locationService().ListByTrip(context.Background(), 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocationService_ListByTrip_Empty(t *testing.T) {
	f := newFixture()
	locs, err := f.locationService().ListByTrip(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if locs == nil || len(locs) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", locs)
	}
}

func TestLocationService_Create(t *testing.T) {
	f := newFixture()
	loc := &domain.Location{TripID: 4, Title: "Harbour"}
	if err := f.locationService().Create(context.Background(), loc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.events.events[0].TripID != 4 || f.events.events[0].Type != domain.EventLocationCreated {
		t.Errorf("unexpected event %+v", f.events.events[0])
	}
	if diff := cmp.Diff([]string{"trips:ver:4"}, f.cache.deleted); diff != "" {
		t.Errorf("cache invalidation (-want +got):\n%s", diff)
	}
}

func TestLocationService_Create_OutOfRange(t *testing.T) {
	f := newFixture()
	err := f.locationService().Create(context.Background(), &domain.Location{
		TripID: 4, Title: "Nowhere", Coordinates: &domain.GeoPoint{Lat: 91},
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "coordinates" {
		t.Fatalf("expected coordinates validation error, got %v", err)
	}
}

func TestLocationService_CreateWithPhoto(t *testing.T) {
	f := newFixture()
	f.resolver.tags["tagged.jpg"] = domain.GeoPoint{Lat: 43.26, Lon: -2.93}
	f.photos.attachFn = func(ctx context.Context, photo *domain.Photo) (*domain.Location, bool, error) {
		photo.ID = 50
		coords, updated := domain.ApplyGeotag(nil, photo.Coordinates)
		return &domain.Location{ID: photo.LocationID, TripID: 4, Title: "Old town", Coordinates: coords}, updated, nil
	}
	f.photos.listByLocationsFn = func(ctx context.Context, ids []int64) ([]domain.Photo, error) {
		return []domain.Photo{{ID: 50, LocationID: ids[0], FileName: "stored-tagged.jpg"}}, nil
	}

	loc, err := f.locationService().CreateWithPhoto(context.Background(),
		&domain.Location{TripID: 4, Title: "Old town"}, "tagged.jpg", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(&domain.GeoPoint{Lat: 43.26, Lon: -2.93}, loc.Coordinates); diff != "" {
		t.Errorf("coordinates (-want +got):\n%s", diff)
	}
	if len(loc.Photos) != 1 {
		t.Errorf("expected the new photo, got %v", loc.Photos)
	}
}

func TestLocationService_CreateWithPhoto_RollsBack(t *testing.T) {
	f := newFixture()
	f.photos.attachFn = func(ctx context.Context, photo *domain.Photo) (*domain.Location, bool, error) {
		return nil, false, errors.New("connection lost")
	}
	var deletedID int64
	f.locations.deleteFn = func(ctx context.Context, id int64) (*domain.Location, []string, error) {
		deletedID = id
		return &domain.Location{ID: id, TripID: 4}, nil, nil
	}
	f.locations.createFn = func(ctx context.Context, loc *domain.Location) error {
		loc.ID = 77
		return nil
	}

	_, err := f.locationService().CreateWithPhoto(context.Background(),
		&domain.Location{TripID: 4, Title: "Old town"}, "a.jpg", strings.NewReader("img"))
	if err == nil {
		t.Fatal("expected error")
	}
	if deletedID != 77 {
		t.Errorf("expected location 77 rolled back, got %d", deletedID)
	}
}

func TestLocationService_Update_ZeroCoordinatesAreStored(t *testing.T) {
	f := newFixture()
	var stored *domain.Location
	f.locations.updateFn = func(ctx context.Context, loc *domain.Location) error {
		stored = loc
		return nil
	}

	_, err := f.locationService().Update(context.Background(), 2, domain.LocationPatch{
		Coordinates: domain.Some(domain.GeoPoint{}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Coordinates == nil || *stored.Coordinates != (domain.GeoPoint{}) {
		t.Errorf("expected (0,0) stored verbatim, got %v", stored.Coordinates)
	}
}

func TestLocationService_Update_NotFound(t *testing.T) {
	f := newFixture()
	f.locations.getByIDFn = func(ctx context.Context, id int64) (*domain.Location, error) {
		return nil, domain.ErrNotFound
	}
	_, err := f.locationService().Update(context.Background(), 2, domain.LocationPatch{Title: domain.Some("x")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocationService_Delete_PurgesFiles(t *testing.T) {
	f := newFixture()
	f.locations.deleteFn = func(ctx context.Context, id int64) (*domain.Location, []string, error) {
		return &domain.Location{ID: id, TripID: 4}, []string{"x.jpg"}, nil
	}

	if _, err := f.locationService().Delete(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"x.jpg"}, f.janitor.purged); diff != "" {
		t.Errorf("purged (-want +got):\n%s", diff)
	}
}
