package usecases_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samirrijal/tripjournal/internal/core/domain"
)

func TestTripService_Create_Validates(t *testing.T) {
	f := newFixture()
	f.trips.createFn = func(ctx context.Context, trip *domain.Trip) error {
		t.Fatal("repository must not be called for an invalid trip")
		return nil
	}

	err := f.tripService().Create(context.Background(), &domain.Trip{Name: "   "})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}
}

func TestTripService_Create_PublishesEvent(t *testing.T) {
	f := newFixture()
	trip := &domain.Trip{Name: "  Basque coast "}

	if err := f.tripService().Create(context.Background(), trip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.Name != "Basque coast" {
		t.Errorf("expected trimmed name, got %q", trip.Name)
	}
	if trip.Locations == nil {
		t.Error("expected empty, non-nil locations")
	}
	if diff := cmp.Diff([]string{domain.EventTripCreated}, f.events.types()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTripService_List_ClampsAndNests(t *testing.T) {
	f := newFixture()
	f.trips.listFn = func(ctx context.Context, offset, limit int) ([]domain.Trip, int, error) {
		if offset != 0 || limit != 100 {
			t.Errorf("expected offset 0 limit 100, got %d %d", offset, limit)
		}
		return []domain.Trip{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}, 2, nil
	}
	f.locations.listByTripsFn = func(ctx context.Context, ids []int64) ([]domain.Location, error) {
		if !slices.Equal(ids, []int64{1, 2}) {
			t.Errorf("unexpected trip ids %v", ids)
		}
		return []domain.Location{{ID: 10, TripID: 1, Title: "Beach"}}, nil
	}
	f.photos.listByLocationsFn = func(ctx context.Context, ids []int64) ([]domain.Photo, error) {
		return []domain.Photo{{ID: 100, LocationID: 10, FileName: "a.jpg"}}, nil
	}

	trips, total, err := f.tripService().List(context.Background(), -5, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(trips) != 2 {
		t.Fatalf("expected 2 trips, got %d (total %d)", len(trips), total)
	}
	if len(trips[0].Locations) != 1 || len(trips[0].Locations[0].Photos) != 1 {
		t.Errorf("expected nested location and photo, got %+v", trips[0].Locations)
	}
	if trips[1].Locations == nil || len(trips[1].Locations) != 0 {
		t.Errorf("expected empty locations for trip 2, got %v", trips[1].Locations)
	}
}

func TestTripService_List_DefaultPageSize(t *testing.T) {
	f := newFixture()
	f.trips.listFn = func(ctx context.Context, offset, limit int) ([]domain.Trip, int, error) {
		if limit != 20 {
			t.Errorf("expected default limit 20, got %d", limit)
		}
		return nil, 0, nil
	}
	if _, _, err := f.tripService().List(context.Background(), 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTripService_GetByID_SummaryAndCache(t *testing.T) {
	f := newFixture()
	calls := 0
	f.trips.getByIDFn = func(ctx context.Context, id int64) (*domain.Trip, error) {
		calls++
		return &domain.Trip{ID: id, Name: "Coast"}, nil
	}
	f.locations.listByTripFn = func(ctx context.Context, tripID int64) ([]domain.Location, error) {
		return []domain.Location{
			{ID: 1, TripID: tripID, Coordinates: &domain.GeoPoint{Lat: 43.263, Lon: -2.935}},
			{ID: 2, TripID: tripID},
			{ID: 3, TripID: tripID, Coordinates: &domain.GeoPoint{Lat: 43.321, Lon: -1.985}},
		}, nil
	}

	svc := f.tripService()
	trip, err := svc.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.Summary == nil || trip.Summary.Locations != 3 || trip.Summary.Located != 2 {
		t.Fatalf("unexpected summary %+v", trip.Summary)
	}
	if trip.Summary.PathLengthKm < 70 || trip.Summary.PathLengthKm > 80 {
		t.Errorf("expected ~77km between Bilbao and San Sebastián, got %.1f", trip.Summary.PathLengthKm)
	}

	again, err := svc.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected second read from cache, repository called %d times", calls)
	}
	if diff := cmp.Diff(trip, again); diff != "" {
		t.Errorf("cached trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTripService_GetByID_WriteDuringLoadIsNotCached(t *testing.T) {
	f := newFixture()
	stored := []domain.Location{{ID: 1, TripID: 7, Title: "First"}}
	loads := 0
	f.trips.getByIDFn = func(ctx context.Context, id int64) (*domain.Trip, error) {
		return &domain.Trip{ID: id, Name: "Coast"}, nil
	}
	f.locations.createFn = func(ctx context.Context, loc *domain.Location) error {
		loc.ID = int64(len(stored) + 1)
		stored = append(stored, *loc)
		return nil
	}
	f.locations.listByTripFn = func(ctx context.Context, tripID int64) ([]domain.Location, error) {
		loads++
		rows := slices.Clone(stored)
		if loads == 1 {
			// A write commits after this read has loaded its rows.
			if err := f.locationService().Create(ctx, &domain.Location{TripID: tripID, Title: "Second"}); err != nil {
				t.Fatalf("create: %v", err)
			}
		}
		return rows, nil
	}

	svc := f.tripService()
	first, err := svc.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Summary.Locations != 1 {
		t.Fatalf("expected the racing read to see 1 location, got %d", first.Summary.Locations)
	}

	again, err := svc.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loads != 2 {
		t.Errorf("expected the stale result to be skipped, loaded %d times", loads)
	}
	if again.Summary.Locations != 2 {
		t.Errorf("expected 2 locations after the write, got %d", again.Summary.Locations)
	}
}

func TestTripService_GetByID_NotFound(t *testing.T) {
	f := newFixture()
	f.trips.getByIDFn = func(ctx context.Context, id int64) (*domain.Trip, error) {
		return nil, domain.ErrNotFound
	}
	_, err := f.tripService().GetByID(context.Background(), 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTripService_Update(t *testing.T) {
	f := newFixture()
	var stored *domain.Trip
	f.trips.updateFn = func(ctx context.Context, trip *domain.Trip) error {
		stored = trip
		return nil
	}
	f.cache.data["trips:ver:3"] = []byte("v1")
	f.cache.data["trips:id:3:v1"] = []byte(`{"id":3,"name":"stale"}`)

	_, err := f.tripService().Update(context.Background(), 3, domain.TripPatch{Name: domain.Some("Renamed")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil || stored.Name != "Renamed" {
		t.Fatalf("expected renamed trip stored, got %+v", stored)
	}
	if !slices.Contains(f.cache.deleted, "trips:ver:3") {
		t.Error("expected cached trip to be invalidated")
	}
}

func TestTripService_Update_InvalidDates(t *testing.T) {
	f := newFixture()
	start, _ := domain.ParseDate("2024-05-10")
	end, _ := domain.ParseDate("2024-05-01")

	_, err := f.tripService().Update(context.Background(), 3, domain.TripPatch{
		StartDate: domain.Some(start),
		EndDate:   domain.Some(end),
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "end_date" {
		t.Fatalf("expected end_date validation error, got %v", err)
	}
}

func TestTripService_Delete_PurgesFiles(t *testing.T) {
	f := newFixture()
	f.trips.deleteFn = func(ctx context.Context, id int64) (*domain.Trip, []string, error) {
		return &domain.Trip{ID: id, Name: "Gone"}, []string{"a.jpg", "b.jpg"}, nil
	}
	f.janitor.err = errors.New("disk full")

	trip, err := f.tripService().Delete(context.Background(), 4)
	if err != nil {
		t.Fatalf("purge failures must not fail the delete: %v", err)
	}
	if trip.Name != "Gone" {
		t.Errorf("expected deleted trip returned, got %+v", trip)
	}
	if diff := cmp.Diff([]string{"a.jpg", "b.jpg"}, f.janitor.purged); diff != "" {
		t.Errorf("purged files mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{domain.EventTripDeleted}, f.events.types()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}
