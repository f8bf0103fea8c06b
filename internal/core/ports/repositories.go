package ports

import (
	"context"

	"github.com/samirrijal/tripjournal/internal/core/domain"
)

// TripRepository persists trips.
type TripRepository interface {
	Create(ctx context.Context, trip *domain.Trip) error
	GetByID(ctx context.Context, id int64) (*domain.Trip, error)
	// List returns a page of trips, most recent first, and the total count.
	List(ctx context.Context, offset, limit int) ([]domain.Trip, int, error)
	Update(ctx context.Context, trip *domain.Trip) error
	// Delete removes a trip with its locations and photos and returns the
	// stored file names of the removed photos.
	Delete(ctx context.Context, id int64) (*domain.Trip, []string, error)
}

// LocationRepository persists locations.
type LocationRepository interface {
	Create(ctx context.Context, loc *domain.Location) error
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	ListByTrip(ctx context.Context, tripID int64) ([]domain.Location, error)
	ListByTrips(ctx context.Context, tripIDs []int64) ([]domain.Location, error)
	Update(ctx context.Context, loc *domain.Location) error
	// SetCoordinates overwrites the coordinates of a location unconditionally.
	SetCoordinates(ctx context.Context, id int64, p *domain.GeoPoint) (*domain.Location, error)
	Delete(ctx context.Context, id int64) (*domain.Location, []string, error)
}

// PhotoRepository persists photos.
type PhotoRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Photo, error)
	ListByLocations(ctx context.Context, locationIDs []int64) ([]domain.Photo, error)
	// Attach inserts the photo and, in the same transaction, fills in the
	// owning location's coordinates from the photo's geotag when the
	// location has none. It returns the location as stored afterwards.
	Attach(ctx context.Context, photo *domain.Photo) (*domain.Location, bool, error)
	// Delete removes a photo and returns it with the id of the trip it
	// belonged to.
	Delete(ctx context.Context, id int64) (*domain.Photo, int64, error)
}
