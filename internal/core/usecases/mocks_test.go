package usecases_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/samirrijal/tripjournal/internal/core/domain"
	"github.com/samirrijal/tripjournal/internal/core/usecases"
)

// --- Mock TripRepository ---

type mockTripRepo struct {
	createFn  func(ctx context.Context, trip *domain.Trip) error
	getByIDFn func(ctx context.Context, id int64) (*domain.Trip, error)
	listFn    func(ctx context.Context, offset, limit int) ([]domain.Trip, int, error)
	updateFn  func(ctx context.Context, trip *domain.Trip) error
	deleteFn  func(ctx context.Context, id int64) (*domain.Trip, []string, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip *domain.Trip) error {
	if m.createFn != nil {
		return m.createFn(ctx, trip)
	}
	trip.ID = 1
	return nil
}

func (m *mockTripRepo) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Trip{ID: id, Name: "Trip"}, nil
}

func (m *mockTripRepo) List(ctx context.Context, offset, limit int) ([]domain.Trip, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockTripRepo) Update(ctx context.Context, trip *domain.Trip) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, trip)
	}
	return nil
}

func (m *mockTripRepo) Delete(ctx context.Context, id int64) (*domain.Trip, []string, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return &domain.Trip{ID: id}, nil, nil
}

// --- Mock LocationRepository ---

type mockLocationRepo struct {
	createFn         func(ctx context.Context, loc *domain.Location) error
	getByIDFn        func(ctx context.Context, id int64) (*domain.Location, error)
	listByTripFn     func(ctx context.Context, tripID int64) ([]domain.Location, error)
	listByTripsFn    func(ctx context.Context, tripIDs []int64) ([]domain.Location, error)
	updateFn         func(ctx context.Context, loc *domain.Location) error
	setCoordinatesFn func(ctx context.Context, id int64, p *domain.GeoPoint) (*domain.Location, error)
	deleteFn         func(ctx context.Context, id int64) (*domain.Location, []string, error)
}

func (m *mockLocationRepo) Create(ctx context.Context, loc *domain.Location) error {
	if m.createFn != nil {
		return m.createFn(ctx, loc)
	}
	loc.ID = 1
	return nil
}

func (m *mockLocationRepo) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Location{ID: id, TripID: 1, Title: "Location"}, nil
}

func (m *mockLocationRepo) ListByTrip(ctx context.Context, tripID int64) ([]domain.Location, error) {
	if m.listByTripFn != nil {
		return m.listByTripFn(ctx, tripID)
	}
	return nil, nil
}

func (m *mockLocationRepo) ListByTrips(ctx context.Context, tripIDs []int64) ([]domain.Location, error) {
	if m.listByTripsFn != nil {
		return m.listByTripsFn(ctx, tripIDs)
	}
	return nil, nil
}

func (m *mockLocationRepo) Update(ctx context.Context, loc *domain.Location) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, loc)
	}
	return nil
}

func (m *mockLocationRepo) SetCoordinates(ctx context.Context, id int64, p *domain.GeoPoint) (*domain.Location, error) {
	if m.setCoordinatesFn != nil {
		return m.setCoordinatesFn(ctx, id, p)
	}
	return &domain.Location{ID: id, TripID: 1, Coordinates: p}, nil
}

func (m *mockLocationRepo) Delete(ctx context.Context, id int64) (*domain.Location, []string, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return &domain.Location{ID: id, TripID: 1}, nil, nil
}

// --- Mock PhotoRepository ---

type mockPhotoRepo struct {
	getByIDFn         func(ctx context.Context, id int64) (*domain.Photo, error)
	listByLocationsFn func(ctx context.Context, ids []int64) ([]domain.Photo, error)
	attachFn          func(ctx context.Context, photo *domain.Photo) (*domain.Location, bool, error)
	deleteFn          func(ctx context.Context, id int64) (*domain.Photo, int64, error)
}

func (m *mockPhotoRepo) GetByID(ctx context.Context, id int64) (*domain.Photo, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Photo{ID: id, LocationID: 1, FileName: "photo.jpg"}, nil
}

func (m *mockPhotoRepo) ListByLocations(ctx context.Context, ids []int64) ([]domain.Photo, error) {
	if m.listByLocationsFn != nil {
		return m.listByLocationsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockPhotoRepo) Attach(ctx context.Context, photo *domain.Photo) (*domain.Location, bool, error) {
	if m.attachFn != nil {
		return m.attachFn(ctx, photo)
	}
	photo.ID = 1
	return &domain.Location{ID: photo.LocationID, TripID: 1}, false, nil
}

func (m *mockPhotoRepo) Delete(ctx context.Context, id int64) (*domain.Photo, int64, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return &domain.Photo{ID: id, LocationID: 1, FileName: "photo.jpg"}, 1, nil
}

// --- Mock FileStore / FileJanitor ---

type mockFiles struct {
	mu      sync.Mutex
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func newMockFiles() *mockFiles {
	return &mockFiles{saved: map[string][]byte{}}
}

func (m *mockFiles) Save(_ context.Context, originalName string, r io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	name := "stored-" + originalName
	m.saved[name] = data
	return name, nil
}

func (m *mockFiles) Open(_ context.Context, name string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.saved[name]
	if !ok {
		return nil, errors.New("file does not exist")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockFiles) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, name)
	m.deleted = append(m.deleted, name)
	return nil
}

type mockJanitor struct {
	purged []string
	err    error
}

func (m *mockJanitor) Purge(_ context.Context, names []string) error {
	m.purged = append(m.purged, names...)
	return m.err
}

// --- Mock GeotagResolver ---

type mockResolver struct {
	tags map[string]domain.GeoPoint
}

func (m *mockResolver) Resolve(ctx context.Context, name string) *domain.GeoPoint {
	p, err := m.Inspect(ctx, name)
	if err != nil {
		return nil
	}
	return &p
}

func (m *mockResolver) Inspect(_ context.Context, name string) (domain.GeoPoint, error) {
	for suffix, p := range m.tags {
		if len(name) >= len(suffix) && name[len(name)-len(suffix):] == suffix {
			return p, nil
		}
	}
	return domain.GeoPoint{}, errNoGPS
}

var errNoGPS = errors.New("geotag: no gps directory")

// --- Mock CacheService / EventPublisher ---

type mockCache struct {
	data    map[string][]byte
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}}
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (m *mockCache) Set(_ context.Context, key string, value []byte, _ int) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type mockPublisher struct {
	events []domain.Event
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, ev domain.Event) error {
	m.events = append(m.events, ev)
	return m.err
}

func (m *mockPublisher) types() []string {
	out := make([]string, len(m.events))
	for i, ev := range m.events {
		out[i] = ev.Type
	}
	return out
}

// fixture wires services to fresh mocks.
type fixture struct {
	trips     *mockTripRepo
	locations *mockLocationRepo
	photos    *mockPhotoRepo
	files     *mockFiles
	janitor   *mockJanitor
	resolver  *mockResolver
	cache     *mockCache
	events    *mockPublisher
}

func newFixture() *fixture {
	return &fixture{
		trips:     &mockTripRepo{},
		locations: &mockLocationRepo{},
		photos:    &mockPhotoRepo{},
		files:     newMockFiles(),
		janitor:   &mockJanitor{},
		resolver:  &mockResolver{tags: map[string]domain.GeoPoint{}},
		cache:     newMockCache(),
		events:    &mockPublisher{},
	}
}

func (f *fixture) repos() usecases.Repositories {
	return usecases.Repositories{Trips: f.trips, Locations: f.locations, Photos: f.photos}
}

func (f *fixture) collaborators() usecases.Collaborators {
	return usecases.Collaborators{Cache: f.cache, Events: f.events}
}

func (f *fixture) tripService() *usecases.TripService {
	return usecases.NewTripService(f.repos(), f.janitor, f.collaborators())
}

func (f *fixture) photoService() *usecases.PhotoService {
	return usecases.NewPhotoService(f.repos(), f.files, f.resolver, f.collaborators())
}

func (f *fixture) locationService() *usecases.LocationService {
	return usecases.NewLocationService(f.repos(), f.photoService(), f.janitor, f.collaborators())
}
