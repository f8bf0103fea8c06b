package http_test

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/samirrijal/tripjournal/internal/core/domain"
)

// memJournal is an in-memory stand-in for the Postgres repositories.
type memJournal struct {
	mu        sync.Mutex
	nextID    int64
	trips     map[int64]domain.Trip
	locations map[int64]domain.Location
	photos    map[int64]domain.Photo
}

func newMemJournal() *memJournal {
	return &memJournal{
		trips:     map[int64]domain.Trip{},
		locations: map[int64]domain.Location{},
		photos:    map[int64]domain.Photo{},
	}
}

func (m *memJournal) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memJournal) photoFiles(locID int64) []string {
	var ids []int64
	for id, p := range m.photos {
		if p.LocationID == locID {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	files := make([]string, 0, len(ids))
	for _, id := range ids {
		files = append(files, m.photos[id].FileName)
		delete(m.photos, id)
	}
	return files
}

type memTrips struct{ *memJournal }

func (m memTrips) Create(_ context.Context, t *domain.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	t.CreatedAt = time.Now().UTC()
	stored := *t
	stored.Locations = nil
	m.trips[t.ID] = stored
	return nil
}

func (m memTrips) GetByID(_ context.Context, id int64) (*domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (m memTrips) List(_ context.Context, offset, limit int) ([]domain.Trip, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]domain.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		switch {
		case a.StartDate != nil && b.StartDate != nil && !a.StartDate.Equal(b.StartDate.Time):
			return a.StartDate.After(b.StartDate.Time)
		case (a.StartDate == nil) != (b.StartDate == nil):
			return a.StartDate != nil
		}
		return a.ID > b.ID
	})
	total := len(all)
	if offset >= total {
		return []domain.Trip{}, total, nil
	}
	return all[offset:min(offset+limit, total)], total, nil
}

func (m memTrips) Update(_ context.Context, t *domain.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.trips[t.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Name, stored.StartDate, stored.EndDate = t.Name, t.StartDate, t.EndDate
	m.trips[t.ID] = stored
	t.CreatedAt = stored.CreatedAt
	return nil
}

func (m memTrips) Delete(_ context.Context, id int64) (*domain.Trip, []string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	var files []string
	for lid, l := range m.locations {
		if l.TripID == id {
			files = append(files, m.photoFiles(lid)...)
			delete(m.locations, lid)
		}
	}
	delete(m.trips, id)
	return &t, files, nil
}

type memLocations struct{ *memJournal }

func (m memLocations) Create(_ context.Context, l *domain.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[l.TripID]; !ok {
		return domain.ErrNotFound
	}
	l.ID = m.id()
	l.CreatedAt = time.Now().UTC()
	stored := *l
	stored.Photos = nil
	m.locations[l.ID] = stored
	return nil
}

func (m memLocations) GetByID(_ context.Context, id int64) (*domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}

func (m memLocations) ListByTrip(ctx context.Context, tripID int64) ([]domain.Location, error) {
	return m.ListByTrips(ctx, []int64{tripID})
}

func (m memLocations) ListByTrips(_ context.Context, tripIDs []int64) ([]domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Location
	for _, l := range m.locations {
		if slices.Contains(tripIDs, l.TripID) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memLocations) Update(_ context.Context, l *domain.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.locations[l.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Title, stored.Description, stored.Coordinates = l.Title, l.Description, l.Coordinates
	m.locations[l.ID] = stored
	return nil
}

func (m memLocations) SetCoordinates(_ context.Context, id int64, p *domain.GeoPoint) (*domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	l.Coordinates = p
	m.locations[id] = l
	return &l, nil
}

func (m memLocations) Delete(_ context.Context, id int64) (*domain.Location, []string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locations[id]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	files := m.photoFiles(id)
	delete(m.locations, id)
	return &l, files, nil
}

type memPhotos struct{ *memJournal }

func (m memPhotos) GetByID(_ context.Context, id int64) (*domain.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.photos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m memPhotos) ListByLocations(_ context.Context, ids []int64) ([]domain.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Photo
	for _, p := range m.photos {
		if slices.Contains(ids, p.LocationID) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memPhotos) Attach(_ context.Context, p *domain.Photo) (*domain.Location, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locations[p.LocationID]
	if !ok {
		return nil, false, domain.ErrNotFound
	}
	p.ID = m.id()
	p.CreatedAt = time.Now().UTC()
	m.photos[p.ID] = *p

	coords, updated := domain.ApplyGeotag(l.Coordinates, p.Coordinates)
	l.Coordinates = coords
	m.locations[l.ID] = l
	return &l, updated, nil
}

func (m memPhotos) Delete(_ context.Context, id int64) (*domain.Photo, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.photos[id]
	if !ok {
		return nil, 0, domain.ErrNotFound
	}
	delete(m.photos, id)
	return &p, m.locations[p.LocationID].TripID, nil
}
