package postgres

import (
	"database/sql"

	"github.com/samirrijal/tripjournal/internal/core/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

const tripColumns = `id, name, start_date, end_date, created_at`

func scanTrip(row scanner) (*domain.Trip, error) {
	var (
		t          domain.Trip
		start, end sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.Name, &start, &end, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.StartDate = dateOrNil(start)
	t.EndDate = dateOrNil(end)
	return &t, nil
}

const locationColumns = `id, trip_id, title, description, latitude, longitude, created_at`

func scanLocation(row scanner) (*domain.Location, error) {
	var (
		l        domain.Location
		desc     sql.NullString
		lat, lon sql.NullFloat64
	)
	if err := row.Scan(&l.ID, &l.TripID, &l.Title, &desc, &lat, &lon, &l.CreatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		l.Description = &desc.String
	}
	l.Coordinates = pointOrNil(lat, lon)
	return &l, nil
}

const photoColumns = `id, location_id, file_name, latitude, longitude, created_at`

// scanPhoto reads photoColumns followed by any extra columns into extra.
func scanPhoto(row scanner, extra ...any) (*domain.Photo, error) {
	var (
		p        domain.Photo
		lat, lon sql.NullFloat64
	)
	dest := append([]any{&p.ID, &p.LocationID, &p.FileName, &lat, &lon, &p.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	p.Coordinates = pointOrNil(lat, lon)
	return &p, nil
}

func pointOrNil(lat, lon sql.NullFloat64) *domain.GeoPoint {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	return &domain.GeoPoint{Lat: lat.Float64, Lon: lon.Float64}
}

// pointArgs returns the latitude and longitude query arguments, both nil
// when p is unset.
func pointArgs(p *domain.GeoPoint) (lat, lon any) {
	if p == nil {
		return nil, nil
	}
	return p.Lat, p.Lon
}

func dateOrNil(t sql.NullTime) *domain.Date {
	if !t.Valid {
		return nil
	}
	d := domain.NewDate(t.Time)
	return &d
}

func dateArg(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func textArg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
