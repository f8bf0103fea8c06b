package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/tripjournal/internal/core/domain"
)

// LocationRepo implements ports.LocationRepository.
type LocationRepo struct {
	db *DB
}

func NewLocationRepo(db *DB) *LocationRepo {
	return &LocationRepo{db: db}
}

// Create inserts a location. A missing trip yields domain.ErrNotFound.
func (r *LocationRepo) Create(ctx context.Context, loc *domain.Location) error {
	lat, lon := pointArgs(loc.Coordinates)
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO locations (trip_id, title, description, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, loc.TripID, loc.Title, textArg(loc.Description), lat, lon).Scan(&loc.ID, &loc.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	l, err := scanLocation(r.db.Pool.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return l, nil
}

func (r *LocationRepo) ListByTrip(ctx context.Context, tripID int64) ([]domain.Location, error) {
	return r.list(ctx, `
		SELECT `+locationColumns+`
		FROM locations WHERE trip_id = $1
		ORDER BY created_at, id
	`, tripID)
}

// ListByTrips loads the locations of several trips in one query.
func (r *LocationRepo) ListByTrips(ctx context.Context, tripIDs []int64) ([]domain.Location, error) {
	if len(tripIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+locationColumns+`
		FROM locations WHERE trip_id = ANY($1)
		ORDER BY trip_id, created_at, id
	`, tripIDs)
}

func (r *LocationRepo) list(ctx context.Context, query string, args ...any) ([]domain.Location, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var locs []domain.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locs = append(locs, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read locations: %w", err)
	}
	return locs, nil
}

// Update stores title, description and coordinates as given.
func (r *LocationRepo) Update(ctx context.Context, loc *domain.Location) error {
	lat, lon := pointArgs(loc.Coordinates)
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE locations SET title = $1, description = $2, latitude = $3, longitude = $4
		WHERE id = $5
		RETURNING trip_id, created_at
	`, loc.Title, textArg(loc.Description), lat, lon, loc.ID).Scan(&loc.TripID, &loc.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	return nil
}

func (r *LocationRepo) SetCoordinates(ctx context.Context, id int64, p *domain.GeoPoint) (*domain.Location, error) {
	lat, lon := pointArgs(p)
	l, err := scanLocation(r.db.Pool.QueryRow(ctx, `
		UPDATE locations SET latitude = $1, longitude = $2
		WHERE id = $3
		RETURNING `+locationColumns, lat, lon, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return l, nil
}

func (r *LocationRepo) Delete(ctx context.Context, id int64) (*domain.Location, []string, error) {
	var (
		loc   *domain.Location
		files []string
	)
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		files, err = fileNames(ctx, tx, `SELECT file_name FROM photos WHERE location_id = $1 ORDER BY id`, id)
		if err != nil {
			return err
		}
		loc, err = scanLocation(tx.QueryRow(ctx, `DELETE FROM locations WHERE id = $1 RETURNING `+locationColumns, id))
		return mapErr(err)
	})
	if err != nil {
		return nil, nil, err
	}
	return loc, files, nil
}
