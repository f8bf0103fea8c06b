package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/tripjournal/internal/core/domain"
)

// PhotoRepo implements ports.PhotoRepository.
type PhotoRepo struct {
	db *DB
}

func NewPhotoRepo(db *DB) *PhotoRepo {
	return &PhotoRepo{db: db}
}

func (r *PhotoRepo) GetByID(ctx context.Context, id int64) (*domain.Photo, error) {
	p, err := scanPhoto(r.db.Pool.QueryRow(ctx, `SELECT `+photoColumns+` FROM photos WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r *PhotoRepo) ListByLocations(ctx context.Context, locationIDs []int64) ([]domain.Photo, error) {
	if len(locationIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+photoColumns+`
		FROM photos WHERE location_id = ANY($1)
		ORDER BY location_id, created_at, id
	`, locationIDs)
	if err != nil {
		return nil, fmt.Errorf("query photos: %w", err)
	}
	defer rows.Close()

	var photos []domain.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read photos: %w", err)
	}
	return photos, nil
}

// Attach inserts the photo and applies its geotag to the owning location.
// The location row stays locked from the read to the write, so two photos
// uploaded at once cannot both fill in an unset location.
func (r *PhotoRepo) Attach(ctx context.Context, photo *domain.Photo) (*domain.Location, bool, error) {
	var (
		loc     *domain.Location
		updated bool
	)
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		loc, err = scanLocation(tx.QueryRow(ctx,
			`SELECT `+locationColumns+` FROM locations WHERE id = $1 FOR UPDATE`, photo.LocationID))
		if err != nil {
			return mapErr(err)
		}

		lat, lon := pointArgs(photo.Coordinates)
		err = tx.QueryRow(ctx, `
			INSERT INTO photos (location_id, file_name, latitude, longitude)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`, photo.LocationID, photo.FileName, lat, lon).Scan(&photo.ID, &photo.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert photo: %w", err)
		}

		loc.Coordinates, updated = domain.ApplyGeotag(loc.Coordinates, photo.Coordinates)
		if !updated {
			return nil
		}
		lat, lon = pointArgs(loc.Coordinates)
		if _, err := tx.Exec(ctx,
			`UPDATE locations SET latitude = $1, longitude = $2 WHERE id = $3`, lat, lon, loc.ID); err != nil {
			return fmt.Errorf("update location coordinates: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return loc, updated, nil
}

// Delete removes the photo. The trip id is read in the same statement,
// while the owning location is still visible.
func (r *PhotoRepo) Delete(ctx context.Context, id int64) (*domain.Photo, int64, error) {
	var tripID int64
	p, err := scanPhoto(r.db.Pool.QueryRow(ctx, `
		WITH gone AS (
			DELETE FROM photos WHERE id = $1 RETURNING `+photoColumns+`
		)
		SELECT g.id, g.location_id, g.file_name, g.latitude, g.longitude, g.created_at, l.trip_id
		FROM gone g JOIN locations l ON l.id = g.location_id
	`, id), &tripID)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	return p, tripID, nil
}
