package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/tripjournal/internal/core/domain"
)

// TripRepo implements ports.TripRepository.
type TripRepo struct {
	db *DB
}

func NewTripRepo(db *DB) *TripRepo {
	return &TripRepo{db: db}
}

func (r *TripRepo) Create(ctx context.Context, trip *domain.Trip) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO trips (name, start_date, end_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, trip.Name, dateArg(trip.StartDate), dateArg(trip.EndDate)).Scan(&trip.ID, &trip.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

func (r *TripRepo) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	t, err := scanTrip(r.db.Pool.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return t, nil
}

// List returns trips ordered by start date, undated trips last, then newest
// first.
func (r *TripRepo) List(ctx context.Context, offset, limit int) ([]domain.Trip, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM trips`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count trips: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		ORDER BY start_date DESC NULLS LAST, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	trips := make([]domain.Trip, 0, limit)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("read trips: %w", err)
	}
	return trips, total, nil
}

func (r *TripRepo) Update(ctx context.Context, trip *domain.Trip) error {
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE trips SET name = $1, start_date = $2, end_date = $3
		WHERE id = $4
		RETURNING created_at
	`, trip.Name, dateArg(trip.StartDate), dateArg(trip.EndDate), trip.ID).Scan(&trip.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	return nil
}

// Delete removes the trip. Locations and photos go with it through
// ON DELETE CASCADE; their file names are collected first in the same
// transaction.
func (r *TripRepo) Delete(ctx context.Context, id int64) (*domain.Trip, []string, error) {
	var (
		trip  *domain.Trip
		files []string
	)
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		files, err = fileNames(ctx, tx, `
			SELECT p.file_name
			FROM photos p
			JOIN locations l ON l.id = p.location_id
			WHERE l.trip_id = $1
			ORDER BY p.id
		`, id)
		if err != nil {
			return err
		}

		trip, err = scanTrip(tx.QueryRow(ctx, `DELETE FROM trips WHERE id = $1 RETURNING `+tripColumns, id))
		return mapErr(err)
	})
	if err != nil {
		return nil, nil, err
	}
	return trip, files, nil
}

func fileNames(ctx context.Context, tx pgx.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query photo files: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan photo file: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read photo files: %w", err)
	}
	return names, nil
}
