package accommodations

import (
	"context"

	"github.com/dmitrijs2005/globetrotter/internal/dbx"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectAccommodation = `
	SELECT a.id, a.trip_stop_id, a.name, a.address, a.check_in, a.check_out, a.cost_per_night
	FROM accommodations a
`

type scanner interface {
	Scan(dest ...any) error
}

func scanAccommodation(s scanner) (models.Accommodation, error) {
	var a models.Accommodation
	err := s.Scan(&a.ID, &a.TripStopID, &a.Name, &a.Address, &a.CheckIn, &a.CheckOut, &a.CostPerNight)
	return a, err
}

func (r *PostgresRepository) ListByTrip(ctx context.Context, tripID string) ([]models.Accommodation, error) {
	query := selectAccommodation + `
		JOIN trip_stops s ON s.id = a.trip_stop_id
		WHERE s.trip_id = $1
		ORDER BY a.check_in, a.name
	`
	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := []models.Accommodation{}
	for rows.Next() {
		a, err := scanAccommodation(rows)
		if err != nil {
			return nil, dbx.MapError(err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Accommodation, error) {
	a, err := scanAccommodation(r.db.QueryRowContext(ctx, selectAccommodation+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return &a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Accommodation) (*models.Accommodation, error) {
	query := `
		INSERT INTO accommodations (trip_stop_id, name, address, check_in, check_out, cost_per_night)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, a.TripStopID, a.Name, a.Address, a.CheckIn, a.CheckOut, a.CostPerNight).
		Scan(&a.ID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) Update(ctx context.Context, a *models.Accommodation) error {
	query := `
		UPDATE accommodations
		SET name = $2, address = $3, check_in = $4, check_out = $5, cost_per_night = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, a.ID, a.Name, a.Address, a.CheckIn, a.CheckOut, a.CostPerNight)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.ExpectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accommodations WHERE id = $1`, id)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.ExpectOne(res)
}
