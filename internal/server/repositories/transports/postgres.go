package transports

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

const selectTransport = `
	SELECT id, trip_id, from_stop_id, to_stop_id, mode, departure_time, arrival_time, cost, notes
	FROM transport_costs
`

type scanner interface {
	Scan(dest ...any) error
}

func scanTransport(s scanner) (models.TransportCost, error) {
	var t models.TransportCost
	err := s.Scan(&t.ID, &t.TripID, &t.FromStopID, &t.ToStopID, &t.Mode, &t.DepartureTime, &t.ArrivalTime,
		&t.Cost, &t.Notes)
	return t, err
}

func (r *PostgresRepository) ListByTrip(ctx context.Context, tripID string) ([]models.TransportCost, error) {
	rows, err := r.db.QueryContext(ctx, selectTransport+` WHERE trip_id = $1 ORDER BY departure_time`, tripID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := []models.TransportCost{}
	for rows.Next() {
		t, err := scanTransport(rows)
		if err != nil {
			return nil, dbx.MapError(err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.TransportCost, error) {
	t, err := scanTransport(r.db.QueryRowContext(ctx, selectTransport+` WHERE id = $1`, id))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return &t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.TransportCost) (*models.TransportCost, error) {
	query := `
		INSERT INTO transport_costs (trip_id, from_stop_id, to_stop_id, mode, departure_time, arrival_time, cost, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, t.TripID, t.FromStopID, t.ToStopID, t.Mode, t.DepartureTime,
		t.ArrivalTime, t.Cost, t.Notes).Scan(&t.ID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return t, nil
}

func (r *PostgresRepository) Update(ctx context.Context, t *models.TransportCost) error {
	query := `
		UPDATE transport_costs
		SET from_stop_id = $2, to_stop_id = $3, mode = $4, departure_time = $5, arrival_time = $6,
		    cost = $7, notes = $8
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, t.ID, t.FromStopID, t.ToStopID, t.Mode, t.DepartureTime,
		t.ArrivalTime, t.Cost, t.Notes)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.ExpectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transport_costs WHERE id = $1`, id)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.ExpectOne(res)
}
