package tripactivities

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

const selectTripActivity = `
	SELECT ta.id, ta.trip_stop_id, ta.activity_id, a.name, a.category,
	       ta.scheduled_date, ta.start_time, ta.cost, ta.notes
	FROM trip_activities ta
	JOIN activities a ON a.id = ta.activity_id
`

const orderTripActivity = ` ORDER BY ta.scheduled_date, ta.start_time, a.name`

type scanner interface {
	Scan(dest ...any) error
}

func scanTripActivity(s scanner) (models.TripActivity, error) {
	var a models.TripActivity
	err := s.Scan(&a.ID, &a.TripStopID, &a.ActivityID, &a.ActivityName, &a.Category,
		&a.ScheduledDate, &a.StartTime, &a.Cost, &a.Notes)
	return a, err
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]models.TripActivity, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := []models.TripActivity{}
	for rows.Next() {
		a, err := scanTripActivity(rows)
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

func (r *PostgresRepository) ListByStop(ctx context.Context, stopID string) ([]models.TripActivity, error) {
	return r.list(ctx, selectTripActivity+` WHERE ta.trip_stop_id = $1`+orderTripActivity, stopID)
}

func (r *PostgresRepository) ListByTrip(ctx context.Context, tripID string) ([]models.TripActivity, error) {
	query := selectTripActivity + `
		JOIN trip_stops s ON s.id = ta.trip_stop_id
		WHERE s.trip_id = $1` + orderTripActivity
	return r.list(ctx, query, tripID)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.TripActivity, error) {
	a, err := scanTripActivity(r.db.QueryRowContext(ctx, selectTripActivity+` WHERE ta.id = $1`, id))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return &a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.TripActivity) (*models.TripActivity, error) {
	query := `
		INSERT INTO trip_activities (trip_stop_id, activity_id, scheduled_date, start_time, cost, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, a.TripStopID, a.ActivityID, a.ScheduledDate, a.StartTime, a.Cost, a.Notes).
		Scan(&a.ID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) Update(ctx context.Context, a *models.TripActivity) error {
	query := `
		UPDATE trip_activities
		SET scheduled_date = $2, start_time = $3, cost = $4, notes = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, a.ID, a.ScheduledDate, a.StartTime, a.Cost, a.Notes)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.ExpectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trip_activities WHERE id = $1`, id)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.ExpectOne(res)
}
