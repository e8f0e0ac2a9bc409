package stops

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

const selectStop = `
	SELECT s.id, s.trip_id, s.city_id, c.name, c.country, c.latitude, c.longitude,
	       s.sequence, s.start_date, s.end_date, s.notes
	FROM trip_stops s
	JOIN cities c ON c.id = s.city_id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanStop(s scanner) (models.TripStop, error) {
	var st models.TripStop
	err := s.Scan(&st.ID, &st.TripID, &st.CityID, &st.CityName, &st.Country, &st.Latitude, &st.Longitude,
		&st.Sequence, &st.StartDate, &st.EndDate, &st.Notes)
	return st, err
}

func (r *PostgresRepository) List(ctx context.Context, tripID string) ([]models.TripStop, error) {
	rows, err := r.db.QueryContext(ctx, selectStop+` WHERE s.trip_id = $1 ORDER BY s.sequence`, tripID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := []models.TripStop{}
	for rows.Next() {
		st, err := scanStop(rows)
		if err != nil {
			return nil, dbx.MapError(err)
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.TripStop, error) {
	st, err := scanStop(r.db.QueryRowContext(ctx, selectStop+` WHERE s.id = $1`, id))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return &st, nil
}

func (r *PostgresRepository) NextSequence(ctx context.Context, tripID string) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sequence), 0) + 1 FROM trip_stops WHERE trip_id = $1`, tripID).Scan(&next)
	if err != nil {
		return 0, dbx.MapError(err)
	}
	return next, nil
}

func (r *PostgresRepository) Create(ctx context.Context, st *models.TripStop) (*models.TripStop, error) {
	query := `
		INSERT INTO trip_stops (trip_id, city_id, sequence, start_date, end_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, st.TripID, st.CityID, st.Sequence, st.StartDate, st.EndDate, st.Notes).
		Scan(&st.ID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return st, nil
}

func (r *PostgresRepository) Update(ctx context.Context, st *models.TripStop) error {
	query := `
		UPDATE trip_stops
		SET city_id = $2, start_date = $3, end_date = $4, notes = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, st.ID, st.CityID, st.StartDate, st.EndDate, st.Notes)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.ExpectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trip_stops WHERE id = $1`, id)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.ExpectOne(res)
}

func (r *PostgresRepository) Resequence(ctx context.Context, tripID string) error {
	query := `
		UPDATE trip_stops s
		SET sequence = o.rn
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY sequence, start_date) AS rn
			FROM trip_stops
			WHERE trip_id = $1
		) o
		WHERE s.id = o.id AND s.sequence <> o.rn
	`
	if _, err := r.db.ExecContext(ctx, query, tripID); err != nil {
		return dbx.MapError(err)
	}
	return nil
}

func (r *PostgresRepository) SetSequence(ctx context.Context, id string, sequence int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE trip_stops SET sequence = $2 WHERE id = $1`, id, sequence)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.ExpectOne(res)
}
