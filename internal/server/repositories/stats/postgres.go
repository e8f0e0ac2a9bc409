package stats

import (
	"context"
	"time"

	"github.com/dmitrijs2005/globetrotter/internal/dbx"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Counts(ctx context.Context) (*models.Stats, error) {
	query := `
		SELECT (SELECT COUNT(*) FROM users),
		       (SELECT COUNT(*) FROM trips),
		       (SELECT COUNT(*) FROM trip_stops),
		       (SELECT COUNT(*) FROM trip_activities)
	`
	s := &models.Stats{}
	if err := r.db.QueryRowContext(ctx, query).Scan(&s.Users, &s.Trips, &s.Stops, &s.Activities); err != nil {
		return nil, dbx.MapError(err)
	}
	return s, nil
}

func (r *PostgresRepository) TopCities(ctx context.Context, limit int) ([]models.CityCount, error) {
	query := `
		SELECT c.id, c.name, c.country, COUNT(s.id) AS stops
		FROM cities c
		JOIN trip_stops s ON s.city_id = c.id
		GROUP BY c.id
		ORDER BY stops DESC, c.name
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := []models.CityCount{}
	for rows.Next() {
		var c models.CityCount
		if err := rows.Scan(&c.CityID, &c.CityName, &c.Country, &c.Stops); err != nil {
			return nil, dbx.MapError(err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}
	return result, nil
}

func (r *PostgresRepository) TripsPerMonth(ctx context.Context, since time.Time) ([]models.MonthCount, error) {
	query := `
		SELECT date_trunc('month', created_at AT TIME ZONE 'UTC') AS month, COUNT(*)
		FROM trips
		WHERE created_at >= $1
		GROUP BY month
		ORDER BY month
	`
	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := []models.MonthCount{}
	for rows.Next() {
		var m models.MonthCount
		if err := rows.Scan(&m.Month, &m.Trips); err != nil {
			return nil, dbx.MapError(err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}
	return result, nil
}
