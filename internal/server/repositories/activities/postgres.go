package activities

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

const selectActivity = `
	SELECT id, city_id, name, description, category, cost, duration_minutes
	FROM activities
`

func (r *PostgresRepository) List(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error) {
	query := selectActivity + `
		WHERE ($1 = '' OR city_id::text = $1)
		  AND ($2 = '' OR category = $2)
		  AND ($3::numeric <= 0 OR cost <= $3::numeric)
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query, f.CityID, f.Category, f.MaxCost)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.CityID, &a.Name, &a.Description, &a.Category, &a.Cost, &a.DurationMinutes); err != nil {
			return nil, dbx.MapError(err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Activity, error) {
	a := &models.Activity{}
	err := r.db.QueryRowContext(ctx, selectActivity+` WHERE id = $1`, id).
		Scan(&a.ID, &a.CityID, &a.Name, &a.Description, &a.Category, &a.Cost, &a.DurationMinutes)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	query := `
		INSERT INTO activities (city_id, name, description, category, cost, duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, a.CityID, a.Name, a.Description, a.Category, a.Cost, a.DurationMinutes).
		Scan(&a.ID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return dbx.MapDeleteError(err)
	}
	return dbx.ExpectOne(res)
}
