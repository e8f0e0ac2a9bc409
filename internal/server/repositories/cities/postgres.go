package cities

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

const selectCity = `
	SELECT id, name, country, region, latitude, longitude, cost_index, popularity, image_key
	FROM cities
`

type scanner interface {
	Scan(dest ...any) error
}

func scanCity(s scanner) (models.City, error) {
	var c models.City
	err := s.Scan(&c.ID, &c.Name, &c.Country, &c.Region, &c.Latitude, &c.Longitude,
		&c.CostIndex, &c.Popularity, &c.ImageKey)
	return c, err
}

func (r *PostgresRepository) List(ctx context.Context, f models.CityFilter) ([]models.City, error) {
	query := selectCity + `
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR country ILIKE $2)
		ORDER BY popularity DESC, name ASC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, query, dbx.EscapeLike(f.Query), dbx.EscapeLike(f.Country), f.Limit, f.Offset)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := []models.City{}
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, dbx.MapError(err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.City, error) {
	c, err := scanCity(r.db.QueryRowContext(ctx, selectCity+` WHERE id = $1`, id))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return &c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.City) (*models.City, error) {
	query := `
		INSERT INTO cities (name, country, region, latitude, longitude, cost_index, popularity, image_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, c.Name, c.Country, c.Region, c.Latitude, c.Longitude,
		c.CostIndex, c.Popularity, c.ImageKey).Scan(&c.ID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.City) error {
	query := `
		UPDATE cities
		SET name = $2, country = $3, region = $4, latitude = $5, longitude = $6,
		    cost_index = $7, popularity = $8, image_key = $9
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Country, c.Region, c.Latitude, c.Longitude,
		c.CostIndex, c.Popularity, c.ImageKey)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.ExpectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		return dbx.MapDeleteError(err)
	}
	return dbx.ExpectOne(res)
}
