package trips

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/globetrotter/internal/dbx"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectTrip = `
	SELECT id, user_id, name, description, start_date, end_date, budget, is_public,
	       cover_image_key, created_at, updated_at
	FROM trips
`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (models.Trip, error) {
	var t models.Trip
	err := s.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &t.StartDate, &t.EndDate, &t.Budget,
		&t.IsPublic, &t.CoverImageKey, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.Trip) (*models.Trip, error) {
	query := `
		INSERT INTO trips (user_id, name, description, start_date, end_date, budget, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, t.UserID, t.Name, t.Description, t.StartDate, t.EndDate,
		t.Budget, t.IsPublic).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return t, nil
}

func (r *PostgresRepository) GetForUser(ctx context.Context, userID, id string) (*models.Trip, error) {
	t, err := scanTrip(r.db.QueryRowContext(ctx, selectTrip+` WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return &t, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Trip, error) {
	t, err := scanTrip(r.db.QueryRowContext(ctx, selectTrip+` WHERE id = $1`, id))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return &t, nil
}

func (r *PostgresRepository) List(ctx context.Context, f models.TripFilter) ([]models.Trip, error) {
	order, ok := models.TripSortColumns[f.SortBy]
	if !ok {
		order = models.TripSortColumns[""]
	}
	query := selectTrip + fmt.Sprintf(`
		WHERE user_id = $1
		  AND ($2 = '' OR name ILIKE '%%' || $2 || '%%')
		  AND ($3 = ''
		       OR ($3 = 'upcoming' AND start_date > $4)
		       OR ($3 = 'ongoing' AND start_date <= $4 AND end_date >= $4)
		       OR ($3 = 'past' AND end_date < $4))
		ORDER BY %s
		LIMIT $5 OFFSET $6
	`, order)

	rows, err := r.db.QueryContext(ctx, query, f.UserID, dbx.EscapeLike(f.Query), string(f.Status), f.Today, f.Limit, f.Offset)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	result := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
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

func (r *PostgresRepository) Update(ctx context.Context, t *models.Trip) error {
	query := `
		UPDATE trips
		SET name = $3, description = $4, start_date = $5, end_date = $6, budget = $7,
		    is_public = $8, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, t.ID, t.UserID, t.Name, t.Description, t.StartDate, t.EndDate,
		t.Budget, t.IsPublic).Scan(&t.UpdatedAt)
	if err != nil {
		return dbx.MapError(err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.ExpectOne(res)
}

func (r *PostgresRepository) SetCover(ctx context.Context, id, storageKey string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE trips SET cover_image_key = $2, updated_at = now() WHERE id = $1`, id, storageKey)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.ExpectOne(res)
}

func (r *PostgresRepository) LockForUpdate(ctx context.Context, id string) error {
	var locked string
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM trips WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
		return dbx.MapError(err)
	}
	return nil
}
