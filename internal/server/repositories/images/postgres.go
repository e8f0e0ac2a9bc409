package images

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

func (r *PostgresRepository) Create(ctx context.Context, img *models.Image) (*models.Image, error) {
	query := `
		INSERT INTO images (user_id, kind, ref_id, storage_key, upload_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, img.UserID, img.Kind, img.RefID, img.StorageKey, img.UploadStatus).
		Scan(&img.ID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return img, nil
}

func (r *PostgresRepository) GetByKey(ctx context.Context, storageKey string) (*models.Image, error) {
	query := `
		SELECT id, user_id, kind, ref_id, storage_key, upload_status
		FROM images
		WHERE storage_key = $1
	`
	img := &models.Image{}
	err := r.db.QueryRowContext(ctx, query, storageKey).
		Scan(&img.ID, &img.UserID, &img.Kind, &img.RefID, &img.StorageKey, &img.UploadStatus)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return img, nil
}

func (r *PostgresRepository) MarkCompleted(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE images SET upload_status = $2 WHERE id = $1`, id, models.UploadStatusCompleted)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.ExpectOne(res)
}
