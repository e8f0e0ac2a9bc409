package images

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/globetrotter/internal/common"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+images.*RETURNING\s+id`).
		WithArgs("u1", models.ImageKindTripCover, "t1", "users/2025/6/1/k", models.UploadStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("i1"))

	img, err := repo.Create(context.Background(), &models.Image{
		UserID: "u1", Kind: models.ImageKindTripCover, RefID: "t1",
		StorageKey: "users/2025/6/1/k", UploadStatus: models.UploadStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, "i1", img.ID)
}

func TestGetByKey(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+images\s+WHERE\s+storage_key\s*=\s*\$1`).
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "kind", "ref_id", "storage_key", "upload_status"}).
			AddRow("i1", "u1", "trip_cover", "t1", "k", "pending"))
	mock.ExpectQuery(`FROM\s+images`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	img, err := repo.GetByKey(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "t1", img.RefID)

	_, err = repo.GetByKey(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMarkCompleted(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+images\s+SET\s+upload_status\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("i1", "completed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkCompleted(context.Background(), "i1"))
}
