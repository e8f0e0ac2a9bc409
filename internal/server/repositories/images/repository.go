// Package images declares storage for object-storage metadata.
package images

import (
	"context"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, img *models.Image) (*models.Image, error)
	GetByKey(ctx context.Context, storageKey string) (*models.Image, error)
	MarkCompleted(ctx context.Context, id string) error
}
