// Package activities declares storage for the per-city activity catalog.
package activities

import (
	"context"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error)
	Get(ctx context.Context, id string) (*models.Activity, error)
	Create(ctx context.Context, a *models.Activity) (*models.Activity, error)
	Delete(ctx context.Context, id string) error
}
