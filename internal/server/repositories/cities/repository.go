// Package cities declares storage for the destination catalog.
package cities

import (
	"context"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

type Repository interface {
	// List orders by popularity descending, then name.
	List(ctx context.Context, filter models.CityFilter) ([]models.City, error)
	Get(ctx context.Context, id string) (*models.City, error)
	Create(ctx context.Context, city *models.City) (*models.City, error)
	Update(ctx context.Context, city *models.City) error
	Delete(ctx context.Context, id string) error
}
