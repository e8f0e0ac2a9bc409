// Package accommodations declares storage for stays booked on trip stops.
package accommodations

import (
	"context"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

type Repository interface {
	// ListByTrip orders by check-in date.
	ListByTrip(ctx context.Context, tripID string) ([]models.Accommodation, error)
	Get(ctx context.Context, id string) (*models.Accommodation, error)
	Create(ctx context.Context, a *models.Accommodation) (*models.Accommodation, error)
	Update(ctx context.Context, a *models.Accommodation) error
	Delete(ctx context.Context, id string) error
}
