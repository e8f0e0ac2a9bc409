// Package tripactivities declares storage for activities scheduled on trip
// stops.
package tripactivities

import (
	"context"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

type Repository interface {
	// ListByStop and ListByTrip order by scheduled date, then start time.
	ListByStop(ctx context.Context, stopID string) ([]models.TripActivity, error)
	ListByTrip(ctx context.Context, tripID string) ([]models.TripActivity, error)
	Get(ctx context.Context, id string) (*models.TripActivity, error)
	Create(ctx context.Context, a *models.TripActivity) (*models.TripActivity, error)
	Update(ctx context.Context, a *models.TripActivity) error
	Delete(ctx context.Context, id string) error
}
