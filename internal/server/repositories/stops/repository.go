// Package stops declares storage for trip stops. Stops are read joined with
// their city so callers get the name, country and coordinates.
package stops

import (
	"context"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

type Repository interface {
	// List returns the trip's stops ordered by sequence.
	List(ctx context.Context, tripID string) ([]models.TripStop, error)
	Get(ctx context.Context, id string) (*models.TripStop, error)
	// NextSequence is one past the highest sequence in the trip.
	NextSequence(ctx context.Context, tripID string) (int, error)
	Create(ctx context.Context, stop *models.TripStop) (*models.TripStop, error)
	Update(ctx context.Context, stop *models.TripStop) error
	Delete(ctx context.Context, id string) error
	// Resequence renumbers the trip's stops 1..n keeping their order.
	Resequence(ctx context.Context, tripID string) error
	SetSequence(ctx context.Context, id string, sequence int) error
}
