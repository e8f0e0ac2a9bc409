// Package transports declares storage for transport legs between stops.
package transports

import (
	"context"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

type Repository interface {
	// ListByTrip orders by departure time.
	ListByTrip(ctx context.Context, tripID string) ([]models.TransportCost, error)
	Get(ctx context.Context, id string) (*models.TransportCost, error)
	Create(ctx context.Context, t *models.TransportCost) (*models.TransportCost, error)
	Update(ctx context.Context, t *models.TransportCost) error
	Delete(ctx context.Context, id string) error
}
