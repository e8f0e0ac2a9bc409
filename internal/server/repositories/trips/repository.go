// Package trips declares storage for trips. Reads and writes addressed by a
// user ID only see that user's rows.
package trips

import (
	"context"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, trip *models.Trip) (*models.Trip, error)
	// GetForUser returns common.ErrorNotFound when the trip is missing or
	// owned by someone else.
	GetForUser(ctx context.Context, userID, id string) (*models.Trip, error)
	// GetByID ignores ownership. Used for public itineraries.
	GetByID(ctx context.Context, id string) (*models.Trip, error)
	List(ctx context.Context, filter models.TripFilter) ([]models.Trip, error)
	Update(ctx context.Context, trip *models.Trip) error
	Delete(ctx context.Context, userID, id string) error
	SetCover(ctx context.Context, id, storageKey string) error
	// LockForUpdate takes a row lock on the trip for the rest of the
	// transaction, serialising stop sequence changes.
	LockForUpdate(ctx context.Context, id string) error
}
