// Package users declares the account storage contract.
package users

import (
	"context"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

type Repository interface {
	// Create inserts the user and fills ID and CreatedAt. A taken email yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateName(ctx context.Context, id string, name string) error
	Delete(ctx context.Context, id string) error
	// List returns users whose email or name contains query, newest first,
	// each with the number of trips they own.
	List(ctx context.Context, query string, limit, offset int) ([]models.UserSummary, error)
}
