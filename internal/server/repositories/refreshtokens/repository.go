// Package refreshtokens declares the storage contract for opaque refresh
// tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Take deletes the token and returns the removed row, so that only one
	// caller can consume it. Returns common.ErrorNotFound when it is absent.
	Take(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a token. Deleting a missing token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired purges tokens that expired before now and reports how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
