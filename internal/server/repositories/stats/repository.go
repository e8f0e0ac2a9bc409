// Package stats declares the aggregate queries behind the admin dashboard.
package stats

import (
	"context"
	"time"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

type Repository interface {
	// Counts fills the scalar totals of Stats.
	Counts(ctx context.Context) (*models.Stats, error)
	TopCities(ctx context.Context, limit int) ([]models.CityCount, error)
	// TripsPerMonth counts trips created since the given instant, grouped by
	// calendar month, oldest first. Months without trips are omitted.
	TripsPerMonth(ctx context.Context, since time.Time) ([]models.MonthCount, error)
}
