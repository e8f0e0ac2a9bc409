package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/globetrotter/internal/dbx"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/accommodations"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/activities"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/cities"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/images"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/stats"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/stops"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/transports"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/tripactivities"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/trips"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same service
// code runs against *sql.DB or inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Cities(db dbx.DBTX) cities.Repository
	Activities(db dbx.DBTX) activities.Repository
	Trips(db dbx.DBTX) trips.Repository
	Stops(db dbx.DBTX) stops.Repository
	TripActivities(db dbx.DBTX) tripactivities.Repository
	Accommodations(db dbx.DBTX) accommodations.Repository
	Transports(db dbx.DBTX) transports.Repository
	Images(db dbx.DBTX) images.Repository
	Stats(db dbx.DBTX) stats.Repository
}
