// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/globetrotter/internal/dbx"
	"github.com/dmitrijs2005/globetrotter/internal/server/migrations"
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
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Cities(db dbx.DBTX) cities.Repository {
	return cities.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Activities(db dbx.DBTX) activities.Repository {
	return activities.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Trips(db dbx.DBTX) trips.Repository {
	return trips.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Stops(db dbx.DBTX) stops.Repository {
	return stops.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) TripActivities(db dbx.DBTX) tripactivities.Repository {
	return tripactivities.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Accommodations(db dbx.DBTX) accommodations.Repository {
	return accommodations.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Transports(db dbx.DBTX) transports.Repository {
	return transports.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Images(db dbx.DBTX) images.Repository {
	return images.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Stats(db dbx.DBTX) stats.Repository {
	return stats.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
