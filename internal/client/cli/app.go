package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/globetrotter/internal/client/client"
	"github.com/dmitrijs2005/globetrotter/internal/client/config"
	"github.com/dmitrijs2005/globetrotter/internal/client/services"
	"github.com/dmitrijs2005/globetrotter/internal/logging"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	tripService services.TripService
	logger      logging.Logger
	db          *sql.DB
	email       string
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp opens the session database, builds the API client and restores a
// saved session if there is one.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stderr, c.LogLevel)

	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)

	a := &App{
		config:      c,
		authService: services.NewAuthService(api, db, c.ServerURL, logger),
		tripService: services.NewTripService(api, nil),
		logger:      logger,
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}

	email, ok, err := a.authService.Restore(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if ok {
		a.email = email
		logger.Debug(ctx, "session restored", "email", email)
	}
	return a, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	fmt.Fprintln(a.out, "Welcome to Globetrotter CLI (type 'help' for commands)")
	if a.email != "" {
		fmt.Fprintln(a.out, "Logged in as", a.email)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsLoggedIn()
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	return a.email
}
