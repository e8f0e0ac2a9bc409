// Package httpapi exposes the services as a JSON API under /api/v1.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/globetrotter/internal/common"
	"github.com/dmitrijs2005/globetrotter/internal/logging"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/dmitrijs2005/globetrotter/internal/server/services"
	"github.com/dmitrijs2005/globetrotter/internal/server/validate"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

type UserAPI interface {
	Register(ctx context.Context, email, name, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID, name string) (*models.User, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type CatalogAPI interface {
	ListCities(ctx context.Context, f models.CityFilter) ([]models.City, error)
	SearchCities(ctx context.Context, query string, limit int) ([]models.City, error)
	GetCity(ctx context.Context, id string) (*models.City, error)
	CreateCity(ctx context.Context, c *models.City) (*models.City, error)
	UpdateCity(ctx context.Context, c *models.City) (*models.City, error)
	DeleteCity(ctx context.Context, id string) error
	ListActivities(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error)
	CreateActivity(ctx context.Context, a *models.Activity) (*models.Activity, error)
	DeleteActivity(ctx context.Context, id string) error
}

type TripAPI interface {
	CreateTrip(ctx context.Context, userID string, in services.TripInput) (*models.Trip, error)
	GetTrip(ctx context.Context, userID, id string) (*models.Trip, error)
	ListTrips(ctx context.Context, f models.TripFilter) ([]models.Trip, error)
	UpdateTrip(ctx context.Context, userID, id string, in services.TripInput) (*models.Trip, error)
	DeleteTrip(ctx context.Context, userID, id string) error
	GetItinerary(ctx context.Context, userID, tripID string) (*models.Itinerary, error)
	PublicItinerary(ctx context.Context, tripID string) (*models.Itinerary, error)
	Budget(ctx context.Context, userID, tripID string) (*models.Budget, error)
	Calendar(ctx context.Context, userID, tripID string) ([]models.CalendarDay, error)

	ListStops(ctx context.Context, userID, tripID string) ([]models.TripStop, error)
	AddStop(ctx context.Context, userID, tripID string, in services.StopInput) (*models.TripStop, error)
	UpdateStop(ctx context.Context, userID, stopID string, in services.StopInput) (*models.TripStop, error)
	DeleteStop(ctx context.Context, userID, stopID string) error
	ReorderStops(ctx context.Context, userID, tripID string, ids []string) ([]models.TripStop, error)

	ListTripActivities(ctx context.Context, userID, stopID string) ([]models.TripActivity, error)
	AddTripActivity(ctx context.Context, userID, stopID string, in services.TripActivityInput) (*models.TripActivity, error)
	UpdateTripActivity(ctx context.Context, userID, id string, in services.TripActivityInput) (*models.TripActivity, error)
	DeleteTripActivity(ctx context.Context, userID, id string) error

	ListAccommodations(ctx context.Context, userID, tripID string) ([]models.Accommodation, error)
	AddAccommodation(ctx context.Context, userID, stopID string, in services.AccommodationInput) (*models.Accommodation, error)
	UpdateAccommodation(ctx context.Context, userID, id string, in services.AccommodationInput) (*models.Accommodation, error)
	DeleteAccommodation(ctx context.Context, userID, id string) error

	ListTransports(ctx context.Context, userID, tripID string) ([]models.TransportCost, error)
	AddTransport(ctx context.Context, userID, tripID string, in services.TransportInput) (*models.TransportCost, error)
	UpdateTransport(ctx context.Context, userID, id string, in services.TransportInput) (*models.TransportCost, error)
	DeleteTransport(ctx context.Context, userID, id string) error
}

type ExportAPI interface {
	Export(ctx context.Context, userID, tripID, format string) (*services.ExportFile, error)
}

type ImageAPI interface {
	RequestCoverUpload(ctx context.Context, userID, tripID string) (*models.UploadTask, error)
	CompleteCoverUpload(ctx context.Context, userID, tripID, storageKey string) error
	CoverURL(ctx context.Context, trip *models.Trip) (string, error)
}

type AdminAPI interface {
	RequireAdmin(ctx context.Context, userID string) error
	Stats(ctx context.Context) (*models.Stats, error)
	ListUsers(ctx context.Context, query string, limit, offset int) ([]models.UserSummary, error)
}

// Services groups everything the handlers call into.
type Services struct {
	Users   UserAPI
	Catalog CatalogAPI
	Trips   TripAPI
	Exports ExportAPI
	Images  ImageAPI
	Admin   AdminAPI
}

type Server struct {
	address        string
	logger         logging.Logger
	jwtSecret      []byte
	allowedOrigins []string
	svc            Services
}

func NewServer(address string, l logging.Logger, secretKey string, allowedOrigins []string, svc Services) *Server {
	return &Server{
		address:        address,
		logger:         l.With("module", "http_server"),
		jwtSecret:      []byte(secretKey),
		allowedOrigins: allowedOrigins,
		svc:            svc,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type envelope map[string]any

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	js, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
}

func (s *Server) errorJSON(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, envelope{"error": message})
}

// readJSON decodes a single JSON object from the body into dst. Unknown
// fields are rejected.
func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", common.ErrorValidation, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: body must contain a single JSON object", common.ErrorValidation)
	}
	return nil
}

// writeError maps service errors onto HTTP statuses. Unclassified errors
// are logged and reported as a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fields validate.Errors
	switch {
	case errors.As(err, &fields):
		s.writeJSON(w, http.StatusBadRequest, envelope{"error": common.ErrorValidation.Error(), "fields": fields})
	case errors.Is(err, common.ErrorValidation):
		s.errorJSON(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrTokenExpired):
		s.errorJSON(w, http.StatusUnauthorized, common.ErrTokenExpired.Error())
	case errors.Is(err, common.ErrRefreshTokenExpired):
		s.errorJSON(w, http.StatusUnauthorized, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		s.errorJSON(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
	case errors.Is(err, common.ErrorForbidden):
		s.errorJSON(w, http.StatusForbidden, common.ErrorForbidden.Error())
	case errors.Is(err, common.ErrorNotFound):
		s.errorJSON(w, http.StatusNotFound, common.ErrorNotFound.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		s.errorJSON(w, http.StatusConflict, common.ErrorAlreadyExists.Error())
	case errors.Is(err, common.ErrorInUse):
		s.errorJSON(w, http.StatusConflict, common.ErrorInUse.Error())
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.errorJSON(w, http.StatusInternalServerError, common.ErrorInternal.Error())
	}
}
