package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/globetrotter/internal/common"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/globetrotter/internal/server/validate"
	"github.com/dmitrijs2005/globetrotter/internal/timex"
)

// TripService owns trips and everything hanging off them: stops, scheduled
// activities, accommodations and transport legs. Every call is scoped to
// the calling user; rows of other users behave as missing.
type TripService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTripService(db *sql.DB, m repomanager.RepositoryManager) *TripService {
	return &TripService{db: db, repomanager: m}
}

type TripInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   timex.Date `json:"start_date"`
	EndDate     timex.Date `json:"end_date"`
	Budget      float64    `json:"budget"`
	IsPublic    bool       `json:"is_public"`
}

func (in *TripInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	return validate.New().
		Required("name", in.Name).
		MaxLen("name", in.Name, 200).
		MaxLen("description", in.Description, 2000).
		DateOrder("start_date", in.StartDate, "end_date", in.EndDate).
		NonNegative("budget", in.Budget).
		Err()
}

func (s *TripService) CreateTrip(ctx context.Context, userID string, in TripInput) (*models.Trip, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return s.repomanager.Trips(s.db).Create(ctx, &models.Trip{
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Budget:      in.Budget,
		IsPublic:    in.IsPublic,
	})
}

func (s *TripService) GetTrip(ctx context.Context, userID, id string) (*models.Trip, error) {
	return s.repomanager.Trips(s.db).GetForUser(ctx, userID, id)
}

var tripSortKeys = []string{"start_date", "name", "created_at"}

func (s *TripService) ListTrips(ctx context.Context, f models.TripFilter) ([]models.Trip, error) {
	v := validate.New()
	if f.Status != "" {
		v.OneOf("status", string(f.Status), string(models.TripUpcoming), string(models.TripOngoing), string(models.TripPast))
	}
	if f.SortBy != "" {
		v.OneOf("sort", f.SortBy, tripSortKeys...)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	f.Query = strings.TrimSpace(f.Query)
	f.Today = today()
	f.Limit, f.Offset = page(f.Limit, f.Offset)
	return s.repomanager.Trips(s.db).List(ctx, f)
}

// UpdateTrip replaces the editable fields. Shrinking the date range is
// rejected while stops would fall outside it.
func (s *TripService) UpdateTrip(ctx context.Context, userID, id string, in TripInput) (*models.Trip, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	repo := s.repomanager.Trips(s.db)
	trip, err := repo.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	stops, err := s.repomanager.Stops(s.db).List(ctx, id)
	if err != nil {
		return nil, err
	}
	v := validate.New()
	for _, st := range stops {
		if !st.StartDate.Between(in.StartDate, in.EndDate) || !st.EndDate.Between(in.StartDate, in.EndDate) {
			v.Fail("start_date", "stop in "+st.CityName+" falls outside the new trip dates")
			break
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	trip.Name = in.Name
	trip.Description = in.Description
	trip.StartDate = in.StartDate
	trip.EndDate = in.EndDate
	trip.Budget = in.Budget
	trip.IsPublic = in.IsPublic
	if err := repo.Update(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *TripService) DeleteTrip(ctx context.Context, userID, id string) error {
	return s.repomanager.Trips(s.db).Delete(ctx, userID, id)
}

// PublicItinerary returns the itinerary of a trip marked public. Private
// and missing trips both yield common.ErrorNotFound.
func (s *TripService) PublicItinerary(ctx context.Context, tripID string) (*models.Itinerary, error) {
	trip, err := s.repomanager.Trips(s.db).GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !trip.IsPublic {
		return nil, common.ErrorNotFound
	}
	return s.loadItinerary(ctx, trip)
}

// ownedStop loads a stop and its trip, checking that the trip belongs to
// userID.
func (s *TripService) ownedStop(ctx context.Context, userID, stopID string) (*models.TripStop, *models.Trip, error) {
	stop, err := s.repomanager.Stops(s.db).Get(ctx, stopID)
	if err != nil {
		return nil, nil, err
	}
	trip, err := s.repomanager.Trips(s.db).GetForUser(ctx, userID, stop.TripID)
	if err != nil {
		return nil, nil, err
	}
	return stop, trip, nil
}
