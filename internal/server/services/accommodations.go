package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/dmitrijs2005/globetrotter/internal/server/validate"
	"github.com/dmitrijs2005/globetrotter/internal/timex"
)

type AccommodationInput struct {
	Name         string     `json:"name"`
	Address      string     `json:"address"`
	CheckIn      timex.Date `json:"check_in"`
	CheckOut     timex.Date `json:"check_out"`
	CostPerNight float64    `json:"cost_per_night"`
}

func (in *AccommodationInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	return validate.New().
		Required("name", in.Name).
		MaxLen("name", in.Name, 200).
		MaxLen("address", in.Address, 500).
		StrictDateOrder("check_in", in.CheckIn, "check_out", in.CheckOut).
		NonNegative("cost_per_night", in.CostPerNight).
		Err()
}

func (s *TripService) ListAccommodations(ctx context.Context, userID, tripID string) ([]models.Accommodation, error) {
	if _, err := s.repomanager.Trips(s.db).GetForUser(ctx, userID, tripID); err != nil {
		return nil, err
	}
	return s.repomanager.Accommodations(s.db).ListByTrip(ctx, tripID)
}

func (s *TripService) AddAccommodation(ctx context.Context, userID, stopID string, in AccommodationInput) (*models.Accommodation, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, _, err := s.ownedStop(ctx, userID, stopID); err != nil {
		return nil, err
	}
	return s.repomanager.Accommodations(s.db).Create(ctx, &models.Accommodation{
		TripStopID:   stopID,
		Name:         in.Name,
		Address:      in.Address,
		CheckIn:      in.CheckIn,
		CheckOut:     in.CheckOut,
		CostPerNight: in.CostPerNight,
	})
}

func (s *TripService) UpdateAccommodation(ctx context.Context, userID, id string, in AccommodationInput) (*models.Accommodation, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	repo := s.repomanager.Accommodations(s.db)
	a, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.ownedStop(ctx, userID, a.TripStopID); err != nil {
		return nil, err
	}

	a.Name = in.Name
	a.Address = in.Address
	a.CheckIn = in.CheckIn
	a.CheckOut = in.CheckOut
	a.CostPerNight = in.CostPerNight
	if err := repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *TripService) DeleteAccommodation(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Accommodations(s.db)
	a, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, _, err := s.ownedStop(ctx, userID, a.TripStopID); err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}
