package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/globetrotter/internal/common"
	"github.com/dmitrijs2005/globetrotter/internal/dbx"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/dmitrijs2005/globetrotter/internal/server/validate"
	"github.com/dmitrijs2005/globetrotter/internal/timex"
)

type StopInput struct {
	CityID    string     `json:"city_id"`
	StartDate timex.Date `json:"start_date"`
	EndDate   timex.Date `json:"end_date"`
	Notes     string     `json:"notes"`
}

func (in *StopInput) validate() error {
	in.CityID = strings.TrimSpace(in.CityID)
	return validate.New().
		Required("city_id", in.CityID).
		DateOrder("start_date", in.StartDate, "end_date", in.EndDate).
		MaxLen("notes", in.Notes, 2000).
		Err()
}

func (in *StopInput) validateRange(trip *models.Trip) error {
	return validate.New().
		Within("start_date", in.StartDate, trip.StartDate, trip.EndDate).
		Within("end_date", in.EndDate, trip.StartDate, trip.EndDate).
		Err()
}

func (s *TripService) ListStops(ctx context.Context, userID, tripID string) ([]models.TripStop, error) {
	if _, err := s.repomanager.Trips(s.db).GetForUser(ctx, userID, tripID); err != nil {
		return nil, err
	}
	return s.repomanager.Stops(s.db).List(ctx, tripID)
}

// AddStop appends a stop to the end of the trip.
func (s *TripService) AddStop(ctx context.Context, userID, tripID string, in StopInput) (*models.TripStop, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	trip, err := s.repomanager.Trips(s.db).GetForUser(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if err := in.validateRange(trip); err != nil {
		return nil, err
	}

	var stop *models.TripStop
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Trips(tx).LockForUpdate(ctx, tripID); err != nil {
			return err
		}
		city, err := s.repomanager.Cities(tx).Get(ctx, in.CityID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return validate.New().Fail("city_id", "does not exist").Err()
			}
			return err
		}
		seq, err := s.repomanager.Stops(tx).NextSequence(ctx, tripID)
		if err != nil {
			return err
		}
		stop, err = s.repomanager.Stops(tx).Create(ctx, &models.TripStop{
			TripID:    tripID,
			CityID:    city.ID,
			CityName:  city.Name,
			Country:   city.Country,
			Latitude:  city.Latitude,
			Longitude: city.Longitude,
			Sequence:  seq,
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			Notes:     in.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return stop, nil
}

// UpdateStop replaces the stop's city, dates and notes. The new dates must
// still cover every activity scheduled at the stop.
func (s *TripService) UpdateStop(ctx context.Context, userID, stopID string, in StopInput) (*models.TripStop, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	stop, trip, err := s.ownedStop(ctx, userID, stopID)
	if err != nil {
		return nil, err
	}
	if err := in.validateRange(trip); err != nil {
		return nil, err
	}

	scheduled, err := s.repomanager.TripActivities(s.db).ListByStop(ctx, stopID)
	if err != nil {
		return nil, err
	}
	v := validate.New()
	for _, ta := range scheduled {
		if !ta.ScheduledDate.Between(in.StartDate, in.EndDate) {
			v.Fail("start_date", ta.ActivityName+" on "+ta.ScheduledDate.String()+" falls outside the new stop dates")
			break
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if in.CityID != stop.CityID {
		city, err := s.repomanager.Cities(s.db).Get(ctx, in.CityID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, validate.New().Fail("city_id", "does not exist").Err()
			}
			return nil, err
		}
		stop.CityID = city.ID
		stop.CityName = city.Name
		stop.Country = city.Country
		stop.Latitude = city.Latitude
		stop.Longitude = city.Longitude
	}
	stop.StartDate = in.StartDate
	stop.EndDate = in.EndDate
	stop.Notes = in.Notes

	if err := s.repomanager.Stops(s.db).Update(ctx, stop); err != nil {
		return nil, err
	}
	return stop, nil
}

// DeleteStop removes the stop and closes the gap in the sequence.
func (s *TripService) DeleteStop(ctx context.Context, userID, stopID string) error {
	stop, _, err := s.ownedStop(ctx, userID, stopID)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Trips(tx).LockForUpdate(ctx, stop.TripID); err != nil {
			return err
		}
		if err := s.repomanager.Stops(tx).Delete(ctx, stopID); err != nil {
			return err
		}
		return s.repomanager.Stops(tx).Resequence(ctx, stop.TripID)
	})
}

// ReorderStops assigns sequence 1..n following ids, which must name every
// stop of the trip exactly once.
func (s *TripService) ReorderStops(ctx context.Context, userID, tripID string, ids []string) ([]models.TripStop, error) {
	if len(ids) == 0 {
		return nil, validate.New().Fail("stop_ids", "is required").Err()
	}
	if _, err := s.repomanager.Trips(s.db).GetForUser(ctx, userID, tripID); err != nil {
		return nil, err
	}

	var result []models.TripStop
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Trips(tx).LockForUpdate(ctx, tripID); err != nil {
			return err
		}
		repo := s.repomanager.Stops(tx)
		current, err := repo.List(ctx, tripID)
		if err != nil {
			return err
		}
		if !sameStopSet(current, ids) {
			return validate.New().Fail("stop_ids", "must list every stop of the trip exactly once").Err()
		}
		for i, id := range ids {
			if err := repo.SetSequence(ctx, id, i+1); err != nil {
				return err
			}
		}
		result, err = repo.List(ctx, tripID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func sameStopSet(stops []models.TripStop, ids []string) bool {
	if len(stops) != len(ids) {
		return false
	}
	want := make(map[string]bool, len(stops))
	for _, st := range stops {
		want[st.ID] = true
	}
	for _, id := range ids {
		if !want[id] {
			return false
		}
		delete(want, id)
	}
	return len(want) == 0
}
