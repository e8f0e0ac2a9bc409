package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/globetrotter/internal/common"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/dmitrijs2005/globetrotter/internal/server/validate"
	"github.com/dmitrijs2005/globetrotter/internal/timex"
)

// TripActivityInput schedules a catalog activity. A nil Cost takes the
// catalog price.
type TripActivityInput struct {
	ActivityID    string     `json:"activity_id"`
	ScheduledDate timex.Date `json:"scheduled_date"`
	StartTime     string     `json:"start_time"`
	Cost          *float64   `json:"cost"`
	Notes         string     `json:"notes"`
}

func (in *TripActivityInput) validate(requireActivity bool) error {
	v := validate.New()
	if requireActivity {
		v.Required("activity_id", in.ActivityID)
	}
	v.RequiredDate("scheduled_date", in.ScheduledDate).
		ClockTime("start_time", in.StartTime).
		MaxLen("notes", in.Notes, 2000)
	if in.Cost != nil {
		v.NonNegative("cost", *in.Cost)
	}
	return v.Err()
}

func (s *TripService) ListTripActivities(ctx context.Context, userID, stopID string) ([]models.TripActivity, error) {
	if _, _, err := s.ownedStop(ctx, userID, stopID); err != nil {
		return nil, err
	}
	return s.repomanager.TripActivities(s.db).ListByStop(ctx, stopID)
}

func (s *TripService) AddTripActivity(ctx context.Context, userID, stopID string, in TripActivityInput) (*models.TripActivity, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	stop, _, err := s.ownedStop(ctx, userID, stopID)
	if err != nil {
		return nil, err
	}
	if err := validate.New().Within("scheduled_date", in.ScheduledDate, stop.StartDate, stop.EndDate).Err(); err != nil {
		return nil, err
	}

	activity, err := s.repomanager.Activities(s.db).Get(ctx, in.ActivityID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, validate.New().Fail("activity_id", "does not exist").Err()
		}
		return nil, err
	}

	cost := activity.Cost
	if in.Cost != nil {
		cost = *in.Cost
	}
	return s.repomanager.TripActivities(s.db).Create(ctx, &models.TripActivity{
		TripStopID:    stopID,
		ActivityID:    activity.ID,
		ActivityName:  activity.Name,
		Category:      activity.Category,
		ScheduledDate: in.ScheduledDate,
		StartTime:     in.StartTime,
		Cost:          cost,
		Notes:         in.Notes,
	})
}

// UpdateTripActivity reschedules an entry. The catalog activity itself
// cannot be swapped; delete and add instead.
func (s *TripService) UpdateTripActivity(ctx context.Context, userID, id string, in TripActivityInput) (*models.TripActivity, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	repo := s.repomanager.TripActivities(s.db)
	ta, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	stop, _, err := s.ownedStop(ctx, userID, ta.TripStopID)
	if err != nil {
		return nil, err
	}
	if err := validate.New().Within("scheduled_date", in.ScheduledDate, stop.StartDate, stop.EndDate).Err(); err != nil {
		return nil, err
	}

	ta.ScheduledDate = in.ScheduledDate
	ta.StartTime = in.StartTime
	ta.Notes = in.Notes
	if in.Cost != nil {
		ta.Cost = *in.Cost
	}
	if err := repo.Update(ctx, ta); err != nil {
		return nil, err
	}
	return ta, nil
}

func (s *TripService) DeleteTripActivity(ctx context.Context, userID, id string) error {
	repo := s.repomanager.TripActivities(s.db)
	ta, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, _, err := s.ownedStop(ctx, userID, ta.TripStopID); err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}
