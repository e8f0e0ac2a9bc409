package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/globetrotter/internal/common"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/dmitrijs2005/globetrotter/internal/server/validate"
)

type TransportInput struct {
	FromStopID    string    `json:"from_stop_id"`
	ToStopID      string    `json:"to_stop_id"`
	Mode          string    `json:"mode"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Cost          float64   `json:"cost"`
	Notes         string    `json:"notes"`
}

func (in *TransportInput) validate() error {
	in.Mode = strings.ToLower(strings.TrimSpace(in.Mode))
	v := validate.New().
		Required("from_stop_id", in.FromStopID).
		Required("to_stop_id", in.ToStopID).
		OneOf("mode", in.Mode, models.TransportModes...).
		TimeOrder("departure_time", in.DepartureTime, "arrival_time", in.ArrivalTime).
		NonNegative("cost", in.Cost).
		MaxLen("notes", in.Notes, 2000)
	if in.FromStopID != "" && in.FromStopID == in.ToStopID {
		v.Fail("to_stop_id", "must differ from from_stop_id")
	}
	return v.Err()
}

// checkStops verifies both ends of the leg belong to tripID.
func (s *TripService) checkStops(ctx context.Context, tripID string, in *TransportInput) error {
	repo := s.repomanager.Stops(s.db)
	v := validate.New()
	ends := []struct{ field, id string }{
		{"from_stop_id", in.FromStopID},
		{"to_stop_id", in.ToStopID},
	}
	for _, end := range ends {
		st, err := repo.Get(ctx, end.id)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		if err != nil || st.TripID != tripID {
			v.Fail(end.field, "must be a stop of this trip")
		}
	}
	return v.Err()
}

func (s *TripService) ListTransports(ctx context.Context, userID, tripID string) ([]models.TransportCost, error) {
	if _, err := s.repomanager.Trips(s.db).GetForUser(ctx, userID, tripID); err != nil {
		return nil, err
	}
	return s.repomanager.Transports(s.db).ListByTrip(ctx, tripID)
}

func (s *TripService) AddTransport(ctx context.Context, userID, tripID string, in TransportInput) (*models.TransportCost, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.repomanager.Trips(s.db).GetForUser(ctx, userID, tripID); err != nil {
		return nil, err
	}
	if err := s.checkStops(ctx, tripID, &in); err != nil {
		return nil, err
	}
	return s.repomanager.Transports(s.db).Create(ctx, &models.TransportCost{
		TripID:        tripID,
		FromStopID:    in.FromStopID,
		ToStopID:      in.ToStopID,
		Mode:          in.Mode,
		DepartureTime: in.DepartureTime,
		ArrivalTime:   in.ArrivalTime,
		Cost:          in.Cost,
		Notes:         in.Notes,
	})
}

func (s *TripService) UpdateTransport(ctx context.Context, userID, id string, in TransportInput) (*models.TransportCost, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	repo := s.repomanager.Transports(s.db)
	tc, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.repomanager.Trips(s.db).GetForUser(ctx, userID, tc.TripID); err != nil {
		return nil, err
	}
	if err := s.checkStops(ctx, tc.TripID, &in); err != nil {
		return nil, err
	}

	tc.FromStopID = in.FromStopID
	tc.ToStopID = in.ToStopID
	tc.Mode = in.Mode
	tc.DepartureTime = in.DepartureTime
	tc.ArrivalTime = in.ArrivalTime
	tc.Cost = in.Cost
	tc.Notes = in.Notes
	if err := repo.Update(ctx, tc); err != nil {
		return nil, err
	}
	return tc, nil
}

func (s *TripService) DeleteTransport(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Transports(s.db)
	tc, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.repomanager.Trips(s.db).GetForUser(ctx, userID, tc.TripID); err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}
