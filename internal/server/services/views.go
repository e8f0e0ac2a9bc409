package services

import (
	"context"
	"math"
	"sort"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/dmitrijs2005/globetrotter/internal/timex"
)

// GetItinerary assembles the trip with its stops, their activities and
// accommodations, and the transport legs.
func (s *TripService) GetItinerary(ctx context.Context, userID, tripID string) (*models.Itinerary, error) {
	trip, err := s.repomanager.Trips(s.db).GetForUser(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	return s.loadItinerary(ctx, trip)
}

func (s *TripService) loadItinerary(ctx context.Context, trip *models.Trip) (*models.Itinerary, error) {
	stops, err := s.repomanager.Stops(s.db).List(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	activities, err := s.repomanager.TripActivities(s.db).ListByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	stays, err := s.repomanager.Accommodations(s.db).ListByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	legs, err := s.repomanager.Transports(s.db).ListByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	return buildItinerary(trip, stops, activities, stays, legs), nil
}

func buildItinerary(trip *models.Trip, stops []models.TripStop, activities []models.TripActivity,
	stays []models.Accommodation, legs []models.TransportCost) *models.Itinerary {

	it := &models.Itinerary{
		Trip:       *trip,
		Stops:      make([]models.StopDetails, len(stops)),
		Transports: legs,
	}
	if it.Transports == nil {
		it.Transports = []models.TransportCost{}
	}

	index := make(map[string]int, len(stops))
	for i, st := range stops {
		index[st.ID] = i
		it.Stops[i] = models.StopDetails{
			TripStop:       st,
			Activities:     []models.TripActivity{},
			Accommodations: []models.Accommodation{},
		}
	}
	for _, a := range activities {
		if i, ok := index[a.TripStopID]; ok {
			it.Stops[i].Activities = append(it.Stops[i].Activities, a)
		}
	}
	for _, a := range stays {
		if i, ok := index[a.TripStopID]; ok {
			it.Stops[i].Accommodations = append(it.Stops[i].Accommodations, a)
		}
	}
	return it
}

func (s *TripService) Budget(ctx context.Context, userID, tripID string) (*models.Budget, error) {
	it, err := s.GetItinerary(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	return buildBudget(it), nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func buildBudget(it *models.Itinerary) *models.Budget {
	b := &models.Budget{
		TripID: it.Trip.ID,
		Budget: it.Trip.Budget,
		Days:   it.Trip.Days(),
		Stops:  make([]models.StopBudget, 0, len(it.Stops)),
	}

	for _, st := range it.Stops {
		sb := models.StopBudget{StopID: st.ID, CityName: st.CityName, Nights: st.Nights()}
		for _, a := range st.Accommodations {
			sb.Accommodation += a.Total()
		}
		for _, a := range st.Activities {
			sb.Activities += a.Cost
		}
		b.Accommodation += sb.Accommodation
		b.Activities += sb.Activities
		sb.Accommodation = roundCents(sb.Accommodation)
		sb.Activities = roundCents(sb.Activities)
		b.Stops = append(b.Stops, sb)
	}
	for _, leg := range it.Transports {
		b.Transport += leg.Cost
	}

	b.Total = roundCents(b.Accommodation + b.Transport + b.Activities)
	b.Accommodation = roundCents(b.Accommodation)
	b.Transport = roundCents(b.Transport)
	b.Activities = roundCents(b.Activities)
	b.Remaining = roundCents(b.Budget - b.Total)
	b.OverBudget = b.Total > b.Budget
	if b.Days > 0 {
		b.PerDay = roundCents(b.Total / float64(b.Days))
	}
	return b
}

func (s *TripService) Calendar(ctx context.Context, userID, tripID string) ([]models.CalendarDay, error) {
	it, err := s.GetItinerary(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	return buildCalendar(it), nil
}

// buildCalendar lays the itinerary out day by day. On a travel day covered
// by two stops the later one wins.
func buildCalendar(it *models.Itinerary) []models.CalendarDay {
	days := it.Trip.Days()
	out := make([]models.CalendarDay, 0, days)
	byDate := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := it.Trip.StartDate.AddDays(i)
		byDate[d.String()] = i
		out = append(out, models.CalendarDay{
			Date:       d,
			Activities: []models.TripActivity{},
			CheckIns:   []models.Accommodation{},
			CheckOuts:  []models.Accommodation{},
			Departures: []models.TransportCost{},
		})
	}

	for _, st := range it.Stops {
		for i := range out {
			if out[i].Date.Between(st.StartDate, st.EndDate) {
				stop := st.TripStop
				out[i].Stop = &stop
			}
		}
		for _, a := range st.Activities {
			if i, ok := byDate[a.ScheduledDate.String()]; ok {
				out[i].Activities = append(out[i].Activities, a)
			}
		}
		for _, a := range st.Accommodations {
			if i, ok := byDate[a.CheckIn.String()]; ok {
				out[i].CheckIns = append(out[i].CheckIns, a)
			}
			if i, ok := byDate[a.CheckOut.String()]; ok {
				out[i].CheckOuts = append(out[i].CheckOuts, a)
			}
		}
	}
	for _, leg := range it.Transports {
		if i, ok := byDate[timex.DateOf(leg.DepartureTime.UTC()).String()]; ok {
			out[i].Departures = append(out[i].Departures, leg)
		}
	}

	for i := range out {
		acts := out[i].Activities
		sort.SliceStable(acts, func(a, b int) bool { return acts[a].StartTime < acts[b].StartTime })
	}
	return out
}
