package models

import "github.com/dmitrijs2005/globetrotter/internal/timex"

// TripStop is a city visit within a trip. Sequence is 1-based and dense.
type TripStop struct {
	ID        string     `json:"id"`
	TripID    string     `json:"trip_id"`
	CityID    string     `json:"city_id"`
	CityName  string     `json:"city_name"`
	Country   string     `json:"country"`
	Latitude  float64    `json:"-"`
	Longitude float64    `json:"-"`
	Sequence  int        `json:"sequence"`
	StartDate timex.Date `json:"start_date"`
	EndDate   timex.Date `json:"end_date"`
	Notes     string     `json:"notes,omitempty"`
}

// Nights stayed at the stop.
func (s *TripStop) Nights() int {
	return s.StartDate.DaysUntil(s.EndDate)
}

// TripActivity is a catalog activity scheduled on a stop. StartTime is an
// optional "HH:MM" wall-clock time.
type TripActivity struct {
	ID            string     `json:"id"`
	TripStopID    string     `json:"trip_stop_id"`
	ActivityID    string     `json:"activity_id"`
	ActivityName  string     `json:"activity_name"`
	Category      string     `json:"category"`
	ScheduledDate timex.Date `json:"scheduled_date"`
	StartTime     string     `json:"start_time,omitempty"`
	Cost          float64    `json:"cost"`
	Notes         string     `json:"notes,omitempty"`
}

type Accommodation struct {
	ID           string     `json:"id"`
	TripStopID   string     `json:"trip_stop_id"`
	Name         string     `json:"name"`
	Address      string     `json:"address,omitempty"`
	CheckIn      timex.Date `json:"check_in"`
	CheckOut     timex.Date `json:"check_out"`
	CostPerNight float64    `json:"cost_per_night"`
}

func (a *Accommodation) Nights() int {
	return a.CheckIn.DaysUntil(a.CheckOut)
}

func (a *Accommodation) Total() float64 {
	return float64(a.Nights()) * a.CostPerNight
}
