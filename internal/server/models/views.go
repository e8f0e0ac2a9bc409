package models

import (
	"time"

	"github.com/dmitrijs2005/globetrotter/internal/timex"
)

// StopDetails is a stop with everything scheduled on it.
type StopDetails struct {
	TripStop
	Activities     []TripActivity  `json:"activities"`
	Accommodations []Accommodation `json:"accommodations"`
}

// Itinerary is the full read model of a trip.
type Itinerary struct {
	Trip       Trip            `json:"trip"`
	Stops      []StopDetails   `json:"stops"`
	Transports []TransportCost `json:"transports"`
}

type StopBudget struct {
	StopID        string  `json:"stop_id"`
	CityName      string  `json:"city_name"`
	Nights        int     `json:"nights"`
	Accommodation float64 `json:"accommodation"`
	Activities    float64 `json:"activities"`
}

type Budget struct {
	TripID        string       `json:"trip_id"`
	Budget        float64      `json:"budget"`
	Accommodation float64      `json:"accommodation"`
	Transport     float64      `json:"transport"`
	Activities    float64      `json:"activities"`
	Total         float64      `json:"total"`
	Remaining     float64      `json:"remaining"`
	OverBudget    bool         `json:"over_budget"`
	Days          int          `json:"days"`
	PerDay        float64      `json:"per_day"`
	Stops         []StopBudget `json:"stops"`
}

// CalendarDay is what happens on one date of a trip. Stop is nil on days
// no stop covers.
type CalendarDay struct {
	Date       timex.Date      `json:"date"`
	Stop       *TripStop       `json:"stop,omitempty"`
	Activities []TripActivity  `json:"activities"`
	CheckIns   []Accommodation `json:"check_ins"`
	CheckOuts  []Accommodation `json:"check_outs"`
	Departures []TransportCost `json:"departures"`
}

type CityCount struct {
	CityID   string `json:"city_id"`
	CityName string `json:"city_name"`
	Country  string `json:"country"`
	Stops    int    `json:"stops"`
}

type MonthCount struct {
	Month time.Time `json:"month"`
	Trips int       `json:"trips"`
}

type Stats struct {
	Users         int          `json:"users"`
	Trips         int          `json:"trips"`
	Stops         int          `json:"stops"`
	Activities    int          `json:"activities"`
	TopCities     []CityCount  `json:"top_cities"`
	TripsPerMonth []MonthCount `json:"trips_per_month"`
}
