package models

import "time"

// TransportModes are the accepted values of TransportCost.Mode.
var TransportModes = []string{"flight", "train", "bus", "car", "ferry", "other"}

// TransportCost is a leg between two stops of the same trip.
type TransportCost struct {
	ID            string    `json:"id"`
	TripID        string    `json:"trip_id"`
	FromStopID    string    `json:"from_stop_id"`
	ToStopID      string    `json:"to_stop_id"`
	Mode          string    `json:"mode"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Cost          float64   `json:"cost"`
	Notes         string    `json:"notes,omitempty"`
}
