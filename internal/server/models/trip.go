package models

import (
	"time"

	"github.com/dmitrijs2005/globetrotter/internal/timex"
)

type Trip struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	StartDate     timex.Date `json:"start_date"`
	EndDate       timex.Date `json:"end_date"`
	Budget        float64    `json:"budget"`
	IsPublic      bool       `json:"is_public"`
	CoverImageKey string     `json:"-"`
	CoverURL      string     `json:"cover_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Days is the inclusive length of the trip in calendar days.
func (t *Trip) Days() int {
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return 0
	}
	return t.StartDate.DaysUntil(t.EndDate) + 1
}

// Status places the trip relative to today.
func (t *Trip) Status(today timex.Date) TripStatus {
	switch {
	case today.Before(t.StartDate):
		return TripUpcoming
	case today.After(t.EndDate):
		return TripPast
	default:
		return TripOngoing
	}
}

type TripStatus string

const (
	TripUpcoming TripStatus = "upcoming"
	TripOngoing  TripStatus = "ongoing"
	TripPast     TripStatus = "past"
)

// TripFilter narrows ListTrips.
type TripFilter struct {
	UserID string
	Query  string
	Status TripStatus
	Today  timex.Date
	SortBy string
	Limit  int
	Offset int
}

// TripSortColumns maps accepted sort keys to ORDER BY clauses.
var TripSortColumns = map[string]string{
	"":           "start_date ASC, name ASC",
	"start_date": "start_date ASC, name ASC",
	"name":       "name ASC, start_date ASC",
	"created_at": "created_at DESC",
}
