// Package models defines server-side data models persisted in the database
// and the read models assembled from them.
package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserSummary is a row of the admin users table.
type UserSummary struct {
	User
	TripCount int `json:"trip_count"`
}
