package models

import "time"

// RefreshToken is an opaque, single-use token that is exchanged for a new
// access/refresh pair. It is deleted on use, on logout and once expired.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

// ExpiredAt reports whether the token is no longer valid at t.
func (r *RefreshToken) ExpiredAt(t time.Time) bool {
	return !t.Before(r.Expires)
}
