// Package services contains server-side business logic. Every service runs
// its validation rules before the first repository call and binds
// repositories to a transaction through dbx.WithTx when a change spans more
// than one statement.
package services

import (
	"time"

	"github.com/dmitrijs2005/globetrotter/internal/timex"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// now is a seam for tests that depend on the current date.
var now = time.Now

func today() timex.Date {
	return timex.DateOf(now().UTC())
}

// page clamps a client supplied limit/offset pair.
func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
