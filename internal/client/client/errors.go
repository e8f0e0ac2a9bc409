package client

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/globetrotter/internal/common"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotLoggedIn = errors.New("not logged in")
)

// FieldError is one rejected form field reported by the server.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx answer of the API. It unwraps to the matching
// sentinel of package common.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
	kind    error
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

func (e *APIError) Unwrap() error { return e.kind }

func kindOf(status int, message string) error {
	switch status {
	case 400:
		return common.ErrorValidation
	case 401:
		switch message {
		case common.ErrTokenExpired.Error():
			return common.ErrTokenExpired
		case common.ErrRefreshTokenExpired.Error():
			return common.ErrRefreshTokenExpired
		}
		return common.ErrorUnauthorized
	case 403:
		return common.ErrorForbidden
	case 404:
		return common.ErrorNotFound
	case 409:
		if message == common.ErrorInUse.Error() {
			return common.ErrorInUse
		}
		return common.ErrorAlreadyExists
	}
	return common.ErrorInternal
}
