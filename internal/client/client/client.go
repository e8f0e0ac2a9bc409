package client

import (
	"context"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/dmitrijs2005/globetrotter/internal/timex"
)

// TokenPair is what login and refresh hand out.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (p TokenPair) Empty() bool { return p.AccessToken == "" && p.RefreshToken == "" }

type TripInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   timex.Date `json:"start_date"`
	EndDate     timex.Date `json:"end_date"`
	Budget      float64    `json:"budget"`
	IsPublic    bool       `json:"is_public"`
}

// ExportFile is a downloaded itinerary export.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Client is the API surface the CLI uses.
type Client interface {
	SetTokens(p TokenPair)
	Tokens() TokenPair
	OnRefresh(fn func(ctx context.Context, p TokenPair) error)

	Register(ctx context.Context, email, name, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (TokenPair, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)

	ListTrips(ctx context.Context, status string) ([]models.Trip, error)
	CreateTrip(ctx context.Context, in TripInput) (*models.Trip, error)
	Itinerary(ctx context.Context, tripID string) (*models.Itinerary, error)
	Budget(ctx context.Context, tripID string) (*models.Budget, error)
	Calendar(ctx context.Context, tripID string) ([]models.CalendarDay, error)
	Export(ctx context.Context, tripID, format string) (*ExportFile, error)
	RequestCoverUpload(ctx context.Context, tripID string) (*models.UploadTask, error)
	CompleteCoverUpload(ctx context.Context, tripID, storageKey string) error
}
