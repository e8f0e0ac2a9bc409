package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/globetrotter/internal/server/validate"
)

// CatalogService serves the city and activity catalog. Mutations are
// admin-only; the HTTP layer enforces that with AdminService.RequireAdmin.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

func (s *CatalogService) ListCities(ctx context.Context, f models.CityFilter) ([]models.City, error) {
	f.Query = strings.TrimSpace(f.Query)
	f.Country = strings.TrimSpace(f.Country)
	f.Limit, f.Offset = page(f.Limit, f.Offset)
	return s.repomanager.Cities(s.db).List(ctx, f)
}

// SearchCities is ListCities narrowed by a name fragment.
func (s *CatalogService) SearchCities(ctx context.Context, query string, limit int) ([]models.City, error) {
	return s.ListCities(ctx, models.CityFilter{Query: query, Limit: limit})
}

func (s *CatalogService) GetCity(ctx context.Context, id string) (*models.City, error) {
	return s.repomanager.Cities(s.db).Get(ctx, id)
}

func validateCity(c *models.City) error {
	v := validate.New().
		Required("name", c.Name).
		MaxLen("name", c.Name, 100).
		Required("country", c.Country).
		MaxLen("country", c.Country, 100).
		NonNegative("cost_index", c.CostIndex).
		NonNegative("popularity", float64(c.Popularity))
	if c.Latitude < -90 || c.Latitude > 90 {
		v.Fail("latitude", "must be between -90 and 90")
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		v.Fail("longitude", "must be between -180 and 180")
	}
	return v.Err()
}

func (s *CatalogService) CreateCity(ctx context.Context, c *models.City) (*models.City, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Country = strings.TrimSpace(c.Country)
	if err := validateCity(c); err != nil {
		return nil, err
	}
	return s.repomanager.Cities(s.db).Create(ctx, c)
}

func (s *CatalogService) UpdateCity(ctx context.Context, c *models.City) (*models.City, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Country = strings.TrimSpace(c.Country)
	if err := validateCity(c); err != nil {
		return nil, err
	}
	if err := s.repomanager.Cities(s.db).Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteCity(ctx context.Context, id string) error {
	return s.repomanager.Cities(s.db).Delete(ctx, id)
}

func (s *CatalogService) ListActivities(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error) {
	if err := validate.New().NonNegative("max_cost", f.MaxCost).Err(); err != nil {
		return nil, err
	}
	return s.repomanager.Activities(s.db).List(ctx, f)
}

func (s *CatalogService) CreateActivity(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Category = strings.ToLower(strings.TrimSpace(a.Category))
	err := validate.New().
		Required("city_id", a.CityID).
		Required("name", a.Name).
		MaxLen("name", a.Name, 200).
		Required("category", a.Category).
		NonNegative("cost", a.Cost).
		NonNegative("duration_minutes", float64(a.DurationMinutes)).
		Err()
	if err != nil {
		return nil, err
	}
	return s.repomanager.Activities(s.db).Create(ctx, a)
}

func (s *CatalogService) DeleteActivity(ctx context.Context, id string) error {
	return s.repomanager.Activities(s.db).Delete(ctx, id)
}
