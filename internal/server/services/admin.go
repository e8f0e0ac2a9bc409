package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/globetrotter/internal/common"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/repomanager"
)

const (
	topCitiesLimit = 5
	statsMonths    = 12
)

type AdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager) *AdminService {
	return &AdminService{db: db, repomanager: m}
}

// RequireAdmin returns common.ErrorForbidden unless the user is an admin.
func (s *AdminService) RequireAdmin(ctx context.Context, userID string) error {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !u.IsAdmin {
		return common.ErrorForbidden
	}
	return nil
}

func (s *AdminService) Stats(ctx context.Context) (*models.Stats, error) {
	repo := s.repomanager.Stats(s.db)

	st, err := repo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	if st.TopCities, err = repo.TopCities(ctx, topCitiesLimit); err != nil {
		return nil, err
	}

	first := monthStart(now().UTC()).AddDate(0, -(statsMonths - 1), 0)
	counts, err := repo.TripsPerMonth(ctx, first)
	if err != nil {
		return nil, err
	}
	st.TripsPerMonth = fillMonths(first, statsMonths, counts)
	return st, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// fillMonths returns n consecutive months from first, taking counts where
// present and zero elsewhere.
func fillMonths(first time.Time, n int, counts []models.MonthCount) []models.MonthCount {
	byMonth := make(map[string]int, len(counts))
	for _, c := range counts {
		byMonth[c.Month.UTC().Format("2006-01")] = c.Trips
	}
	out := make([]models.MonthCount, n)
	for i := range out {
		m := first.AddDate(0, i, 0)
		out[i] = models.MonthCount{Month: m, Trips: byMonth[m.Format("2006-01")]}
	}
	return out
}

func (s *AdminService) ListUsers(ctx context.Context, query string, limit, offset int) ([]models.UserSummary, error) {
	limit, offset = page(limit, offset)
	return s.repomanager.Users(s.db).List(ctx, strings.TrimSpace(query), limit, offset)
}
