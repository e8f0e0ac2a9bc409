package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/globetrotter/internal/common"
	"github.com/dmitrijs2005/globetrotter/internal/dbx"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/accommodations"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/activities"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/cities"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/images"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/stats"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/stops"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/transports"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/tripactivities"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/trips"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/users"
	"github.com/dmitrijs2005/globetrotter/internal/timex"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var mustDate = timex.MustDate

// withNow pins the service clock for the duration of the test.
func withNow(t *testing.T, at time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = orig })
}

func expectTx(mock sqlmock.Sqlmock, commit bool) {
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

// memStore is an in-memory RepositoryManager. Repositories ignore the DBTX
// they are bound to; transactions are observed through sqlmock instead.
type memStore struct {
	seq int

	users      map[string]*models.User
	tokens     map[string]*models.RefreshToken
	cities     map[string]*models.City
	activities map[string]*models.Activity
	trips      map[string]*models.Trip
	stops      map[string]*models.TripStop
	tripActs   map[string]*models.TripActivity
	stays      map[string]*models.Accommodation
	legs       map[string]*models.TransportCost
	images     map[string]*models.Image

	stats      *models.Stats
	monthSince time.Time
	monthRows  []models.MonthCount
	listQuery  string
	listLimit  int

	// fail injects an error for "Repo.Method".
	fail  map[string]error
	calls []string
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*models.User{},
		tokens:     map[string]*models.RefreshToken{},
		cities:     map[string]*models.City{},
		activities: map[string]*models.Activity{},
		trips:      map[string]*models.Trip{},
		stops:      map[string]*models.TripStop{},
		tripActs:   map[string]*models.TripActivity{},
		stays:      map[string]*models.Accommodation{},
		legs:       map[string]*models.TransportCost{},
		images:     map[string]*models.Image{},
		fail:       map[string]error{},
	}
}

func (m *memStore) id(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%d", prefix, m.seq)
}

func (m *memStore) call(name string) error {
	m.calls = append(m.calls, name)
	return m.fail[name]
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *memStore) Users(dbx.DBTX) users.Repository                 { return memUsers{m} }
func (m *memStore) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return memTokens{m} }
func (m *memStore) Cities(dbx.DBTX) cities.Repository               { return memCities{m} }
func (m *memStore) Activities(dbx.DBTX) activities.Repository       { return memActivities{m} }
func (m *memStore) Trips(dbx.DBTX) trips.Repository                 { return memTrips{m} }
func (m *memStore) Stops(dbx.DBTX) stops.Repository                 { return memStops{m} }
func (m *memStore) TripActivities(dbx.DBTX) tripactivities.Repository {
	return memTripActivities{m}
}
func (m *memStore) Accommodations(dbx.DBTX) accommodations.Repository { return memStays{m} }
func (m *memStore) Transports(dbx.DBTX) transports.Repository         { return memLegs{m} }
func (m *memStore) Images(dbx.DBTX) images.Repository                 { return memImages{m} }
func (m *memStore) Stats(dbx.DBTX) stats.Repository                   { return memStats{m} }

// seed helpers

func (m *memStore) addUser(email string, admin bool) *models.User {
	u := &models.User{ID: m.id("u"), Email: email, Name: email, IsAdmin: admin, CreatedAt: time.Now()}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addCity(name, country string, lat, lon float64) *models.City {
	c := &models.City{ID: m.id("c"), Name: name, Country: country, Latitude: lat, Longitude: lon}
	m.cities[c.ID] = c
	return c
}

func (m *memStore) addActivity(cityID, name string, cost float64) *models.Activity {
	a := &models.Activity{ID: m.id("a"), CityID: cityID, Name: name, Category: "sightseeing", Cost: cost}
	m.activities[a.ID] = a
	return a
}

func (m *memStore) addTrip(userID, name, start, end string, budget float64) *models.Trip {
	t := &models.Trip{ID: m.id("t"), UserID: userID, Name: name,
		StartDate: mustDate(start), EndDate: mustDate(end), Budget: budget}
	m.trips[t.ID] = t
	return t
}

func (m *memStore) addStop(tripID, cityID, start, end string) *models.TripStop {
	seq := 1
	for _, s := range m.stops {
		if s.TripID == tripID && s.Sequence >= seq {
			seq = s.Sequence + 1
		}
	}
	s := &models.TripStop{ID: m.id("s"), TripID: tripID, CityID: cityID, Sequence: seq,
		StartDate: mustDate(start), EndDate: mustDate(end)}
	m.stops[s.ID] = s
	return s
}

// --- users ---

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if err := r.m.call("Users.Create"); err != nil {
		return nil, err
	}
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return nil, fmt.Errorf("%w: users_email_key", common.ErrorAlreadyExists)
		}
	}
	u.ID = r.m.id("u")
	u.CreatedAt = time.Now()
	cp := *u
	r.m.users[u.ID] = &cp
	return u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if err := r.m.call("Users.GetByEmail"); err != nil {
		return nil, err
	}
	for _, u := range r.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if err := r.m.call("Users.GetByID"); err != nil {
		return nil, err
	}
	u, ok := r.m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) UpdateName(_ context.Context, id, name string) error {
	u, ok := r.m.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Name = name
	return nil
}

func (r memUsers) Delete(_ context.Context, id string) error {
	if _, ok := r.m.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.users, id)
	for tid, t := range r.m.trips {
		if t.UserID == id {
			delete(r.m.trips, tid)
		}
	}
	return nil
}

func (r memUsers) List(_ context.Context, query string, limit, offset int) ([]models.UserSummary, error) {
	r.m.listQuery, r.m.listLimit = query, limit
	out := []models.UserSummary{}
	for _, u := range r.m.users {
		if query != "" && !strings.Contains(u.Email, query) {
			continue
		}
		s := models.UserSummary{User: *u}
		for _, t := range r.m.trips {
			if t.UserID == u.ID {
				s.TripCount++
			}
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// --- refresh tokens ---

type memTokens struct{ m *memStore }

func (r memTokens) Create(_ context.Context, userID, token string, validity time.Duration) error {
	if err := r.m.call("RefreshTokens.Create"); err != nil {
		return err
	}
	r.m.tokens[token] = &models.RefreshToken{ID: r.m.id("rt"), UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r memTokens) Take(_ context.Context, token string) (*models.RefreshToken, error) {
	if err := r.m.call("RefreshTokens.Take"); err != nil {
		return nil, err
	}
	rt, ok := r.m.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.m.tokens, token)
	return rt, nil
}

func (r memTokens) Delete(_ context.Context, token string) error {
	if err := r.m.call("RefreshTokens.Delete"); err != nil {
		return err
	}
	delete(r.m.tokens, token)
	return nil
}

func (r memTokens) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for k, rt := range r.m.tokens {
		if rt.Expires.Before(now) {
			delete(r.m.tokens, k)
			n++
		}
	}
	return n, nil
}

// --- catalog ---

type memCities struct{ m *memStore }

func (r memCities) List(_ context.Context, f models.CityFilter) ([]models.City, error) {
	out := []models.City{}
	for _, c := range r.m.cities {
		if f.Query == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Query)) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r memCities) Get(_ context.Context, id string) (*models.City, error) {
	c, ok := r.m.cities[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memCities) Create(_ context.Context, c *models.City) (*models.City, error) {
	if err := r.m.call("Cities.Create"); err != nil {
		return nil, err
	}
	c.ID = r.m.id("c")
	cp := *c
	r.m.cities[c.ID] = &cp
	return c, nil
}

func (r memCities) Update(_ context.Context, c *models.City) error {
	if _, ok := r.m.cities[c.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *c
	r.m.cities[c.ID] = &cp
	return nil
}

func (r memCities) Delete(_ context.Context, id string) error {
	if _, ok := r.m.cities[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.cities, id)
	return nil
}

type memActivities struct{ m *memStore }

func (r memActivities) List(_ context.Context, f models.ActivityFilter) ([]models.Activity, error) {
	out := []models.Activity{}
	for _, a := range r.m.activities {
		if f.CityID != "" && a.CityID != f.CityID {
			continue
		}
		if f.MaxCost > 0 && a.Cost > f.MaxCost {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memActivities) Get(_ context.Context, id string) (*models.Activity, error) {
	a, ok := r.m.activities[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r memActivities) Create(_ context.Context, a *models.Activity) (*models.Activity, error) {
	if err := r.m.call("Activities.Create"); err != nil {
		return nil, err
	}
	a.ID = r.m.id("a")
	cp := *a
	r.m.activities[a.ID] = &cp
	return a, nil
}

func (r memActivities) Delete(_ context.Context, id string) error {
	if _, ok := r.m.activities[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.activities, id)
	return nil
}

// --- trips ---

type memTrips struct{ m *memStore }

func (r memTrips) Create(_ context.Context, t *models.Trip) (*models.Trip, error) {
	if err := r.m.call("Trips.Create"); err != nil {
		return nil, err
	}
	t.ID = r.m.id("t")
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	r.m.trips[t.ID] = &cp
	return t, nil
}

func (r memTrips) GetForUser(_ context.Context, userID, id string) (*models.Trip, error) {
	if err := r.m.call("Trips.GetForUser"); err != nil {
		return nil, err
	}
	t, ok := r.m.trips[id]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memTrips) GetByID(_ context.Context, id string) (*models.Trip, error) {
	t, ok := r.m.trips[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memTrips) List(_ context.Context, f models.TripFilter) ([]models.Trip, error) {
	out := []models.Trip{}
	for _, t := range r.m.trips {
		if t.UserID != f.UserID {
			continue
		}
		if f.Status != "" && t.Status(f.Today) != f.Status {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r memTrips) Update(_ context.Context, t *models.Trip) error {
	if err := r.m.call("Trips.Update"); err != nil {
		return err
	}
	cur, ok := r.m.trips[t.ID]
	if !ok || cur.UserID != t.UserID {
		return common.ErrorNotFound
	}
	cp := *t
	r.m.trips[t.ID] = &cp
	return nil
}

func (r memTrips) Delete(_ context.Context, userID, id string) error {
	t, ok := r.m.trips[id]
	if !ok || t.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.m.trips, id)
	return nil
}

func (r memTrips) SetCover(_ context.Context, id, key string) error {
	t, ok := r.m.trips[id]
	if !ok {
		return common.ErrorNotFound
	}
	t.CoverImageKey = key
	return nil
}

func (r memTrips) LockForUpdate(_ context.Context, id string) error {
	if err := r.m.call("Trips.LockForUpdate"); err != nil {
		return err
	}
	if _, ok := r.m.trips[id]; !ok {
		return common.ErrorNotFound
	}
	return nil
}

// --- stops ---

type memStops struct{ m *memStore }

func (r memStops) withCity(s models.TripStop) models.TripStop {
	if c, ok := r.m.cities[s.CityID]; ok {
		s.CityName, s.Country, s.Latitude, s.Longitude = c.Name, c.Country, c.Latitude, c.Longitude
	}
	return s
}

func (r memStops) List(_ context.Context, tripID string) ([]models.TripStop, error) {
	out := []models.TripStop{}
	for _, s := range r.m.stops {
		if s.TripID == tripID {
			out = append(out, r.withCity(*s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r memStops) Get(_ context.Context, id string) (*models.TripStop, error) {
	s, ok := r.m.stops[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := r.withCity(*s)
	return &cp, nil
}

func (r memStops) NextSequence(_ context.Context, tripID string) (int, error) {
	next := 1
	for _, s := range r.m.stops {
		if s.TripID == tripID && s.Sequence >= next {
			next = s.Sequence + 1
		}
	}
	return next, nil
}

func (r memStops) Create(_ context.Context, s *models.TripStop) (*models.TripStop, error) {
	if err := r.m.call("Stops.Create"); err != nil {
		return nil, err
	}
	s.ID = r.m.id("s")
	cp := *s
	r.m.stops[s.ID] = &cp
	return s, nil
}

func (r memStops) Update(_ context.Context, s *models.TripStop) error {
	if _, ok := r.m.stops[s.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *s
	r.m.stops[s.ID] = &cp
	return nil
}

func (r memStops) Delete(_ context.Context, id string) error {
	if _, ok := r.m.stops[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.stops, id)
	return nil
}

func (r memStops) Resequence(ctx context.Context, tripID string) error {
	if err := r.m.call("Stops.Resequence"); err != nil {
		return err
	}
	list, _ := r.List(ctx, tripID)
	for i, s := range list {
		r.m.stops[s.ID].Sequence = i + 1
	}
	return nil
}

func (r memStops) SetSequence(_ context.Context, id string, seq int) error {
	s, ok := r.m.stops[id]
	if !ok {
		return common.ErrorNotFound
	}
	s.Sequence = seq
	return nil
}

// --- trip activities ---

type memTripActivities struct{ m *memStore }

func (r memTripActivities) filter(keep func(*models.TripActivity) bool) []models.TripActivity {
	out := []models.TripActivity{}
	for _, a := range r.m.tripActs {
		if keep(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledDate.Equal(out[j].ScheduledDate) {
			return out[i].ScheduledDate.Before(out[j].ScheduledDate)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

func (r memTripActivities) ListByStop(_ context.Context, stopID string) ([]models.TripActivity, error) {
	return r.filter(func(a *models.TripActivity) bool { return a.TripStopID == stopID }), nil
}

func (r memTripActivities) ListByTrip(_ context.Context, tripID string) ([]models.TripActivity, error) {
	return r.filter(func(a *models.TripActivity) bool {
		s, ok := r.m.stops[a.TripStopID]
		return ok && s.TripID == tripID
	}), nil
}

func (r memTripActivities) Get(_ context.Context, id string) (*models.TripActivity, error) {
	a, ok := r.m.tripActs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r memTripActivities) Create(_ context.Context, a *models.TripActivity) (*models.TripActivity, error) {
	if err := r.m.call("TripActivities.Create"); err != nil {
		return nil, err
	}
	a.ID = r.m.id("ta")
	cp := *a
	r.m.tripActs[a.ID] = &cp
	return a, nil
}

func (r memTripActivities) Update(_ context.Context, a *models.TripActivity) error {
	if _, ok := r.m.tripActs[a.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *a
	r.m.tripActs[a.ID] = &cp
	return nil
}

func (r memTripActivities) Delete(_ context.Context, id string) error {
	if _, ok := r.m.tripActs[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.tripActs, id)
	return nil
}

// --- accommodations ---

type memStays struct{ m *memStore }

func (r memStays) ListByTrip(_ context.Context, tripID string) ([]models.Accommodation, error) {
	out := []models.Accommodation{}
	for _, a := range r.m.stays {
		if s, ok := r.m.stops[a.TripStopID]; ok && s.TripID == tripID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (r memStays) Get(_ context.Context, id string) (*models.Accommodation, error) {
	a, ok := r.m.stays[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r memStays) Create(_ context.Context, a *models.Accommodation) (*models.Accommodation, error) {
	if err := r.m.call("Accommodations.Create"); err != nil {
		return nil, err
	}
	a.ID = r.m.id("h")
	cp := *a
	r.m.stays[a.ID] = &cp
	return a, nil
}

func (r memStays) Update(_ context.Context, a *models.Accommodation) error {
	if _, ok := r.m.stays[a.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *a
	r.m.stays[a.ID] = &cp
	return nil
}

func (r memStays) Delete(_ context.Context, id string) error {
	if _, ok := r.m.stays[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.stays, id)
	return nil
}

// --- transports ---

type memLegs struct{ m *memStore }

func (r memLegs) ListByTrip(_ context.Context, tripID string) ([]models.TransportCost, error) {
	out := []models.TransportCost{}
	for _, l := range r.m.legs {
		if l.TripID == tripID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureTime.Before(out[j].DepartureTime) })
	return out, nil
}

func (r memLegs) Get(_ context.Context, id string) (*models.TransportCost, error) {
	l, ok := r.m.legs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *l
	return &cp, nil
}

func (r memLegs) Create(_ context.Context, l *models.TransportCost) (*models.TransportCost, error) {
	if err := r.m.call("Transports.Create"); err != nil {
		return nil, err
	}
	l.ID = r.m.id("x")
	cp := *l
	r.m.legs[l.ID] = &cp
	return l, nil
}

func (r memLegs) Update(_ context.Context, l *models.TransportCost) error {
	if _, ok := r.m.legs[l.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *l
	r.m.legs[l.ID] = &cp
	return nil
}

func (r memLegs) Delete(_ context.Context, id string) error {
	if _, ok := r.m.legs[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.legs, id)
	return nil
}

// --- images ---

type memImages struct{ m *memStore }

func (r memImages) Create(_ context.Context, img *models.Image) (*models.Image, error) {
	if err := r.m.call("Images.Create"); err != nil {
		return nil, err
	}
	img.ID = r.m.id("i")
	cp := *img
	r.m.images[img.StorageKey] = &cp
	return img, nil
}

func (r memImages) GetByKey(_ context.Context, key string) (*models.Image, error) {
	img, ok := r.m.images[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *img
	return &cp, nil
}

func (r memImages) MarkCompleted(_ context.Context, id string) error {
	for _, img := range r.m.images {
		if img.ID == id {
			img.UploadStatus = models.UploadStatusCompleted
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- stats ---

type memStats struct{ m *memStore }

func (r memStats) Counts(context.Context) (*models.Stats, error) {
	if err := r.m.call("Stats.Counts"); err != nil {
		return nil, err
	}
	cp := *r.m.stats
	return &cp, nil
}

func (r memStats) TopCities(_ context.Context, limit int) ([]models.CityCount, error) {
	return []models.CityCount{{CityID: "c1", CityName: "Paris", Country: "France", Stops: limit}}, nil
}

func (r memStats) TripsPerMonth(_ context.Context, since time.Time) ([]models.MonthCount, error) {
	r.m.monthSince = since
	return r.m.monthRows, nil
}
