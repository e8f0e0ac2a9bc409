package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/globetrotter/internal/common"
	"github.com/dmitrijs2005/globetrotter/internal/logging"
	"github.com/dmitrijs2005/globetrotter/internal/server/auth"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/dmitrijs2005/globetrotter/internal/server/services"
	"github.com/dmitrijs2005/globetrotter/internal/server/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	tripUUID   = "5b0b9a0e-6a3c-4d8e-9a51-3f6f0e1d2c4b"
	userUUID   = "0d1f5c9e-2b7a-4c3d-8e6f-1a2b3c4d5e6f"
)

// Fakes embed the interface so unimplemented methods panic if reached.

type fakeUsers struct {
	UserAPI
	register func(email, name, password string) (*models.User, error)
	login    func(email, password string) (*services.TokenPair, error)
}

func (f *fakeUsers) Register(_ context.Context, email, name, password string) (*models.User, error) {
	return f.register(email, name, password)
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*services.TokenPair, error) {
	return f.login(email, password)
}

func (f *fakeUsers) Me(_ context.Context, id string) (*models.User, error) {
	return &models.User{ID: id, Email: "jane@example.com"}, nil
}

type fakeTrips struct {
	TripAPI
	filter  models.TripFilter
	getTrip func(userID, id string) (*models.Trip, error)
	public  func(id string) (*models.Itinerary, error)
	reorder []string
}

func (f *fakeTrips) ListTrips(_ context.Context, fl models.TripFilter) ([]models.Trip, error) {
	f.filter = fl
	return []models.Trip{{ID: tripUUID, Name: "Alps", CoverImageKey: "k1"}}, nil
}

func (f *fakeTrips) GetTrip(_ context.Context, userID, id string) (*models.Trip, error) {
	return f.getTrip(userID, id)
}

func (f *fakeTrips) PublicItinerary(_ context.Context, id string) (*models.Itinerary, error) {
	return f.public(id)
}

func (f *fakeTrips) ReorderStops(_ context.Context, _, _ string, ids []string) ([]models.TripStop, error) {
	f.reorder = ids
	return []models.TripStop{}, nil
}

type fakeImages struct{ ImageAPI }

func (fakeImages) CoverURL(_ context.Context, t *models.Trip) (string, error) {
	if t.CoverImageKey == "" {
		return "", nil
	}
	return "http://cdn/" + t.CoverImageKey, nil
}

type fakeExports struct{ ExportAPI }

func (fakeExports) Export(_ context.Context, _, _, format string) (*services.ExportFile, error) {
	if format != "csv" {
		return nil, validate.New().Fail("format", "must be one of csv, gpx, json").Err()
	}
	return &services.ExportFile{Filename: "alps.csv", ContentType: "text/csv", Data: []byte("date,type\n")}, nil
}

type fakeAdmin struct {
	AdminAPI
	admins map[string]bool
}

func (f *fakeAdmin) RequireAdmin(_ context.Context, id string) error {
	if !f.admins[id] {
		return common.ErrorForbidden
	}
	return nil
}

func (f *fakeAdmin) Stats(context.Context) (*models.Stats, error) {
	return &models.Stats{Users: 2, Trips: 3}, nil
}

type harness struct {
	srv     *Server
	handler http.Handler
	users   *fakeUsers
	trips   *fakeTrips
	admin   *fakeAdmin
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		users: &fakeUsers{},
		trips: &fakeTrips{},
		admin: &fakeAdmin{admins: map[string]bool{}},
	}
	h.srv = NewServer("127.0.0.1:0", logging.Discard(), testSecret, []string{"http://localhost:5173"}, Services{
		Users:   h.users,
		Trips:   h.trips,
		Exports: fakeExports{},
		Images:  fakeImages{},
		Admin:   h.admin,
	})
	h.handler = h.srv.Routes()
	return h
}

func bearer(t *testing.T, userID string, validity time.Duration) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, []byte(testSecret), validity)
	require.NoError(t, err)
	return common.BearerPrefix + tok
}

func (h *harness) do(method, path, body, authz string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authz != "" {
		req.Header.Set(common.AccessTokenHeaderName, authz)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAuthMiddleware(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name    string
		authz   string
		status  int
		message string
	}{
		{"missing", "", http.StatusUnauthorized, "missing token"},
		{"not bearer", "Token abc", http.StatusUnauthorized, "missing token"},
		{"garbage", common.BearerPrefix + "abc", http.StatusUnauthorized, "unauthorized"},
		{"expired", bearer(t, userUUID, -time.Minute), http.StatusUnauthorized, "token expired"},
		{"valid", bearer(t, userUUID, time.Minute), http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(http.MethodGet, "/api/v1/me", "", tt.authz)
			assert.Equal(t, tt.status, rec.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decode(t, rec)["error"])
			}
		})
	}
}

func TestRegister(t *testing.T) {
	h := newHarness(t)
	h.users.register = func(email, name, password string) (*models.User, error) {
		switch email {
		case "taken@example.com":
			return nil, fmt.Errorf("error creating user: %w", common.ErrorAlreadyExists)
		case "bad":
			return nil, validate.New().Fail("email", "must be a valid email address").Err()
		}
		return &models.User{ID: userUUID, Email: email, Name: name, PasswordHash: "secret-hash"}, nil
	}

	rec := h.do(http.MethodPost, "/api/v1/auth/register", `{"email":"jane@example.com","name":"Jane","password":"longenough"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-hash")
	assert.Equal(t, "jane@example.com", decode(t, rec)["user"].(map[string]any)["email"])

	rec = h.do(http.MethodPost, "/api/v1/auth/register", `{"email":"taken@example.com","password":"longenough"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/auth/register", `{"email":"bad","password":"longenough"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	fields := body["fields"].([]any)
	require.Len(t, fields, 1)
	assert.Equal(t, "email", fields[0].(map[string]any)["field"])

	rec = h.do(http.MethodPost, "/api/v1/auth/register", `{"email":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/auth/register", `{"email":"x@example.com","admin":true}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	h.users.login = func(email, password string) (*services.TokenPair, error) {
		if password != "right-password" {
			return nil, common.ErrorUnauthorized
		}
		return &services.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
	}

	rec := h.do(http.MethodPost, "/api/v1/auth/login", `{"email":"jane@example.com","password":"right-password"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "r", decode(t, rec)["refresh_token"])

	rec = h.do(http.MethodPost, "/api/v1/auth/login", `{"email":"jane@example.com","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListTrips(t *testing.T) {
	h := newHarness(t)
	authz := bearer(t, userUUID, time.Minute)

	rec := h.do(http.MethodGet, "/api/v1/trips?q=alp&status=upcoming&sort=name&limit=5&offset=10", "", authz)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.TripFilter{UserID: userUUID, Query: "alp", Status: models.TripUpcoming, SortBy: "name", Limit: 5, Offset: 10}, h.trips.filter)

	trips := decode(t, rec)["trips"].([]any)
	require.Len(t, trips, 1)
	assert.Equal(t, "http://cdn/k1", trips[0].(map[string]any)["cover_url"])

	rec = h.do(http.MethodGet, "/api/v1/trips?limit=ten", "", authz)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTrip(t *testing.T) {
	h := newHarness(t)
	authz := bearer(t, userUUID, time.Minute)
	h.trips.getTrip = func(userID, id string) (*models.Trip, error) {
		if id != tripUUID {
			return nil, common.ErrorNotFound
		}
		return &models.Trip{ID: id, UserID: userID, Name: "Alps"}, nil
	}

	rec := h.do(http.MethodGet, "/api/v1/trips/"+tripUUID, "", authz)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alps", decode(t, rec)["trip"].(map[string]any)["name"])

	rec = h.do(http.MethodGet, "/api/v1/trips/not-a-uuid", "", authz)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/trips/"+userUUID, "", authz)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInternalErrorIsGeneric(t *testing.T) {
	h := newHarness(t)
	h.trips.getTrip = func(string, string) (*models.Trip, error) {
		return nil, errors.New("db error: connection refused")
	}

	rec := h.do(http.MethodGet, "/api/v1/trips/"+tripUUID, "", bearer(t, userUUID, time.Minute))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decode(t, rec)["error"])
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestInUseIsConflict(t *testing.T) {
	h := newHarness(t)
	h.trips.getTrip = func(string, string) (*models.Trip, error) {
		return nil, fmt.Errorf("%w: trip_stops_city_id_fkey", common.ErrorInUse)
	}

	rec := h.do(http.MethodGet, "/api/v1/trips/"+tripUUID, "", bearer(t, userUUID, time.Minute))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "in use", decode(t, rec)["error"])
}

func TestReorderStops(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPut, "/api/v1/trips/"+tripUUID+"/stops/order", `{"stop_ids":["b","a"]}`, bearer(t, userUUID, time.Minute))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"b", "a"}, h.trips.reorder)
}

func TestPublicItinerary_NoAuth(t *testing.T) {
	h := newHarness(t)
	h.trips.public = func(id string) (*models.Itinerary, error) {
		return &models.Itinerary{Trip: models.Trip{ID: id, Name: "Shared"}, Stops: []models.StopDetails{}}, nil
	}

	rec := h.do(http.MethodGet, "/api/v1/public/trips/"+tripUUID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	it := decode(t, rec)["itinerary"].(map[string]any)
	assert.Equal(t, "Shared", it["trip"].(map[string]any)["name"])
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	authz := bearer(t, userUUID, time.Minute)

	rec := h.do(http.MethodGet, "/api/v1/trips/"+tripUUID+"/export?format=csv", "", authz)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="alps.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "date,type\n", rec.Body.String())

	rec = h.do(http.MethodGet, "/api/v1/trips/"+tripUUID+"/export?format=pdf", "", authz)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutes(t *testing.T) {
	h := newHarness(t)
	h.admin.admins[userUUID] = true

	rec := h.do(http.MethodGet, "/api/v1/admin/stats", "", bearer(t, userUUID, time.Minute))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, decode(t, rec)["stats"].(map[string]any)["trips"])

	other := "7e57d004-2b97-4e7a-b45f-5387367791cd"
	rec = h.do(http.MethodGet, "/api/v1/admin/stats", "", bearer(t, other, time.Minute))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/trips", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.srv.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}
