package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/globetrotter/internal/client/client"
	"github.com/dmitrijs2005/globetrotter/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sessionValues(t *testing.T, db *sql.DB) map[string]string {
	t.Helper()
	m, err := metadata.NewSQLiteRepository(db).List(context.Background())
	require.NoError(t, err)
	return m
}

// fakeClient implements client.Client; calls it does not override panic.
type fakeClient struct {
	client.Client

	tokens    client.TokenPair
	onRefresh func(ctx context.Context, p client.TokenPair) error

	registerErr error
	loginPair   client.TokenPair
	loginErr    error
	logoutErr   error
	logoutCalls int

	lastRegister []string
	lastStatus   string

	exportFile *client.ExportFile
	exportErr  error
	lastFormat string

	uploadTask    *models.UploadTask
	completedKey  string
	completeCalls int
}

func (f *fakeClient) SetTokens(p client.TokenPair) { f.tokens = p }
func (f *fakeClient) Tokens() client.TokenPair     { return f.tokens }
func (f *fakeClient) OnRefresh(fn func(ctx context.Context, p client.TokenPair) error) {
	f.onRefresh = fn
}

func (f *fakeClient) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	f.lastRegister = []string{email, name, password}
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: "u1", Email: email, Name: name}, nil
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (client.TokenPair, error) {
	if f.loginErr != nil {
		return client.TokenPair{}, f.loginErr
	}
	f.tokens = f.loginPair
	return f.loginPair, nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.logoutCalls++
	f.tokens = client.TokenPair{}
	return f.logoutErr
}

func (f *fakeClient) ListTrips(ctx context.Context, status string) ([]models.Trip, error) {
	f.lastStatus = status
	return []models.Trip{{ID: "t1", Name: "Japan"}}, nil
}

func (f *fakeClient) Export(ctx context.Context, tripID, format string) (*client.ExportFile, error) {
	f.lastFormat = format
	return f.exportFile, f.exportErr
}

func (f *fakeClient) RequestCoverUpload(ctx context.Context, tripID string) (*models.UploadTask, error) {
	return f.uploadTask, nil
}

func (f *fakeClient) CompleteCoverUpload(ctx context.Context, tripID, storageKey string) error {
	f.completeCalls++
	f.completedKey = storageKey
	return nil
}
