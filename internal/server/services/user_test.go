package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/globetrotter/internal/common"
	"github.com/dmitrijs2005/globetrotter/internal/server/auth"
	"github.com/dmitrijs2005/globetrotter/internal/server/config"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *memStore, func(commit bool)) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	m := newMemStore()
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return NewUserService(db, m, cfg), m, func(commit bool) { expectTx(mock, commit) }
}

func TestRegister_Success(t *testing.T) {
	s, m, _ := newUserService(t)

	u, err := s.Register(context.Background(), "  Ana@Example.com ", "Ana", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.NotEmpty(t, u.ID)

	ok, err := auth.CheckPassword("correct horse", m.users[u.ID].PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_ValidationSkipsDB(t *testing.T) {
	s, m, _ := newUserService(t)

	_, err := s.Register(context.Background(), "not-an-email", "", "short")
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Empty(t, m.calls)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s, m, _ := newUserService(t)
	m.addUser("ana@example.com", false)

	_, err := s.Register(context.Background(), "ana@example.com", "Ana", "password1")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestLogin(t *testing.T) {
	s, m, _ := newUserService(t)
	u, err := s.Register(context.Background(), "ana@example.com", "Ana", "password1")
	require.NoError(t, err)

	pair, err := s.Login(context.Background(), "ANA@example.com", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	require.Contains(t, m.tokens, pair.RefreshToken)
	assert.Equal(t, u.ID, m.tokens[pair.RefreshToken].UserID)

	uid, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)

	_, err = s.Login(context.Background(), "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(context.Background(), "bo@example.com", "password1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_RepoError(t *testing.T) {
	s, m, _ := newUserService(t)
	m.fail["Users.GetByEmail"] = errors.New("db down")

	_, err := s.Login(context.Background(), "ana@example.com", "password1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRefreshToken_Rotates(t *testing.T) {
	s, m, tx := newUserService(t)
	tx(true)
	m.tokens["old"] = &models.RefreshToken{UserID: "u1", Token: "old", Expires: time.Now().Add(time.Minute)}

	pair, err := s.RefreshToken(context.Background(), "old")
	require.NoError(t, err)
	assert.NotContains(t, m.tokens, "old")
	assert.Contains(t, m.tokens, pair.RefreshToken)
}

func TestRefreshToken_RedeemedOnce(t *testing.T) {
	s, m, tx := newUserService(t)
	tx(true)
	tx(false)
	m.tokens["old"] = &models.RefreshToken{UserID: "u1", Token: "old", Expires: time.Now().Add(time.Minute)}

	_, err := s.RefreshToken(context.Background(), "old")
	require.NoError(t, err)

	_, err = s.RefreshToken(context.Background(), "old")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Len(t, m.tokens, 1)
}

func TestRefreshToken_Expired(t *testing.T) {
	s, m, tx := newUserService(t)
	tx(false)
	m.tokens["old"] = &models.RefreshToken{UserID: "u1", Token: "old", Expires: time.Now().Add(-time.Minute)}

	_, err := s.RefreshToken(context.Background(), "old")
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

func TestRefreshToken_Unknown(t *testing.T) {
	s, _, tx := newUserService(t)
	tx(false)

	_, err := s.RefreshToken(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRefreshToken_DeleteFailsRollsBack(t *testing.T) {
	s, m, tx := newUserService(t)
	tx(false)
	m.tokens["old"] = &models.RefreshToken{UserID: "u1", Token: "old", Expires: time.Now().Add(time.Minute)}
	m.fail["RefreshTokens.Take"] = errors.New("db down")

	_, err := s.RefreshToken(context.Background(), "old")
	require.Error(t, err)
	assert.Len(t, m.tokens, 1)
}

func TestLogout_UnknownTokenIsFine(t *testing.T) {
	s, m, _ := newUserService(t)
	m.tokens["t"] = &models.RefreshToken{Token: "t"}

	require.NoError(t, s.Logout(context.Background(), "t"))
	require.NoError(t, s.Logout(context.Background(), "t"))
	assert.Empty(t, m.tokens)
}

func TestProfile(t *testing.T) {
	s, m, _ := newUserService(t)
	u := m.addUser("ana@example.com", false)
	m.addTrip(u.ID, "Alps", "2025-01-01", "2025-01-03", 0)

	me, err := s.Me(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, me.Email)

	_, err = s.UpdateProfile(context.Background(), u.ID, "   ")
	assert.ErrorIs(t, err, common.ErrorValidation)

	updated, err := s.UpdateProfile(context.Background(), u.ID, " Ana Maria ")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)

	require.NoError(t, s.DeleteAccount(context.Background(), u.ID))
	assert.Empty(t, m.users)
	assert.Empty(t, m.trips)
	assert.ErrorIs(t, s.DeleteAccount(context.Background(), u.ID), common.ErrorNotFound)
}

func TestPurgeExpiredTokens(t *testing.T) {
	s, m, _ := newUserService(t)
	m.tokens["a"] = &models.RefreshToken{Token: "a", Expires: time.Now().Add(-time.Hour)}
	m.tokens["b"] = &models.RefreshToken{Token: "b", Expires: time.Now().Add(time.Hour)}

	n, err := s.PurgeExpiredTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Contains(t, m.tokens, "b")
}
