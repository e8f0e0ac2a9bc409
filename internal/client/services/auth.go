// Package services contains application services for the Globetrotter CLI.
// This file defines the session service: register, login, logout and
// restoring a saved session from the local database.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/globetrotter/internal/client/client"
	"github.com/dmitrijs2005/globetrotter/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/globetrotter/internal/common"
	"github.com/dmitrijs2005/globetrotter/internal/dbx"
	"github.com/dmitrijs2005/globetrotter/internal/logging"
)

const (
	keyEmail        = "email"
	keyServer       = "server_url"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// AuthService manages the CLI session.
//
// The session survives restarts: tokens are kept in the metadata table and
// put back into the API client by Restore. Tokens refreshed by the client
// are written back through the client's refresh hook.
type AuthService interface {
	Register(ctx context.Context, email, name string, password []byte) error
	Login(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (email string, ok bool, err error)
	IsLoggedIn() bool
}

type authService struct {
	client    client.Client
	db        *sql.DB
	serverURL string
	logger    logging.Logger
}

// NewAuthService binds the service to an API client and the local database.
// serverURL is stored with the session so a session saved against another
// server is not reused.
func NewAuthService(c client.Client, db *sql.DB, serverURL string, l logging.Logger) AuthService {
	a := &authService{client: c, db: db, serverURL: serverURL, logger: l.With("module", "session")}
	c.OnRefresh(a.saveTokens)
	return a
}

func (a *authService) Register(ctx context.Context, email, name string, password []byte) error {
	defer common.WipeByteArray(password)
	if _, err := a.client.Register(ctx, email, name, string(password)); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Login authenticates and persists the session in one transaction.
func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	defer common.WipeByteArray(password)

	pair, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		for k, v := range map[string]string{
			keyEmail:        email,
			keyServer:       a.serverURL,
			keyAccessToken:  pair.AccessToken,
			keyRefreshToken: pair.RefreshToken,
		} {
			if err := repo.Set(ctx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	a.logger.Debug(ctx, "session saved", "email", email)
	return nil
}

// Logout revokes the refresh token and wipes the local session. The local
// session is wiped even if the server cannot be reached.
func (a *authService) Logout(ctx context.Context) error {
	remoteErr := a.client.Logout(ctx)
	if remoteErr != nil {
		a.logger.Warn(ctx, "remote logout failed", "error", remoteErr)
	}
	if err := metadata.NewSQLiteRepository(a.db).Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if remoteErr != nil && !errors.Is(remoteErr, client.ErrUnavailable) {
		return remoteErr
	}
	return nil
}

// Restore loads a saved session into the client. ok is false when there is
// no session or it belongs to a different server.
func (a *authService) Restore(ctx context.Context) (string, bool, error) {
	values, err := metadata.NewSQLiteRepository(a.db).List(ctx)
	if err != nil {
		return "", false, err
	}
	if values[keyServer] != a.serverURL || values[keyRefreshToken] == "" {
		return "", false, nil
	}
	a.client.SetTokens(client.TokenPair{
		AccessToken:  values[keyAccessToken],
		RefreshToken: values[keyRefreshToken],
	})
	return values[keyEmail], true, nil
}

func (a *authService) IsLoggedIn() bool {
	return !a.client.Tokens().Empty()
}

func (a *authService) saveTokens(ctx context.Context, p client.TokenPair) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyAccessToken, p.AccessToken); err != nil {
			return err
		}
		return repo.Set(ctx, keyRefreshToken, p.RefreshToken)
	})
}
