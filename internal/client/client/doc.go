// Package client is the CLI side of the Globetrotter API.
//
// It provides:
//  1. The Client interface and its HTTP implementation (see HTTPClient),
//     which attaches the bearer access token and, when the server answers
//     401 "token expired", refreshes the token pair once and retries.
//  2. Local persistence bootstrap (InitDatabase, RunMigrations): an SQLite
//     database with embedded goose migrations holding the session.
//
// Error responses are mapped onto the sentinel errors of package common, so
// callers match them with errors.Is. A failed round trip yields
// ErrUnavailable.
package client
