// Package metadata persists the CLI session (server URL, user email and the
// token pair) as key/value rows in the local SQLite database.
package metadata

import "context"

// Repository is a string key/value store. Get reports ok=false for a
// missing key instead of an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
