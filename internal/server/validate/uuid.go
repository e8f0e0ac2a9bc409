package validate

import "github.com/google/uuid"

// IsUUID reports whether s is a hyphenated UUID. Path parameters are checked
// with it so malformed ids become 404s instead of PostgreSQL cast errors.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	return uuid.Validate(s) == nil
}
