package dbx

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike quotes the LIKE wildcards in s so it matches literally under
// the default backslash escape.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
