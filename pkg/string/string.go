// Package string holds the small text normalisers used on request input.
package string

import (
	"strings"
	"unicode"
)

// NormalizeEmail is the canonical form used for user lookup and as the
// username key of the login limiter.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TrimStrings trims each string in place.
func TrimStrings(ss ...*string) {
	for _, p := range ss {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

// ToSnakeCase turns a Go field name into its JSON-style name. Acronyms stay
// together: "TOTPCode" becomes "totp_code".
func ToSnakeCase(name string) string {
	rs := []rune(name)
	out := make([]rune, 0, len(rs)+4)
	for i, r := range rs {
		if !unicode.IsUpper(r) {
			out = append(out, r)
			continue
		}
		prevLower := i > 0 && !unicode.IsUpper(rs[i-1])
		endsAcronym := i > 0 && i+1 < len(rs) && unicode.IsLower(rs[i+1])
		if prevLower || endsAcronym {
			out = append(out, '_')
		}
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}
