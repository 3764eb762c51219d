package valueobjects

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// MatchKey holds the normalized identity of an interview: company, role,
// position and year, each trimmed and Unicode case-folded. Two identities
// match when their keys are equal, which gives whole-string,
// case-insensitive matching without pattern syntax.
type MatchKey struct {
	Company  string
	Role     string
	Position string
	Year     string
}

// NewMatchKey normalizes the four identity values
func NewMatchKey(company, role, position, year string) MatchKey {
	return MatchKey{
		Company:  Normalize(company),
		Role:     Normalize(role),
		Position: Normalize(position),
		Year:     Normalize(year),
	}
}

// Normalize trims surrounding whitespace and case-folds s.
// A cases.Caser is stateful, so one is created per call.
func Normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// String encodes the key as length-prefixed segments so that separators
// inside values can never make two different identities collide.
func (k MatchKey) String() string {
	var b strings.Builder
	for i, part := range []string{k.Company, k.Role, k.Position, k.Year} {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.Itoa(len(part)))
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}

// Matches reports whether other names the same identity
func (k MatchKey) Matches(other MatchKey) bool {
	return k == other
}
