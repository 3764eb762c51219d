package queries

import (
	"strings"

	"interviewbank/application/dto"
	"interviewbank/domain/core/valueobjects"
	pkgerrors "interviewbank/pkg/errors"
)

// Messages reported by question search
const (
	MsgMissingParameters = "All parameters (company, role, position, year) are required."
	MsgNoMatchingData    = "No matching data found."
	MsgNoQuestions       = "No questions found for the given filters."
)

// SearchQuestionsQuery selects interviews by identity and filters their questions.
// Topic and Difficulty are optional; an empty string means no filter.
type SearchQuestionsQuery struct {
	Company    string
	Role       string
	Position   string
	Year       string
	Topic      string
	Difficulty string
}

// Validate requires all four identity fields to be non-blank
func (q SearchQuestionsQuery) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"company", q.Company},
		{"role", q.Role},
		{"position", q.Position},
		{"year", q.Year},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.NewMissingParameterError(MsgMissingParameters, missing...)
	}
	return nil
}

// MatchKey returns the normalized identity to look up
func (q SearchQuestionsQuery) MatchKey() valueobjects.MatchKey {
	return valueobjects.NewMatchKey(q.Company, q.Role, q.Position, q.Year)
}

// SearchQuestionsResult is the aggregated outcome of a search
type SearchQuestionsResult struct {
	TotalResults   int            `json:"totalResults"`
	TotalQuestions int            `json:"totalQuestions"`
	Questions      []dto.Question `json:"questions"`
}
