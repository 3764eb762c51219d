package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"interviewbank/domain/core/valueobjects"
	"interviewbank/domain/events"
	pkgerrors "interviewbank/pkg/errors"
)

// Interview is the aggregate root: one candidate's report of an interview
// at a company, with the ordered questions they were asked.
// Interviews are immutable once created.
type Interview struct {
	id         string
	company    string
	role       string
	position   valueobjects.Position
	experience string
	year       string
	questions  []Question
	createdAt  time.Time

	// Domain events that occurred during this aggregate's lifetime
	events []events.DomainEvent
}

// InterviewParams carries the caller-supplied fields of a new interview.
// A nil Questions slice is rejected; an empty one is allowed.
type InterviewParams struct {
	Company    string
	Role       string
	Position   valueobjects.Position
	Experience string
	Year       string
	Questions  []QuestionParams
}

// NewInterview validates p, assigns an ID and creation time, and applies
// question defaults. Any invalid question rejects the whole interview.
func NewInterview(p InterviewParams) (*Interview, error) {
	return newInterview(p, uuid.New().String(), time.Now().UTC())
}

func newInterview(p InterviewParams, id string, now time.Time) (*Interview, error) {
	required := map[string]string{
		"company":    p.Company,
		"role":       p.Role,
		"experience": p.Experience,
		"year":       p.Year,
	}
	for _, field := range []string{"company", "role", "experience", "year"} {
		if strings.TrimSpace(required[field]) == "" {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("%s is required", field))
		}
	}
	if !p.Position.IsValid() {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("invalid position %q", p.Position))
	}
	if p.Questions == nil {
		return nil, pkgerrors.NewValidationError("questions is required")
	}

	questions := make([]Question, 0, len(p.Questions))
	for i, qp := range p.Questions {
		q, err := NewQuestion(qp, now)
		if err != nil {
			if appErr := pkgerrors.GetAppError(err); appErr != nil {
				appErr.WithDetails(map[string]interface{}{"index": i})
			}
			return nil, err
		}
		questions = append(questions, q)
	}

	interview := &Interview{
		id:         id,
		company:    p.Company,
		role:       p.Role,
		position:   p.Position,
		experience: p.Experience,
		year:       p.Year,
		questions:  questions,
		createdAt:  now,
		events:     []events.DomainEvent{},
	}

	interview.addEvent(events.NewInterviewRecorded(
		id,
		p.Company,
		p.Role,
		string(p.Position),
		p.Year,
		len(questions),
		now,
	))

	return interview, nil
}

// ReconstructInterview rebuilds an interview from repository data
func ReconstructInterview(
	id, company, role string,
	position valueobjects.Position,
	experience, year string,
	questions []Question,
	createdAt time.Time,
) *Interview {
	if questions == nil {
		questions = []Question{}
	}
	return &Interview{
		id:         id,
		company:    company,
		role:       role,
		position:   position,
		experience: experience,
		year:       year,
		questions:  questions,
		createdAt:  createdAt,
		events:     []events.DomainEvent{},
	}
}

func (i *Interview) ID() string                      { return i.id }
func (i *Interview) Company() string                 { return i.company }
func (i *Interview) Role() string                    { return i.role }
func (i *Interview) Position() valueobjects.Position { return i.position }
func (i *Interview) Experience() string              { return i.experience }
func (i *Interview) Year() string                    { return i.year }
func (i *Interview) CreatedAt() time.Time            { return i.createdAt }

// Questions returns a copy of the interview's questions in submission order
func (i *Interview) Questions() []Question {
	out := make([]Question, len(i.questions))
	copy(out, i.questions)
	return out
}

// MatchKey returns the normalized identity used for lookups
func (i *Interview) MatchKey() valueobjects.MatchKey {
	return valueobjects.NewMatchKey(i.company, i.role, string(i.position), i.year)
}

// GetUncommittedEvents returns all uncommitted domain events
func (i *Interview) GetUncommittedEvents() []events.DomainEvent {
	return i.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (i *Interview) MarkEventsAsCommitted() {
	i.events = []events.DomainEvent{}
}

func (i *Interview) addEvent(event events.DomainEvent) {
	i.events = append(i.events, event)
}
