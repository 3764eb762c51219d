// Package entitytest provides builders for interview fixtures in tests.
package entitytest

import (
	"time"

	"github.com/google/uuid"

	"interviewbank/domain/core/entities"
	"interviewbank/domain/core/valueobjects"
)

// InterviewBuilder helps create stored interviews with default values
type InterviewBuilder struct {
	id         string
	company    string
	role       string
	position   valueobjects.Position
	experience string
	year       string
	questions  []entities.Question
	createdAt  time.Time
}

func NewInterviewBuilder() *InterviewBuilder {
	return &InterviewBuilder{
		id:         uuid.New().String(),
		company:    "Google",
		role:       "SWE",
		position:   valueobjects.PositionSDE2,
		experience: "2 years",
		year:       "2024",
		questions:  []entities.Question{},
		createdAt:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *InterviewBuilder) WithID(id string) *InterviewBuilder {
	b.id = id
	return b
}

func (b *InterviewBuilder) WithIdentity(company, role string, position valueobjects.Position, year string) *InterviewBuilder {
	b.company, b.role, b.position, b.year = company, role, position, year
	return b
}

func (b *InterviewBuilder) WithCreatedAt(t time.Time) *InterviewBuilder {
	b.createdAt = t
	return b
}

// WithQuestion appends a question with default round type, frequency and recency
func (b *InterviewBuilder) WithQuestion(text string, topic valueobjects.Topic, difficulty valueobjects.Difficulty) *InterviewBuilder {
	b.questions = append(b.questions, entities.ReconstructQuestion(
		text, topic, valueobjects.RoundTechnical, difficulty, valueobjects.DefaultFrequency, b.createdAt,
	))
	return b
}

func (b *InterviewBuilder) WithQuestions(qs ...entities.Question) *InterviewBuilder {
	b.questions = append(b.questions, qs...)
	return b
}

func (b *InterviewBuilder) Build() *entities.Interview {
	return entities.ReconstructInterview(
		b.id, b.company, b.role, b.position, b.experience, b.year, b.questions, b.createdAt,
	)
}
