// Package dto holds the JSON shapes returned to callers.
package dto

import (
	"time"

	"interviewbank/domain/core/entities"
)

// Question is the wire form of a question
type Question struct {
	Text       string    `json:"text"`
	Topic      string    `json:"topic"`
	RoundType  string    `json:"roundType"`
	Difficulty string    `json:"difficulty"`
	Frequency  int       `json:"frequency"`
	Recency    time.Time `json:"recency"`
}

// Interview is the wire form of a persisted interview
type Interview struct {
	ID         string     `json:"id"`
	Company    string     `json:"company"`
	Role       string     `json:"role"`
	Position   string     `json:"position"`
	Experience string     `json:"experience"`
	Year       string     `json:"year"`
	Questions  []Question `json:"questions"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func NewQuestion(q entities.Question) Question {
	return Question{
		Text:       q.Text(),
		Topic:      string(q.Topic()),
		RoundType:  string(q.RoundType()),
		Difficulty: string(q.Difficulty()),
		Frequency:  q.Frequency(),
		Recency:    q.Recency(),
	}
}

func NewInterview(i *entities.Interview) Interview {
	qs := i.Questions()
	questions := make([]Question, len(qs))
	for idx, q := range qs {
		questions[idx] = NewQuestion(q)
	}
	return Interview{
		ID:         i.ID(),
		Company:    i.Company(),
		Role:       i.Role(),
		Position:   string(i.Position()),
		Experience: i.Experience(),
		Year:       i.Year(),
		Questions:  questions,
		CreatedAt:  i.CreatedAt(),
	}
}
