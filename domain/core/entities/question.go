package entities

import (
	"strings"
	"time"

	"interviewbank/domain/core/valueobjects"
	pkgerrors "interviewbank/pkg/errors"
)

// MsgInvalidQuestion is reported when a question lacks one of its required fields
const MsgInvalidQuestion = "Each question must have text, topic, roundType, and difficulty"

// Question is a single interview question embedded in an Interview.
// It has no identity of its own.
type Question struct {
	text       string
	topic      valueobjects.Topic
	roundType  valueobjects.RoundType
	difficulty valueobjects.Difficulty
	frequency  int
	recency    time.Time
}

// QuestionParams carries the caller-supplied fields of a question.
// A zero Frequency or Recency means the value was not supplied.
type QuestionParams struct {
	Text       string
	Topic      valueobjects.Topic
	RoundType  valueobjects.RoundType
	Difficulty valueobjects.Difficulty
	Frequency  int
	Recency    time.Time
}

// NewQuestion validates p and applies defaults: frequency 3 and recency now
func NewQuestion(p QuestionParams, now time.Time) (Question, error) {
	if strings.TrimSpace(p.Text) == "" || p.Topic == "" || p.RoundType == "" || p.Difficulty == "" {
		return Question{}, pkgerrors.NewValidationError(MsgInvalidQuestion).
			WithCode(pkgerrors.CodeInvalidQuestion)
	}
	if !p.Topic.IsValid() {
		return Question{}, invalidQuestionField("topic", string(p.Topic))
	}
	if !p.RoundType.IsValid() {
		return Question{}, invalidQuestionField("roundType", string(p.RoundType))
	}
	if !p.Difficulty.IsValid() {
		return Question{}, invalidQuestionField("difficulty", string(p.Difficulty))
	}

	frequency := p.Frequency
	if frequency == 0 {
		frequency = valueobjects.DefaultFrequency
	}
	if !valueobjects.ValidFrequency(frequency) {
		return Question{}, pkgerrors.NewValidationError("frequency must be between 1 and 5").
			WithCode(pkgerrors.CodeInvalidQuestion).
			WithDetails(map[string]interface{}{"frequency": p.Frequency})
	}

	recency := p.Recency
	if recency.IsZero() {
		recency = now
	}

	return Question{
		text:       p.Text,
		topic:      p.Topic,
		roundType:  p.RoundType,
		difficulty: p.Difficulty,
		frequency:  frequency,
		recency:    recency,
	}, nil
}

// ReconstructQuestion rebuilds a stored question without re-applying defaults
func ReconstructQuestion(text string, topic valueobjects.Topic, roundType valueobjects.RoundType,
	difficulty valueobjects.Difficulty, frequency int, recency time.Time) Question {
	return Question{
		text:       text,
		topic:      topic,
		roundType:  roundType,
		difficulty: difficulty,
		frequency:  frequency,
		recency:    recency,
	}
}

func (q Question) Text() string                        { return q.text }
func (q Question) Topic() valueobjects.Topic           { return q.topic }
func (q Question) RoundType() valueobjects.RoundType   { return q.roundType }
func (q Question) Difficulty() valueobjects.Difficulty { return q.difficulty }
func (q Question) Frequency() int                      { return q.frequency }
func (q Question) Recency() time.Time                  { return q.recency }

func invalidQuestionField(field, value string) error {
	return pkgerrors.NewValidationError(MsgInvalidQuestion).
		WithCode(pkgerrors.CodeInvalidQuestion).
		WithDetails(map[string]interface{}{"field": field, "value": value})
}
