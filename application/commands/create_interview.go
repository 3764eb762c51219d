package commands

import (
	"errors"
	"strings"
	"time"

	"interviewbank/domain/core/entities"
	"interviewbank/domain/core/valueobjects"
	pkgerrors "interviewbank/pkg/errors"
	"interviewbank/pkg/utils"
)

// CreateInterviewCommand represents the command to record a new interview
type CreateInterviewCommand struct {
	Company    string            `json:"company" validate:"notblank"`
	Role       string            `json:"role" validate:"notblank"`
	Position   string            `json:"position" validate:"required,position"`
	Experience string            `json:"experience" validate:"notblank"`
	Year       string            `json:"year" validate:"notblank"`
	Questions  []QuestionPayload `json:"questions" validate:"required,dive"`
}

// QuestionPayload is a question as submitted. Frequency 0 and a nil Recency
// mean the value was not supplied.
type QuestionPayload struct {
	Text       string     `json:"text" validate:"notblank"`
	Topic      string     `json:"topic" validate:"required,topic"`
	RoundType  string     `json:"roundType" validate:"required,roundtype"`
	Difficulty string     `json:"difficulty" validate:"required,difficulty"`
	Frequency  int        `json:"frequency" validate:"omitempty,min=1,max=5"`
	Recency    *time.Time `json:"recency,omitempty"`
}

// questionFields are the question attributes whose absence or invalidity is
// reported with the single entities.MsgInvalidQuestion message.
var questionFields = map[string]bool{
	"text":       true,
	"topic":      true,
	"roundType":  true,
	"difficulty": true,
}

// Validate validates the command. The whole submission is rejected on the
// first problem; nothing is partially accepted.
func (cmd CreateInterviewCommand) Validate() error {
	err := utils.ValidateStruct(cmd)
	if err == nil {
		return nil
	}

	var verrs utils.ValidationErrors
	if !errors.As(err, &verrs) {
		return pkgerrors.NewValidationError(err.Error())
	}

	message := verrs.Error()
	code := pkgerrors.CodeInvalidBody
	for _, fe := range verrs {
		if isQuestionField(fe.Field) {
			message = entities.MsgInvalidQuestion
			code = pkgerrors.CodeInvalidQuestion
			break
		}
	}

	return pkgerrors.NewValidationError(message).
		WithCode(code).
		WithDetails(map[string]interface{}{"fields": []utils.FieldError(verrs)})
}

// isQuestionField reports whether a path like "questions[2].topic" names one
// of the required question attributes.
func isQuestionField(path string) bool {
	if !strings.HasPrefix(path, "questions[") {
		return false
	}
	i := strings.LastIndexByte(path, '.')
	return i >= 0 && questionFields[path[i+1:]]
}

// ToParams converts the command into aggregate construction parameters
func (cmd CreateInterviewCommand) ToParams() entities.InterviewParams {
	var questions []entities.QuestionParams
	if cmd.Questions != nil {
		questions = make([]entities.QuestionParams, len(cmd.Questions))
		for i, q := range cmd.Questions {
			qp := entities.QuestionParams{
				Text:       q.Text,
				Topic:      valueobjects.Topic(q.Topic),
				RoundType:  valueobjects.RoundType(q.RoundType),
				Difficulty: valueobjects.Difficulty(q.Difficulty),
				Frequency:  q.Frequency,
			}
			if q.Recency != nil {
				qp.Recency = *q.Recency
			}
			questions[i] = qp
		}
	}

	return entities.InterviewParams{
		Company:    cmd.Company,
		Role:       cmd.Role,
		Position:   valueobjects.Position(cmd.Position),
		Experience: cmd.Experience,
		Year:       cmd.Year,
		Questions:  questions,
	}
}
