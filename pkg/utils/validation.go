package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"interviewbank/domain/core/valueobjects"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON field names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "topic", parses(valueobjects.ParseTopic))
	mustRegister(v, "roundtype", parses(valueobjects.ParseRoundType))
	mustRegister(v, "difficulty", parses(valueobjects.ParseDifficulty))
	mustRegister(v, "position", parses(valueobjects.ParsePosition))
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// parses adapts an enum parser into a validator rule
func parses[T any](parse func(string) (T, error)) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := parse(fl.Field().String())
		return err == nil
	}
}

// FieldError describes a single failed field rule
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationErrors is returned by ValidateStruct when one or more rules fail
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// ValidateStruct validates a struct based on its validation tags
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError formats validation errors into readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		out := make(ValidationErrors, 0, len(validationErrors))
		for _, e := range validationErrors {
			out = append(out, FieldError{
				Field:   fieldPath(e),
				Rule:    e.Tag(),
				Message: formatFieldError(e),
			})
		}
		return out
	}
	return err
}

// fieldPath drops the top-level struct name, e.g. "CreateInterviewCommand.questions[0].text"
// becomes "questions[0].text".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := fieldPath(e)

	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "topic":
		return fmt.Sprintf("%s must be one of: %s", field, joinEnum(valueobjects.Topics))
	case "roundtype":
		return fmt.Sprintf("%s must be one of: %s", field, joinEnum(valueobjects.RoundTypes))
	case "difficulty":
		return fmt.Sprintf("%s must be one of: %s", field, joinEnum(valueobjects.Difficulties))
	case "position":
		return fmt.Sprintf("%s must be one of: %s", field, joinEnum(valueobjects.Positions))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func joinEnum[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}
