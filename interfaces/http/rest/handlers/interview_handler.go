package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"interviewbank/application/commands"
	"interviewbank/application/commands/bus"
	"interviewbank/application/dto"
	"interviewbank/application/queries"
	querybus "interviewbank/application/queries/bus"
	"interviewbank/domain/core/entities"
	pkgerrors "interviewbank/pkg/errors"
)

// MsgInterviewSaved is returned with a newly created interview
const MsgInterviewSaved = "Interview data saved successfully"

// InterviewHandler handles interview HTTP requests
type InterviewHandler struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *InterviewHandler {
	return &InterviewHandler{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// CreateInterviewResponse wraps the stored interview
type CreateInterviewResponse struct {
	Message string        `json:"message"`
	Data    dto.Interview `json:"data"`
}

// CreateInterview handles POST /api/interview
func (h *InterviewHandler) CreateInterview(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateInterviewCommand
	if err := decodeJSON(r, &cmd); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.commandBus.Execute(r.Context(), cmd)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	interview, ok := result.(*entities.Interview)
	if !ok {
		h.errorHandler.Handle(w, r, pkgerrors.NewInternalError(fmt.Sprintf("unexpected result type %T", result)))
		return
	}

	h.logger.Info("Interview recorded",
		zap.String("interviewId", interview.ID()),
		zap.Int("questions", len(interview.Questions())),
	)

	h.respondJSON(w, http.StatusCreated, CreateInterviewResponse{
		Message: MsgInterviewSaved,
		Data:    dto.NewInterview(interview),
	})
}

// SearchQuestions handles GET /api/interview/search
func (h *InterviewHandler) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := queries.SearchQuestionsQuery{
		Company:    params.Get("company"),
		Role:       params.Get("role"),
		Position:   params.Get("position"),
		Year:       params.Get("year"),
		Topic:      params.Get("topic"),
		Difficulty: params.Get("difficulty"),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *InterviewHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// decodeJSON decodes a single JSON value from the request body
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return pkgerrors.NewValidationError("request body is required").WithCode(pkgerrors.CodeInvalidBody)
	}

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}

	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return pkgerrors.NewValidationError("request body is required").WithCode(pkgerrors.CodeInvalidBody)
	case errors.As(err, &maxBytesErr):
		return pkgerrors.NewValidationError(fmt.Sprintf("request body exceeds %d bytes", maxBytesErr.Limit)).
			WithCode(pkgerrors.CodeInvalidBody)
	default:
		return pkgerrors.NewValidationError("Invalid request body: " + err.Error()).
			WithCode(pkgerrors.CodeInvalidBody).
			WithCause(err)
	}
}
