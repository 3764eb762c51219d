package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"interviewbank/application/commands"
	"interviewbank/application/commands/bus"
	"interviewbank/application/ports"
	"interviewbank/domain/core/entities"
	pkgerrors "interviewbank/pkg/errors"
)

// CreateInterviewHandler validates, persists and announces new interviews
type CreateInterviewHandler struct {
	repo      ports.InterviewRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewCreateInterviewHandler creates a new handler instance
func NewCreateInterviewHandler(
	repo ports.InterviewRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *CreateInterviewHandler {
	return &CreateInterviewHandler{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle implements bus.CommandHandler
func (h *CreateInterviewHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	create, ok := cmd.(commands.CreateInterviewCommand)
	if !ok {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("unexpected command type %T", cmd))
	}
	return h.Create(ctx, create)
}

// Create records a new interview and returns it as persisted
func (h *CreateInterviewHandler) Create(ctx context.Context, cmd commands.CreateInterviewCommand) (*entities.Interview, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	interview, err := entities.NewInterview(cmd.ToParams())
	if err != nil {
		return nil, err
	}

	if err := h.repo.Save(ctx, interview); err != nil {
		if pkgerrors.IsAppError(err) {
			return nil, err
		}
		return nil, pkgerrors.NewStoreUnavailableError("save", err)
	}

	// The record is already durable, so a failed publish is only logged
	if evts := interview.GetUncommittedEvents(); len(evts) > 0 {
		if err := h.publisher.PublishBatch(ctx, evts); err != nil {
			h.logger.Warn("Failed to publish interview events",
				zap.String("interviewID", interview.ID()),
				zap.Int("eventCount", len(evts)),
				zap.Error(err),
			)
		}
	}
	interview.MarkEventsAsCommitted()

	h.logger.Info("Interview recorded",
		zap.String("interviewID", interview.ID()),
		zap.String("company", interview.Company()),
		zap.Int("questionCount", len(interview.Questions())),
	)

	return interview, nil
}
