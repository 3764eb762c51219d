package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"interviewbank/application/dto"
	"interviewbank/application/ports"
	"interviewbank/application/queries"
	"interviewbank/application/queries/bus"
	"interviewbank/domain/core/entities"
	pkgerrors "interviewbank/pkg/errors"
)

// SearchQuestionsHandler aggregates the questions of every interview
// matching a search's identity, then applies the topic/difficulty filters.
type SearchQuestionsHandler struct {
	repo   ports.InterviewRepository
	logger *zap.Logger
}

// NewSearchQuestionsHandler creates a new search handler
func NewSearchQuestionsHandler(repo ports.InterviewRepository, logger *zap.Logger) *SearchQuestionsHandler {
	return &SearchQuestionsHandler{
		repo:   repo,
		logger: logger,
	}
}

// Handle implements bus.QueryHandler
func (h *SearchQuestionsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.SearchQuestionsQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("unexpected query type %T", query))
	}
	return h.Search(ctx, q)
}

// Search runs the query. Records are visited in store order and each
// record's questions in submission order; nothing is sorted or deduplicated.
func (h *SearchQuestionsHandler) Search(ctx context.Context, q queries.SearchQuestionsQuery) (*queries.SearchQuestionsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	key := q.MatchKey()
	interviews, err := h.repo.FindMatching(ctx, key)
	if err != nil {
		if pkgerrors.IsAppError(err) {
			return nil, err
		}
		return nil, pkgerrors.NewStoreUnavailableError("find", err)
	}

	if len(interviews) == 0 {
		return nil, pkgerrors.NewNotFoundError(queries.MsgNoMatchingData).
			WithCode(pkgerrors.CodeNoMatchingInterviews)
	}

	questions := make([]dto.Question, 0)
	for _, interview := range interviews {
		for _, question := range interview.Questions() {
			if keep(question, q.Topic, q.Difficulty) {
				questions = append(questions, dto.NewQuestion(question))
			}
		}
	}

	if len(questions) == 0 {
		return nil, pkgerrors.NewNotFoundError(queries.MsgNoQuestions).
			WithCode(pkgerrors.CodeNoMatchingQuestions)
	}

	h.logger.Debug("Questions aggregated",
		zap.String("matchKey", key.String()),
		zap.Int("interviews", len(interviews)),
		zap.Int("questions", len(questions)),
	)

	return &queries.SearchQuestionsResult{
		TotalResults:   len(interviews),
		TotalQuestions: len(questions),
		Questions:      questions,
	}, nil
}

// keep applies the optional filters; both are exact, case-sensitive and conjunctive
func keep(q entities.Question, topic, difficulty string) bool {
	if topic != "" && string(q.Topic()) != topic {
		return false
	}
	if difficulty != "" && string(q.Difficulty()) != difficulty {
		return false
	}
	return true
}
