package memory

import (
	"context"
	"fmt"
	"sync"

	"interviewbank/application/ports"
	"interviewbank/domain/core/entities"
	"interviewbank/domain/core/valueobjects"
	pkgerrors "interviewbank/pkg/errors"
)

// InMemoryInterviewRepository keeps interviews in insertion order.
// Used for local development and tests.
type InMemoryInterviewRepository struct {
	mu         sync.RWMutex
	interviews []*entities.Interview
	ids        map[string]struct{}
}

var (
	_ ports.InterviewRepository = (*InMemoryInterviewRepository)(nil)
	_ ports.HealthChecker       = (*InMemoryInterviewRepository)(nil)
)

// NewInMemoryInterviewRepository creates an empty repository
func NewInMemoryInterviewRepository() *InMemoryInterviewRepository {
	return &InMemoryInterviewRepository{
		ids: make(map[string]struct{}),
	}
}

// Save stores a copy of the interview
func (r *InMemoryInterviewRepository) Save(ctx context.Context, interview *entities.Interview) error {
	if err := ctx.Err(); err != nil {
		return pkgerrors.NewStoreUnavailableError("save", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ids[interview.ID()]; exists {
		return pkgerrors.NewInternalError(fmt.Sprintf("interview %s already exists", interview.ID()))
	}

	r.ids[interview.ID()] = struct{}{}
	r.interviews = append(r.interviews, clone(interview))
	return nil
}

// FindMatching returns copies of matching interviews in insertion order
func (r *InMemoryInterviewRepository) FindMatching(ctx context.Context, key valueobjects.MatchKey) ([]*entities.Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.NewStoreUnavailableError("find", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Interview, 0)
	for _, interview := range r.interviews {
		if interview.MatchKey().Matches(key) {
			out = append(out, clone(interview))
		}
	}
	return out, nil
}

// Ping always succeeds
func (r *InMemoryInterviewRepository) Ping(ctx context.Context) error {
	return nil
}

// Count returns the number of stored interviews
func (r *InMemoryInterviewRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.interviews)
}

func clone(i *entities.Interview) *entities.Interview {
	return entities.ReconstructInterview(
		i.ID(), i.Company(), i.Role(), i.Position(), i.Experience(), i.Year(), i.Questions(), i.CreatedAt(),
	)
}
