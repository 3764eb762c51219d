package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"interviewbank/application/ports"
	"interviewbank/domain/core/entities"
	"interviewbank/domain/core/valueobjects"
	pkgerrors "interviewbank/pkg/errors"
)

// CircuitBreakerConfig holds configuration for the store circuit breaker
type CircuitBreakerConfig struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// DefaultCircuitBreakerConfig returns a default configuration for the store breaker
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.6,
		MinRequests:  5,
	}
}

// CircuitBreakerRepository fails fast with a store unavailable error while
// the wrapped repository keeps failing. Each call reaches the store at most
// once; nothing is retried.
type CircuitBreakerRepository struct {
	next   ports.InterviewRepository
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

var _ ports.InterviewRepository = (*CircuitBreakerRepository)(nil)

// NewCircuitBreakerRepository wraps next with a circuit breaker
func NewCircuitBreakerRepository(next ports.InterviewRepository, config CircuitBreakerConfig, logger *zap.Logger) *CircuitBreakerRepository {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// Only an unreachable store counts against the breaker
		IsSuccessful: func(err error) bool {
			return err == nil || !pkgerrors.IsStoreUnavailable(err)
		},
	})

	return &CircuitBreakerRepository{
		next:   next,
		cb:     cb,
		logger: logger,
	}
}

// Save implements ports.InterviewRepository
func (r *CircuitBreakerRepository) Save(ctx context.Context, interview *entities.Interview) error {
	_, err := r.execute(ctx, func() (interface{}, error) {
		return nil, r.next.Save(ctx, interview)
	})
	return r.translate("save", err)
}

// FindMatching implements ports.InterviewRepository
func (r *CircuitBreakerRepository) FindMatching(ctx context.Context, key valueobjects.MatchKey) ([]*entities.Interview, error) {
	result, err := r.execute(ctx, func() (interface{}, error) {
		return r.next.FindMatching(ctx, key)
	})
	if err != nil {
		return nil, r.translate("find", err)
	}
	return result.([]*entities.Interview), nil
}

// Ping forwards to the wrapped repository when it supports health checks
func (r *CircuitBreakerRepository) Ping(ctx context.Context) error {
	if r.cb.State() == gobreaker.StateOpen {
		return pkgerrors.NewStoreUnavailableError("ping", gobreaker.ErrOpenState)
	}
	if hc, ok := r.next.(ports.HealthChecker); ok {
		return hc.Ping(ctx)
	}
	return nil
}

// execute runs fn through the breaker. A failure that happens after the
// caller's context has ended is returned to the caller but recorded as a
// success, so cancelled or timed out requests never open the breaker.
func (r *CircuitBreakerRepository) execute(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	var callerErr error
	result, err := r.cb.Execute(func() (interface{}, error) {
		result, err := fn()
		if err != nil && ctx.Err() != nil {
			callerErr = err
			return nil, nil
		}
		return result, err
	})
	if callerErr != nil {
		return nil, callerErr
	}
	return result, err
}

// State reports the breaker state
func (r *CircuitBreakerRepository) State() gobreaker.State {
	return r.cb.State()
}

func (r *CircuitBreakerRepository) translate(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		r.logger.Warn("Record store call rejected by circuit breaker",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return pkgerrors.NewStoreUnavailableError(operation, err)
	}
	return err
}
