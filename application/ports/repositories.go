package ports

import (
	"context"

	"interviewbank/domain/core/entities"
	"interviewbank/domain/core/valueobjects"
	"interviewbank/domain/events"
)

// InterviewRepository defines the interface for interview persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type InterviewRepository interface {
	// Save persists a new, fully validated interview
	Save(ctx context.Context, interview *entities.Interview) error

	// FindMatching returns every interview whose normalized identity equals key,
	// in the store's native order. No match is an empty slice, not an error.
	FindMatching(ctx context.Context, key valueobjects.MatchKey) ([]*entities.Interview, error)
}

// HealthChecker is implemented by stores that can report readiness
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// InterviewStore is a record store backend that can also report readiness
type InterviewStore interface {
	InterviewRepository
	HealthChecker
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
