//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"interviewbank/application/ports"
	"interviewbank/infrastructure/config"
	"interviewbank/infrastructure/persistence"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideTracer,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideInterviewStore,
	ProvideInterviewRepository,
	wire.Bind(new(ports.InterviewRepository), new(*persistence.CircuitBreakerRepository)),
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideCollector,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideErrorHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil
}
