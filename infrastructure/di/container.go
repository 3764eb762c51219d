package di

import (
	"net/http"

	"go.uber.org/zap"

	"interviewbank/application/commands/bus"
	"interviewbank/application/ports"
	querybus "interviewbank/application/queries/bus"
	"interviewbank/infrastructure/config"
	"interviewbank/infrastructure/persistence"
	"interviewbank/interfaces/http/rest"
	pkgerrors "interviewbank/pkg/errors"
	"interviewbank/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Repository   *persistence.CircuitBreakerRepository
	Publisher    ports.EventPublisher
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
	ErrorHandler *pkgerrors.ErrorHandler
	Metrics      *observability.Metrics
	Collector    *observability.Collector
	Tracer       *observability.Tracer
}

// Router builds the HTTP router over the container's buses
func (c *Container) Router() *rest.Router {
	return rest.NewRouter(
		c.CommandBus,
		c.QueryBus,
		c.Repository,
		c.ErrorHandler,
		c.Collector,
		c.Tracer,
		rest.RouterConfig{
			AllowedOrigins: c.Config.AllowedOrigins,
			MaxBodyBytes:   c.Config.MaxBodyBytes,
		},
		c.Logger,
	)
}

// Handler returns the fully configured HTTP handler
func (c *Container) Handler() http.Handler {
	return c.Router().Setup()
}
