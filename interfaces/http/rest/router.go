package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"interviewbank/application/commands/bus"
	"interviewbank/application/ports"
	querybus "interviewbank/application/queries/bus"
	"interviewbank/interfaces/http/rest/handlers"
	"interviewbank/interfaces/http/rest/middleware"
	pkgerrors "interviewbank/pkg/errors"
	"interviewbank/pkg/observability"
)

const readinessTimeout = 2 * time.Second

// RouterConfig holds the HTTP settings the router applies
type RouterConfig struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	health       ports.HealthChecker
	errorHandler *pkgerrors.ErrorHandler
	collector    *observability.Collector
	tracer       *observability.Tracer
	config       RouterConfig
	logger       *zap.Logger
}

// NewRouter creates a new router instance. collector and tracer may be nil.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	health ports.HealthChecker,
	errorHandler *pkgerrors.ErrorHandler,
	collector *observability.Collector,
	tracer *observability.Tracer,
	config RouterConfig,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus:   commandBus,
		queryBus:     queryBus,
		health:       health,
		errorHandler: errorHandler,
		collector:    collector,
		tracer:       tracer,
		config:       config,
		logger:       logger,
	}
}

// Setup configures all routes and middleware, wrapped in an X-Ray segment
// per request when tracing is enabled
func (rt *Router) Setup() http.Handler {
	router := rt.Mux()
	if rt.tracer != nil {
		return rt.tracer.HTTPMiddleware(router)
	}
	return router
}

// Mux configures all routes and middleware without request tracing
func (rt *Router) Mux() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	router.Use(rt.errorHandler.Middleware)
	if rt.collector != nil {
		router.Use(rt.collector.Middleware)
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{chimiddleware.RequestIDHeader},
		MaxAge:         300,
	}))
	router.Use(middleware.MaxBodyBytes(rt.config.MaxBodyBytes))

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.collector != nil {
		router.Method(http.MethodGet, "/metrics", rt.collector.Handler())
	}

	router.Route("/api/interview", func(r chi.Router) {
		interviewHandler := handlers.NewInterviewHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)
		r.Post("/", interviewHandler.CreateInterview)
		r.Get("/search", interviewHandler.SearchQuestions)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready only when the record store answers
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if rt.health != nil {
		ctx, cancel := context.WithTimeout(req.Context(), readinessTimeout)
		defer cancel()

		if err := rt.health.Ping(ctx); err != nil {
			rt.errorHandler.Handle(w, req, err)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
