package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"interviewbank/application/commands"
	"interviewbank/application/commands/bus"
	commandhandlers "interviewbank/application/commands/handlers"
	"interviewbank/application/ports"
	"interviewbank/application/queries"
	querybus "interviewbank/application/queries/bus"
	queryhandlers "interviewbank/application/queries/handlers"
	"interviewbank/infrastructure/config"
	"interviewbank/infrastructure/messaging"
	"interviewbank/infrastructure/messaging/eventbridge"
	"interviewbank/infrastructure/persistence"
	"interviewbank/infrastructure/persistence/dynamodb"
	"interviewbank/infrastructure/persistence/memory"
	"interviewbank/infrastructure/persistence/mongodb"
	pkgerrors "interviewbank/pkg/errors"
	"interviewbank/pkg/observability"
)

const serviceName = "interviewbank"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = logger.Sync()
	}
	return logger, cleanup, nil
}

// ProvideTracer returns nil when tracing is disabled
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer(serviceName)
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config, tracer *observability.Tracer) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if tracer != nil {
		tracer.InstrumentAWS(&awsCfg)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client, honouring DYNAMODB_ENDPOINT
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideInterviewStore opens the configured record store backend
func ProvideInterviewStore(
	ctx context.Context,
	cfg *config.Config,
	dynamoClient *awsdynamodb.Client,
	logger *zap.Logger,
) (ports.InterviewStore, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case config.BackendDynamoDB:
		logger.Info("Using DynamoDB record store",
			zap.String("table", cfg.DynamoDBTable),
			zap.String("index", cfg.MatchIndexName),
		)
		return dynamodb.NewInterviewRepository(dynamoClient, cfg.DynamoDBTable, cfg.MatchIndexName, logger), noop, nil

	case config.BackendMongoDB:
		client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.StoreTimeout)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("Failed to disconnect from MongoDB", zap.Error(err))
			}
		}

		repo := mongodb.NewInterviewRepository(client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection), logger)

		indexCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
		defer cancel()
		if err := repo.EnsureIndexes(indexCtx); err != nil {
			cleanup()
			return nil, nil, err
		}

		logger.Info("Using MongoDB record store",
			zap.String("database", cfg.MongoDatabase),
			zap.String("collection", cfg.MongoCollection),
		)
		return repo, cleanup, nil

	case config.BackendMemory:
		logger.Warn("Using in-memory record store; data is lost on restart")
		return memory.NewInMemoryInterviewRepository(), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// ProvideInterviewRepository guards the store with a circuit breaker
func ProvideInterviewRepository(store ports.InterviewStore, cfg *config.Config, logger *zap.Logger) *persistence.CircuitBreakerRepository {
	breakerCfg := persistence.DefaultCircuitBreakerConfig(fmt.Sprintf("%s-store", cfg.StoreBackend))
	breakerCfg.FailureRatio = cfg.BreakerFailureRatio
	breakerCfg.MinRequests = cfg.BreakerMinRequests
	breakerCfg.Timeout = cfg.BreakerOpenTimeout

	return persistence.NewCircuitBreakerRepository(store, breakerCfg, logger)
}

// ProvideEventPublisher publishes to EventBridge, or to the log when no bus is configured
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return messaging.NewLoggingPublisher(logger)
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates the CloudWatch metrics sink. It records nothing
// unless metrics are enabled.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("InterviewBank/%s", cfg.Environment)
	if !cfg.EnableMetrics {
		return observability.NewMetrics(namespace, nil, logger)
	}
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideCollector returns nil when metrics are disabled
func ProvideCollector(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector(serviceName)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	repo ports.InterviewRepository,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	collector *observability.Collector,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	middlewares := []bus.Middleware{
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(metrics),
	}
	if collector != nil {
		middlewares = append(middlewares, bus.MetricsMiddleware(collector))
	}
	if tracer != nil {
		middlewares = append(middlewares, tracer.CommandMiddleware())
	}

	commandBus := bus.NewCommandBus(middlewares...)

	createInterviewHandler := commandhandlers.NewCreateInterviewHandler(repo, publisher, logger)
	if err := commandBus.Register(commands.CreateInterviewCommand{}, createInterviewHandler); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	repo ports.InterviewRepository,
	metrics *observability.Metrics,
	collector *observability.Collector,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	middlewares := []querybus.Middleware{
		querybus.LoggingMiddleware(logger),
		querybus.MetricsMiddleware(metrics),
	}
	if collector != nil {
		middlewares = append(middlewares, querybus.MetricsMiddleware(collector))
	}
	if tracer != nil {
		middlewares = append(middlewares, tracer.QueryMiddleware())
	}

	queryBus := querybus.NewQueryBus(middlewares...)

	searchHandler := queryhandlers.NewSearchQuestionsHandler(repo, logger)
	if err := queryBus.Register(queries.SearchQuestionsQuery{}, searchHandler); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideErrorHandler exposes stack traces outside production
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}
