package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendDynamoDB = "dynamodb"
	BackendMongoDB  = "mongodb"
	BackendMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress   string        `env:"SERVER_ADDRESS" envDefault:":5000"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Record store
	StoreBackend string        `env:"STORE_BACKEND" envDefault:"dynamodb"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`

	// AWS configuration
	AWSRegion        string `env:"AWS_REGION" envDefault:"us-west-2"`
	DynamoDBTable    string `env:"DYNAMODB_TABLE" envDefault:"interview-bank"`
	MatchIndexName   string `env:"DYNAMODB_MATCH_INDEX" envDefault:"MatchIndex"`
	DynamoDBEndpoint string `env:"DYNAMODB_ENDPOINT"`
	EventBusName     string `env:"EVENT_BUS_NAME"`

	// MongoDB configuration
	MongoURI        string `env:"MONGODB_URI"`
	MongoDatabase   string `env:"MONGODB_DATABASE" envDefault:"interviewbank"`
	MongoCollection string `env:"MONGODB_COLLECTION" envDefault:"interviews"`

	// Circuit breaker around the record store
	BreakerFailureRatio float64       `env:"BREAKER_FAILURE_RATIO" envDefault:"0.6"`
	BreakerMinRequests  uint32        `env:"BREAKER_MIN_REQUESTS" envDefault:"5"`
	BreakerOpenTimeout  time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"30s"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Feature flags
	EnableMetrics bool `env:"ENABLE_METRICS" envDefault:"false"`
	EnableTracing bool `env:"ENABLE_TRACING" envDefault:"false"`
}

// LoadConfig loads a .env file when present, then the process environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))

	switch c.StoreBackend {
	case BackendDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required for the dynamodb backend")
		}
		if c.MatchIndexName == "" {
			return fmt.Errorf("DYNAMODB_MATCH_INDEX is required for the dynamodb backend")
		}
	case BackendMongoDB:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required for the mongodb backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q: must be dynamodb, mongodb or memory", c.StoreBackend)
	}

	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.BreakerFailureRatio)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
