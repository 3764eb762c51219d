package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"interviewbank/application/ports"
	"interviewbank/domain/core/entities"
	"interviewbank/domain/core/valueobjects"
	pkgerrors "interviewbank/pkg/errors"
)

const matchIndexName = "match_identity"

// InterviewRepository implements ports.InterviewRepository on a MongoDB collection
type InterviewRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

var (
	_ ports.InterviewRepository = (*InterviewRepository)(nil)
	_ ports.HealthChecker       = (*InterviewRepository)(nil)
)

// Connect opens a client and verifies the deployment answers within timeout
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// NewInterviewRepository creates a new InterviewRepository
func NewInterviewRepository(coll *mongo.Collection, logger *zap.Logger) *InterviewRepository {
	return &InterviewRepository{
		coll:   coll,
		logger: logger,
	}
}

// EnsureIndexes creates the compound index over the normalized identity
func (r *InterviewRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "match.company", Value: 1},
			{Key: "match.role", Value: 1},
			{Key: "match.position", Value: 1},
			{Key: "match.year", Value: 1},
		},
		Options: options.Index().SetName(matchIndexName),
	})
	if err != nil {
		return pkgerrors.NewStoreUnavailableError("create index", err)
	}
	return nil
}

// Save inserts an interview document
func (r *InterviewRepository) Save(ctx context.Context, interview *entities.Interview) error {
	_, err := r.coll.InsertOne(ctx, toDocument(interview))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return pkgerrors.NewInternalError(fmt.Sprintf("interview %s already exists", interview.ID())).WithCause(err)
		}
		return r.storeError("save", err)
	}

	r.logger.Debug("Interview saved",
		zap.String("interviewID", interview.ID()),
		zap.String("collection", r.coll.Name()),
	)
	return nil
}

// FindMatching returns matching interviews in the collection's natural order
func (r *InterviewRepository) FindMatching(ctx context.Context, key valueobjects.MatchKey) ([]*entities.Interview, error) {
	filter := bson.D{
		{Key: "match.company", Value: key.Company},
		{Key: "match.role", Value: key.Role},
		{Key: "match.position", Value: key.Position},
		{Key: "match.year", Value: key.Year},
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, r.storeError("find", err)
	}
	defer cursor.Close(ctx)

	interviews := make([]*entities.Interview, 0)
	for cursor.Next(ctx) {
		var doc interviewDocument
		if err := cursor.Decode(&doc); err != nil {
			r.logger.Error("Failed to decode interview document", zap.Error(err))
			return nil, pkgerrors.Wrap(err, "failed to decode interview document")
		}
		interviews = append(interviews, doc.toEntity())
	}
	if err := cursor.Err(); err != nil {
		return nil, r.storeError("find", err)
	}

	return interviews, nil
}

// Ping checks the deployment is reachable
func (r *InterviewRepository) Ping(ctx context.Context) error {
	if err := r.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return r.storeError("ping", err)
	}
	return nil
}

func (r *InterviewRepository) storeError(operation string, err error) error {
	appErr := pkgerrors.NewStoreUnavailableError(operation, err)

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		appErr.WithDetails(map[string]interface{}{
			"code": cmdErr.Code,
			"name": cmdErr.Name,
		})
	}

	r.logger.Error("MongoDB operation failed",
		zap.String("operation", operation),
		zap.String("collection", r.coll.Name()),
		zap.Error(err),
	)
	return appErr
}
