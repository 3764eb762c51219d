package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"interviewbank/application/ports"
	"interviewbank/domain/core/entities"
	"interviewbank/domain/core/valueobjects"
	pkgerrors "interviewbank/pkg/errors"
)

const codeValidationException = "ValidationException"

// API is the subset of the DynamoDB client the repository uses
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// InterviewRepository implements ports.InterviewRepository using a single
// DynamoDB table with a global secondary index over the match key.
type InterviewRepository struct {
	client    API
	tableName string
	indexName string
	logger    *zap.Logger
}

var (
	_ ports.InterviewRepository = (*InterviewRepository)(nil)
	_ ports.HealthChecker       = (*InterviewRepository)(nil)
)

// NewInterviewRepository creates a new InterviewRepository
func NewInterviewRepository(client API, tableName, indexName string, logger *zap.Logger) *InterviewRepository {
	return &InterviewRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// Save persists an interview. IDs are fresh UUIDs, so the existence
// condition only guards against an accidental overwrite.
func (r *InterviewRepository) Save(ctx context.Context, interview *entities.Interview) error {
	item, err := attributevalue.MarshalMap(toItem(interview))
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal interview").WithCause(err)
	}

	condition := expression.Name("PK").AttributeNotExists()
	expr, err := expression.NewBuilder().WithCondition(condition).Build()
	if err != nil {
		return pkgerrors.NewInternalError("failed to build expression").WithCause(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return pkgerrors.NewInternalError(fmt.Sprintf("interview %s already exists", interview.ID())).WithCause(err)
		}
		return r.storeError("save", err)
	}

	r.logger.Debug("Interview saved",
		zap.String("interviewID", interview.ID()),
		zap.String("table", r.tableName),
	)

	return nil
}

// FindMatching queries the match index. Results come back in ascending
// creation order because GSI1SK starts with the creation timestamp.
func (r *InterviewRepository) FindMatching(ctx context.Context, key valueobjects.MatchKey) ([]*entities.Interview, error) {
	keyExpr := expression.Key("GSI1PK").Equal(expression.Value(matchPK(key)))

	expr, err := expression.NewBuilder().WithKeyCondition(keyExpr).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build expression").WithCause(err)
	}

	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	})

	interviews := make([]*entities.Interview, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, r.storeError("find", err)
		}

		for _, av := range page.Items {
			var item interviewItem
			if err := attributevalue.UnmarshalMap(av, &item); err != nil {
				r.logger.Error("Failed to unmarshal interview item", zap.Error(err))
				return nil, pkgerrors.Wrap(err, "failed to decode interview item")
			}
			interview, err := item.toEntity()
			if err != nil {
				r.logger.Error("Malformed interview item",
					zap.String("interviewID", item.InterviewID),
					zap.Error(err),
				)
				return nil, pkgerrors.Wrap(err, fmt.Sprintf("failed to decode interview %s", item.InterviewID))
			}
			interviews = append(interviews, interview)
		}
	}

	return interviews, nil
}

// Ping checks that the table is reachable
func (r *InterviewRepository) Ping(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return r.storeError("ping", err)
	}
	return nil
}

// storeError converts an SDK failure into a store unavailable error,
// keeping the service's error code when there is one. A ValidationException
// means the request itself was rejected, such as an item over the size
// limit, and is reported as a validation error instead.
func (r *InterviewRepository) storeError(operation string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == codeValidationException {
		r.logger.Warn("DynamoDB rejected request",
			zap.String("operation", operation),
			zap.String("table", r.tableName),
			zap.Error(err),
		)
		return pkgerrors.NewValidationError(fmt.Sprintf("record store rejected %s: %s", operation, apiErr.ErrorMessage())).
			WithCode(pkgerrors.CodeInvalidBody).
			WithCause(err)
	}

	appErr := pkgerrors.NewStoreUnavailableError(operation, err)
	if apiErr != nil {
		appErr.WithDetails(map[string]interface{}{
			"code":  apiErr.ErrorCode(),
			"fault": apiErr.ErrorFault().String(),
		})
	}

	r.logger.Error("DynamoDB operation failed",
		zap.String("operation", operation),
		zap.String("table", r.tableName),
		zap.Error(err),
	)
	return appErr
}
