package dynamodb

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"interviewbank/domain/core/entities/entitytest"
	"interviewbank/domain/core/valueobjects"
	pkgerrors "interviewbank/pkg/errors"
)

// fakeDynamoDB keeps items in memory and answers match-index queries one
// item per page so the repository has to follow LastEvaluatedKey.
type fakeDynamoDB struct {
	mu       sync.Mutex
	items    []map[string]types.AttributeValue
	putErr   error
	queryErr error
	queries  int
}

func str(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeDynamoDB) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.putErr != nil {
		return nil, f.putErr
	}

	pk := str(in.Item["PK"])
	for _, item := range f.items {
		if str(item["PK"]) == pk {
			return nil, &types.ConditionalCheckFailedException{Message: stringPtr("conditional check failed")}
		}
	}
	f.items = append(f.items, in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++

	if f.queryErr != nil {
		return nil, f.queryErr
	}

	var want string
	for _, v := range in.ExpressionAttributeValues {
		want = str(v)
	}

	var matches []map[string]types.AttributeValue
	for _, item := range f.items {
		if str(item["GSI1PK"]) == want {
			matches = append(matches, item)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return str(matches[i]["GSI1SK"]) < str(matches[j]["GSI1SK"])
	})

	start := 0
	if in.ExclusiveStartKey != nil {
		for i, m := range matches {
			if str(m["PK"]) == str(in.ExclusiveStartKey["PK"]) {
				start = i + 1
			}
		}
	}
	if start >= len(matches) {
		return &dynamodb.QueryOutput{}, nil
	}

	out := &dynamodb.QueryOutput{Items: matches[start : start+1]}
	if start+1 < len(matches) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{"PK": matches[start]["PK"]}
	}
	return out, nil
}

func (f *fakeDynamoDB) DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return &dynamodb.DescribeTableOutput{}, nil
}

func stringPtr(s string) *string { return &s }

func newTestRepository(fake *fakeDynamoDB) *InterviewRepository {
	return NewInterviewRepository(fake, "interview-bank", "MatchIndex", zap.NewNop())
}

func TestInterviewRepository_SaveAndFindMatching(t *testing.T) {
	ctx := context.Background()
	fake := &fakeDynamoDB{}
	repo := newTestRepository(fake)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	later := entitytest.NewInterviewBuilder().
		WithCreatedAt(base.Add(time.Hour)).
		WithQuestion("second", valueobjects.TopicDP, valueobjects.DifficultyHard).
		Build()
	earlier := entitytest.NewInterviewBuilder().
		WithCreatedAt(base).
		WithQuestion("first", valueobjects.TopicArrays, valueobjects.DifficultyEasy).
		Build()
	other := entitytest.NewInterviewBuilder().
		WithIdentity("Amazon", "SWE", valueobjects.PositionSDE2, "2024").
		Build()

	require.NoError(t, repo.Save(ctx, later))
	require.NoError(t, repo.Save(ctx, earlier))
	require.NoError(t, repo.Save(ctx, other))

	found, err := repo.FindMatching(ctx, valueobjects.NewMatchKey(" GOOGLE ", "swe", "sde2", "2024"))
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, earlier.ID(), found[0].ID())
	assert.Equal(t, later.ID(), found[1].ID())
	assert.GreaterOrEqual(t, fake.queries, 2, "results span several pages")

	q := found[0].Questions()[0]
	assert.Equal(t, "first", q.Text())
	assert.Equal(t, valueobjects.TopicArrays, q.Topic())
	assert.Equal(t, valueobjects.DefaultFrequency, q.Frequency())
	assert.True(t, base.Equal(q.Recency()))
	assert.True(t, base.Equal(found[0].CreatedAt()))
	assert.Equal(t, "Google", found[0].Company(), "stored spelling is kept")
}

func TestInterviewRepository_FindMatching_NoMatchIsEmpty(t *testing.T) {
	repo := newTestRepository(&fakeDynamoDB{})

	found, err := repo.FindMatching(context.Background(), valueobjects.NewMatchKey("Goo", "SWE", "SDE2", "2024"))

	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func TestInterviewRepository_FindMatching_StoreFailure(t *testing.T) {
	fake := &fakeDynamoDB{queryErr: &smithy.GenericAPIError{
		Code:    "ProvisionedThroughputExceededException",
		Message: "rate exceeded",
		Fault:   smithy.FaultServer,
	}}
	repo := newTestRepository(fake)

	_, err := repo.FindMatching(context.Background(), valueobjects.NewMatchKey("a", "b", "c", "d"))

	require.True(t, pkgerrors.IsStoreUnavailable(err))
	details := pkgerrors.GetAppError(err).Details
	assert.Equal(t, "ProvisionedThroughputExceededException", details["code"])
	assert.Equal(t, "server", details["fault"])
}

func TestInterviewRepository_Save_DuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(&fakeDynamoDB{})
	interview := entitytest.NewInterviewBuilder().WithID("fixed-id").Build()

	require.NoError(t, repo.Save(ctx, interview))
	err := repo.Save(ctx, interview)

	require.Error(t, err)
	assert.False(t, pkgerrors.IsStoreUnavailable(err))
}

func TestInterviewRepository_FindMatching_MalformedItemFailsSearch(t *testing.T) {
	ctx := context.Background()
	fake := &fakeDynamoDB{}
	repo := newTestRepository(fake)

	good := entitytest.NewInterviewBuilder().Build()
	require.NoError(t, repo.Save(ctx, good))

	bad, err := attributevalue.MarshalMap(toItem(entitytest.NewInterviewBuilder().WithID("broken").Build()))
	require.NoError(t, err)
	bad["CreatedAt"] = &types.AttributeValueMemberS{Value: "yesterday"}
	fake.items = append(fake.items, bad)

	found, err := repo.FindMatching(ctx, good.MatchKey())

	require.Error(t, err)
	assert.Nil(t, found)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeInternal))
	assert.Contains(t, err.Error(), "broken")
}

func TestInterviewRepository_Save_ValidationExceptionIsRejection(t *testing.T) {
	fake := &fakeDynamoDB{putErr: &smithy.GenericAPIError{
		Code:    "ValidationException",
		Message: "Item size has exceeded the maximum allowed size",
		Fault:   smithy.FaultClient,
	}}
	repo := newTestRepository(fake)

	err := repo.Save(context.Background(), entitytest.NewInterviewBuilder().Build())

	require.Error(t, err)
	assert.False(t, pkgerrors.IsStoreUnavailable(err))
	assert.True(t, pkgerrors.IsValidation(err))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidBody))
	assert.Contains(t, err.Error(), "maximum allowed size")
}

func TestMatchPK_LengthPrefixed(t *testing.T) {
	assert.Equal(t, "MATCH#4:meta|3:swe|4:sde1|4:2024", matchPK(valueobjects.NewMatchKey("Meta", "SWE", "SDE1", "2024")))
}
