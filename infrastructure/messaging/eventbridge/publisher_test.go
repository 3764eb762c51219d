package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"interviewbank/domain/events"
)

type fakeEventBridge struct {
	calls  []*eventbridge.PutEventsInput
	failed int32
	err    error
}

func (f *fakeEventBridge) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}

	out := &eventbridge.PutEventsOutput{FailedEntryCount: f.failed}
	for i := range params.Entries {
		entry := types.PutEventsResultEntry{EventId: aws.String("evt")}
		if int32(i) < f.failed {
			entry = types.PutEventsResultEntry{ErrorCode: aws.String("InternalFailure"), ErrorMessage: aws.String("boom")}
		}
		out.Entries = append(out.Entries, entry)
	}
	return out, nil
}

func recorded(id string) events.DomainEvent {
	return events.NewInterviewRecorded(id, "Google", "SWE", "SDE2", "2024", 2, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
}

func TestPublisher_Publish(t *testing.T) {
	client := &fakeEventBridge{}
	p := NewPublisher(client, "interviews", zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), recorded("abc")))

	require.Len(t, client.calls, 1)
	entry := client.calls[0].Entries[0]
	assert.Equal(t, "interviews", aws.ToString(entry.EventBusName))
	assert.Equal(t, events.SourceInterviewBank, aws.ToString(entry.Source))
	assert.Equal(t, events.EventTypeInterviewRecorded, aws.ToString(entry.DetailType))

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, "abc", detail["interview_id"])
	assert.Equal(t, "Google", detail["company"])
	assert.Equal(t, float64(2), detail["question_count"])
}

func TestPublisher_PublishBatchChunks(t *testing.T) {
	client := &fakeEventBridge{}
	p := NewPublisher(client, "interviews", zap.NewNop())

	batch := make([]events.DomainEvent, 0, 23)
	for i := 0; i < 23; i++ {
		batch = append(batch, recorded("id"))
	}

	require.NoError(t, p.PublishBatch(context.Background(), batch))
	require.Len(t, client.calls, 3)
	assert.Len(t, client.calls[0].Entries, 10)
	assert.Len(t, client.calls[1].Entries, 10)
	assert.Len(t, client.calls[2].Entries, 3)
}

func TestPublisher_EmptyBatch(t *testing.T) {
	client := &fakeEventBridge{}
	p := NewPublisher(client, "interviews", zap.NewNop())

	require.NoError(t, p.PublishBatch(context.Background(), nil))
	assert.Empty(t, client.calls)
}

func TestPublisher_Failures(t *testing.T) {
	t.Run("client error", func(t *testing.T) {
		client := &fakeEventBridge{err: errors.New("throttled")}
		p := NewPublisher(client, "interviews", zap.NewNop())

		err := p.Publish(context.Background(), recorded("abc"))
		assert.ErrorIs(t, err, client.err)
	})

	t.Run("failed entries", func(t *testing.T) {
		client := &fakeEventBridge{failed: 1}
		p := NewPublisher(client, "interviews", zap.NewNop())

		err := p.PublishBatch(context.Background(), []events.DomainEvent{recorded("a"), recorded("b")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 events failed")
	})
}
