package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pkgerrors "interviewbank/pkg/errors"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{pkgerrors.NewNotFoundError("none"), "not_found"},
		{pkgerrors.NewValidationError("bad"), "rejected"},
		{pkgerrors.NewMissingParameterError("missing", "year"), "rejected"},
		{pkgerrors.NewStoreUnavailableError("find", errors.New("down")), "failure"},
		{errors.New("boom"), "failure"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, outcome(tt.err))
	}
}

func TestMetrics_RecordOperation(t *testing.T) {
	client := &fakeCloudWatch{}
	m := NewMetrics("InterviewBank", client, zap.NewNop())

	m.RecordOperation(context.Background(), "query", "SearchQuestionsQuery", 25*time.Millisecond, nil)

	require.Len(t, client.inputs, 1)
	input := client.inputs[0]
	assert.Equal(t, "InterviewBank", aws.ToString(input.Namespace))
	require.Len(t, input.MetricData, 2)
	assert.Equal(t, "OperationLatency", aws.ToString(input.MetricData[0].MetricName))
	assert.Equal(t, float64(25), aws.ToFloat64(input.MetricData[0].Value))
	assert.Equal(t, "OperationCount", aws.ToString(input.MetricData[1].MetricName))

	dims := map[string]string{}
	for _, d := range input.MetricData[0].Dimensions {
		dims[aws.ToString(d.Name)] = aws.ToString(d.Value)
	}
	assert.Equal(t, map[string]string{"Kind": "query", "Name": "SearchQuestionsQuery", "Status": "success"}, dims)
}

func TestMetrics_FailuresAreSwallowed(t *testing.T) {
	client := &fakeCloudWatch{err: errors.New("throttled")}
	m := NewMetrics("InterviewBank", client, zap.NewNop())

	assert.NotPanics(t, func() {
		m.RecordOperation(context.Background(), "command", "CreateInterviewCommand", time.Second, errors.New("boom"))
	})
	require.Len(t, client.inputs, 1)
	for _, d := range client.inputs[0].MetricData[0].Dimensions {
		if aws.ToString(d.Name) == "Status" {
			assert.Equal(t, "failure", aws.ToString(d.Value))
		}
	}
}

func TestMetrics_NilClientIsNoop(t *testing.T) {
	m := NewMetrics("InterviewBank", nil, zap.NewNop())
	assert.NotPanics(t, func() {
		m.RecordOperation(context.Background(), "command", "CreateInterviewCommand", time.Second, nil)
	})

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.RecordOperation(context.Background(), "query", "SearchQuestionsQuery", time.Second, nil)
	})
}

func TestCollector_RecordOperation(t *testing.T) {
	c := NewCollector("interviewbank")

	c.RecordOperation(context.Background(), "command", "CreateInterviewCommand", time.Millisecond, nil)
	c.RecordOperation(context.Background(), "query", "SearchQuestionsQuery", time.Millisecond, pkgerrors.NewNotFoundError("none"))
	c.RecordOperation(context.Background(), "query", "SearchQuestionsQuery", time.Millisecond, pkgerrors.NewNotFoundError("none"))

	assert.Equal(t, float64(1), testutil.ToFloat64(c.Operations.WithLabelValues("command", "CreateInterviewCommand", "success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.Operations.WithLabelValues("query", "SearchQuestionsQuery", "not_found")))
}

func TestCollector_MiddlewareUsesRoutePattern(t *testing.T) {
	c := NewCollector("interviewbank")

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/api/interview/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Method(http.MethodGet, "/metrics", c.Handler())

	req := httptest.NewRequest(http.MethodGet, "/api/interview/search?company=x", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.HTTPRequests.WithLabelValues(http.MethodGet, "/api/interview/search", "404")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "interviewbank_http_requests_total"))
}

func TestTracer_TraceFunctionWithoutSegment(t *testing.T) {
	tracer := NewTracer("interviewbank")
	want := errors.New("boom")

	called := false
	err := tracer.TraceFunction(context.Background(), "op", func(ctx context.Context) error {
		called = true
		return want
	})

	assert.True(t, called)
	assert.ErrorIs(t, err, want)
}
