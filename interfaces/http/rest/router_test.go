package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"interviewbank/application/commands"
	"interviewbank/application/commands/bus"
	commandhandlers "interviewbank/application/commands/handlers"
	"interviewbank/application/ports"
	"interviewbank/application/ports/mocks"
	"interviewbank/application/queries"
	querybus "interviewbank/application/queries/bus"
	queryhandlers "interviewbank/application/queries/handlers"
	"interviewbank/infrastructure/messaging"
	"interviewbank/infrastructure/persistence/memory"
	pkgerrors "interviewbank/pkg/errors"
	"interviewbank/pkg/observability"
)

type testServer struct {
	handler   http.Handler
	collector *observability.Collector
}

func newTestServer(t *testing.T, repo ports.InterviewRepository, health ports.HealthChecker) *testServer {
	t.Helper()
	logger := zap.NewNop()
	collector := observability.NewCollector("interviewbank")

	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger), bus.MetricsMiddleware(collector))
	require.NoError(t, commandBus.Register(commands.CreateInterviewCommand{},
		commandhandlers.NewCreateInterviewHandler(repo, messaging.NewLoggingPublisher(logger), logger)))

	queryBus := querybus.NewQueryBus(querybus.LoggingMiddleware(logger), querybus.MetricsMiddleware(collector))
	require.NoError(t, queryBus.Register(queries.SearchQuestionsQuery{},
		queryhandlers.NewSearchQuestionsHandler(repo, logger)))

	router := NewRouter(
		commandBus,
		queryBus,
		health,
		pkgerrors.NewErrorHandler(logger, false),
		collector,
		nil,
		RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}, MaxBodyBytes: 4096},
		logger,
	)

	return &testServer{handler: router.Setup(), collector: collector}
}

func (s *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func searchURL(params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return "/api/interview/search?" + values.Encode()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const metaInterview = `{
	"company": "Meta",
	"role": "SWE",
	"position": "SDE1",
	"experience": "2 years",
	"year": "2024",
	"questions": [
		{"text": "Reverse a list", "topic": "Arrays", "roundType": "Technical", "difficulty": "Easy"},
		{"text": "Design a cache", "topic": "System Design", "roundType": "Design", "difficulty": "Hard", "frequency": 5}
	]
}`

func TestRouter_CreateAndSearch(t *testing.T) {
	repo := memory.NewInMemoryInterviewRepository()
	srv := newTestServer(t, repo, repo)

	// Create
	rec := srv.do(http.MethodPost, "/api/interview", metaInterview)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeBody(t, rec)
	assert.Equal(t, "Interview data saved successfully", created["message"])
	data := created["data"].(map[string]interface{})
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "Meta", data["company"])
	questions := data["questions"].([]interface{})
	require.Len(t, questions, 2)
	assert.Equal(t, float64(3), questions[0].(map[string]interface{})["frequency"])
	assert.Equal(t, float64(5), questions[1].(map[string]interface{})["frequency"])
	assert.NotEmpty(t, questions[0].(map[string]interface{})["recency"])

	// Search with a topic filter
	rec = srv.do(http.MethodGet, searchURL(map[string]string{
		"company": "meta", "role": " swe ", "position": "SDE1", "year": "2024", "topic": "System Design",
	}), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeBody(t, rec)
	assert.Equal(t, float64(1), result["totalResults"])
	assert.Equal(t, float64(1), result["totalQuestions"])
	found := result["questions"].([]interface{})
	require.Len(t, found, 1)
	assert.Equal(t, "Design a cache", found[0].(map[string]interface{})["text"])

	// Search without filters returns every question in order
	rec = srv.do(http.MethodGet, searchURL(map[string]string{
		"company": "Meta", "role": "SWE", "position": "SDE1", "year": "2024",
	}), "")
	require.Equal(t, http.StatusOK, rec.Code)
	result = decodeBody(t, rec)
	assert.Equal(t, float64(2), result["totalQuestions"])
	assert.Equal(t, "Reverse a list", result["questions"].([]interface{})[0].(map[string]interface{})["text"])
}

func TestRouter_CreateRejections(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantType string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "malformed json",
			body:     `{"company":`,
			wantType: string(pkgerrors.ErrorTypeValidation),
			wantCode: pkgerrors.CodeInvalidBody,
		},
		{
			name:     "question without topic",
			body:     `{"company":"Meta","role":"SWE","position":"SDE1","experience":"2y","year":"2024","questions":[{"text":"x","roundType":"OA","difficulty":"Easy"}]}`,
			wantType: string(pkgerrors.ErrorTypeValidation),
			wantCode: pkgerrors.CodeInvalidQuestion,
			wantMsg:  "Each question must have text, topic, roundType, and difficulty",
		},
		{
			name:     "unknown position",
			body:     `{"company":"Meta","role":"SWE","position":"CEO","experience":"2y","year":"2024","questions":[{"text":"x","topic":"DP","roundType":"OA","difficulty":"Easy"}]}`,
			wantType: string(pkgerrors.ErrorTypeValidation),
			wantCode: pkgerrors.CodeInvalidBody,
		},
		{
			name:     "body too large",
			body:     `{"company":"` + strings.Repeat("a", 5000) + `"}`,
			wantType: string(pkgerrors.ErrorTypeValidation),
			wantCode: pkgerrors.CodeInvalidBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewInMemoryInterviewRepository()
			srv := newTestServer(t, repo, repo)

			rec := srv.do(http.MethodPost, "/api/interview", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, true, body["error"])
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, tt.wantCode, body["code"])
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
			}
			assert.Equal(t, 0, repo.Count())
		})
	}
}

func TestRouter_SearchFailures(t *testing.T) {
	repo := memory.NewInMemoryInterviewRepository()
	srv := newTestServer(t, repo, repo)
	require.Equal(t, http.StatusCreated, srv.do(http.MethodPost, "/api/interview", metaInterview).Code)

	t.Run("missing parameter", func(t *testing.T) {
		rec := srv.do(http.MethodGet, searchURL(map[string]string{"company": "Meta", "role": "SWE", "year": "2024"}), "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, string(pkgerrors.ErrorTypeMissingParameter), body["type"])
		assert.Equal(t, "All parameters (company, role, position, year) are required.", body["message"])
		assert.Equal(t, []interface{}{"position"}, body["details"].(map[string]interface{})["missing"])
	})

	t.Run("no matching interviews", func(t *testing.T) {
		rec := srv.do(http.MethodGet, searchURL(map[string]string{
			"company": "Goo", "role": "SWE", "position": "SDE1", "year": "2024",
		}), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "No matching data found.", body["message"])
		assert.Equal(t, pkgerrors.CodeNoMatchingInterviews, body["code"])
	})

	t.Run("no matching questions", func(t *testing.T) {
		rec := srv.do(http.MethodGet, searchURL(map[string]string{
			"company": "Meta", "role": "SWE", "position": "SDE1", "year": "2024", "topic": "DP",
		}), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "No questions found for the given filters.", body["message"])
		assert.Equal(t, pkgerrors.CodeNoMatchingQuestions, body["code"])
	})
}

func TestRouter_StoreUnavailable(t *testing.T) {
	repo := new(mocks.MockInterviewRepository)
	storeErr := pkgerrors.NewStoreUnavailableError("find", errors.New("connection refused"))
	repo.On("FindMatching", mock.Anything, mock.Anything).Return(nil, storeErr)
	repo.On("Save", mock.Anything, mock.Anything).Return(pkgerrors.NewStoreUnavailableError("save", errors.New("connection refused")))

	srv := newTestServer(t, repo, nil)

	rec := srv.do(http.MethodGet, searchURL(map[string]string{
		"company": "Meta", "role": "SWE", "position": "SDE1", "year": "2024",
	}), "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, string(pkgerrors.ErrorTypeUnavailable), body["type"])
	assert.Equal(t, "connection refused", body["details"].(map[string]interface{})["cause"])

	rec = srv.do(http.MethodPost, "/api/interview", metaInterview)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type failingHealth struct{}

func (failingHealth) Ping(ctx context.Context) error {
	return pkgerrors.NewStoreUnavailableError("ping", errors.New("timeout"))
}

func TestRouter_HealthAndReadiness(t *testing.T) {
	repo := memory.NewInMemoryInterviewRepository()

	srv := newTestServer(t, repo, repo)
	rec := srv.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = srv.do(http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())

	srv = newTestServer(t, repo, failingHealth{})
	rec = srv.do(http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_MetricsAndCORS(t *testing.T) {
	repo := memory.NewInMemoryInterviewRepository()
	srv := newTestServer(t, repo, repo)

	srv.do(http.MethodGet, "/health", "")
	rec := srv.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "interviewbank_http_requests_total")

	req := httptest.NewRequest(http.MethodOptions, "/api/interview", bytes.NewReader(nil))
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	preflight := httptest.NewRecorder()
	srv.handler.ServeHTTP(preflight, req)
	assert.Equal(t, "http://localhost:3000", preflight.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/interview", bytes.NewReader(nil))
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	denied := httptest.NewRecorder()
	srv.handler.ServeHTTP(denied, req)
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RecoversPanics(t *testing.T) {
	repo := new(mocks.MockInterviewRepository)
	repo.On("FindMatching", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	}).Return(nil, nil)

	srv := newTestServer(t, repo, nil)
	rec := srv.do(http.MethodGet, searchURL(map[string]string{
		"company": "Meta", "role": "SWE", "position": "SDE1", "year": "2024",
	}), "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, string(pkgerrors.ErrorTypeInternal), decodeBody(t, rec)["type"])
}

func TestRouter_TracingWrapsMux(t *testing.T) {
	repo := memory.NewInMemoryInterviewRepository()
	logger := zap.NewNop()

	router := NewRouter(
		bus.NewCommandBus(),
		querybus.NewQueryBus(),
		repo,
		pkgerrors.NewErrorHandler(logger, false),
		nil,
		observability.NewTracer("interviewbank"),
		RouterConfig{AllowedOrigins: []string{"*"}, MaxBodyBytes: 1024},
		logger,
	)

	handler := router.Setup()
	_, isMux := handler.(*chi.Mux)
	assert.False(t, isMux)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
