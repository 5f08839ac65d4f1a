package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nulzo/chat-relay/internal/llm"
	"github.com/nulzo/chat-relay/internal/metrics"
	"github.com/nulzo/chat-relay/internal/server/middleware"
	v1 "github.com/nulzo/chat-relay/internal/server/v1"
	"github.com/nulzo/chat-relay/internal/server/validator"
	"github.com/nulzo/chat-relay/pkg/api"
)

// MockResponder is a mock implementation of relay.Responder
type MockResponder struct {
	mock.Mock
}

func (m *MockResponder) Reply(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

func setupRouter(r *MockResponder, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.InitValidator()

	engine := gin.New()
	engine.Use(middleware.ErrorHandler(zap.NewNop()))

	h := v1.NewChatHandler(r, m)
	engine.POST("/chat", h.Chat)

	status := v1.NewStatusHandler("ollama")
	engine.GET("/", status.Root)
	engine.GET("/health", status.Health)
	return engine
}

func post(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func TestChat_Success(t *testing.T) {
	r := new(MockResponder)
	r.On("Reply", mock.Anything, "Where is my order?").Return("It ships today.", nil)
	m := metrics.New(prometheus.NewRegistry())

	w := post(setupRouter(r, m), `{"message":"Where is my order?"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"It ships today."}`, w.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChatRequests.WithLabelValues("2xx")))
	r.AssertExpectations(t)
}

func TestChat_InvalidBody(t *testing.T) {
	for _, body := range []string{`{invalid-json`, `{}`, `{"message":""}`, `{"message":42}`} {
		t.Run(body, func(t *testing.T) {
			r := new(MockResponder)
			w := post(setupRouter(r, nil), body)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Detail)
			r.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything)
		})
	}
}

func TestChat_MissingMessageDetail(t *testing.T) {
	w := post(setupRouter(new(MockResponder), nil), `{}`)
	assert.JSONEq(t, `{"detail":"Invalid request body: message is a required field"}`, w.Body.String())
}

func TestChat_UpstreamError(t *testing.T) {
	r := new(MockResponder)
	r.On("Reply", mock.Anything, "Hi").Return("", &llm.UpstreamError{
		Provider:   llm.OpenAI,
		StatusCode: http.StatusTooManyRequests,
		Detail:     "rate limited",
		Body:       []byte(`{"error":"rate limited"}`),
	})

	w := post(setupRouter(r, nil), `{"message":"Hi"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error processing request: rate limited"}`, w.Body.String())
}

func TestChat_MalformedResponse(t *testing.T) {
	r := new(MockResponder)
	r.On("Reply", mock.Anything, "Hi").Return("", llm.Malformed(llm.Ollama, "response", nil))

	w := post(setupRouter(r, nil), `{"message":"Hi"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error processing request: malformed ollama response: missing response"}`, w.Body.String())
}

func TestChat_InvalidProviderIsBadRequest(t *testing.T) {
	r := new(MockResponder)
	r.On("Reply", mock.Anything, "Hi").Return("", fmt.Errorf("%w: %q", llm.ErrInvalidProvider, "cohere"))

	w := post(setupRouter(r, nil), `{"message":"Hi"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid API_PROVIDER specified")
}

func TestChat_InternalError(t *testing.T) {
	r := new(MockResponder)
	r.On("Reply", mock.Anything, "Hi").Return("", errors.New("failed to marshal request body"))

	w := post(setupRouter(r, nil), `{"message":"Hi"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error processing request: failed to marshal request body"}`, w.Body.String())
}

func TestRoot(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	setupRouter(new(MockResponder), nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"Online","service":"Customer Support Chatbot"}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	setupRouter(new(MockResponder), nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "ollama", body["provider"])
}
