package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nulzo/chat-relay/internal/config"
	"github.com/nulzo/chat-relay/internal/llm"
	"github.com/nulzo/chat-relay/internal/metrics"
	"github.com/nulzo/chat-relay/internal/relay"
	"github.com/nulzo/chat-relay/internal/server"
	"github.com/nulzo/chat-relay/pkg/api"

	_ "github.com/nulzo/chat-relay/internal/llm/ollama"
	_ "github.com/nulzo/chat-relay/internal/llm/openai"
)

func newServer(t *testing.T, provider, upstreamURL string) *server.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: "0", Env: "test"},
		LLM: config.LLMConfig{
			Provider:    provider,
			Model:       "tinyllama:1.1b",
			Temperature: 0.7,
			MaxTokens:   512,
		},
		SystemPrompt: "You are ShopEasy support.",
	}
	pc := cfg.Provider()
	pc.BaseURL = upstreamURL

	m := metrics.New(prometheus.NewRegistry())
	d, err := llm.NewDispatcher(pc, llm.WithMetrics(m))
	require.NoError(t, err)

	return server.New(cfg, zap.NewNop(), relay.NewService(d, cfg.SystemPrompt, zap.NewNop(), false), m)
}

func do(s *server.Server, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestChat_EndToEnd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "You are ShopEasy support.\n\nCustomer: Hello\n\nAssistant:", payload["prompt"])
		assert.Equal(t, false, payload["stream"])

		_, _ = io.WriteString(w, `{"response":"Hi! How can I help?","done":true}`)
	}))
	defer upstream.Close()

	s := newServer(t, "ollama", upstream.URL)

	w := do(s, http.MethodPost, "/chat", `{"message":"Hello"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"Hi! How can I help?"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestChat_Idempotent(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"Same answer."}}]}`)
	}))
	defer upstream.Close()

	s := newServer(t, "openai", upstream.URL)

	first := do(s, http.MethodPost, "/chat", `{"message":"Repeat me"}`)
	second := do(s, http.MethodPost, "/chat", `{"message":"Repeat me"}`)

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestChat_UpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":"rate limited"}`)
	}))
	defer upstream.Close()

	s := newServer(t, "ollama", upstream.URL)

	w := do(s, http.MethodPost, "/chat", `{"message":"Hello"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Error processing request: rate limited", resp.Detail)
}

func TestRoot_IndependentOfProvider(t *testing.T) {
	for _, provider := range []string{"ollama", "openai"} {
		s := newServer(t, provider, "http://127.0.0.1:1")

		w := do(s, http.MethodGet, "/", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `{"status":"Online","service":"Customer Support Chatbot"}`, w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t, "ollama", "http://127.0.0.1:1")

	w := do(s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestChat_CanceledCallerContext(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer upstream.Close()

	s := newServer(t, "ollama", upstream.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, "/chat", bytes.NewBufferString(`{"message":"Hello"}`))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type panickingService struct{}

func (panickingService) Reply(context.Context, string) (string, error) {
	panic("nil adapter")
}

func (panickingService) Provider() llm.ProviderName { return llm.Ollama }

func TestChat_PanicRendersDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Server: config.ServerConfig{Port: "0", Env: "test"}}
	s := server.New(cfg, zap.NewNop(), panickingService{}, metrics.New(prometheus.NewRegistry()))

	w := do(s, http.MethodPost, "/chat", `{"message":"hi"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error processing request: nil adapter"}`, w.Body.String())
}
