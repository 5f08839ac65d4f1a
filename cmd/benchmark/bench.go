package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	vegeta "github.com/tsenart/vegeta/v12/lib"
	"go.uber.org/zap"

	"github.com/nulzo/chat-relay/internal/config"
	"github.com/nulzo/chat-relay/internal/llm"
	"github.com/nulzo/chat-relay/internal/metrics"
	"github.com/nulzo/chat-relay/internal/relay"
	"github.com/nulzo/chat-relay/internal/server"

	_ "github.com/nulzo/chat-relay/internal/llm/ollama"
	_ "github.com/nulzo/chat-relay/internal/llm/openai"
)

var (
	ollamaResp = []byte(`{"model":"tinyllama:1.1b","response":"Benchmark safe response","done":true}`)
	openaiResp = []byte(`{"id":"bench-123","choices":[{"message":{"role":"assistant","content":"Benchmark safe response"}}]}`)
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 50, "Requests per second")
	provider := flag.String("provider", "ollama", "Provider shape for the mock upstream (ollama or openai)")
	latency := flag.Duration("latency", 10*time.Millisecond, "Simulated upstream latency")
	flag.Parse()

	upstream := httptest.NewServer(mockUpstream(*latency))
	defer upstream.Close()

	cfg := &config.Config{
		Server: config.ServerConfig{Env: "production"},
		LLM: config.LLMConfig{
			Provider:    *provider,
			Model:       "tinyllama:1.1b",
			Temperature: 0.7,
			MaxTokens:   512,
			Timeout:     llm.DefaultTimeout,
		},
		SystemPrompt: config.DefaultSystemPrompt,
	}
	pc := cfg.Provider()
	pc.BaseURL = upstream.URL
	pc.APIKey = "bench-key"

	m := metrics.New(prometheus.NewRegistry())
	dispatcher, err := llm.NewDispatcher(pc, llm.WithTimeout(cfg.LLM.Timeout), llm.WithMetrics(m))
	if err != nil {
		log.Fatalf("Failed to build dispatcher: %v", err)
	}

	srv := server.New(cfg, zap.NewNop(), relay.NewService(dispatcher, cfg.SystemPrompt, zap.NewNop(), false), m)
	app := httptest.NewServer(srv.Handler())
	defer app.Close()

	fmt.Printf("Running %s benchmark: %s duration, %d req/s\n", *provider, *duration, *rate)

	targeter := vegeta.NewStaticTargeter(vegeta.Target{
		Method: http.MethodPost,
		URL:    app.URL + "/chat",
		Body:   []byte(`{"message":"Where is my order?"}`),
		Header: http.Header{"Content-Type": []string{"application/json"}},
	})

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var results vegeta.Metrics

	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "Benchmark") {
		results.Add(res)
	}
	results.Close()

	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", results.Latencies.P99)
	fmt.Println("Mean:            ", results.Latencies.Mean)
	fmt.Println("Max:             ", results.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", results.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", results.Throughput)
	fmt.Println("--------------------------------------------------")

	if len(results.Errors) > 0 {
		fmt.Println("Error Set (first 5 unique):")
		for i, msg := range results.Errors {
			if i == 5 {
				break
			}
			fmt.Println(msg)
		}
	}
}

func mockUpstream(latency time.Duration) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(latency)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(ollamaResp)
	})

	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(latency)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(openaiResp)
	})

	return mux
}
