package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nulzo/chat-relay/internal/config"
	"github.com/nulzo/chat-relay/internal/llm"
	"github.com/nulzo/chat-relay/internal/metrics"
	"github.com/nulzo/chat-relay/internal/platform/logger"
	"github.com/nulzo/chat-relay/internal/platform/otel"
	"github.com/nulzo/chat-relay/internal/relay"
	"github.com/nulzo/chat-relay/internal/server"
	"github.com/nulzo/chat-relay/internal/version"

	// Provider adapters register themselves in init().
	_ "github.com/nulzo/chat-relay/internal/llm/anthropic"
	_ "github.com/nulzo/chat-relay/internal/llm/google"
	_ "github.com/nulzo/chat-relay/internal/llm/ollama"
	_ "github.com/nulzo/chat-relay/internal/llm/openai"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: logger.ShouldEnableColor(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracer, err := otel.InitTracer(ctx, otel.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     version.Version,
		Environment: cfg.Server.Env,
		Output:      os.Stderr,
	}, log)
	if err != nil {
		log.Fatal("failed to init tracer", zap.Error(err))
	}

	if cfg.UpdateCheck.Enabled {
		go checkForUpdates(ctx, log, cfg.UpdateCheck.URL)
	}

	m := metrics.Global()
	pc := cfg.Provider()

	dispatcher, err := llm.NewDispatcher(pc,
		llm.WithTimeout(cfg.LLM.Timeout),
		llm.WithMetrics(m),
	)
	if err != nil {
		log.Fatal("failed to initialise provider",
			zap.String("provider", cfg.LLM.Provider),
			zap.Strings("supported", llm.Registered()),
			zap.Error(err),
		)
	}

	if pc.APIKey == "" && dispatcher.Provider() != llm.Ollama {
		log.Warn("no API key configured for provider", zap.String("provider", string(dispatcher.Provider())))
	}

	service := relay.NewService(dispatcher, cfg.SystemPrompt, log, cfg.Debug)
	srv := server.New(cfg, log, service, m)

	httpServer := &http.Server{
		Addr:              srv.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting chat relay",
			zap.String("addr", httpServer.Addr),
			zap.String("provider", string(dispatcher.Provider())),
			zap.String("model", dispatcher.Model()),
			zap.String("version", version.Version),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.Error("server failed", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop http server", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("failed to flush tracer", zap.Error(err))
	}

	log.Info("stopped")
}

func checkForUpdates(ctx context.Context, log *zap.Logger, url string) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	update, err := version.CheckForUpdates(ctx, http.DefaultClient, url, version.Version)
	if err != nil {
		log.Debug("update check failed", zap.Error(err))
		return
	}
	if update != nil {
		log.Warn("a newer release is available",
			zap.String("current", update.Current),
			zap.String("latest", update.Latest),
		)
	}
}
