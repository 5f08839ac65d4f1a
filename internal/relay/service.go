package relay

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/nulzo/chat-relay/internal/llm"
)

// Responder answers a single customer message.
type Responder interface {
	Reply(ctx context.Context, message string) (string, error)
}

// Dispatcher is the subset of *llm.Dispatcher the service needs.
type Dispatcher interface {
	Provider() llm.ProviderName
	Chat(ctx context.Context, p llm.Prompt) (string, error)
}

// Service prepends the configured system prompt to every message and relays
// it to the active provider. It holds no per-request state.
type Service struct {
	dispatcher   Dispatcher
	systemPrompt string
	logger       *zap.Logger
	debug        bool
}

var _ Responder = (*Service)(nil)

// NewService builds the relay. Provider diagnostics are logged only when debug is set.
func NewService(dispatcher Dispatcher, systemPrompt string, logger *zap.Logger, debug bool) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		dispatcher:   dispatcher,
		systemPrompt: systemPrompt,
		logger:       logger.Named("relay"),
		debug:        debug,
	}
}

func (s *Service) Provider() llm.ProviderName {
	return s.dispatcher.Provider()
}

func (s *Service) Reply(ctx context.Context, message string) (string, error) {
	answer, err := s.dispatcher.Chat(ctx, llm.Prompt{System: s.systemPrompt, Message: message})
	if err != nil {
		s.diagnose(err)
		return "", err
	}
	return answer, nil
}

// diagnose writes provider diagnostics at debug level. Nothing is logged
// unless DEBUG is enabled, whatever LOG_LEVEL says.
func (s *Service) diagnose(err error) {
	if !s.debug {
		return
	}

	provider := zap.String("provider", string(s.dispatcher.Provider()))

	var upstreamErr *llm.UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		s.logger.Debug("API error",
			provider,
			zap.Int("status", upstreamErr.StatusCode),
			zap.Bool("timeout", upstreamErr.Timeout),
			zap.ByteString("body", upstreamErr.Body),
			zap.Error(err),
		)
	case errors.Is(err, llm.ErrMalformedResponse):
		s.logger.Debug("Malformed provider response", provider, zap.Error(err))
	default:
		s.logger.Debug("Backend exception", provider, zap.Error(err), zap.StackSkip("stack", 2))
	}
}
