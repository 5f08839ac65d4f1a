package server

import (
	"fmt"
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nulzo/chat-relay/internal/config"
	"github.com/nulzo/chat-relay/internal/llm"
	"github.com/nulzo/chat-relay/internal/metrics"
	"github.com/nulzo/chat-relay/internal/relay"
	"github.com/nulzo/chat-relay/internal/server/middleware"
	"github.com/nulzo/chat-relay/internal/server/validator"
	"github.com/nulzo/chat-relay/pkg/api"
)

// Service is what the HTTP layer needs from the relay.
type Service interface {
	relay.Responder
	Provider() llm.ProviderName
}

type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  *zap.Logger
	service Service
	metrics *metrics.Metrics
}

func New(cfg *config.Config, logger *zap.Logger, service Service, m *metrics.Metrics) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.InitValidator()

	engine := gin.New()

	engine.Use(ginzap.CustomRecoveryWithZap(logger, cfg.Debug, recovered))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(logger))
	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}

	s := &Server{
		router:  engine,
		config:  cfg,
		logger:  logger,
		service: service,
		metrics: m,
	}

	s.SetupRoutes()
	return s
}

// recovered renders a handler panic as the usual {"detail": ...} 500.
func recovered(c *gin.Context, rec any) {
	apiErr := api.InternalError(fmt.Errorf("%v", rec))
	c.AbortWithStatusJSON(apiErr.Status, apiErr.Response())
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the listen address built from the server config.
func (s *Server) Addr() string {
	return s.config.Server.Host + ":" + s.config.Server.Port
}
