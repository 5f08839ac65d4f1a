package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nulzo/chat-relay/internal/server/middleware"
	v1 "github.com/nulzo/chat-relay/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.ErrorHandler(s.logger))

	statusHandler := v1.NewStatusHandler(string(s.service.Provider()))
	s.router.GET("/", statusHandler.Root)
	s.router.GET("/health", statusHandler.Health)

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	chatHandler := v1.NewChatHandler(s.service, s.metrics)
	s.router.POST("/chat", chatHandler.Chat)
}
