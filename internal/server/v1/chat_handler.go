package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nulzo/chat-relay/internal/llm"
	"github.com/nulzo/chat-relay/internal/metrics"
	"github.com/nulzo/chat-relay/internal/relay"
	"github.com/nulzo/chat-relay/internal/server/validator"
	"github.com/nulzo/chat-relay/pkg/api"
)

type ChatHandler struct {
	service relay.Responder
	metrics *metrics.Metrics
}

func NewChatHandler(service relay.Responder, m *metrics.Metrics) *ChatHandler {
	return &ChatHandler{
		service: service,
		metrics: m,
	}
}

// Chat relays one customer message to the configured provider.
//
// POST /chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, api.BadRequestError(validator.Describe(err), err))
		return
	}

	answer, err := h.service.Reply(c.Request.Context(), req.Message)
	if err != nil {
		h.fail(c, toAPIError(err))
		return
	}

	h.metrics.ObserveChat(http.StatusOK)
	c.JSON(http.StatusOK, api.ChatResponse{Response: answer})
}

func (h *ChatHandler) fail(c *gin.Context, err *api.Error) {
	h.metrics.ObserveChat(err.Status)
	_ = c.Error(err)
}

// toAPIError maps relay failures onto the response status. Every provider-side
// failure stays a 500 for compatibility with existing clients.
func toAPIError(err error) *api.Error {
	if errors.Is(err, llm.ErrInvalidProvider) {
		return api.BadRequestError(err.Error(), err)
	}
	return api.InternalError(err)
}
