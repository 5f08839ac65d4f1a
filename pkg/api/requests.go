package api

// ChatRequest is the body accepted by POST /chat.
type ChatRequest struct {
	// the customer's message, forwarded verbatim to the provider
	Message string `json:"message" binding:"required"`
}
