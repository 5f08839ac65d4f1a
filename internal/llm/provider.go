package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ProviderName string

const (
	Ollama     ProviderName = "ollama"
	OpenAI     ProviderName = "openai"
	OpenRouter ProviderName = "openrouter"
	Gemini     ProviderName = "gemini"
	Anthropic  ProviderName = "anthropic"
)

// Prompt is the text sent upstream for a single turn.
type Prompt struct {
	System  string
	Message string
}

// Request describes one outbound provider call.
type Request struct {
	Method string
	URL    string
	Header map[string]string
	Body   []byte
}

// Adapter pairs the request builder and response parser of one provider.
// Implementations are immutable once constructed.
type Adapter interface {
	Name() ProviderName
	BuildRequest(p Prompt) (*Request, error)
	ParseResponse(body []byte) (string, error)
}

// NewJSONRequest marshals payload into a POST request descriptor.
func NewJSONRequest(url string, header map[string]string, payload interface{}) (*Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	if header == nil {
		header = map[string]string{}
	}
	header["Content-Type"] = "application/json"

	return &Request{
		Method: http.MethodPost,
		URL:    url,
		Header: header,
		Body:   body,
	}, nil
}
