package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nulzo/chat-relay/internal/config"
	"github.com/nulzo/chat-relay/internal/llm"
)

const (
	openAIBaseURL     = "https://api.openai.com/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

// OpenRouter speaks the OpenAI chat completions protocol, so both providers
// share this adapter with different endpoints.
func init() {
	llm.Register(llm.OpenAI, NewAdapter)
	llm.Register(llm.OpenRouter, NewOpenRouterAdapter)
}

type Adapter struct {
	name   llm.ProviderName
	config config.ProviderConfig
}

func NewAdapter(config config.ProviderConfig) (llm.Adapter, error) {
	return newAdapter(llm.OpenAI, openAIBaseURL, config), nil
}

func NewOpenRouterAdapter(config config.ProviderConfig) (llm.Adapter, error) {
	return newAdapter(llm.OpenRouter, openRouterBaseURL, config), nil
}

func newAdapter(name llm.ProviderName, baseURL string, config config.ProviderConfig) *Adapter {
	if config.BaseURL == "" {
		config.BaseURL = baseURL
	}
	return &Adapter{name: name, config: config}
}

func (a *Adapter) Name() llm.ProviderName { return a.name }

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stop        []string  `json:"stop,omitempty"`
}

type ChatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (a *Adapter) BuildRequest(p llm.Prompt) (*llm.Request, error) {
	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(a.config.BaseURL, "/"))
	headers := map[string]string{
		"Authorization": "Bearer " + a.config.APIKey,
	}

	return llm.NewJSONRequest(url, headers, ChatRequest{
		Model: a.config.Model,
		Messages: []Message{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.Message},
		},
		Temperature: a.config.Temperature,
		MaxTokens:   a.config.MaxTokens,
		Stop:        a.config.Stop,
	})
}

func (a *Adapter) ParseResponse(body []byte) (string, error) {
	const path = "choices[0].message.content"

	var resp ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", llm.Malformed(a.name, path, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return "", llm.Malformed(a.name, path, nil)
	}
	return *resp.Choices[0].Message.Content, nil
}
