package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nulzo/chat-relay/internal/config"
	"github.com/nulzo/chat-relay/internal/llm"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	apiVersion     = "2023-06-01"
)

func init() {
	llm.Register(llm.Anthropic, NewAdapter)
}

type Adapter struct {
	config config.ProviderConfig
}

func NewAdapter(config config.ProviderConfig) (llm.Adapter, error) {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return &Adapter{config: config}, nil
}

func (a *Adapter) Name() llm.ProviderName { return llm.Anthropic }

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Model         string    `json:"model"`
	MaxTokens     int       `json:"max_tokens"`
	Messages      []Message `json:"messages"`
	Temperature   float64   `json:"temperature"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
}

type Content struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}

type Response struct {
	Content []Content `json:"content"`
	Text    *string   `json:"text"`
}

func (a *Adapter) BuildRequest(p llm.Prompt) (*llm.Request, error) {
	url := fmt.Sprintf("%s/messages", strings.TrimRight(a.config.BaseURL, "/"))
	headers := map[string]string{
		"x-api-key":         a.config.APIKey,
		"anthropic-version": apiVersion,
	}

	return llm.NewJSONRequest(url, headers, Request{
		Model:     a.config.Model,
		MaxTokens: a.config.MaxTokens,
		Messages: []Message{
			{Role: "user", Content: p.System + "\n\n" + p.Message},
		},
		Temperature:   a.config.Temperature,
		StopSequences: a.config.Stop,
	})
}

// ParseResponse reads the first content block, falling back to a top-level
// `text` field and finally to an empty answer.
func (a *Adapter) ParseResponse(body []byte) (string, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", llm.Malformed(llm.Anthropic, "content[0].text", err)
	}

	if len(resp.Content) > 0 {
		if resp.Content[0].Text == nil {
			return "", llm.Malformed(llm.Anthropic, "content[0].text", nil)
		}
		return *resp.Content[0].Text, nil
	}

	if resp.Text != nil {
		return *resp.Text, nil
	}
	return "", nil
}
