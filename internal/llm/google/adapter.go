package google

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/nulzo/chat-relay/internal/config"
	"github.com/nulzo/chat-relay/internal/llm"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

func init() {
	llm.Register(llm.Gemini, NewAdapter)
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

func (a *Adapter) Name() llm.ProviderName { return llm.Gemini }

type GeminiPart struct {
	Text string `json:"text"`
}

type GeminiContent struct {
	Role  string       `json:"role"`
	Parts []GeminiPart `json:"parts"`
}

type GenerationConfig struct {
	Temperature     float64  `json:"temperature"`
	MaxOutputTokens int      `json:"maxOutputTokens"`
	StopSequences   []string `json:"stopSequences,omitempty"`
}

type GeminiRequest struct {
	Contents         []GeminiContent  `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type GeminiResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Shape folds the system prompt into the single user turn; the
// generateContent call carries no separate system role.
func Shape(cfg config.ProviderConfig, p llm.Prompt) GeminiRequest {
	return GeminiRequest{
		Contents: []GeminiContent{{
			Role:  "user",
			Parts: []GeminiPart{{Text: p.System + "\n\n" + p.Message}},
		}},
		GenerationConfig: GenerationConfig{
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxTokens,
			StopSequences:   cfg.Stop,
		},
	}
}

func (a *Adapter) BuildRequest(p llm.Prompt) (*llm.Request, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(a.config.BaseURL, "/"),
		a.config.Model,
		url.QueryEscape(a.config.APIKey),
	)

	return llm.NewJSONRequest(endpoint, nil, Shape(a.config, p))
}

func (a *Adapter) ParseResponse(body []byte) (string, error) {
	const path = "candidates[0].content.parts[0].text"

	var resp GeminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", llm.Malformed(llm.Gemini, path, err)
	}
	if len(resp.Candidates) == 0 {
		return "", llm.Malformed(llm.Gemini, path, nil)
	}

	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0].Text == nil {
		return "", llm.Malformed(llm.Gemini, path, nil)
	}
	return *content.Parts[0].Text, nil
}
