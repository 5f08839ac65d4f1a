package ollama

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nulzo/chat-relay/internal/config"
	"github.com/nulzo/chat-relay/internal/llm"
)

const defaultBaseURL = "http://ollama:11434"

func init() {
	llm.Register(llm.Ollama, NewAdapter)
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

func (a *Adapter) Name() llm.ProviderName { return llm.Ollama }

type generateRequest struct {
	Model       string   `json:"model"`
	Prompt      string   `json:"prompt"`
	Stream      bool     `json:"stream"`
	Temperature float64  `json:"temperature"`
	NumPredict  int      `json:"num_predict"`
	Stop        []string `json:"stop,omitempty"`
}

type generateResponse struct {
	Response *string `json:"response"`
}

// Prompt renders the single completion prompt /api/generate expects.
func Prompt(p llm.Prompt) string {
	return fmt.Sprintf("%s\n\nCustomer: %s\n\nAssistant:", p.System, p.Message)
}

func (a *Adapter) BuildRequest(p llm.Prompt) (*llm.Request, error) {
	url := fmt.Sprintf("%s/api/generate", strings.TrimRight(a.config.BaseURL, "/"))

	return llm.NewJSONRequest(url, nil, generateRequest{
		Model:       a.config.Model,
		Prompt:      Prompt(p),
		Stream:      false,
		Temperature: a.config.Temperature,
		NumPredict:  a.config.MaxTokens,
		Stop:        a.config.Stop,
	})
}

func (a *Adapter) ParseResponse(body []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", llm.Malformed(llm.Ollama, "response", err)
	}
	if resp.Response == nil {
		return "", llm.Malformed(llm.Ollama, "response", nil)
	}
	return *resp.Response, nil
}
