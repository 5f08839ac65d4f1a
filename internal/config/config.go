package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	UpdateCheck UpdateCheckConfig `mapstructure:"update_check"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Ollama      OllamaConfig      `mapstructure:"ollama"`
	Keys        KeysConfig        `mapstructure:"keys"`
	BaseURLs    BaseURLsConfig    `mapstructure:"base_urls"`

	SystemPrompt     string `mapstructure:"system_prompt"`
	SystemPromptFile string `mapstructure:"system_prompt_file"`
	// Debug is true only for a case-insensitive "true"; any other DEBUG value is false.
	Debug bool `mapstructure:"-"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port" validate:"required"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error fatal"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json console"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

type UpdateCheckConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url" validate:"omitempty,url"`
}

// LLMConfig holds the provider-independent generation settings.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model" validate:"required"`
	Temperature float64       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int           `mapstructure:"max_tokens" validate:"gt=0"`
	StopWord    string        `mapstructure:"stop_word"`
	Stop        string        `mapstructure:"stop"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type OllamaConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type KeysConfig struct {
	OpenAI     string `mapstructure:"openai"`
	OpenRouter string `mapstructure:"openrouter"`
	Gemini     string `mapstructure:"gemini"`
	Anthropic  string `mapstructure:"anthropic"`
}

// BaseURLsConfig overrides the public endpoints; empty means the provider default.
type BaseURLsConfig struct {
	OpenAI     string `mapstructure:"openai"`
	OpenRouter string `mapstructure:"openrouter"`
	Gemini     string `mapstructure:"gemini"`
	Anthropic  string `mapstructure:"anthropic"`
}

// ProviderConfig is everything an adapter needs to talk to one provider.
type ProviderConfig struct {
	Type        string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Stop        []string
}

// envBindings maps config keys to the flat environment variable names the
// relay has always been configured with.
var envBindings = map[string]string{
	"system_prompt":        "SYSTEM_PROMPT",
	"system_prompt_file":   "SYSTEM_PROMPT_FILE",
	"debug":                "DEBUG",
	"ollama.host":          "OLLAMA_HOST",
	"ollama.port":          "OLLAMA_PORT",
	"llm.model":            "PROVIDER_MODEL",
	"llm.provider":         "API_PROVIDER",
	"llm.temperature":      "LLM_TEMPERATURE",
	"llm.max_tokens":       "LLM_MAX_TOKENS",
	"llm.stop_word":        "LLM_STOP_WORD",
	"llm.stop":             "LLM_STOP",
	"llm.timeout":          "LLM_TIMEOUT",
	"keys.openai":          "OPENAI_API_KEY",
	"keys.openrouter":      "OPENROUTER_API_KEY",
	"keys.gemini":          "GEMINI_API_KEY",
	"keys.anthropic":       "ANTHROPIC_API_KEY",
	"base_urls.openai":     "OPENAI_BASE_URL",
	"base_urls.openrouter": "OPENROUTER_BASE_URL",
	"base_urls.gemini":     "GEMINI_BASE_URL",
	"base_urls.anthropic":  "ANTHROPIC_BASE_URL",
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Default Values
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "chat-relay")
	v.SetDefault("update_check.enabled", false)
	v.SetDefault("update_check.url", "https://api.github.com/repos/nulzo/chat-relay/releases/latest")
	v.SetDefault("system_prompt_file", "system_prompt.txt")
	v.SetDefault("debug", "false")
	v.SetDefault("ollama.host", "ollama")
	v.SetDefault("ollama.port", "11434")
	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.model", "tinyllama:1.1b")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 512)
	v.SetDefault("llm.timeout", 60*time.Second)

	// Environment Variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.Debug = parseDebug(v.GetString("debug"))
	if cfg.Debug {
		cfg.Log.Level = "debug"
	}

	prompt, err := resolveSystemPrompt(cfg.SystemPrompt, cfg.SystemPromptFile)
	if err != nil {
		return nil, err
	}
	cfg.SystemPrompt = prompt

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func parseDebug(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

// Validate checks the loaded values against their declared constraints.
// The provider identifier is deliberately left to the llm registry.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Provider assembles the settings for the configured provider.
func (c *Config) Provider() ProviderConfig {
	pc := ProviderConfig{
		Type:        c.LLM.Provider,
		Model:       c.LLM.Model,
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
		Stop:        resolveStop(c.LLM.StopWord, c.LLM.Stop),
	}

	switch c.LLM.Provider {
	case "ollama":
		pc.BaseURL = fmt.Sprintf("http://%s:%s", c.Ollama.Host, c.Ollama.Port)
	case "openai":
		pc.APIKey, pc.BaseURL = c.Keys.OpenAI, c.BaseURLs.OpenAI
	case "openrouter":
		pc.APIKey, pc.BaseURL = c.Keys.OpenRouter, c.BaseURLs.OpenRouter
	case "gemini":
		pc.APIKey, pc.BaseURL = c.Keys.Gemini, c.BaseURLs.Gemini
	case "anthropic":
		pc.APIKey, pc.BaseURL = c.Keys.Anthropic, c.BaseURLs.Anthropic
	}

	return pc
}
