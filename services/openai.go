package services

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig carries everything needed to build a chat client. Constructing
// clients from an explicit config keeps key validation in one place and out
// of package load time.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIConfigFromEnv reads OPENAI_API_KEY, OPENAI_BASE_URL and OPENAI_MODEL.
func OpenAIConfigFromEnv() OpenAIConfig {
	return OpenAIConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("OPENAI_MODEL"),
	}
}

// ModelOrDefault returns the configured model name or the default.
func (c OpenAIConfig) ModelOrDefault() string {
	if c.Model != "" {
		return c.Model
	}
	return openai.GPT4o
}

// NewOpenAIClient validates the config and builds a client. The client itself
// is stateless; there is no teardown.
func NewOpenAIClient(cfg OpenAIConfig) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(config), nil
}

// DefaultOpenAIClient is the env-configured singleton used by tool handlers.
var DefaultOpenAIClient = sync.OnceValue(func() *openai.Client {
	client, err := NewOpenAIClient(OpenAIConfigFromEnv())
	if err != nil {
		panic("OPENAI_API_KEY is not set, please set it in MCP Config")
	}
	return client
})
