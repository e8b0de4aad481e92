package llm

import (
	"fmt"

	"github.com/ziadkadry99/gpt-bridge/internal/config"
)

// NewProvider creates the completion provider described by cfg.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_KEY environment variable is not set")
	}
	return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
}
