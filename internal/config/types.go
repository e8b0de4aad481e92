package config

import (
	"fmt"
	"strings"
	"time"
)

// Driver identifies the SQL driver used for the knowledge store.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// Settings is the top-level gptbridge configuration. It is built once by
// Load and passed to every component; nothing mutates it afterwards.
type Settings struct {
	LLM       LLMConfig       `yaml:"llm" koanf:"llm"`
	Knowledge KnowledgeConfig `yaml:"knowledge" koanf:"knowledge"`
	Log       LogConfig       `yaml:"log" koanf:"log"`
}

// LLMConfig holds the completion service credential and sampling parameters.
type LLMConfig struct {
	APIKey      string        `yaml:"api_key" koanf:"api_key"`
	BaseURL     string        `yaml:"base_url" koanf:"base_url"`
	Model       string        `yaml:"model" koanf:"model"`
	MaxTokens   int           `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature float64       `yaml:"temperature" koanf:"temperature"`
	Timeout     time.Duration `yaml:"timeout" koanf:"timeout"`
}

// KnowledgeConfig holds the knowledge store connection fields.
type KnowledgeConfig struct {
	Driver   Driver        `yaml:"driver" koanf:"driver"`
	Host     string        `yaml:"host" koanf:"host"`
	Port     string        `yaml:"port" koanf:"port"`
	Name     string        `yaml:"name" koanf:"name"`
	User     string        `yaml:"user" koanf:"user"`
	Password string        `yaml:"password" koanf:"password"`
	SSLMode  string        `yaml:"sslmode" koanf:"sslmode"`
	Timeout  time.Duration `yaml:"timeout" koanf:"timeout"`

	// Disabled turns enrichment off even when connection fields are set.
	Disabled bool `yaml:"disabled" koanf:"disabled"`
}

// LogConfig controls where invocation records are appended.
type LogConfig struct {
	Dir    string `yaml:"dir" koanf:"dir"`
	Prefix string `yaml:"prefix" koanf:"prefix"`
	// File, when set, replaces the daily <prefix>_<date>.json name.
	File string `yaml:"file" koanf:"file"`
}

// Enabled reports whether fact enrichment is active: at least one
// connection field is set and enrichment has not been switched off.
func (k KnowledgeConfig) Enabled() bool {
	if k.Disabled {
		return false
	}
	return k.Host != "" || k.Port != "" || k.Name != "" || k.User != "" || k.Password != ""
}

// MissingError lists required environment variables that were not set.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	if len(e.Keys) == 1 {
		return fmt.Sprintf("missing required environment variable %s", e.Keys[0])
	}
	return fmt.Sprintf("missing required environment variables %s", strings.Join(e.Keys, ", "))
}
