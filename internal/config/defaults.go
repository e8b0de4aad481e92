package config

import "time"

const (
	DefaultModel       = "gpt-4o"
	DefaultMaxTokens   = 300
	DefaultTemperature = 0.7
)

// DefaultSettings returns Settings with the fixed completion parameters and
// the conventional log location.
func DefaultSettings() *Settings {
	return &Settings{
		LLM: LLMConfig{
			Model:       DefaultModel,
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
			Timeout:     60 * time.Second,
		},
		Knowledge: KnowledgeConfig{
			Driver:  DriverPostgres,
			SSLMode: "disable",
			Timeout: 5 * time.Second,
		},
		Log: LogConfig{
			Dir:    "logs",
			Prefix: "gpt_bridge_log",
		},
	}
}

// envKeys maps environment variables to koanf keys. The unprefixed names
// are the ones the bridge has always read; GPTBRIDGE_* cover the rest.
var envKeys = map[string]string{
	"OPENAI_KEY":      "llm.api_key",
	"OPENAI_BASE_URL": "llm.base_url",

	"DB_DRIVER":   "knowledge.driver",
	"DB_HOST":     "knowledge.host",
	"DB_PORT":     "knowledge.port",
	"DB_NAME":     "knowledge.name",
	"DB_USER":     "knowledge.user",
	"DB_PASSWORD": "knowledge.password",
	"DB_SSLMODE":  "knowledge.sslmode",

	"GPTBRIDGE_MODEL":       "llm.model",
	"GPTBRIDGE_MAX_TOKENS":  "llm.max_tokens",
	"GPTBRIDGE_TEMPERATURE": "llm.temperature",
	"GPTBRIDGE_LLM_TIMEOUT": "llm.timeout",
	"GPTBRIDGE_DB_TIMEOUT":  "knowledge.timeout",
	"GPTBRIDGE_NO_FACTS":    "knowledge.disabled",
	"GPTBRIDGE_LOG_DIR":     "log.dir",
	"GPTBRIDGE_LOG_PREFIX":  "log.prefix",
	"GPTBRIDGE_LOG_FILE":    "log.file",
}
