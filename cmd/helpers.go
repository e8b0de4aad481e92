package cmd

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/ziadkadry99/gpt-bridge/internal/config"
	"github.com/ziadkadry99/gpt-bridge/internal/db"
	"github.com/ziadkadry99/gpt-bridge/internal/knowledge"
	"github.com/ziadkadry99/gpt-bridge/internal/llm"
)

// newCompleter creates the completion provider. Tests replace it.
var newCompleter = llm.NewProvider

// newFactSource creates the knowledge base fact provider.
var newFactSource = func(cfg config.KnowledgeConfig) knowledge.Provider {
	open := func(ctx context.Context) (*sql.DB, error) {
		return db.Open(ctx, cfg)
	}
	return knowledge.NewSQLProvider(open, cfg.Timeout, logger)
}

// loadSettings reads .env files, the optional YAML config and the
// environment. On error it still returns defaults so the failure can be
// logged to the default location.
func loadSettings() (*config.Settings, error) {
	loaded, err := config.LoadDotEnv(envFile, config.ProjectEnvFile())
	if err != nil {
		return config.DefaultSettings(), err
	}
	for _, f := range loaded {
		logger.Debug("Loaded env file", zap.String("path", f))
	}

	settings, err := config.Load(cfgFile)
	if err != nil {
		return config.DefaultSettings(), err
	}
	if noFacts {
		settings.Knowledge.Disabled = true
	}
	return settings, nil
}
