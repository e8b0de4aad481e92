// Package knowledge supplies optional facts used to enrich prompts.
package knowledge

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Provider returns at most one fact per call. It has no error result:
// implementations degrade every failure to an empty fact.
type Provider interface {
	Fact(ctx context.Context) string
}

// Opener opens a connection to the knowledge store.
type Opener func(ctx context.Context) (*sql.DB, error)

// factQuery picks one arbitrary fact. Both Postgres and SQLite implement
// RANDOM().
const factQuery = `SELECT key_fact FROM knowledge_base ORDER BY RANDOM() LIMIT 1`

// SQLProvider reads facts from the knowledge_base table.
type SQLProvider struct {
	open    Opener
	timeout time.Duration
	logger  *zap.Logger
}

// NewSQLProvider creates a provider that opens a fresh connection per call
// and bounds the whole lookup by timeout. A zero timeout means no bound.
func NewSQLProvider(open Opener, timeout time.Duration, logger *zap.Logger) *SQLProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLProvider{open: open, timeout: timeout, logger: logger}
}

// Fact returns one fact, or "" if the table is empty or anything fails.
func (p *SQLProvider) Fact(ctx context.Context) string {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	fact, err := p.lookup(ctx)
	if err != nil {
		p.logger.Warn("Database query failed", zap.Error(err))
		return ""
	}
	if fact == "" {
		p.logger.Debug("Knowledge base returned no fact")
	}
	return fact
}

func (p *SQLProvider) lookup(ctx context.Context) (string, error) {
	conn, err := p.open(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	var fact sql.NullString
	err = conn.QueryRowContext(ctx, factQuery).Scan(&fact)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return fact.String, nil
}
