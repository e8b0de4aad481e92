// Package db opens connections to the knowledge store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/ziadkadry99/gpt-bridge/internal/config"
)

// Open connects to the knowledge store described by cfg and verifies the
// connection with a ping. The caller owns the returned *sql.DB and must
// close it.
func Open(ctx context.Context, cfg config.KnowledgeConfig) (*sql.DB, error) {
	driver, dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One query per invocation; never hold more than one connection.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return sqlDB, nil
}

// DSN returns the database/sql driver name and data source name for cfg.
func DSN(cfg config.KnowledgeConfig) (driver, dsn string, err error) {
	switch cfg.Driver {
	case config.DriverPostgres, "":
		u := &url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(cfg.User, cfg.Password),
			Host:   net.JoinHostPort(cfg.Host, cfg.Port),
			Path:   "/" + cfg.Name,
		}
		if cfg.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
		}
		return "postgres", u.String(), nil

	case config.DriverSQLite:
		// Read-only: a mistyped path must fail to open, not create a file.
		return "sqlite", "file:" + cfg.Name + "?mode=ro&_pragma=busy_timeout(5000)", nil

	default:
		return "", "", fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
