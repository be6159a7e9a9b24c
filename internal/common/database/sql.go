// internal/common/database/sql.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"escalation-notifier/internal/common/config"

	_ "github.com/lib/pq"
	"github.com/snowflakedb/gosnowflake"
)

// Client wraps the SQL database connection for the export tables.
type Client struct {
	DB *sql.DB
}

// Open creates a client for the configured driver. Snowflake is the
// production source; postgres serves local mirrors of the same tables.
func Open(cfg config.DatabaseConfig) (*Client, error) {
	switch cfg.Driver {
	case "snowflake":
		return openSnowflake(cfg.Snowflake)
	case "postgres":
		return openPostgres(cfg.Postgres)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

func openSnowflake(cfg config.SnowflakeConfig) (*Client, error) {
	dsn, err := gosnowflake.DSN(&gosnowflake.Config{
		Account:   cfg.Account,
		User:      cfg.User,
		Password:  cfg.Password,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
		Warehouse: cfg.Warehouse,
		Role:      cfg.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build snowflake dsn: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open snowflake: %w", err)
	}

	// The run reads two tables once per cycle; a single connection is plenty.
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Client{DB: db}, nil
}

func openPostgres(cfg config.PostgresConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &Client{DB: db}, nil
}

// Ping tests the database connection
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *Client) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
