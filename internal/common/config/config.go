// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Slack     SlackConfig     `mapstructure:"slack"`
	Contacts  ContactsConfig  `mapstructure:"contacts"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// SlackConfig holds the chat workspace credentials and routing addresses.
type SlackConfig struct {
	Token      string `mapstructure:"token"`
	TestMode   bool   `mapstructure:"test_mode"`
	TestEmail  string `mapstructure:"test_email"`
	AdminEmail string `mapstructure:"admin_email"`
}

// ContactsConfig holds the fallback point-of-contact addresses per item type.
type ContactsConfig struct {
	ReviewRequestsEmail  string `mapstructure:"review_requests_email"`
	RecommendationsEmail string `mapstructure:"recommendations_email"`
}

type DatabaseConfig struct {
	Driver    string          `mapstructure:"driver"` // "snowflake" or "postgres"
	Snowflake SnowflakeConfig `mapstructure:"snowflake"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

type SnowflakeConfig struct {
	Account   string `mapstructure:"account"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Database  string `mapstructure:"database"`
	Schema    string `mapstructure:"schema"`
	Warehouse string `mapstructure:"warehouse"`
	Role      string `mapstructure:"role"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // seconds, recipient cache entries
}

// SchedulerConfig controls how runs are triggered. An empty schedule means
// run once and exit.
type SchedulerConfig struct {
	Schedule   string `mapstructure:"schedule"` // cron expression
	RunOnStart bool   `mapstructure:"run_on_start"`
}

// MetricsConfig holds settings for the health/metrics HTTP endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
