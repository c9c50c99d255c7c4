package config

import "time"

// Storage backends understood by storage.Open.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config holds runtime settings for the draftctl client.
//
// DatabaseDSN is a file path for SQLite and a connection string for
// Postgres; it is ignored by the redis and memory backends.
type Config struct {
	Backend          string
	DatabaseDSN      string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisDialTimeout time.Duration
	Namespace        string
	AttachmentsDir   string
	Encrypt          bool
	LogLevel         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Backend = BackendSQLite
	c.DatabaseDSN = "drafts.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPassword = ""
	c.RedisDB = 0
	c.RedisDialTimeout = 5 * time.Second
	c.Namespace = "form-data-draft"
	c.AttachmentsDir = "attachments"
	c.Encrypt = false
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, then an optional JSON file,
// then command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
