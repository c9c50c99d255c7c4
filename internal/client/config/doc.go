// Package config loads runtime configuration for the draftctl client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-b string   storage backend: sqlite, postgres, redis or memory
//	-d string   SQLite file path or Postgres DSN
//	-r string   Redis address (host:port)
//	-t int      Redis dial timeout (seconds)
//	-n string   draft namespace: form-data-draft or corrective-action-draft
//	-f string   directory for staged attachments
//	-e          encrypt stored drafts (prompts for a passphrase)
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "5s" or integer
// nanoseconds. Keys that are missing or empty leave the default in place:
//
//	{
//	  "backend": "sqlite",
//	  "database_dsn": "drafts.db",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_password": "",
//	  "redis_db": 0,
//	  "redis_dial_timeout": "5s",
//	  "namespace": "form-data-draft",
//	  "attachments_dir": "attachments",
//	  "encrypt": false,
//	  "log_level": "info"
//	}
package config
