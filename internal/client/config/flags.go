package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/formdraft/internal/flagx"
)

// parseFlags overlays cfg with command-line flags (see package docs).
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// parsers (-c/-config) do not break this flag set. Invalid values panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d", "-r", "-t", "-n", "-f", "-e", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "storage backend (sqlite, postgres, redis, memory)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "sqlite file path or postgres DSN")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	dialTimeout := fs.Int("t", int(cfg.RedisDialTimeout.Seconds()), "redis dial timeout (in seconds)")
	fs.StringVar(&cfg.Namespace, "n", cfg.Namespace, "draft namespace")
	fs.StringVar(&cfg.AttachmentsDir, "f", cfg.AttachmentsDir, "attachments directory")
	fs.BoolVar(&cfg.Encrypt, "e", cfg.Encrypt, "encrypt stored drafts")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RedisDialTimeout = time.Duration(*dialTimeout) * time.Second
}
