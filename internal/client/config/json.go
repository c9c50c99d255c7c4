package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/formdraft/internal/flagx"
	"github.com/dmitrijs2005/formdraft/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointers distinguish
// "not given" from zero values for the fields whose zero value is meaningful.
type JsonConfig struct {
	Backend          string         `json:"backend"`
	DatabaseDSN      string         `json:"database_dsn"`
	RedisAddr        string         `json:"redis_addr"`
	RedisPassword    string         `json:"redis_password"`
	RedisDB          *int           `json:"redis_db"`
	RedisDialTimeout timex.Duration `json:"redis_dial_timeout"`
	Namespace        string         `json:"namespace"`
	AttachmentsDir   string         `json:"attachments_dir"`
	Encrypt          *bool          `json:"encrypt"`
	LogLevel         string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c / -config.
// Without either flag it does nothing. Read or decode failures panic.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.Backend, jc.Backend)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPassword, jc.RedisPassword)
	setString(&cfg.Namespace, jc.Namespace)
	setString(&cfg.AttachmentsDir, jc.AttachmentsDir)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	if jc.RedisDialTimeout.Duration > 0 {
		cfg.RedisDialTimeout = jc.RedisDialTimeout.Duration
	}
	if jc.Encrypt != nil {
		cfg.Encrypt = *jc.Encrypt
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
