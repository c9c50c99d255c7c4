// Package storage opens the durable key/value backend selected by config,
// running schema migrations for the SQL backends.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/formdraft/internal/client/config"
	"github.com/dmitrijs2005/formdraft/internal/client/migrations"
	"github.com/dmitrijs2005/formdraft/internal/client/repositories/kv"
	"github.com/dmitrijs2005/formdraft/internal/common"
	"github.com/dmitrijs2005/formdraft/internal/logging"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Goose dialect names.
const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "pgx"
)

// CloseFunc releases the resources held by an opened backend.
type CloseFunc func() error

func nopClose() error { return nil }

// RunMigrations applies the embedded migrations for dialect to db.
func RunMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	dir := migrations.DirSQLite
	if dialect == DialectPostgres {
		dir = migrations.DirPostgres
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, dir)
}

// InitDatabase opens a database/sql handle with driverName and migrates it.
func InitDatabase(ctx context.Context, driverName, dsn, dialect string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Open returns the Repository for cfg.Backend together with its CloseFunc.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (kv.Repository, CloseFunc, error) {
	log := logger.With("backend", cfg.Backend)

	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := InitDatabase(ctx, "sqlite", cfg.DatabaseDSN, DialectSQLite)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite init error: %w", err)
		}
		// one writer at a time; SQLite serialises writes anyway
		db.SetMaxOpenConns(1)
		log.Info(ctx, "storage opened", "dsn", cfg.DatabaseDSN)
		return kv.NewSQLRepository(db), db.Close, nil

	case config.BackendPostgres:
		db, err := InitDatabase(ctx, "pgx", cfg.DatabaseDSN, DialectPostgres)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres init error: %w", err)
		}
		log.Info(ctx, "storage opened")
		return kv.NewPostgresRepository(db), db.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.RedisAddr,
			Password:    cfg.RedisPassword,
			DB:          cfg.RedisDB,
			DialTimeout: cfg.RedisDialTimeout,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis init error: %w", err)
		}
		log.Info(ctx, "storage opened", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return kv.NewRedisRepository(client, kv.DefaultRedisPrefix), client.Close, nil

	case config.BackendMemory:
		log.Warn(ctx, "drafts are kept in memory only and are lost on exit")
		return kv.NewMemoryRepository(), nopClose, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", common.ErrUnknownBackend, cfg.Backend)
	}
}
