package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/formdraft/internal/client/config"
	"github.com/dmitrijs2005/formdraft/internal/client/repositories/kv"
	"github.com/dmitrijs2005/formdraft/internal/common"
	"github.com/dmitrijs2005/formdraft/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesKVAndGooseTables(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "drafts.db")

	db, err := InitDatabase(ctx, "sqlite", dsn, DialectSQLite)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, tableExists(t, db, "kv"))
	assert.True(t, tableExists(t, db, "goose_db_version"))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "drafts.db")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db, DialectSQLite))
	require.NoError(t, RunMigrations(ctx, db, DialectSQLite))
	assert.True(t, tableExists(t, db, "kv"))
}

func TestOpen_SQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "drafts.db")

	repo, closeFn, err := Open(ctx, cfg, logging.Nop())
	require.NoError(t, err)
	require.IsType(t, &kv.SQLRepository{}, repo)
	require.NoError(t, repo.Set(ctx, "form-data-draft", []byte(`{}`)))
	require.NoError(t, closeFn())

	repo, closeFn, err = Open(ctx, cfg, logging.Nop())
	require.NoError(t, err)
	defer closeFn()

	v, err := repo.Get(ctx, "form-data-draft")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), v)
}

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Backend: config.BackendMemory}

	repo, closeFn, err := Open(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &kv.MemoryRepository{}, repo)
	assert.NoError(t, closeFn())
}

func TestOpen_RedisUnreachable(t *testing.T) {
	cfg := &config.Config{
		Backend:          config.BackendRedis,
		RedisAddr:        "127.0.0.1:1",
		RedisDialTimeout: 200 * time.Millisecond,
	}

	_, _, err := Open(context.Background(), cfg, logging.Nop())
	assert.ErrorContains(t, err, "redis init error")
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Backend: "indexeddb"}

	_, _, err := Open(context.Background(), cfg, logging.Nop())
	assert.ErrorIs(t, err, common.ErrUnknownBackend)
}
