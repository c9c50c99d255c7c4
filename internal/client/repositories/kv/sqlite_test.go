package kv

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE kv (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	require.NoError(t, err)
	return db
}

func TestSQLRepository_SetThenGet(t *testing.T) {
	r := NewSQLRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "form-data-draft", []byte(`{"1":{}}`)))

	v, err := r.Get(ctx, "form-data-draft")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"1":{}}`), v)
}

func TestSQLRepository_GetAbsent_ReturnsNilNil(t *testing.T) {
	r := NewSQLRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLRepository_SetOverwrites(t *testing.T) {
	r := NewSQLRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestSQLRepository_DeleteIsIdempotent(t *testing.T) {
	r := NewSQLRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte{1}))
	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.Delete(ctx, "k"))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLRepository_ListAndClear(t *testing.T) {
	r := NewSQLRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "corrective-action-draft", []byte{0xAA}))
	require.NoError(t, r.Set(ctx, "form-data-draft", []byte{0xBB}))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		"corrective-action-draft": {0xAA},
		"form-data-draft":         {0xBB},
	}, m)

	require.NoError(t, r.Clear(ctx))
	m, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestSQLRepository_ClosedDB_ErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get kv[k]")

	err = r.Set(ctx, "k", []byte("v"))
	require.ErrorContains(t, err, "failed to set kv[k]")

	err = r.Delete(ctx, "k")
	require.ErrorContains(t, err, "failed to delete kv[k]")

	_, err = r.List(ctx)
	require.ErrorContains(t, err, "failed to list kv")

	err = r.Clear(ctx)
	require.ErrorContains(t, err, "failed to clear kv")
}
