package kv

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

const (
	pgSelectQ = `(?s)^\s*SELECT\s+value\s+FROM\s+kv\s+WHERE\s+key\s*=\s*\$1\s*$`
	pgUpsertQ = `(?s)^\s*INSERT\s+INTO\s+kv\b.*VALUES\s*\(\$1,\s*\$2,\s*now\(\)\).*ON\s+CONFLICT\s*\(key\)`
	pgDeleteQ = `(?s)^\s*DELETE\s+FROM\s+kv\s+WHERE\s+key\s*=\s*\$1\s*$`
)

func TestPostgresRepository_Get_Found(t *testing.T) {
	repo, mock := newPostgresWithMock(t)

	mock.ExpectQuery(pgSelectQ).
		WithArgs("form-data-draft").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{}`)))

	v, err := repo.Get(context.Background(), "form-data-draft")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Get_AbsentIsNilNil(t *testing.T) {
	repo, mock := newPostgresWithMock(t)

	mock.ExpectQuery(pgSelectQ).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	v, err := repo.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestPostgresRepository_Get_DBError(t *testing.T) {
	repo, mock := newPostgresWithMock(t)

	mock.ExpectQuery(pgSelectQ).
		WithArgs("k").
		WillReturnError(errors.New("db down"))

	_, err := repo.Get(context.Background(), "k")
	require.ErrorContains(t, err, "failed to get kv[k]")
	assert.NotErrorIs(t, err, sql.ErrNoRows)
}

func TestPostgresRepository_Set(t *testing.T) {
	repo, mock := newPostgresWithMock(t)

	mock.ExpectExec(pgUpsertQ).
		WithArgs("k", []byte("v")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Set(context.Background(), "k", []byte("v")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Set_DBError(t *testing.T) {
	repo, mock := newPostgresWithMock(t)

	mock.ExpectExec(pgUpsertQ).
		WithArgs("k", []byte("v")).
		WillReturnError(errors.New("constraint"))

	err := repo.Set(context.Background(), "k", []byte("v"))
	require.ErrorContains(t, err, "failed to set kv[k]: constraint")
}

func TestPostgresRepository_Delete(t *testing.T) {
	repo, mock := newPostgresWithMock(t)

	mock.ExpectExec(pgDeleteQ).
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "k"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListAndClear(t *testing.T) {
	repo, mock := newPostgresWithMock(t)

	mock.ExpectQuery(`^SELECT key, value FROM kv$`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow("a", []byte{1}).
			AddRow("b", []byte{2}))
	mock.ExpectExec(`^DELETE FROM kv$`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	m, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": {1}, "b": {2}}, m)

	require.NoError(t, repo.Clear(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
