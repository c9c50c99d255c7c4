// Package kv provides the durable key/value stores that draft collections
// are persisted into.
//
// # Overview
//
// Repository is addressed by string key and stores opaque byte values. A
// missing key is not an error: Get returns (nil, nil). Every draft namespace
// owns exactly one key, so the whole collection is written as one value.
//
// Implementations:
//
//   - SQLRepository      : SQLite (modernc.org/sqlite) over dbx.DBTX, "?" placeholders
//   - PostgresRepository : Postgres (pgx stdlib driver) over dbx.DBTX, "$n" placeholders
//   - RedisRepository    : go-redis client, keys namespaced by a prefix
//   - MemoryRepository   : map-backed, for tests and throwaway sessions
//   - SealedRepository   : decorator encrypting values of another Repository
//
// The SQL backends expect the kv table created by the storage migrations.
//
// Typical Usage
//
//	repo := kv.NewSQLRepository(db)
//	_ = repo.Set(ctx, "form-data-draft", payload)
//	payload, _ = repo.Get(ctx, "form-data-draft")
//	_ = repo.Delete(ctx, "form-data-draft")
package kv
