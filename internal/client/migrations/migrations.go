// Package migrations embeds the goose SQL migrations for the SQL key/value
// backends, one directory per dialect.
package migrations

import "embed"

// Dialect directories inside FS.
const (
	DirSQLite   = "sqlite"
	DirPostgres = "postgres"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
