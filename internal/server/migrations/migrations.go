// Package migrations embeds the goose schema migrations for each supported
// database dialect.
package migrations

import "embed"

// SQLite holds the migrations for modernc.org/sqlite, under "sqlite".
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Postgres holds the migrations for PostgreSQL (pgx), under "postgres".
//
//go:embed postgres/*.sql
var Postgres embed.FS
