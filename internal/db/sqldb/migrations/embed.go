// Package migrations embeds the relational schema for both supported dialects.
package migrations

import "embed"

// SQLite holds the idempotent SQLite schema, applied on open.
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Postgres holds golang-migrate versioned migrations.
//
//go:embed postgres/*.sql
var Postgres embed.FS
