// Package migrations embeds the SQL migration files so the store can apply
// them through the goose programmatic API on open and in tests.
// The same files run on SQLite and Postgres, so they stick to the common
// subset of both dialects.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time, applied in
// version order by goose.
//
//go:embed *.sql
var FS embed.FS
