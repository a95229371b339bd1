// Package migrations embeds the schema migrations for the history store.
package migrations

import "embed"

// FS holds the numbered *.up.sql files applied in order at startup.
//
//go:embed *.sql
var FS embed.FS
