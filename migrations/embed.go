// Package migrations embeds the SQL migrations that create and evolve the
// message log schema.
package migrations

import "embed"

// FS holds the embedded SQL migration files, applied in order at startup.
//
//go:embed *.sql
var FS embed.FS
