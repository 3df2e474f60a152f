// Package migrations embeds the SQL schema of the postgres state backend.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files.
//
//go:embed *.sql
var FS embed.FS
