// Package migrations embeds the SQL schema of console.db.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
