// Package migrations embeds the schema migrations for the SQL key-value backends.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
