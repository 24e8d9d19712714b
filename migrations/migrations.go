// Package migrations embeds the SQL schema.
package migrations

import "embed"

// Files holds every migration, applied in lexical order.
//
//go:embed *.sql
var Files embed.FS
