// Package migrations embeds the MySQL schema migrations
package migrations

import "embed"

// FS holds the numbered up/down migration files
//
//go:embed *.sql
var FS embed.FS
