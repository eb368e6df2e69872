// Package migrations embeds the SQLite schema for the client state database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
