// Package migrations embeds the identity service schema for goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
