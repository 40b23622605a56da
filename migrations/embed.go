// Package migrations embeds the versioned goose SQL migrations.
package migrations

import "embed"

//go:embed *.sql
var Embed embed.FS
