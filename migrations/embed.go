// Package migrations contiene el esquema SQL versionado, aplicado con goose.
package migrations

import "embed"

//go:embed *.sql
var EmbedMigrations embed.FS
