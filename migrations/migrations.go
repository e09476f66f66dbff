// Package migrations embeds the SQL schema of the roster store.
package migrations

import "embed"

// FS holds the schema files.
//
//go:embed *.sql
var FS embed.FS

// InitialSchema is the file that creates every table.
const InitialSchema = "001_initial_schema.up.sql"
