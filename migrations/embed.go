// Package migrations contiene el esquema SQL versionado con goose.
package migrations

import "embed"

// FS expone los archivos .sql embebidos en el binario.
//
//go:embed *.sql
var FS embed.FS
