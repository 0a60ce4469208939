// Package migrations embebe los archivos SQL de migración.
package migrations

import "embed"

// FS contiene las migraciones del esquema de cuentas (*_up.sql se
// aplican en orden ascendente; *_down.sql existen para el CLI).
//
//go:embed *.sql
var FS embed.FS

// Dir es el directorio dentro del módulo donde viven las migraciones,
// para pasar junto con FS a quien las consume.
const Dir = "."
