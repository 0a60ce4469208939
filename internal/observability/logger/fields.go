package logger

import (
	"time"

	"go.uber.org/zap"
)

// Campos estándar del bootstrap. Usar estos helpers en vez de zap.String
// suelto para mantener los nombres consistentes entre componentes.

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// DeployContext crea un campo para el contexto de despliegue (cloud/local).
func DeployContext(v string) zap.Field {
	return zap.String("deploy_context", v)
}

// Resource crea un campo para el nombre lógico de un recurso provisionado.
func Resource(v string) zap.Field {
	return zap.String("resource", v)
}

// Attempt crea un campo para el número de intento de migración.
func Attempt(v int) zap.Field {
	return zap.Int("attempt", v)
}

// MaxAttempts crea un campo para el techo de intentos.
func MaxAttempts(v int) zap.Field {
	return zap.Int("max_attempts", v)
}

// Capability crea un campo para la interfaz de capacidad de un binding.
func Capability(v string) zap.Field {
	return zap.String("capability", v)
}

// ScopeID crea un campo para el ID de un unit-of-work.
func ScopeID(v string) zap.Field {
	return zap.String("scope_id", v)
}

// Duration crea un campo para una duración.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// Count crea un campo para un conteo.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}
