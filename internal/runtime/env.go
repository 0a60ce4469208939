// Package runtime resuelve el contexto de despliegue del proceso.
//
// El contexto se calcula UNA sola vez al arranque y es inmutable por el
// resto de la vida del proceso. Todos los componentes que seleccionan
// recursos (provision, migrate) deben branchear sobre este valor y nunca
// re-derivarlo desde otra señal.
package runtime

import (
	"os"
	"strings"
	"sync"
)

// EnvCloudMarker es la variable que marca un entorno cloud administrado.
// Presente y no-vacía => Cloud. Ausente => Local (dev). La ausencia NO es
// un error: es el estado esperado en desarrollo.
const EnvCloudMarker = "CLOUD_ENVIRONMENT"

// Context clasifica el entorno de ejecución del proceso.
type Context int

const (
	// Local: desarrollo local o CI, recursos emulados/configurados por YAML.
	Local Context = iota
	// Cloud: entorno administrado, recursos reales autenticados por identidad.
	Cloud
)

func (c Context) String() string {
	if c == Cloud {
		return "cloud"
	}
	return "local"
}

// IsCloud es azúcar para c == Cloud.
func (c Context) IsCloud() bool { return c == Cloud }

var (
	resolveOnce sync.Once
	resolved    Context
)

// Resolve retorna el contexto de despliegue. Idempotente: la primera
// llamada lee CLOUD_ENVIRONMENT y las siguientes retornan el valor
// cacheado aunque el entorno mute después del arranque.
func Resolve() Context {
	resolveOnce.Do(func() {
		if strings.TrimSpace(os.Getenv(EnvCloudMarker)) != "" {
			resolved = Cloud
		}
	})
	return resolved
}

// UnsafeResetForTests limpia el cache de Resolve. Solo para tests.
func UnsafeResetForTests() {
	resolveOnce = sync.Once{}
	resolved = Local
}
