package pg

import (
	"github.com/dropDatabas3/cuentas/internal/registry"
	"github.com/dropDatabas3/cuentas/internal/repository"
)

// Register declara los providers de este paquete en el manifest.
// Es la lista de registración en compile time que reemplaza al escaneo
// por reflection: cada capacidad emparejada explícitamente con su tipo
// concreto. Re-ejecutarla sobre el mismo manifest es idempotente a
// nivel Discover (mismo Impl para la misma capacidad).
func Register(m *registry.Manifest) {
	m.Add(registry.Provider{
		Capability: repository.CapUserRepository,
		Impl:       "pg.UserRepo",
		New:        func(s *registry.Scope) any { return NewUserRepo(s) },
	})
	m.Add(registry.Provider{
		Capability: repository.CapCredentialRepository,
		Impl:       "pg.CredentialRepo",
		New:        func(s *registry.Scope) any { return NewCredentialRepo(s) },
	})
	m.Add(registry.Provider{
		Capability: repository.CapEmailTokenRepository,
		Impl:       "pg.EmailTokenRepo",
		New:        func(s *registry.Scope) any { return NewEmailTokenRepo(s) },
	})
}
