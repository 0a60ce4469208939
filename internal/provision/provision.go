// Package provision construye los clientes concretos de recursos
// transversales (DB relacional, blobs, secret store, email, cache)
// según el contexto de despliegue resuelto en internal/runtime.
//
// Reglas:
//   - Cloud: endpoints y connection strings salen SIEMPRE del entorno;
//     los clientes con credenciales usan la identidad administrada
//     (CLOUD_IDENTITY_ROLE_ARN) de forma uniforme.
//   - Local: todo sale del YAML (config.Config); el secret store queda
//     deshabilitado y el email nunca sale del proceso.
//   - Ningún provisioner abre conexiones de red: los handles son lazy.
//     La única validación es "qué dice el contexto que hay que construir";
//     detectar una DSN ausente es responsabilidad del migrate.Runner.
package provision

import (
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/dropDatabas3/cuentas/internal/config"
	"github.com/dropDatabas3/cuentas/internal/metrics"
	"github.com/dropDatabas3/cuentas/internal/observability/logger"
	"github.com/dropDatabas3/cuentas/internal/runtime"
)

// Variables de entorno consumidas en contexto cloud. Los nombres deben
// coincidir con el tooling de despliegue.
const (
	// EnvDatabaseURL es la connection string de la DB (solo cloud).
	EnvDatabaseURL = "DATABASE_URL"

	// EnvIdentityRoleARN identifica la identidad administrada del workload.
	// Se propaga a TODOS los clientes con credenciales construidos en cloud.
	EnvIdentityRoleARN = "CLOUD_IDENTITY_ROLE_ARN"

	// EnvSecretStoreAddr es la URL del secret store (solo cloud).
	EnvSecretStoreAddr = "SECRET_STORE_ADDR"

	// EnvSecretStoreToken es el token de acceso al secret store (opcional;
	// sin token el cliente queda para login por identidad).
	EnvSecretStoreToken = "SECRET_STORE_TOKEN"
)

// NamedConnection declara un endpoint de storage que la aplicación
// necesita: nombre lógico + key de resolución (env var en cloud, key de
// config en local). Se declara al arranque y se consume una sola vez.
type NamedConnection struct {
	Name   string
	EnvKey string
}

// Provisioner selecciona implementaciones concretas según el contexto.
// Stateless salvo el contexto y la config; seguro de reusar.
type Provisioner struct {
	rc  runtime.Context
	cfg *config.Config
	log *zap.Logger
}

// New crea un Provisioner para el contexto dado. El contexto se recibe
// por valor (resuelto una vez en bootstrap), nunca se re-deriva acá.
func New(rc runtime.Context, cfg *config.Config) *Provisioner {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Provisioner{
		rc:  rc,
		cfg: cfg,
		log: logger.Named("provision"),
	}
}

// Context retorna el contexto con el que se construyó el Provisioner.
func (p *Provisioner) Context() runtime.Context { return p.rc }

// identityRoleARN lee la identidad administrada del entorno (cloud).
func identityRoleARN() string {
	return strings.TrimSpace(os.Getenv(EnvIdentityRoleARN))
}

func getEnv(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func (p *Provisioner) provisioned(kind string) {
	metrics.ProvisionedResources.WithLabelValues(kind).Inc()
	p.log.Debug("recurso provisionado",
		logger.Resource(kind),
		logger.DeployContext(p.rc.String()),
	)
}
