// Package http expone la superficie mínima de observación del proceso:
// /readyz (estado del bootstrap y de la migración) y /metrics.
// El API de negocio vive en otro servicio; acá solo lo que necesita el
// orquestador para decidir si mandar tráfico.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/cuentas/internal/bootstrap"
	"github.com/dropDatabas3/cuentas/internal/migrate"
)

// NewRouter arma el router de observación sobre un Container ya
// bootstrapeado.
func NewRouter(c *bootstrap.Container) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/readyz", readyzHandler(c))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

type readyzResponse struct {
	Ready            bool     `json:"ready"`
	DeployContext    string   `json:"deploy_context"`
	MigrationOutcome string   `json:"migration_outcome"`
	MigrationReason  string   `json:"migration_reason,omitempty"`
	Capabilities     []string `json:"capabilities"`
}

// readyzHandler reporta el resultado del bootstrap. Migración degradada
// (Aborted/GaveUp) => 503: el proceso sigue vivo por política, pero el
// orquestador no debería mandarle tráfico hasta que alguien mire.
func readyzHandler(c *bootstrap.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ready := c.Migration.Outcome == migrate.Applied
		resp := readyzResponse{
			Ready:            ready,
			DeployContext:    c.Context.String(),
			MigrationOutcome: c.Migration.Outcome.String(),
			MigrationReason:  c.Migration.Reason,
			Capabilities:     c.Registry.Capabilities(),
		}

		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
