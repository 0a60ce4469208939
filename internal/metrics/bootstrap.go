package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Métricas Prometheus del bootstrap. Paquete standalone para evitar
// ciclos de import entre migrate/provision y el server HTTP.

var (
	MigrationAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bootstrap_migration_attempts_total",
		Help: "Intentos de aplicar migraciones al arranque",
	})

	MigrationOutcome = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bootstrap_migration_outcome",
		Help: "Resultado de la corrida de migraciones (1 en el estado final)",
	}, []string{"outcome"})

	ProvisionedResources = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bootstrap_provisioned_resources_total",
		Help: "Recursos provisionados por tipo",
	}, []string{"kind"})
)

// Register registra las métricas del bootstrap en el registry dado
// (o el default si es nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{MigrationAttempts, MigrationOutcome, ProvisionedResources} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
