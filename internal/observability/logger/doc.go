// Package logger provee el singleton Zap del servicio.
//
// # Decisiones
//
//   - Singleton: una sola instancia global inicializada con Init().
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//   - Levels: debug, info, warn, error (configurable via LOG_LEVEL).
//   - Componentes: cada subsistema del bootstrap (provision, migrate,
//     registry) usa logger.Named("...") para identificar el origen.
//
// # Uso
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{
//	    Env:   os.Getenv("APP_ENV"),   // "dev" o "prod"
//	    Level: os.Getenv("LOG_LEVEL"), // "debug", "info", "warn", "error"
//	})
//	defer logger.Sync()
//
// En componentes:
//
//	log := logger.Named("migrate")
//	log.Info("migraciones aplicadas", logger.Attempt(n))
package logger
