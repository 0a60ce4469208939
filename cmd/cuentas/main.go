// CLI de operaciones: inspección del bootstrap sin abrir conexiones.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/cuentas/internal/config"
	"github.com/dropDatabas3/cuentas/internal/provision"
	"github.com/dropDatabas3/cuentas/internal/runtime"
)

func main() {
	_ = godotenv.Load()

	var configPath string

	root := &cobra.Command{
		Use:   "cuentas",
		Short: "Herramientas de operación del servicio de cuentas",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/config.example.yaml", "Path al YAML de config")

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Muestra qué construiría el bootstrap en este entorno (sin tocar la red)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadOrDefault(configPath)
			rc := runtime.Resolve()
			p := provision.New(rc, cfg)

			fmt.Printf("contexto de despliegue: %s\n", rc)

			db := p.Database(provision.DatabaseSpec{ConnectionName: "accounts"})
			if db.Configured() {
				fmt.Println("database: DSN configurada")
			} else {
				fmt.Println("database: SIN connection string (el runner abortaría la migración)")
			}

			blobs, err := p.BlobStores([]provision.NamedConnection{
				{Name: "media", EnvKey: "BLOB_BUCKET_MEDIA"},
				{Name: "exports", EnvKey: "BLOB_BUCKET_EXPORTS"},
			})
			if err != nil {
				return err
			}
			for name, h := range blobs {
				if rc.IsCloud() {
					fmt.Printf("blob %q: bucket=%q identity=%q\n", name, h.Bucket, h.IdentityRoleARN)
				} else {
					fmt.Printf("blob %q: bucket=%q endpoint=%s (emulador local)\n", name, h.Bucket, h.Endpoint)
				}
			}

			sec, err := p.SecretStore()
			if err != nil {
				return err
			}
			if sec == nil {
				fmt.Println("secret store: deshabilitado")
			} else {
				fmt.Printf("secret store: %s identity=%q\n", sec.Addr, sec.IdentityRoleARN)
			}

			if rc.IsCloud() {
				fmt.Printf("email: SMTP %s:%d\n", cfg.Email.SMTP.Host, cfg.Email.SMTP.Port)
			} else {
				fmt.Println("email: capture (nunca sale del proceso)")
			}
			return nil
		},
	}

	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Lista las variables de entorno que consume el bootstrap",
		Run: func(cmd *cobra.Command, args []string) {
			for _, k := range []string{
				runtime.EnvCloudMarker,
				provision.EnvDatabaseURL,
				provision.EnvIdentityRoleARN,
				provision.EnvSecretStoreAddr,
				"BLOB_BUCKET_MEDIA",
				"BLOB_BUCKET_EXPORTS",
			} {
				v := os.Getenv(k)
				if v == "" {
					fmt.Printf("%s=(sin setear)\n", k)
				} else {
					fmt.Printf("%s=%s\n", k, v)
				}
			}
		},
	}

	root.AddCommand(doctorCmd, envCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadOrDefault(path string) *config.Config {
	if st, err := os.Stat(path); err == nil && !st.IsDir() {
		if cfg, err := config.Load(path); err == nil {
			return cfg
		}
	}
	return config.Default()
}
