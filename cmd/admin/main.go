// admin herramientas de operación: migraciones del esquema y alta del super admin.
//
// Uso:
//
//	go run ./cmd/admin migrate up|down|status
//	go run ./cmd/admin seed-superadmin --email root@taskhub.io --password ... --name "Root"
//
// La conexión se toma de DATABASE_URL o DB_HOST, DB_PORT, etc.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Administración de TaskHub",
	SilenceUsage:  true,
}

func main() {
	rootCmd.AddCommand(newMigrateCmd(), newSeedSuperAdminCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
