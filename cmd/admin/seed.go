package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/taskhub-api/internal/application/auth"
	"github.com/jhoicas/taskhub-api/internal/infrastructure/postgres"
	"github.com/jhoicas/taskhub-api/pkg/config"
)

func newSeedSuperAdminCmd() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "seed-superadmin",
		Short: "Crea el super admin (idempotente)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbCfg, err := config.LoadDB()
			if err != nil {
				return err
			}
			pool, err := postgres.NewPool(cmd.Context(), dbCfg)
			if err != nil {
				return fmt.Errorf("conexión a PostgreSQL: %w", err)
			}
			defer pool.Close()

			u, created, err := auth.SeedSuperAdmin(cmd.Context(), postgres.NewUserRepository(pool), email, password, name)
			if err != nil {
				return err
			}
			if created {
				cmd.Printf("super admin creado: %s (%s)\n", u.Email, u.ID)
			} else {
				cmd.Printf("super admin ya existe: %s (%s)\n", u.Email, u.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email del super admin")
	cmd.Flags().StringVar(&password, "password", "", "contraseña (8+ caracteres, mayúscula, minúscula y número)")
	cmd.Flags().StringVar(&name, "name", "Super Admin", "nombre completo")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
