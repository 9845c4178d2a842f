package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/jhoicas/taskhub-api/migrations"
	"github.com/jhoicas/taskhub-api/pkg/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down [version]|status]",
		Short: "Aplica o revierte las migraciones del esquema",
		Args:  migrateArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) > 0 {
				command = args[0]
			}
			version := int64(-1)
			if len(args) > 1 {
				v, _ := strconv.Atoi(args[1])
				version = int64(v)
			}

			db, err := openSQL(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.EmbedMigrations)
			if err != nil {
				return fmt.Errorf("crear provider de goose: %w", err)
			}
			return runMigration(cmd.Context(), provider, command, version, cmd.OutOrStdout())
		},
	}
}

// migrateArgs acepta: nada, up, status, down o down <versión>.
func migrateArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.RangeArgs(0, 2)(cmd, args); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	switch args[0] {
	case "up", "down", "status":
	default:
		return fmt.Errorf("comando de migración inválido: %q", args[0])
	}
	if len(args) == 2 {
		if args[0] != "down" {
			return fmt.Errorf("solo down acepta versión: %q", args)
		}
		if v, err := strconv.Atoi(args[1]); err != nil || v < 0 {
			return fmt.Errorf("versión inválida: %q", args[1])
		}
	}
	return nil
}

func runMigration(ctx context.Context, provider *goose.Provider, command string, version int64, out io.Writer) error {
	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintf(out, "OK   %s (%s)\n", r.Source.Path, r.Duration)
		}
		if len(results) == 0 {
			fmt.Fprintln(out, "sin migraciones pendientes")
		}
	case "down":
		if version < 0 {
			r, err := provider.Down(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "DOWN %s\n", r.Source.Path)
			return nil
		}
		results, err := provider.DownTo(ctx, version)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintf(out, "DOWN %s\n", r.Source.Path)
		}
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			applied := "Pendiente"
			if s.State == goose.StateApplied {
				applied = s.AppliedAt.Format(time.RFC3339)
			}
			fmt.Fprintf(out, "%-25s %s\n", applied, s.Source.Path)
		}
	}
	return nil
}

// openSQL abre database/sql sobre pgx con la configuración de la app.
func openSQL(ctx context.Context) (*sql.DB, error) {
	dbCfg, err := config.LoadDB()
	if err != nil {
		return nil, err
	}
	connCfg, err := pgx.ParseConfig(dbCfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("DSN inválido: %w", err)
	}
	db := stdlib.OpenDB(*connCfg)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return db, nil
}
