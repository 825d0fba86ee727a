package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rogerio-castellano/catalog-admin/internal/db"
)

func newMigrateCommand(cfgPath *string) *cobra.Command {
	withMigrator := func(fn func(ctx context.Context, cmd *cobra.Command, m *db.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			m, err := a.migrator()
			if err != nil {
				return err
			}
			return fn(cmd.Context(), cmd, m)
		}
	}

	up := withMigrator(func(ctx context.Context, _ *cobra.Command, m *db.Migrator) error {
		return m.Up(ctx)
	})

	cmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Manage the database schema",
		Long: `Apply or roll back the embedded schema migrations.

Default behavior (no subcommand): apply every pending migration.`,
		RunE: up,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE:  up,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: withMigrator(func(ctx context.Context, _ *cobra.Command, m *db.Migrator) error {
			return m.Down(ctx)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied version and pending migrations",
		RunE: withMigrator(func(ctx context.Context, cmd *cobra.Command, m *db.Migrator) error {
			status, err := m.Status(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current version: %d\n", status.CurrentVersion)
			fmt.Fprintf(out, "Total migrations: %d\n", status.TotalMigrations)
			if len(status.PendingMigrations) == 0 {
				fmt.Fprintln(out, "Database is up to date")
				return nil
			}
			fmt.Fprintf(out, "Pending migrations: %v\n", status.PendingMigrations)
			return nil
		}),
	})
	return cmd
}
