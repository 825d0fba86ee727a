// Package cli wires the catalog-admin commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "catalog-admin",
		Short: "Product and client catalog administration",
		Long: `catalog-admin serves the catalog administration web application and
manages its database.

Examples:
  catalog-admin                                    # serve (default)
  catalog-admin migrate up                         # apply pending migrations
  catalog-admin user create --username ana --password secreto`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfgPath, "")
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to a config file (yaml, toml or json)")

	root.AddCommand(newServeCommand(&cfgPath))
	root.AddCommand(newMigrateCommand(&cfgPath))
	root.AddCommand(newUserCommand(&cfgPath))
	return root
}

func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
