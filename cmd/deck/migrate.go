package main

import (
	"fmt"
	"slices"

	"github.com/phrazzld/studydeck/internal/platform/backend"
	"github.com/phrazzld/studydeck/internal/platform/migrate"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|reset|status|version]",
		Short:     "Run database migrations",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: migrate.Commands,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			if !slices.Contains(migrate.Commands, command) {
				return fmt.Errorf("unknown migration command %q", command)
			}

			b, err := backend.Open(cmd.Context(), databaseConfig(cmd), commandLogger(cmd))
			if err != nil {
				return err
			}
			defer func() { _ = b.Close() }()

			if err := b.Migrate(cmd.Context(), command); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok\n", command)
			return nil
		},
	}
}
