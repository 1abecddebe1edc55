package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"rental-backend/internal/database"
	"rental-backend/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		n, err := database.NewMigratorWithFS(pool, migrations.FS, ".").RunMigrations(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
