// AngelaMos | 2026
// migrate.go

package main

import (
	"github.com/spf13/cobra"

	"github.com/parcel-land/parcel-api/internal/core"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := core.NewDatabase(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck // process exits next

		applied, err := core.Migrate(cmd.Context(), db.DB, logger)
		if err != nil {
			return err
		}

		logger.Info("migrations complete", "applied", applied)
		return nil
	},
}
