package cmd

import (
	"agenda-backend/config"
	"agenda-backend/models"
	"agenda-backend/utils"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return connect(true)
		},
	}
}

func runMigrations() error {
	if err := models.AutoMigrate(config.DB); err != nil {
		return err
	}
	utils.GetLogger().Info("database migrated")
	return nil
}
