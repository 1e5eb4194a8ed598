package cmd

import (
	"fmt"
	"os"

	"agenda-backend/config"
	"agenda-backend/utils"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agenda",
		Short: "Multi-tenant booking service for hairdressers and barbers",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadConfig()
			utils.InitializeLogger()
			return nil
		},
		SilenceUsage: true,
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newProviderCmd())
	root.AddCommand(newBookingsCmd())
	root.AddCommand(newSecretCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// connect opens config.DB, migrating first when asked.
func connect(migrate bool) error {
	if err := config.ConnectDB(); err != nil {
		return err
	}
	if migrate {
		return runMigrations()
	}
	return nil
}
