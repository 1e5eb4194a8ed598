package cmd

import (
	"fmt"

	"agenda-backend/utils"

	"github.com/spf13/cobra"
)

func newSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secret",
		Short: "Print fresh values for JWT_SECRET and the cancel token keys",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "JWT_SECRET=%s\n", utils.GenerateSecret())
			fmt.Fprintf(out, "CANCEL_TOKEN_HASH_KEY=%s\n", utils.GenerateSecret())
			fmt.Fprintf(out, "CANCEL_TOKEN_BLOCK_KEY=%s\n", utils.GenerateSecret())
		},
	}
}
