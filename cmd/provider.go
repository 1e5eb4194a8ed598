package cmd

import (
	"context"
	"fmt"

	"agenda-backend/config"
	"agenda-backend/services"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newProviderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Manage provider accounts",
	}
	cmd.AddCommand(newProviderCreateCmd())
	cmd.AddCommand(newProviderDeleteCmd())
	return cmd
}

func newProviderCreateCmd() *cobra.Command {
	var in services.RegisterInput

	c := &cobra.Command{
		Use:   "create",
		Short: "Register a provider (username/password)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connect(true); err != nil {
				return err
			}

			p, err := services.NewProviderService(config.DB, nil).Register(context.Background(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created provider %q id=%s slug=%s\n", p.Username, p.ID, p.Slug)
			return nil
		},
	}

	c.Flags().StringVar(&in.Username, "username", "", "username")
	c.Flags().StringVar(&in.Password, "password", "", "password")
	c.Flags().StringVar(&in.DisplayName, "name", "", "display name (defaults to username)")
	_ = c.MarkFlagRequired("username")
	_ = c.MarkFlagRequired("password")
	return c
}

func newProviderDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|slug>",
		Short: "Delete a provider with its services, availability and bookings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connect(false); err != nil {
				return err
			}

			ctx := context.Background()
			providers := services.NewProviderService(config.DB, nil)
			p, err := providers.FindByRef(ctx, args[0])
			if err != nil {
				return err
			}
			if err := providers.Delete(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted provider %s (%s)\n", p.Slug, p.ID)
			return nil
		},
	}
}

func parseProviderFlag(ref string) (*uuid.UUID, error) {
	if ref == "" {
		return nil, nil
	}
	p, err := services.NewProviderService(config.DB, nil).FindByRef(context.Background(), ref)
	if err != nil {
		return nil, err
	}
	return &p.ID, nil
}
