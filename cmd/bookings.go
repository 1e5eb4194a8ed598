package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"agenda-backend/config"
	"agenda-backend/services"

	"github.com/spf13/cobra"
)

func newBookingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Inspect and maintain bookings",
	}
	cmd.AddCommand(newBookingsLookupCmd())
	cmd.AddCommand(newBookingsPurgeCmd())
	return cmd
}

func ledger() *services.Ledger {
	return services.NewLedger(config.DB, services.NewAvailabilityService(config.DB, nil), nil)
}

func newBookingsLookupCmd() *cobra.Command {
	var phone, provider string

	c := &cobra.Command{
		Use:   "lookup",
		Short: "List bookings made with a phone number, across providers unless --provider is set",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connect(false); err != nil {
				return err
			}
			scope, err := parseProviderFlag(provider)
			if err != nil {
				return err
			}

			bookings, err := ledger().Lookup(context.Background(), phone, scope)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPROVIDER\tDATE\tTIME\tSERVICE\tCUSTOMER")
			for _, b := range bookings {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", b.ID, b.ProviderID, b.Date, b.Time, b.ServiceTitle, b.CustomerName)
			}
			return w.Flush()
		},
	}

	c.Flags().StringVar(&phone, "phone", "", "customer phone")
	c.Flags().StringVar(&provider, "provider", "", "restrict to one provider (id or slug)")
	_ = c.MarkFlagRequired("phone")
	return c
}

func newBookingsPurgeCmd() *cobra.Command {
	var before string

	c := &cobra.Command{
		Use:   "purge",
		Short: "Delete every booking dated before --before (YYYY-MM-DD)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connect(false); err != nil {
				return err
			}

			n, err := ledger().PurgeBefore(context.Background(), before)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d bookings before %s\n", n, before)
			return nil
		},
	}

	c.Flags().StringVar(&before, "before", "", "cutoff date, exclusive")
	_ = c.MarkFlagRequired("before")
	return c
}
