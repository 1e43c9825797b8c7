package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "rentalctl",
		Short:         "Rental back office",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&c.traceFile, "trace-file", "", "append operation spans as JSON lines to this file")
	root.PersistentFlags().StringVar(&c.metricsFile, "metrics-file", "", "write operation metrics in Prometheus text format to this file on exit")

	root.AddCommand(
		seedCmd(c),
		loginCmd(c),
		logoutCmd(c),
		whoamiCmd(c),
		registerCmd(c),
		applyCmd(c),
		approveCmd(c),
		rejectCmd(c),
		complainCmd(c),
		advanceCmd(c),
		payCmd(c),
		propertyCmd(c),
		browseCmd(c),
		userCmd(c),
		leaseCmd(c),
		statsCmd(c),
		resetCmd(c),
	)
	return root
}
