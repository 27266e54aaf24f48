package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse users, calendars and days interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return s.Browse(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}
