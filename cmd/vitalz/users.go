package main

import (
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := setup()
		if err != nil {
			return err
		}
		return s.Users(cmd.Context(), cmd.OutOrStdout())
	},
}
