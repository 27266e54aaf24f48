package main

import (
	"vitalz/dashboard/defs"

	"github.com/spf13/cobra"
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Print the report for one user's day",
	RunE:  runDay,
}

var (
	dayEmail  string
	dayDevice string
	dayDate   string
)

func init() {
	dayCmd.Flags().StringVar(&dayEmail, "email", "", "user login email")
	dayCmd.Flags().StringVar(&dayDevice, "device", "", "device user id")
	dayCmd.Flags().StringVar(&dayDate, "date", "", "date as YYYY-MM-DD")
	dayCmd.MarkFlagRequired("email")
	dayCmd.MarkFlagRequired("device")
	dayCmd.MarkFlagRequired("date")
}

func runDay(cmd *cobra.Command, args []string) error {
	s, err := setup()
	if err != nil {
		return err
	}

	key := defs.UserKey{LoginEmail: dayEmail, DeviceUserID: dayDevice}
	return s.Day(cmd.Context(), key, dayDate, cmd.OutOrStdout())
}
