package main

import (
	"vitalz/dashboard/pkg/http"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON API",
	RunE:  runServe,
}

var address string

func init() {
	serveCmd.Flags().StringVarP(&address, "address", "a", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := setup()
	if err != nil {
		return err
	}

	addr := s.Config.HTTP.Address
	if address != "" {
		addr = address
	}

	return http.New(s.Loader, s.Logger, s.Location).Run(addr)
}
