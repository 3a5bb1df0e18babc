// Package cmd - serve command
package cmd

import (
	"github.com/spf13/cobra"

	"quote-pricing/api"
	"quote-pricing/internal/config"
)

var serveAddr string

// serveCmd starts the HTTP API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pricing API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	addr := serveAddr
	if addr == "" {
		addr = config.Get().Server.Addr
	}

	return api.NewServer("0.1.0", store).ListenAndServe(addr)
}
