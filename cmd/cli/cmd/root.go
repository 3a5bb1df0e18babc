// Package cmd provides the CLI commands for quote-pricing.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quote-pricing/adapters/storage"
	"quote-pricing/internal/config"
	"quote-pricing/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quote-pricing",
	Short: "Configuration-driven pricing for professional-services quotes",
	Long: `quote-pricing prices SaaS subscription quotes from a versioned catalog.

Products, setup SKUs, modules, integrations and calculation rules live in
the catalog; the engine evaluates them against quote parameters without
code changes.

Examples:
  quote-pricing catalog import catalog.hcl
  quote-pricing quote configure params.json
  quote-pricing quote complexity params.json
  quote-pricing serve --addr :8080`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.quote-pricing/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// openStore opens the configured catalog database.
func openStore() (*storage.Store, error) {
	return storage.Open(config.Get().Catalog.DatabasePath)
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("quote-pricing version 0.1.0")
	},
}
