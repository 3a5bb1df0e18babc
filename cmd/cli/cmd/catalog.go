// Package cmd - catalog commands
package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"quote-pricing/adapters/seed"
)

// catalogCmd groups catalog management
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the pricing catalog",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// catalogImportCmd imports a seed file as a new pricing version
var catalogImportCmd = &cobra.Command{
	Use:   "import [catalog.hcl]",
	Short: "Import a catalog seed file as a new pricing version",
	Long: `Parse an HCL catalog seed file and load its products, setup SKUs,
modules, integration types, travel zones and pricing rules into the
catalog database as one new pricing version.

With make_current set in the seed's version block the imported version
becomes the current one.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

// catalogActivateCmd promotes a pricing version to current
var catalogActivateCmd = &cobra.Command{
	Use:   "activate [version-id]",
	Short: "Promote a pricing version to current",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogActivate,
}

func init() {
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogActivateCmd)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	versionID, err := seed.ImportFile(store, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Imported %s as pricing version %s\n", args[0], versionID)
	return nil
}

func runCatalogActivate(cmd *cobra.Command, args []string) error {
	versionID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid version id %q: %w", args[0], err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SetCurrentVersion(versionID); err != nil {
		return err
	}

	fmt.Printf("Pricing version %s is now current\n", versionID)
	return nil
}
