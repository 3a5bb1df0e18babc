// Package cmd - quote commands
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"quote-pricing/core/calc"
	"quote-pricing/core/catalog"
	"quote-pricing/core/rules"
	"quote-pricing/core/selector"
	"quote-pricing/internal/config"
)

var (
	projectionMonthly string
	projectionSetup   string
	projectionYears   int
	projectionModel   string
	projectionLevel   bool
	projectionTeller  bool
	travelZone        string
	travelDays        int
	travelPeople      int
)

// quoteCmd groups the pricing calculations
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Run pricing calculations against the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// quoteConfigureCmd selects products and setup items for quote parameters
var quoteConfigureCmd = &cobra.Command{
	Use:   "configure [params.json]",
	Short: "Select products and setup items for quote parameters",
	Long: `Walk the catalog against a JSON parameter file and print the resulting
configuration: selected products, setup SKUs and totals.

Example parameter file:
  {
    "base_product": "standard",
    "additional_users": 10,
    "modules": {"check_recognition": {"enabled": true, "is_new": true, "scan_volume": 30000}},
    "integrations": {"bidirectional": [{"system_name": "Tyler Munis", "is_new": true}]}
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runQuoteConfigure,
}

// quoteComplexityCmd sizes the organization setup
var quoteComplexityCmd = &cobra.Command{
	Use:   "complexity [params.json]",
	Short: "Compute the complexity factor for quote parameters",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuoteComplexity,
}

// quoteTravelCmd prices on-site trips
var quoteTravelCmd = &cobra.Command{
	Use:   "travel",
	Short: "Price on-site trips against a travel zone",
	RunE:  runQuoteTravel,
}

// quoteProjectionCmd projects the contract over multiple years
var quoteProjectionCmd = &cobra.Command{
	Use:   "projection",
	Short: "Project the contract value over multiple years",
	RunE:  runQuoteProjection,
}

func init() {
	quoteCmd.AddCommand(quoteConfigureCmd)
	quoteCmd.AddCommand(quoteComplexityCmd)
	quoteCmd.AddCommand(quoteTravelCmd)
	quoteCmd.AddCommand(quoteProjectionCmd)

	quoteTravelCmd.Flags().StringVar(&travelZone, "zone", "", "travel zone id")
	quoteTravelCmd.Flags().IntVar(&travelDays, "days", 1, "on-site days per trip")
	quoteTravelCmd.Flags().IntVar(&travelPeople, "people", 1, "people per trip")

	quoteProjectionCmd.Flags().StringVar(&projectionMonthly, "monthly", "0", "SaaS monthly total before discounts")
	quoteProjectionCmd.Flags().StringVar(&projectionSetup, "setup", "0", "setup total before discounts")
	quoteProjectionCmd.Flags().IntVar(&projectionYears, "years", 0, "projection horizon in years (default from config)")
	quoteProjectionCmd.Flags().StringVar(&projectionModel, "model", "", "escalation model (default from config)")
	quoteProjectionCmd.Flags().BoolVar(&projectionLevel, "level-loading", false, "add level-loaded figures")
	quoteProjectionCmd.Flags().BoolVar(&projectionTeller, "teller-payments", false, "apply the teller-payments discount")
}

// loadParameters reads a JSON parameter file into an evaluation context.
func loadParameters(path string) (rules.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read parameters: %w", err)
	}
	var params rules.Context
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("parse parameters: %w", err)
	}
	return params, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runQuoteConfigure(cmd *cobra.Command, args []string) error {
	params, err := loadParameters(args[0])
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := selector.New(catalog.NewAccessor(store)).Configure(params)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runQuoteComplexity(cmd *cobra.Command, args []string) error {
	params, err := loadParameters(args[0])
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := calc.New(catalog.NewAccessor(store)).ComplexityFactor(params)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runQuoteTravel(cmd *cobra.Command, args []string) error {
	zoneID, err := uuid.Parse(travelZone)
	if err != nil {
		return fmt.Errorf("invalid zone id %q: %w", travelZone, err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := calc.New(catalog.NewAccessor(store)).TravelCost(zoneID,
		[]calc.Trip{{Days: travelDays, People: travelPeople}})
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runQuoteProjection(cmd *cobra.Command, args []string) error {
	monthly, err := decimal.NewFromString(projectionMonthly)
	if err != nil {
		return fmt.Errorf("invalid monthly amount %q: %w", projectionMonthly, err)
	}
	setup, err := decimal.NewFromString(projectionSetup)
	if err != nil {
		return fmt.Errorf("invalid setup amount %q: %w", projectionSetup, err)
	}

	cfg := config.Get()
	years := projectionYears
	if years < 1 {
		years = cfg.Quoting.DefaultProjectionYears
	}
	model := projectionModel
	if model == "" {
		model = cfg.Quoting.DefaultEscalationModel
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := calc.New(catalog.NewAccessor(store)).MultiYearProjection(
		monthly, setup, years, model, projectionLevel, projectionTeller, nil)
	if err != nil {
		return err
	}
	return printJSON(result)
}
