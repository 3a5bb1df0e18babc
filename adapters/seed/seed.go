// Package seed loads administrator-authored catalog seed files and imports
// them into the store. Seed files are HCL: one block per catalog entry,
// with formula, condition and rule documents embedded as JSON heredocs.
package seed

import (
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"quote-pricing/internal/errors"
)

// Catalog is one parsed seed file.
type Catalog struct {
	Version           *VersionBlock           `hcl:"version,block"`
	Products          []ProductBlock          `hcl:"product,block"`
	SetupSKUs         []SKUBlock              `hcl:"setup_sku,block"`
	Modules           []ModuleBlock           `hcl:"module,block"`
	IntegrationTypes  []IntegrationTypeBlock  `hcl:"integration_type,block"`
	KnownIntegrations []KnownIntegrationBlock `hcl:"known_integration,block"`
	TravelZones       []TravelZoneBlock       `hcl:"travel_zone,block"`
	PricingRules      []PricingRuleBlock      `hcl:"pricing_rule,block"`
}

// VersionBlock describes the pricing version the seed creates.
type VersionBlock struct {
	Number      string `hcl:"number"`
	Description string `hcl:"description,optional"`
	CreatedBy   string `hcl:"created_by,optional"`
	MakeCurrent bool   `hcl:"make_current,optional"`
}

// ProductBlock is one subscription product.
type ProductBlock struct {
	Code               string `hcl:"code,label"`
	Name               string `hcl:"name"`
	Category           string `hcl:"category,optional"`
	Type               string `hcl:"type,optional"`
	MonthlyPrice       string `hcl:"monthly_price,optional"`
	PricingFormula     string `hcl:"pricing_formula,optional"`
	SelectionRules     string `hcl:"selection_rules,optional"`
	RequiredParameters string `hcl:"required_parameters,optional"`
	RelatedSetupSKUs   string `hcl:"related_setup_skus,optional"`
	SortOrder          int    `hcl:"sort_order,optional"`
	Active             *bool  `hcl:"active,optional"`
}

// SKUBlock is one setup SKU.
type SKUBlock struct {
	Code           string `hcl:"code,label"`
	Name           string `hcl:"name"`
	Description    string `hcl:"description,optional"`
	Category       string `hcl:"category,optional"`
	FixedPrice     string `hcl:"fixed_price,optional"`
	EstimatedHours int    `hcl:"estimated_hours,optional"`
	SortOrder      int    `hcl:"sort_order,optional"`
	Active         *bool  `hcl:"active,optional"`
}

// ModuleBlock is one application module.
type ModuleBlock struct {
	Code               string `hcl:"code,label"`
	Name               string `hcl:"name"`
	Description        string `hcl:"description,optional"`
	ProductCode        string `hcl:"product_code,optional"`
	SelectionRules     string `hcl:"selection_rules,optional"`
	RequiredParameters string `hcl:"required_parameters,optional"`
	SortOrder          int    `hcl:"sort_order,optional"`
	Active             *bool  `hcl:"active,optional"`
}

// IntegrationTypeBlock is one integration category.
type IntegrationTypeBlock struct {
	Code               string `hcl:"code,label"`
	Name               string `hcl:"name"`
	Description        string `hcl:"description,optional"`
	MonthlyCost        string `hcl:"monthly_cost,optional"`
	MatureSetupSKU     string `hcl:"mature_setup_sku,optional"`
	CustomSetupSKU     string `hcl:"custom_setup_sku,optional"`
	RequiredParameters string `hcl:"required_parameters,optional"`
	SortOrder          int    `hcl:"sort_order,optional"`
	Active             *bool  `hcl:"active,optional"`
}

// KnownIntegrationBlock is one known-integrations registry entry.
type KnownIntegrationBlock struct {
	Code       string `hcl:"code,label"`
	SystemName string `hcl:"system_name"`
	Vendor     string `hcl:"vendor,optional"`
	Comments   string `hcl:"comments,optional"`
	Active     *bool  `hcl:"active,optional"`
}

// TravelZoneBlock is one travel zone with per-unit rates.
type TravelZoneBlock struct {
	Name    string `hcl:"name,label"`
	Airfare string `hcl:"airfare"`
	Hotel   string `hcl:"hotel"`
	PerDiem string `hcl:"per_diem"`
	Vehicle string `hcl:"vehicle"`
}

// PricingRuleBlock is one named calculation rule.
type PricingRuleBlock struct {
	Code          string `hcl:"code,label"`
	Name          string `hcl:"name,optional"`
	Description   string `hcl:"description,optional"`
	Type          string `hcl:"type,optional"`
	Configuration string `hcl:"configuration"`
	SortOrder     int    `hcl:"sort_order,optional"`
	Active        *bool  `hcl:"active,optional"`
}

// Load reads and parses a seed file.
func Load(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "read seed file %s", path)
	}
	return Parse(src, path)
}

// Parse decodes seed file source. The filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Catalog, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Newf(errors.TypeInput, "parse %s: %s", filename, diags.Error())
	}

	var seedCatalog Catalog
	if diags := gohcl.DecodeBody(file.Body, nil, &seedCatalog); diags.HasErrors() {
		return nil, errors.Newf(errors.TypeInput, "decode %s: %s", filename, diags.Error())
	}
	if seedCatalog.Version == nil {
		return nil, errors.Newf(errors.TypeInput, "%s: seed file has no version block", filename)
	}
	return &seedCatalog, nil
}

// active resolves the optional active attribute; entries default to active.
func active(flag *bool) bool {
	return flag == nil || *flag
}

// money parses a decimal attribute, treating an empty value as zero.
func money(value, attribute string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, errors.Wrapf(errors.TypeInput, err, "invalid decimal for %s", attribute)
	}
	return d, nil
}
