package storage

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quote-pricing/core/catalog"
	"quote-pricing/core/rules"
)

// Row structs mirror the table schemas. Money travels as decimal strings,
// rule documents as JSON text.

type productRow struct {
	ID                 string `db:"id"`
	PricingVersionID   string `db:"pricing_version_id"`
	ProductCode        string `db:"product_code"`
	Name               string `db:"name"`
	Category           string `db:"category"`
	ProductType        string `db:"product_type"`
	MonthlyPrice       string `db:"monthly_price"`
	PricingFormula     string `db:"pricing_formula"`
	SelectionRules     string `db:"selection_rules"`
	RequiredParameters string `db:"required_parameters"`
	RelatedSetupSKUs   string `db:"related_setup_skus"`
	SortOrder          int    `db:"sort_order"`
	IsActive           bool   `db:"is_active"`
}

type skuRow struct {
	ID               string `db:"id"`
	PricingVersionID string `db:"pricing_version_id"`
	SKUCode          string `db:"sku_code"`
	Name             string `db:"name"`
	Description      string `db:"description"`
	Category         string `db:"category"`
	FixedPrice       string `db:"fixed_price"`
	EstimatedHours   int    `db:"estimated_hours"`
	SortOrder        int    `db:"sort_order"`
	IsActive         bool   `db:"is_active"`
}

type moduleRow struct {
	ID                 string `db:"id"`
	PricingVersionID   string `db:"pricing_version_id"`
	ModuleCode         string `db:"module_code"`
	ModuleName         string `db:"module_name"`
	Description        string `db:"description"`
	ProductCode        string `db:"product_code"`
	SelectionRules     string `db:"selection_rules"`
	RequiredParameters string `db:"required_parameters"`
	SortOrder          int    `db:"sort_order"`
	IsActive           bool   `db:"is_active"`
}

type integrationTypeRow struct {
	ID                 string `db:"id"`
	PricingVersionID   string `db:"pricing_version_id"`
	TypeCode           string `db:"type_code"`
	TypeName           string `db:"type_name"`
	Description        string `db:"description"`
	MonthlyCost        string `db:"monthly_cost"`
	MatureSetupSKU     string `db:"mature_setup_sku"`
	CustomSetupSKU     string `db:"custom_setup_sku"`
	RequiredParameters string `db:"required_parameters"`
	SortOrder          int    `db:"sort_order"`
	IsActive           bool   `db:"is_active"`
}

type knownIntegrationRow struct {
	ID              string `db:"id"`
	IntegrationCode string `db:"integration_code"`
	SystemName      string `db:"system_name"`
	Vendor          string `db:"vendor"`
	Comments        string `db:"comments"`
	IsActive        bool   `db:"is_active"`
}

type travelZoneRow struct {
	ID               string `db:"id"`
	PricingVersionID string `db:"pricing_version_id"`
	Name             string `db:"name"`
	AirfareEstimate  string `db:"airfare_estimate"`
	HotelRate        string `db:"hotel_rate"`
	PerDiemRate      string `db:"per_diem_rate"`
	VehicleRate      string `db:"vehicle_rate"`
}

type pricingRuleRow struct {
	ID               string `db:"id"`
	PricingVersionID string `db:"pricing_version_id"`
	RuleCode         string `db:"rule_code"`
	RuleName         string `db:"rule_name"`
	Description      string `db:"description"`
	RuleType         string `db:"rule_type"`
	Configuration    string `db:"configuration"`
	SortOrder        int    `db:"sort_order"`
	IsActive         bool   `db:"is_active"`
}

// parseDecimal reads a stored decimal string, treating blanks and garbage
// as zero rather than failing a load.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func parseParameterSpecs(s string) []catalog.ParameterSpec {
	if s == "" {
		return nil
	}
	var specs []catalog.ParameterSpec
	if err := json.Unmarshal([]byte(s), &specs); err != nil {
		return nil
	}
	return specs
}

func (r productRow) toEntity() *catalog.Product {
	product := &catalog.Product{
		ID:                 parseUUID(r.ID),
		ProductCode:        r.ProductCode,
		Name:               r.Name,
		Category:           r.Category,
		ProductType:        r.ProductType,
		MonthlyPrice:       parseDecimal(r.MonthlyPrice),
		RequiredParameters: parseParameterSpecs(r.RequiredParameters),
		SortOrder:          r.SortOrder,
		IsActive:           r.IsActive,
	}
	if r.PricingFormula != "" {
		product.PricingFormula = rules.DecodeFormula([]byte(r.PricingFormula))
	}
	if r.SelectionRules != "" {
		product.SelectionRules = rules.DecodeSelectionGroup([]byte(r.SelectionRules))
	}
	if r.RelatedSetupSKUs != "" {
		product.RelatedSetupSKUs = rules.DecodeSelectionRules([]byte(r.RelatedSetupSKUs))
	}
	return product
}

func (r skuRow) toEntity() *catalog.SetupSKU {
	return &catalog.SetupSKU{
		ID:             parseUUID(r.ID),
		SKUCode:        r.SKUCode,
		Name:           r.Name,
		Description:    r.Description,
		Category:       r.Category,
		FixedPrice:     parseDecimal(r.FixedPrice),
		EstimatedHours: r.EstimatedHours,
		SortOrder:      r.SortOrder,
		IsActive:       r.IsActive,
	}
}

func (r moduleRow) toEntity() *catalog.ApplicationModule {
	module := &catalog.ApplicationModule{
		ID:                 parseUUID(r.ID),
		ModuleCode:         r.ModuleCode,
		ModuleName:         r.ModuleName,
		Description:        r.Description,
		ProductCode:        r.ProductCode,
		RequiredParameters: parseParameterSpecs(r.RequiredParameters),
		SortOrder:          r.SortOrder,
		IsActive:           r.IsActive,
	}
	if r.SelectionRules != "" {
		module.SelectionRules = rules.DecodeSelectionGroup([]byte(r.SelectionRules))
	}
	return module
}

func (r integrationTypeRow) toEntity() *catalog.IntegrationType {
	return &catalog.IntegrationType{
		ID:                 parseUUID(r.ID),
		TypeCode:           r.TypeCode,
		TypeName:           r.TypeName,
		Description:        r.Description,
		MonthlyCost:        parseDecimal(r.MonthlyCost),
		MatureSetupSKU:     r.MatureSetupSKU,
		CustomSetupSKU:     r.CustomSetupSKU,
		RequiredParameters: parseParameterSpecs(r.RequiredParameters),
		SortOrder:          r.SortOrder,
		IsActive:           r.IsActive,
	}
}

func (r knownIntegrationRow) toEntity() *catalog.KnownIntegration {
	return &catalog.KnownIntegration{
		ID:              parseUUID(r.ID),
		IntegrationCode: r.IntegrationCode,
		SystemName:      r.SystemName,
		Vendor:          r.Vendor,
		Comments:        r.Comments,
		IsActive:        r.IsActive,
	}
}

func (r travelZoneRow) toEntity() *catalog.TravelZone {
	return &catalog.TravelZone{
		ID:              parseUUID(r.ID),
		Name:            r.Name,
		AirfareEstimate: parseDecimal(r.AirfareEstimate),
		HotelRate:       parseDecimal(r.HotelRate),
		PerDiemRate:     parseDecimal(r.PerDiemRate),
		VehicleRate:     parseDecimal(r.VehicleRate),
	}
}

func (r pricingRuleRow) toEntity() *catalog.PricingRule {
	return &catalog.PricingRule{
		ID:            parseUUID(r.ID),
		RuleCode:      r.RuleCode,
		RuleName:      r.RuleName,
		Description:   r.Description,
		RuleType:      r.RuleType,
		Configuration: json.RawMessage(r.Configuration),
		SortOrder:     r.SortOrder,
		IsActive:      r.IsActive,
	}
}
