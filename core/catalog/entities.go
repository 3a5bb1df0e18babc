// Package catalog defines the versioned pricing catalog entities and the
// read-only, request-scoped accessor the engine reads them through.
//
// Every entity belongs to exactly one pricing version, an immutable
// snapshot of prices managed by administrators. The engine never writes
// catalog data.
package catalog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quote-pricing/core/rules"
)

// PricingVersion is one immutable snapshot of all catalog prices and rules.
type PricingVersion struct {
	ID            uuid.UUID
	VersionNumber string
	Description   string
	EffectiveDate time.Time
	CreatedBy     string
	CreatedAt     time.Time
	IsCurrent     bool
	IsLocked      bool
}

// ParameterSpec is a schema hint describing one parameter a catalog entry
// expects from the caller. The engine does not enforce these; they drive
// form rendering upstream.
type ParameterSpec struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	Default  any      `json:"default,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// Product is a subscription catalog entry: a base product, an addon, a
// module's linked product or an interface product.
type Product struct {
	ID          uuid.UUID
	ProductCode string
	Name        string
	Category    string
	ProductType string // "base", "addon", "module", "interface"

	// MonthlyPrice is the flat fallback price when no formula is attached.
	MonthlyPrice decimal.Decimal

	PricingFormula     rules.Formula
	SelectionRules     *rules.SelectionGroup
	RequiredParameters []ParameterSpec
	RelatedSetupSKUs   []rules.SelectionRule

	SortOrder int
	IsActive  bool
}

// Formula returns the product's pricing formula, falling back to a fixed
// formula at MonthlyPrice when none is configured.
func (p *Product) Formula() rules.Formula {
	if p.PricingFormula != nil {
		return p.PricingFormula
	}
	return rules.Fixed{Price: p.MonthlyPrice}
}

// SetupSKU is a one-time professional-services item.
type SetupSKU struct {
	ID             uuid.UUID
	SKUCode        string
	Name           string
	Description    string
	Category       string
	FixedPrice     decimal.Decimal
	EstimatedHours int
	SortOrder      int
	IsActive       bool
}

// ApplicationModule is an optional application capability. When enabled it
// contributes its linked product's monthly price and whatever setup SKUs
// its selection rules fire.
type ApplicationModule struct {
	ID          uuid.UUID
	ModuleCode  string
	ModuleName  string
	Description string

	// ProductCode names the linked subscription product. A dangling code is
	// tolerated: the module's monthly contribution is skipped.
	ProductCode string

	SelectionRules     *rules.SelectionGroup
	RequiredParameters []ParameterSpec

	SortOrder int
	IsActive  bool
}

// IntegrationType prices one category of per-system integration.
type IntegrationType struct {
	ID          uuid.UUID
	TypeCode    string // "BIDIRECTIONAL", "PAYMENT_IMPORT"
	TypeName    string
	Description string

	MonthlyCost decimal.Decimal

	// MatureSetupSKU is charged for systems in the known-integrations
	// registry; CustomSetupSKU for everything else.
	MatureSetupSKU string
	CustomSetupSKU string

	RequiredParameters []ParameterSpec

	SortOrder int
	IsActive  bool
}

// KnownIntegration is a registry entry for a system with an existing
// pre-built connector.
type KnownIntegration struct {
	ID              uuid.UUID
	IntegrationCode string
	SystemName      string
	Vendor          string
	Comments        string
	IsActive        bool
}

// TravelZone carries the per-unit travel rates for one geography.
type TravelZone struct {
	ID              uuid.UUID
	Name            string
	AirfareEstimate decimal.Decimal
	HotelRate       decimal.Decimal
	PerDiemRate     decimal.Decimal
	VehicleRate     decimal.Decimal
}

// PricingRule is one named, versioned calculation rule. Configuration is
// the rule's JSON document; its shape depends on RuleType and is decoded by
// the calculator that consumes it.
type PricingRule struct {
	ID            uuid.UUID
	RuleCode      string
	RuleName      string
	Description   string
	RuleType      string
	Configuration json.RawMessage
	SortOrder     int
	IsActive      bool
}
