package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quote-pricing/internal/errors"
)

// Record types carry catalog entries into the store. Rule, formula and
// selection documents stay as JSON text; the engine decodes them at load.

// VersionRecord describes a pricing version to create.
type VersionRecord struct {
	VersionNumber string
	Description   string
	EffectiveDate time.Time
	CreatedBy     string
	MakeCurrent   bool
	Locked        bool
}

// ProductRecord describes a subscription product to import.
type ProductRecord struct {
	ProductCode        string
	Name               string
	Category           string
	ProductType        string
	MonthlyPrice       decimal.Decimal
	PricingFormula     string
	SelectionRules     string
	RequiredParameters string
	RelatedSetupSKUs   string
	SortOrder          int
	IsActive           bool
}

// SKURecord describes a setup SKU to import.
type SKURecord struct {
	SKUCode        string
	Name           string
	Description    string
	Category       string
	FixedPrice     decimal.Decimal
	EstimatedHours int
	SortOrder      int
	IsActive       bool
}

// ModuleRecord describes an application module to import.
type ModuleRecord struct {
	ModuleCode         string
	ModuleName         string
	Description        string
	ProductCode        string
	SelectionRules     string
	RequiredParameters string
	SortOrder          int
	IsActive           bool
}

// IntegrationTypeRecord describes an integration type to import.
type IntegrationTypeRecord struct {
	TypeCode           string
	TypeName           string
	Description        string
	MonthlyCost        decimal.Decimal
	MatureSetupSKU     string
	CustomSetupSKU     string
	RequiredParameters string
	SortOrder          int
	IsActive           bool
}

// KnownIntegrationRecord describes a known-integrations registry entry.
type KnownIntegrationRecord struct {
	IntegrationCode string
	SystemName      string
	Vendor          string
	Comments        string
	IsActive        bool
}

// TravelZoneRecord describes a travel zone to import.
type TravelZoneRecord struct {
	Name            string
	AirfareEstimate decimal.Decimal
	HotelRate       decimal.Decimal
	PerDiemRate     decimal.Decimal
	VehicleRate     decimal.Decimal
}

// PricingRuleRecord describes a named calculation rule to import.
type PricingRuleRecord struct {
	RuleCode      string
	RuleName      string
	Description   string
	RuleType      string
	Configuration string
	SortOrder     int
	IsActive      bool
}

// InsertPricingVersion creates a pricing version and returns its id. With
// MakeCurrent set the new version becomes the single current one.
func (s *Store) InsertPricingVersion(rec VersionRecord) (uuid.UUID, error) {
	id := uuid.New()
	effective := ""
	if !rec.EffectiveDate.IsZero() {
		effective = rec.EffectiveDate.UTC().Format(time.RFC3339)
	}
	created := time.Now().UTC().Format(time.RFC3339)

	_, err := s.exec("insert-pricing-version",
		id.String(), rec.VersionNumber, rec.Description, effective, rec.CreatedBy, created, false, rec.Locked)
	if err != nil {
		return uuid.Nil, errors.Wrapf(errors.TypeStorage, err, "insert pricing version %s", rec.VersionNumber)
	}

	if rec.MakeCurrent {
		if err := s.SetCurrentVersion(id); err != nil {
			return uuid.Nil, err
		}
	}
	return id, nil
}

// SetCurrentVersion flags one version current and clears the flag on every
// other version.
func (s *Store) SetCurrentVersion(id uuid.UUID) error {
	if _, err := s.exec("clear-current-version"); err != nil {
		return errors.Wrap(errors.TypeStorage, "clear current version", err)
	}
	if _, err := s.exec("set-current-version", id.String()); err != nil {
		return errors.Wrapf(errors.TypeStorage, err, "set current version %s", id)
	}
	return nil
}

// InsertProduct imports one product into a pricing version.
func (s *Store) InsertProduct(versionID uuid.UUID, rec ProductRecord) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.exec("insert-product",
		id.String(), versionID.String(), rec.ProductCode, rec.Name, rec.Category, rec.ProductType,
		rec.MonthlyPrice.String(), rec.PricingFormula, rec.SelectionRules,
		rec.RequiredParameters, rec.RelatedSetupSKUs, rec.SortOrder, rec.IsActive)
	if err != nil {
		return uuid.Nil, errors.Wrapf(errors.TypeStorage, err, "insert product %s", rec.ProductCode)
	}
	return id, nil
}

// InsertSKU imports one setup SKU into a pricing version.
func (s *Store) InsertSKU(versionID uuid.UUID, rec SKURecord) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.exec("insert-setup-sku",
		id.String(), versionID.String(), rec.SKUCode, rec.Name, rec.Description, rec.Category,
		rec.FixedPrice.String(), rec.EstimatedHours, rec.SortOrder, rec.IsActive)
	if err != nil {
		return uuid.Nil, errors.Wrapf(errors.TypeStorage, err, "insert setup sku %s", rec.SKUCode)
	}
	return id, nil
}

// InsertApplicationModule imports one module into a pricing version.
func (s *Store) InsertApplicationModule(versionID uuid.UUID, rec ModuleRecord) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.exec("insert-application-module",
		id.String(), versionID.String(), rec.ModuleCode, rec.ModuleName, rec.Description,
		rec.ProductCode, rec.SelectionRules, rec.RequiredParameters, rec.SortOrder, rec.IsActive)
	if err != nil {
		return uuid.Nil, errors.Wrapf(errors.TypeStorage, err, "insert module %s", rec.ModuleCode)
	}
	return id, nil
}

// InsertIntegrationType imports one integration type into a pricing version.
func (s *Store) InsertIntegrationType(versionID uuid.UUID, rec IntegrationTypeRecord) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.exec("insert-integration-type",
		id.String(), versionID.String(), rec.TypeCode, rec.TypeName, rec.Description,
		rec.MonthlyCost.String(), rec.MatureSetupSKU, rec.CustomSetupSKU,
		rec.RequiredParameters, rec.SortOrder, rec.IsActive)
	if err != nil {
		return uuid.Nil, errors.Wrapf(errors.TypeStorage, err, "insert integration type %s", rec.TypeCode)
	}
	return id, nil
}

// InsertKnownIntegration imports one registry entry. The registry is not
// version-scoped.
func (s *Store) InsertKnownIntegration(rec KnownIntegrationRecord) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.exec("insert-known-integration",
		id.String(), rec.IntegrationCode, rec.SystemName, rec.Vendor, rec.Comments, rec.IsActive)
	if err != nil {
		return uuid.Nil, errors.Wrapf(errors.TypeStorage, err, "insert known integration %s", rec.SystemName)
	}
	return id, nil
}

// InsertTravelZone imports one travel zone into a pricing version.
func (s *Store) InsertTravelZone(versionID uuid.UUID, rec TravelZoneRecord) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.exec("insert-travel-zone",
		id.String(), versionID.String(), rec.Name,
		rec.AirfareEstimate.String(), rec.HotelRate.String(), rec.PerDiemRate.String(), rec.VehicleRate.String())
	if err != nil {
		return uuid.Nil, errors.Wrapf(errors.TypeStorage, err, "insert travel zone %s", rec.Name)
	}
	return id, nil
}

// InsertPricingRule imports one named calculation rule into a pricing
// version.
func (s *Store) InsertPricingRule(versionID uuid.UUID, rec PricingRuleRecord) (uuid.UUID, error) {
	id := uuid.New()
	configuration := rec.Configuration
	if configuration == "" {
		configuration = "{}"
	}
	_, err := s.exec("insert-pricing-rule",
		id.String(), versionID.String(), rec.RuleCode, rec.RuleName, rec.Description,
		rec.RuleType, configuration, rec.SortOrder, rec.IsActive)
	if err != nil {
		return uuid.Nil, errors.Wrapf(errors.TypeStorage, err, "insert pricing rule %s", rec.RuleCode)
	}
	return id, nil
}
