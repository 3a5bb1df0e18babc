package catalog

import (
	"github.com/google/uuid"

	"quote-pricing/internal/errors"
)

// ErrNoCurrentVersion is returned when no pricing version is designated
// current and none was pinned. Unlike per-entity configuration gaps, this is
// a caller/setup error and propagates.
var ErrNoCurrentVersion = errors.New(errors.TypeConfig, "no current pricing version")

// Source is the persistence boundary the accessor reads through. Every
// lookup is scoped to a pricing version; implementations return (nil, nil)
// for entities that do not exist.
type Source interface {
	CurrentVersionID() (uuid.UUID, error)

	ProductByCode(versionID uuid.UUID, code string) (*Product, error)
	Products(versionID uuid.UUID) ([]*Product, error)
	SKUByCode(versionID uuid.UUID, code string) (*SetupSKU, error)
	ApplicationModules(versionID uuid.UUID) ([]*ApplicationModule, error)
	IntegrationTypeByCode(versionID uuid.UUID, code string) (*IntegrationType, error)
	IntegrationTypes(versionID uuid.UUID) ([]*IntegrationType, error)
	KnownIntegrationByName(systemName string) (*KnownIntegration, error)
	KnownIntegrations() ([]*KnownIntegration, error)
	TravelZoneByID(versionID, zoneID uuid.UUID) (*TravelZone, error)
	PricingRuleByCode(versionID uuid.UUID, code string) (*PricingRule, error)
}

// Accessor is a read-only lookup over one pricing version with a cache that
// lives for a single calculation request. Build a fresh Accessor per
// request and discard it afterwards; sharing one across requests can serve
// prices from a version an administrator has since replaced.
type Accessor struct {
	source Source

	pinnedVersion *uuid.UUID
	versionID     *uuid.UUID

	products          map[string]*Product
	allProducts       []*Product
	skus              map[string]*SetupSKU
	modules           []*ApplicationModule
	integrationTypes  map[string]*IntegrationType
	allIntegrations   []*IntegrationType
	knownIntegrations map[string]*KnownIntegration
	allKnown          []*KnownIntegration
	travelZones       map[uuid.UUID]*TravelZone
	pricingRules      map[string]*PricingRule
}

// NewAccessor builds an accessor over the current pricing version.
func NewAccessor(source Source) *Accessor {
	return &Accessor{source: source}
}

// NewPinnedAccessor builds an accessor over an explicit pricing version,
// e.g. when recalculating a historical quote.
func NewPinnedAccessor(source Source, versionID uuid.UUID) *Accessor {
	return &Accessor{source: source, pinnedVersion: &versionID}
}

// PricingVersionID resolves the pricing version this accessor reads from.
func (a *Accessor) PricingVersionID() (uuid.UUID, error) {
	if a.pinnedVersion != nil {
		return *a.pinnedVersion, nil
	}
	if a.versionID != nil {
		return *a.versionID, nil
	}
	id, err := a.source.CurrentVersionID()
	if err != nil {
		return uuid.Nil, err
	}
	a.versionID = &id
	return id, nil
}

// GetProduct returns the product with the given code, or nil.
func (a *Accessor) GetProduct(code string) (*Product, error) {
	if cached, ok := a.products[code]; ok {
		return cached, nil
	}
	versionID, err := a.PricingVersionID()
	if err != nil {
		return nil, err
	}
	product, err := a.source.ProductByCode(versionID, code)
	if err != nil {
		return nil, err
	}
	if a.products == nil {
		a.products = make(map[string]*Product)
	}
	a.products[code] = product
	return product, nil
}

// GetAllProducts returns every active product in sort order.
func (a *Accessor) GetAllProducts() ([]*Product, error) {
	if a.allProducts != nil {
		return a.allProducts, nil
	}
	versionID, err := a.PricingVersionID()
	if err != nil {
		return nil, err
	}
	products, err := a.source.Products(versionID)
	if err != nil {
		return nil, err
	}
	a.allProducts = products
	return products, nil
}

// GetSKU returns the setup SKU with the given code, or nil.
func (a *Accessor) GetSKU(code string) (*SetupSKU, error) {
	if cached, ok := a.skus[code]; ok {
		return cached, nil
	}
	versionID, err := a.PricingVersionID()
	if err != nil {
		return nil, err
	}
	sku, err := a.source.SKUByCode(versionID, code)
	if err != nil {
		return nil, err
	}
	if a.skus == nil {
		a.skus = make(map[string]*SetupSKU)
	}
	a.skus[code] = sku
	return sku, nil
}

// GetAllApplicationModules returns every active module in sort order.
func (a *Accessor) GetAllApplicationModules() ([]*ApplicationModule, error) {
	if a.modules != nil {
		return a.modules, nil
	}
	versionID, err := a.PricingVersionID()
	if err != nil {
		return nil, err
	}
	modules, err := a.source.ApplicationModules(versionID)
	if err != nil {
		return nil, err
	}
	a.modules = modules
	return modules, nil
}

// GetIntegrationType returns the integration type with the given code, or nil.
func (a *Accessor) GetIntegrationType(code string) (*IntegrationType, error) {
	if cached, ok := a.integrationTypes[code]; ok {
		return cached, nil
	}
	versionID, err := a.PricingVersionID()
	if err != nil {
		return nil, err
	}
	integrationType, err := a.source.IntegrationTypeByCode(versionID, code)
	if err != nil {
		return nil, err
	}
	if a.integrationTypes == nil {
		a.integrationTypes = make(map[string]*IntegrationType)
	}
	a.integrationTypes[code] = integrationType
	return integrationType, nil
}

// GetAllIntegrationTypes returns every active integration type in sort order.
func (a *Accessor) GetAllIntegrationTypes() ([]*IntegrationType, error) {
	if a.allIntegrations != nil {
		return a.allIntegrations, nil
	}
	versionID, err := a.PricingVersionID()
	if err != nil {
		return nil, err
	}
	types, err := a.source.IntegrationTypes(versionID)
	if err != nil {
		return nil, err
	}
	a.allIntegrations = types
	return types, nil
}

// GetKnownIntegration returns the known-integrations registry entry for a
// system name, or nil when the system has no pre-built connector.
func (a *Accessor) GetKnownIntegration(systemName string) (*KnownIntegration, error) {
	if cached, ok := a.knownIntegrations[systemName]; ok {
		return cached, nil
	}
	known, err := a.source.KnownIntegrationByName(systemName)
	if err != nil {
		return nil, err
	}
	if a.knownIntegrations == nil {
		a.knownIntegrations = make(map[string]*KnownIntegration)
	}
	a.knownIntegrations[systemName] = known
	return known, nil
}

// GetAllKnownIntegrations returns the full known-integrations registry.
func (a *Accessor) GetAllKnownIntegrations() ([]*KnownIntegration, error) {
	if a.allKnown != nil {
		return a.allKnown, nil
	}
	known, err := a.source.KnownIntegrations()
	if err != nil {
		return nil, err
	}
	a.allKnown = known
	return known, nil
}

// GetTravelZone returns the travel zone with the given id, or nil.
func (a *Accessor) GetTravelZone(zoneID uuid.UUID) (*TravelZone, error) {
	if cached, ok := a.travelZones[zoneID]; ok {
		return cached, nil
	}
	versionID, err := a.PricingVersionID()
	if err != nil {
		return nil, err
	}
	zone, err := a.source.TravelZoneByID(versionID, zoneID)
	if err != nil {
		return nil, err
	}
	if a.travelZones == nil {
		a.travelZones = make(map[uuid.UUID]*TravelZone)
	}
	a.travelZones[zoneID] = zone
	return zone, nil
}

// GetPricingRule returns the active pricing rule with the given code, or nil.
func (a *Accessor) GetPricingRule(code string) (*PricingRule, error) {
	if cached, ok := a.pricingRules[code]; ok {
		return cached, nil
	}
	versionID, err := a.PricingVersionID()
	if err != nil {
		return nil, err
	}
	rule, err := a.source.PricingRuleByCode(versionID, code)
	if err != nil {
		return nil, err
	}
	if a.pricingRules == nil {
		a.pricingRules = make(map[string]*PricingRule)
	}
	a.pricingRules[code] = rule
	return rule, nil
}
