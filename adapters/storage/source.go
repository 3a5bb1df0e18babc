package storage

import (
	"database/sql"
	stderrors "errors"

	"github.com/google/uuid"

	"quote-pricing/core/catalog"
	"quote-pricing/internal/errors"
)

// Store implements catalog.Source. Missing entities come back as (nil, nil)
// per the Source contract; only storage failures produce errors.

// CurrentVersionID returns the pricing version flagged current.
func (s *Store) CurrentVersionID() (uuid.UUID, error) {
	var id string
	err := s.get("current-version-id", &id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, catalog.ErrNoCurrentVersion
	}
	if err != nil {
		return uuid.Nil, errors.Wrap(errors.TypeStorage, "load current pricing version", err)
	}
	return parseUUID(id), nil
}

// ProductByCode loads the active product with the given code, or nil.
func (s *Store) ProductByCode(versionID uuid.UUID, code string) (*catalog.Product, error) {
	var row productRow
	err := s.get("product-by-code", &row, versionID.String(), code)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(errors.TypeStorage, err, "load product %s", code)
	}
	return row.toEntity(), nil
}

// Products loads every active product for a pricing version in sort order.
func (s *Store) Products(versionID uuid.UUID) ([]*catalog.Product, error) {
	var rows []productRow
	if err := s.selectAll("products-by-version", &rows, versionID.String()); err != nil {
		return nil, errors.Wrap(errors.TypeStorage, "load products", err)
	}
	products := make([]*catalog.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toEntity())
	}
	return products, nil
}

// SKUByCode loads the active setup SKU with the given code, or nil.
func (s *Store) SKUByCode(versionID uuid.UUID, code string) (*catalog.SetupSKU, error) {
	var row skuRow
	err := s.get("sku-by-code", &row, versionID.String(), code)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(errors.TypeStorage, err, "load setup sku %s", code)
	}
	return row.toEntity(), nil
}

// ApplicationModules loads every active module in sort order.
func (s *Store) ApplicationModules(versionID uuid.UUID) ([]*catalog.ApplicationModule, error) {
	var rows []moduleRow
	if err := s.selectAll("modules-by-version", &rows, versionID.String()); err != nil {
		return nil, errors.Wrap(errors.TypeStorage, "load application modules", err)
	}
	modules := make([]*catalog.ApplicationModule, 0, len(rows))
	for _, row := range rows {
		modules = append(modules, row.toEntity())
	}
	return modules, nil
}

// IntegrationTypeByCode loads the active integration type with the given
// code, or nil.
func (s *Store) IntegrationTypeByCode(versionID uuid.UUID, code string) (*catalog.IntegrationType, error) {
	var row integrationTypeRow
	err := s.get("integration-type-by-code", &row, versionID.String(), code)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(errors.TypeStorage, err, "load integration type %s", code)
	}
	return row.toEntity(), nil
}

// IntegrationTypes loads every active integration type in sort order.
func (s *Store) IntegrationTypes(versionID uuid.UUID) ([]*catalog.IntegrationType, error) {
	var rows []integrationTypeRow
	if err := s.selectAll("integration-types-by-version", &rows, versionID.String()); err != nil {
		return nil, errors.Wrap(errors.TypeStorage, "load integration types", err)
	}
	types := make([]*catalog.IntegrationType, 0, len(rows))
	for _, row := range rows {
		types = append(types, row.toEntity())
	}
	return types, nil
}

// KnownIntegrationByName loads the registry entry for a system name, or nil.
func (s *Store) KnownIntegrationByName(systemName string) (*catalog.KnownIntegration, error) {
	var row knownIntegrationRow
	err := s.get("known-integration-by-name", &row, systemName)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(errors.TypeStorage, err, "load known integration %s", systemName)
	}
	return row.toEntity(), nil
}

// KnownIntegrations loads the full registry.
func (s *Store) KnownIntegrations() ([]*catalog.KnownIntegration, error) {
	var rows []knownIntegrationRow
	if err := s.selectAll("known-integrations", &rows); err != nil {
		return nil, errors.Wrap(errors.TypeStorage, "load known integrations", err)
	}
	known := make([]*catalog.KnownIntegration, 0, len(rows))
	for _, row := range rows {
		known = append(known, row.toEntity())
	}
	return known, nil
}

// TravelZoneByID loads one travel zone, or nil.
func (s *Store) TravelZoneByID(versionID, zoneID uuid.UUID) (*catalog.TravelZone, error) {
	var row travelZoneRow
	err := s.get("travel-zone-by-id", &row, versionID.String(), zoneID.String())
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(errors.TypeStorage, err, "load travel zone %s", zoneID)
	}
	return row.toEntity(), nil
}

// PricingRuleByCode loads the active pricing rule with the given code, or nil.
func (s *Store) PricingRuleByCode(versionID uuid.UUID, code string) (*catalog.PricingRule, error) {
	var row pricingRuleRow
	err := s.get("pricing-rule-by-code", &row, versionID.String(), code)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(errors.TypeStorage, err, "load pricing rule %s", code)
	}
	return row.toEntity(), nil
}
