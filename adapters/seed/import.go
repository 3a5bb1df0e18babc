package seed

import (
	"github.com/google/uuid"

	"quote-pricing/adapters/storage"
	"quote-pricing/internal/errors"
)

// Import writes a parsed seed catalog into the store as one new pricing
// version and returns the version id. Entries are inserted in catalog
// order; the first failure aborts the import.
func Import(store *storage.Store, seedCatalog *Catalog) (uuid.UUID, error) {
	if seedCatalog == nil || seedCatalog.Version == nil {
		return uuid.Nil, errors.New(errors.TypeInput, "seed catalog has no version")
	}

	versionID, err := store.InsertPricingVersion(storage.VersionRecord{
		VersionNumber: seedCatalog.Version.Number,
		Description:   seedCatalog.Version.Description,
		CreatedBy:     seedCatalog.Version.CreatedBy,
		MakeCurrent:   seedCatalog.Version.MakeCurrent,
	})
	if err != nil {
		return uuid.Nil, err
	}

	for i, block := range seedCatalog.Products {
		price, err := money(block.MonthlyPrice, "product "+block.Code+" monthly_price")
		if err != nil {
			return uuid.Nil, err
		}
		sortOrder := block.SortOrder
		if sortOrder == 0 {
			sortOrder = i + 1
		}
		if _, err := store.InsertProduct(versionID, storage.ProductRecord{
			ProductCode:        block.Code,
			Name:               block.Name,
			Category:           block.Category,
			ProductType:        productType(block.Type),
			MonthlyPrice:       price,
			PricingFormula:     block.PricingFormula,
			SelectionRules:     block.SelectionRules,
			RequiredParameters: block.RequiredParameters,
			RelatedSetupSKUs:   block.RelatedSetupSKUs,
			SortOrder:          sortOrder,
			IsActive:           active(block.Active),
		}); err != nil {
			return uuid.Nil, err
		}
	}

	for i, block := range seedCatalog.SetupSKUs {
		price, err := money(block.FixedPrice, "setup_sku "+block.Code+" fixed_price")
		if err != nil {
			return uuid.Nil, err
		}
		sortOrder := block.SortOrder
		if sortOrder == 0 {
			sortOrder = i + 1
		}
		if _, err := store.InsertSKU(versionID, storage.SKURecord{
			SKUCode:        block.Code,
			Name:           block.Name,
			Description:    block.Description,
			Category:       block.Category,
			FixedPrice:     price,
			EstimatedHours: block.EstimatedHours,
			SortOrder:      sortOrder,
			IsActive:       active(block.Active),
		}); err != nil {
			return uuid.Nil, err
		}
	}

	for i, block := range seedCatalog.Modules {
		sortOrder := block.SortOrder
		if sortOrder == 0 {
			sortOrder = i + 1
		}
		if _, err := store.InsertApplicationModule(versionID, storage.ModuleRecord{
			ModuleCode:         block.Code,
			ModuleName:         block.Name,
			Description:        block.Description,
			ProductCode:        block.ProductCode,
			SelectionRules:     block.SelectionRules,
			RequiredParameters: block.RequiredParameters,
			SortOrder:          sortOrder,
			IsActive:           active(block.Active),
		}); err != nil {
			return uuid.Nil, err
		}
	}

	for i, block := range seedCatalog.IntegrationTypes {
		cost, err := money(block.MonthlyCost, "integration_type "+block.Code+" monthly_cost")
		if err != nil {
			return uuid.Nil, err
		}
		sortOrder := block.SortOrder
		if sortOrder == 0 {
			sortOrder = i + 1
		}
		if _, err := store.InsertIntegrationType(versionID, storage.IntegrationTypeRecord{
			TypeCode:           block.Code,
			TypeName:           block.Name,
			Description:        block.Description,
			MonthlyCost:        cost,
			MatureSetupSKU:     block.MatureSetupSKU,
			CustomSetupSKU:     block.CustomSetupSKU,
			RequiredParameters: block.RequiredParameters,
			SortOrder:          sortOrder,
			IsActive:           active(block.Active),
		}); err != nil {
			return uuid.Nil, err
		}
	}

	for _, block := range seedCatalog.KnownIntegrations {
		if _, err := store.InsertKnownIntegration(storage.KnownIntegrationRecord{
			IntegrationCode: block.Code,
			SystemName:      block.SystemName,
			Vendor:          block.Vendor,
			Comments:        block.Comments,
			IsActive:        active(block.Active),
		}); err != nil {
			return uuid.Nil, err
		}
	}

	for _, block := range seedCatalog.TravelZones {
		airfare, err := money(block.Airfare, "travel_zone "+block.Name+" airfare")
		if err != nil {
			return uuid.Nil, err
		}
		hotel, err := money(block.Hotel, "travel_zone "+block.Name+" hotel")
		if err != nil {
			return uuid.Nil, err
		}
		perDiem, err := money(block.PerDiem, "travel_zone "+block.Name+" per_diem")
		if err != nil {
			return uuid.Nil, err
		}
		vehicle, err := money(block.Vehicle, "travel_zone "+block.Name+" vehicle")
		if err != nil {
			return uuid.Nil, err
		}
		if _, err := store.InsertTravelZone(versionID, storage.TravelZoneRecord{
			Name:            block.Name,
			AirfareEstimate: airfare,
			HotelRate:       hotel,
			PerDiemRate:     perDiem,
			VehicleRate:     vehicle,
		}); err != nil {
			return uuid.Nil, err
		}
	}

	for i, block := range seedCatalog.PricingRules {
		sortOrder := block.SortOrder
		if sortOrder == 0 {
			sortOrder = i + 1
		}
		if _, err := store.InsertPricingRule(versionID, storage.PricingRuleRecord{
			RuleCode:      block.Code,
			RuleName:      block.Name,
			Description:   block.Description,
			RuleType:      block.Type,
			Configuration: block.Configuration,
			SortOrder:     sortOrder,
			IsActive:      active(block.Active),
		}); err != nil {
			return uuid.Nil, err
		}
	}

	return versionID, nil
}

// ImportFile loads a seed file and imports it in one step.
func ImportFile(store *storage.Store, path string) (uuid.UUID, error) {
	seedCatalog, err := Load(path)
	if err != nil {
		return uuid.Nil, err
	}
	return Import(store, seedCatalog)
}

func productType(t string) string {
	if t == "" {
		return "base"
	}
	return t
}
