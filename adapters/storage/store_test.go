package storage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-pricing/core/calc"
	"quote-pricing/core/catalog"
	"quote-pricing/core/rules"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCurrentVersion(t *testing.T) {
	store := openStore(t)

	_, err := store.CurrentVersionID()
	assert.ErrorIs(t, err, catalog.ErrNoCurrentVersion)

	first, err := store.InsertPricingVersion(VersionRecord{VersionNumber: "5.0", MakeCurrent: true})
	require.NoError(t, err)

	id, err := store.CurrentVersionID()
	require.NoError(t, err)
	assert.Equal(t, first, id)

	// Promoting a second version demotes the first.
	second, err := store.InsertPricingVersion(VersionRecord{VersionNumber: "5.1", MakeCurrent: true})
	require.NoError(t, err)

	id, err = store.CurrentVersionID()
	require.NoError(t, err)
	assert.Equal(t, second, id)
}

func TestProductRoundTrip(t *testing.T) {
	store := openStore(t)
	versionID, err := store.InsertPricingVersion(VersionRecord{VersionNumber: "5.1", MakeCurrent: true})
	require.NoError(t, err)

	_, err = store.InsertProduct(versionID, ProductRecord{
		ProductCode:  "CHECK-REC",
		Name:         "Check Recognition",
		Category:     "Module",
		ProductType:  "module",
		MonthlyPrice: dec("1030.00"),
		PricingFormula: `{
			"type": "tiered",
			"volumeParameter": "modules.check_recognition.scan_volume",
			"tiers": [
				{"minVolume": 0, "maxVolume": 50000, "price": 1030.00},
				{"minVolume": 50001, "maxVolume": null, "price": 1500.00}
			]
		}`,
		SortOrder: 1,
		IsActive:  true,
	})
	require.NoError(t, err)

	product, err := store.ProductByCode(versionID, "CHECK-REC")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Check Recognition", product.Name)
	assert.True(t, product.MonthlyPrice.Equal(dec("1030.00")))

	tiered, ok := product.PricingFormula.(rules.Tiered)
	require.True(t, ok, "expected a tiered formula, got %T", product.PricingFormula)
	assert.Len(t, tiered.Tiers, 2)
	assert.Nil(t, tiered.Tiers[1].MaxVolume)

	missing, err := store.ProductByCode(versionID, "NO-SUCH-PRODUCT")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Products in other versions stay invisible.
	otherVersion, err := store.InsertPricingVersion(VersionRecord{VersionNumber: "6.0"})
	require.NoError(t, err)
	fromOther, err := store.ProductByCode(otherVersion, "CHECK-REC")
	require.NoError(t, err)
	assert.Nil(t, fromOther)
}

func TestModuleSelectionRulesRoundTrip(t *testing.T) {
	store := openStore(t)
	versionID, err := store.InsertPricingVersion(VersionRecord{VersionNumber: "5.1", MakeCurrent: true})
	require.NoError(t, err)

	_, err = store.InsertApplicationModule(versionID, ModuleRecord{
		ModuleCode:  "CHECK_RECOGNITION",
		ModuleName:  "Check Recognition",
		ProductCode: "CHECK-REC",
		SelectionRules: `{
			"setupSKUs": [
				{
					"condition": {"type": "parameter_equals", "parameter": "modules.check_recognition.is_new", "value": true},
					"skuCode": "CHECK-ICL-SETUP",
					"quantity": 1,
					"reason": "Initial setup for Check Recognition"
				}
			]
		}`,
		SortOrder: 1,
		IsActive:  true,
	})
	require.NoError(t, err)

	modules, err := store.ApplicationModules(versionID)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	require.NotNil(t, modules[0].SelectionRules)
	require.Len(t, modules[0].SelectionRules.SetupSKUs, 1)
	assert.Equal(t, "CHECK-ICL-SETUP", modules[0].SelectionRules.SetupSKUs[0].SKUCode)
}

func TestInactiveRowsAreFiltered(t *testing.T) {
	store := openStore(t)
	versionID, err := store.InsertPricingVersion(VersionRecord{VersionNumber: "5.1", MakeCurrent: true})
	require.NoError(t, err)

	_, err = store.InsertPricingRule(versionID, PricingRuleRecord{
		RuleCode: "COMPLEXITY_FACTOR",
		RuleType: "TIER_FORMULA",
		IsActive: false,
	})
	require.NoError(t, err)

	rule, err := store.PricingRuleByCode(versionID, "COMPLEXITY_FACTOR")
	require.NoError(t, err)
	assert.Nil(t, rule, "inactive rules must not load")
}

func TestKnownIntegrations(t *testing.T) {
	store := openStore(t)

	_, err := store.InsertKnownIntegration(KnownIntegrationRecord{
		IntegrationCode: "TYLER-MUNIS",
		SystemName:      "Tyler Munis",
		Vendor:          "Tyler Technologies",
		IsActive:        true,
	})
	require.NoError(t, err)

	known, err := store.KnownIntegrationByName("Tyler Munis")
	require.NoError(t, err)
	require.NotNil(t, known)
	assert.Equal(t, "Tyler Technologies", known.Vendor)

	missing, err := store.KnownIntegrationByName("Homegrown System")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// TestCalculatorOverStore wires the sqlite store through the accessor into
// the calculator and checks an end-to-end travel price.
func TestCalculatorOverStore(t *testing.T) {
	store := openStore(t)
	versionID, err := store.InsertPricingVersion(VersionRecord{VersionNumber: "5.1", MakeCurrent: true})
	require.NoError(t, err)

	zoneID, err := store.InsertTravelZone(versionID, TravelZoneRecord{
		Name:            "Zone 2",
		AirfareEstimate: dec("750"),
		HotelRate:       dec("180"),
		PerDiemRate:     dec("60"),
		VehicleRate:     dec("125"),
	})
	require.NoError(t, err)

	calculator := calc.New(catalog.NewAccessor(store))
	result, err := calculator.TravelCost(zoneID, []calc.Trip{{Days: 2, People: 2}})
	require.NoError(t, err)
	assert.Equal(t, "Zone 2", result.ZoneName)
	assert.True(t, result.TotalTravelCost.Equal(dec("3315")),
		"total = %s, want 3315", result.TotalTravelCost)
}

func TestTravelZoneMissing(t *testing.T) {
	store := openStore(t)
	versionID, err := store.InsertPricingVersion(VersionRecord{VersionNumber: "5.1", MakeCurrent: true})
	require.NoError(t, err)

	zone, err := store.TravelZoneByID(versionID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, zone)
}
