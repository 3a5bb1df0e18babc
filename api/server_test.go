package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-pricing/core/catalog"
	"quote-pricing/core/rules"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// newTestServer builds a server over an in-memory catalog with one current
// version, one base product, a travel zone and the teller-payments rule.
func newTestServer(t *testing.T) (*Server, uuid.UUID) {
	t.Helper()

	zoneID := uuid.New()
	source := &catalog.MemorySource{
		Versions: []*catalog.PricingVersion{
			{ID: uuid.New(), VersionNumber: "5.1", IsCurrent: true},
		},
		ProductList: []*catalog.Product{
			{
				ID:           uuid.New(),
				ProductCode:  "TELLER-STANDARD",
				Name:         "Teller Standard",
				Category:     "Core",
				ProductType:  "base",
				MonthlyPrice: dec("2950.00"),
				SelectionRules: &rules.SelectionGroup{
					Operator: "AND",
					Conditions: []rules.Condition{
						rules.ParameterEquals{Parameter: "base_product", Value: "standard"},
					},
				},
				SortOrder: 1,
				IsActive:  true,
			},
		},
		TravelZoneList: []*catalog.TravelZone{
			{ID: zoneID, Name: "Zone 2", AirfareEstimate: dec("750"), HotelRate: dec("180"), PerDiemRate: dec("60"), VehicleRate: dec("125")},
		},
		PricingRuleList: []*catalog.PricingRule{
			{
				ID:            uuid.New(),
				RuleCode:      "TELLER_PAYMENTS",
				RuleType:      "DISCOUNT",
				Configuration: json.RawMessage(`{"discount_type": "percentage", "applies_to": "saas_monthly", "discount_value": 10}`),
				IsActive:      true,
			},
		},
	}
	return NewServer("test", source), zoneID
}

func post(t *testing.T, server *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestDiscountsEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := post(t, server, "/api/v1/calculations/discounts", `{
		"saas_monthly": "2950.00",
		"setup_total": "100000.00",
		"discounts": {"saas_year1_pct": 10, "saas_all_years_pct": 5, "setup_fixed": 10000, "setup_pct": 5}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		SaaSMonthlyAfter decimal.Decimal `json:"saas_monthly_after"`
		SetupAfter       decimal.Decimal `json:"setup_after"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.SaaSMonthlyAfter.Equal(dec("2802.50")),
		"monthly after = %s", body.SaaSMonthlyAfter)
	assert.True(t, body.SetupAfter.Equal(dec("85500.00")),
		"setup after = %s", body.SetupAfter)
}

func TestTravelEndpoint(t *testing.T) {
	server, zoneID := newTestServer(t)

	rec := post(t, server, "/api/v1/calculations/travel-cost", fmt.Sprintf(`{
		"zone_id": %q,
		"trips": [{"days": 2, "people": 2}]
	}`, zoneID))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ZoneName        string          `json:"zone_name"`
		TotalTravelCost decimal.Decimal `json:"total_travel_cost"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Zone 2", body.ZoneName)
	assert.True(t, body.TotalTravelCost.Equal(dec("3315")),
		"total = %s, want 3315", body.TotalTravelCost)
}

func TestMultiYearEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := post(t, server, "/api/v1/calculations/multi-year", `{
		"saas_monthly": "2950.00",
		"years": 2,
		"escalation_model": "NONE",
		"teller_payments": true
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Years []struct {
			SaaSMonthly decimal.Decimal `json:"saas_monthly"`
		} `json:"years"`
		TellerPaymentsApplied bool `json:"teller_payments_discount_applied"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Years, 2)
	assert.True(t, body.TellerPaymentsApplied)
	assert.True(t, body.Years[0].SaaSMonthly.Equal(dec("2655.00")),
		"monthly = %s, want 2655.00", body.Years[0].SaaSMonthly)
}

func TestMultiYearRejectsZeroYears(t *testing.T) {
	server, _ := newTestServer(t)

	rec := post(t, server, "/api/v1/calculations/multi-year", `{"saas_monthly": "2950.00", "years": 0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
}

func TestReferralEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := post(t, server, "/api/v1/calculations/referral-commission", `{
		"setup_total": "123280.00",
		"referral_rate": 7.5
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		CommissionAmount decimal.Decimal `json:"commission_amount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.CommissionAmount.Equal(dec("9246.00")),
		"commission = %s, want 9246.00", body.CommissionAmount)
}

func TestComplexityEndpointReportsNotConfigured(t *testing.T) {
	server, _ := newTestServer(t)

	// The fixture carries no COMPLEXITY_FACTOR rule; the engine degrades to
	// a zero result with an error marker rather than failing the request.
	rec := post(t, server, "/api/v1/calculations/complexity-factor", `{
		"parameters": {"departments": 7}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "not configured")
}

func TestConfigureEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := post(t, server, "/api/v1/configure", `{
		"parameters": {"base_product": "standard"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		SelectedProducts []struct {
			ProductCode string `json:"product_code"`
		} `json:"selected_products"`
		TotalMonthlyCost decimal.Decimal `json:"total_monthly_cost"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.SelectedProducts, 1)
	assert.Equal(t, "TELLER-STANDARD", body.SelectedProducts[0].ProductCode)
	assert.True(t, body.TotalMonthlyCost.Equal(dec("2950.00")),
		"monthly = %s", body.TotalMonthlyCost)
}

func TestNoCurrentVersionIsConflict(t *testing.T) {
	server := NewServer("test", &catalog.MemorySource{})

	rec := post(t, server, "/api/v1/configure", `{"parameters": {}}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NO_CURRENT_VERSION", body.Error.Code)
}

func TestMalformedJSONIsBadRequest(t *testing.T) {
	server, _ := newTestServer(t)

	rec := post(t, server, "/api/v1/calculations/discounts", `{`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_JSON", body.Error.Code)
}
