package calc

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Escalation models always available even without an ESCALATION rule.
const (
	EscalationStandard4Pct = "STANDARD_4PCT"
	EscalationNone         = "NONE"
)

// YearProjection is one contract year of a multi-year projection. The
// level-loaded fields are present only when level loading was requested and
// sit alongside the escalated figures, never replacing them.
type YearProjection struct {
	Year                   int              `json:"year"`
	SaaSMonthly            decimal.Decimal  `json:"saas_monthly"`
	SaaSAnnual             decimal.Decimal  `json:"saas_annual"`
	Setup                  decimal.Decimal  `json:"setup"`
	Travel                 decimal.Decimal  `json:"travel"`
	Total                  decimal.Decimal  `json:"total"`
	SaaSAnnualLevelLoaded  *decimal.Decimal `json:"saas_annual_level_loaded,omitempty"`
	SaaSMonthlyLevelLoaded *decimal.Decimal `json:"saas_monthly_level_loaded,omitempty"`
}

// ProjectionResult is a full multi-year contract projection.
type ProjectionResult struct {
	Years                 []YearProjection `json:"years"`
	TotalContractValue    decimal.Decimal  `json:"total_contract_value"`
	EscalationModel       string           `json:"escalation_model"`
	LevelLoadingEnabled   bool             `json:"level_loading_enabled"`
	TellerPaymentsApplied bool             `json:"teller_payments_discount_applied"`
}

// escalationConfig is the ESCALATION rule document: named models mapping to
// annual compound rates.
type escalationConfig struct {
	Models       map[string]escalationModel `json:"models"`
	DefaultModel string                     `json:"default_model"`
}

type escalationModel struct {
	Name     string           `json:"name"`
	Rate     *decimal.Decimal `json:"rate"`
	Compound bool             `json:"compound"`
}

// tellerPaymentsConfig is the TELLER_PAYMENTS rule document.
type tellerPaymentsConfig struct {
	DiscountType  string          `json:"discount_type"`
	AppliesTo     string          `json:"applies_to"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}

// escalationRate resolves a model name to an annual rate. The ESCALATION
// rule's models win when configured; otherwise STANDARD_4PCT maps to 4%,
// NONE to 0%, and anything unrecognized falls back to 4%.
func (c *Calculator) escalationRate(model string) (decimal.Decimal, error) {
	raw, err := c.ruleConfig(RuleEscalation)
	if err != nil {
		return decimal.Zero, err
	}
	if raw != nil {
		var cfg escalationConfig
		if err := json.Unmarshal(raw, &cfg); err == nil {
			if m, ok := cfg.Models[model]; ok && m.Rate != nil {
				return *m.Rate, nil
			}
		}
	}

	switch model {
	case EscalationNone:
		return decimal.Zero, nil
	default:
		return decimal.NewFromFloat(0.04), nil
	}
}

// tellerPaymentsPct resolves the teller-payments discount percentage,
// defaulting to 10 when the rule is absent.
func (c *Calculator) tellerPaymentsPct() (decimal.Decimal, error) {
	raw, err := c.ruleConfig(RuleTellerPayments)
	if err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.NewFromInt(10), nil
	}
	var cfg tellerPaymentsConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return decimal.NewFromInt(10), nil
	}
	return cfg.DiscountValue, nil
}

// MultiYearProjection projects the discounted SaaS spend over the contract
// term. Setup bills in year 1 only; a year-1-only percentage discount is
// reapplied to year 1's escalated annual figure; level loading spreads the
// total SaaS spend into a flat per-year average.
func (c *Calculator) MultiYearProjection(
	saasMonthly, setupTotal decimal.Decimal,
	projectionYears int,
	escalationModel string,
	levelLoadingEnabled, tellerPaymentsEnabled bool,
	cfg *DiscountConfig,
) (ProjectionResult, error) {
	discounts := ApplyDiscounts(saasMonthly, setupTotal, cfg)
	baseMonthly := discounts.SaaSMonthlyAfter

	if tellerPaymentsEnabled {
		pct, err := c.tellerPaymentsPct()
		if err != nil {
			return ProjectionResult{}, err
		}
		baseMonthly = baseMonthly.Mul(one.Sub(pct.Div(hundred)))
	}

	rate, err := c.escalationRate(escalationModel)
	if err != nil {
		return ProjectionResult{}, err
	}

	result := ProjectionResult{
		Years:                 make([]YearProjection, 0, projectionYears),
		TotalContractValue:    decimal.Zero,
		EscalationModel:       escalationModel,
		LevelLoadingEnabled:   levelLoadingEnabled,
		TellerPaymentsApplied: tellerPaymentsEnabled,
	}

	factor := one
	for year := 1; year <= projectionYears; year++ {
		if year > 1 {
			factor = factor.Mul(one.Add(rate))
		}

		monthly := baseMonthly.Mul(factor)
		annual := monthly.Mul(twelve)

		if year == 1 && cfg != nil {
			annual = annual.Mul(one.Sub(cfg.SaaSYear1Pct.Div(hundred)))
			monthly = annual.Div(twelve)
		}

		setup := decimal.Zero
		if year == 1 {
			setup = discounts.SetupAfter
		}

		total := annual.Add(setup)
		result.Years = append(result.Years, YearProjection{
			Year:        year,
			SaaSMonthly: monthly,
			SaaSAnnual:  annual,
			Setup:       setup,
			Travel:      decimal.Zero,
			Total:       total,
		})
		result.TotalContractValue = result.TotalContractValue.Add(total)
	}

	if levelLoadingEnabled && projectionYears > 1 {
		totalSaaS := decimal.Zero
		for _, y := range result.Years {
			totalSaaS = totalSaaS.Add(y.SaaSAnnual)
		}
		levelAnnual := totalSaaS.Div(decimal.NewFromInt(int64(projectionYears)))
		levelMonthly := levelAnnual.Div(twelve)
		for i := range result.Years {
			annual := levelAnnual
			monthly := levelMonthly
			result.Years[i].SaaSAnnualLevelLoaded = &annual
			result.Years[i].SaaSMonthlyLevelLoaded = &monthly
		}
	}

	return result, nil
}
