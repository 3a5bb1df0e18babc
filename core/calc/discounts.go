package calc

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountConfig carries the discounts requested for one quote. Percentages
// are whole numbers (10 means 10%), SetupFixed is a dollar amount.
type DiscountConfig struct {
	SaaSYear1Pct    decimal.Decimal `json:"saas_year1_pct"`
	SaaSAllYearsPct decimal.Decimal `json:"saas_all_years_pct"`
	SetupFixed      decimal.Decimal `json:"setup_fixed"`
	SetupPct        decimal.Decimal `json:"setup_pct"`
}

// DiscountResult breaks down the effect of stacked discounts.
type DiscountResult struct {
	SaaSMonthlyBefore       decimal.Decimal `json:"saas_monthly_before"`
	SaaSMonthlyAfter        decimal.Decimal `json:"saas_monthly_after"`
	SaaSYear1DiscountAmount decimal.Decimal `json:"saas_year1_discount_amount"`
	SaaSAllYearsDiscountPct decimal.Decimal `json:"saas_all_years_discount_pct"`
	SetupBefore             decimal.Decimal `json:"setup_before"`
	SetupAfter              decimal.Decimal `json:"setup_after"`
	SetupDiscountAmount     decimal.Decimal `json:"setup_discount_amount"`
	TotalDiscountYear1      decimal.Decimal `json:"total_discount_year1"`
}

// ApplyDiscounts stacks discounts in a fixed order: on SaaS the all-years
// percentage applies to the monthly rate first, then the year-1 percentage
// applies to the resulting annualized figure; on setup the fixed amount
// comes off before the percentage. Quoted totals depend on this exact
// order; do not reorder.
func ApplyDiscounts(saasMonthly, setupTotal decimal.Decimal, cfg *DiscountConfig) DiscountResult {
	if cfg == nil {
		cfg = &DiscountConfig{}
	}

	monthlyAfterAllYears := saasMonthly.Mul(one.Sub(cfg.SaaSAllYearsPct.Div(hundred)))
	annualBefore := saasMonthly.Mul(twelve)
	annualAfter := monthlyAfterAllYears.Mul(twelve).Mul(one.Sub(cfg.SaaSYear1Pct.Div(hundred)))
	year1Discount := annualBefore.Sub(annualAfter)

	setupAfterFixed := setupTotal.Sub(cfg.SetupFixed)
	if setupAfterFixed.IsNegative() {
		setupAfterFixed = decimal.Zero
	}
	setupAfter := setupAfterFixed.Mul(one.Sub(cfg.SetupPct.Div(hundred)))
	setupDiscount := setupTotal.Sub(setupAfter)

	return DiscountResult{
		SaaSMonthlyBefore:       saasMonthly,
		SaaSMonthlyAfter:        monthlyAfterAllYears,
		SaaSYear1DiscountAmount: year1Discount,
		SaaSAllYearsDiscountPct: cfg.SaaSAllYearsPct,
		SetupBefore:             setupTotal,
		SetupAfter:              setupAfter,
		SetupDiscountAmount:     setupDiscount,
		TotalDiscountYear1:      year1Discount.Add(setupDiscount),
	}
}

// DiscountValidation reports whether requested discounts fall inside the
// configured limits and which approval level they require.
type DiscountValidation struct {
	Valid         bool     `json:"valid"`
	Violations    []string `json:"violations,omitempty"`
	ApprovalLevel string   `json:"approval_level,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// discountLimitsConfig is the DISCOUNT_LIMITS rule document.
type discountLimitsConfig struct {
	Limits struct {
		SaaSYear1MaxPct    decimal.Decimal `json:"saas_year1_max_pct"`
		SaaSAllYearsMaxPct decimal.Decimal `json:"saas_all_years_max_pct"`
		SetupMaxPct        decimal.Decimal `json:"setup_max_pct"`
		SetupMaxFixed      decimal.Decimal `json:"setup_max_fixed"`
	} `json:"limits"`
	ApprovalThresholds map[string]approvalThreshold `json:"approval_thresholds"`
}

type approvalThreshold struct {
	SaaSPct  decimal.Decimal `json:"saas_pct"`
	SetupPct decimal.Decimal `json:"setup_pct"`
}

// approvalOrder is least to most senior.
var approvalOrder = []string{"no_approval", "manager", "director", "vp"}

// ValidateDiscounts checks a discount request against the DISCOUNT_LIMITS
// rule. Without a configured rule every request validates, flagged with an
// Error marker so the caller can render "not configured".
func (c *Calculator) ValidateDiscounts(cfg DiscountConfig) (DiscountValidation, error) {
	raw, err := c.ruleConfig(RuleDiscountLimits)
	if err != nil {
		return DiscountValidation{}, err
	}
	if raw == nil {
		return DiscountValidation{Valid: true, Error: "DISCOUNT_LIMITS rule not configured"}, nil
	}

	var limits discountLimitsConfig
	if err := json.Unmarshal(raw, &limits); err != nil {
		return DiscountValidation{Valid: true, Error: "DISCOUNT_LIMITS configuration is malformed"}, nil
	}

	var violations []string
	check := func(name string, requested, max decimal.Decimal) {
		if requested.GreaterThan(max) {
			violations = append(violations, fmt.Sprintf("%s %s exceeds maximum %s", name, requested, max))
		}
	}
	check("saas_year1_pct", cfg.SaaSYear1Pct, limits.Limits.SaaSYear1MaxPct)
	check("saas_all_years_pct", cfg.SaaSAllYearsPct, limits.Limits.SaaSAllYearsMaxPct)
	check("setup_pct", cfg.SetupPct, limits.Limits.SetupMaxPct)
	check("setup_fixed", cfg.SetupFixed, limits.Limits.SetupMaxFixed)

	saasRequested := cfg.SaaSYear1Pct
	if cfg.SaaSAllYearsPct.GreaterThan(saasRequested) {
		saasRequested = cfg.SaaSAllYearsPct
	}

	level := ""
	for _, name := range approvalOrder {
		threshold, ok := limits.ApprovalThresholds[name]
		if !ok {
			continue
		}
		level = name
		if saasRequested.LessThanOrEqual(threshold.SaaSPct) && cfg.SetupPct.LessThanOrEqual(threshold.SetupPct) {
			break
		}
	}

	return DiscountValidation{
		Valid:         len(violations) == 0,
		Violations:    violations,
		ApprovalLevel: level,
	}, nil
}
