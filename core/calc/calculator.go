// Package calc performs the named pricing calculations driven by stored
// PricingRule records: complexity-tier pricing, discount stacking, travel
// costs, multi-year escalation projections and referral commissions.
//
// A Calculator is built per request around a catalog.Accessor and discarded
// afterwards. Missing or inactive rules degrade to structurally complete
// zero-valued results carrying an Error string; the only error a
// calculation returns is the accessor's no-current-pricing-version
// condition.
package calc

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"quote-pricing/core/catalog"
)

// Rule codes the calculator consumes.
const (
	RuleComplexityFactor   = "COMPLEXITY_FACTOR"
	RuleEscalation         = "ESCALATION"
	RuleDiscountLimits     = "DISCOUNT_LIMITS"
	RuleTravelFormula      = "TRAVEL_FORMULA"
	RuleTellerPayments     = "TELLER_PAYMENTS"
	RuleReferralCommission = "REFERRAL_COMMISSION"
)

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Calculator runs rule-driven calculations against one pricing version.
type Calculator struct {
	accessor *catalog.Accessor
}

// New builds a Calculator over a request-scoped accessor.
func New(accessor *catalog.Accessor) *Calculator {
	return &Calculator{accessor: accessor}
}

// ruleConfig returns the configuration document of an active rule, or nil
// when the rule is not configured for the pricing version.
func (c *Calculator) ruleConfig(code string) (json.RawMessage, error) {
	rule, err := c.accessor.GetPricingRule(code)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, nil
	}
	return rule.Configuration, nil
}
