package calc

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"quote-pricing/core/rules"
)

// ComplexityResult is the outcome of complexity-tier pricing for an
// organization setup.
type ComplexityResult struct {
	Score               float64         `json:"complexity_score"`
	Tier                string          `json:"tier"`
	TierName            string          `json:"tier_name"`
	SKUCode             string          `json:"sku_code,omitempty"`
	BasePrice           decimal.Decimal `json:"base_price"`
	EstimatedHours      int             `json:"estimated_hours"`
	AdditionalItemCount int             `json:"additional_item_count"`
	AdditionalItemPrice decimal.Decimal `json:"additional_item_price"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	Error               string          `json:"error,omitempty"`
}

// complexityConfig is the COMPLEXITY_FACTOR rule document.
type complexityConfig struct {
	Formula         json.RawMessage  `json:"formula"`
	Tiers           []complexityTier `json:"tiers"`
	AdditionalItems *additionalItems `json:"additional_items"`
}

// complexityTier is one score bucket. Nil bounds mean unbounded.
type complexityTier struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	MinScore       *float64        `json:"min_score"`
	MaxScore       *float64        `json:"max_score"`
	SKUCode        string          `json:"sku_code"`
	BasePrice      decimal.Decimal `json:"base_price"`
	EstimatedHours int             `json:"estimated_hours"`
}

// additionalItems prices units beyond the first included one, e.g.
// departments past the first.
type additionalItems struct {
	SourceParameter string          `json:"source_parameter"`
	FirstIncluded   int             `json:"first_included"`
	SKUCode         string          `json:"sku_code"`
	PricePerItem    decimal.Decimal `json:"price_per_item"`
	HoursPerItem    int             `json:"hours_per_item"`
}

func (t complexityTier) contains(score float64) bool {
	if t.MinScore != nil && score < *t.MinScore {
		return false
	}
	if t.MaxScore != nil && score > *t.MaxScore {
		return false
	}
	return true
}

func complexityNotConfigured(score float64, tierName, message string) ComplexityResult {
	return ComplexityResult{
		Score:    score,
		Tier:     "UNKNOWN",
		TierName: tierName,
		Error:    message,
	}
}

// ComplexityFactor scores the caller's parameters with the COMPLEXITY_FACTOR
// rule's formula, matches the score to a pricing tier and adds the
// additional-items overage. A missing rule yields a zero-valued result with
// tier UNKNOWN instead of an error.
func (c *Calculator) ComplexityFactor(params rules.Context) (ComplexityResult, error) {
	raw, err := c.ruleConfig(RuleComplexityFactor)
	if err != nil {
		return ComplexityResult{}, err
	}
	if raw == nil {
		return complexityNotConfigured(0, "Not Configured", "COMPLEXITY_FACTOR rule not configured"), nil
	}

	var cfg complexityConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return complexityNotConfigured(0, "Not Configured", "COMPLEXITY_FACTOR configuration is malformed"), nil
	}

	score := rules.EvaluateFormula(rules.DecodeFormula(cfg.Formula), params)
	scoreFloat := score.InexactFloat64()

	tier, ok := matchTier(cfg.Tiers, scoreFloat)
	if !ok {
		return complexityNotConfigured(scoreFloat, "No Matching Tier", "no tier matches the calculated score"), nil
	}

	result := ComplexityResult{
		Score:          scoreFloat,
		Tier:           tier.Code,
		TierName:       tier.Name,
		SKUCode:        tier.SKUCode,
		BasePrice:      tier.BasePrice,
		EstimatedHours: tier.EstimatedHours,
	}

	if add := cfg.AdditionalItems; add != nil {
		count := 0
		if value, ok := params.Float(add.SourceParameter); ok {
			count = int(value) - add.FirstIncluded
		}
		if count < 0 {
			count = 0
		}
		result.AdditionalItemCount = count
		result.AdditionalItemPrice = add.PricePerItem.Mul(decimal.NewFromInt(int64(count)))
	}

	result.TotalPrice = result.BasePrice.Add(result.AdditionalItemPrice)
	return result, nil
}

// matchTier returns the first tier containing the score, falling back to
// the last tier so a score beyond every configured bound still prices.
func matchTier(tiers []complexityTier, score float64) (complexityTier, bool) {
	for _, tier := range tiers {
		if tier.contains(score) {
			return tier, true
		}
	}
	if len(tiers) > 0 {
		return tiers[len(tiers)-1], true
	}
	return complexityTier{}, false
}
