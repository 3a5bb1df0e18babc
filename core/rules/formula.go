package rules

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"quote-pricing/core/expr"
)

// Formula is a closed set of pricing formula variants decoded from
// configuration JSON. Unknown type tags decode to a variant that evaluates
// to zero.
type Formula interface {
	isFormula()
}

// Fixed always returns Price.
type Fixed struct {
	Price decimal.Decimal
}

// QuantityBased multiplies PricePerUnit by a quantity read from the context.
type QuantityBased struct {
	PricePerUnit      decimal.Decimal
	QuantityParameter string
}

// Tier is one volume bucket of a Tiered formula. MaxVolume nil means
// unbounded above.
type Tier struct {
	MinVolume float64
	MaxVolume *float64
	Price     decimal.Decimal
}

// Tiered matches a context-sourced volume against ordered buckets; the
// first containing bucket wins, BasePrice is the no-match fallback.
type Tiered struct {
	VolumeParameter string
	Tiers           []Tier
	BasePrice       decimal.Decimal
}

// Calculated evaluates a restricted arithmetic expression. Variables maps
// expression identifiers to context paths.
type Calculated struct {
	Expression string
	Variables  map[string]string
}

// WeightedComponent is one term of a WeightedSum.
type WeightedComponent struct {
	Parameter string
	Weight    decimal.Decimal
}

// WeightedSum computes the sum of weight times parameter value over its
// components.
type WeightedSum struct {
	Components []WeightedComponent
}

// Lookup reads a single numeric value straight from the context.
type Lookup struct {
	Parameter string
}

// UnknownFormula preserves an unrecognized type tag. It evaluates to zero.
type UnknownFormula struct {
	Tag string
}

func (Fixed) isFormula()          {}
func (QuantityBased) isFormula()  {}
func (Tiered) isFormula()         {}
func (Calculated) isFormula()     {}
func (WeightedSum) isFormula()    {}
func (Lookup) isFormula()         {}
func (UnknownFormula) isFormula() {}

type formulaJSON struct {
	Type              string            `json:"type"`
	Price             decimal.Decimal   `json:"price"`
	PricePerUnit      decimal.Decimal   `json:"pricePerUnit"`
	QuantityParameter string            `json:"quantityParameter"`
	VolumeParameter   string            `json:"volumeParameter"`
	Tiers             []tierJSON        `json:"tiers"`
	BasePrice         decimal.Decimal   `json:"basePrice"`
	Formula           string            `json:"formula"`
	Expression        string            `json:"expression"`
	Variables         map[string]string `json:"variables"`
	Components        []componentJSON   `json:"components"`
	Parameter         string            `json:"parameter"`
}

type tierJSON struct {
	MinVolume float64         `json:"minVolume"`
	MaxVolume *float64        `json:"maxVolume"`
	Price     decimal.Decimal `json:"price"`
}

type componentJSON struct {
	Parameter string          `json:"parameter"`
	Weight    decimal.Decimal `json:"weight"`
}

// DecodeFormula decodes a configuration JSON document into a Formula.
// Malformed JSON and unrecognized tags come back as UnknownFormula.
func DecodeFormula(data []byte) Formula {
	var raw formulaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return UnknownFormula{Tag: "malformed"}
	}

	switch raw.Type {
	case "fixed":
		return Fixed{Price: raw.Price}
	case "quantity_based":
		return QuantityBased{
			PricePerUnit:      raw.PricePerUnit,
			QuantityParameter: raw.QuantityParameter,
		}
	case "tiered":
		tiers := make([]Tier, 0, len(raw.Tiers))
		for _, t := range raw.Tiers {
			tiers = append(tiers, Tier{MinVolume: t.MinVolume, MaxVolume: t.MaxVolume, Price: t.Price})
		}
		return Tiered{
			VolumeParameter: raw.VolumeParameter,
			Tiers:           tiers,
			BasePrice:       raw.BasePrice,
		}
	case "calculated", "expression":
		// Both tags appear in historical configuration data.
		expression := raw.Formula
		if expression == "" {
			expression = raw.Expression
		}
		return Calculated{Expression: expression, Variables: raw.Variables}
	case "weighted_sum":
		components := make([]WeightedComponent, 0, len(raw.Components))
		for _, c := range raw.Components {
			components = append(components, WeightedComponent{Parameter: c.Parameter, Weight: c.Weight})
		}
		return WeightedSum{Components: components}
	case "lookup":
		return Lookup{Parameter: raw.Parameter}
	default:
		return UnknownFormula{Tag: raw.Type}
	}
}

// EvaluateFormula evaluates f against ctx and returns an exact decimal
// amount. It never returns an error: missing or non-numeric inputs resolve
// to zero per variant, expression failures resolve to zero, unknown
// variants resolve to zero.
func EvaluateFormula(f Formula, ctx Context) decimal.Decimal {
	switch formula := f.(type) {
	case Fixed:
		return formula.Price

	case QuantityBased:
		quantity := decimal.Zero
		if raw, ok := ctx.Lookup(formula.QuantityParameter); ok {
			if q, ok := toDecimal(raw); ok {
				quantity = q
			}
		}
		if quantity.IsNegative() {
			quantity = decimal.Zero
		}
		return formula.PricePerUnit.Mul(quantity)

	case Tiered:
		volume := 0.0
		if raw, ok := ctx.Lookup(formula.VolumeParameter); ok {
			if v, ok := toFloat(raw); ok {
				volume = v
			}
		}
		for _, tier := range formula.Tiers {
			if volume < tier.MinVolume {
				continue
			}
			if tier.MaxVolume == nil || volume <= *tier.MaxVolume {
				return tier.Price
			}
		}
		return formula.BasePrice

	case Calculated:
		vars := make(map[string]decimal.Decimal, len(formula.Variables))
		for name, path := range formula.Variables {
			value := decimal.Zero
			if raw, ok := ctx.Lookup(path); ok {
				if v, ok := toDecimal(raw); ok {
					value = v
				}
			}
			vars[name] = value
		}
		result, err := expr.Eval(formula.Expression, vars)
		if err != nil {
			return decimal.Zero
		}
		return result

	case WeightedSum:
		total := decimal.Zero
		for _, component := range formula.Components {
			value := decimal.Zero
			if raw, ok := ctx.Lookup(component.Parameter); ok {
				if v, ok := toDecimal(raw); ok {
					value = v
				}
			}
			total = total.Add(component.Weight.Mul(value))
		}
		return total

	case Lookup:
		if raw, ok := ctx.Lookup(formula.Parameter); ok {
			if v, ok := toDecimal(raw); ok {
				return v
			}
		}
		return decimal.Zero

	case UnknownFormula:
		return decimal.Zero

	default:
		return decimal.Zero
	}
}
