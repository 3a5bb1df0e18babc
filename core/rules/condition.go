package rules

import (
	"encoding/json"
	"reflect"
)

// Condition is a closed set of variants decoded from configuration JSON.
// Unknown type tags decode to a variant that evaluates to false.
type Condition interface {
	isCondition()
}

// Always matches every context.
type Always struct{}

// Never matches no context.
type Never struct{}

// ParameterEquals matches when the value at Parameter equals Value exactly.
// Equality is type-sensitive: the string "3" does not equal the number 3.
type ParameterEquals struct {
	Parameter string
	Value     any
}

// ParameterNotEquals is the negation of ParameterEquals.
type ParameterNotEquals struct {
	Parameter string
	Value     any
}

// ParameterIn matches when the value at Parameter equals any member of Values.
type ParameterIn struct {
	Parameter string
	Values    []any
}

// ParameterGreaterThan matches when the value at Parameter is numerically
// greater than Value.
type ParameterGreaterThan struct {
	Parameter string
	Value     any
}

// ParameterLessThan matches when the value at Parameter is numerically less
// than Value.
type ParameterLessThan struct {
	Parameter string
	Value     any
}

// ParameterBetween matches when Min <= value <= Max. A nil bound is
// unbounded on that side.
type ParameterBetween struct {
	Parameter string
	Min       any
	Max       any
}

// ParameterExists matches when the value at Parameter is present and non-nil.
type ParameterExists struct {
	Parameter string
}

// Compound combines sub-conditions with AND or OR.
type Compound struct {
	Operator   string // "AND" or "OR"
	Conditions []Condition
}

// Unknown preserves an unrecognized type tag from configuration data. It
// always evaluates to false.
type Unknown struct {
	Tag string
}

func (Always) isCondition()               {}
func (Never) isCondition()                {}
func (ParameterEquals) isCondition()      {}
func (ParameterNotEquals) isCondition()   {}
func (ParameterIn) isCondition()          {}
func (ParameterGreaterThan) isCondition() {}
func (ParameterLessThan) isCondition()    {}
func (ParameterBetween) isCondition()     {}
func (ParameterExists) isCondition()      {}
func (Compound) isCondition()             {}
func (Unknown) isCondition()              {}

// conditionJSON is the raw wire shape shared by every variant.
type conditionJSON struct {
	Type       string            `json:"type"`
	Parameter  string            `json:"parameter"`
	Value      any               `json:"value"`
	Values     []any             `json:"values"`
	Min        any               `json:"min"`
	Max        any               `json:"max"`
	Operator   string            `json:"operator"`
	Conditions []json.RawMessage `json:"conditions"`
}

// DecodeCondition decodes a configuration JSON document into a Condition.
// Malformed JSON and unrecognized tags both come back as Unknown so callers
// fail closed instead of erroring.
func DecodeCondition(data []byte) Condition {
	var raw conditionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Unknown{Tag: "malformed"}
	}
	return decodeCondition(raw)
}

func decodeCondition(raw conditionJSON) Condition {
	// Compound conditions carry an operator instead of a type tag.
	if raw.Type == "" && (raw.Operator == "AND" || raw.Operator == "OR") {
		subs := make([]Condition, 0, len(raw.Conditions))
		for _, sub := range raw.Conditions {
			subs = append(subs, DecodeCondition(sub))
		}
		return Compound{Operator: raw.Operator, Conditions: subs}
	}

	switch raw.Type {
	case "always":
		return Always{}
	case "never":
		return Never{}
	case "parameter_equals":
		return ParameterEquals{Parameter: raw.Parameter, Value: raw.Value}
	case "parameter_not_equals":
		return ParameterNotEquals{Parameter: raw.Parameter, Value: raw.Value}
	case "parameter_in":
		return ParameterIn{Parameter: raw.Parameter, Values: raw.Values}
	case "parameter_greater_than":
		return ParameterGreaterThan{Parameter: raw.Parameter, Value: raw.Value}
	case "parameter_less_than":
		return ParameterLessThan{Parameter: raw.Parameter, Value: raw.Value}
	case "parameter_between":
		return ParameterBetween{Parameter: raw.Parameter, Min: raw.Min, Max: raw.Max}
	case "parameter_exists":
		return ParameterExists{Parameter: raw.Parameter}
	case "AND", "OR":
		subs := make([]Condition, 0, len(raw.Conditions))
		for _, sub := range raw.Conditions {
			subs = append(subs, DecodeCondition(sub))
		}
		return Compound{Operator: raw.Type, Conditions: subs}
	default:
		return Unknown{Tag: raw.Type}
	}
}

// EvaluateCondition evaluates cond against ctx. It never returns an error:
// missing parameters, non-coercible values and unknown variants all
// evaluate to false.
func EvaluateCondition(cond Condition, ctx Context) bool {
	switch c := cond.(type) {
	case Always:
		return true
	case Never:
		return false

	case ParameterEquals:
		actual, ok := ctx.Lookup(c.Parameter)
		if !ok {
			return c.Value == nil
		}
		return rawEqual(actual, c.Value)

	case ParameterNotEquals:
		actual, ok := ctx.Lookup(c.Parameter)
		if !ok {
			return c.Value != nil
		}
		return !rawEqual(actual, c.Value)

	case ParameterIn:
		actual, _ := ctx.Lookup(c.Parameter)
		for _, candidate := range c.Values {
			if rawEqual(actual, candidate) {
				return true
			}
		}
		return false

	case ParameterGreaterThan:
		actual, threshold, ok := numericPair(ctx, c.Parameter, c.Value)
		return ok && actual > threshold

	case ParameterLessThan:
		actual, threshold, ok := numericPair(ctx, c.Parameter, c.Value)
		return ok && actual < threshold

	case ParameterBetween:
		value, ok := ctx.Lookup(c.Parameter)
		if !ok {
			return false
		}
		actual, ok := toFloat(value)
		if !ok {
			return false
		}
		if c.Min != nil {
			min, ok := toFloat(c.Min)
			if !ok || actual < min {
				return false
			}
		}
		if c.Max != nil {
			max, ok := toFloat(c.Max)
			if !ok || actual > max {
				return false
			}
		}
		return true

	case ParameterExists:
		_, ok := ctx.Lookup(c.Parameter)
		return ok

	case Compound:
		if len(c.Conditions) == 0 {
			return true
		}
		if c.Operator == "AND" {
			for _, sub := range c.Conditions {
				if !EvaluateCondition(sub, ctx) {
					return false
				}
			}
			return true
		}
		for _, sub := range c.Conditions {
			if EvaluateCondition(sub, ctx) {
				return true
			}
		}
		return false

	case Unknown:
		return false

	default:
		return false
	}
}

// numericPair resolves the parameter and coerces both sides to float.
func numericPair(ctx Context, parameter string, threshold any) (float64, float64, bool) {
	value, ok := ctx.Lookup(parameter)
	if !ok {
		return 0, 0, false
	}
	actual, ok := toFloat(value)
	if !ok {
		return 0, 0, false
	}
	limit, ok := toFloat(threshold)
	if !ok {
		return 0, 0, false
	}
	return actual, limit, true
}

// rawEqual compares values without numeric coercion across types, so a
// string never equals a number. reflect.DeepEqual also covers list values
// that appear inside parameter_in.
func rawEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
