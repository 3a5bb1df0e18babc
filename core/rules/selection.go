package rules

import (
	"encoding/json"
)

// SelectionRule decides whether a catalog item applies, and in what
// quantity. Quantity is either a literal integer or a context path.
type SelectionRule struct {
	Condition Condition
	SKUCode   string
	Quantity  QuantityRef
	Reason    string
}

// QuantityRef holds a literal quantity or a context path to resolve one
// from. The zero value resolves to 1.
type QuantityRef struct {
	Literal int
	Path    string
	set     bool
}

// LiteralQuantity builds a fixed quantity reference.
func LiteralQuantity(n int) QuantityRef {
	return QuantityRef{Literal: n, set: true}
}

// PathQuantity builds a context-sourced quantity reference.
func PathQuantity(path string) QuantityRef {
	return QuantityRef{Path: path, set: true}
}

// Resolve returns the quantity for ctx. An unset reference, a missing path
// or a non-numeric value resolves to 1.
func (q QuantityRef) Resolve(ctx Context) int {
	if !q.set {
		return 1
	}
	if q.Path != "" {
		raw, ok := ctx.Lookup(q.Path)
		if !ok {
			return 1
		}
		n, ok := toInt(raw)
		if !ok {
			return 1
		}
		return n
	}
	if q.Literal == 0 {
		return 1
	}
	return q.Literal
}

type selectionRuleJSON struct {
	Condition json.RawMessage `json:"condition"`
	SKUCode   string          `json:"skuCode"`
	Quantity  json.RawMessage `json:"quantity"`
	Reason    string          `json:"reason"`
}

// DecodeSelectionRule decodes one selection rule from configuration JSON.
func DecodeSelectionRule(data []byte) SelectionRule {
	var raw selectionRuleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return SelectionRule{Condition: Unknown{Tag: "malformed"}}
	}

	rule := SelectionRule{
		SKUCode: raw.SKUCode,
		Reason:  raw.Reason,
	}
	if len(raw.Condition) > 0 {
		rule.Condition = DecodeCondition(raw.Condition)
	} else {
		rule.Condition = Always{}
	}
	rule.Quantity = decodeQuantity(raw.Quantity)
	return rule
}

// DecodeSelectionRules decodes a JSON array of selection rules.
func DecodeSelectionRules(data []byte) []SelectionRule {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil
	}
	rules := make([]SelectionRule, 0, len(raws))
	for _, raw := range raws {
		rules = append(rules, DecodeSelectionRule(raw))
	}
	return rules
}

func decodeQuantity(raw json.RawMessage) QuantityRef {
	if len(raw) == 0 {
		return QuantityRef{}
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return LiteralQuantity(n)
	}
	var path string
	if err := json.Unmarshal(raw, &path); err == nil {
		return PathQuantity(path)
	}
	return QuantityRef{}
}

// SelectedItem is the outcome of a matching selection rule.
type SelectedItem struct {
	SKUCode  string
	Quantity int
	Reason   string
}

// EvaluateSelectionRule evaluates rule against ctx. The second return is
// false when the rule's condition does not match; that is not an error,
// the item simply does not apply.
func EvaluateSelectionRule(rule SelectionRule, ctx Context) (SelectedItem, bool) {
	if !EvaluateCondition(rule.Condition, ctx) {
		return SelectedItem{}, false
	}
	return SelectedItem{
		SKUCode:  rule.SKUCode,
		Quantity: rule.Quantity.Resolve(ctx),
		Reason:   rule.Reason,
	}, true
}
