package rules

import (
	"encoding/json"
)

// SelectionGroup is the selection_rules document attached to catalog
// entries: an operator over conditions deciding whether the entry applies,
// plus the setup SKU rules it triggers when it does.
type SelectionGroup struct {
	Operator   string
	Conditions []Condition
	SetupSKUs  []SelectionRule
}

type selectionGroupJSON struct {
	Operator   string            `json:"operator"`
	Conditions []json.RawMessage `json:"conditions"`
	SetupSKUs  []json.RawMessage `json:"setupSKUs"`
}

// DecodeSelectionGroup decodes a selection_rules JSON document. Returns nil
// for empty input.
func DecodeSelectionGroup(data []byte) *SelectionGroup {
	if len(data) == 0 {
		return nil
	}
	var raw selectionGroupJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	group := &SelectionGroup{Operator: raw.Operator}
	if group.Operator == "" {
		group.Operator = "AND"
	}
	for _, cond := range raw.Conditions {
		group.Conditions = append(group.Conditions, DecodeCondition(cond))
	}
	for _, rule := range raw.SetupSKUs {
		group.SetupSKUs = append(group.SetupSKUs, DecodeSelectionRule(rule))
	}
	return group
}

// HasConditions reports whether the group carries any selection conditions.
func (g *SelectionGroup) HasConditions() bool {
	return g != nil && len(g.Conditions) > 0
}

// Matches evaluates the group's conditions against ctx. A nil group or a
// group without conditions matches.
func (g *SelectionGroup) Matches(ctx Context) bool {
	if !g.HasConditions() {
		return true
	}
	return EvaluateCondition(Compound{Operator: g.Operator, Conditions: g.Conditions}, ctx)
}
