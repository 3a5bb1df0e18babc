package rules

import (
	"testing"
)

func TestEvaluateSelectionRule(t *testing.T) {
	ctx := Context{
		"is_new": true,
		"modules": map[string]any{
			"check_recognition": map[string]any{"enabled": true, "scanner_count": 4.0},
		},
	}

	rule := SelectionRule{
		Condition: ParameterEquals{Parameter: "is_new", Value: true},
		SKUCode:   "CHECK-ICL-SETUP",
		Quantity:  LiteralQuantity(1),
		Reason:    "Initial setup for Check Recognition",
	}

	item, ok := EvaluateSelectionRule(rule, ctx)
	if !ok {
		t.Fatal("expected rule to match")
	}
	if item.SKUCode != "CHECK-ICL-SETUP" || item.Quantity != 1 {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.Reason != "Initial setup for Check Recognition" {
		t.Errorf("unexpected reason: %q", item.Reason)
	}
}

func TestEvaluateSelectionRuleNoMatch(t *testing.T) {
	rule := SelectionRule{
		Condition: ParameterEquals{Parameter: "is_new", Value: true},
		SKUCode:   "CHECK-ICL-SETUP",
	}
	if _, ok := EvaluateSelectionRule(rule, Context{"is_new": false}); ok {
		t.Error("rule should not match")
	}
}

func TestQuantityFromPath(t *testing.T) {
	ctx := Context{
		"modules": map[string]any{
			"check_recognition": map[string]any{"scanner_count": 4.0},
		},
	}

	cases := []struct {
		name string
		q    QuantityRef
		want int
	}{
		{"literal", LiteralQuantity(3), 3},
		{"path", PathQuantity("modules.check_recognition.scanner_count"), 4},
		{"missing path defaults to one", PathQuantity("modules.missing.count"), 1},
		{"unset defaults to one", QuantityRef{}, 1},
		{"zero literal defaults to one", LiteralQuantity(0), 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.q.Resolve(ctx); got != tc.want {
				t.Errorf("Resolve = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDecodeSelectionRuleQuantityForms(t *testing.T) {
	literal := DecodeSelectionRule([]byte(`{
		"condition": {"type": "always"},
		"skuCode": "SCANNER-SETUP",
		"quantity": 2,
		"reason": "Scanner provisioning"
	}`))
	item, ok := EvaluateSelectionRule(literal, Context{})
	if !ok || item.Quantity != 2 {
		t.Fatalf("literal quantity: ok=%v item=%+v", ok, item)
	}

	byPath := DecodeSelectionRule([]byte(`{
		"condition": {"type": "always"},
		"skuCode": "SCANNER-SETUP",
		"quantity": "modules.check_recognition.scanner_count"
	}`))
	ctx := Context{"modules": map[string]any{"check_recognition": map[string]any{"scanner_count": 4.0}}}
	item, ok = EvaluateSelectionRule(byPath, ctx)
	if !ok || item.Quantity != 4 {
		t.Fatalf("path quantity: ok=%v item=%+v", ok, item)
	}

	// Missing condition means the rule always applies.
	bare := DecodeSelectionRule([]byte(`{"skuCode": "ORG-SETUP-BASIC"}`))
	item, ok = EvaluateSelectionRule(bare, Context{})
	if !ok || item.Quantity != 1 {
		t.Fatalf("bare rule: ok=%v item=%+v", ok, item)
	}
}

func TestDecodeSelectionGroup(t *testing.T) {
	group := DecodeSelectionGroup([]byte(`{
		"operator": "AND",
		"conditions": [
			{"type": "parameter_equals", "parameter": "base_product", "value": "standard"}
		],
		"setupSKUs": [
			{"condition": {"type": "always"}, "skuCode": "ORG-SETUP-BASIC", "quantity": 1, "reason": "Organization setup"}
		]
	}`))
	if group == nil {
		t.Fatal("expected group")
	}
	if !group.Matches(Context{"base_product": "standard"}) {
		t.Error("group should match standard")
	}
	if group.Matches(Context{"base_product": "basic"}) {
		t.Error("group should not match basic")
	}
	if len(group.SetupSKUs) != 1 {
		t.Fatalf("expected 1 setup SKU rule, got %d", len(group.SetupSKUs))
	}

	if DecodeSelectionGroup(nil) != nil {
		t.Error("empty input should decode to nil group")
	}
	var nilGroup *SelectionGroup
	if !nilGroup.Matches(Context{}) {
		t.Error("nil group matches everything")
	}
}
