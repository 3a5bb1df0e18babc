package rules

import (
	"testing"
)

func testContext() Context {
	return Context{
		"base_product":     "standard",
		"additional_users": 3.0,
		"modules": map[string]any{
			"check_recognition": map[string]any{
				"enabled":     true,
				"scan_volume": 75000.0,
			},
		},
	}
}

func TestLookupNestedPath(t *testing.T) {
	ctx := testContext()

	value, ok := ctx.Lookup("modules.check_recognition.enabled")
	if !ok {
		t.Fatal("expected path to resolve")
	}
	if value != true {
		t.Errorf("expected true, got %v", value)
	}
}

func TestLookupMissingSegments(t *testing.T) {
	ctx := testContext()

	cases := []string{
		"",
		"missing",
		"modules.missing.enabled",
		"modules.check_recognition.missing",
		// base_product is a scalar; descending into it must stop cleanly.
		"base_product.nested",
		"modules.check_recognition.enabled.deeper",
	}
	for _, path := range cases {
		if _, ok := ctx.Lookup(path); ok {
			t.Errorf("Lookup(%q) resolved, want not found", path)
		}
	}
}

func TestEvaluateConditionVariants(t *testing.T) {
	ctx := testContext()

	cases := []struct {
		name string
		cond Condition
		want bool
	}{
		{"always", Always{}, true},
		{"never", Never{}, false},
		{"equals match", ParameterEquals{Parameter: "base_product", Value: "standard"}, true},
		{"equals mismatch", ParameterEquals{Parameter: "base_product", Value: "basic"}, false},
		{"equals nested", ParameterEquals{Parameter: "modules.check_recognition.enabled", Value: true}, true},
		// Type-sensitive equality: the string "3" is not the number 3.
		{"equals type sensitive", ParameterEquals{Parameter: "additional_users", Value: "3"}, false},
		{"not equals", ParameterNotEquals{Parameter: "base_product", Value: "basic"}, true},
		{"in match", ParameterIn{Parameter: "base_product", Values: []any{"basic", "standard"}}, true},
		{"in mismatch", ParameterIn{Parameter: "base_product", Values: []any{"basic"}}, false},
		{"greater than", ParameterGreaterThan{Parameter: "modules.check_recognition.scan_volume", Value: 50000.0}, true},
		{"greater than false", ParameterGreaterThan{Parameter: "additional_users", Value: 3.0}, false},
		{"greater than non numeric", ParameterGreaterThan{Parameter: "base_product", Value: 1.0}, false},
		{"greater than missing", ParameterGreaterThan{Parameter: "missing", Value: 1.0}, false},
		{"less than", ParameterLessThan{Parameter: "additional_users", Value: 5.0}, true},
		{"between inside", ParameterBetween{Parameter: "additional_users", Min: 1.0, Max: 5.0}, true},
		{"between at bound", ParameterBetween{Parameter: "additional_users", Min: 3.0, Max: 3.0}, true},
		{"between outside", ParameterBetween{Parameter: "additional_users", Min: 4.0, Max: 9.0}, false},
		{"between open above", ParameterBetween{Parameter: "modules.check_recognition.scan_volume", Min: 1000.0, Max: nil}, true},
		{"exists", ParameterExists{Parameter: "modules.check_recognition"}, true},
		{"exists missing", ParameterExists{Parameter: "modules.remote_capture"}, false},
		{"unknown tag fails closed", Unknown{Tag: "parameter_matches_regex"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EvaluateCondition(tc.cond, ctx); got != tc.want {
				t.Errorf("EvaluateCondition = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEvaluateCompound(t *testing.T) {
	ctx := testContext()
	match := ParameterEquals{Parameter: "base_product", Value: "standard"}
	miss := ParameterEquals{Parameter: "base_product", Value: "basic"}

	cases := []struct {
		name string
		cond Compound
		want bool
	}{
		{"and all match", Compound{Operator: "AND", Conditions: []Condition{match, match}}, true},
		{"and one misses", Compound{Operator: "AND", Conditions: []Condition{match, miss}}, false},
		{"or one matches", Compound{Operator: "OR", Conditions: []Condition{miss, match}}, true},
		{"or none match", Compound{Operator: "OR", Conditions: []Condition{miss, miss}}, false},
		{"and empty is true", Compound{Operator: "AND"}, true},
		{"nested", Compound{Operator: "OR", Conditions: []Condition{
			miss,
			Compound{Operator: "AND", Conditions: []Condition{match, match}},
		}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EvaluateCondition(tc.cond, ctx); got != tc.want {
				t.Errorf("EvaluateCondition = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDecodeCondition(t *testing.T) {
	data := []byte(`{
		"operator": "AND",
		"conditions": [
			{"type": "parameter_equals", "parameter": "base_product", "value": "standard"},
			{"type": "parameter_greater_than", "parameter": "additional_users", "value": 0}
		]
	}`)

	cond := DecodeCondition(data)
	compound, ok := cond.(Compound)
	if !ok {
		t.Fatalf("expected Compound, got %T", cond)
	}
	if compound.Operator != "AND" || len(compound.Conditions) != 2 {
		t.Fatalf("unexpected compound: %+v", compound)
	}
	if !EvaluateCondition(cond, testContext()) {
		t.Error("decoded compound should match test context")
	}
}

func TestDecodeConditionUnknownTag(t *testing.T) {
	cond := DecodeCondition([]byte(`{"type": "parameter_regex", "parameter": "x"}`))
	if _, ok := cond.(Unknown); !ok {
		t.Fatalf("expected Unknown, got %T", cond)
	}
	if EvaluateCondition(cond, testContext()) {
		t.Error("unknown condition tag must evaluate to false")
	}

	malformed := DecodeCondition([]byte(`{not json`))
	if EvaluateCondition(malformed, testContext()) {
		t.Error("malformed condition must evaluate to false")
	}
}
