package compose

import (
	"testing"
)

func TestCELEvaluate(t *testing.T) {
	evaluator := NewCELEvaluator()

	tests := []struct {
		name string
		expr string
		want any
	}{
		{"host property", `open == true`, true},
		{"config binding", `config.tier == "pro"`, true},
		{"feature binding", `feature == "tooltip"`, true},
		{"false branch", `config.tier == "free"`, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := evaluator.Evaluate(exprRuleContext(), tc.expr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tc.expr, got, tc.want)
			}
		})
	}
}

func TestCELEvaluateEmptyExpression(t *testing.T) {
	if _, err := NewCELEvaluator().Evaluate(exprRuleContext(), ""); err == nil {
		t.Fatal("expected an error for an empty expression")
	}
}

func TestCELEvaluateSyntaxError(t *testing.T) {
	if _, err := NewCELEvaluator().Evaluate(exprRuleContext(), `== nope`); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestCELProgramCache(t *testing.T) {
	cache := newMemoryProgramCache()
	evaluator := NewCELEvaluator(CELWithProgramCache(cache))

	for i := 0; i < 3; i++ {
		if _, err := evaluator.Evaluate(exprRuleContext(), `config.tier == "pro"`); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(cache.entries) != 1 {
		t.Errorf("expected a single cached program, got %d", len(cache.entries))
	}
	if cache.hits < 2 {
		t.Errorf("expected repeated evaluations to hit the cache, hits = %d", cache.hits)
	}
}

func TestCELFunctionRegistry(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("greet", func(args ...any) (any, error) {
		return "hello " + args[0].(string), nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	evaluator := NewCELEvaluator(CELWithFunctionRegistry(registry))
	got, err := evaluator.Evaluate(exprRuleContext(), `call("greet", "world")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello world" {
		t.Errorf(`call("greet", "world") = %v`, got)
	}
}

func TestCELCompile(t *testing.T) {
	rule, err := NewCELEvaluator().Compile(`config.tier == "pro"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := rule.Evaluate(exprRuleContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != true {
		t.Errorf("compiled rule = %v, want true", got)
	}
}
