package jas_test

import (
	"encoding/json"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/sepcon/go-jas/pkg/jas"
)

// TestMain lets go-snaps prune snapshots left behind by expressions removed
// from evalExpressions below, the same cleanup hook the teacher's own
// fixture-driven tests register.
func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	if v != 0 {
		panic("snapshot tests failed")
	}
}

// evalExpressions is a small, representative spread of JAS documents
// covering arithmetic, comparisons, list algorithms and function
// invocation, golden-tested end to end the way cmd/jas eval would print
// them rather than asserted field by field.
var evalExpressions = map[string]string{
	"arithmetic":      `{"@plus": [1, 2, 3]}`,
	"comparison":      `{"@eq": [2, 2]}`,
	"list_any_of":     `{"@any_of": {"@cond": {"@eq": ["$1", 3]}, "@list": [1, 2, 3]}}`,
	"module_function": `{"@toupper": "hello"}`,
	"nested_dict":     `{"a": {"@plus": [1, 1]}, "b": {"@eq": [1, 2]}}`,
}

func TestEvaluateSnapshots(t *testing.T) {
	for name, expr := range evalExpressions {
		t.Run(name, func(t *testing.T) {
			result, err := jas.Evaluate([]byte(expr), jas.NewRootContext())
			if err != nil {
				t.Fatalf("evaluating %s: %v", name, err)
			}
			out, err := json.Marshal(result)
			if err != nil {
				t.Fatalf("marshaling result for %s: %v", name, err)
			}
			snaps.MatchJSON(t, out)
		})
	}
}
