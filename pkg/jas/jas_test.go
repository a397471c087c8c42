package jas

import (
	"testing"

	"github.com/sepcon/go-jas/internal/config"
)

func TestEvaluateArithmetic(t *testing.T) {
	v, err := Evaluate([]byte(`{"@plus": [1, 2, 3]}`), NewRootContext())
	if err != nil {
		t.Fatal(err)
	}
	if v.Int64Value() != 6 {
		t.Fatalf("expected 6, got %v", v)
	}
}

func TestTranslateThenEvaluateAST(t *testing.T) {
	e := New()
	tree, err := e.Translate([]byte(`{"@any_of": {"@cond": {"@eq": ["$1", 3]}, "@list": [1,2,3,4]}}`))
	if err != nil {
		t.Fatal(err)
	}
	v, err := e.EvaluateAST(tree, NewRootContext())
	if err != nil {
		t.Fatal(err)
	}
	if !v.BoolValue() {
		t.Fatal("expected true")
	}
}

func TestEvaluateAgainstHistoricalContext(t *testing.T) {
	ctx := NewHistoricalContext(`{"a":1}`, `{"a":2}`)
	v, err := Evaluate([]byte(`{"@snchg": "a"}`), ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !v.BoolValue() {
		t.Fatal("expected snchg(a) true across 1 -> 2")
	}
}

func TestValidateReportsNoIssuesOnWellFormedAST(t *testing.T) {
	e := New()
	tree, err := e.Translate([]byte(`{"@plus": [1, 2]}`))
	if err != nil {
		t.Fatal(err)
	}
	rep := e.Validate(tree)
	if len(rep.Issues) != 0 {
		t.Fatalf("expected a well-formed AST to have no issues, got %v", rep.Issues)
	}
}

func TestVersionGateRejectsDocumentNewerThanConfiguredVersion(t *testing.T) {
	cfg := config.Default()
	cfg.EngineVersion = "0.5.0"
	e := NewWithConfig(cfg)
	if _, err := e.Evaluate([]byte(`{"$jas.version": "0.9.0", "@abs": -1}`), NewRootContext()); err == nil {
		t.Fatal("expected a document requiring a newer pinned version to be rejected")
	}
}
