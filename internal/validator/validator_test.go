package validator

import (
	"testing"

	"github.com/sepcon/go-jas/internal/ast"
	"github.com/sepcon/go-jas/internal/modules"
	"github.com/sepcon/go-jas/internal/translator"
)

func translate(t *testing.T, src string) ast.Evaluable {
	t.Helper()
	tr := translator.New(modules.NewManager())
	node, err := tr.Translate([]byte(src))
	if err != nil {
		t.Fatalf("translate %s: %v", src, err)
	}
	return node
}

func TestValidateWellFormedTreeHasNoIssues(t *testing.T) {
	node := translate(t, `{"@and": [{"@gt": ["$x", 0]}, {"@lt": ["$x", 10]}]}`)
	rep := Validate(node)
	if len(rep.Issues) != 0 {
		t.Fatalf("expected no issues, got %v", rep.Issues)
	}
	if rep.Syntax == "" {
		t.Fatal("expected a non-empty pseudo-syntax rendering")
	}
}

func TestValidateMatchesNodeSyntax(t *testing.T) {
	node := translate(t, `{"@plus": [1, 2, 3]}`)
	rep := Validate(node)
	if rep.Syntax != node.Syntax() {
		t.Fatalf("expected Validate's rendering to match Syntax(), got %q vs %q", rep.Syntax, node.Syntax())
	}
}

func TestValidateDetectsWrongUnaryArity(t *testing.T) {
	bad := &ast.ArithmaticalOperator{
		Op:       ast.ArithNeg,
		Operands: []ast.Evaluable{&ast.Constant{Raw: "1"}, &ast.Constant{Raw: "2"}},
	}
	rep := Validate(bad)
	if len(rep.Issues) != 1 {
		t.Fatalf("expected exactly one issue, got %v", rep.Issues)
	}
}

func TestValidateDetectsMissingListAlgorithmCondition(t *testing.T) {
	bad := &ast.ListAlgorithm{
		Kind: ast.AlgoAnyOf,
		List: &ast.EvaluableList{Elements: []ast.Evaluable{&ast.Constant{Raw: "1"}}},
	}
	rep := Validate(bad)
	if len(rep.Issues) != 1 {
		t.Fatalf("expected exactly one issue for a missing condition, got %v", rep.Issues)
	}
	if rep.Issues[0].Offset < 0 || rep.Issues[0].Offset > len(rep.Syntax) {
		t.Fatalf("offset %d out of range for syntax %q", rep.Issues[0].Offset, rep.Syntax)
	}
}

func TestValidateDetectsEmptyFunctionName(t *testing.T) {
	bad := &ast.ModuleFI{Module: "cif", Func: ""}
	rep := Validate(bad)
	if len(rep.Issues) != 1 {
		t.Fatalf("expected exactly one issue for an empty function name, got %v", rep.Issues)
	}
}

func TestValidateDetectsNilChild(t *testing.T) {
	bad := &ast.ComparisonOperator{Kind: ast.CmpEq, Lhs: &ast.Constant{Raw: "1"}}
	rep := Validate(bad)
	if len(rep.Issues) != 1 {
		t.Fatalf("expected exactly one issue for a missing rhs, got %v", rep.Issues)
	}
}

func TestValidateReportsEachIssueOffsetWithinSyntax(t *testing.T) {
	bad := &ast.EvaluableList{Elements: []ast.Evaluable{
		&ast.Constant{Raw: "1"},
		&ast.Variable{Name: ""},
	}}
	rep := Validate(bad)
	if len(rep.Issues) != 1 {
		t.Fatalf("expected one issue for an empty variable name, got %v", rep.Issues)
	}
	if rep.Issues[0].Offset != len("[1, ") {
		t.Fatalf("expected offset %d, got %d", len("[1, "), rep.Issues[0].Offset)
	}
}
