package translator

import (
	"testing"

	"github.com/sepcon/go-jas/internal/ast"
	"github.com/sepcon/go-jas/internal/modules"
)

func newTestTranslator() *Translator {
	return New(modules.NewManager())
}

func TestTranslateScalarConstants(t *testing.T) {
	tr := newTestTranslator()
	for _, tc := range []struct {
		raw  string
		want string
	}{
		{`null`, "null"},
		{`true`, "true"},
		{`42`, "42"},
		{`1.5`, "1.5"},
		{`"hello"`, `"hello"`},
	} {
		node, err := tr.Translate([]byte(tc.raw))
		if err != nil {
			t.Fatalf("%s: %v", tc.raw, err)
		}
		c, ok := node.(*ast.Constant)
		if !ok {
			t.Fatalf("%s: expected *ast.Constant, got %T", tc.raw, node)
		}
		if c.Raw != tc.want {
			t.Fatalf("%s: Raw = %q, want %q", tc.raw, c.Raw, tc.want)
		}
	}
}

func TestTranslateVariableForms(t *testing.T) {
	tr := newTestTranslator()

	node, err := tr.Translate([]byte(`"$x"`))
	if err != nil {
		t.Fatal(err)
	}
	v, ok := node.(*ast.Variable)
	if !ok || v.Name != "x" || v.Root {
		t.Fatalf("expected Variable{x,false}, got %#v", node)
	}

	node, err = tr.Translate([]byte(`"$.x"`))
	if err != nil {
		t.Fatal(err)
	}
	v, ok = node.(*ast.Variable)
	if !ok || v.Name != "x" || !v.Root {
		t.Fatalf("expected Variable{x,true}, got %#v", node)
	}

	node, err = tr.Translate([]byte(`"$1"`))
	if err != nil {
		t.Fatal(err)
	}
	arg, ok := node.(*ast.ContextArgument)
	if !ok || arg.Index != 1 {
		t.Fatalf("expected ContextArgument{1}, got %#v", node)
	}

	if _, err := tr.Translate([]byte(`"$0"`)); err == nil {
		t.Fatal("expected $0 to be rejected")
	}

	node, err = tr.Translate([]byte(`"$#"`))
	if err != nil {
		t.Fatal(err)
	}
	if info, ok := node.(*ast.ContextArgumentsInfo); !ok || info.Kind != ast.ArgCount {
		t.Fatalf("expected ContextArgumentsInfo{ArgCount}, got %#v", node)
	}
}

func TestTranslateBracketedPath(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`"$x[a/b]"`))
	if err != nil {
		t.Fatal(err)
	}
	q, ok := node.(*ast.ObjectPropertyQuery)
	if !ok {
		t.Fatalf("expected ObjectPropertyQuery, got %#v", node)
	}
	if len(q.Path) != 2 {
		t.Fatalf("expected 2 path components, got %d", len(q.Path))
	}
	if q.Path[0].(*ast.Constant).Raw != `"a"` {
		t.Fatalf("expected path[0] == \"a\", got %s", q.Path[0].Syntax())
	}
}

func TestTranslateTypedLiteral(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`"100(%d)"`))
	if err != nil {
		t.Fatal(err)
	}
	c := node.(*ast.Constant)
	if c.Value.(interface{ Int64Value() int64 }).Int64Value() != 100 {
		t.Fatalf("expected typed literal 100, got %v", c.Value)
	}
}

func TestTranslateArithOperator(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`{"@plus": [1, 2, 3]}`))
	if err != nil {
		t.Fatal(err)
	}
	op, ok := node.(*ast.ArithmaticalOperator)
	if !ok || op.Op != ast.ArithAdd || len(op.Operands) != 3 {
		t.Fatalf("expected ArithmaticalOperator{Add,3 operands}, got %#v", node)
	}
}

func TestTranslateComparisonOperator(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`{"@eq": ["$x", 1]}`))
	if err != nil {
		t.Fatal(err)
	}
	cmp, ok := node.(*ast.ComparisonOperator)
	if !ok || cmp.Kind != ast.CmpEq {
		t.Fatalf("expected ComparisonOperator{Eq}, got %#v", node)
	}
}

func TestTranslateListAlgorithmExplicitForm(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`{"@any_of": {"@cond": {"@eq": ["$1", 3]}, "@list": [1,2,3]}}`))
	if err != nil {
		t.Fatal(err)
	}
	alg, ok := node.(*ast.ListAlgorithm)
	if !ok || alg.Kind != ast.AlgoAnyOf {
		t.Fatalf("expected ListAlgorithm{AnyOf}, got %#v", node)
	}
	if _, ok := alg.Cond.(*ast.ComparisonOperator); !ok {
		t.Fatalf("expected Cond to be a ComparisonOperator, got %T", alg.Cond)
	}
}

func TestTranslateListAlgorithmImplicitList(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`{"@all_of": {"@eq": ["$1", 3]}}`))
	if err != nil {
		t.Fatal(err)
	}
	alg, ok := node.(*ast.ListAlgorithm)
	if !ok || alg.Kind != ast.AlgoAllOf {
		t.Fatalf("expected ListAlgorithm{AllOf}, got %#v", node)
	}
	if _, ok := alg.List.(*ast.ContextFI); !ok {
		t.Fatalf("expected implicit List to default to a ContextFI, got %T", alg.List)
	}
}

func TestTranslateModuleFunctionInvocation(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`{"@list.append": ["$xs", 1]}`))
	if err != nil {
		t.Fatal(err)
	}
	fi, ok := node.(*ast.ModuleFI)
	if !ok || fi.Module != "list" || fi.Func != "append" {
		t.Fatalf("expected ModuleFI{list,append}, got %#v", node)
	}
}

func TestTranslateBareFunctionResolvesToDefaultModule(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`{"@abs": -5}`))
	if err != nil {
		t.Fatal(err)
	}
	fi, ok := node.(*ast.ModuleFI)
	if !ok || fi.Module != "cif" || fi.Func != "abs" {
		t.Fatalf("expected ModuleFI{cif,abs}, got %#v", node)
	}
}

func TestTranslateBareFunctionResolvesToSingleClaimant(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`{"@unique": ["$xs"]}`))
	if err != nil {
		t.Fatal(err)
	}
	fi, ok := node.(*ast.ModuleFI)
	if !ok || fi.Module != "list" || fi.Func != "unique" {
		t.Fatalf("expected ModuleFI{list,unique}, got %#v", node)
	}
}

func TestTranslateBareFunctionAmbiguousAcrossModulesErrors(t *testing.T) {
	tr := newTestTranslator()
	if _, err := tr.Translate([]byte(`{"@sort": ["$xs"]}`)); err == nil {
		t.Fatal("expected @sort to be ambiguous between list and alg")
	}
}

func TestTranslateContextFunction(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`{"@field": "a/b"}`))
	if err != nil {
		t.Fatal(err)
	}
	if fi, ok := node.(*ast.ContextFI); !ok || fi.Func != "field" {
		t.Fatalf("expected ContextFI{field}, got %#v", node)
	}
}

func TestTranslateEvaluatorReservedFunction(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`{"@return": 42}`))
	if err != nil {
		t.Fatal(err)
	}
	if fi, ok := node.(*ast.EvaluatorFI); !ok || fi.Func != "return" {
		t.Fatalf("expected EvaluatorFI{return}, got %#v", node)
	}
}

func TestTranslateLocalVariablesAndMacro(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`{"$x": 1, "!double": {"@multiplies": ["$1", 2]}, "@plus": ["$x", 1]}`))
	if err != nil {
		t.Fatal(err)
	}
	if node.Node().Locals == nil {
		t.Fatal("expected local scope to be attached")
	}
	if len(node.Node().Locals.Variables) != 1 || node.Node().Locals.Variables[0].Name != "x" {
		t.Fatalf("expected one local variable named x, got %#v", node.Node().Locals.Variables)
	}
	if _, ok := node.Node().Locals.Macros["double"]; !ok {
		t.Fatal("expected macro 'double' to be registered")
	}
}

func TestTranslateMacroInvocation(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`{"!double": {"@multiplies": ["$1", 2]}, "@double": 5}`))
	if err != nil {
		t.Fatal(err)
	}
	fi, ok := node.(*ast.MacroFI)
	if !ok || fi.Name != "double" {
		t.Fatalf("expected MacroFI{double}, got %#v", node)
	}
	if fi.Body == nil {
		t.Fatal("expected macro body to be resolved at translation time")
	}
}

func TestTranslateUnknownMacroInvocationErrors(t *testing.T) {
	tr := newTestTranslator()
	if _, err := tr.Translate([]byte(`{"@nope": 1}`)); err == nil {
		t.Fatal("expected unknown function to error")
	}
}

func TestTranslateColonShorthand(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`"@eq: [\"$x\", 1]"`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := node.(*ast.ComparisonOperator); !ok {
		t.Fatalf("expected colon-shorthand to reconstruct a ComparisonOperator, got %#v", node)
	}
}

func TestTranslatePlainDictFolds(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`{"a": 1, "b": 2}`))
	if err != nil {
		t.Fatal(err)
	}
	c, ok := node.(*ast.Constant)
	if !ok {
		t.Fatalf("expected an all-constant dict to fold to a Constant, got %T", node)
	}
	if c.Value.(interface{ Len() int }).Len() != 2 {
		t.Fatalf("expected folded dict length 2, got %v", c.Value)
	}
}

func TestTranslateDictWithExpressionStaysLive(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`{"a": 1, "b": "$x"}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := node.(*ast.EvaluableDict); !ok {
		t.Fatalf("expected a dict containing a variable to stay an EvaluableDict, got %T", node)
	}
}

func TestVersionGateRejectsNewerDocument(t *testing.T) {
	tr := newTestTranslator()
	if _, err := tr.Translate([]byte(`{"$jas.version": "99.0.0", "@abs": -1}`)); err == nil {
		t.Fatal("expected a document requiring a newer engine version to be rejected")
	}
}

func TestVersionGateAcceptsOlderDocument(t *testing.T) {
	tr := newTestTranslator()
	node, err := tr.Translate([]byte(`{"$jas.version": "0.1.0", "@abs": -1}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := node.(*ast.ModuleFI); !ok {
		t.Fatalf("expected the version-gated document to still translate, got %T", node)
	}
}
