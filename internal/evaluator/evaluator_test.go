package evaluator

import (
	"testing"

	"github.com/sepcon/go-jas/internal/evalctx"
	"github.com/sepcon/go-jas/internal/jvar"
	"github.com/sepcon/go-jas/internal/modules"
	"github.com/sepcon/go-jas/internal/translator"
)

func run(t *testing.T, ctx evalctx.Context, src string) jvar.Var {
	t.Helper()
	mgr := modules.NewManager()
	tr := translator.New(mgr)
	node, err := tr.Translate([]byte(src))
	if err != nil {
		t.Fatalf("translate %s: %v", src, err)
	}
	ev := New(mgr)
	v, err := ev.Eval(node, ctx)
	if err != nil {
		t.Fatalf("eval %s: %v", src, err)
	}
	return v
}

func TestEvalArithmeticVariadicFold(t *testing.T) {
	v := run(t, evalctx.NewRoot(), `{"@plus": [1, 2, 3, 4]}`)
	if v.Int64Value() != 10 {
		t.Fatalf("expected 10, got %v", v)
	}
}

func TestEvalComparisonAndLogical(t *testing.T) {
	ctx := evalctx.NewRoot()
	ctx.PutVariable("x", jvar.Int(5))
	v := run(t, ctx, `{"@and": [{"@gt": ["$x", 1]}, {"@lt": ["$x", 10]}]}`)
	if !v.BoolValue() {
		t.Fatalf("expected true, got %v", v)
	}
}

func TestEvalShortCircuitOr(t *testing.T) {
	ctx := evalctx.NewRoot()
	ctx.PutVariable("xs", jvar.List(jvar.Int(1)))
	v := run(t, ctx, `{"@or": [true, {"@list.pop": "$xs"}]}`)
	if !v.BoolValue() {
		t.Fatal("expected short-circuited true")
	}
	xs, _ := ctx.GetVariable("xs")
	if xs.Len() != 1 {
		t.Fatal("expected short-circuit to skip the second operand entirely")
	}
}

func TestEvalLocalVariableScope(t *testing.T) {
	v := run(t, evalctx.NewRoot(), `{"$y": 10, "@plus": ["$y", 5]}`)
	if v.Int64Value() != 15 {
		t.Fatalf("expected 15, got %v", v)
	}
}

func TestEvalSelfAssign(t *testing.T) {
	ctx := evalctx.NewRoot()
	ctx.PutVariable("x", jvar.Int(1))
	v := run(t, ctx, `{"@plus_assign": ["$x", 4]}`)
	if v.Int64Value() != 5 {
		t.Fatalf("expected self-assign result 5, got %v", v)
	}
	x, _ := ctx.GetVariable("x")
	if x.Int64Value() != 5 {
		t.Fatalf("expected $x mutated to 5, got %v", x)
	}
}

func TestEvalListAlgorithmAnyOf(t *testing.T) {
	v := run(t, evalctx.NewRoot(), `{"@any_of": {"@cond": {"@eq": ["$1", 3]}, "@list": [1, 2, 3]}}`)
	if !v.BoolValue() {
		t.Fatal("expected any_of to find 3")
	}
}

func TestEvalListAlgorithmTransform(t *testing.T) {
	v := run(t, evalctx.NewRoot(), `{"@transform": {"@cond": {"@plus": ["$1", 1]}, "@list": [1, 2, 3]}}`)
	items, _ := v.Items()
	if len(items) != 3 || items[0].Int64Value() != 2 || items[2].Int64Value() != 4 {
		t.Fatalf("expected [2,3,4], got %v", v)
	}
}

func TestEvalModuleFunctionInvocation(t *testing.T) {
	ctx := evalctx.NewRoot()
	ctx.PutVariable("xs", jvar.List(jvar.Int(1), jvar.Int(2)))
	v := run(t, ctx, `{"@list.append": ["$xs", 3]}`)
	if v.Len() != 3 {
		t.Fatalf("expected appended length 3, got %d", v.Len())
	}
	xs, _ := ctx.GetVariable("xs")
	if xs.Len() != 3 {
		t.Fatalf("expected $xs rebound to length 3, got %d", xs.Len())
	}
}

func TestEvalContextFunctionInvocation(t *testing.T) {
	ctx := evalctx.NewHistoricalContext(`{"a":1}`, `{"a":2}`)
	v := run(t, ctx, `{"@snchg": "a"}`)
	if !v.BoolValue() {
		t.Fatal("expected snchg(a) true across 1 -> 2")
	}
}

func TestEvalContextFunctionInsideNestedScope(t *testing.T) {
	ctx := evalctx.NewHistoricalContext(`{"a":1}`, `{"a":2}`)
	v := run(t, ctx, `{"$y": 1, "@snchg": "a"}`)
	if !v.BoolValue() {
		t.Fatal("expected snchg(a) to resolve even from inside a local-variable child scope")
	}
}

func TestEvalMacroInvocation(t *testing.T) {
	v := run(t, evalctx.NewRoot(), `{"!double": {"@multiplies": ["$1", 2]}, "@double": 21}`)
	if v.Int64Value() != 42 {
		t.Fatalf("expected macro double(21) == 42, got %v", v)
	}
}

func TestEvalEvaluatorReturn(t *testing.T) {
	v := run(t, evalctx.NewRoot(), `{"@return": {"@plus": [1, 1]}}`)
	if v.Int64Value() != 2 {
		t.Fatalf("expected return(1+1) == 2, got %v", v)
	}
}

func TestEvalObjectPropertyQuery(t *testing.T) {
	ctx := evalctx.NewRoot()
	d := jvar.Dict()
	detached, _ := d.DetachDict()
	detached.SetFieldInPlace("b", jvar.Int(7))
	outer := jvar.Dict()
	outerDetached, _ := outer.DetachDict()
	outerDetached.SetFieldInPlace("a", detached)
	ctx.PutVariable("x", outerDetached)

	v := run(t, ctx, `"$x[a/b]"`)
	if v.Int64Value() != 7 {
		t.Fatalf("expected $x[a/b] == 7, got %v", v)
	}
}

func TestEvalNodeIDBindsResultInEnclosingScope(t *testing.T) {
	ctx := evalctx.NewRoot()
	_ = run(t, ctx, `{"id": "sum", "@plus": [1, 2]}`)
	v, ok := ctx.GetVariable("sum")
	if !ok || v.Int64Value() != 3 {
		t.Fatalf("expected node id 'sum' to bind 3 into the enclosing scope, got %v, %v", v, ok)
	}
}

func TestEvalUndefinedVariableErrors(t *testing.T) {
	ctx := evalctx.NewRoot()
	mgr := modules.NewManager()
	tr := translator.New(mgr)
	node, err := tr.Translate([]byte(`"$nope"`))
	if err != nil {
		t.Fatal(err)
	}
	ev := New(mgr)
	if _, err := ev.Eval(node, ctx); err == nil {
		t.Fatal("expected undefined variable to error")
	}
}
