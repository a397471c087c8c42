package evalctx

import (
	"testing"

	"github.com/sepcon/go-jas/internal/jvar"
)

func TestVariableResolutionChain(t *testing.T) {
	root := NewRoot()
	root.PutVariable("x", jvar.Int(1))

	child := root.NewChild()
	if v, ok := child.GetVariable("x"); !ok || v.Int64Value() != 1 {
		t.Fatalf("expected child to resolve x from parent, got %v, %v", v, ok)
	}

	child.PutVariable("x", jvar.Int(2))
	if v, _ := child.GetVariable("x"); v.Int64Value() != 2 {
		t.Fatalf("expected child's own binding to shadow parent, got %v", v)
	}
	if v, _ := root.GetVariable("x"); v.Int64Value() != 1 {
		t.Fatalf("expected root's binding unaffected by child shadow, got %v", v)
	}
}

func TestRootWalksToOutermost(t *testing.T) {
	root := NewRoot()
	mid := root.NewChild()
	leaf := mid.NewChild()

	if leaf.Root().ID() != root.ID() {
		t.Fatalf("expected leaf.Root() == root, got %s vs %s", leaf.Root().ID(), root.ID())
	}
}

func TestArgsAndNamedArgs(t *testing.T) {
	ctx := NewRoot()
	ctx.PushArgs([]jvar.Var{jvar.Int(10), jvar.Int(20)}, map[string]jvar.Var{"opt": jvar.Bool(true)})

	if v, ok := ctx.Arg(1); !ok || v.Int64Value() != 20 {
		t.Fatalf("Arg(1) = %v, %v", v, ok)
	}
	if v, ok := ctx.NamedArg("opt"); !ok || !v.BoolValue() {
		t.Fatalf("NamedArg(opt) = %v, %v", v, ok)
	}
	if _, ok := ctx.Arg(5); ok {
		t.Fatal("expected out-of-range Arg to report false")
	}
}

func TestMacroChain(t *testing.T) {
	root := NewRoot()
	root.PutMacro("double", jvar.Str("@mul: [$$, 2]"))
	child := root.NewChild()
	if v, ok := child.Macro("double"); !ok || v.StrValue() == "" {
		t.Fatalf("expected child to resolve macro from parent, got %v, %v", v, ok)
	}
}
