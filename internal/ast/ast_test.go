package ast

import "testing"

func TestSyntaxRendering(t *testing.T) {
	v := &Variable{Name: "x"}
	if got := v.Syntax(); got != "$x" {
		t.Fatalf("Variable.Syntax() = %q, want $x", got)
	}

	op := &ArithmaticalOperator{Op: ArithAdd, Operands: []Evaluable{v, &Constant{Raw: "1"}}}
	if got := op.Syntax(); got != "($x + 1)" {
		t.Fatalf("ArithmaticalOperator.Syntax() = %q", got)
	}

	cmp := &ComparisonOperator{Kind: CmpGe, Lhs: v, Rhs: &Constant{Raw: "0"}}
	if got := cmp.Syntax(); got != "($x >= 0)" {
		t.Fatalf("ComparisonOperator.Syntax() = %q", got)
	}

	list := &EvaluableList{Elements: []Evaluable{&Constant{Raw: "1"}, &Constant{Raw: "2"}}}
	if got := list.Syntax(); got != "[1, 2]" {
		t.Fatalf("EvaluableList.Syntax() = %q", got)
	}

	mfi := &ModuleFI{Module: "list", Func: "append", Param: list}
	if got := mfi.Syntax(); got != "@list.append: [1, 2]" {
		t.Fatalf("ModuleFI.Syntax() = %q", got)
	}

	arg := &ContextArgument{Index: 1}
	if got := arg.Syntax(); got != "$1" {
		t.Fatalf("ContextArgument.Syntax() = %q", got)
	}

	count := &ContextArgumentsInfo{Kind: ArgCount}
	if got := count.Syntax(); got != "$#" {
		t.Fatalf("ContextArgumentsInfo(ArgCount).Syntax() = %q", got)
	}
	all := &ContextArgumentsInfo{Kind: ArgList}
	if got := all.Syntax(); got != "$*" {
		t.Fatalf("ContextArgumentsInfo(ArgList).Syntax() = %q", got)
	}
}

func TestObjectPropertyQuerySyntax(t *testing.T) {
	q := &ObjectPropertyQuery{
		Object: &Variable{Name: "x"},
		Path:   []Evaluable{&Constant{Raw: "a"}, &Constant{Raw: "b"}},
	}
	if got := q.Syntax(); got != "$x[a/b]" {
		t.Fatalf("ObjectPropertyQuery.Syntax() = %q", got)
	}
}

func TestRootVariableSyntax(t *testing.T) {
	v := &Variable{Name: "x", Root: true}
	if got := v.Syntax(); got != "$.x" {
		t.Fatalf("Variable(root).Syntax() = %q", got)
	}
}

func TestListAlgorithmSyntax(t *testing.T) {
	a := &ListAlgorithm{
		Kind: AlgoAnyOf,
		List: &EvaluableList{Elements: []Evaluable{&Constant{Raw: "1"}}},
		Cond: &ComparisonOperator{Kind: CmpEq, Lhs: &ContextArgument{Index: 1}, Rhs: &Constant{Raw: "1"}},
	}
	if got := a.Syntax(); got != "@any_of: {@cond: ($1 == 1), @list: [1]}" {
		t.Fatalf("ListAlgorithm.Syntax() = %q", got)
	}
}
