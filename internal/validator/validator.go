// Package validator implements SyntaxValidator (spec.md §4.6): a one-pass
// in-order traversal of an ast.Evaluable tree that builds a linear
// pseudo-syntax string and records a byte offset into that string for every
// malformed node it crosses (empty function name, wrong operator arity,
// missing list-algorithm condition, a nil required child). pkg/jas exposes
// it as Engine.Validate. The evaluator's backtrace frames
// (internal/jerrors.Frame.Syntax) take each node's own Syntax(), which
// renders the same text, so a stack dump reads like the source JSON's
// shorthand rather than a Go struct dump.
//
// Grounded on the original engine's notion of rendering an Evaluable back to
// its textual form for diagnostics (original_source's EvaluableClassesFwd.h
// node set, and Evaluable::Syntax() on each concrete class) but done here in
// a single strings.Builder pass instead of recursive per-node string
// concatenation, which would otherwise copy the whole subtree's text once
// per level of nesting.
package validator

import (
	"fmt"
	"strings"

	"github.com/sepcon/go-jas/internal/ast"
)

// Issue is one structural defect found during a traversal, anchored to the
// byte offset in Report.Syntax where the offending node's rendering begins.
type Issue struct {
	Offset  int
	Message string
}

// Report is the result of validating a tree: its reconstructed pseudo-syntax
// text, and every issue found along the way (empty when the tree is
// well-formed).
type Report struct {
	Syntax string
	Issues []Issue
}

// Validate walks node once and returns its pseudo-syntax rendering together
// with any structural issues. A nil root is itself reported as an issue at
// offset 0.
func Validate(node ast.Evaluable) Report {
	v := &validator{}
	v.visit(node)
	return Report{Syntax: v.buf.String(), Issues: v.issues}
}

type validator struct {
	buf    strings.Builder
	issues []Issue
}

func (v *validator) fail(format string, args ...any) {
	v.issues = append(v.issues, Issue{Offset: v.buf.Len(), Message: fmt.Sprintf(format, args...)})
}

func (v *validator) write(s string) { v.buf.WriteString(s) }

func (v *validator) visit(n ast.Evaluable) {
	if n == nil {
		v.fail("missing required sub-expression")
		v.write("<missing>")
		return
	}
	switch t := n.(type) {
	case *ast.Constant:
		v.write(t.Raw)
	case *ast.EvaluableList:
		v.visitList(t)
	case *ast.EvaluableDict:
		v.visitDict(t)
	case *ast.Variable:
		if t.Name == "" {
			v.fail("variable reference has an empty name")
		}
		v.write(t.Syntax())
	case *ast.ObjectPropertyQuery:
		v.visitObjectPropertyQuery(t)
	case *ast.ArithmaticalOperator:
		v.visitArith(t)
	case *ast.ArthmSelfAssignOperator:
		v.visitSelfAssign(t)
	case *ast.LogicalOperator:
		v.visitLogical(t)
	case *ast.ComparisonOperator:
		v.visitComparison(t)
	case *ast.ListAlgorithm:
		v.visitListAlgorithm(t)
	case *ast.ModuleFI:
		name := t.Func
		if t.Module != "" {
			name = t.Module + "." + t.Func
		}
		v.visitFI(name, t.Func, t.Param)
	case *ast.ContextFI:
		v.visitFI(t.Func, t.Func, t.Param)
	case *ast.MacroFI:
		v.visitMacro(t)
	case *ast.EvaluatorFI:
		v.visitFI(t.Func, t.Func, t.Param)
	case *ast.ContextArgument:
		if t.Index < 1 {
			v.fail("context argument index must be >= 1, got %d", t.Index)
		}
		v.write(t.Syntax())
	case *ast.ContextArgumentsInfo:
		v.write(t.Syntax())
	default:
		v.fail("unrecognised node type %T", n)
	}
}

func (v *validator) visitList(l *ast.EvaluableList) {
	v.write("[")
	for i, e := range l.Elements {
		if i > 0 {
			v.write(", ")
		}
		v.visit(e)
	}
	v.write("]")
}

func (v *validator) visitDict(d *ast.EvaluableDict) {
	v.write("{")
	if len(d.Values) != len(d.Keys) {
		v.fail("dict has %d keys but %d values", len(d.Keys), len(d.Values))
	}
	for i, k := range d.Keys {
		if i > 0 {
			v.write(", ")
		}
		if k == "" {
			v.fail("dict key must not be empty")
		}
		v.write(k + ": ")
		if i < len(d.Values) {
			v.visit(d.Values[i])
		}
	}
	v.write("}")
}

func (v *validator) visitObjectPropertyQuery(q *ast.ObjectPropertyQuery) {
	v.visit(q.Object)
	v.write("[")
	if len(q.Path) == 0 {
		v.fail("property query has an empty path")
	}
	for i, p := range q.Path {
		if i > 0 {
			v.write("/")
		}
		v.visit(p)
	}
	v.write("]")
}

func (v *validator) visitArith(a *ast.ArithmaticalOperator) {
	start := v.buf.Len()
	switch {
	case a.Op.IsUnary():
		if len(a.Operands) != 1 {
			v.issues = append(v.issues, Issue{Offset: start, Message: fmt.Sprintf("operator %q takes exactly one operand, got %d", a.Op, len(a.Operands))})
		}
	case a.Op.IsBinaryOnly():
		if len(a.Operands) != 2 {
			v.issues = append(v.issues, Issue{Offset: start, Message: fmt.Sprintf("operator %q takes exactly two operands, got %d", a.Op, len(a.Operands))})
		}
	default:
		if len(a.Operands) == 0 {
			v.issues = append(v.issues, Issue{Offset: start, Message: fmt.Sprintf("operator %q takes at least one operand", a.Op)})
		}
	}
	if a.Op.IsUnary() {
		v.write(a.Op.String())
		if len(a.Operands) > 0 {
			v.visit(a.Operands[0])
		} else {
			v.write("<missing>")
		}
		return
	}
	v.write("(")
	for i, o := range a.Operands {
		if i > 0 {
			v.write(" " + a.Op.String() + " ")
		}
		v.visit(o)
	}
	v.write(")")
}

func (v *validator) visitSelfAssign(a *ast.ArthmSelfAssignOperator) {
	start := v.buf.Len()
	if a.Target == nil {
		v.issues = append(v.issues, Issue{Offset: start, Message: "self-assign operator has no target variable"})
		v.write("<missing> " + a.Op.String() + "= ")
	} else {
		if a.Target.Name == "" {
			v.fail("self-assign target has an empty name")
		}
		v.write(a.Target.Syntax() + " " + a.Op.String() + "= ")
	}
	v.visit(a.Rhs)
}

func (v *validator) visitLogical(l *ast.LogicalOperator) {
	start := v.buf.Len()
	if l.Kind == ast.LogicalNot {
		if len(l.Operands) != 1 {
			v.issues = append(v.issues, Issue{Offset: start, Message: fmt.Sprintf("operator %q takes exactly one operand, got %d", l.Kind, len(l.Operands))})
		}
		v.write(l.Kind.String())
		if len(l.Operands) > 0 {
			v.visit(l.Operands[0])
		} else {
			v.write("<missing>")
		}
		return
	}
	if len(l.Operands) == 0 {
		v.issues = append(v.issues, Issue{Offset: start, Message: fmt.Sprintf("operator %q takes at least one operand", l.Kind)})
	}
	v.write("(")
	for i, o := range l.Operands {
		if i > 0 {
			v.write(" " + l.Kind.String() + " ")
		}
		v.visit(o)
	}
	v.write(")")
}

func (v *validator) visitComparison(c *ast.ComparisonOperator) {
	v.write("(")
	if c.Lhs == nil {
		v.fail("comparison is missing its left-hand operand")
		v.write("<missing>")
	} else {
		v.visit(c.Lhs)
	}
	v.write(" " + c.Kind.String() + " ")
	if c.Rhs == nil {
		v.fail("comparison is missing its right-hand operand")
		v.write("<missing>")
	} else {
		v.visit(c.Rhs)
	}
	v.write(")")
}

func (v *validator) visitListAlgorithm(a *ast.ListAlgorithm) {
	v.write("@" + a.Kind.String() + ": {@cond: ")
	if a.Cond == nil {
		v.fail("list algorithm %q is missing its condition", a.Kind)
		v.write("<missing>")
	} else {
		v.visit(a.Cond)
	}
	v.write(", @list: ")
	if a.List == nil {
		v.fail("list algorithm %q is missing its source list", a.Kind)
		v.write("<missing>")
	} else {
		v.visit(a.List)
	}
	v.write("}")
}

func (v *validator) visitFI(displayName, funcName string, param ast.Evaluable) {
	if funcName == "" {
		v.fail("function invocation has an empty name")
	}
	v.write("@" + displayName + ": ")
	if param == nil {
		v.write("[]")
		return
	}
	v.visit(param)
}

func (v *validator) visitMacro(m *ast.MacroFI) {
	if m.Name == "" {
		v.fail("macro invocation has an empty name")
	}
	if m.Body == nil {
		v.fail("macro %q has no resolved body", m.Name)
	}
	v.write("@" + m.Name + ": ")
	if m.Param == nil {
		v.write("[]")
		return
	}
	v.visit(m.Param)
}
