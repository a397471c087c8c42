// Package evaluator implements Evaluate (spec.md §4.4): the recursive walk
// over an ast.Evaluable tree that produces a jvar.Var, threading an
// evalctx.Context for variable/argument/macro resolution and dispatching
// function invocations through an internal/modules.Manager.
//
// It is grounded on the original engine's Evaluator (original_source's
// src/jas/Evaluator.cpp, include/jas/Evaluator.h): one big switch over node
// kind, opening a child scope for nodes that declare local variables,
// binding a node's "id" into the enclosing scope once its value is known,
// and dispatching ModuleFI/ContextFI/MacroFI/EvaluatorFI through their
// respective registries — reimplemented here as a plain recursive Go
// function instead of that file's visitor double-dispatch.
package evaluator

import (
	"github.com/sepcon/go-jas/internal/ast"
	"github.com/sepcon/go-jas/internal/config"
	"github.com/sepcon/go-jas/internal/evalctx"
	"github.com/sepcon/go-jas/internal/jerrors"
	"github.com/sepcon/go-jas/internal/jvar"
	"github.com/sepcon/go-jas/internal/modules"
)

// Evaluator walks an ast.Evaluable tree against an evalctx.Context.
type Evaluator struct {
	Modules *modules.Manager
	// MaxDepth bounds evalctx.Context.Depth(): a self-referential macro or
	// host-supplied cyclic structure opens child scopes without ever
	// returning, and this catches that before it exhausts the Go call
	// stack. Defaults to config.DefaultConfig.MaxRecursionDepth.
	MaxDepth int
}

// New returns an Evaluator dispatching ModuleFI nodes through mgr, with the
// recursion-depth limit from config.DefaultConfig.
func New(mgr *modules.Manager) *Evaluator {
	return &Evaluator{Modules: mgr, MaxDepth: config.DefaultConfig.MaxRecursionDepth}
}

// Eval evaluates node against ctx, implementing modules.Evaluator so module
// functions (alg.any_of, list.sort's predicate, ...) can recurse back in
// without either package importing the other.
func (e *Evaluator) Eval(node ast.Evaluable, ctx evalctx.Context) (jvar.Var, error) {
	if max := e.MaxDepth; max > 0 && ctx.Depth() > max {
		return jvar.Var{}, jerrors.Evaluation("evaluation nesting exceeded the configured limit of %d", max)
	}
	frameCtx := ctx
	if locals := node.Node().Locals; locals != nil {
		child := ctx.NewChild()
		for _, lv := range locals.Variables {
			val, err := e.Eval(lv.Init, child)
			if err != nil {
				return jvar.Var{}, err
			}
			if lv.Update {
				if !ctx.SetVariable(lv.Name, val.Share()) {
					return jvar.Var{}, jerrors.Evaluation("$+%s updates a variable that is not declared in any enclosing scope", lv.Name)
				}
			} else {
				child.PutVariable(lv.Name, val)
			}
		}
		frameCtx = child
	}

	result, err := e.evalNode(node, frameCtx)
	if err != nil {
		return jvar.Var{}, jerrors.Unwind(err, jerrors.Frame{Syntax: node.Syntax(), ContextID: frameCtx.ID()})
	}
	if id := node.Node().ID; id != "" {
		ctx.PutVariable(id, result.Share())
	}
	return result, nil
}

func (e *Evaluator) evalNode(node ast.Evaluable, ctx evalctx.Context) (jvar.Var, error) {
	switch n := node.(type) {
	case *ast.Constant:
		return n.Value.(jvar.Var), nil
	case *ast.EvaluableList:
		items := make([]jvar.Var, len(n.Elements))
		for i, el := range n.Elements {
			v, err := e.Eval(el, ctx)
			if err != nil {
				return jvar.Var{}, err
			}
			items[i] = v
		}
		return jvar.List(items...), nil
	case *ast.EvaluableDict:
		d := jvar.Dict()
		detached, _ := d.DetachDict()
		for i, k := range n.Keys {
			v, err := e.Eval(n.Values[i], ctx)
			if err != nil {
				return jvar.Var{}, err
			}
			detached.SetFieldInPlace(k, v)
		}
		return detached, nil
	case *ast.Variable:
		return e.evalVariable(n, ctx)
	case *ast.ObjectPropertyQuery:
		return e.evalObjectPropertyQuery(n, ctx)
	case *ast.ArithmaticalOperator:
		return e.evalArith(n, ctx)
	case *ast.ArthmSelfAssignOperator:
		return e.evalSelfAssign(n, ctx)
	case *ast.LogicalOperator:
		return e.evalLogical(n, ctx)
	case *ast.ComparisonOperator:
		return e.evalComparison(n, ctx)
	case *ast.ListAlgorithm:
		return e.evalListAlgorithm(n, ctx)
	case *ast.ModuleFI:
		return e.Modules.Eval(n.Module, n.Func, n.Param, ctx, e)
	case *ast.ContextFI:
		return e.evalContextFI(n, ctx)
	case *ast.MacroFI:
		return e.evalMacroFI(n, ctx)
	case *ast.EvaluatorFI:
		return e.evalEvaluatorFI(n, ctx)
	case *ast.ContextArgument:
		v, ok := ctx.Arg(n.Index - 1)
		if !ok {
			return jvar.Var{}, jerrors.Evaluation("$%d: no such positional argument in this scope", n.Index)
		}
		return v, nil
	case *ast.ContextArgumentsInfo:
		if n.Kind == ast.ArgCount {
			return jvar.Int(int64(len(ctx.Args()))), nil
		}
		return jvar.List(ctx.Args()...), nil
	default:
		return jvar.Var{}, jerrors.Evaluation("evaluator: unhandled node type %T", node)
	}
}

func (e *Evaluator) evalVariable(n *ast.Variable, ctx evalctx.Context) (jvar.Var, error) {
	target := ctx
	if n.Root {
		target = ctx.Root()
	}
	v, ok := target.GetVariable(n.Name)
	if !ok {
		return jvar.Var{}, jerrors.Evaluation("undefined variable %q", n.Name)
	}
	return v, nil
}

func (e *Evaluator) evalObjectPropertyQuery(n *ast.ObjectPropertyQuery, ctx evalctx.Context) (jvar.Var, error) {
	cur, err := e.Eval(n.Object, ctx)
	if err != nil {
		return jvar.Var{}, err
	}
	for _, part := range n.Path {
		if cur.IsNull() {
			return jvar.Null(), nil
		}
		key, err := e.Eval(part, ctx)
		if err != nil {
			return jvar.Var{}, err
		}
		switch {
		case cur.IsDict():
			val, ok, err := cur.Field(key.StrValue())
			if err != nil {
				return jvar.Var{}, err
			}
			if !ok {
				return jvar.Null(), nil
			}
			cur = val
		case cur.IsList():
			idx := int(key.Int64Value())
			val, err := cur.At(idx)
			if err != nil {
				return jvar.Null(), nil
			}
			cur = val
		default:
			return jvar.Var{}, jerrors.Type("cannot descend into a %s with a property query", cur.Kind())
		}
	}
	return cur, nil
}

var arithBinary = map[ast.ArithKind]func(jvar.Var, jvar.Var) (jvar.Var, error){
	ast.ArithAdd: jvar.Add, ast.ArithSub: jvar.Sub, ast.ArithMul: jvar.Mul, ast.ArithDiv: jvar.Div,
	ast.ArithMod: jvar.Mod, ast.ArithBitAnd: jvar.BitAnd, ast.ArithBitOr: jvar.BitOr, ast.ArithBitXor: jvar.BitXor,
}

func (e *Evaluator) evalArith(n *ast.ArithmaticalOperator, ctx evalctx.Context) (jvar.Var, error) {
	operands := make([]jvar.Var, len(n.Operands))
	for i, o := range n.Operands {
		v, err := e.Eval(o, ctx)
		if err != nil {
			return jvar.Var{}, err
		}
		operands[i] = v
	}
	switch n.Op {
	case ast.ArithNeg:
		return jvar.Neg(operands[0])
	case ast.ArithBitNot:
		return jvar.Not(operands[0])
	}
	fn := arithBinary[n.Op]
	acc := operands[0]
	for _, rhs := range operands[1:] {
		result, err := fn(acc, rhs)
		if err != nil {
			return jvar.Var{}, err
		}
		acc = result
	}
	return acc, nil
}

func (e *Evaluator) evalSelfAssign(n *ast.ArthmSelfAssignOperator, ctx evalctx.Context) (jvar.Var, error) {
	cur, ok := ctx.GetVariable(n.Target.Name)
	if !ok {
		return jvar.Var{}, jerrors.Evaluation("self-assign target %q is not declared", n.Target.Name)
	}
	rhs, err := e.Eval(n.Rhs, ctx)
	if err != nil {
		return jvar.Var{}, err
	}
	var result jvar.Var
	switch n.Op {
	case ast.ArithNeg:
		result, err = jvar.Neg(cur)
	case ast.ArithBitNot:
		result, err = jvar.Not(cur)
	default:
		result, err = arithBinary[n.Op](cur, rhs)
	}
	if err != nil {
		return jvar.Var{}, err
	}
	if !ctx.SetVariable(n.Target.Name, result) {
		return jvar.Var{}, jerrors.Evaluation("self-assign target %q is not declared", n.Target.Name)
	}
	return result, nil
}

func (e *Evaluator) evalLogical(n *ast.LogicalOperator, ctx evalctx.Context) (jvar.Var, error) {
	if n.Kind == ast.LogicalNot {
		v, err := e.Eval(n.Operands[0], ctx)
		if err != nil {
			return jvar.Var{}, err
		}
		return jvar.Bool(!v.Truthy()), nil
	}
	for _, o := range n.Operands {
		v, err := e.Eval(o, ctx)
		if err != nil {
			return jvar.Var{}, err
		}
		if n.Kind == ast.LogicalAnd && !v.Truthy() {
			return jvar.Bool(false), nil
		}
		if n.Kind == ast.LogicalOr && v.Truthy() {
			return jvar.Bool(true), nil
		}
	}
	return jvar.Bool(n.Kind == ast.LogicalAnd), nil
}

func (e *Evaluator) evalComparison(n *ast.ComparisonOperator, ctx evalctx.Context) (jvar.Var, error) {
	lhs, err := e.Eval(n.Lhs, ctx)
	if err != nil {
		return jvar.Var{}, err
	}
	rhs, err := e.Eval(n.Rhs, ctx)
	if err != nil {
		return jvar.Var{}, err
	}
	if n.Kind == ast.CmpEq {
		return jvar.Bool(jvar.Equal(lhs, rhs)), nil
	}
	if n.Kind == ast.CmpNe {
		return jvar.Bool(!jvar.Equal(lhs, rhs)), nil
	}
	c, err := jvar.Compare(lhs, rhs)
	if err != nil {
		return jvar.Var{}, err
	}
	switch n.Kind {
	case ast.CmpLt:
		return jvar.Bool(c < 0), nil
	case ast.CmpGt:
		return jvar.Bool(c > 0), nil
	case ast.CmpLe:
		return jvar.Bool(c <= 0), nil
	default:
		return jvar.Bool(c >= 0), nil
	}
}

// evalListAlgorithm iterates n.List's elements, binding each as the sole
// positional argument ($1) of a fresh child scope before evaluating n.Cond
// (spec.md §4.4's list-algorithm rule).
func (e *Evaluator) evalListAlgorithm(n *ast.ListAlgorithm, ctx evalctx.Context) (jvar.Var, error) {
	listVal, err := e.Eval(n.List, ctx)
	if err != nil {
		return jvar.Var{}, err
	}
	items, err := listVal.Items()
	if err != nil {
		return jvar.Var{}, err
	}

	evalCond := func(it jvar.Var) (jvar.Var, error) {
		child := ctx.NewChild()
		child.PushArgs([]jvar.Var{it}, nil)
		return e.Eval(n.Cond, child)
	}

	switch n.Kind {
	case ast.AlgoAnyOf, ast.AlgoAllOf, ast.AlgoNoneOf:
		for _, it := range items {
			r, err := evalCond(it)
			if err != nil {
				return jvar.Var{}, err
			}
			switch n.Kind {
			case ast.AlgoAnyOf:
				if r.Truthy() {
					return jvar.Bool(true), nil
				}
			case ast.AlgoAllOf:
				if !r.Truthy() {
					return jvar.Bool(false), nil
				}
			case ast.AlgoNoneOf:
				if r.Truthy() {
					return jvar.Bool(false), nil
				}
			}
		}
		return jvar.Bool(n.Kind != ast.AlgoAnyOf), nil
	case ast.AlgoCountIf:
		count := 0
		for _, it := range items {
			r, err := evalCond(it)
			if err != nil {
				return jvar.Var{}, err
			}
			if r.Truthy() {
				count++
			}
		}
		return jvar.Int(int64(count)), nil
	case ast.AlgoFilterIf:
		var out []jvar.Var
		for _, it := range items {
			r, err := evalCond(it)
			if err != nil {
				return jvar.Var{}, err
			}
			if r.Truthy() {
				out = append(out, it)
			}
		}
		return jvar.List(out...), nil
	case ast.AlgoTransform:
		out := make([]jvar.Var, len(items))
		for i, it := range items {
			r, err := evalCond(it)
			if err != nil {
				return jvar.Var{}, err
			}
			out[i] = r
		}
		return jvar.List(out...), nil
	default:
		return jvar.Var{}, jerrors.Evaluation("evaluator: unhandled list algorithm kind %v", n.Kind)
	}
}

// evalArgList evaluates a ModuleFI/ContextFI-style Param into a flat
// argument slice: an EvaluableList evaluates element by element, any other
// (or nil) node is a single argument (matching modules.evalArgs's leniency).
func (e *Evaluator) evalArgList(param ast.Evaluable, ctx evalctx.Context) ([]jvar.Var, error) {
	if param == nil {
		return nil, nil
	}
	if list, ok := param.(*ast.EvaluableList); ok {
		out := make([]jvar.Var, len(list.Elements))
		for i, el := range list.Elements {
			v, err := e.Eval(el, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	v, err := e.Eval(param, ctx)
	if err != nil {
		return nil, err
	}
	return []jvar.Var{v}, nil
}

// evalContextFI dispatches to the nearest enclosing Context implementing
// evalctx.ContextFunctionCaller, walking the scope chain so a ContextFI
// nested inside any number of local-variable/list-algorithm child scopes
// still reaches the root HistoricalEvalContext (or whatever concrete
// Context a host application supplies).
func (e *Evaluator) evalContextFI(n *ast.ContextFI, ctx evalctx.Context) (jvar.Var, error) {
	args, err := e.evalArgList(n.Param, ctx)
	if err != nil {
		return jvar.Var{}, err
	}
	for c := ctx; c != nil; c = c.Parent() {
		if caller, ok := c.(evalctx.ContextFunctionCaller); ok {
			return caller.CallContextFunction(n.Func, args)
		}
	}
	return jvar.Var{}, jerrors.FunctionNotFound("no context in scope exposes function %q", n.Func)
}

// evalMacroFI invokes a macro by evaluating its Param into an argument list
// and evaluating its translation-time-resolved Body in a fresh child scope
// of the call site. True closure-capture of the macro's declaration-time
// environment (rather than the call site's) would require the translator
// to thread a captured Context reference through ast.MacroFI, which it
// does not; free variables inside a macro body resolve dynamically against
// whichever scope chain is active at the point of invocation.
func (e *Evaluator) evalMacroFI(n *ast.MacroFI, ctx evalctx.Context) (jvar.Var, error) {
	args, err := e.evalArgList(n.Param, ctx)
	if err != nil {
		return jvar.Var{}, err
	}
	child := ctx.NewChild()
	child.PushArgs(args, nil)
	return e.Eval(n.Body, child)
}

// evalEvaluatorFI implements the sole EvaluatorFI, "return": yield Param as
// this node's evaluated value. The JAS expression grammar has no statement
// sequencing for "return" to interrupt, so this is evaluation rather than
// non-local control flow.
func (e *Evaluator) evalEvaluatorFI(n *ast.EvaluatorFI, ctx evalctx.Context) (jvar.Var, error) {
	switch n.Func {
	case "return":
		return e.Eval(n.Param, ctx)
	default:
		return jvar.Var{}, jerrors.FunctionNotFound("evaluator has no reserved function %q", n.Func)
	}
}
