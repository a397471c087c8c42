package modules

import (
	"github.com/sepcon/go-jas/internal/ast"
	"github.com/sepcon/go-jas/internal/evalctx"
	"github.com/sepcon/go-jas/internal/jerrors"
	"github.com/sepcon/go-jas/internal/jvar"
)

// algModule implements spec.md §6's "alg" built-in set: sort, filter,
// transform, any_of, all_of, none_of, count_if, each invoked as
// "@alg.<name>": [list, predicate]. This is the module-dispatch route to
// the same algorithms the translator also recognises structurally as a
// dedicated ast.ListAlgorithm node (spec.md §4.3 pipeline step 3); unlike
// that shorthand, here predicate is a plain second argument rather than a
// {"@cond"/"@list"} object, and sort's predicate receives two elements
// ($1, $2) instead of one.
type algModule struct{}

func newAlgModule() *algModule { return &algModule{} }

func (algModule) Name() string { return "alg" }

var algFuncs = []string{"sort", "filter", "transform", "any_of", "all_of", "none_of", "count_if"}

func (algModule) Has(fn string) bool {
	for _, f := range algFuncs {
		if f == fn {
			return true
		}
	}
	return false
}

func (algModule) Enumerate() []string { return algFuncs }

func (m algModule) Eval(fn string, param ast.Evaluable, ctx evalctx.Context, ev Evaluator) (jvar.Var, error) {
	listNode, ok := argNode(param, 0)
	if !ok {
		return jvar.Var{}, jerrors.InvalidArgument("alg.%s requires [list, predicate]", fn)
	}
	predNode, ok := argNode(param, 1)
	if !ok {
		return jvar.Var{}, jerrors.InvalidArgument("alg.%s requires a predicate argument", fn)
	}

	listVal, err := ev.Eval(listNode, ctx)
	if err != nil {
		return jvar.Var{}, err
	}
	items, err := listVal.Items()
	if err != nil {
		return jvar.Var{}, err
	}

	predicate := func(elems ...jvar.Var) (jvar.Var, error) {
		child := ctx.NewChild()
		child.PushArgs(elems, nil)
		return ev.Eval(predNode, child)
	}

	switch fn {
	case "sort":
		detached, err := listVal.DetachList()
		if err != nil {
			return jvar.Var{}, err
		}
		sorted, _ := detached.Items()
		var sortErr error
		insertionSort(sorted, func(a, b jvar.Var) bool {
			if sortErr != nil {
				return false
			}
			r, err := predicate(a, b)
			if err != nil {
				sortErr = err
				return false
			}
			return r.Truthy()
		})
		if sortErr != nil {
			return jvar.Var{}, sortErr
		}
		if targetNode, ok := argNode(param, 0); ok {
			rebindIfVariable(targetNode, ctx, detached)
		}
		return detached, nil
	case "filter":
		var out []jvar.Var
		for _, it := range items {
			r, err := predicate(it)
			if err != nil {
				return jvar.Var{}, err
			}
			if r.Truthy() {
				out = append(out, it)
			}
		}
		return jvar.List(out...), nil
	case "transform":
		out := make([]jvar.Var, len(items))
		for i, it := range items {
			r, err := predicate(it)
			if err != nil {
				return jvar.Var{}, err
			}
			out[i] = r
		}
		return jvar.List(out...), nil
	case "any_of", "all_of", "none_of":
		for _, it := range items {
			r, err := predicate(it)
			if err != nil {
				return jvar.Var{}, err
			}
			switch fn {
			case "any_of":
				if r.Truthy() {
					return jvar.Bool(true), nil
				}
			case "all_of":
				if !r.Truthy() {
					return jvar.Bool(false), nil
				}
			case "none_of":
				if r.Truthy() {
					return jvar.Bool(false), nil
				}
			}
		}
		return jvar.Bool(fn != "any_of"), nil
	case "count_if":
		n := 0
		for _, it := range items {
			r, err := predicate(it)
			if err != nil {
				return jvar.Var{}, err
			}
			if r.Truthy() {
				n++
			}
		}
		return jvar.Int(int64(n)), nil
	default:
		return jvar.Var{}, jerrors.FunctionNotFound("alg has no function %q", fn)
	}
}
