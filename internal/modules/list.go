package modules

import (
	"github.com/sepcon/go-jas/internal/ast"
	"github.com/sepcon/go-jas/internal/evalctx"
	"github.com/sepcon/go-jas/internal/jerrors"
	"github.com/sepcon/go-jas/internal/jvar"
)

// listModule implements spec.md §6's "list" built-in set: append, extend,
// remove, insert, sort, count, unique, len, pop. Mutating functions
// detach-before-write per the Var copy-on-write contract (spec.md §4.1,
// §5) and rebind their first argument's variable so the mutation is
// observable to later reads of it.
type listModule struct{}

func newListModule() *listModule { return &listModule{} }

func (listModule) Name() string { return "list" }

var listFuncs = []string{"append", "extend", "remove", "insert", "sort", "count", "unique", "len", "pop"}

func (listModule) Has(fn string) bool {
	for _, f := range listFuncs {
		if f == fn {
			return true
		}
	}
	return false
}

func (listModule) Enumerate() []string { return listFuncs }

func (m listModule) Eval(fn string, param ast.Evaluable, ctx evalctx.Context, ev Evaluator) (jvar.Var, error) {
	switch fn {
	case "append":
		return m.mutate(param, ctx, ev, func(v jvar.Var, args []jvar.Var) (jvar.Var, error) {
			if len(args) < 2 {
				return jvar.Var{}, jerrors.InvalidArgument("list.append requires [list, value]")
			}
			v.AppendInPlace(args[1])
			return v, nil
		})
	case "extend":
		return m.mutate(param, ctx, ev, func(v jvar.Var, args []jvar.Var) (jvar.Var, error) {
			if len(args) < 2 {
				return jvar.Var{}, jerrors.InvalidArgument("list.extend requires [list, otherList]")
			}
			items, err := args[1].Items()
			if err != nil {
				return jvar.Var{}, err
			}
			for _, it := range items {
				v.AppendInPlace(it)
			}
			return v, nil
		})
	case "insert":
		return m.mutate(param, ctx, ev, func(v jvar.Var, args []jvar.Var) (jvar.Var, error) {
			if len(args) < 3 {
				return jvar.Var{}, jerrors.InvalidArgument("list.insert requires [list, index, value]")
			}
			idx := int(args[1].Int64Value())
			before, _ := v.Items()
			if idx < 0 || idx > len(before) {
				return jvar.Var{}, jerrors.OutOfRange("insert index %d out of range for length %d", idx, len(before))
			}
			v.AppendInPlace(jvar.Null())
			items, _ := v.Items()
			copy(items[idx+1:], items[idx:])
			items[idx] = args[2]
			return v, nil
		})
	case "remove":
		return m.mutate(param, ctx, ev, func(v jvar.Var, args []jvar.Var) (jvar.Var, error) {
			if len(args) < 2 {
				return jvar.Var{}, jerrors.InvalidArgument("list.remove requires [list, value]")
			}
			items, _ := v.Items()
			for i, it := range items {
				if jvar.Equal(it, args[1]) {
					_ = v.RemoveAtInPlace(i)
					break
				}
			}
			return v, nil
		})
	case "sort":
		return m.mutate(param, ctx, ev, func(v jvar.Var, _ []jvar.Var) (jvar.Var, error) {
			items, _ := v.Items()
			var sortErr error
			insertionSort(items, func(a, b jvar.Var) bool {
				if sortErr != nil {
					return false
				}
				c, err := jvar.Compare(a, b)
				if err != nil {
					sortErr = err
					return false
				}
				return c < 0
			})
			return v, sortErr
		})
	case "unique":
		return m.mutate(param, ctx, ev, func(v jvar.Var, _ []jvar.Var) (jvar.Var, error) {
			items, _ := v.Items()
			var out []jvar.Var
			for _, it := range items {
				dup := false
				for _, seen := range out {
					if jvar.Equal(it, seen) {
						dup = true
						break
					}
				}
				if !dup {
					out = append(out, it)
				}
			}
			for len(items) > 0 {
				_ = v.RemoveAtInPlace(0)
				items, _ = v.Items()
			}
			for _, it := range out {
				v.AppendInPlace(it)
			}
			return v, nil
		})
	case "pop":
		return m.mutate(param, ctx, ev, func(v jvar.Var, args []jvar.Var) (jvar.Var, error) {
			items, _ := v.Items()
			if len(items) == 0 {
				return jvar.Var{}, jerrors.OutOfRange("pop from an empty list")
			}
			idx := len(items) - 1
			if len(args) > 1 {
				idx = int(args[1].Int64Value())
			}
			popped, err := v.At(idx)
			if err != nil {
				return jvar.Var{}, err
			}
			if err := v.RemoveAtInPlace(idx); err != nil {
				return jvar.Var{}, err
			}
			return popped, nil
		})
	case "count":
		args, err := evalArgs(param, ctx, ev)
		if err != nil {
			return jvar.Var{}, err
		}
		if len(args) < 2 {
			return jvar.Var{}, jerrors.InvalidArgument("list.count requires [list, value]")
		}
		items, err := args[0].Items()
		if err != nil {
			return jvar.Var{}, err
		}
		n := 0
		for _, it := range items {
			if jvar.Equal(it, args[1]) {
				n++
			}
		}
		return jvar.Int(int64(n)), nil
	case "len":
		args, err := evalArgs(param, ctx, ev)
		if err != nil {
			return jvar.Var{}, err
		}
		if len(args) < 1 {
			return jvar.Var{}, jerrors.InvalidArgument("list.len requires a list argument")
		}
		return jvar.Int(int64(args[0].Len())), nil
	default:
		return jvar.Var{}, jerrors.FunctionNotFound("list has no function %q", fn)
	}
}

// mutate evaluates param's arguments, detaches the first (the target
// list) for exclusive ownership, applies fn, and rebinds the target's
// variable if it is one. "pop" returns the popped element rather than the
// list itself but still needs the same detach+rebind dance, so it flows
// through here too; its caller reads the return value, not the rebound
// variable, for the result.
func (listModule) mutate(param ast.Evaluable, ctx evalctx.Context, ev Evaluator, fn func(jvar.Var, []jvar.Var) (jvar.Var, error)) (jvar.Var, error) {
	args, err := evalArgs(param, ctx, ev)
	if err != nil {
		return jvar.Var{}, err
	}
	if len(args) < 1 {
		return jvar.Var{}, jerrors.InvalidArgument("list mutation requires a list as the first argument")
	}
	detached, err := args[0].DetachList()
	if err != nil {
		return jvar.Var{}, err
	}
	args[0] = detached
	result, err := fn(detached, args)
	if err != nil {
		return jvar.Var{}, err
	}
	if targetNode, ok := argNode(param, 0); ok {
		rebindIfVariable(targetNode, ctx, detached)
	}
	return result, nil
}

// insertionSort is a stable in-place sort; rule-authoring-sized lists
// make the O(n^2) cost irrelevant.
func insertionSort(items []jvar.Var, less func(a, b jvar.Var) bool) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && less(items[j], items[j-1]); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}
