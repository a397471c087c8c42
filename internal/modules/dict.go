package modules

import (
	"github.com/sepcon/go-jas/internal/ast"
	"github.com/sepcon/go-jas/internal/evalctx"
	"github.com/sepcon/go-jas/internal/jerrors"
	"github.com/sepcon/go-jas/internal/jpath"
	"github.com/sepcon/go-jas/internal/jvar"
)

// dictModule implements spec.md §6's "dict" built-in set: update, erase,
// clear, keys, values, get, get_path, exists, contains, size, is_empty.
// Mutating functions mirror listModule's detach-then-rebind pattern.
type dictModule struct{}

func newDictModule() *dictModule { return &dictModule{} }

func (dictModule) Name() string { return "dict" }

var dictFuncs = []string{"update", "erase", "clear", "keys", "values", "get", "get_path", "exists", "contains", "size", "is_empty"}

func (dictModule) Has(fn string) bool {
	for _, f := range dictFuncs {
		if f == fn {
			return true
		}
	}
	return false
}

func (dictModule) Enumerate() []string { return dictFuncs }

func (m dictModule) Eval(fn string, param ast.Evaluable, ctx evalctx.Context, ev Evaluator) (jvar.Var, error) {
	switch fn {
	case "update":
		return m.mutate(param, ctx, ev, func(v jvar.Var, args []jvar.Var) (jvar.Var, error) {
			if len(args) < 2 {
				return jvar.Var{}, jerrors.InvalidArgument("dict.update requires [dict, other]")
			}
			keys, err := args[1].Keys()
			if err != nil {
				return jvar.Var{}, err
			}
			for _, k := range keys {
				val, _, _ := args[1].Field(k)
				v.SetFieldInPlace(k, val)
			}
			return v, nil
		})
	case "erase":
		return m.mutate(param, ctx, ev, func(v jvar.Var, args []jvar.Var) (jvar.Var, error) {
			if len(args) < 2 {
				return jvar.Var{}, jerrors.InvalidArgument("dict.erase requires [dict, key]")
			}
			v.DeleteFieldInPlace(args[1].StrValue())
			return v, nil
		})
	case "clear":
		return m.mutate(param, ctx, ev, func(v jvar.Var, _ []jvar.Var) (jvar.Var, error) {
			keys, _ := v.Keys()
			for _, k := range append([]string{}, keys...) {
				v.DeleteFieldInPlace(k)
			}
			return v, nil
		})
	case "get":
		args, err := evalArgs(param, ctx, ev)
		if err != nil {
			return jvar.Var{}, err
		}
		if len(args) < 2 {
			return jvar.Var{}, jerrors.InvalidArgument("dict.get requires [dict, key]")
		}
		val, ok, err := args[0].Field(args[1].StrValue())
		if err != nil {
			return jvar.Var{}, err
		}
		if !ok {
			if len(args) > 2 {
				return args[2], nil
			}
			return jvar.Null(), nil
		}
		return val, nil
	case "get_path":
		args, err := evalArgs(param, ctx, ev)
		if err != nil {
			return jvar.Var{}, err
		}
		if len(args) < 2 {
			return jvar.Var{}, jerrors.InvalidArgument("dict.get_path requires [dict, path]")
		}
		cur := args[0]
		for _, part := range jpath.Split(args[1].StrValue()) {
			if cur.Kind() != jvar.KindDict {
				return jvar.Null(), nil
			}
			val, ok, err := cur.Field(part)
			if err != nil {
				return jvar.Var{}, err
			}
			if !ok {
				return jvar.Null(), nil
			}
			cur = val
		}
		return cur, nil
	case "exists":
		args, err := evalArgs(param, ctx, ev)
		if err != nil {
			return jvar.Var{}, err
		}
		if len(args) < 2 {
			return jvar.Var{}, jerrors.InvalidArgument("dict.exists requires [dict, key]")
		}
		_, ok, err := args[0].Field(args[1].StrValue())
		if err != nil {
			return jvar.Var{}, err
		}
		return jvar.Bool(ok), nil
	case "contains":
		args, err := evalArgs(param, ctx, ev)
		if err != nil {
			return jvar.Var{}, err
		}
		if len(args) < 2 {
			return jvar.Var{}, jerrors.InvalidArgument("dict.contains requires [dict, value]")
		}
		keys, err := args[0].Keys()
		if err != nil {
			return jvar.Var{}, err
		}
		for _, k := range keys {
			val, _, _ := args[0].Field(k)
			if jvar.Equal(val, args[1]) {
				return jvar.Bool(true), nil
			}
		}
		return jvar.Bool(false), nil
	case "keys":
		args, err := evalArgs(param, ctx, ev)
		if err != nil {
			return jvar.Var{}, err
		}
		if len(args) < 1 {
			return jvar.Var{}, jerrors.InvalidArgument("dict.keys requires a dict argument")
		}
		keys, err := args[0].Keys()
		if err != nil {
			return jvar.Var{}, err
		}
		items := make([]jvar.Var, len(keys))
		for i, k := range keys {
			items[i] = jvar.Str(k)
		}
		return jvar.List(items...), nil
	case "values":
		args, err := evalArgs(param, ctx, ev)
		if err != nil {
			return jvar.Var{}, err
		}
		if len(args) < 1 {
			return jvar.Var{}, jerrors.InvalidArgument("dict.values requires a dict argument")
		}
		keys, err := args[0].Keys()
		if err != nil {
			return jvar.Var{}, err
		}
		items := make([]jvar.Var, len(keys))
		for i, k := range keys {
			items[i], _, _ = args[0].Field(k)
		}
		return jvar.List(items...), nil
	case "size":
		args, err := evalArgs(param, ctx, ev)
		if err != nil {
			return jvar.Var{}, err
		}
		if len(args) < 1 {
			return jvar.Var{}, jerrors.InvalidArgument("dict.size requires a dict argument")
		}
		return jvar.Int(int64(args[0].Len())), nil
	case "is_empty":
		args, err := evalArgs(param, ctx, ev)
		if err != nil {
			return jvar.Var{}, err
		}
		if len(args) < 1 {
			return jvar.Var{}, jerrors.InvalidArgument("dict.is_empty requires a dict argument")
		}
		return jvar.Bool(args[0].Len() == 0), nil
	default:
		return jvar.Var{}, jerrors.FunctionNotFound("dict has no function %q", fn)
	}
}

func (dictModule) mutate(param ast.Evaluable, ctx evalctx.Context, ev Evaluator, fn func(jvar.Var, []jvar.Var) (jvar.Var, error)) (jvar.Var, error) {
	args, err := evalArgs(param, ctx, ev)
	if err != nil {
		return jvar.Var{}, err
	}
	if len(args) < 1 {
		return jvar.Var{}, jerrors.InvalidArgument("dict mutation requires a dict as the first argument")
	}
	detached, err := args[0].DetachDict()
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
