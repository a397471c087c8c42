package modules

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sepcon/go-jas/internal/ast"
	"github.com/sepcon/go-jas/internal/evalctx"
	"github.com/sepcon/go-jas/internal/jerrors"
	"github.com/sepcon/go-jas/internal/jvar"
)

// cifModule implements the "(no module / cif)" built-in function set
// spec.md §6 lists: time helpers, case conversion, version comparison,
// generic predicates, and a debug pass-through. Functions here are
// reachable both as "@cif.<name>" and as the bare "@<name>": the
// translator binds a bare name to cif (its default module) before
// looking at any other module, so cif wins even when another module
// also has the name.
type cifModule struct {
	lower cases.Caser
	upper cases.Caser
}

func newCifModule() *cifModule {
	return &cifModule{
		lower: cases.Lower(language.Und),
		upper: cases.Upper(language.Und),
	}
}

func (cifModule) Name() string { return "cif" }

var cifFuncs = []string{
	"current_time", "current_time_diff", "tolower", "toupper",
	"cmp_ver", "eq_ver", "lt_ver", "gt_ver", "le_ver", "ge_ver", "ne_ver", "match_ver",
	"contains", "to_string", "unix_timestamp", "has_null_val", "len",
	"is_even", "is_odd", "empty", "not_empty", "abs", "range", "cdebug",
}

func (cifModule) Has(fn string) bool {
	for _, f := range cifFuncs {
		if f == fn {
			return true
		}
	}
	return false
}

func (cifModule) Enumerate() []string { return cifFuncs }

func (m *cifModule) Eval(fn string, param ast.Evaluable, ctx evalctx.Context, ev Evaluator) (jvar.Var, error) {
	args, err := evalArgs(param, ctx, ev)
	if err != nil {
		return jvar.Var{}, err
	}
	switch fn {
	case "current_time":
		return jvar.Int(time.Now().Unix()), nil
	case "current_time_diff":
		if len(args) < 1 {
			return jvar.Var{}, jerrors.InvalidArgument("current_time_diff requires a unix timestamp argument")
		}
		return jvar.Int(time.Now().Unix() - args[0].Int64Value()), nil
	case "tolower":
		if len(args) < 1 {
			return jvar.Var{}, jerrors.InvalidArgument("tolower requires a string argument")
		}
		return jvar.Str(m.lower.String(args[0].StrValue())), nil
	case "toupper":
		if len(args) < 1 {
			return jvar.Var{}, jerrors.InvalidArgument("toupper requires a string argument")
		}
		return jvar.Str(m.upper.String(args[0].StrValue())), nil
	case "cmp_ver", "eq_ver", "lt_ver", "gt_ver", "le_ver", "ge_ver", "ne_ver", "match_ver":
		return evalVersionCompare(fn, args)
	case "contains":
		return evalContains(args)
	case "to_string":
		if len(args) < 1 {
			return jvar.Var{}, jerrors.InvalidArgument("to_string requires an argument")
		}
		return jvar.Str(args[0].String()), nil
	case "unix_timestamp":
		if len(args) < 1 {
			return jvar.Int(time.Now().Unix()), nil
		}
		t, err := time.Parse(time.RFC3339, args[0].StrValue())
		if err != nil {
			return jvar.Var{}, jerrors.InvalidArgument("unix_timestamp: %v", err)
		}
		return jvar.Int(t.Unix()), nil
	case "has_null_val":
		if len(args) < 1 {
			return jvar.Var{}, jerrors.InvalidArgument("has_null_val requires an argument")
		}
		return jvar.Bool(hasNullVal(args[0])), nil
	case "len":
		if len(args) < 1 {
			return jvar.Var{}, jerrors.InvalidArgument("len requires an argument")
		}
		return jvar.Int(int64(args[0].Len())), nil
	case "is_even", "is_odd":
		if len(args) < 1 || !args[0].IsNumeric() {
			return jvar.Var{}, jerrors.InvalidArgument("%s requires a numeric argument", fn)
		}
		even := args[0].Int64Value()%2 == 0
		if fn == "is_odd" {
			return jvar.Bool(!even), nil
		}
		return jvar.Bool(even), nil
	case "empty", "not_empty":
		if len(args) < 1 {
			return jvar.Var{}, jerrors.InvalidArgument("%s requires an argument", fn)
		}
		empty := args[0].IsNull() || args[0].Len() == 0
		if fn == "not_empty" {
			return jvar.Bool(!empty), nil
		}
		return jvar.Bool(empty), nil
	case "abs":
		if len(args) < 1 {
			return jvar.Var{}, jerrors.InvalidArgument("abs requires a numeric argument")
		}
		n, err := args[0].AsNumber()
		if err != nil {
			return jvar.Var{}, err
		}
		if n.Float() < 0 {
			return jvar.FromNumber(n.Neg()), nil
		}
		return jvar.FromNumber(n), nil
	case "range":
		return evalRange(args)
	case "cdebug":
		if len(args) < 1 {
			return jvar.Var{}, jerrors.InvalidArgument("cdebug requires an argument")
		}
		slog.Debug("cdebug", "value", args[0].String())
		return args[0], nil
	default:
		return jvar.Var{}, jerrors.FunctionNotFound("cif has no function %q", fn)
	}
}

func hasNullVal(v jvar.Var) bool {
	switch v.Kind() {
	case jvar.KindNull:
		return true
	case jvar.KindList:
		items, _ := v.Items()
		for _, it := range items {
			if hasNullVal(it) {
				return true
			}
		}
	case jvar.KindDict:
		keys, _ := v.Keys()
		for _, k := range keys {
			fv, _, _ := v.Field(k)
			if hasNullVal(fv) {
				return true
			}
		}
	}
	return false
}

func evalContains(args []jvar.Var) (jvar.Var, error) {
	if len(args) < 2 {
		return jvar.Var{}, jerrors.InvalidArgument("contains requires [haystack, needle]")
	}
	haystack, needle := args[0], args[1]
	switch haystack.Kind() {
	case jvar.KindString:
		return jvar.Bool(strings.Contains(haystack.StrValue(), needle.StrValue())), nil
	case jvar.KindList:
		items, _ := haystack.Items()
		for _, it := range items {
			if jvar.Equal(it, needle) {
				return jvar.Bool(true), nil
			}
		}
		return jvar.Bool(false), nil
	case jvar.KindDict:
		_, ok, err := haystack.Field(needle.StrValue())
		if err != nil {
			return jvar.Var{}, err
		}
		return jvar.Bool(ok), nil
	default:
		return jvar.Var{}, jerrors.InvalidArgument("contains is not defined for %s", haystack.Kind())
	}
}

func evalRange(args []jvar.Var) (jvar.Var, error) {
	if len(args) < 2 {
		return jvar.Var{}, jerrors.InvalidArgument("range requires [start, end, step?]")
	}
	start, end := args[0].Int64Value(), args[1].Int64Value()
	step := int64(1)
	if len(args) > 2 {
		step = args[2].Int64Value()
	}
	if step == 0 {
		return jvar.Var{}, jerrors.InvalidArgument("range step must not be zero")
	}
	var out []jvar.Var
	if step > 0 {
		for i := start; i < end; i += step {
			out = append(out, jvar.Int(i))
		}
	} else {
		for i := start; i > end; i += step {
			out = append(out, jvar.Int(i))
		}
	}
	return jvar.List(out...), nil
}

// compareVersions compares two dot-separated version strings: a version
// with fewer pieces sorts first, and otherwise pieces are compared in
// order, numerically when both sides parse as integers and
// lexicographically otherwise (spec.md §6).
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	if len(as) != len(bs) {
		if len(as) < len(bs) {
			return -1
		}
		return 1
	}
	for i := range as {
		ai, aerr := strconv.Atoi(as[i])
		bi, berr := strconv.Atoi(bs[i])
		if aerr == nil && berr == nil {
			switch {
			case ai < bi:
				return -1
			case ai > bi:
				return 1
			default:
				continue
			}
		}
		switch {
		case as[i] < bs[i]:
			return -1
		case as[i] > bs[i]:
			return 1
		}
	}
	return 0
}

func evalVersionCompare(fn string, args []jvar.Var) (jvar.Var, error) {
	if len(args) < 2 {
		return jvar.Var{}, jerrors.InvalidArgument("%s requires [versionA, versionB]", fn)
	}
	c := compareVersions(args[0].StrValue(), args[1].StrValue())
	switch fn {
	case "cmp_ver":
		return jvar.Int(int64(c)), nil
	case "eq_ver", "match_ver":
		return jvar.Bool(c == 0), nil
	case "ne_ver":
		return jvar.Bool(c != 0), nil
	case "lt_ver":
		return jvar.Bool(c < 0), nil
	case "le_ver":
		return jvar.Bool(c <= 0), nil
	case "gt_ver":
		return jvar.Bool(c > 0), nil
	case "ge_ver":
		return jvar.Bool(c >= 0), nil
	default:
		return jvar.Var{}, jerrors.FunctionNotFound("cif has no function %q", fn)
	}
}
