// Package modules implements FunctionModule and ModuleManager (spec.md
// §6): the registry of named function groups a "@module.func" invocation
// dispatches through, plus the four built-in module sets — cif, list,
// dict, alg — the engine ships. It is grounded on the original engine's
// FunctionModule/ModuleManager headers (original_source's
// include/jas/FunctionModule.h, include/jas/ModuleManager.h): a module
// exposes Has/Enumerate/Eval, and the manager is just a name-keyed lookup
// over registered modules with no special-casing of any one of them.
package modules

import (
	"sort"

	"github.com/sepcon/go-jas/internal/ast"
	"github.com/sepcon/go-jas/internal/evalctx"
	"github.com/sepcon/go-jas/internal/jerrors"
	"github.com/sepcon/go-jas/internal/jvar"
)

// Evaluator is the narrow slice of the evaluator a module function needs:
// the ability to evaluate an arbitrary sub-tree against a context. Modules
// depend on this interface, not the concrete evaluator type, so the
// evaluator package can depend on modules without an import cycle.
type Evaluator interface {
	Eval(node ast.Evaluable, ctx evalctx.Context) (jvar.Var, error)
}

// Module is one named function group ("list", "dict", "cif", "alg", or a
// user-registered one embedding the engine).
type Module interface {
	Name() string
	Has(fn string) bool
	Enumerate() []string
	Eval(fn string, param ast.Evaluable, ctx evalctx.Context, ev Evaluator) (jvar.Var, error)
}

// Manager is the registry ModuleFI nodes dispatch through.
type Manager struct {
	modules map[string]Module
}

// NewManager returns a Manager pre-populated with the four built-in
// modules (cif, list, dict, alg).
func NewManager() *Manager {
	m := &Manager{modules: map[string]Module{}}
	for _, mod := range []Module{newCifModule(), newListModule(), newDictModule(), newAlgModule()} {
		m.Register(mod)
	}
	return m
}

// Register adds or replaces a module, letting a host application extend
// the engine with its own function groups.
func (m *Manager) Register(mod Module) {
	m.modules[mod.Name()] = mod
}

// Has reports whether moduleName exposes fn. An empty moduleName checks
// every registered module.
func (m *Manager) Has(moduleName, fn string) bool {
	if moduleName != "" {
		mod, ok := m.modules[moduleName]
		return ok && mod.Has(fn)
	}
	for _, mod := range m.modules {
		if mod.Has(fn) {
			return true
		}
	}
	return false
}

// Enumerate lists every "module.func" name across all registered modules,
// sorted for deterministic output (used by the translator to find which
// modules claim a bare function name).
func (m *Manager) Enumerate() []string {
	var out []string
	for name, mod := range m.modules {
		for _, fn := range mod.Enumerate() {
			out = append(out, name+"."+fn)
		}
	}
	sort.Strings(out)
	return out
}

// Eval dispatches fn to moduleName, or — when moduleName is empty —
// searches every registered module for the first one exposing fn, so
// callers may write "@append" instead of "@list.append" when no other
// module shadows the name.
func (m *Manager) Eval(moduleName, fn string, param ast.Evaluable, ctx evalctx.Context, ev Evaluator) (jvar.Var, error) {
	if moduleName != "" {
		mod, ok := m.modules[moduleName]
		if !ok {
			return jvar.Var{}, jerrors.FunctionNotFound("unknown module %q", moduleName)
		}
		if !mod.Has(fn) {
			return jvar.Var{}, jerrors.FunctionNotFound("module %q has no function %q", moduleName, fn)
		}
		return mod.Eval(fn, param, ctx, ev)
	}
	for _, mod := range m.modules {
		if mod.Has(fn) {
			return mod.Eval(fn, param, ctx, ev)
		}
	}
	return jvar.Var{}, jerrors.FunctionNotFound("no module exposes function %q", fn)
}

// evalArgs evaluates param as the argument list for a module call: an
// EvaluableList is evaluated element by element, and any other node is
// treated as a single-argument call (so "@abs: -3" and "@abs: [-3]" both
// work, matching the original engine's lenient single/array param rule).
func evalArgs(param ast.Evaluable, ctx evalctx.Context, ev Evaluator) ([]jvar.Var, error) {
	if param == nil {
		return nil, nil
	}
	if list, ok := param.(*ast.EvaluableList); ok {
		out := make([]jvar.Var, len(list.Elements))
		for i, el := range list.Elements {
			v, err := ev.Eval(el, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	v, err := ev.Eval(param, ctx)
	if err != nil {
		return nil, err
	}
	return []jvar.Var{v}, nil
}

// argNode returns the i-th unevaluated argument node of param, for module
// functions (list.append, dict.update, ...) that need the raw AST to detect
// a Variable target for in-place mutation.
func argNode(param ast.Evaluable, i int) (ast.Evaluable, bool) {
	if list, ok := param.(*ast.EvaluableList); ok {
		if i < 0 || i >= len(list.Elements) {
			return nil, false
		}
		return list.Elements[i], true
	}
	if i == 0 {
		return param, true
	}
	return nil, false
}

// rebindIfVariable writes val back into ctx under target's name when
// target resolves to a plain Variable reference, letting mutation-style
// module functions (list.append, dict.update) make their effect visible to
// every later read of that variable. Targets that are not bare Variable
// nodes (e.g. a list literal) simply don't get an observable rebinding;
// the mutated value is still returned to the caller.
func rebindIfVariable(node ast.Evaluable, ctx evalctx.Context, val jvar.Var) {
	v, ok := node.(*ast.Variable)
	if !ok {
		return
	}
	ctx.SetVariable(v.Name, val)
}
