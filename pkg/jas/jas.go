// Package jas is the public facade over the engine: spec.md §6's external
// interface, "evaluate(expression, context) -> Var" plus the split pair
// "translate(expression) -> AST", "evaluate(ast, context) -> Var" for
// reusable ASTs. A host application embedding go-jas imports only this
// package; internal/* stays an implementation detail, the same boundary the
// teacher draws between its internal/interp engine and anything a caller of
// the module is meant to touch directly.
package jas

import (
	"github.com/sepcon/go-jas/internal/ast"
	"github.com/sepcon/go-jas/internal/config"
	"github.com/sepcon/go-jas/internal/evalctx"
	"github.com/sepcon/go-jas/internal/evaluator"
	"github.com/sepcon/go-jas/internal/jvar"
	"github.com/sepcon/go-jas/internal/modules"
	"github.com/sepcon/go-jas/internal/translator"
	"github.com/sepcon/go-jas/internal/validator"
)

// Var is the dynamic value every evaluation produces; re-exported so a
// caller never has to import internal/jvar directly.
type Var = jvar.Var

// Context is the scope/argument/function-dispatch object Evaluate threads
// through the tree; re-exported the same way Var is.
type Context = evalctx.Context

// AST is a translated, reusable expression tree, the product of Translate
// and the input to EvaluateAST.
type AST = ast.Evaluable

// Engine bundles a module registry with the translator/evaluator pair built
// on top of it, so a host can register its own modules once (via Modules)
// and reuse the same Engine across many Translate/Evaluate calls instead of
// rebuilding the pipeline per call.
type Engine struct {
	Modules    *modules.Manager
	translator *translator.Translator
	evaluator  *evaluator.Evaluator
}

// New returns an Engine wired with the four built-in modules (cif, list,
// dict, alg) and config.DefaultConfig's version/recursion-depth settings.
func New() *Engine {
	return NewWithConfig(config.Default())
}

// NewWithConfig is New, but taking an explicit Config (e.g. loaded via
// config.Load from a host-supplied YAML file) instead of the package
// default.
func NewWithConfig(cfg config.Config) *Engine {
	mgr := modules.NewManager()
	return &Engine{
		Modules:    mgr,
		translator: translator.NewWithVersion(mgr, cfg.EngineVersion),
		evaluator:  &evaluator.Evaluator{Modules: mgr, MaxDepth: cfg.MaxRecursionDepth},
	}
}

// Translate parses a JSON expression document into a reusable AST, without
// evaluating it.
func (e *Engine) Translate(expression []byte) (AST, error) {
	return e.translator.Translate(expression)
}

// EvaluateAST runs a previously translated AST against ctx.
func (e *Engine) EvaluateAST(tree AST, ctx Context) (Var, error) {
	return e.evaluator.Eval(tree, ctx)
}

// Evaluate translates and immediately evaluates expression against ctx, the
// one-shot form of Translate+EvaluateAST for callers with no reason to keep
// the AST around.
func (e *Engine) Evaluate(expression []byte, ctx Context) (Var, error) {
	tree, err := e.Translate(expression)
	if err != nil {
		return Var{}, err
	}
	return e.EvaluateAST(tree, ctx)
}

// Validate runs the syntax validator over an AST, producing its
// pseudo-syntax rendering and any structural issues found (spec.md §4.6).
func (e *Engine) Validate(tree AST) validator.Report {
	return validator.Validate(tree)
}

// NewRootContext returns a fresh, parentless evaluation context with no
// historical-snapshot comparison support — the context a one-off expression
// evaluation (no "@field"/"@snchg"/... context functions) should use.
func NewRootContext() Context {
	return evalctx.NewRoot()
}

// NewHistoricalContext returns a context exposing the field/snchg/evchg/...
// family (spec.md §4.5) comparing oldSnapshotJSON against newSnapshotJSON.
func NewHistoricalContext(oldSnapshotJSON, newSnapshotJSON string) *evalctx.HistoricalEvalContext {
	return evalctx.NewHistoricalContext(oldSnapshotJSON, newSnapshotJSON)
}

// Translate is the package-level convenience form of Engine.Translate,
// building a default Engine for one-off use.
func Translate(expression []byte) (AST, error) {
	return New().Translate(expression)
}

// Evaluate is the package-level convenience form of Engine.Evaluate.
func Evaluate(expression []byte, ctx Context) (Var, error) {
	return New().Evaluate(expression, ctx)
}
