// Package evalctx implements EvalContext, the scope/argument-stack/function
// dispatch object the evaluator threads through every recursive Eval call
// (spec.md §3). BaseContext is a direct generalisation of the teacher's
// call-stack frame (internal/interp/evaluator/callstack.go): a
// parent-linked chain of variable scopes, here extended with the
// positional/named argument stack macro and function invocations need.
package evalctx

import (
	"fmt"
	"sync/atomic"

	"github.com/sepcon/go-jas/internal/jvar"
)

// Context is the interface the evaluator, translator-produced function
// invocations, and built-in modules see. A concrete function invocation
// creates a child Context via NewChild before evaluating its body, so
// variables it declares do not leak into the caller's scope.
type Context interface {
	// ID identifies this context in a backtrace frame.
	ID() string

	// GetVariable resolves name by walking the parent chain, matching the
	// original engine's "search enclosing scopes outward" rule.
	GetVariable(name string) (jvar.Var, bool)

	// PutVariable binds name in THIS context (never a parent), sharing
	// val's storage so concurrent aliases observe mutation via Ref/COW.
	PutVariable(name string, val jvar.Var)

	// SetVariable updates name in whichever context up the chain actually
	// owns the binding, leaving it there rather than shadowing it in the
	// current scope. It reports false when no context in the chain has
	// bound name yet.
	SetVariable(name string, val jvar.Var) bool

	// Parent returns the enclosing context, or nil at the root.
	Parent() Context

	// Depth reports how many NewChild calls separate this context from the
	// root, letting the evaluator guard against unbounded recursion (e.g. a
	// self-referential macro) without relying on the Go call stack itself.
	Depth() int

	// Root walks to the outermost context, the target of "$.path" queries.
	Root() Context

	// NewChild returns a fresh scope whose Parent is this context.
	NewChild() Context

	// Args exposes the full positional argument list for the current
	// function/macro invocation bound to this context.
	Args() []jvar.Var

	// Arg returns the i-th positional argument (0-based).
	Arg(i int) (jvar.Var, bool)

	// NamedArg returns a "$$name"-style named argument.
	NamedArg(name string) (jvar.Var, bool)

	// PushArgs binds the argument list/map an invocation was called with.
	PushArgs(positional []jvar.Var, named map[string]jvar.Var)

	// Macro looks up a named macro body registered on this chain.
	Macro(name string) (jvar.Var, bool)

	// PutMacro registers a macro body visible to this context and its
	// children.
	PutMacro(name string, body jvar.Var)
}

var contextSeq int64

func nextContextID() string {
	n := atomic.AddInt64(&contextSeq, 1)
	return fmt.Sprintf("ctx#%d", n)
}

// BaseContext is the default Context implementation: a mutable variable
// map, an optional parent, and an argument/macro frame, mirroring the
// teacher's callFrame struct but generalised past a single function call.
type BaseContext struct {
	id        string
	parent    Context
	depth     int
	vars      map[string]jvar.Var
	macros    map[string]jvar.Var
	posArgs   []jvar.Var
	namedArgs map[string]jvar.Var
}

// NewRoot creates a parentless context, the one a top-level Evaluate call
// starts from.
func NewRoot() *BaseContext {
	return &BaseContext{id: "root", vars: map[string]jvar.Var{}}
}

func (c *BaseContext) ID() string { return c.id }

func (c *BaseContext) Depth() int { return c.depth }

func (c *BaseContext) GetVariable(name string) (jvar.Var, bool) {
	for ctx := Context(c); ctx != nil; ctx = ctx.Parent() {
		if bc, ok := ctx.(*BaseContext); ok {
			if v, found := bc.vars[name]; found {
				return v, true
			}
			continue
		}
		// Non-*BaseContext Context (e.g. HistoricalEvalContext) owns its
		// own lookup; defer entirely to it for this link of the chain.
		return ctx.GetVariable(name)
	}
	return jvar.Var{}, false
}

func (c *BaseContext) PutVariable(name string, val jvar.Var) {
	if c.vars == nil {
		c.vars = map[string]jvar.Var{}
	}
	c.vars[name] = val.Share()
}

func (c *BaseContext) SetVariable(name string, val jvar.Var) bool {
	for ctx := Context(c); ctx != nil; ctx = ctx.Parent() {
		bc, ok := ctx.(*BaseContext)
		if !ok {
			return ctx.SetVariable(name, val)
		}
		if _, found := bc.vars[name]; found {
			bc.vars[name] = val.Share()
			return true
		}
	}
	return false
}

func (c *BaseContext) Parent() Context { return c.parent }

func (c *BaseContext) Root() Context {
	var ctx Context = c
	for ctx.Parent() != nil {
		ctx = ctx.Parent()
	}
	return ctx
}

func (c *BaseContext) NewChild() Context {
	return &BaseContext{
		id:     nextContextID(),
		parent: c,
		depth:  c.depth + 1,
		vars:   map[string]jvar.Var{},
	}
}

func (c *BaseContext) Args() []jvar.Var { return c.posArgs }

func (c *BaseContext) Arg(i int) (jvar.Var, bool) {
	if i < 0 || i >= len(c.posArgs) {
		return jvar.Var{}, false
	}
	return c.posArgs[i], true
}

func (c *BaseContext) NamedArg(name string) (jvar.Var, bool) {
	v, ok := c.namedArgs[name]
	return v, ok
}

func (c *BaseContext) PushArgs(positional []jvar.Var, named map[string]jvar.Var) {
	c.posArgs = positional
	c.namedArgs = named
}

func (c *BaseContext) Macro(name string) (jvar.Var, bool) {
	for ctx := Context(c); ctx != nil; ctx = ctx.Parent() {
		bc, ok := ctx.(*BaseContext)
		if !ok {
			return ctx.Macro(name)
		}
		if v, found := bc.macros[name]; found {
			return v, true
		}
	}
	return jvar.Var{}, false
}

func (c *BaseContext) PutMacro(name string, body jvar.Var) {
	if c.macros == nil {
		c.macros = map[string]jvar.Var{}
	}
	c.macros[name] = body
}
