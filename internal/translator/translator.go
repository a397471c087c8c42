// Package translator turns a JSON document (already decoded to Go's
// generic any/map[string]any/[]any/string/float64/bool/nil shape) into the
// ast.Evaluable tree the evaluator walks, implementing spec.md §4.3's
// translation pipeline: shorthand reconstruction, local-symbol extraction,
// operator/list-algorithm/function-invocation/variable-string/typed-literal
// recognition, macro resolution, and constant folding.
//
// It is grounded on the original engine's Translator (original_source's
// src/jas/Translator.cpp, include/jas/Translator.h): a single recursive
// descent over the decoded JSON tree, threading a scope chain for local
// variable and macro resolution exactly as that file does, reimplemented
// here as a normal Go recursive function over `any` instead of a
// visitor-dispatched class hierarchy.
package translator

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/sepcon/go-jas/internal/ast"
	"github.com/sepcon/go-jas/internal/jerrors"
	"github.com/sepcon/go-jas/internal/jvar"
	"github.com/sepcon/go-jas/internal/modules"
)

// FuncResolver is the slice of *modules.Manager the translator needs: does
// some module claim this bare function name, and if so does it belong to
// the conventional "no module" (cif) default.
type FuncResolver interface {
	Has(moduleName, fn string) bool
	Enumerate() []string
}

// Translator converts decoded JSON into an ast.Evaluable tree.
type Translator struct {
	modules FuncResolver
	// defaultModule is the module name bare "@func" specifiers try first,
	// mirroring the original engine's convention of a "no module" default
	// function set (cif.go's function table).
	defaultModule string
	// version is what a document's "$jas.version" gate is compared
	// against; defaults to EngineVersion but a host may pin an older line
	// via config.Config.EngineVersion and NewWithVersion.
	version string
}

// New returns a Translator resolving bare function names against mgr,
// trying the "cif" module first (spec.md §6's "no module" default set)
// before searching every other registered module.
func New(mgr *modules.Manager) *Translator {
	return NewWithVersion(mgr, EngineVersion)
}

// NewWithVersion is New with an explicit engine version to gate
// "$jas.version" documents against, for a host that loaded
// config.Config.EngineVersion from a YAML document instead of accepting
// the package default.
func NewWithVersion(mgr *modules.Manager, version string) *Translator {
	return &Translator{modules: mgr, defaultModule: "cif", version: version}
}

// scope is the translation-time lexical chain used only to resolve "@name"
// macro invocations to the body of the "!name" declaration in scope;
// distinct from the evaluator's runtime Context chain.
type scope struct {
	macros map[string]ast.Evaluable
	parent *scope
}

func (s *scope) lookup(name string) (ast.Evaluable, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if body, ok := cur.macros[name]; ok {
			return body, true
		}
	}
	return nil, false
}

// Translate parses raw JSON text and translates it into an Evaluable tree.
func (t *Translator) Translate(rawJSON []byte) (ast.Evaluable, error) {
	var decoded any
	if err := json.Unmarshal(rawJSON, &decoded); err != nil {
		return nil, jerrors.Syntax("malformed JSON: %v", err)
	}
	return t.TranslateValue(decoded)
}

// TranslateValue translates an already-decoded JSON value (as produced by
// encoding/json.Unmarshal into `any`).
func (t *Translator) TranslateValue(decoded any) (ast.Evaluable, error) {
	if root, ok := decoded.(map[string]any); ok {
		if raw, present := root[keywordVersion]; present {
			v, ok := raw.(string)
			if !ok {
				return nil, jerrors.Syntax("%s must be a string", keywordVersion)
			}
			if compareVersions(v, t.version) > 0 {
				return nil, jerrors.Syntax("document requires jas version %s, engine is %s", v, t.version)
			}
			rest := map[string]any{}
			for k, val := range root {
				if k != keywordVersion {
					rest[k] = val
				}
			}
			decoded = rest
		}
	}
	return t.translateValue(decoded, nil)
}

func (t *Translator) translateValue(raw any, sc *scope) (ast.Evaluable, error) {
	switch v := raw.(type) {
	case nil:
		return constOf(jvar.Null(), "null"), nil
	case bool:
		return constOf(jvar.Bool(v), strconv.FormatBool(v)), nil
	case float64:
		return t.translateNumber(v), nil
	case string:
		return t.translateString(v, sc)
	case []any:
		return t.translateList(v, sc)
	case map[string]any:
		return t.translateObject(v, sc)
	default:
		return nil, jerrors.Syntax("translator: unsupported JSON value type %T", raw)
	}
}

func (t *Translator) translateNumber(f float64) ast.Evaluable {
	if f == float64(int64(f)) {
		return constOf(jvar.Int(int64(f)), strconv.FormatInt(int64(f), 10))
	}
	return constOf(jvar.Double(f), strconv.FormatFloat(f, 'g', -1, 64))
}

func constOf(v jvar.Var, raw string) *ast.Constant {
	return &ast.Constant{Raw: raw, Value: v}
}

func (t *Translator) translateList(raw []any, sc *scope) (ast.Evaluable, error) {
	elems := make([]ast.Evaluable, len(raw))
	allConst := true
	for i, el := range raw {
		tr, err := t.translateValue(el, sc)
		if err != nil {
			return nil, err
		}
		elems[i] = tr
		if _, ok := tr.(*ast.Constant); !ok {
			allConst = false
		}
	}
	list := &ast.EvaluableList{Elements: elems}
	if allConst {
		return foldList(list), nil
	}
	return list, nil
}

func foldList(l *ast.EvaluableList) ast.Evaluable {
	items := make([]jvar.Var, len(l.Elements))
	for i, e := range l.Elements {
		items[i] = e.(*ast.Constant).Value.(jvar.Var)
	}
	return constOf(jvar.List(items...), (&ast.EvaluableList{Elements: l.Elements}).Syntax())
}

// translateObject is the heart of the pipeline: strip local-variable/macro
// keys, then decide whether what remains is an operator object, a
// list-algorithm object, a function invocation, or a plain dict.
func (t *Translator) translateObject(raw map[string]any, sc *scope) (ast.Evaluable, error) {
	locals, macroDefs, rest, err := splitLocals(raw)
	if err != nil {
		return nil, err
	}

	childScope := &scope{parent: sc, macros: map[string]ast.Evaluable{}}
	var localVars []ast.LocalVar
	for _, decl := range locals {
		init, err := t.translateValue(decl.value, childScope)
		if err != nil {
			return nil, err
		}
		localVars = append(localVars, ast.LocalVar{Name: decl.name, Init: init, Update: decl.update})
	}
	for name, val := range macroDefs {
		body, err := t.translateValue(val, childScope)
		if err != nil {
			return nil, err
		}
		childScope.macros[name] = body
	}

	var localScope *ast.LocalScope
	if len(localVars) > 0 || len(childScope.macros) > 0 {
		localScope = &ast.LocalScope{Variables: localVars, Macros: childScope.macros}
	}

	node, err := t.translateRemainder(rest, childScope)
	if err != nil {
		return nil, err
	}
	if localScope != nil {
		*node.Node() = ast.Node{ID: node.Node().ID, Locals: localScope}
		return node, nil
	}
	return node, nil
}

type localDecl struct {
	name   string
	value  any
	update bool
}

// splitLocals separates "$name"/"$+name" local-variable declarations and
// "!name" macro declarations from the remaining, structurally significant
// keys of an object (spec.md §4.3 pipeline step 1). "$jas.version" is
// handled by the caller before this is reached and "id"/specifier keys are
// left in rest for later steps.
func splitLocals(raw map[string]any) (locals []localDecl, macros map[string]any, rest map[string]any, err error) {
	macros = map[string]any{}
	rest = map[string]any{}
	for k, v := range raw {
		switch {
		case strings.HasPrefix(k, "$+"):
			locals = append(locals, localDecl{name: k[2:], value: v, update: true})
		case strings.HasPrefix(k, "$"):
			locals = append(locals, localDecl{name: k[1:], value: v})
		case strings.HasPrefix(k, "!"):
			macros[k[1:]] = v
		default:
			rest[k] = v
		}
	}
	sort.Slice(locals, func(i, j int) bool { return locals[i].name < locals[j].name })
	return locals, macros, rest, nil
}

// translateRemainder decides what the non-local keys of an object mean:
// an "id" tag plus exactly one specifier key, a bare specifier key alone,
// or — failing both — a plain EvaluableDict.
func (t *Translator) translateRemainder(rest map[string]any, sc *scope) (ast.Evaluable, error) {
	id, _ := rest["id"].(string)
	delete(rest, "id")

	if len(rest) == 1 {
		for k, v := range rest {
			if strings.HasPrefix(k, "@") {
				node, err := t.translateSpecifier(k, v, sc)
				if err != nil {
					return nil, err
				}
				node.Node().ID = id
				return node, nil
			}
		}
	}

	return t.translateDict(rest, id, sc)
}

func (t *Translator) translateDict(rest map[string]any, id string, sc *scope) (ast.Evaluable, error) {
	keys := make([]string, 0, len(rest))
	for k := range rest {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]ast.Evaluable, len(keys))
	allConst := true
	for i, k := range keys {
		v, err := t.translateValue(rest[k], sc)
		if err != nil {
			return nil, err
		}
		values[i] = v
		if _, ok := v.(*ast.Constant); !ok {
			allConst = false
		}
	}
	d := &ast.EvaluableDict{Keys: keys, Values: values}
	d.Node().ID = id
	if allConst && id == "" {
		dv := jvar.Dict()
		detached, _ := dv.DetachDict()
		for i, k := range keys {
			detached.SetFieldInPlace(k, values[i].(*ast.Constant).Value.(jvar.Var))
		}
		return constOf(detached, d.Syntax()), nil
	}
	return d, nil
}

// translateSpecifier dispatches a single "@..." key to the operator,
// list-algorithm or function invocation it names ("!..." keys never reach
// it; a macro invocation is a function name translateFunctionInvocation
// resolves to a macro in scope).
func (t *Translator) translateSpecifier(key string, rawParam any, sc *scope) (ast.Evaluable, error) {
	if key == keywordNoEval {
		v, err := jsonToVar(rawParam)
		if err != nil {
			return nil, err
		}
		return &ast.Constant{Value: v, Raw: "@noeval"}, nil
	}

	if op, ok := arithKeywords[key]; ok {
		return t.translateArith(op, rawParam, sc)
	}
	if op, ok := selfAssignKeywords[key]; ok {
		return t.translateSelfAssign(op, rawParam, sc)
	}
	if kind, ok := logicalKeywords[key]; ok {
		return t.translateLogical(kind, rawParam, sc)
	}
	if kind, ok := comparisonKeywords[key]; ok {
		return t.translateComparison(kind, rawParam, sc)
	}
	if kind, ok := listAlgoKeywords[key]; ok {
		return t.translateListAlgo(kind, rawParam, sc)
	}
	return t.translateFunctionInvocation(key[1:], rawParam, sc)
}

func (t *Translator) translateOperands(rawParam any, sc *scope) ([]ast.Evaluable, error) {
	arr, ok := rawParam.([]any)
	if !ok {
		single, err := t.translateValue(rawParam, sc)
		if err != nil {
			return nil, err
		}
		return []ast.Evaluable{single}, nil
	}
	out := make([]ast.Evaluable, len(arr))
	for i, el := range arr {
		v, err := t.translateValue(el, sc)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (t *Translator) translateArith(op ast.ArithKind, rawParam any, sc *scope) (ast.Evaluable, error) {
	operands, err := t.translateOperands(rawParam, sc)
	if err != nil {
		return nil, err
	}
	if op.IsUnary() && len(operands) != 1 {
		return nil, jerrors.Syntax("arithmetic operator %q takes exactly one operand", op.String())
	}
	if op.IsBinaryOnly() && len(operands) != 2 {
		return nil, jerrors.Syntax("arithmetic operator %q takes exactly two operands", op.String())
	}
	if !op.IsUnary() && !op.IsBinaryOnly() && len(operands) < 2 {
		return nil, jerrors.Syntax("arithmetic operator %q takes at least two operands", op.String())
	}
	return &ast.ArithmaticalOperator{Op: op, Operands: operands}, nil
}

func (t *Translator) translateSelfAssign(op ast.ArithKind, rawParam any, sc *scope) (ast.Evaluable, error) {
	operands, err := t.translateOperands(rawParam, sc)
	if err != nil {
		return nil, err
	}
	if len(operands) != 2 {
		return nil, jerrors.Syntax("self-assign operator %q takes exactly [target, value]", op.String())
	}
	target, ok := operands[0].(*ast.Variable)
	if !ok {
		return nil, jerrors.Syntax("self-assign operator %q target must be a variable", op.String())
	}
	return &ast.ArthmSelfAssignOperator{Op: op, Target: target, Rhs: operands[1]}, nil
}

func (t *Translator) translateLogical(kind ast.LogicalKind, rawParam any, sc *scope) (ast.Evaluable, error) {
	operands, err := t.translateOperands(rawParam, sc)
	if err != nil {
		return nil, err
	}
	if kind == ast.LogicalNot && len(operands) != 1 {
		return nil, jerrors.Syntax("@not takes exactly one operand")
	}
	if kind != ast.LogicalNot && len(operands) < 2 {
		return nil, jerrors.Syntax("logical operator takes at least two operands")
	}
	return &ast.LogicalOperator{Kind: kind, Operands: operands}, nil
}

func (t *Translator) translateComparison(kind ast.CompareKind, rawParam any, sc *scope) (ast.Evaluable, error) {
	operands, err := t.translateOperands(rawParam, sc)
	if err != nil {
		return nil, err
	}
	if len(operands) != 2 {
		return nil, jerrors.Syntax("comparison operator takes exactly two operands")
	}
	return &ast.ComparisonOperator{Kind: kind, Lhs: operands[0], Rhs: operands[1]}, nil
}

// translateListAlgo recognises both the "{@cond/@op, @list}" explicit form
// and the bare-predicate-with-implicit-list form, where the whole value is
// the predicate and List defaults to a ContextFI call to "field" (spec.md
// §4.3 pipeline step 3).
func (t *Translator) translateListAlgo(kind ast.ListAlgoKind, rawParam any, sc *scope) (ast.Evaluable, error) {
	obj, isObj := rawParam.(map[string]any)
	var condRaw, listRaw any
	var hasList bool
	if isObj {
		if c, ok := obj[keywordCond]; ok {
			condRaw = c
		} else if o, ok := obj[keywordOp]; ok {
			condRaw = o
		} else {
			condRaw = rawParam
		}
		if l, ok := obj[keywordList]; ok {
			listRaw, hasList = l, true
		}
	} else {
		condRaw = rawParam
	}

	cond, err := t.translateValue(condRaw, sc)
	if err != nil {
		return nil, err
	}
	var list ast.Evaluable
	if hasList {
		list, err = t.translateValue(listRaw, sc)
		if err != nil {
			return nil, err
		}
	} else {
		list = &ast.ContextFI{Func: "field", Param: &ast.Constant{Value: jvar.Str(""), Raw: `""`}}
	}
	return &ast.ListAlgorithm{Kind: kind, Cond: cond, List: list}, nil
}

// translateFunctionInvocation resolves a bare "@func"/"@module.func"
// specifier per spec.md §4.3 pipeline step 4's order: explicit module
// prefix, then known context function, then evaluator-reserved name, then
// the conventional default module, then exactly one claiming module, and
// finally a macro declared by an enclosing "!name" local scope.
func (t *Translator) translateFunctionInvocation(name string, rawParam any, sc *scope) (ast.Evaluable, error) {
	param, err := t.translateValue(rawParam, sc)
	if err != nil {
		return nil, err
	}

	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		return &ast.ModuleFI{Module: name[:dot], Func: name[dot+1:], Param: param}, nil
	}

	if knownContextFuncs[name] {
		return &ast.ContextFI{Func: name, Param: param}, nil
	}
	if evaluatorReservedFuncs[name] {
		return &ast.EvaluatorFI{Func: name, Param: param}, nil
	}
	if t.modules.Has(t.defaultModule, name) {
		return &ast.ModuleFI{Module: t.defaultModule, Func: name, Param: param}, nil
	}

	var claimants []string
	for _, qualified := range t.modules.Enumerate() {
		dot := strings.LastIndexByte(qualified, '.')
		if dot < 0 {
			continue
		}
		if qualified[dot+1:] == name {
			claimants = append(claimants, qualified[:dot])
		}
	}
	switch len(claimants) {
	case 1:
		return &ast.ModuleFI{Module: claimants[0], Func: name, Param: param}, nil
	case 0:
		if body, ok := sc.lookup(name); ok {
			return &ast.MacroFI{Name: name, Param: param, Body: body}, nil
		}
		return nil, jerrors.FunctionNotFound("no module, context function or macro claims %q", name)
	default:
		return nil, jerrors.Syntax("function %q is ambiguous across modules %s", name, strings.Join(claimants, ", "))
	}
}

// translateString recognises, in order: a typed-literal suffix, a
// variable-string form ("$name", "$.name", "$N", "$#", "$*",
// "$name[a/b]"), a colon-shorthand reconstruction ("@f: x", "!m: x"), and
// finally falls back to a plain string constant.
func (t *Translator) translateString(s string, sc *scope) (ast.Evaluable, error) {
	if lit, ok, err := parseTypedLiteral(s); ok {
		if err != nil {
			return nil, err
		}
		return constOf(lit, s), nil
	}

	if strings.HasPrefix(s, "$") {
		if node, ok, err := t.parseVariableString(s, sc); ok {
			return node, err
		}
	}

	if (strings.HasPrefix(s, "@") || strings.HasPrefix(s, "!")) && containsTopLevelColonSpace(s) {
		reconstructed := shorthandStringToValue(s)
		return t.translateValue(reconstructed, sc)
	}

	return constOf(jvar.Str(s), strconv.Quote(s)), nil
}

// parseVariableString handles every "$..." form except plain typed-literal
// text; ok is false only when s starts with "$" but matches none of the
// recognised shapes, letting the caller fall back to a literal string.
func (t *Translator) parseVariableString(s string, sc *scope) (ast.Evaluable, bool, error) {
	switch s {
	case "$#":
		return &ast.ContextArgumentsInfo{Kind: ast.ArgCount}, true, nil
	case "$*":
		return &ast.ContextArgumentsInfo{Kind: ast.ArgList}, true, nil
	}

	rest := s[1:]
	root := false
	if strings.HasPrefix(rest, ".") {
		root = true
		rest = rest[1:]
	}

	if isAllDigits(rest) && !root {
		n, _ := strconv.Atoi(rest)
		if n == 0 {
			return nil, true, jerrors.Syntax("$0 is not a valid context argument reference")
		}
		return &ast.ContextArgument{Index: n}, true, nil
	}

	name := rest
	var pathParts []string
	if idx := strings.IndexByte(rest, '['); idx >= 0 {
		if !strings.HasSuffix(rest, "]") {
			return nil, true, jerrors.Syntax("malformed bracketed path in %q", s)
		}
		name = rest[:idx]
		inner := rest[idx+1 : len(rest)-1]
		pathParts = strings.Split(inner, "/")
	}
	if name == "" {
		return nil, false, nil
	}

	variable := &ast.Variable{Name: name, Root: root}
	if len(pathParts) == 0 {
		return variable, true, nil
	}
	path := make([]ast.Evaluable, len(pathParts))
	for i, part := range pathParts {
		node, err := t.translateValue(part, sc)
		if err != nil {
			return nil, true, err
		}
		path[i] = node
	}
	return &ast.ObjectPropertyQuery{Object: variable, Path: path}, true, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// containsTopLevelColonSpace reports whether s contains ": " outside of
// any [...] nesting, the trigger for colon-shorthand reconstruction.
func containsTopLevelColonSpace(s string) bool {
	depth := 0
	for i := 0; i < len(s)-1; i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ':':
			if depth == 0 && s[i+1] == ' ' {
				return true
			}
		}
	}
	return false
}

// shorthandStringToValue reconstructs "<specifier>: <tail>" into
// map[string]any{specifier: value}, recursing on tail so chained shorthand
// ("@cond: @eq: [$1, 1]") reconstructs all the way down (spec.md §4.3
// pipeline step 2).
func shorthandStringToValue(s string) any {
	depth := 0
	for i := 0; i < len(s)-1; i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ':':
			if depth == 0 && s[i+1] == ' ' {
				head := s[:i]
				tail := strings.TrimSpace(s[i+2:])
				return map[string]any{head: shorthandTailToValue(tail)}
			}
		}
	}
	return s
}

func shorthandTailToValue(tail string) any {
	var decoded any
	if err := json.Unmarshal([]byte(tail), &decoded); err == nil {
		return decoded
	}
	if strings.HasPrefix(tail, "@") || strings.HasPrefix(tail, "!") {
		return shorthandStringToValue(tail)
	}
	return tail
}

// jsonToVar converts an already-decoded JSON value straight into a jvar.Var
// without further translation, for "@noeval" passthrough.
func jsonToVar(raw any) (jvar.Var, error) {
	switch v := raw.(type) {
	case nil:
		return jvar.Null(), nil
	case bool:
		return jvar.Bool(v), nil
	case float64:
		if v == float64(int64(v)) {
			return jvar.Int(int64(v)), nil
		}
		return jvar.Double(v), nil
	case string:
		return jvar.Str(v), nil
	case []any:
		items := make([]jvar.Var, len(v))
		for i, el := range v {
			iv, err := jsonToVar(el)
			if err != nil {
				return jvar.Var{}, err
			}
			items[i] = iv
		}
		return jvar.List(items...), nil
	case map[string]any:
		d := jvar.Dict()
		detached, _ := d.DetachDict()
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fv, err := jsonToVar(v[k])
			if err != nil {
				return jvar.Var{}, err
			}
			detached.SetFieldInPlace(k, fv)
		}
		return detached, nil
	default:
		return jvar.Var{}, jerrors.Syntax("@noeval: unsupported JSON value type %T", raw)
	}
}
