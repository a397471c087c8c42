package evalctx

import (
	"github.com/sepcon/go-jas/internal/jerrors"
	"github.com/sepcon/go-jas/internal/jvar"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// HistoricalEvalContext compares two JSON snapshots — the previous
// evaluation's input ("old") and the current one ("new") — exposing the
// field/snchg/evchg/hfield/last_eval family spec.md §4.5 requires for
// change-detection rules ("alert only when a field's value differs from
// its last evaluation"). It embeds *BaseContext for ordinary variable/
// macro/argument resolution and layers the snapshot queries on top using
// gjson for reads and sjson for persisting evaluation results between
// runs, the same library pairing the teacher's internal/jsonvalue package
// documents as its own JSON-manipulation alternative.
type HistoricalEvalContext struct {
	*BaseContext

	oldJSON string
	newJSON string

	// results holds this run's save_evaluation_result calls, keyed by
	// path, so a later last_eval/evchg call in the same pass can see
	// them; lastResults holds the PREVIOUS run's persisted results,
	// loaded via LoadEvaluationResults before evaluation starts.
	results     map[string]jvar.Var
	lastResults map[string]jvar.Var
}

// NewHistoricalContext builds a root historical context over oldJSON (the
// prior snapshot) and newJSON (the snapshot being evaluated now).
func NewHistoricalContext(oldJSON, newJSON string) *HistoricalEvalContext {
	return &HistoricalEvalContext{
		BaseContext: NewRoot(),
		oldJSON:     oldJSON,
		newJSON:     newJSON,
		results:     map[string]jvar.Var{},
		lastResults: map[string]jvar.Var{},
	}
}

// NewChild overrides BaseContext.NewChild so the new scope's parent is h
// itself rather than h's embedded *BaseContext: without this override the
// promoted method would link back to the plain embedded context, and a
// ContextFI evaluated inside any nested scope (a local-variable frame, a
// list-algorithm predicate, ...) would be unable to walk back up to find
// the snapshot-query methods below.
func (h *HistoricalEvalContext) NewChild() Context {
	return &BaseContext{id: nextContextID(), parent: h, depth: h.Depth() + 1, vars: map[string]jvar.Var{}}
}

// ContextFunctionCaller is implemented by Context values that expose
// callable context functions (spec.md §4.5's field/snchg/evchg/... family),
// the dispatch target of an ast.ContextFI node.
type ContextFunctionCaller interface {
	CallContextFunction(fn string, args []jvar.Var) (jvar.Var, error)
}

// CallContextFunction dispatches one of the names translator/keywords.go's
// knownContextFuncs lists to the corresponding method below, taking the
// path as its first (and for most, only) argument.
func (h *HistoricalEvalContext) CallContextFunction(fn string, args []jvar.Var) (jvar.Var, error) {
	var path string
	if len(args) > 0 {
		path = args[0].StrValue()
	}
	switch fn {
	case "field", "field_cv":
		if v, ok := h.FieldCV(path); ok {
			return v, nil
		}
		return jvar.Null(), nil
	case "field_lv":
		if v, ok := h.FieldLV(path); ok {
			return v, nil
		}
		return jvar.Null(), nil
	case "hfield":
		if v, ok := h.HField(path); ok {
			return v, nil
		}
		return jvar.Null(), nil
	case "hfield2arr":
		return h.HField2Arr(path), nil
	case "snchg":
		return jvar.Bool(h.SnChg(path)), nil
	case "evchg":
		return jvar.Bool(h.EvChg(path)), nil
	case "last_eval":
		if v, ok := h.LastEval(path); ok {
			return v, nil
		}
		return jvar.Null(), nil
	default:
		return jvar.Var{}, jerrors.FunctionNotFound("context has no function %q", fn)
	}
}

func gjsonToVar(r gjson.Result) jvar.Var {
	switch r.Type {
	case gjson.Null:
		return jvar.Null()
	case gjson.False:
		return jvar.Bool(false)
	case gjson.True:
		return jvar.Bool(true)
	case gjson.Number:
		f := r.Num
		if f == float64(int64(f)) {
			return jvar.Int(int64(f))
		}
		return jvar.Double(f)
	case gjson.String:
		return jvar.Str(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var items []jvar.Var
			r.ForEach(func(_, v gjson.Result) bool {
				items = append(items, gjsonToVar(v))
				return true
			})
			return jvar.List(items...)
		}
		d := jvar.Dict()
		detached, _ := d.DetachDict()
		r.ForEach(func(k, v gjson.Result) bool {
			detached.SetFieldInPlace(k.Str, gjsonToVar(v))
			return true
		})
		return detached
	default:
		return jvar.Null()
	}
}

// FieldCV ("current value") returns the value at path in the new snapshot.
func (h *HistoricalEvalContext) FieldCV(path string) (jvar.Var, bool) {
	r := gjson.Get(h.newJSON, path)
	if !r.Exists() {
		return jvar.Var{}, false
	}
	return gjsonToVar(r), true
}

// FieldLV ("last value") returns the value at path in the old snapshot.
func (h *HistoricalEvalContext) FieldLV(path string) (jvar.Var, bool) {
	r := gjson.Get(h.oldJSON, path)
	if !r.Exists() {
		return jvar.Var{}, false
	}
	return gjsonToVar(r), true
}

// Field is an alias for FieldCV: plain "field" queries default to the
// current snapshot, matching the original engine's HistoricalEvalContext.
func (h *HistoricalEvalContext) Field(path string) (jvar.Var, bool) { return h.FieldCV(path) }

// HField returns the historical (old-snapshot) value at path; a bare
// synonym the original engine keeps alongside field_lv for readability in
// rule authoring.
func (h *HistoricalEvalContext) HField(path string) (jvar.Var, bool) { return h.FieldLV(path) }

// HField2Arr returns [old, new] as a two-element List Var, letting a rule
// inspect both snapshot values in one expression.
func (h *HistoricalEvalContext) HField2Arr(path string) jvar.Var {
	oldV, _ := h.FieldLV(path)
	newV, _ := h.FieldCV(path)
	return jvar.List(oldV, newV)
}

// SnChg ("snapshot changed") reports whether the raw value at path differs
// between the old and new snapshots.
func (h *HistoricalEvalContext) SnChg(path string) bool {
	oldR := gjson.Get(h.oldJSON, path)
	newR := gjson.Get(h.newJSON, path)
	if oldR.Exists() != newR.Exists() {
		return true
	}
	return oldR.Raw != newR.Raw
}

// EvChg ("evaluation changed") reports whether the current snapshot's
// value at path differs from the last persisted evaluation result for
// that same path (spec.md §4.5's worked "alert on change" scenario).
func (h *HistoricalEvalContext) EvChg(path string) bool {
	cur, curOK := h.FieldCV(path)
	last, lastOK := h.LastEval(path)
	if curOK != lastOK {
		return true
	}
	if !curOK {
		return false
	}
	return !jvar.Equal(cur, last)
}

// LastEval returns the evaluation result this (or a previous) pass saved
// for path, looking at the in-progress results first, then the persisted
// previous-run snapshot.
func (h *HistoricalEvalContext) LastEval(path string) (jvar.Var, bool) {
	if v, ok := h.results[path]; ok {
		return v, true
	}
	v, ok := h.lastResults[path]
	return v, ok
}

// SaveEvaluationResult records val as the outcome of evaluating path this
// pass, so a subsequent evchg/last_eval call in the same or a future run
// can see it.
func (h *HistoricalEvalContext) SaveEvaluationResult(path string, val jvar.Var) {
	h.results[path] = val
}

// SerializeResults flattens this pass's saved results into a JSON document
// a future run can reload with LoadEvaluationResults, using sjson to build
// the document incrementally the same way the teacher's jsonvalue package
// favours incremental field writes over building a map and marshalling it
// whole.
func (h *HistoricalEvalContext) SerializeResults() (string, error) {
	doc := "{}"
	var err error
	for path, v := range h.results {
		doc, err = sjson.Set(doc, path, varToPlain(v))
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

// LoadEvaluationResults seeds lastResults from a document previously
// produced by SerializeResults, so the upcoming pass's evchg/last_eval
// calls can see the prior run's saved outcomes.
func (h *HistoricalEvalContext) LoadEvaluationResults(doc string) {
	h.lastResults = map[string]jvar.Var{}
	parsed := gjson.Parse(doc)
	flattenPaths("", parsed, h.lastResults)
}

func flattenPaths(prefix string, r gjson.Result, out map[string]jvar.Var) {
	if r.IsObject() {
		r.ForEach(func(k, v gjson.Result) bool {
			path := k.Str
			if prefix != "" {
				path = prefix + "." + k.Str
			}
			if v.IsObject() {
				flattenPaths(path, v, out)
			} else {
				out[path] = gjsonToVar(v)
			}
			return true
		})
		return
	}
	out[prefix] = gjsonToVar(r)
}

// varToPlain converts a Var into a plain Go value sjson.Set can encode.
func varToPlain(v jvar.Var) any { return v.ToPlain() }
