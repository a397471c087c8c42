// Package jvar implements Var, the dynamic value every Evaluable produces
// and every EvalContext variable binds, per spec.md §3/§4.1. It is a
// from-scratch Go port of the original engine's tagged-variant Var
// (original_source's include/jas/Var.h): Null, Bool, Int, Double, String,
// List, Dict and Ref arms, with List/Dict storage shared until a mutating
// operation forces a copy-on-write detach.
//
// The teacher's internal/jsonvalue.Value is the nearest sibling in this
// codebase (a tagged JSON value with ordered object keys); Var generalises
// it with the Ref arm and explicit sharing that jsonvalue never needed.
package jvar

import (
	"encoding/json"
	"fmt"
)

// Kind tags the active arm of a Var.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindList
	KindDict
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindRef:
		return "ref"
	default:
		return "unknown"
	}
}

// listBox is the shared backing store for a List-kind Var. refs counts how
// many Vars have been handed a copy of this pointer since the box was
// created; it never decrements, so "refs > 1" is a conservative ("maybe
// shared") test rather than an exact live-alias count, trading a few
// avoidable clones for never missing a real aliasing hazard.
type listBox struct {
	items []Var
	refs  int
}

func (b *listBox) clone() *listBox {
	items := make([]Var, len(b.items))
	copy(items, b.items)
	return &listBox{items: items, refs: 1}
}

// dictBox is the shared backing store for a Dict-kind Var, preserving
// insertion order the way the teacher's jsonvalue.Value does for objects.
type dictBox struct {
	keys []string
	vals map[string]Var
	refs int
}

func (b *dictBox) clone() *dictBox {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	vals := make(map[string]Var, len(b.vals))
	for k, v := range b.vals {
		vals[k] = v
	}
	return &dictBox{keys: keys, vals: vals, refs: 1}
}

// Var is the tagged dynamic value. The zero Var is KindNull.
type Var struct {
	kind Kind
	b    bool
	i    int64
	d    float64
	s    string
	list *listBox
	dict *dictBox
	ref  *Var
}

// Null, Bool, Int, Double, and Str construct scalar Vars.
func Null() Var              { return Var{kind: KindNull} }
func Bool(b bool) Var        { return Var{kind: KindBool, b: b} }
func Int(i int64) Var        { return Var{kind: KindInt, i: i} }
func Double(d float64) Var   { return Var{kind: KindDouble, d: d} }
func Str(s string) Var       { return Var{kind: KindString, s: s} }

// List constructs a fresh List Var owning a new copy of items.
func List(items ...Var) Var {
	cp := make([]Var, len(items))
	copy(cp, items)
	return Var{kind: KindList, list: &listBox{items: cp, refs: 1}}
}

// Dict constructs a fresh, empty Dict Var.
func Dict() Var {
	return Var{kind: KindDict, dict: &dictBox{vals: map[string]Var{}, refs: 1}}
}

// NewRef wraps initial in a heap cell and returns a Ref Var pointing at it.
// Copies of the returned Var all observe mutations made through SetRef,
// matching the original engine's Var::ref semantics; a Var obtained via
// Deref is a copy of the referent at that moment and does not.
func NewRef(initial Var) Var {
	cell := initial
	return Var{kind: KindRef, ref: &cell}
}

// Kind, IsNull, ... report the resolved kind, following through Ref arms
// transparently as spec.md §4.1 requires ("a Ref transparently forwards
// every type predicate ... to its referent"); IsRef alone reports whether
// v itself is a Ref.
func (v Var) resolved() Var {
	if v.kind == KindRef && v.ref != nil {
		return v.ref.resolved()
	}
	return v
}

func (v Var) Kind() Kind       { return v.resolved().kind }
func (v Var) IsNull() bool     { return v.Kind() == KindNull }
func (v Var) IsBool() bool     { return v.Kind() == KindBool }
func (v Var) IsInt() bool      { return v.Kind() == KindInt }
func (v Var) IsDouble() bool   { return v.Kind() == KindDouble }
func (v Var) IsNumeric() bool  { k := v.Kind(); return k == KindInt || k == KindDouble }
func (v Var) IsString() bool   { return v.Kind() == KindString }
func (v Var) IsList() bool     { return v.Kind() == KindList }
func (v Var) IsDict() bool     { return v.Kind() == KindDict }
func (v Var) IsRef() bool      { return v.kind == KindRef }

// Deref returns the referent when v is a Ref, else v itself.
func (v Var) Deref() Var {
	if v.kind == KindRef && v.ref != nil {
		return *v.ref
	}
	return v
}

// SetRef overwrites the value a Ref points at. It panics if v is not a
// Ref; callers must check IsRef first.
func (v Var) SetRef(newVal Var) {
	if v.kind != KindRef || v.ref == nil {
		panic("jvar: SetRef on a non-Ref Var")
	}
	*v.ref = newVal
}

// BoolValue, Int64Value, Float64Value, StrValue return the scalar payload, following
// Ref arms. They do not convert between kinds; use AsNumber for numeric
// coercion.
func (v Var) BoolValue() bool     { return v.resolved().b }
func (v Var) Int64Value() int64   { return v.resolved().i }
func (v Var) Float64Value() float64 { return v.resolved().d }
func (v Var) StrValue() string    { return v.resolved().s }

// AsNumber returns the Number view of a numeric Var, erroring for any
// other kind.
func (v Var) AsNumber() (Number, error) {
	r := v.resolved()
	switch r.kind {
	case KindInt:
		return NewNumber(float64(r.i)), nil
	case KindDouble:
		return NewNumber(r.d), nil
	default:
		return Number{}, errNotA(KindInt, r.kind)
	}
}

// FromNumber rebuilds a Var from a Number, preserving Int-ness when the
// Number holds an integral value.
func FromNumber(n Number) Var {
	if n.IsInt() {
		return Int(n.Int())
	}
	return Double(n.Float())
}

// Len returns the number of elements for List/Dict/String kinds, and 0
// otherwise.
func (v Var) Len() int {
	r := v.resolved()
	switch r.kind {
	case KindList:
		return len(r.list.items)
	case KindDict:
		return len(r.dict.keys)
	case KindString:
		return len(r.s)
	default:
		return 0
	}
}

// Items returns a read-only view of a List Var's elements.
func (v Var) Items() ([]Var, error) {
	r := v.resolved()
	if r.kind != KindList {
		return nil, errNotA(KindList, r.kind)
	}
	return r.list.items, nil
}

// At returns the i-th element of a List Var.
func (v Var) At(i int) (Var, error) {
	r := v.resolved()
	if r.kind != KindList {
		return Var{}, errNotA(KindList, r.kind)
	}
	if i < 0 || i >= len(r.list.items) {
		return Var{}, errIndexOutOfRange(i, len(r.list.items))
	}
	return r.list.items[i], nil
}

// Keys returns a Dict Var's keys in insertion order.
func (v Var) Keys() ([]string, error) {
	r := v.resolved()
	if r.kind != KindDict {
		return nil, errNotA(KindDict, r.kind)
	}
	return r.dict.keys, nil
}

// Field looks up key in a Dict Var.
func (v Var) Field(key string) (Var, bool, error) {
	r := v.resolved()
	if r.kind != KindDict {
		return Var{}, false, errNotA(KindDict, r.kind)
	}
	val, ok := r.dict.vals[key]
	return val, ok, nil
}

// Share marks this Var's List/Dict backing store as aliased, so a future
// mutation must detach rather than corrupt the sibling alias. Callers
// that bind an already-evaluated Var to a second name (variable
// declarations, argument capture) must call Share on the value they
// store.
func (v Var) Share() Var {
	switch v.kind {
	case KindList:
		if v.list != nil {
			v.list.refs++
		}
	case KindDict:
		if v.dict != nil {
			v.dict.refs++
		}
	}
	return v
}

// DetachList returns a Var whose listBox is exclusively owned, cloning
// first if the current box might be aliased. Mutating List module
// functions (append, insert, remove, sort, ...) must call this before
// mutating in place.
func (v Var) DetachList() (Var, error) {
	r := v.resolved()
	if r.kind != KindList {
		return Var{}, errNotA(KindList, r.kind)
	}
	if r.list.refs > 1 {
		r.list = r.list.clone()
	}
	return r, nil
}

// DetachDict is DetachList's Dict counterpart.
func (v Var) DetachDict() (Var, error) {
	r := v.resolved()
	if r.kind != KindDict {
		return Var{}, errNotA(KindDict, r.kind)
	}
	if r.dict.refs > 1 {
		r.dict = r.dict.clone()
	}
	return r, nil
}

// AppendInPlace appends val to a detached List Var's backing store. The
// caller must have obtained v via DetachList.
func (v Var) AppendInPlace(val Var) {
	v.list.items = append(v.list.items, val)
}

// SetFieldInPlace stores val under key in a detached Dict Var's backing
// store. The caller must have obtained v via DetachDict.
func (v Var) SetFieldInPlace(key string, val Var) {
	if _, exists := v.dict.vals[key]; !exists {
		v.dict.keys = append(v.dict.keys, key)
	}
	v.dict.vals[key] = val
}

// DeleteFieldInPlace removes key from a detached Dict Var's backing store.
func (v Var) DeleteFieldInPlace(key string) bool {
	if _, ok := v.dict.vals[key]; !ok {
		return false
	}
	delete(v.dict.vals, key)
	for i, k := range v.dict.keys {
		if k == key {
			v.dict.keys = append(v.dict.keys[:i], v.dict.keys[i+1:]...)
			break
		}
	}
	return true
}

// RemoveAtInPlace removes the element at i from a detached List Var.
func (v Var) RemoveAtInPlace(i int) error {
	if i < 0 || i >= len(v.list.items) {
		return errIndexOutOfRange(i, len(v.list.items))
	}
	v.list.items = append(v.list.items[:i], v.list.items[i+1:]...)
	return nil
}

// Clone deep-copies v, independent of any sharing with other Vars. Ref
// arms are followed and cloned as plain values (cloning breaks aliasing
// by design, matching spec.md's "explicit clone drops ref semantics").
func (v Var) Clone() Var {
	r := v.resolved()
	switch r.kind {
	case KindList:
		items := make([]Var, len(r.list.items))
		for i, it := range r.list.items {
			items[i] = it.Clone()
		}
		return Var{kind: KindList, list: &listBox{items: items, refs: 1}}
	case KindDict:
		keys := make([]string, len(r.dict.keys))
		copy(keys, r.dict.keys)
		vals := make(map[string]Var, len(r.dict.vals))
		for k, val := range r.dict.vals {
			vals[k] = val.Clone()
		}
		return Var{kind: KindDict, dict: &dictBox{keys: keys, vals: vals, refs: 1}}
	default:
		return r
	}
}

// Truthy implements the engine's boolean-coercion rule (spec.md §4.1):
// null and zero-valued scalars are false; empty strings/lists/dicts are
// false; everything else is true.
func (v Var) Truthy() bool {
	r := v.resolved()
	switch r.kind {
	case KindNull:
		return false
	case KindBool:
		return r.b
	case KindInt:
		return r.i != 0
	case KindDouble:
		return r.d != 0
	case KindString:
		return r.s != ""
	case KindList:
		return len(r.list.items) > 0
	case KindDict:
		return len(r.dict.keys) > 0
	default:
		return false
	}
}

// String renders a debug form, not a JSON encoding; use MarshalJSON for
// that.
func (v Var) String() string {
	r := v.resolved()
	switch r.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", r.b)
	case KindInt:
		return fmt.Sprintf("%d", r.i)
	case KindDouble:
		return fmt.Sprintf("%g", r.d)
	case KindString:
		return r.s
	case KindList:
		out := "["
		for i, it := range r.list.items {
			if i > 0 {
				out += ", "
			}
			out += it.String()
		}
		return out + "]"
	case KindDict:
		out := "{"
		for i, k := range r.dict.keys {
			if i > 0 {
				out += ", "
			}
			out += k + ": " + r.dict.vals[k].String()
		}
		return out + "}"
	default:
		return "<?>"
	}
}

// ToPlain converts v into a plain Go value (nil, bool, int64, float64,
// string, []any, or map[string]any) that encoding/json.Marshal can encode
// directly — the same shape evalctx's historical-result persistence and
// pkg/jas's public facade both need out of a Var.
func (v Var) ToPlain() any {
	r := v.resolved()
	switch r.kind {
	case KindNull:
		return nil
	case KindBool:
		return r.b
	case KindInt:
		return r.i
	case KindDouble:
		return r.d
	case KindString:
		return r.s
	case KindList:
		out := make([]any, len(r.list.items))
		for i, it := range r.list.items {
			out[i] = it.ToPlain()
		}
		return out
	case KindDict:
		out := make(map[string]any, len(r.dict.keys))
		for _, k := range r.dict.keys {
			out[k] = r.dict.vals[k].ToPlain()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler via ToPlain, letting a Var be
// encoded directly with encoding/json.
func (v Var) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToPlain())
}
