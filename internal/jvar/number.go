package jvar

import "math"

// Number is a uniform wrapper over a double storage that unifies int/double
// arithmetic with well-defined bitwise and division-by-zero errors,
// matching the original engine's Number (original_source's
// include/jas/Number.h): "an instance is an integer iff trunc(v) == v".
type Number struct {
	Value float64
}

// NewNumber wraps v.
func NewNumber(v float64) Number { return Number{Value: v} }

// IsInt reports whether the stored value has no fractional part.
func (n Number) IsInt() bool { return math.Trunc(n.Value) == n.Value }

// Int truncates toward zero, matching Number::operator T() for integral T.
func (n Number) Int() int64 { return int64(math.Trunc(n.Value)) }

// Float returns the double representation.
func (n Number) Float() float64 { return n.Value }

const divideByZeroEpsilon = 1e-12

func isZero(v float64) bool { return math.Abs(v) < divideByZeroEpsilon }

// Add, Sub, Mul, Div implement the four basic arithmetic operators on the
// double representation. Div reports an error on division by (near) zero.
func (n Number) Add(o Number) Number { return Number{n.Value + o.Value} }
func (n Number) Sub(o Number) Number { return Number{n.Value - o.Value} }
func (n Number) Mul(o Number) Number { return Number{n.Value * o.Value} }

func (n Number) Div(o Number) (Number, error) {
	if isZero(o.Value) {
		return Number{}, errDivideByZero()
	}
	return Number{n.Value / o.Value}, nil
}

// Mod, And, Or, Xor, Not, Shl, Shr require both operands to be integral,
// raising invalid-argument otherwise (spec.md §4.2).
func (n Number) Mod(o Number) (Number, error) {
	if !n.IsInt() || !o.IsInt() {
		return Number{}, errNotIntegral()
	}
	if o.Int() == 0 {
		return Number{}, errDivideByZero()
	}
	return Number{float64(n.Int() % o.Int())}, nil
}

func (n Number) And(o Number) (Number, error) { return intOp(n, o, func(a, b int64) int64 { return a & b }) }
func (n Number) Or(o Number) (Number, error)  { return intOp(n, o, func(a, b int64) int64 { return a | b }) }
func (n Number) Xor(o Number) (Number, error) { return intOp(n, o, func(a, b int64) int64 { return a ^ b }) }
func (n Number) Shl(o Number) (Number, error) { return intOp(n, o, func(a, b int64) int64 { return a << uint(b) }) }
func (n Number) Shr(o Number) (Number, error) { return intOp(n, o, func(a, b int64) int64 { return a >> uint(b) }) }

func (n Number) Not() (Number, error) {
	if !n.IsInt() {
		return Number{}, errNotIntegral()
	}
	return Number{float64(^n.Int())}, nil
}

func (n Number) Neg() Number { return Number{-n.Value} }

func intOp(n, o Number, apply func(a, b int64) int64) (Number, error) {
	if !n.IsInt() || !o.IsInt() {
		return Number{}, errNotIntegral()
	}
	return Number{float64(apply(n.Int(), o.Int()))}, nil
}

// Cmp compares two numbers as real numbers, per spec.md §4.1: "Numbers of
// different arms (Int vs Double) are compared as real numbers."
func (n Number) Cmp(o Number) int {
	switch {
	case n.Value < o.Value:
		return -1
	case n.Value > o.Value:
		return 1
	default:
		return 0
	}
}
