package jvar

// Add implements the '+' operator: numeric addition, string concatenation,
// and list concatenation (spec.md §4.1 "ArithmaticalOperator"). List
// concatenation always allocates a new list, so it never needs COW.
func Add(lhs, rhs Var) (Var, error) {
	l, r := lhs.resolved(), rhs.resolved()
	switch {
	case l.kind == KindString || r.kind == KindString:
		return Str(l.String() + r.String()), nil
	case l.kind == KindList && r.kind == KindList:
		items := append(append([]Var{}, l.list.items...), r.list.items...)
		return List(items...), nil
	case l.IsNumeric() && r.IsNumeric():
		ln, _ := l.AsNumber()
		rn, _ := r.AsNumber()
		return FromNumber(ln.Add(rn)), nil
	default:
		return Var{}, errTypeMismatch("+", l.kind, r.kind)
	}
}

func numericOp(op string, lhs, rhs Var, apply func(a, b Number) (Number, error)) (Var, error) {
	l, r := lhs.resolved(), rhs.resolved()
	if !l.IsNumeric() || !r.IsNumeric() {
		return Var{}, errTypeMismatch(op, l.kind, r.kind)
	}
	ln, _ := l.AsNumber()
	rn, _ := r.AsNumber()
	res, err := apply(ln, rn)
	if err != nil {
		return Var{}, err
	}
	return FromNumber(res), nil
}

func Sub(lhs, rhs Var) (Var, error) {
	return numericOp("-", lhs, rhs, func(a, b Number) (Number, error) { return a.Sub(b), nil })
}

func Mul(lhs, rhs Var) (Var, error) {
	return numericOp("*", lhs, rhs, func(a, b Number) (Number, error) { return a.Mul(b), nil })
}

func Div(lhs, rhs Var) (Var, error) {
	return numericOp("/", lhs, rhs, func(a, b Number) (Number, error) { return a.Div(b) })
}

func Mod(lhs, rhs Var) (Var, error) {
	return numericOp("%", lhs, rhs, func(a, b Number) (Number, error) { return a.Mod(b) })
}

func BitAnd(lhs, rhs Var) (Var, error) {
	return numericOp("&", lhs, rhs, func(a, b Number) (Number, error) { return a.And(b) })
}

func BitOr(lhs, rhs Var) (Var, error) {
	return numericOp("|", lhs, rhs, func(a, b Number) (Number, error) { return a.Or(b) })
}

func BitXor(lhs, rhs Var) (Var, error) {
	return numericOp("^", lhs, rhs, func(a, b Number) (Number, error) { return a.Xor(b) })
}

func Shl(lhs, rhs Var) (Var, error) {
	return numericOp("<<", lhs, rhs, func(a, b Number) (Number, error) { return a.Shl(b) })
}

func Shr(lhs, rhs Var) (Var, error) {
	return numericOp(">>", lhs, rhs, func(a, b Number) (Number, error) { return a.Shr(b) })
}

// Neg implements unary '-'.
func Neg(v Var) (Var, error) {
	r := v.resolved()
	if !r.IsNumeric() {
		return Var{}, errNotA(KindInt, r.kind)
	}
	n, _ := r.AsNumber()
	return FromNumber(n.Neg()), nil
}

// Not implements unary bitwise '~'.
func Not(v Var) (Var, error) {
	r := v.resolved()
	if !r.IsNumeric() {
		return Var{}, errNotA(KindInt, r.kind)
	}
	n, _ := r.AsNumber()
	res, err := n.Not()
	if err != nil {
		return Var{}, err
	}
	return FromNumber(res), nil
}

// Equal implements '==', structural equality across every Kind.
func Equal(lhs, rhs Var) bool {
	l, r := lhs.resolved(), rhs.resolved()
	if l.kind != r.kind {
		if l.IsNumeric() && r.IsNumeric() {
			ln, _ := l.AsNumber()
			rn, _ := r.AsNumber()
			return ln.Cmp(rn) == 0
		}
		return false
	}
	switch l.kind {
	case KindNull:
		return true
	case KindBool:
		return l.b == r.b
	case KindInt:
		return l.i == r.i
	case KindDouble:
		return l.d == r.d
	case KindString:
		return l.s == r.s
	case KindList:
		if len(l.list.items) != len(r.list.items) {
			return false
		}
		for i := range l.list.items {
			if !Equal(l.list.items[i], r.list.items[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if len(l.dict.keys) != len(r.dict.keys) {
			return false
		}
		for k, lv := range l.dict.vals {
			rv, ok := r.dict.vals[k]
			if !ok || !Equal(lv, rv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare implements the ordering used by '<', '<=', '>', '>=' and by
// list.sort: numeric values compare as reals, strings compare
// byte-lexicographically, and any other pairing is a type error.
func Compare(lhs, rhs Var) (int, error) {
	l, r := lhs.resolved(), rhs.resolved()
	switch {
	case l.IsNumeric() && r.IsNumeric():
		ln, _ := l.AsNumber()
		rn, _ := r.AsNumber()
		return ln.Cmp(rn), nil
	case l.kind == KindString && r.kind == KindString:
		switch {
		case l.s < r.s:
			return -1, nil
		case l.s > r.s:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, errTypeMismatch("compare", l.kind, r.kind)
	}
}
