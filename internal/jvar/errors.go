package jvar

import "github.com/sepcon/go-jas/internal/jerrors"

func errDivideByZero() error {
	return jerrors.InvalidArgument("division by zero")
}

func errNotIntegral() error {
	return jerrors.InvalidArgument("operand is not an integral number")
}

func errTypeMismatch(op string, lhs, rhs Kind) error {
	return jerrors.Type("operator %q is not defined between %s and %s", op, lhs, rhs)
}

func errNotA(kind Kind, got Kind) error {
	return jerrors.Type("expected a %s value, got %s", kind, got)
}

func errIndexOutOfRange(idx, length int) error {
	return jerrors.OutOfRange("index %d is out of range for a list of length %d", idx, length)
}

func errKeyNotFound(key string) error {
	return jerrors.OutOfRange("key %q not found", key)
}
