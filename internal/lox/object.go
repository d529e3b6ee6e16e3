package lox

import (
	"strconv"
	"strings"
)

// Object is the tagged runtime value domain from spec.md §3:
// nil | bool | number | string | callable, where callable refines into
// native functions, user functions, classes, and instances.
type Object interface {
	String() string
}

// LoxNil is the single nil value.
type LoxNil struct{}

func (LoxNil) String() string { return "nil" }

var Nil Object = LoxNil{}

// LoxBool wraps a boolean.
type LoxBool bool

func (b LoxBool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// LoxNumber wraps an IEEE-754 double.
type LoxNumber float64

func (n LoxNumber) String() string {
	f := float64(n)
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// LoxString wraps an immutable string (spec.md Non-goals excludes
// mutable string operations).
type LoxString string

func (s LoxString) String() string { return string(s) }

func asNumber(obj Object) (float64, bool) {
	n, ok := obj.(LoxNumber)
	return float64(n), ok
}

func asString(obj Object) (string, bool) {
	s, ok := obj.(LoxString)
	return string(s), ok
}

func asBool(obj Object) (bool, bool) {
	b, ok := obj.(LoxBool)
	return bool(b), ok
}

func isNil(obj Object) bool {
	_, ok := obj.(LoxNil)
	return ok
}

// isTruthy: only nil and false are falsy (spec.md §3).
func isTruthy(obj Object) bool {
	switch v := obj.(type) {
	case LoxNil:
		return false
	case LoxBool:
		return bool(v)
	default:
		return true
	}
}

// isEqual implements the strict-equality rule from spec.md §3: numbers
// by IEEE equality (so NaN != NaN), strings by content, everything
// else (including callables) by identity.
func isEqual(a, b Object) bool {
	if isNil(a) && isNil(b) {
		return true
	}
	if isNil(a) || isNil(b) {
		return false
	}
	if an, ok := asNumber(a); ok {
		if bn, ok := asNumber(b); ok {
			return an == bn
		}
		return false
	}
	if as, ok := asString(a); ok {
		if bs, ok := asString(b); ok {
			return as == bs
		}
		return false
	}
	if ab, ok := asBool(a); ok {
		if bb, ok := asBool(b); ok {
			return ab == bb
		}
		return false
	}
	return a == b
}

// stringify renders a value exactly the way `print` and the REPL echo
// it: nil -> "nil", integral numbers without a trailing ".0", booleans
// as true/false, strings verbatim, and callables/classes/instances via
// their own String().
func stringify(obj Object) string {
	if n, ok := asNumber(obj); ok {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return obj.String()
}
