// Package invariant holds the recognizer's contract checks.
//
// Evaluation never fails on user input; a malformed buffer only asks for
// more characters. A failed check here is a bug in the walk itself, so it
// panics with the violated kind and the caller's file and line.
package invariant

import (
	"fmt"
	"reflect"
	"runtime"
)

type kind string

const (
	pre  kind = "PRECONDITION"
	post kind = "POSTCONDITION"
	inv  kind = "INVARIANT"
)

// Precondition guards arguments on entry
func Precondition(condition bool, format string, args ...interface{}) {
	check(pre, condition, format, args...)
}

// Postcondition guards a result before it is returned, e.g. that a phrase
// translation consumed the whole buffer the evaluator accepted.
func Postcondition(condition bool, format string, args ...interface{}) {
	check(post, condition, format, args...)
}

// Invariant guards state inside a loop or between steps:
//
//	next := pos + 1 + tok.Length
//	invariant.Invariant(next > pos, "phrase walk stalled at %d", pos)
func Invariant(condition bool, format string, args ...interface{}) {
	check(inv, condition, format, args...)
}

// NotNil rejects nil, including a nil pointer, map, slice, channel or func
// wrapped in an interface.
func NotNil(value interface{}, name string) {
	check(pre, !isNil(value), "%s must not be nil", name)
}

// InRange requires minVal <= value <= maxVal
func InRange(value, minVal, maxVal int, name string) {
	check(pre, value >= minVal && value <= maxVal,
		"%s must be in range [%d, %d], got %d", name, minVal, maxVal, value)
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}

// check must be called directly from an exported assertion so that the
// reported site is the assertion's caller.
func check(k kind, ok bool, format string, args ...interface{}) {
	if ok {
		return
	}
	msg := string(k) + " VIOLATION: " + fmt.Sprintf(format, args...)
	if _, file, line, found := runtime.Caller(2); found {
		msg += fmt.Sprintf("\n  at %s:%d", file, line)
	}
	panic(msg)
}
