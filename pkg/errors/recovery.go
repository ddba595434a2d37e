// Panic recovery: estimators call gonum routines that panic on degenerate
// input (singular kernels, shape mismatches inside factorizations), so every
// Fit/Predict converts panics into ordinary errors at the boundary.

package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError is a recovered panic promoted to an error value.
type PanicError struct {
	// PanicValue holds whatever was passed to panic().
	PanicValue interface{}
	// StackTrace is captured at recovery time.
	StackTrace string
	// Operation names the method the deferred Recover was guarding.
	Operation string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// String includes the captured stack for debug output.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError captures the current stack and wraps the panic value.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover converts a panic into an error on the named operation. Use it as
//
//	func (m *Model) Fit(...) (err error) {
//	    defer qdErrors.Recover(&err, "Model.Fit")
//	    ...
//	}
//
// A panic that fires after err was already set keeps the original error in
// the chain.
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	if *err != nil {
		*err = fmt.Errorf("panic in %s: %v (original error: %w)", operation, r, *err)
		return
	}
	*err = NewPanicError(operation, r)
}

// SafeExecute runs fn with panic recovery, returning fn's error or a
// PanicError if fn panicked.
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
