package interpreter

import "fmt"

// InternalError reports an interpreter-internal consistency violation:
// malformed IR reaching dispatch, a lookup of a location that was never
// marked, an unrecognized operator, and so on. These represent bugs in
// upstream compilation or in the interpreter itself, so they are raised via
// panic and never silently swallowed.
type InternalError struct {
	// Op names the operation that detected the inconsistency.
	Op string

	// Message is a human-readable description.
	Message string
}

func (e InternalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// internalf panics with an InternalError for the given operation.
func internalf(op, format string, args ...any) {
	panic(InternalError{Op: op, Message: fmt.Sprintf(format, args...)})
}

// NotImplementedError reports a feature the interpreter deliberately does
// not support, such as interpretation of @fold scopes. Raised via panic:
// reaching one means the upstream compiler emitted IR outside the supported
// fragment.
type NotImplementedError struct {
	Feature string
}

func (e NotImplementedError) Error() string {
	return fmt.Sprintf("not implemented: %s", e.Feature)
}
