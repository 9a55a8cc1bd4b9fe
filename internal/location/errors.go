package location

import "fmt"

// InvariantError reports a breach of a compiler-internal consistency
// invariant: double registration, navigation from a field-positioned
// location, a missing parent, and so on. These represent bugs in upstream
// compilation or in the interpreter itself, so they are raised via panic
// and are never meant to be recovered from.
type InvariantError struct {
	// Op names the operation that detected the breach, e.g. "RegisterLocation".
	Op string

	// Message is a human-readable description of the violated invariant.
	Message string
}

func (e InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// violate panics with an InvariantError for the given operation.
func violate(op, format string, args ...any) {
	panic(InvariantError{Op: op, Message: fmt.Sprintf(format, args...)})
}
