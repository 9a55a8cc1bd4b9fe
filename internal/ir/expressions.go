package ir

import "github.com/roach88/graphwalk/internal/location"

// Expression is a sealed interface over the closed expression vocabulary
// used by Filter predicates and ConstructResult output fields.
//
// Only types in this package implement it, so evaluator type switches over
// the variant set are exhaustive.
type Expression interface {
	expression() // Marker method - seals interface to this package
}

// Literal is a constant value, independent of the evaluated context.
type Literal struct {
	Value any
}

func (*Literal) expression() {}

// Variable reads a runtime query argument. VariableName carries the surface
// syntax's leading "$" sigil; the evaluator strips it before lookup.
type Variable struct {
	VariableName string

	// InferredType is the argument's expected type name, e.g. "String".
	InferredType string
}

func (*Variable) expression() {}

// LocalField projects a property field of the vertex the context is
// currently positioned at.
type LocalField struct {
	FieldName string
}

func (*LocalField) expression() {}

// ContextField projects a property field of a vertex recorded earlier in
// the traversal. Location is field-positioned; its vertex form names the
// tagged vertex and its field component names the property.
type ContextField struct {
	Location location.BaseLocation
}

func (*ContextField) expression() {}

// OutputContextField is evaluated identically to ContextField; it exists as
// a separate variant because outputs and tags are registered in separate
// namespaces.
type OutputContextField struct {
	Location location.BaseLocation
}

func (*OutputContextField) expression() {}

// ContextFieldExistence is true iff the token recorded at the referenced
// vertex location is non-nil. Never touches the adapter.
type ContextFieldExistence struct {
	Location location.BaseLocation
}

func (*ContextFieldExistence) expression() {}

// BinaryComposition applies a named binary operator to two sub-expressions.
// The left operand is always evaluated before the right one.
type BinaryComposition struct {
	Operator string
	Left     Expression
	Right    Expression
}

func (*BinaryComposition) expression() {}

// TernaryConditional selects between two sub-expressions based on a
// predicate. All three branches are evaluated unconditionally; the batched
// streaming evaluation model does not short-circuit.
type TernaryConditional struct {
	Predicate Expression
	IfTrue    Expression
	IfFalse   Expression
}

func (*TernaryConditional) expression() {}
