package adapter

import (
	"fmt"
	"iter"

	"github.com/roach88/graphwalk/internal/interpreter"
	"github.com/roach88/graphwalk/internal/ir"
)

// Recording wraps another adapter and logs every call it actually services.
// A call is logged when its returned sequence is first advanced, matching
// the interpreter's laziness contract: a pipeline that is never pulled logs
// nothing.
type Recording struct {
	Inner interpreter.Adapter

	// Calls holds one entry per serviced call, in service order.
	Calls []string
}

var _ interpreter.Adapter = (*Recording)(nil)

// NewRecording wraps inner.
func NewRecording(inner interpreter.Adapter) *Recording {
	return &Recording{Inner: inner}
}

func (r *Recording) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recording) GetTokensOfType(typeName string, hints *interpreter.VertexHints) iter.Seq[any] {
	inner := r.Inner.GetTokensOfType(typeName, hints)
	return func(yield func(any) bool) {
		r.record("get_tokens_of_type %s", typeName)
		inner(yield)
	}
}

func (r *Recording) ProjectProperty(contexts iter.Seq[*interpreter.DataContext], typeName, fieldName string, hints *interpreter.VertexHints) iter.Seq2[*interpreter.DataContext, any] {
	return func(yield func(*interpreter.DataContext, any) bool) {
		r.record("project_property %s.%s", typeName, fieldName)
		r.Inner.ProjectProperty(contexts, typeName, fieldName, hints)(yield)
	}
}

func (r *Recording) ProjectNeighbors(contexts iter.Seq[*interpreter.DataContext], typeName string, edge ir.EdgeDescriptor, hints *interpreter.VertexHints) iter.Seq2[*interpreter.DataContext, iter.Seq[any]] {
	return func(yield func(*interpreter.DataContext, iter.Seq[any]) bool) {
		r.record("project_neighbors %s.%s", typeName, edge)
		r.Inner.ProjectNeighbors(contexts, typeName, edge, hints)(yield)
	}
}

func (r *Recording) CanCoerceToType(contexts iter.Seq[*interpreter.DataContext], typeName, coerceToType string, hints *interpreter.VertexHints) iter.Seq2[*interpreter.DataContext, bool] {
	return func(yield func(*interpreter.DataContext, bool) bool) {
		r.record("can_coerce_to_type %s -> %s", typeName, coerceToType)
		r.Inner.CanCoerceToType(contexts, typeName, coerceToType, hints)(yield)
	}
}
