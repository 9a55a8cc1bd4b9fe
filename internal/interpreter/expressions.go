package interpreter

import (
	"iter"
	"strings"

	"github.com/roach88/graphwalk/internal/ir"
	"github.com/roach88/graphwalk/internal/location"
)

// evaluate dispatches over the closed expression vocabulary, lazily
// producing one (context, value) pair per input context, in input order.
//
// currentLocation is the location the traversal is positioned at, nil while
// evaluating global-section expressions (which may only reference marked
// locations, never the local vertex).
func (r *run) evaluate(currentLocation location.BaseLocation, expr ir.Expression, contexts iter.Seq[*DataContext]) iter.Seq2[*DataContext, any] {
	switch e := expr.(type) {
	case *ir.Literal:
		return r.evaluateLiteral(e, contexts)
	case *ir.Variable:
		return r.evaluateVariable(e, contexts)
	case *ir.LocalField:
		return r.evaluateLocalField(currentLocation, e, contexts)
	case *ir.ContextField:
		return r.evaluateContextField(e.Location, contexts)
	case *ir.OutputContextField:
		// Evaluated identically to ContextField; the variants differ only
		// in which compile-time namespace registered the location.
		return r.evaluateContextField(e.Location, contexts)
	case *ir.ContextFieldExistence:
		return r.evaluateContextFieldExistence(e, contexts)
	case *ir.BinaryComposition:
		return r.evaluateBinaryComposition(currentLocation, e, contexts)
	case *ir.TernaryConditional:
		return r.evaluateTernaryConditional(currentLocation, e, contexts)
	default:
		internalf("evaluate", "unhandled expression type %T", expr)
		return nil // unreachable
	}
}

func (r *run) evaluateLiteral(e *ir.Literal, contexts iter.Seq[*DataContext]) iter.Seq2[*DataContext, any] {
	return func(yield func(*DataContext, any) bool) {
		for ctx := range contexts {
			if !yield(ctx, e.Value) {
				return
			}
		}
	}
}

// evaluateVariable looks up a runtime argument. Argument names are stored
// with a leading "$" sigil that is stripped before lookup. A missing key is
// an internal inconsistency: argument presence was validated before
// interpretation started.
func (r *run) evaluateVariable(e *ir.Variable, contexts iter.Seq[*DataContext]) iter.Seq2[*DataContext, any] {
	name := strings.TrimPrefix(e.VariableName, "$")
	value, ok := r.args[name]
	if !ok {
		internalf("evaluateVariable", "query argument %q is missing", name)
	}
	return func(yield func(*DataContext, any) bool) {
		for ctx := range contexts {
			if !yield(ctx, value) {
				return
			}
		}
	}
}

func (r *run) evaluateLocalField(currentLocation location.BaseLocation, e *ir.LocalField, contexts iter.Seq[*DataContext]) iter.Seq2[*DataContext, any] {
	if currentLocation == nil {
		internalf("evaluateLocalField", "LocalField %q evaluated outside a location-bearing section", e.FieldName)
	}
	vertex := currentLocation.AtVertex()
	typeName := r.metadata.GetLocationInfo(vertex).Type
	return func(yield func(*DataContext, any) bool) {
		pairs := r.adapter.ProjectProperty(contexts, typeName, e.FieldName, r.hints.Get(vertex))
		for ctx, value := range pairs {
			if !yield(ctx, value) {
				return
			}
		}
	}
}

// evaluateContextField projects a property of a vertex recorded earlier in
// the traversal. Each context is moved to the stored location, with the
// original context pushed onto the moved context's stack as a carrier so it
// survives the round trip through the adapter, then restored afterwards.
func (r *run) evaluateContextField(fieldLocation location.BaseLocation, contexts iter.Seq[*DataContext]) iter.Seq2[*DataContext, any] {
	fieldName := fieldLocation.Field()
	if fieldName == "" {
		internalf("evaluateContextField", "context field location %s names no property field", fieldLocation)
	}
	vertex := fieldLocation.AtVertex()
	typeName := r.metadata.GetLocationInfo(vertex).Type

	moved := mapContexts(contexts, func(ctx *DataContext) *DataContext {
		m := ctx.MoveTo(vertex)
		m.PushValue(ctx)
		return m
	})

	return func(yield func(*DataContext, any) bool) {
		pairs := r.adapter.ProjectProperty(moved, typeName, fieldName, r.hints.Get(vertex))
		for m, value := range pairs {
			original := m.PopValue().(*DataContext)
			if !yield(original, value) {
				return
			}
		}
	}
}

// evaluateContextFieldExistence is true iff the token recorded at the
// referenced location is non-nil. It never calls the adapter.
func (r *run) evaluateContextFieldExistence(e *ir.ContextFieldExistence, contexts iter.Seq[*DataContext]) iter.Seq2[*DataContext, any] {
	vertex := e.Location.AtVertex()
	return func(yield func(*DataContext, any) bool) {
		for ctx := range contexts {
			token, ok := ctx.TokenAt(vertex)
			if !ok {
				internalf("evaluateContextFieldExistence", "location %s was never marked", vertex)
			}
			if !yield(ctx, token != nil) {
				return
			}
		}
	}
}

// evaluateBinaryComposition evaluates left before right; left results are
// stacked below right's evaluation, so each context pops its left operand
// back off once the right value arrives.
func (r *run) evaluateBinaryComposition(currentLocation location.BaseLocation, e *ir.BinaryComposition, contexts iter.Seq[*DataContext]) iter.Seq2[*DataContext, any] {
	withLeft := pushResults(r.evaluate(currentLocation, e.Left, contexts))
	rightPairs := r.evaluate(currentLocation, e.Right, withLeft)
	return func(yield func(*DataContext, any) bool) {
		for ctx, right := range rightPairs {
			left := ctx.PopValue()
			if !yield(ctx, ApplyOperator(e.Operator, left, right)) {
				return
			}
		}
	}
}

// evaluateTernaryConditional evaluates the predicate, if-true, and if-false
// branches unconditionally; short-circuiting would require restructuring
// the batched streaming evaluation, so the known inefficiency is kept.
// Values pop back in LIFO order: if-true first, then the predicate.
func (r *run) evaluateTernaryConditional(currentLocation location.BaseLocation, e *ir.TernaryConditional, contexts iter.Seq[*DataContext]) iter.Seq2[*DataContext, any] {
	withPredicate := pushResults(r.evaluate(currentLocation, e.Predicate, contexts))
	withIfTrue := pushResults(r.evaluate(currentLocation, e.IfTrue, withPredicate))
	ifFalsePairs := r.evaluate(currentLocation, e.IfFalse, withIfTrue)
	return func(yield func(*DataContext, any) bool) {
		for ctx, ifFalse := range ifFalsePairs {
			ifTrue := ctx.PopValue()
			predicate := ctx.PopValue()
			result := ifFalse
			if b, ok := predicate.(bool); ok && b {
				result = ifTrue
			}
			if !yield(ctx, result) {
				return
			}
		}
	}
}
