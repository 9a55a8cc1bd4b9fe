package interpreter

import (
	"iter"

	"github.com/roach88/graphwalk/internal/ir"
)

// Row is one produced result row, mapping output name to value. Outputs
// sourced from unmatched @optional scopes appear as nil values.
type Row map[string]any

// constructResult funnels the surviving contexts through the final
// ConstructResult block.
//
// Each context pushes an empty row accumulator onto its stack, then every
// (name, expression) pair is evaluated in declaration order, writing its
// value into the top-of-stack accumulator; evaluation of one output
// completes before the next is attempted. Finally the accumulator is popped
// off and yielded as the row. Order matters only for adapter-visible side
// effects of evaluation; the row map itself is unordered.
func (r *run) constructResult(block *ir.ConstructResult, contexts iter.Seq[*DataContext]) iter.Seq[Row] {
	seq := mapContexts(contexts, func(ctx *DataContext) *DataContext {
		ctx.PushValue(Row{})
		return ctx
	})

	for _, field := range block.Fields {
		seq = r.writeOutput(field, seq)
	}

	return func(yield func(Row) bool) {
		for ctx := range seq {
			row := ctx.PopValue().(Row)
			if !yield(row) {
				return
			}
		}
	}
}

// writeOutput evaluates one output expression per context and records the
// value into the context's row accumulator. Expression evaluation is
// stack-balanced, so the accumulator is back on top when each pair arrives.
func (r *run) writeOutput(field ir.OutputField, contexts iter.Seq[*DataContext]) iter.Seq[*DataContext] {
	return func(yield func(*DataContext) bool) {
		pairs := r.evaluate(nil, field.Value, contexts)
		for ctx, value := range pairs {
			accumulator := ctx.PeekValue().(Row)
			accumulator[field.Name] = value
			if !yield(ctx) {
				return
			}
		}
	}
}
