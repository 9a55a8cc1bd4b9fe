package interpreter

import "iter"

// seqOf yields the given contexts in order.
func seqOf(contexts ...*DataContext) iter.Seq[*DataContext] {
	return func(yield func(*DataContext) bool) {
		for _, ctx := range contexts {
			if !yield(ctx) {
				return
			}
		}
	}
}

// mapContexts lazily applies f to each context. f mutates and returns the
// same context object; allocation-free single-to-single transformations are
// the common case in block handlers.
func mapContexts(contexts iter.Seq[*DataContext], f func(*DataContext) *DataContext) iter.Seq[*DataContext] {
	return func(yield func(*DataContext) bool) {
		for ctx := range contexts {
			if !yield(f(ctx)) {
				return
			}
		}
	}
}

// pushResults pushes each pair's value onto its context's stack and yields
// the bare context, ready for a sibling sub-expression to evaluate on top.
func pushResults(pairs iter.Seq2[*DataContext, any]) iter.Seq[*DataContext] {
	return func(yield func(*DataContext) bool) {
		for ctx, value := range pairs {
			ctx.PushValue(value)
			if !yield(ctx) {
				return
			}
		}
	}
}
