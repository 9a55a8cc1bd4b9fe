package interpreter

import (
	"iter"

	"github.com/roach88/graphwalk/internal/ir"
	"github.com/roach88/graphwalk/internal/location"
)

// generateBlockOutputs dispatches one block over the closed block
// vocabulary, transforming the lazily produced context sequence according
// to the block's semantics.
//
// postBlockLocation is the location the traversal is logically at after the
// block executes; nil for global-section blocks. EndOptional and
// GlobalOperationsStart are pass-throughs. QueryRoot and ConstructResult
// never reach dispatch: orchestration drives them directly at the two ends
// of the pipeline, so their appearance here is a fatal inconsistency, as is
// any block outside the closed set.
func (r *run) generateBlockOutputs(postBlockLocation location.BaseLocation, block ir.BasicBlock, contexts iter.Seq[*DataContext]) iter.Seq[*DataContext] {
	switch b := block.(type) {
	case *ir.MarkLocation:
		return r.handleMarkLocation(b, contexts)
	case *ir.Backtrack:
		return r.handleBacktrack(b, contexts)
	case *ir.Traverse:
		return r.handleTraverse(postBlockLocation, b, contexts)
	case *ir.CoerceType:
		return r.handleCoerceType(postBlockLocation, b, contexts)
	case *ir.Filter:
		return r.handleFilter(postBlockLocation, b, contexts)
	case *ir.Recurse:
		return r.handleRecurse(postBlockLocation, b, contexts)
	case *ir.OutputSource, *ir.EndOptional, *ir.GlobalOperationsStart:
		return contexts
	case *ir.Fold, *ir.Unfold:
		panic(NotImplementedError{Feature: "interpretation of @fold scopes"})
	default:
		internalf("generateBlockOutputs", "unhandled block %s", ir.BlockName(block))
		return nil // unreachable
	}
}

// handleMarkLocation records each context's current token under the block's
// location. Identity-preserving; tokens flow through unchanged.
func (r *run) handleMarkLocation(block *ir.MarkLocation, contexts iter.Seq[*DataContext]) iter.Seq[*DataContext] {
	return mapContexts(contexts, func(ctx *DataContext) *DataContext {
		ctx.RecordLocation(block.Location)
		return ctx
	})
}

// handleBacktrack returns each context to an earlier vertex by restoring
// the token previously recorded at the block's location.
func (r *run) handleBacktrack(block *ir.Backtrack, contexts iter.Seq[*DataContext]) iter.Seq[*DataContext] {
	return mapContexts(contexts, func(ctx *DataContext) *DataContext {
		token, ok := ctx.TokenAt(block.Location)
		if !ok {
			internalf("handleBacktrack", "backtrack target %s was never marked", block.Location)
		}
		ctx.SetCurrentToken(token)
		return ctx
	})
}

// handleTraverse fans each context out to one new context per neighbor
// along the block's edge. The edge is resolved against the type of the
// *parent* location: the post-block location is the traversal's
// destination, and the edge hangs off the vertex it was reached from.
//
// For an @optional edge, a context with zero neighbors is kept alive once
// with a nil token instead of being dropped. Contexts that were already
// inactive before the traverse are not special-cased: the adapter contract
// yields them zero neighbors, so they degrade to a single nil-token context
// under @optional and disappear otherwise.
func (r *run) handleTraverse(postBlockLocation location.BaseLocation, block *ir.Traverse, contexts iter.Seq[*DataContext]) iter.Seq[*DataContext] {
	destination := postBlockLocation.AtVertex()
	parent := r.metadata.GetLocationInfo(destination).ParentLocation
	if parent == nil {
		internalf("handleTraverse", "traverse destination %s has no parent location", destination)
	}
	parentType := r.metadata.GetLocationInfo(parent.AtVertex()).Type
	edge := ir.EdgeDescriptor{Direction: block.Direction, Name: block.EdgeName}

	return func(yield func(*DataContext) bool) {
		pairs := r.adapter.ProjectNeighbors(contexts, parentType, edge, r.hints.Get(destination))
		for ctx, neighbors := range pairs {
			emitted := 0
			for neighbor := range neighbors {
				if !yield(ctx.Split(neighbor)) {
					return
				}
				emitted++
			}
			if emitted == 0 && block.Optional {
				ctx.SetCurrentToken(nil)
				if !yield(ctx) {
					return
				}
			}
		}
	}
}

// handleCoerceType keeps only contexts whose token can be coerced to the
// target type. The adapter is queried with the *pre-coercion* type recorded
// at the location; by the time this block runs, the metadata already
// reflects the coercion, so the original type lives in CoercedFromType.
// Inactive contexts pass through: coercion is vacuously true for them.
func (r *run) handleCoerceType(postBlockLocation location.BaseLocation, block *ir.CoerceType, contexts iter.Seq[*DataContext]) iter.Seq[*DataContext] {
	vertex := postBlockLocation.AtVertex()
	info := r.metadata.GetLocationInfo(vertex)
	if info.CoercedFromType == "" {
		internalf("handleCoerceType", "location %s has no recorded coercion", vertex)
	}

	return func(yield func(*DataContext) bool) {
		pairs := r.adapter.CanCoerceToType(contexts, info.CoercedFromType, block.TargetType, r.hints.Get(vertex))
		for ctx, ok := range pairs {
			if !ctx.Active() || ok {
				if !yield(ctx) {
					return
				}
			}
		}
	}
}

// handleFilter keeps contexts whose predicate is truthy. An inactive
// context always passes: filters never reactivate or kill already-dead
// optional branches.
func (r *run) handleFilter(postBlockLocation location.BaseLocation, block *ir.Filter, contexts iter.Seq[*DataContext]) iter.Seq[*DataContext] {
	return func(yield func(*DataContext) bool) {
		pairs := r.evaluate(postBlockLocation, block.Predicate, contexts)
		for ctx, value := range pairs {
			keep := !ctx.Active()
			if b, ok := value.(bool); ok && b {
				keep = true
			}
			if keep {
				if !yield(ctx) {
					return
				}
			}
		}
	}
}
