package interpreter

import (
	"iter"

	"github.com/roach88/graphwalk/internal/ir"
	"github.com/roach88/graphwalk/internal/location"
)

// handleRecurse expands each active context along the block's edge for
// block.Depth levels, re-emitting every vertex visited at every level
// exactly once, the starting vertex included. Depth 1 is the vertex itself
// plus its immediate neighbors.
//
// Contexts are processed one input context at a time, so depth levels
// interleave context-by-context rather than globally depth-first across the
// batch. Already-inactive contexts pass through unchanged with no expansion
// attempted.
//
// The edge-source type is asymmetric: the first level leaves from vertices
// of the traversal's parent type, while every subsequent level leaves from
// vertices of the recursed-into type itself.
func (r *run) handleRecurse(postBlockLocation location.BaseLocation, block *ir.Recurse, contexts iter.Seq[*DataContext]) iter.Seq[*DataContext] {
	if block.Depth < 1 {
		internalf("handleRecurse", "recursion depth must be at least 1, got %d", block.Depth)
	}
	vertex := postBlockLocation.AtVertex()
	info := r.metadata.GetLocationInfo(vertex)
	if info.ParentLocation == nil {
		internalf("handleRecurse", "recurse destination %s has no parent location", vertex)
	}
	parentType := r.metadata.GetLocationInfo(info.ParentLocation.AtVertex()).Type
	recurseType := info.Type
	edge := ir.EdgeDescriptor{Direction: block.Direction, Name: block.EdgeName}
	hints := r.hints.Get(vertex)

	return func(yield func(*DataContext) bool) {
		for ctx := range contexts {
			if !ctx.Active() {
				if !yield(ctx) {
					return
				}
				continue
			}
			for _, out := range r.expandRecurse(ctx, block.Depth, edge, parentType, recurseType, hints) {
				if !yield(out) {
					return
				}
			}
		}
	}
}

// expandRecurse performs the iterative level-by-level expansion for one
// active context.
//
// At each level every context visited so far is fed through the adapter's
// neighbor projection. A context that expands is immediately "parked": its
// token is pushed onto its own stack and it is deactivated, so later levels
// see it yield zero neighbors and never mistake it for a fresh frontier
// vertex. After the final level every parked context is unparked, restoring
// its token, so the returned slice holds every visited vertex exactly once
// in visit order.
func (r *run) expandRecurse(ctx *DataContext, depth int, edge ir.EdgeDescriptor, parentType, recurseType string, hints *VertexHints) []*DataContext {
	visited := []*DataContext{ctx}
	parked := make(map[*DataContext]bool)

	for level := 0; level < depth; level++ {
		sourceType := recurseType
		if level == 0 {
			sourceType = parentType
		}

		frontier := make([]*DataContext, len(visited))
		copy(frontier, visited)

		for c, neighbors := range r.adapter.ProjectNeighbors(seqOf(frontier...), sourceType, edge, hints) {
			if parked[c] {
				// Parked contexts carry a nil token and yield no neighbors;
				// drain and move on.
				continue
			}
			for neighbor := range neighbors {
				visited = append(visited, c.Split(neighbor))
			}
			c.PushValue(c.CurrentToken())
			c.SetCurrentToken(nil)
			parked[c] = true
		}
	}

	for c := range parked {
		c.SetCurrentToken(c.PopValue())
	}
	return visited
}
