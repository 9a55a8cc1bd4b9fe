package interpreter

import (
	"github.com/roach88/graphwalk/internal/ir"
	"github.com/roach88/graphwalk/internal/location"
)

// computePostBlockLocations determines, for every local-operations block,
// the location the traversal is logically at immediately after the block
// executes.
//
// The computation is a stack-based simulation of the traversal:
//   - MarkLocation pushes its location and resolves every queued block to it
//   - Backtrack and Unfold pop the stack; their own post-block location is
//     the new stack top
//   - QueryRoot, Traverse, Recurse, Fold, OutputSource, Filter, and
//     CoerceType queue until the next MarkLocation names their shared
//     location
//   - EndOptional inherits the current stack top
//
// Location-bearing blocks left queued after the final MarkLocation (e.g. a
// trailing OutputSource) resolve to the final stack top. Any block outside
// this closed set appearing in the local section is a fatal inconsistency.
func computePostBlockLocations(blocks []ir.BasicBlock) []location.BaseLocation {
	result := make([]location.BaseLocation, len(blocks))
	var stack []location.BaseLocation
	var queued []int

	for i, block := range blocks {
		switch b := block.(type) {
		case *ir.MarkLocation:
			stack = append(stack, b.Location)
			for _, qi := range queued {
				result[qi] = b.Location
			}
			queued = queued[:0]
			result[i] = b.Location

		case *ir.Backtrack, *ir.Unfold:
			if len(queued) > 0 {
				internalf("computePostBlockLocations", "%s at index %d with unresolved location-bearing blocks", ir.BlockName(block), i)
			}
			if len(stack) < 2 {
				internalf("computePostBlockLocations", "%s at index %d underflows the location stack", ir.BlockName(block), i)
			}
			stack = stack[:len(stack)-1]
			result[i] = stack[len(stack)-1]

		case *ir.EndOptional:
			if len(stack) == 0 {
				internalf("computePostBlockLocations", "EndOptional at index %d with empty location stack", i)
			}
			result[i] = stack[len(stack)-1]

		case *ir.QueryRoot, *ir.Traverse, *ir.Recurse, *ir.Fold, *ir.OutputSource, *ir.Filter, *ir.CoerceType:
			queued = append(queued, i)

		default:
			internalf("computePostBlockLocations", "unexpected %s in local-operations section at index %d", ir.BlockName(block), i)
		}
	}

	if len(queued) > 0 {
		if len(stack) == 0 {
			internalf("computePostBlockLocations", "local section ends with unresolved blocks and no marked location")
		}
		top := stack[len(stack)-1]
		for _, qi := range queued {
			result[qi] = top
		}
	}
	return result
}
