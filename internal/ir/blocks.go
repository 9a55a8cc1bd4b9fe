package ir

import (
	"fmt"

	"github.com/roach88/graphwalk/internal/location"
)

// BasicBlock is a sealed interface over the closed IR block vocabulary.
//
// Only types in this package implement it. The interpreter's dispatch table
// type-switches over this set; any block outside it is a fatal inconsistency
// in upstream compilation.
type BasicBlock interface {
	basicBlock() // Marker method - seals interface to this package
}

// EdgeDescriptor names one traversable edge: a direction plus an edge name.
type EdgeDescriptor struct {
	// Direction is location.EdgeDirectionOut or location.EdgeDirectionIn.
	Direction string

	// Name is the edge name without its direction prefix, e.g. "Animal_ParentOf".
	Name string
}

func (e EdgeDescriptor) String() string {
	return fmt.Sprintf("%s_%s", e.Direction, e.Name)
}

// QueryRoot starts the traversal at every vertex of the given type.
// Always the first block of a compiled query.
type QueryRoot struct {
	// StartType is the root vertex type name.
	StartType string
}

func (*QueryRoot) basicBlock() {}

// Traverse moves from the current vertex to its neighbors along one edge.
// A context fans out to zero, one, or many neighbor contexts.
type Traverse struct {
	Direction string
	EdgeName  string

	// Optional marks an @optional edge: a context with zero neighbors is
	// kept alive with a nil token instead of being dropped.
	Optional bool
}

func (*Traverse) basicBlock() {}

// Backtrack returns the traversal to a previously marked location, restoring
// the token recorded there as the current token.
type Backtrack struct {
	Location location.BaseLocation

	// Optional marks backtracks that close an @optional traversal.
	Optional bool
}

func (*Backtrack) basicBlock() {}

// CoerceType narrows the current vertex to a subtype, discarding contexts
// whose token cannot be coerced.
type CoerceType struct {
	TargetType string
}

func (*CoerceType) basicBlock() {}

// Filter keeps only contexts whose predicate evaluates truthy. Contexts
// already deactivated by an unmatched @optional edge always pass through.
type Filter struct {
	Predicate Expression
}

func (*Filter) basicBlock() {}

// Fold opens a @fold scope collecting a sub-traversal into a list.
type Fold struct {
	FoldScopeLocation location.FoldScopeLocation
}

func (*Fold) basicBlock() {}

// Unfold closes the innermost @fold scope.
type Unfold struct{}

func (*Unfold) basicBlock() {}

// Recurse expands the current vertex and up to Depth further hops along one
// edge, re-emitting every intermediate vertex visited. Depth 1 means the
// vertex itself plus its immediate neighbors.
type Recurse struct {
	Direction string
	EdgeName  string
	Depth     int
}

func (*Recurse) basicBlock() {}

// MarkLocation records the current token under the given location so later
// blocks and expressions can refer back to it.
type MarkLocation struct {
	Location location.BaseLocation
}

func (*MarkLocation) basicBlock() {}

// OutputSource marks the location whose vertices source the query outputs.
type OutputSource struct{}

func (*OutputSource) basicBlock() {}

// EndOptional closes an @optional scope.
type EndOptional struct{}

func (*EndOptional) basicBlock() {}

// GlobalOperationsStart separates the location-bearing local-operations
// prefix from the post-traversal global-operations suffix. Exactly one per
// compiled query.
type GlobalOperationsStart struct{}

func (*GlobalOperationsStart) basicBlock() {}

// OutputField is one (name, expression) pair of a ConstructResult block.
type OutputField struct {
	Name  string
	Value Expression
}

// ConstructResult builds the final result rows. Always the last block of a
// compiled query. Fields are evaluated in declaration order.
type ConstructResult struct {
	Fields []OutputField
}

func (*ConstructResult) basicBlock() {}

// BlockName returns the variant name of a block, for diagnostics.
func BlockName(block BasicBlock) string {
	switch block.(type) {
	case *QueryRoot:
		return "QueryRoot"
	case *Traverse:
		return "Traverse"
	case *Backtrack:
		return "Backtrack"
	case *CoerceType:
		return "CoerceType"
	case *Filter:
		return "Filter"
	case *Fold:
		return "Fold"
	case *Unfold:
		return "Unfold"
	case *Recurse:
		return "Recurse"
	case *MarkLocation:
		return "MarkLocation"
	case *OutputSource:
		return "OutputSource"
	case *EndOptional:
		return "EndOptional"
	case *GlobalOperationsStart:
		return "GlobalOperationsStart"
	case *ConstructResult:
		return "ConstructResult"
	default:
		return fmt.Sprintf("unknown(%T)", block)
	}
}
