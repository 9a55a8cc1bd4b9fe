package interpreter

import (
	"github.com/roach88/graphwalk/internal/ir"
	"github.com/roach88/graphwalk/internal/location"
)

// VertexHints is the advisory optimization bundle handed to adapters for
// one query location. Everything in it is derived from the query metadata;
// adapters may use any part of it to prefetch, push filters down, or narrow
// projections, and may equally ignore all of it. Hints never change query
// semantics.
type VertexHints struct {
	// RuntimeArguments is a defensive copy of the query arguments.
	RuntimeArguments map[string]any

	// UsedProperties is the set of property names actually read at this
	// location, from outputs and tags attributed to it or any of its
	// revisits.
	UsedProperties map[string]struct{}

	// Filters holds every filter annotation recorded for the location,
	// merged across the location and its revisits.
	Filters []location.FilterInfo

	// Neighbors pairs each traversed edge out of this location with the
	// hints for the vertex it leads to.
	Neighbors []NeighborHint
}

// NeighborHint is one (edge, neighbor hints) pair.
type NeighborHint struct {
	Edge  ir.EdgeDescriptor
	Hints *VertexHints
}

// hintCache memoizes hint bundles per location for one InterpretIR
// invocation. Hint derivation walks outputs, tags, filters, and children,
// and would otherwise be repeated on every block dispatch for the same
// location. The cache is exclusively owned by one interpretation run and
// must not be shared across queries.
type hintCache struct {
	metadata *location.QueryMetadataTable
	args     map[string]any
	hints    map[string]*VertexHints
}

func newHintCache(metadata *location.QueryMetadataTable, args map[string]any) *hintCache {
	return &hintCache{
		metadata: metadata,
		args:     args,
		hints:    make(map[string]*VertexHints),
	}
}

// Get returns the hint bundle for loc, computing and caching it on first
// use.
func (c *hintCache) Get(loc location.BaseLocation) *VertexHints {
	key := loc.AtVertex().Key()
	if h, ok := c.hints[key]; ok {
		return h
	}
	h := constructHintsForLocation(c, c.metadata, c.args, loc.AtVertex())
	c.hints[key] = h
	return h
}

// constructHintsForLocation derives the advisory hint bundle for one vertex
// location. Fold-scope children are unsupported: folds have no interpreted
// neighbor semantics to hint about.
func constructHintsForLocation(cache *hintCache, metadata *location.QueryMetadataTable, args map[string]any, loc location.BaseLocation) *VertexHints {
	hints := &VertexHints{
		RuntimeArguments: make(map[string]any, len(args)),
		UsedProperties:   make(map[string]struct{}),
	}
	for k, v := range args {
		hints.RuntimeArguments[k] = v
	}

	sameOrRevisit := func(candidate location.BaseLocation) bool {
		vertex := candidate.AtVertex()
		if vertex.Key() == loc.Key() {
			return true
		}
		if l, ok := vertex.(location.Location); ok {
			return metadata.GetRevisitOrigin(l).Key() == loc.Key()
		}
		return false
	}

	for _, info := range metadata.Outputs() {
		if sameOrRevisit(info.Location) && info.Location.Field() != "" {
			hints.UsedProperties[info.Location.Field()] = struct{}{}
		}
	}
	for _, info := range metadata.Tags() {
		if sameOrRevisit(info.Location) && info.Location.Field() != "" {
			hints.UsedProperties[info.Location.Field()] = struct{}{}
		}
	}

	hints.Filters = append(hints.Filters, metadata.GetFilterInfos(loc)...)
	if l, ok := loc.(location.Location); ok {
		for _, revisit := range metadata.GetAllRevisits(l) {
			hints.Filters = append(hints.Filters, metadata.GetFilterInfos(revisit)...)
		}
	}

	for _, child := range metadata.GetChildLocations(loc) {
		childLoc, ok := child.(location.Location)
		if !ok {
			panic(NotImplementedError{Feature: "neighbor hints for fold-scope child locations"})
		}
		path := childLoc.QueryPath()
		direction, edgeName := location.ParseEdgeField(path[len(path)-1])
		hints.Neighbors = append(hints.Neighbors, NeighborHint{
			Edge:  ir.EdgeDescriptor{Direction: direction, Name: edgeName},
			Hints: cache.Get(childLoc),
		})
	}

	return hints
}
