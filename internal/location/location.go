package location

import (
	"fmt"
	"strings"
)

// EdgeDirectionOut and EdgeDirectionIn are the two traversal directions an
// edge may be followed in.
const (
	EdgeDirectionOut = "out"
	EdgeDirectionIn  = "in"
)

// BaseLocation is a sealed interface over the two addressing schemes:
// Location (ordinary full-path addressing) and FoldScopeLocation
// (addressing relative to the base of a @fold scope).
//
// The marker method seals the interface to this package, which makes type
// switches over the two variants exhaustive.
type BaseLocation interface {
	baseLocation() // Marker method - seals interface to this package

	// Key returns a stable string identity. Two locations name the same
	// logical point in a query iff their keys are equal, so Key doubles as
	// the map key everywhere locations index a map.
	Key() string

	// Field returns the property-field component, or "" when the location
	// is positioned at a vertex rather than at one of its fields.
	Field() string

	// AtVertex returns the same location with any field component stripped.
	AtVertex() BaseLocation

	// NavigateToField returns the same location repositioned at the named
	// property field. Panics if the location is already field-positioned.
	NavigateToField(field string) BaseLocation

	fmt.Stringer
}

// Location identifies a vertex (or a property field on a vertex) reached by
// a specific traversal path from the query root.
//
// Identity is the (queryPath, field, visitCounter) triple. The visit counter
// disambiguates semantically distinct re-visits of the same path, such as
// two different @optional backtrack targets that happen to share a path.
//
// Location values are immutable; navigation methods return new values.
type Location struct {
	queryPath    []string
	field        string
	visitCounter int
}

// NewLocation creates a vertex-positioned Location for the given query path
// with a visit counter of 1.
func NewLocation(queryPath ...string) Location {
	return Location{queryPath: queryPath, visitCounter: 1}
}

func (Location) baseLocation() {}

// QueryPath returns the ordered edge-field names from the query root.
// The returned slice must not be mutated.
func (l Location) QueryPath() []string { return l.queryPath }

// Field returns the property-field name, or "" at a vertex.
func (l Location) Field() string { return l.field }

// VisitCounter returns the 1-based revisit counter.
func (l Location) VisitCounter() int { return l.visitCounter }

// IsAtVertex reports whether the location is positioned at a vertex rather
// than at a property field.
func (l Location) IsAtVertex() bool { return l.field == "" }

// NavigateToSubpath returns the child vertex location one path component
// deeper, at visit counter 1. Panics if the location is field-positioned:
// property fields cannot be navigated into.
func (l Location) NavigateToSubpath(child string) Location {
	if l.field != "" {
		violate("NavigateToSubpath", "cannot navigate into a child from field-positioned location %s", l)
	}
	path := make([]string, len(l.queryPath)+1)
	copy(path, l.queryPath)
	path[len(l.queryPath)] = child
	return Location{queryPath: path, visitCounter: 1}
}

// Revisit returns a new Location for the same path with the visit counter
// incremented. Panics if the location is field-positioned.
func (l Location) Revisit() Location {
	if l.field != "" {
		violate("Revisit", "cannot revisit field-positioned location %s", l)
	}
	return Location{queryPath: l.queryPath, visitCounter: l.visitCounter + 1}
}

// NavigateToField returns the same location repositioned at the named
// property field. Panics if the location is already field-positioned.
func (l Location) NavigateToField(field string) BaseLocation {
	if l.field != "" {
		violate("NavigateToField", "location %s is already at field %q", l, l.field)
	}
	return Location{queryPath: l.queryPath, field: field, visitCounter: l.visitCounter}
}

// AtVertex returns the same location with any field component stripped.
func (l Location) AtVertex() BaseLocation {
	return Location{queryPath: l.queryPath, visitCounter: l.visitCounter}
}

// atVertex is AtVertex with the concrete type preserved, for internal use.
func (l Location) atVertex() Location {
	return Location{queryPath: l.queryPath, visitCounter: l.visitCounter}
}

// Equal reports value equality: same path, field, and visit counter.
func (l Location) Equal(other Location) bool {
	return l.Key() == other.Key()
}

// Key returns the stable string identity of the location.
//
// Path components, field names, and GraphQL identifiers in general cannot
// contain "/" or "|", so the encoding is collision-free.
func (l Location) Key() string {
	return fmt.Sprintf("%s|%s|%d", strings.Join(l.queryPath, "/"), l.field, l.visitCounter)
}

func (l Location) String() string {
	if l.field != "" {
		return fmt.Sprintf("Location(%s.%s, visit %d)", strings.Join(l.queryPath, "/"), l.field, l.visitCounter)
	}
	return fmt.Sprintf("Location(%s, visit %d)", strings.Join(l.queryPath, "/"), l.visitCounter)
}

// FoldScopeLocation identifies a vertex (or one of its property fields)
// inside a @fold scope, relative to the base vertex the fold hangs off.
//
// Folds need a naming scheme distinct from the ordinary full-path scheme:
// intermediate vertices inside a fold traversal must each carry a unique,
// stable name even though normal location naming only encodes the terminal
// edge. Only a single fold level is supported; nesting folds is disallowed
// by construction.
type FoldScopeLocation struct {
	base      Location
	direction string
	edgeName  string
	field     string
}

// NewFoldScopeLocation creates a fold-scope location for the fold traversing
// the given edge out of base. Panics if base is field-positioned or the
// direction is not "out" or "in".
func NewFoldScopeLocation(base Location, direction, edgeName string) FoldScopeLocation {
	if base.Field() != "" {
		violate("NewFoldScopeLocation", "fold base must be vertex-positioned, got %s", base)
	}
	if direction != EdgeDirectionOut && direction != EdgeDirectionIn {
		violate("NewFoldScopeLocation", "invalid edge direction %q", direction)
	}
	return FoldScopeLocation{base: base, direction: direction, edgeName: edgeName}
}

func (FoldScopeLocation) baseLocation() {}

// BaseLocation returns the non-fold vertex location the fold hangs off.
func (f FoldScopeLocation) BaseLocation() Location { return f.base }

// RelativePosition returns the (direction, edge name) pair of the single
// fold level.
func (f FoldScopeLocation) RelativePosition() (string, string) { return f.direction, f.edgeName }

// Field returns the property-field name, or "" at a vertex.
func (f FoldScopeLocation) Field() string { return f.field }

// NavigateToField returns the same fold-scope location repositioned at the
// named property field. Panics if already field-positioned.
func (f FoldScopeLocation) NavigateToField(field string) BaseLocation {
	if f.field != "" {
		violate("NavigateToField", "fold-scope location %s is already at field %q", f, f.field)
	}
	return FoldScopeLocation{base: f.base, direction: f.direction, edgeName: f.edgeName, field: field}
}

// AtVertex returns the same fold-scope location with any field component
// stripped.
func (f FoldScopeLocation) AtVertex() BaseLocation {
	return FoldScopeLocation{base: f.base, direction: f.direction, edgeName: f.edgeName}
}

// Key returns the stable string identity of the fold-scope location.
// The "fold:" prefix keeps fold keys disjoint from ordinary location keys.
func (f FoldScopeLocation) Key() string {
	return fmt.Sprintf("fold:%s|%s_%s|%s", f.base.Key(), f.direction, f.edgeName, f.field)
}

func (f FoldScopeLocation) String() string {
	if f.field != "" {
		return fmt.Sprintf("FoldScopeLocation(%s, %s_%s.%s)", f.base, f.direction, f.edgeName, f.field)
	}
	return fmt.Sprintf("FoldScopeLocation(%s, %s_%s)", f.base, f.direction, f.edgeName)
}

// ParseEdgeField splits a traversal path component like "out_Animal_ParentOf"
// into its direction and edge name ("out", "Animal_ParentOf"). Panics if the
// component carries neither direction prefix; path components that reach a
// child vertex always encode the edge they traversed.
func ParseEdgeField(component string) (direction, edgeName string) {
	switch {
	case strings.HasPrefix(component, "out_"):
		return EdgeDirectionOut, strings.TrimPrefix(component, "out_")
	case strings.HasPrefix(component, "in_"):
		return EdgeDirectionIn, strings.TrimPrefix(component, "in_")
	default:
		violate("ParseEdgeField", "path component %q has no edge direction prefix", component)
		return "", "" // unreachable
	}
}
