package location

// LocationInfo is everything the compiler resolved about one registered
// location.
type LocationInfo struct {
	// ParentLocation is the location this one was reached from. Nil only
	// for the query root and for revisits of the root.
	ParentLocation BaseLocation

	// Type is the resolved type name of the vertex at this location,
	// reflecting any coercion already recorded.
	Type string

	// CoercedFromType is the pre-coercion type name, or "" if the location
	// was never coerced. A location may be coerced at most once, so the
	// original type is never lost.
	CoercedFromType string

	// OptionalScopesDepth counts the enclosing @optional scopes.
	OptionalScopesDepth int

	// RecursiveScopesDepth counts the enclosing @recurse scopes.
	RecursiveScopesDepth int

	// IsWithinFold marks locations inside a @fold scope.
	IsWithinFold bool
}

// OutputInfo describes one declared query output.
type OutputInfo struct {
	// Location is the field-positioned location the output reads from.
	Location BaseLocation

	// Type is the output's resolved type name.
	Type string

	// OptionalScope marks outputs produced inside an @optional scope,
	// which may surface as null in result rows.
	OptionalScope bool
}

// TagInfo describes one declared @tag; same shape as OutputInfo.
type TagInfo struct {
	Location      BaseLocation
	Type          string
	OptionalScope bool
}

// FilterInfo describes one @filter annotation attributed to a vertex.
type FilterInfo struct {
	// Fields lists the property fields the filter reads.
	Fields []string

	// Operator is the filter operator name, e.g. "=" or "has_substring".
	Operator string

	// Operands holds the filter's operand expressions. They are stored
	// opaquely here; the ir package defines their concrete types.
	Operands []any
}

// RecurseInfo describes one @recurse annotation attributed to a vertex.
type RecurseInfo struct {
	EdgeDirection string
	EdgeName      string
	Depth         int
}

type locationEntry struct {
	location BaseLocation
	info     LocationInfo
}

// QueryMetadataTable is the authoritative record of everything discovered
// about a single compiled query.
//
// The table is constructed with just the root location and grows
// monotonically as the lowering pass registers every vertex it visits,
// records outputs/tags/filters/recurse annotations, and performs revisits
// when a traversal backtracks. Once compilation finishes the table is
// effectively immutable and is shared read-only by every later pass.
//
// INVARIANTS:
//   - every location except the root and root-revisits has a registered,
//     previously-registered parent
//   - a location is registered exactly once
//   - a location is coerced at most once
//   - fold-scope locations are never revisit origins or revisit targets
//
// The two revisit maps mirror each other and are only ever mutated through
// RevisitLocation, which keeps them in sync.
type QueryMetadataTable struct {
	rootLocation Location

	locations map[string]locationEntry
	outputs   map[string]OutputInfo
	tags      map[string]TagInfo
	filters   map[string][]FilterInfo
	recurses  map[string][]RecurseInfo

	// revisitOrigins maps a revisiting location's key to its origin; the
	// origin is always the original location, never an intermediate revisit.
	revisitOrigins map[string]Location

	// revisits maps an origin location's key to every revisit of it, in
	// registration order.
	revisits map[string][]Location

	children map[string][]BaseLocation
}

// NewQueryMetadataTable creates a table holding only the registered root.
// Panics if the root is field-positioned.
func NewQueryMetadataTable(root Location, rootInfo LocationInfo) *QueryMetadataTable {
	if root.Field() != "" {
		violate("NewQueryMetadataTable", "root must be vertex-positioned, got %s", root)
	}
	t := &QueryMetadataTable{
		rootLocation:   root,
		locations:      make(map[string]locationEntry),
		outputs:        make(map[string]OutputInfo),
		tags:           make(map[string]TagInfo),
		filters:        make(map[string][]FilterInfo),
		recurses:       make(map[string][]RecurseInfo),
		revisitOrigins: make(map[string]Location),
		revisits:       make(map[string][]Location),
		children:       make(map[string][]BaseLocation),
	}
	t.RegisterLocation(root, rootInfo)
	return t
}

// RootLocation returns the query root.
func (t *QueryMetadataTable) RootLocation() Location { return t.rootLocation }

// RegisterLocation inserts a new location/info pair.
//
// Panics if the location is already registered, is field-positioned, or has
// a nil parent while being neither the root nor a revisit of the root. The
// parent, when present, must itself already be registered.
func (t *QueryMetadataTable) RegisterLocation(loc BaseLocation, info LocationInfo) {
	key := loc.Key()
	if loc.Field() != "" {
		violate("RegisterLocation", "cannot register field-positioned location %s", loc)
	}
	if _, ok := t.locations[key]; ok {
		violate("RegisterLocation", "location %s is already registered", loc)
	}
	if info.ParentLocation == nil {
		if !t.isRootPath(loc) {
			violate("RegisterLocation", "non-root location %s registered without a parent", loc)
		}
	} else {
		parentKey := info.ParentLocation.AtVertex().Key()
		if _, ok := t.locations[parentKey]; !ok {
			violate("RegisterLocation", "parent %s of location %s is not registered", info.ParentLocation, loc)
		}
		t.children[parentKey] = append(t.children[parentKey], loc)
	}
	t.locations[key] = locationEntry{location: loc, info: info}
}

// isRootPath reports whether loc shares the root's query path, i.e. is the
// root itself or a revisit of it.
func (t *QueryMetadataTable) isRootPath(loc BaseLocation) bool {
	l, ok := loc.(Location)
	if !ok {
		return false
	}
	return samePath(l, t.rootLocation)
}

func samePath(a, b Location) bool {
	ap, bp := a.QueryPath(), b.QueryPath()
	if len(ap) != len(bp) {
		return false
	}
	for i := range ap {
		if ap[i] != bp[i] {
			return false
		}
	}
	return true
}

// RevisitLocation registers a revisit of loc and returns the new location.
//
// The revisit's origin is resolved transitively, so a revisit of a revisit
// still points at the original location. The new location carries the
// current LocationInfo of loc verbatim, reflecting any coercion already
// recorded, not a stale snapshot from registration time.
func (t *QueryMetadataTable) RevisitLocation(loc Location) Location {
	if loc.Field() != "" {
		violate("RevisitLocation", "cannot revisit field-positioned location %s", loc)
	}
	entry, ok := t.locations[loc.Key()]
	if !ok {
		violate("RevisitLocation", "location %s is not registered", loc)
	}

	origin := loc
	if o, ok := t.revisitOrigins[loc.Key()]; ok {
		origin = o
	}

	revisited := loc.Revisit()
	t.RegisterLocation(revisited, entry.info)
	t.revisitOrigins[revisited.Key()] = origin
	t.revisits[origin.Key()] = append(t.revisits[origin.Key()], revisited)
	return revisited
}

// RecordCoercionAtLocation replaces the location's type with newType and
// stores the old type as CoercedFromType. Panics if the location is
// unregistered or was already coerced.
func (t *QueryMetadataTable) RecordCoercionAtLocation(loc BaseLocation, newType string) {
	key := loc.AtVertex().Key()
	entry, ok := t.locations[key]
	if !ok {
		violate("RecordCoercionAtLocation", "location %s is not registered", loc)
	}
	if entry.info.CoercedFromType != "" {
		violate("RecordCoercionAtLocation", "location %s was already coerced from %q", loc, entry.info.CoercedFromType)
	}
	entry.info.CoercedFromType = entry.info.Type
	entry.info.Type = newType
	t.locations[key] = entry
}

// GetLocationInfo returns the info registered for loc. Panics if the
// location is unregistered.
func (t *QueryMetadataTable) GetLocationInfo(loc BaseLocation) LocationInfo {
	entry, ok := t.locations[loc.AtVertex().Key()]
	if !ok {
		violate("GetLocationInfo", "location %s is not registered", loc)
	}
	return entry.info
}

// IsRegistered reports whether loc has been registered.
func (t *QueryMetadataTable) IsRegistered(loc BaseLocation) bool {
	_, ok := t.locations[loc.AtVertex().Key()]
	return ok
}

// RecordOutputInfo registers a named output. Panics on duplicate names.
func (t *QueryMetadataTable) RecordOutputInfo(name string, info OutputInfo) {
	if _, ok := t.outputs[name]; ok {
		violate("RecordOutputInfo", "output %q is already recorded", name)
	}
	t.outputs[name] = info
}

// GetOutputInfo returns the info for a named output, if recorded.
func (t *QueryMetadataTable) GetOutputInfo(name string) (OutputInfo, bool) {
	info, ok := t.outputs[name]
	return info, ok
}

// Outputs returns the output registry. The returned map must not be mutated.
func (t *QueryMetadataTable) Outputs() map[string]OutputInfo { return t.outputs }

// RecordTagInfo registers a named tag. Panics on duplicate names.
func (t *QueryMetadataTable) RecordTagInfo(name string, info TagInfo) {
	if _, ok := t.tags[name]; ok {
		violate("RecordTagInfo", "tag %q is already recorded", name)
	}
	t.tags[name] = info
}

// GetTagInfo returns the info for a named tag, if recorded.
func (t *QueryMetadataTable) GetTagInfo(name string) (TagInfo, bool) {
	info, ok := t.tags[name]
	return info, ok
}

// Tags returns the tag registry. The returned map must not be mutated.
func (t *QueryMetadataTable) Tags() map[string]TagInfo { return t.tags }

// RecordFilterInfo attributes a filter annotation to loc. The location is
// normalized to its vertex form first: a filter on a property field belongs
// to the owning vertex.
func (t *QueryMetadataTable) RecordFilterInfo(loc BaseLocation, info FilterInfo) {
	key := loc.AtVertex().Key()
	t.filters[key] = append(t.filters[key], info)
}

// GetFilterInfos returns the filter annotations attributed to loc, empty if
// none were recorded.
func (t *QueryMetadataTable) GetFilterInfos(loc BaseLocation) []FilterInfo {
	return t.filters[loc.AtVertex().Key()]
}

// RecordRecurseInfo attributes a recurse annotation to loc, normalized to
// its vertex form.
func (t *QueryMetadataTable) RecordRecurseInfo(loc BaseLocation, info RecurseInfo) {
	key := loc.AtVertex().Key()
	t.recurses[key] = append(t.recurses[key], info)
}

// GetRecurseInfos returns the recurse annotations attributed to loc, empty
// if none were recorded.
func (t *QueryMetadataTable) GetRecurseInfos(loc BaseLocation) []RecurseInfo {
	return t.recurses[loc.AtVertex().Key()]
}

// GetChildLocations returns the locations registered with loc as parent, in
// registration order.
func (t *QueryMetadataTable) GetChildLocations(loc BaseLocation) []BaseLocation {
	return t.children[loc.AtVertex().Key()]
}

// GetAllRevisits returns every revisit of loc, in registration order.
// Returns nil for locations that were never revisited.
func (t *QueryMetadataTable) GetAllRevisits(loc Location) []Location {
	return t.revisits[loc.Key()]
}

// GetRevisitOrigin returns the original location loc is a revisit of. For a
// location that is not a revisit, it returns loc itself.
func (t *QueryMetadataTable) GetRevisitOrigin(loc Location) Location {
	if origin, ok := t.revisitOrigins[loc.Key()]; ok {
		return origin
	}
	return loc
}

// RegisteredLocations returns every registered location. Order is
// unspecified; callers needing determinism must sort by Key.
func (t *QueryMetadataTable) RegisteredLocations() []BaseLocation {
	locs := make([]BaseLocation, 0, len(t.locations))
	for _, entry := range t.locations {
		locs = append(locs, entry.location)
	}
	return locs
}
