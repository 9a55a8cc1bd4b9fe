package irload

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/graphwalk/internal/location"
)

// decodeMetadata builds the query metadata table from the plan's locations,
// outputs, tags, filters, and recurses sections.
//
// The locations list is processed in file order, which must therefore be
// registration order: the root first, every parent before its children, and
// each revisit after the visit it follows.
func decodeMetadata(v cue.Value) (*location.QueryMetadataTable, error) {
	locationsVal := v.LookupPath(cue.ParsePath("locations"))
	if !locationsVal.Exists() {
		return nil, &CompileError{Field: "locations", Message: "locations list is required", Pos: v.Pos()}
	}

	iter, err := locationsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var table *location.QueryMetadataTable
	index := 0
	for iter.Next() {
		entryVal := iter.Value()
		loc, err := decodeBaseLocation(entryVal)
		if err != nil {
			return nil, err
		}

		if vertexLoc, ok := loc.(location.Location); ok && vertexLoc.VisitCounter() > 1 {
			// A revisit entry re-registers an earlier location; its info is
			// carried over from the origin, not read from the file.
			if table == nil {
				return nil, &CompileError{Field: "locations", Message: "first location cannot be a revisit", Pos: entryVal.Pos()}
			}
			previous := revisitPredecessor(vertexLoc)
			revisited, err := registerRevisit(table, previous)
			if err != nil {
				return nil, err
			}
			if revisited.Key() != vertexLoc.Key() {
				return nil, &CompileError{
					Field:   "locations",
					Message: fmt.Sprintf("revisit entry %d is out of order: got %s, expected %s", index, vertexLoc, revisited),
					Pos:     entryVal.Pos(),
				}
			}
			index++
			continue
		}

		info, err := decodeLocationInfo(entryVal, table)
		if err != nil {
			return nil, err
		}

		coercedTo, err := optionalStringField(entryVal, "type")
		if err != nil {
			return nil, err
		}
		coercedFrom, err := optionalStringField(entryVal, "coerced_from")
		if err != nil {
			return nil, err
		}
		if coercedFrom != "" {
			// Register under the pre-coercion type, then record the
			// coercion so CoercedFromType is populated the same way the
			// compiler would have left it.
			info.Type = coercedFrom
		}

		if table == nil {
			rootLoc, ok := loc.(location.Location)
			if !ok {
				return nil, &CompileError{Field: "locations", Message: "root location cannot be fold-scoped", Pos: entryVal.Pos()}
			}
			if info.ParentLocation != nil {
				return nil, &CompileError{Field: "locations", Message: "root location cannot have a parent", Pos: entryVal.Pos()}
			}
			table = location.NewQueryMetadataTable(rootLoc, info)
		} else {
			if err := registerLocation(table, loc, info); err != nil {
				return nil, err
			}
		}

		if coercedFrom != "" {
			table.RecordCoercionAtLocation(loc, coercedTo)
		}
		index++
	}

	if table == nil {
		return nil, &CompileError{Field: "locations", Message: "locations list must be non-empty", Pos: v.Pos()}
	}

	if err := decodeOutputs(v, table); err != nil {
		return nil, err
	}
	if err := decodeTags(v, table); err != nil {
		return nil, err
	}
	if err := decodeFilters(v, table); err != nil {
		return nil, err
	}
	if err := decodeRecurses(v, table); err != nil {
		return nil, err
	}

	return table, nil
}

// revisitPredecessor returns the same location one visit earlier.
func revisitPredecessor(loc location.Location) location.Location {
	previous := location.NewLocation(loc.QueryPath()...)
	for i := 1; i < loc.VisitCounter()-1; i++ {
		previous = previous.Revisit()
	}
	return previous
}

// registerRevisit calls RevisitLocation, converting its registration panics
// into loader errors: a malformed plan file is user input, not a compiler
// bug.
func registerRevisit(table *location.QueryMetadataTable, previous location.Location) (revisited location.Location, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &CompileError{Field: "locations", Message: fmt.Sprint(r)}
		}
	}()
	return table.RevisitLocation(previous), nil
}

// registerLocation calls RegisterLocation, converting its panics into loader
// errors for the same reason as registerRevisit.
func registerLocation(table *location.QueryMetadataTable, loc location.BaseLocation, info location.LocationInfo) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &CompileError{Field: "locations", Message: fmt.Sprint(r)}
		}
	}()
	table.RegisterLocation(loc, info)
	return nil
}

func decodeLocationInfo(v cue.Value, table *location.QueryMetadataTable) (location.LocationInfo, error) {
	var info location.LocationInfo

	typeName, err := stringField(v, "type")
	if err != nil {
		return info, err
	}
	info.Type = typeName

	if parentVal := v.LookupPath(cue.ParsePath("parent")); parentVal.Exists() {
		parent, err := decodeBaseLocation(parentVal)
		if err != nil {
			return info, err
		}
		info.ParentLocation = parent
	}

	optionalDepth, err := optionalIntField(v, "optional_depth")
	if err != nil {
		return info, err
	}
	info.OptionalScopesDepth = int(optionalDepth)

	recursiveDepth, err := optionalIntField(v, "recursive_depth")
	if err != nil {
		return info, err
	}
	info.RecursiveScopesDepth = int(recursiveDepth)

	inFold, err := boolField(v, "in_fold")
	if err != nil {
		return info, err
	}
	info.IsWithinFold = inFold

	return info, nil
}

func decodeOutputs(v cue.Value, table *location.QueryMetadataTable) error {
	outputsVal := v.LookupPath(cue.ParsePath("outputs"))
	if !outputsVal.Exists() {
		return nil
	}

	iter, err := outputsVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		entryVal := iter.Value()

		loc, err := decodeBaseLocation(entryVal.LookupPath(cue.ParsePath("location")))
		if err != nil {
			return err
		}
		typeName, err := stringField(entryVal, "type")
		if err != nil {
			return err
		}
		optional, err := boolField(entryVal, "optional")
		if err != nil {
			return err
		}
		table.RecordOutputInfo(name, location.OutputInfo{
			Location:      loc,
			Type:          typeName,
			OptionalScope: optional,
		})
	}
	return nil
}

func decodeTags(v cue.Value, table *location.QueryMetadataTable) error {
	tagsVal := v.LookupPath(cue.ParsePath("tags"))
	if !tagsVal.Exists() {
		return nil
	}

	iter, err := tagsVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		entryVal := iter.Value()

		loc, err := decodeBaseLocation(entryVal.LookupPath(cue.ParsePath("location")))
		if err != nil {
			return err
		}
		typeName, err := stringField(entryVal, "type")
		if err != nil {
			return err
		}
		optional, err := boolField(entryVal, "optional")
		if err != nil {
			return err
		}
		table.RecordTagInfo(name, location.TagInfo{
			Location:      loc,
			Type:          typeName,
			OptionalScope: optional,
		})
	}
	return nil
}

func decodeFilters(v cue.Value, table *location.QueryMetadataTable) error {
	filtersVal := v.LookupPath(cue.ParsePath("filters"))
	if !filtersVal.Exists() {
		return nil
	}

	iter, err := filtersVal.List()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		entryVal := iter.Value()

		loc, err := decodeBaseLocation(entryVal.LookupPath(cue.ParsePath("location")))
		if err != nil {
			return err
		}
		operator, err := stringField(entryVal, "operator")
		if err != nil {
			return err
		}

		var fields []string
		if fieldsVal := entryVal.LookupPath(cue.ParsePath("fields")); fieldsVal.Exists() {
			fieldsIter, err := fieldsVal.List()
			if err != nil {
				return formatCUEError(err)
			}
			for fieldsIter.Next() {
				field, err := fieldsIter.Value().String()
				if err != nil {
					return formatCUEError(err)
				}
				fields = append(fields, field)
			}
		}

		var operands []any
		if operandsVal := entryVal.LookupPath(cue.ParsePath("operands")); operandsVal.Exists() {
			operandsIter, err := operandsVal.List()
			if err != nil {
				return formatCUEError(err)
			}
			for operandsIter.Next() {
				operand, err := decodeExpression(operandsIter.Value())
				if err != nil {
					return err
				}
				operands = append(operands, operand)
			}
		}

		table.RecordFilterInfo(loc, location.FilterInfo{
			Fields:   fields,
			Operator: operator,
			Operands: operands,
		})
	}
	return nil
}

func decodeRecurses(v cue.Value, table *location.QueryMetadataTable) error {
	recursesVal := v.LookupPath(cue.ParsePath("recurses"))
	if !recursesVal.Exists() {
		return nil
	}

	iter, err := recursesVal.List()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		entryVal := iter.Value()

		loc, err := decodeBaseLocation(entryVal.LookupPath(cue.ParsePath("location")))
		if err != nil {
			return err
		}
		direction, err := stringField(entryVal, "direction")
		if err != nil {
			return err
		}
		edgeName, err := stringField(entryVal, "edge_name")
		if err != nil {
			return err
		}
		depth, err := intField(entryVal, "depth")
		if err != nil {
			return err
		}
		table.RecordRecurseInfo(loc, location.RecurseInfo{
			EdgeDirection: direction,
			EdgeName:      edgeName,
			Depth:         int(depth),
		})
	}
	return nil
}

func optionalIntField(v cue.Value, path string) (int64, error) {
	fieldVal := v.LookupPath(cue.ParsePath(path))
	if !fieldVal.Exists() {
		return 0, nil
	}
	value, err := fieldVal.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return value, nil
}
