package irload

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/graphwalk/internal/ir"
	"github.com/roach88/graphwalk/internal/location"
)

// decodeBlocks parses the plan's block list.
func decodeBlocks(v cue.Value) ([]ir.BasicBlock, error) {
	if !v.Exists() {
		return nil, &CompileError{Field: "blocks", Message: "blocks list is required"}
	}

	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var blocks []ir.BasicBlock
	for iter.Next() {
		block, err := decodeBlock(iter.Value())
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func decodeBlock(v cue.Value) (ir.BasicBlock, error) {
	kind, err := stringField(v, "kind")
	if err != nil {
		return nil, err
	}

	switch kind {
	case "QueryRoot":
		startType, err := stringField(v, "start_type")
		if err != nil {
			return nil, err
		}
		return &ir.QueryRoot{StartType: startType}, nil

	case "Traverse":
		direction, err := stringField(v, "direction")
		if err != nil {
			return nil, err
		}
		edgeName, err := stringField(v, "edge_name")
		if err != nil {
			return nil, err
		}
		optional, err := boolField(v, "optional")
		if err != nil {
			return nil, err
		}
		return &ir.Traverse{Direction: direction, EdgeName: edgeName, Optional: optional}, nil

	case "Backtrack":
		loc, err := decodeBaseLocation(v.LookupPath(cue.ParsePath("location")))
		if err != nil {
			return nil, err
		}
		optional, err := boolField(v, "optional")
		if err != nil {
			return nil, err
		}
		return &ir.Backtrack{Location: loc, Optional: optional}, nil

	case "CoerceType":
		targetType, err := stringField(v, "target_type")
		if err != nil {
			return nil, err
		}
		return &ir.CoerceType{TargetType: targetType}, nil

	case "Filter":
		predicate, err := decodeExpression(v.LookupPath(cue.ParsePath("predicate")))
		if err != nil {
			return nil, err
		}
		return &ir.Filter{Predicate: predicate}, nil

	case "Fold":
		loc, err := decodeBaseLocation(v.LookupPath(cue.ParsePath("location")))
		if err != nil {
			return nil, err
		}
		fold, ok := loc.(location.FoldScopeLocation)
		if !ok {
			return nil, &CompileError{Field: "location", Message: "Fold requires a fold-scope location", Pos: v.Pos()}
		}
		return &ir.Fold{FoldScopeLocation: fold}, nil

	case "Unfold":
		return &ir.Unfold{}, nil

	case "Recurse":
		direction, err := stringField(v, "direction")
		if err != nil {
			return nil, err
		}
		edgeName, err := stringField(v, "edge_name")
		if err != nil {
			return nil, err
		}
		depth, err := intField(v, "depth")
		if err != nil {
			return nil, err
		}
		return &ir.Recurse{Direction: direction, EdgeName: edgeName, Depth: int(depth)}, nil

	case "MarkLocation":
		loc, err := decodeBaseLocation(v.LookupPath(cue.ParsePath("location")))
		if err != nil {
			return nil, err
		}
		return &ir.MarkLocation{Location: loc}, nil

	case "OutputSource":
		return &ir.OutputSource{}, nil

	case "EndOptional":
		return &ir.EndOptional{}, nil

	case "GlobalOperationsStart":
		return &ir.GlobalOperationsStart{}, nil

	case "ConstructResult":
		fieldsVal := v.LookupPath(cue.ParsePath("fields"))
		if !fieldsVal.Exists() {
			return nil, &CompileError{Field: "fields", Message: "ConstructResult fields are required", Pos: v.Pos()}
		}
		iter, err := fieldsVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		var fields []ir.OutputField
		for iter.Next() {
			fieldVal := iter.Value()
			name, err := stringField(fieldVal, "name")
			if err != nil {
				return nil, err
			}
			value, err := decodeExpression(fieldVal.LookupPath(cue.ParsePath("value")))
			if err != nil {
				return nil, err
			}
			fields = append(fields, ir.OutputField{Name: name, Value: value})
		}
		return &ir.ConstructResult{Fields: fields}, nil

	default:
		return nil, &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown block kind %q", kind),
			Pos:     v.Pos(),
		}
	}
}

func decodeExpression(v cue.Value) (ir.Expression, error) {
	if !v.Exists() {
		return nil, &CompileError{Field: "expression", Message: "expression is required", Pos: v.Pos()}
	}

	kind, err := stringField(v, "kind")
	if err != nil {
		return nil, err
	}

	switch kind {
	case "Literal":
		value, err := decodeScalar(v.LookupPath(cue.ParsePath("value")))
		if err != nil {
			return nil, err
		}
		return &ir.Literal{Value: value}, nil

	case "Variable":
		name, err := stringField(v, "name")
		if err != nil {
			return nil, err
		}
		inferredType, err := stringField(v, "type")
		if err != nil {
			return nil, err
		}
		return &ir.Variable{VariableName: name, InferredType: inferredType}, nil

	case "LocalField":
		field, err := stringField(v, "field")
		if err != nil {
			return nil, err
		}
		return &ir.LocalField{FieldName: field}, nil

	case "ContextField":
		loc, err := decodeBaseLocation(v.LookupPath(cue.ParsePath("location")))
		if err != nil {
			return nil, err
		}
		return &ir.ContextField{Location: loc}, nil

	case "OutputContextField":
		loc, err := decodeBaseLocation(v.LookupPath(cue.ParsePath("location")))
		if err != nil {
			return nil, err
		}
		return &ir.OutputContextField{Location: loc}, nil

	case "ContextFieldExistence":
		loc, err := decodeBaseLocation(v.LookupPath(cue.ParsePath("location")))
		if err != nil {
			return nil, err
		}
		return &ir.ContextFieldExistence{Location: loc}, nil

	case "BinaryComposition":
		operator, err := stringField(v, "op")
		if err != nil {
			return nil, err
		}
		left, err := decodeExpression(v.LookupPath(cue.ParsePath("left")))
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(v.LookupPath(cue.ParsePath("right")))
		if err != nil {
			return nil, err
		}
		return &ir.BinaryComposition{Operator: operator, Left: left, Right: right}, nil

	case "TernaryConditional":
		predicate, err := decodeExpression(v.LookupPath(cue.ParsePath("predicate")))
		if err != nil {
			return nil, err
		}
		ifTrue, err := decodeExpression(v.LookupPath(cue.ParsePath("if_true")))
		if err != nil {
			return nil, err
		}
		ifFalse, err := decodeExpression(v.LookupPath(cue.ParsePath("if_false")))
		if err != nil {
			return nil, err
		}
		return &ir.TernaryConditional{Predicate: predicate, IfTrue: ifTrue, IfFalse: ifFalse}, nil

	default:
		return nil, &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown expression kind %q", kind),
			Pos:     v.Pos(),
		}
	}
}

// decodeScalar parses a literal value: string, int, bool, or a list of
// scalars. Floats are rejected, matching the canonical JSON rules.
func decodeScalar(v cue.Value) (any, error) {
	if !v.Exists() {
		return nil, &CompileError{Field: "value", Message: "literal value is required", Pos: v.Pos()}
	}

	switch v.Kind() {
	case cue.StringKind:
		return v.String()
	case cue.IntKind:
		return v.Int64()
	case cue.BoolKind:
		return v.Bool()
	case cue.NullKind:
		return nil, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		var values []any
		for iter.Next() {
			elem, err := decodeScalar(iter.Value())
			if err != nil {
				return nil, err
			}
			values = append(values, elem)
		}
		return values, nil
	default:
		return nil, &CompileError{
			Field:   "value",
			Message: fmt.Sprintf("unsupported literal kind %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// decodeBaseLocation parses a location reference: either an ordinary
// location {path, visit, field} or a fold-scope location
// {base, direction, edge_name, field}.
func decodeBaseLocation(v cue.Value) (location.BaseLocation, error) {
	if !v.Exists() {
		return nil, &CompileError{Field: "location", Message: "location is required", Pos: v.Pos()}
	}

	if baseVal := v.LookupPath(cue.ParsePath("base")); baseVal.Exists() {
		base, err := decodeVertexLocation(baseVal)
		if err != nil {
			return nil, err
		}
		direction, err := stringField(v, "direction")
		if err != nil {
			return nil, err
		}
		edgeName, err := stringField(v, "edge_name")
		if err != nil {
			return nil, err
		}
		fold := location.NewFoldScopeLocation(base, direction, edgeName)
		field, err := optionalStringField(v, "field")
		if err != nil {
			return nil, err
		}
		if field != "" {
			return fold.NavigateToField(field), nil
		}
		return fold, nil
	}

	loc, err := decodeVertexLocation(v)
	if err != nil {
		return nil, err
	}
	field, err := optionalStringField(v, "field")
	if err != nil {
		return nil, err
	}
	if field != "" {
		return loc.NavigateToField(field), nil
	}
	return loc, nil
}

// decodeVertexLocation parses {path, visit} into a vertex-positioned
// Location. Visit defaults to 1.
func decodeVertexLocation(v cue.Value) (location.Location, error) {
	pathVal := v.LookupPath(cue.ParsePath("path"))
	if !pathVal.Exists() {
		return location.Location{}, &CompileError{Field: "path", Message: "location path is required", Pos: v.Pos()}
	}

	iter, err := pathVal.List()
	if err != nil {
		return location.Location{}, formatCUEError(err)
	}
	var path []string
	for iter.Next() {
		component, err := iter.Value().String()
		if err != nil {
			return location.Location{}, formatCUEError(err)
		}
		path = append(path, component)
	}
	if len(path) == 0 {
		return location.Location{}, &CompileError{Field: "path", Message: "location path must be non-empty", Pos: v.Pos()}
	}

	visit := int64(1)
	if visitVal := v.LookupPath(cue.ParsePath("visit")); visitVal.Exists() {
		visit, err = visitVal.Int64()
		if err != nil {
			return location.Location{}, formatCUEError(err)
		}
		if visit < 1 {
			return location.Location{}, &CompileError{Field: "visit", Message: "visit must be at least 1", Pos: v.Pos()}
		}
	}

	loc := location.NewLocation(path...)
	for i := int64(1); i < visit; i++ {
		loc = loc.Revisit()
	}
	return loc, nil
}

func stringField(v cue.Value, path string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(path))
	if !fieldVal.Exists() {
		return "", &CompileError{Field: path, Message: path + " is required", Pos: v.Pos()}
	}
	value, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return value, nil
}

func optionalStringField(v cue.Value, path string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(path))
	if !fieldVal.Exists() {
		return "", nil
	}
	value, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return value, nil
}

func boolField(v cue.Value, path string) (bool, error) {
	fieldVal := v.LookupPath(cue.ParsePath(path))
	if !fieldVal.Exists() {
		return false, nil
	}
	value, err := fieldVal.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return value, nil
}

func intField(v cue.Value, path string) (int64, error) {
	fieldVal := v.LookupPath(cue.ParsePath(path))
	if !fieldVal.Exists() {
		return 0, &CompileError{Field: path, Message: path + " is required", Pos: v.Pos()}
	}
	value, err := fieldVal.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return value, nil
}
