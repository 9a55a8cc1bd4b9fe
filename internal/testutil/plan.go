package testutil

import (
	"github.com/roach88/graphwalk/internal/interpreter"
	"github.com/roach88/graphwalk/internal/ir"
	"github.com/roach88/graphwalk/internal/location"
)

// SinglePropertyPlan builds a plan that outputs one property of every vertex
// of the given type, under the given output name.
func SinglePropertyPlan(typeName, fieldName, outputName string) *interpreter.IRAndMetadata {
	root := location.NewLocation(typeName)
	meta := location.NewQueryMetadataTable(root, location.LocationInfo{Type: typeName})
	field := root.NavigateToField(fieldName)
	meta.RecordOutputInfo(outputName, location.OutputInfo{Location: field, Type: "String"})

	return &interpreter.IRAndMetadata{
		Blocks: []ir.BasicBlock{
			&ir.QueryRoot{StartType: typeName},
			&ir.MarkLocation{Location: root},
			&ir.OutputSource{},
			&ir.GlobalOperationsStart{},
			&ir.ConstructResult{Fields: []ir.OutputField{
				{Name: outputName, Value: &ir.OutputContextField{Location: field}},
			}},
		},
		Metadata:      meta,
		InputMetadata: map[string]string{},
	}
}

// TraversePlan builds a plan that walks one edge from every vertex of
// rootType and outputs a property from each end: "source" from the root
// vertex and "neighbor" from the traversed-to vertex.
func TraversePlan(rootType, direction, edgeName, childType, fieldName string) *interpreter.IRAndMetadata {
	root := location.NewLocation(rootType)
	meta := location.NewQueryMetadataTable(root, location.LocationInfo{Type: rootType})
	child := root.NavigateToSubpath(direction + "_" + edgeName)
	meta.RegisterLocation(child, location.LocationInfo{ParentLocation: root, Type: childType})

	rootField := root.NavigateToField(fieldName)
	childField := child.NavigateToField(fieldName)
	meta.RecordOutputInfo("source", location.OutputInfo{Location: rootField, Type: "String"})
	meta.RecordOutputInfo("neighbor", location.OutputInfo{Location: childField, Type: "String"})

	return &interpreter.IRAndMetadata{
		Blocks: []ir.BasicBlock{
			&ir.QueryRoot{StartType: rootType},
			&ir.MarkLocation{Location: root},
			&ir.Traverse{Direction: direction, EdgeName: edgeName},
			&ir.MarkLocation{Location: child},
			&ir.OutputSource{},
			&ir.GlobalOperationsStart{},
			&ir.ConstructResult{Fields: []ir.OutputField{
				{Name: "source", Value: &ir.OutputContextField{Location: rootField}},
				{Name: "neighbor", Value: &ir.OutputContextField{Location: childField}},
			}},
		},
		Metadata:      meta,
		InputMetadata: map[string]string{},
	}
}
