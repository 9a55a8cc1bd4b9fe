package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphwalk/internal/ir"
	"github.com/roach88/graphwalk/internal/location"
)

func TestHintConstruction(t *testing.T) {
	root := location.NewLocation("Animal")
	meta := location.NewQueryMetadataTable(root, location.LocationInfo{Type: "Animal"})
	child := root.NavigateToSubpath("out_Animal_OfSpecies")
	meta.RegisterLocation(child, location.LocationInfo{ParentLocation: root, Type: "Species"})

	meta.RecordOutputInfo("animal_name", location.OutputInfo{Location: root.NavigateToField("name"), Type: "String"})
	meta.RecordOutputInfo("species_name", location.OutputInfo{Location: child.NavigateToField("name"), Type: "String"})
	meta.RecordTagInfo("color_tag", location.TagInfo{Location: root.NavigateToField("color"), Type: "String"})
	meta.RecordFilterInfo(root, location.FilterInfo{Fields: []string{"color"}, Operator: "="})

	args := map[string]any{"wanted": "gold"}
	cache := newHintCache(meta, args)

	hints := cache.Get(root)
	require.NotNil(t, hints)

	assert.Equal(t, args, hints.RuntimeArguments)
	assert.Equal(t, map[string]struct{}{"name": {}, "color": {}}, hints.UsedProperties)
	require.Len(t, hints.Filters, 1)
	assert.Equal(t, "=", hints.Filters[0].Operator)

	require.Len(t, hints.Neighbors, 1)
	assert.Equal(t, ir.EdgeDescriptor{Direction: "out", Name: "Animal_OfSpecies"}, hints.Neighbors[0].Edge)
	assert.Equal(t, map[string]struct{}{"name": {}}, hints.Neighbors[0].Hints.UsedProperties)
}

func TestHintConstructionAttributesRevisits(t *testing.T) {
	root := location.NewLocation("Animal")
	meta := location.NewQueryMetadataTable(root, location.LocationInfo{Type: "Animal"})
	child := root.NavigateToSubpath("out_Animal_OfSpecies")
	meta.RegisterLocation(child, location.LocationInfo{ParentLocation: root, Type: "Species"})
	revisit := meta.RevisitLocation(root)

	// Outputs and filters recorded against the revisit belong to the origin.
	meta.RecordOutputInfo("animal_name", location.OutputInfo{Location: revisit.NavigateToField("name"), Type: "String"})
	meta.RecordFilterInfo(revisit, location.FilterInfo{Fields: []string{"name"}, Operator: "has_substring"})

	cache := newHintCache(meta, nil)
	hints := cache.Get(root)

	assert.Equal(t, map[string]struct{}{"name": {}}, hints.UsedProperties)
	require.Len(t, hints.Filters, 1)
	assert.Equal(t, "has_substring", hints.Filters[0].Operator)
}

func TestHintCacheMemoizes(t *testing.T) {
	root := location.NewLocation("Animal")
	meta := location.NewQueryMetadataTable(root, location.LocationInfo{Type: "Animal"})

	cache := newHintCache(meta, nil)
	assert.Same(t, cache.Get(root), cache.Get(root))

	// Field-positioned lookups normalize to the owning vertex.
	assert.Same(t, cache.Get(root), cache.Get(root.NavigateToField("name")))
}

func TestHintConstructionRejectsFoldChildren(t *testing.T) {
	root := location.NewLocation("Animal")
	meta := location.NewQueryMetadataTable(root, location.LocationInfo{Type: "Animal"})
	fold := location.NewFoldScopeLocation(root, "out", "Animal_ParentOf")
	meta.RegisterLocation(fold, location.LocationInfo{ParentLocation: root, Type: "Animal", IsWithinFold: true})

	cache := newHintCache(meta, nil)
	assert.Panics(t, func() { cache.Get(root) })
}
