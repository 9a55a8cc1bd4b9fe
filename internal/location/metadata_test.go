package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) (*QueryMetadataTable, Location) {
	t.Helper()
	root := NewLocation("Animal")
	table := NewQueryMetadataTable(root, LocationInfo{Type: "Animal"})
	return table, root
}

func TestRegisterLocation(t *testing.T) {
	t.Run("root is registered at construction", func(t *testing.T) {
		table, root := newTestTable(t)
		info := table.GetLocationInfo(root)
		assert.Equal(t, "Animal", info.Type)
		assert.Nil(t, info.ParentLocation)
	})

	t.Run("child with registered parent", func(t *testing.T) {
		table, root := newTestTable(t)
		child := root.NavigateToSubpath("out_Animal_ParentOf")
		table.RegisterLocation(child, LocationInfo{ParentLocation: root, Type: "Animal"})

		children := table.GetChildLocations(root)
		require.Len(t, children, 1)
		assert.Equal(t, child.Key(), children[0].Key())
	})

	t.Run("double registration panics", func(t *testing.T) {
		table, root := newTestTable(t)
		assert.Panics(t, func() {
			table.RegisterLocation(root, LocationInfo{Type: "Animal"})
		})
	})

	t.Run("field-positioned location panics", func(t *testing.T) {
		table, root := newTestTable(t)
		assert.Panics(t, func() {
			table.RegisterLocation(root.NavigateToField("name"), LocationInfo{ParentLocation: root, Type: "String"})
		})
	})

	t.Run("non-root location without parent panics", func(t *testing.T) {
		table, root := newTestTable(t)
		child := root.NavigateToSubpath("out_Animal_ParentOf")
		assert.Panics(t, func() {
			table.RegisterLocation(child, LocationInfo{Type: "Animal"})
		})
	})

	t.Run("unregistered parent panics", func(t *testing.T) {
		table, root := newTestTable(t)
		stranger := NewLocation("Species")
		child := root.NavigateToSubpath("out_Animal_OfSpecies")
		assert.Panics(t, func() {
			table.RegisterLocation(child, LocationInfo{ParentLocation: stranger, Type: "Species"})
		})
	})
}

func TestRevisitLocation(t *testing.T) {
	t.Run("revisit of root needs no parent", func(t *testing.T) {
		table, root := newTestTable(t)
		revisited := table.RevisitLocation(root)
		assert.Equal(t, 2, revisited.VisitCounter())
		assert.Nil(t, table.GetLocationInfo(revisited).ParentLocation)
	})

	t.Run("origin resolves transitively", func(t *testing.T) {
		table, root := newTestTable(t)
		second := table.RevisitLocation(root)
		third := table.RevisitLocation(second)

		assert.Equal(t, root.Key(), table.GetRevisitOrigin(second).Key())
		assert.Equal(t, root.Key(), table.GetRevisitOrigin(third).Key())
		assert.Equal(t, root.Key(), table.GetRevisitOrigin(root).Key())

		revisits := table.GetAllRevisits(root)
		require.Len(t, revisits, 2)
		assert.Equal(t, second.Key(), revisits[0].Key())
		assert.Equal(t, third.Key(), revisits[1].Key())
		assert.Empty(t, table.GetAllRevisits(second))
	})

	t.Run("revisit carries current info including coercions", func(t *testing.T) {
		table, root := newTestTable(t)
		table.RecordCoercionAtLocation(root, "BigCat")

		revisited := table.RevisitLocation(root)
		info := table.GetLocationInfo(revisited)
		assert.Equal(t, "BigCat", info.Type)
		assert.Equal(t, "Animal", info.CoercedFromType)
	})

	t.Run("revisit of unregistered location panics", func(t *testing.T) {
		table, _ := newTestTable(t)
		assert.Panics(t, func() { table.RevisitLocation(NewLocation("Species")) })
	})
}

func TestRecordCoercionAtLocation(t *testing.T) {
	t.Run("records pre-coercion type", func(t *testing.T) {
		table, root := newTestTable(t)
		table.RecordCoercionAtLocation(root, "BigCat")

		info := table.GetLocationInfo(root)
		assert.Equal(t, "BigCat", info.Type)
		assert.Equal(t, "Animal", info.CoercedFromType)
	})

	t.Run("double coercion panics", func(t *testing.T) {
		table, root := newTestTable(t)
		table.RecordCoercionAtLocation(root, "BigCat")
		assert.Panics(t, func() { table.RecordCoercionAtLocation(root, "HouseCat") })
	})

	t.Run("unregistered location panics", func(t *testing.T) {
		table, _ := newTestTable(t)
		assert.Panics(t, func() { table.RecordCoercionAtLocation(NewLocation("Species"), "Animal") })
	})
}

func TestOutputAndTagRegistries(t *testing.T) {
	t.Run("duplicate output name panics", func(t *testing.T) {
		table, root := newTestTable(t)
		info := OutputInfo{Location: root.NavigateToField("name"), Type: "String"}
		table.RecordOutputInfo("name_out", info)
		assert.Panics(t, func() { table.RecordOutputInfo("name_out", info) })
	})

	t.Run("duplicate tag name panics", func(t *testing.T) {
		table, root := newTestTable(t)
		info := TagInfo{Location: root.NavigateToField("name"), Type: "String"}
		table.RecordTagInfo("animal_name", info)
		assert.Panics(t, func() { table.RecordTagInfo("animal_name", info) })
	})

	t.Run("lookups round trip", func(t *testing.T) {
		table, root := newTestTable(t)
		table.RecordOutputInfo("name_out", OutputInfo{Location: root.NavigateToField("name"), Type: "String", OptionalScope: true})

		info, ok := table.GetOutputInfo("name_out")
		require.True(t, ok)
		assert.True(t, info.OptionalScope)

		_, ok = table.GetOutputInfo("missing")
		assert.False(t, ok)
	})
}

func TestFilterAndRecurseAnnotations(t *testing.T) {
	t.Run("filters are keyed by vertex form", func(t *testing.T) {
		table, root := newTestTable(t)
		table.RecordFilterInfo(root.NavigateToField("name"), FilterInfo{
			Fields:   []string{"name"},
			Operator: "=",
		})

		infos := table.GetFilterInfos(root)
		require.Len(t, infos, 1)
		assert.Equal(t, "=", infos[0].Operator)
	})

	t.Run("empty collections for unannotated locations", func(t *testing.T) {
		table, root := newTestTable(t)
		assert.Empty(t, table.GetFilterInfos(root))
		assert.Empty(t, table.GetRecurseInfos(root))
	})

	t.Run("recurse annotations accumulate in order", func(t *testing.T) {
		table, root := newTestTable(t)
		table.RecordRecurseInfo(root, RecurseInfo{EdgeDirection: EdgeDirectionOut, EdgeName: "Animal_ParentOf", Depth: 2})
		table.RecordRecurseInfo(root, RecurseInfo{EdgeDirection: EdgeDirectionIn, EdgeName: "Animal_ParentOf", Depth: 1})

		infos := table.GetRecurseInfos(root)
		require.Len(t, infos, 2)
		assert.Equal(t, 2, infos[0].Depth)
		assert.Equal(t, 1, infos[1].Depth)
	})
}
