package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphwalk/internal/interpreter"
	"github.com/roach88/graphwalk/internal/ir"
	"github.com/roach88/graphwalk/internal/location"
	"github.com/roach88/graphwalk/internal/testutil"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.ImportGraph(context.Background(), mysteryGraph()))
	return s
}

func TestSQLiteTokensOfTypeOrderedByID(t *testing.T) {
	s := openTestSQLite(t)

	var ids []string
	for token := range s.GetTokensOfType("Animal", nil) {
		ids = append(ids, token.(*Vertex).ID)
	}
	require.NoError(t, s.Err())

	// Primary-key order, with the BigCat subtype included.
	assert.Equal(t, []string{"scooby", "shaggy", "tigger"}, ids)
}

func TestSQLitePropertyRoundTrip(t *testing.T) {
	s := openTestSQLite(t)

	for token := range s.GetTokensOfType("Animal", nil) {
		v := token.(*Vertex)
		if v.ID == "scooby" {
			assert.Equal(t, "Scooby Doo", v.Properties["name"])
			// Integers survive the JSON round trip without decaying to float64.
			assert.Equal(t, int64(7), v.Properties["age"])
		}
	}
	require.NoError(t, s.Err())
}

func TestSQLiteFilterPushdown(t *testing.T) {
	s := openTestSQLite(t)

	hints := &interpreter.VertexHints{
		RuntimeArguments: map[string]any{"wanted": "Shaggy"},
		Filters: []location.FilterInfo{{
			Fields:   []string{"name"},
			Operator: "=",
			Operands: []any{&ir.Variable{VariableName: "$wanted", InferredType: "String"}},
		}},
	}

	var ids []string
	for token := range s.GetTokensOfType("Animal", hints) {
		ids = append(ids, token.(*Vertex).ID)
	}
	require.NoError(t, s.Err())
	assert.Equal(t, []string{"shaggy"}, ids)
}

func TestSQLiteInterpretsSameRowsAsInMemory(t *testing.T) {
	s := openTestSQLite(t)
	m, err := NewInMemory(mysteryGraph())
	require.NoError(t, err)

	plan := testutil.TraversePlan("Animal", "out", "Animal_OfSpecies", "Species", "name")
	sqliteRows := testutil.CollectRows(interpreter.InterpretIR(s, plan, nil))
	memoryRows := testutil.CollectRows(interpreter.InterpretIR(m, plan, nil))

	require.NoError(t, s.Err())
	assert.ElementsMatch(t, memoryRows, sqliteRows)
}

func TestSQLiteInNeighbors(t *testing.T) {
	s := openTestSQLite(t)

	canine := &Vertex{ID: "canine", Type: "Species"}
	neighbors, err := s.queryNeighbors(canine, ir.EdgeDescriptor{Direction: "in", Name: "Animal_OfSpecies"})
	require.NoError(t, err)

	var ids []string
	for _, n := range neighbors {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"scooby", "shaggy"}, ids)
}

func TestSQLiteImportRejectsInvalidGraph(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	err = s.ImportGraph(context.Background(), &Graph{
		Vertices: []Vertex{{ID: "a", Type: "Animal"}},
		Edges:    []Edge{{Name: "E", Source: "a", Target: "ghost"}},
	})
	assert.Error(t, err)
}

func TestSQLiteImportIsTransactional(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.ImportGraph(ctx, mysteryGraph()))

	// A second import collides on primary keys and must leave the first
	// import intact.
	require.Error(t, s.ImportGraph(ctx, mysteryGraph()))

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM vertices`).Scan(&count))
	assert.Equal(t, 4, count)
}
