package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGraph(t *testing.T) {
	data := []byte(`
vertices:
  - id: scooby
    type: Animal
    properties:
      name: Scooby Doo
      age: 7
  - id: canine
    type: Species
    properties:
      name: Canine
edges:
  - name: Animal_OfSpecies
    source: scooby
    target: canine
subtypes:
  BigCat: Animal
`)

	graph, err := ParseGraph(data)
	require.NoError(t, err)

	require.Len(t, graph.Vertices, 2)
	assert.Equal(t, "scooby", graph.Vertices[0].ID)
	assert.Equal(t, "Scooby Doo", graph.Vertices[0].Properties["name"])
	assert.Equal(t, 7, graph.Vertices[0].Properties["age"])
	require.Len(t, graph.Edges, 1)
	assert.Equal(t, "Animal", graph.Subtypes["BigCat"])
}

func TestParseGraphDefaultsEmptyProperties(t *testing.T) {
	graph, err := ParseGraph([]byte("vertices:\n  - id: a\n    type: Animal\n"))
	require.NoError(t, err)
	assert.NotNil(t, graph.Vertices[0].Properties)
}

func TestParseGraphRejections(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			"unknown field",
			"vertices:\n  - id: a\n    type: Animal\n    colour: brown\n",
		},
		{
			"duplicate vertex ID",
			"vertices:\n  - id: a\n    type: Animal\n  - id: a\n    type: Animal\n",
		},
		{
			"edge to unknown vertex",
			"vertices:\n  - id: a\n    type: Animal\nedges:\n  - name: E\n    source: a\n    target: ghost\n",
		},
		{
			"vertex without type",
			"vertices:\n  - id: a\n",
		},
		{
			"subtype cycle",
			"vertices:\n  - id: a\n    type: A\nsubtypes:\n  A: B\n  B: A\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGraph([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
