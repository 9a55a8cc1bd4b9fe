package adapter

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fixtureFile is the YAML shape of a graph fixture.
type fixtureFile struct {
	Vertices []fixtureVertex   `yaml:"vertices"`
	Edges    []fixtureEdge     `yaml:"edges,omitempty"`
	Subtypes map[string]string `yaml:"subtypes,omitempty"`
}

type fixtureVertex struct {
	ID         string         `yaml:"id"`
	Type       string         `yaml:"type"`
	Properties map[string]any `yaml:"properties,omitempty"`
}

type fixtureEdge struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// LoadGraph reads and parses a graph fixture YAML file. Unknown fields are
// rejected so typos fail loudly instead of silently dropping data. The
// resulting graph is validated before being returned.
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture file: %w", err)
	}
	return ParseGraph(data)
}

// ParseGraph parses graph fixture YAML from a byte slice.
func ParseGraph(data []byte) (*Graph, error) {
	var file fixtureFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse fixture YAML: %w", err)
	}

	graph := &Graph{Subtypes: file.Subtypes}
	for _, v := range file.Vertices {
		props := v.Properties
		if props == nil {
			props = map[string]any{}
		}
		graph.Vertices = append(graph.Vertices, Vertex{ID: v.ID, Type: v.Type, Properties: props})
	}
	for _, e := range file.Edges {
		graph.Edges = append(graph.Edges, Edge{Name: e.Name, Source: e.Source, Target: e.Target})
	}

	if err := graph.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return graph, nil
}
