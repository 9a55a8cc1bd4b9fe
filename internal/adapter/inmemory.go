package adapter

import (
	"fmt"
	"iter"

	"github.com/roach88/graphwalk/internal/interpreter"
	"github.com/roach88/graphwalk/internal/ir"
	"github.com/roach88/graphwalk/internal/location"
)

// InMemory executes queries directly against a Graph held in memory.
// Iteration order follows fixture order, so results are reproducible for a
// given fixture.
//
// Tokens are *Vertex values. A nil current token yields no property value
// and no neighbors, per the adapter contract.
type InMemory struct {
	graph *Graph

	byID map[string]*Vertex
	out  map[string]map[string][]*Vertex
	in   map[string]map[string][]*Vertex
}

var _ interpreter.Adapter = (*InMemory)(nil)

// NewInMemory indexes the graph for edge lookups. The graph is validated
// first; a graph that fails validation is rejected rather than producing
// wrong answers later.
func NewInMemory(graph *Graph) (*InMemory, error) {
	if err := graph.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}

	a := &InMemory{
		graph: graph,
		byID:  make(map[string]*Vertex, len(graph.Vertices)),
		out:   make(map[string]map[string][]*Vertex),
		in:    make(map[string]map[string][]*Vertex),
	}
	for i := range graph.Vertices {
		v := &graph.Vertices[i]
		a.byID[v.ID] = v
	}
	for _, e := range graph.Edges {
		if a.out[e.Source] == nil {
			a.out[e.Source] = make(map[string][]*Vertex)
		}
		if a.in[e.Target] == nil {
			a.in[e.Target] = make(map[string][]*Vertex)
		}
		a.out[e.Source][e.Name] = append(a.out[e.Source][e.Name], a.byID[e.Target])
		a.in[e.Target][e.Name] = append(a.in[e.Target][e.Name], a.byID[e.Source])
	}
	return a, nil
}

func (a *InMemory) GetTokensOfType(typeName string, hints *interpreter.VertexHints) iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := range a.graph.Vertices {
			v := &a.graph.Vertices[i]
			if a.graph.IsInstance(v.Type, typeName) {
				if !yield(v) {
					return
				}
			}
		}
	}
}

func (a *InMemory) ProjectProperty(contexts iter.Seq[*interpreter.DataContext], typeName, fieldName string, hints *interpreter.VertexHints) iter.Seq2[*interpreter.DataContext, any] {
	return func(yield func(*interpreter.DataContext, any) bool) {
		for ctx := range contexts {
			var value any
			if token := ctx.CurrentToken(); token != nil {
				value = token.(*Vertex).Properties[fieldName]
			}
			if !yield(ctx, value) {
				return
			}
		}
	}
}

func (a *InMemory) ProjectNeighbors(contexts iter.Seq[*interpreter.DataContext], typeName string, edge ir.EdgeDescriptor, hints *interpreter.VertexHints) iter.Seq2[*interpreter.DataContext, iter.Seq[any]] {
	return func(yield func(*interpreter.DataContext, iter.Seq[any]) bool) {
		for ctx := range contexts {
			var neighbors []*Vertex
			if token := ctx.CurrentToken(); token != nil {
				neighbors = a.neighborsOf(token.(*Vertex), edge)
			}
			seq := func(yield func(any) bool) {
				for _, n := range neighbors {
					if !yield(n) {
						return
					}
				}
			}
			if !yield(ctx, seq) {
				return
			}
		}
	}
}

func (a *InMemory) CanCoerceToType(contexts iter.Seq[*interpreter.DataContext], typeName, coerceToType string, hints *interpreter.VertexHints) iter.Seq2[*interpreter.DataContext, bool] {
	return func(yield func(*interpreter.DataContext, bool) bool) {
		for ctx := range contexts {
			ok := false
			if token := ctx.CurrentToken(); token != nil {
				ok = a.graph.IsInstance(token.(*Vertex).Type, coerceToType)
			}
			if !yield(ctx, ok) {
				return
			}
		}
	}
}

func (a *InMemory) neighborsOf(v *Vertex, edge ir.EdgeDescriptor) []*Vertex {
	if edge.Direction == location.EdgeDirectionOut {
		return a.out[v.ID][edge.Name]
	}
	return a.in[v.ID][edge.Name]
}
