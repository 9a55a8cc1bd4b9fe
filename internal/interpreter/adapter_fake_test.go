package interpreter

import (
	"fmt"
	"iter"

	"github.com/roach88/graphwalk/internal/ir"
)

// fakeVertex is the token type of the in-memory test graph.
type fakeVertex struct {
	id    string
	typ   string
	props map[string]any
}

// fakeGraph is a tiny labeled property graph for interpreter tests.
type fakeGraph struct {
	vertices []*fakeVertex
	byID     map[string]*fakeVertex
	out      map[string]map[string][]*fakeVertex
	in       map[string]map[string][]*fakeVertex

	// parents maps a type to its supertype for coercion checks.
	parents map[string]string
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		byID:    make(map[string]*fakeVertex),
		out:     make(map[string]map[string][]*fakeVertex),
		in:      make(map[string]map[string][]*fakeVertex),
		parents: make(map[string]string),
	}
}

func (g *fakeGraph) addVertex(id, typ string, props map[string]any) *fakeVertex {
	v := &fakeVertex{id: id, typ: typ, props: props}
	g.vertices = append(g.vertices, v)
	g.byID[id] = v
	return v
}

func (g *fakeGraph) addEdge(name, fromID, toID string) {
	from, to := g.byID[fromID], g.byID[toID]
	if from == nil || to == nil {
		panic(fmt.Sprintf("unknown edge endpoint %s -> %s", fromID, toID))
	}
	if g.out[fromID] == nil {
		g.out[fromID] = make(map[string][]*fakeVertex)
	}
	if g.in[toID] == nil {
		g.in[toID] = make(map[string][]*fakeVertex)
	}
	g.out[fromID][name] = append(g.out[fromID][name], to)
	g.in[toID][name] = append(g.in[toID][name], from)
}

func (g *fakeGraph) addSubtype(sub, super string) {
	g.parents[sub] = super
}

func (g *fakeGraph) isInstance(concrete, target string) bool {
	for typ := concrete; typ != ""; typ = g.parents[typ] {
		if typ == target {
			return true
		}
	}
	return false
}

func (g *fakeGraph) neighbors(v *fakeVertex, edge ir.EdgeDescriptor) []*fakeVertex {
	if v == nil {
		return nil
	}
	if edge.Direction == "out" {
		return g.out[v.id][edge.Name]
	}
	return g.in[v.id][edge.Name]
}

// fakeAdapter implements Adapter over a fakeGraph and records every call it
// actually services, labeled with the type name it was given. Recording
// happens when a returned sequence is first advanced, which is when the
// "call" logically occurs under the laziness contract.
type fakeAdapter struct {
	g     *fakeGraph
	calls []string

	// tokensYielded counts root tokens actually handed out, to observe how
	// far an abandoned pipeline pulled.
	tokensYielded int
}

var _ Adapter = (*fakeAdapter)(nil)

func (a *fakeAdapter) GetTokensOfType(typeName string, hints *VertexHints) iter.Seq[any] {
	return func(yield func(any) bool) {
		a.calls = append(a.calls, "get_tokens_of_type:"+typeName)
		for _, v := range a.g.vertices {
			if a.g.isInstance(v.typ, typeName) {
				a.tokensYielded++
				if !yield(v) {
					return
				}
			}
		}
	}
}

func (a *fakeAdapter) ProjectProperty(contexts iter.Seq[*DataContext], typeName, fieldName string, hints *VertexHints) iter.Seq2[*DataContext, any] {
	return func(yield func(*DataContext, any) bool) {
		a.calls = append(a.calls, "project_property:"+typeName+"."+fieldName)
		for ctx := range contexts {
			var value any
			if token := ctx.CurrentToken(); token != nil {
				value = token.(*fakeVertex).props[fieldName]
			}
			if !yield(ctx, value) {
				return
			}
		}
	}
}

func (a *fakeAdapter) ProjectNeighbors(contexts iter.Seq[*DataContext], typeName string, edge ir.EdgeDescriptor, hints *VertexHints) iter.Seq2[*DataContext, iter.Seq[any]] {
	return func(yield func(*DataContext, iter.Seq[any]) bool) {
		a.calls = append(a.calls, "project_neighbors:"+typeName+"."+edge.String())
		for ctx := range contexts {
			var neighbors []*fakeVertex
			if token := ctx.CurrentToken(); token != nil {
				neighbors = a.g.neighbors(token.(*fakeVertex), edge)
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

func (a *fakeAdapter) CanCoerceToType(contexts iter.Seq[*DataContext], typeName, coerceToType string, hints *VertexHints) iter.Seq2[*DataContext, bool] {
	return func(yield func(*DataContext, bool) bool) {
		a.calls = append(a.calls, "can_coerce_to_type:"+typeName+"->"+coerceToType)
		for ctx := range contexts {
			ok := false
			if token := ctx.CurrentToken(); token != nil {
				ok = a.g.isInstance(token.(*fakeVertex).typ, coerceToType)
			}
			if !yield(ctx, ok) {
				return
			}
		}
	}
}

// collectRows drains a row sequence into a slice.
func collectRows(rows iter.Seq[Row]) []Row {
	var out []Row
	for row := range rows {
		out = append(out, row)
	}
	return out
}
