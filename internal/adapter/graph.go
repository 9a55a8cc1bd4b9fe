package adapter

import (
	"fmt"
)

// Vertex is one graph vertex. It doubles as the token type handed to the
// interpreter by both adapters in this package.
type Vertex struct {
	ID         string
	Type       string
	Properties map[string]any
}

// Edge is one directed, named edge between two vertices.
type Edge struct {
	Name   string
	Source string
	Target string
}

// Graph is the shared fixture model: a labeled property graph plus a
// single-inheritance type hierarchy.
type Graph struct {
	Vertices []Vertex
	Edges    []Edge

	// Subtypes maps each subtype name to its direct supertype.
	Subtypes map[string]string
}

// Validate checks referential integrity: unique vertex IDs, edges whose
// endpoints exist, and an acyclic subtype hierarchy.
func (g *Graph) Validate() error {
	seen := make(map[string]struct{}, len(g.Vertices))
	for _, v := range g.Vertices {
		if v.ID == "" {
			return fmt.Errorf("vertex with empty ID")
		}
		if v.Type == "" {
			return fmt.Errorf("vertex %q has no type", v.ID)
		}
		if _, ok := seen[v.ID]; ok {
			return fmt.Errorf("duplicate vertex ID %q", v.ID)
		}
		seen[v.ID] = struct{}{}
	}

	for i, e := range g.Edges {
		if e.Name == "" {
			return fmt.Errorf("edge %d has no name", i)
		}
		if _, ok := seen[e.Source]; !ok {
			return fmt.Errorf("edge %q references unknown source vertex %q", e.Name, e.Source)
		}
		if _, ok := seen[e.Target]; !ok {
			return fmt.Errorf("edge %q references unknown target vertex %q", e.Name, e.Target)
		}
	}

	for sub := range g.Subtypes {
		slow, fast := sub, g.Subtypes[sub]
		for fast != "" {
			if fast == slow {
				return fmt.Errorf("subtype cycle through %q", sub)
			}
			fast = g.Subtypes[g.Subtypes[fast]]
			slow = g.Subtypes[slow]
		}
	}

	return nil
}

// IsInstance reports whether a vertex of the concrete type is an instance of
// target, walking the subtype chain upward.
func (g *Graph) IsInstance(concrete, target string) bool {
	for typ := concrete; typ != ""; typ = g.Subtypes[typ] {
		if typ == target {
			return true
		}
	}
	return false
}

// typesAssignableTo returns target plus every transitive subtype of it.
// Order is unspecified; callers needing determinism must not depend on it.
func (g *Graph) typesAssignableTo(target string) []string {
	types := []string{target}
	frontier := []string{target}
	for len(frontier) > 0 {
		var next []string
		for sub, super := range g.Subtypes {
			for _, f := range frontier {
				if super == f {
					types = append(types, sub)
					next = append(next, sub)
				}
			}
		}
		frontier = next
	}
	return types
}
