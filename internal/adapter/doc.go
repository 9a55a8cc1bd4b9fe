// Package adapter provides ready-made data-source adapters for the
// interpreter: an in-memory graph backed by YAML fixtures, and a SQLite
// backed graph with filter pushdown.
//
// Both adapters share the same fixture model (Graph, Vertex, Edge) and the
// same token type (*Vertex), so a query plan behaves identically against
// either backend apart from performance. Result order is deterministic for
// both: fixture order in memory, primary-key order in SQLite.
package adapter
