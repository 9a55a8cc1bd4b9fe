// Package location provides the addressing scheme for compiled query
// traversals.
//
// Every vertex, property field, tag, filter, and output discovered while
// compiling a query is named by a Location (or, inside a @fold scope, by a
// FoldScopeLocation). The QueryMetadataTable is the authoritative registry
// mapping each of those names to everything the compiler learned about it:
// its parent, its resolved type, coercion history, optional/recursion
// nesting, and revisit bookkeeping for backtracking traversals.
//
// All other internal packages that operate on compiled queries import
// location; location imports nothing internal. This keeps the addressing
// layer foundational with no circular dependencies.
//
// Invariant breaches in this package are compiler-internal bugs, never user
// errors. Every operation that detects one panics with an InvariantError
// rather than returning a recoverable error.
package location
