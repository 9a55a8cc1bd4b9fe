// Package ir defines the compiled intermediate representation a query is
// lowered into: a linear sequence of typed basic blocks plus a closed
// expression vocabulary used by filters and result construction.
//
// Both vocabularies are sealed interfaces with marker methods. Only types in
// this package implement BasicBlock and Expression, which keeps the variant
// sets closed and makes type switches over them exhaustive: an unhandled
// variant is a bug in the switch, not an extensibility point.
//
// The package also provides IR sequence shape validation (SplitBlocks) and
// RFC 8785-style canonical JSON serialization used for content-addressed
// query fingerprints and deterministic golden-file comparison.
//
// ir imports only internal/location; every other internal package imports ir.
package ir
