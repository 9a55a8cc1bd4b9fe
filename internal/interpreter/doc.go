// Package interpreter executes compiled IR block sequences directly against
// any backing data source reachable through the Adapter interface.
//
// The engine is a chain of lazy sequence transformations: every block
// handler and expression evaluator is a pure function from an input
// iter.Seq of data contexts to an output sequence, evaluated strictly in
// consumer-pull order. Nothing is materialized, re-iterated, reordered, or
// parallelized; advancing the returned top-level sequence is the only thing
// that triggers upstream adapter calls. A pipeline that is constructed but
// never advanced performs zero adapter calls.
//
// Error classes follow the two-tier model of the compiler: malformed IR and
// interpreter-internal inconsistencies panic with InternalError (they are
// bugs, not conditions to recover from), while user-input problems are
// reported as ordinary errors by ValidateArguments and the frontend
// boundary before interpretation begins.
package interpreter
