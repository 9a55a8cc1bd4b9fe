package interpreter

import (
	"github.com/roach88/graphwalk/internal/location"
)

// DataContext is the unit of in-flight result during interpretation: one
// partial result row being accumulated as it flows through the block
// pipeline.
//
// The token is an opaque, adapter-defined value representing one unit of
// backing data. A nil current token means the context is logically inactive,
// typically because an unmatched @optional edge deactivated it; inactive
// contexts still flow to result construction so their rows surface null
// optional outputs instead of being dropped.
//
// Contexts are exclusively owned as they move through the pipeline: handlers
// mutate and yield the same object for single-to-single transformations, and
// only fan-out handlers (Traverse, Recurse) allocate new ones. Nothing else
// may alias a context while it is in flight.
type DataContext struct {
	currentToken any

	// tokenAtLocation records the token bound by every MarkLocation visited
	// so far, keyed by location key, so later filters, tags, and backtracks
	// can reference earlier positions. Values may be nil for locations
	// marked inside unmatched @optional scopes.
	tokenAtLocation map[string]any

	// stack is scratch space for nested expression evaluation: an outer
	// expression pushes values before evaluating a sub-expression and pops
	// them back in LIFO order once the sub-expression's result is known.
	stack *ImmutableStack

	// piggyback carries auxiliary contexts spawned by one context's
	// processing, keeping the primary iteration linear.
	piggyback []*DataContext
}

// NewDataContext creates an empty-stacked context positioned at token.
func NewDataContext(token any) *DataContext {
	return &DataContext{
		currentToken:    token,
		tokenAtLocation: make(map[string]any),
		stack:           NewStack(),
	}
}

// CurrentToken returns the token the context is positioned at, nil if the
// context is inactive.
func (dc *DataContext) CurrentToken() any { return dc.currentToken }

// SetCurrentToken repositions the context at token. A nil token deactivates
// the context.
func (dc *DataContext) SetCurrentToken(token any) { dc.currentToken = token }

// Active reports whether the context still carries a token.
func (dc *DataContext) Active() bool { return dc.currentToken != nil }

// RecordLocation binds the current token to loc in the visited-location map.
func (dc *DataContext) RecordLocation(loc location.BaseLocation) {
	dc.tokenAtLocation[loc.Key()] = dc.currentToken
}

// TokenAt returns the token recorded at loc and whether loc was ever marked.
// The token itself may be nil for locations inside unmatched @optional
// scopes.
func (dc *DataContext) TokenAt(loc location.BaseLocation) (any, bool) {
	token, ok := dc.tokenAtLocation[loc.Key()]
	return token, ok
}

// PushValue pushes v onto the context's expression stack.
func (dc *DataContext) PushValue(v any) {
	dc.stack = dc.stack.Push(v)
}

// PopValue pops and returns the top of the expression stack.
func (dc *DataContext) PopValue() any {
	v, rest := dc.stack.Pop()
	dc.stack = rest
	return v
}

// PeekValue returns the top of the expression stack without popping it.
func (dc *DataContext) PeekValue() any {
	return dc.stack.Peek()
}

// StackDepth returns the expression stack's depth.
func (dc *DataContext) StackDepth() int { return dc.stack.Depth() }

// Split creates a new context positioned at token, carrying a copy of the
// visited-location map and sharing the (persistent) expression stack. Used
// by fan-out handlers where one input token produces many neighbor
// contexts; each sibling needs its own map so later MarkLocation blocks do
// not clobber each other.
func (dc *DataContext) Split(token any) *DataContext {
	tokens := make(map[string]any, len(dc.tokenAtLocation))
	for k, v := range dc.tokenAtLocation {
		tokens[k] = v
	}
	return &DataContext{
		currentToken:    token,
		tokenAtLocation: tokens,
		stack:           dc.stack,
	}
}

// MoveTo creates a context positioned at the token recorded at loc, sharing
// the visited-location map and stack with the receiver. Used by context
// field evaluation to project a property of an earlier vertex; the caller
// pushes the original context onto the moved context's stack as a carrier
// so it survives the round trip through the adapter.
//
// Panics if loc was never marked: referencing an unmarked location is a bug
// in the lowered IR.
func (dc *DataContext) MoveTo(loc location.BaseLocation) *DataContext {
	token, ok := dc.tokenAtLocation[loc.Key()]
	if !ok {
		internalf("MoveTo", "location %s was never marked", loc)
	}
	return &DataContext{
		currentToken:    token,
		tokenAtLocation: dc.tokenAtLocation,
		stack:           dc.stack,
	}
}

// AddPiggyback attaches an auxiliary context to be re-injected into the
// primary iteration by the orchestrator.
func (dc *DataContext) AddPiggyback(other *DataContext) {
	dc.piggyback = append(dc.piggyback, other)
}

// ConsumePiggyback detaches and returns any piggyback contexts.
func (dc *DataContext) ConsumePiggyback() []*DataContext {
	out := dc.piggyback
	dc.piggyback = nil
	return out
}
