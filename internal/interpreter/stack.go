package interpreter

// ImmutableStack is a structurally shared persistent stack used as the
// expression evaluator's scratch space inside each data context.
//
// Push returns a new frame whose tail is the receiver; the receiver is never
// mutated, so frames may be aliased freely across contexts. This matters
// because the evaluator saves and restores evaluation state across context
// transformations that are not necessarily synchronous.
type ImmutableStack struct {
	value any
	depth int
	tail  *ImmutableStack
}

// emptyStack is the shared empty-stack singleton. Popping a stack down to
// empty yields this exact instance again.
var emptyStack = &ImmutableStack{}

// NewStack returns the empty-stack singleton.
func NewStack() *ImmutableStack {
	return emptyStack
}

// Depth returns the number of values on the stack.
func (s *ImmutableStack) Depth() int { return s.depth }

// Push returns a new stack with v on top. O(1), shares the receiver as tail.
func (s *ImmutableStack) Push(v any) *ImmutableStack {
	return &ImmutableStack{value: v, depth: s.depth + 1, tail: s}
}

// Peek returns the top value without removing it. Panics on an empty stack;
// stack underflow is always an interpreter bug.
func (s *ImmutableStack) Peek() any {
	if s.depth == 0 {
		internalf("Peek", "peek of empty stack")
	}
	return s.value
}

// Pop returns the top value and the remaining stack. Panics on an empty
// stack.
func (s *ImmutableStack) Pop() (any, *ImmutableStack) {
	if s.depth == 0 {
		internalf("Pop", "pop of empty stack")
	}
	return s.value, s.tail
}
