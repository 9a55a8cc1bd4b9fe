package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImmutableStackRoundTrip(t *testing.T) {
	empty := NewStack()
	values := []any{"a", 2, true, nil, "z"}

	s := empty
	for _, v := range values {
		s = s.Push(v)
	}
	require.Equal(t, len(values), s.Depth())

	for i := len(values) - 1; i >= 0; i-- {
		var v any
		v, s = s.Pop()
		assert.Equal(t, values[i], v)
	}

	assert.Equal(t, 0, s.Depth())
	assert.Same(t, empty, s, "popping everything must return the empty-stack singleton")
}

func TestImmutableStackStructuralSharing(t *testing.T) {
	base := NewStack().Push("shared")
	a := base.Push("a")
	b := base.Push("b")

	av, arest := a.Pop()
	bv, brest := b.Pop()
	assert.Equal(t, "a", av)
	assert.Equal(t, "b", bv)
	assert.Same(t, base, arest)
	assert.Same(t, base, brest)
	assert.Equal(t, "shared", base.Peek())
}

func TestImmutableStackUnderflow(t *testing.T) {
	assert.Panics(t, func() { NewStack().Pop() })
	assert.Panics(t, func() { NewStack().Peek() })
}
