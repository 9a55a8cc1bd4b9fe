package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphwalk/internal/location"
)

func TestDataContextTokenRecording(t *testing.T) {
	root := location.NewLocation("Animal")
	ctx := NewDataContext("token-1")

	_, ok := ctx.TokenAt(root)
	assert.False(t, ok)

	ctx.RecordLocation(root)
	token, ok := ctx.TokenAt(root)
	require.True(t, ok)
	assert.Equal(t, "token-1", token)

	// Deactivated contexts record nil, and the key stays present.
	child := root.NavigateToSubpath("out_Animal_ParentOf")
	ctx.SetCurrentToken(nil)
	assert.False(t, ctx.Active())
	ctx.RecordLocation(child)
	token, ok = ctx.TokenAt(child)
	require.True(t, ok)
	assert.Nil(t, token)
}

func TestDataContextSplit(t *testing.T) {
	root := location.NewLocation("Animal")
	child := root.NavigateToSubpath("out_Animal_ParentOf")

	parent := NewDataContext("parent-token")
	parent.RecordLocation(root)

	a := parent.Split("neighbor-a")
	b := parent.Split("neighbor-b")

	// Siblings see what was recorded before the split...
	token, ok := a.TokenAt(root)
	require.True(t, ok)
	assert.Equal(t, "parent-token", token)

	// ...but later marks do not leak between them.
	a.RecordLocation(child)
	_, ok = b.TokenAt(child)
	assert.False(t, ok)

	tokenA, _ := a.TokenAt(child)
	assert.Equal(t, "neighbor-a", tokenA)
}

func TestDataContextMoveTo(t *testing.T) {
	root := location.NewLocation("Animal")
	ctx := NewDataContext("root-token")
	ctx.RecordLocation(root)
	ctx.SetCurrentToken("elsewhere")

	moved := ctx.MoveTo(root)
	assert.Equal(t, "root-token", moved.CurrentToken())
	assert.Equal(t, "elsewhere", ctx.CurrentToken())

	// Carrier round trip: pushing onto the moved context must not disturb
	// the original's stack.
	moved.PushValue(ctx)
	assert.Equal(t, 0, ctx.StackDepth())
	assert.Same(t, ctx, moved.PopValue())

	assert.Panics(t, func() { ctx.MoveTo(root.NavigateToSubpath("out_X")) })
}

func TestDataContextPiggyback(t *testing.T) {
	ctx := NewDataContext("t")
	assert.Nil(t, ctx.ConsumePiggyback())

	aux := NewDataContext("aux")
	ctx.AddPiggyback(aux)
	got := ctx.ConsumePiggyback()
	require.Len(t, got, 1)
	assert.Same(t, aux, got[0])
	assert.Nil(t, ctx.ConsumePiggyback())
}
