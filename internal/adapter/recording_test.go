package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphwalk/internal/interpreter"
	"github.com/roach88/graphwalk/internal/testutil"
)

func TestRecordingObservesLaziness(t *testing.T) {
	inner, err := NewInMemory(mysteryGraph())
	require.NoError(t, err)
	rec := NewRecording(inner)

	plan := testutil.SinglePropertyPlan("Animal", "name", "animal_name")
	rows := interpreter.InterpretIR(rec, plan, nil)

	// Building the pipeline touches nothing.
	assert.Empty(t, rec.Calls)

	got := testutil.CollectRows(rows)
	assert.Len(t, got, 3)
	// Calls are recorded in demand order, which propagates from the sink.
	assert.ElementsMatch(t, []string{
		"get_tokens_of_type Animal",
		"project_property Animal.name",
	}, rec.Calls)
}
