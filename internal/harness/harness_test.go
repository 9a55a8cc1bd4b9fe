package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphwalk/internal/interpreter"
)

func TestRunScenario(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/animal_names.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, interpreter.Row{"animal_name": "Scooby Doo"}, result.Rows[0])
	assert.Equal(t, interpreter.Row{"animal_name": "Shaggy Rogers"}, result.Rows[1])

	assert.NoError(t, CheckExpectations(scenario, result))
}

func TestRunScenarioRejectsUnexpectedArguments(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/animal_names.yaml")
	require.NoError(t, err)
	scenario.Args = map[string]any{"surprise": 1}

	_, err = Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surprise")
}

func TestCheckExpectations(t *testing.T) {
	scenario := &Scenario{Name: "check"}
	result := &Result{Rows: []interpreter.Row{{"x": int64(1)}}}

	t.Run("no expectations passes", func(t *testing.T) {
		assert.NoError(t, CheckExpectations(scenario, result))
	})

	t.Run("matching row passes across int kinds", func(t *testing.T) {
		// YAML decodes integers as int; rows carry int64. Canonical
		// comparison treats them the same.
		scenario.Expect = []map[string]any{{"x": 1}}
		assert.NoError(t, CheckExpectations(scenario, result))
	})

	t.Run("value mismatch fails", func(t *testing.T) {
		scenario.Expect = []map[string]any{{"x": 2}}
		err := CheckExpectations(scenario, result)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 0 mismatch")
	})

	t.Run("row count mismatch fails", func(t *testing.T) {
		scenario.Expect = []map[string]any{{"x": 1}, {"x": 2}}
		err := CheckExpectations(scenario, result)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected 2 row(s)")
	})
}
