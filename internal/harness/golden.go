package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/graphwalk/internal/interpreter"
	"github.com/roach88/graphwalk/internal/ir"
)

// ResultSnapshot captures a scenario's result rows for golden comparison.
// It serializes as canonical JSON, so comparison is byte-exact.
type ResultSnapshot struct {
	ScenarioName string
	Rows         []interpreter.Row
}

// toCanonicalMap converts a ResultSnapshot to plain maps and slices, the
// shapes ir.MarshalCanonical handles.
func (s *ResultSnapshot) toCanonicalMap() map[string]any {
	rowList := make([]any, len(s.Rows))
	for i, row := range s.Rows {
		rowList[i] = map[string]any(row)
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"rows":          rowList,
	}
}

// RunWithGolden executes a scenario, checks its inline expectations, and
// compares the rows against the golden file in
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if err := CheckExpectations(scenario, result); err != nil {
		return err
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-computed result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := ResultSnapshot{
		ScenarioName: scenarioName,
		Rows:         result.Rows,
	}
	rowsJSON, err := ir.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, rowsJSON)

	return nil
}
