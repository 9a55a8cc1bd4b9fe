package harness

import (
	"fmt"

	"github.com/roach88/graphwalk/internal/adapter"
	"github.com/roach88/graphwalk/internal/interpreter"
	"github.com/roach88/graphwalk/internal/ir"
	"github.com/roach88/graphwalk/internal/irload"
)

// Result holds the outcome of running a scenario.
type Result struct {
	// Rows are the result rows in production order.
	Rows []interpreter.Row
}

// Run executes a scenario: load the plan, load the fixture into an in-memory
// source, validate the arguments, interpret, and collect the rows.
func Run(scenario *Scenario) (*Result, error) {
	plan, err := irload.LoadPlan(scenario.Plan)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	graph, err := adapter.LoadGraph(scenario.Fixture)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	source, err := adapter.NewInMemory(graph)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	args := scenario.Args
	if args == nil {
		args = map[string]any{}
	}
	if err := interpreter.ValidateArguments(plan.InputMetadata, args); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	var rows []interpreter.Row
	for row := range interpreter.InterpretIR(source, plan, args) {
		rows = append(rows, row)
	}
	return &Result{Rows: rows}, nil
}

// CheckExpectations compares the result rows against the scenario's expected
// rows, if any. Rows must match exactly and in order. Both sides are
// compared in canonical JSON form, so YAML's int and the interpreter's int64
// agree.
func CheckExpectations(scenario *Scenario, result *Result) error {
	if len(scenario.Expect) == 0 {
		return nil
	}

	if len(result.Rows) != len(scenario.Expect) {
		return fmt.Errorf("scenario %s: expected %d row(s), got %d",
			scenario.Name, len(scenario.Expect), len(result.Rows))
	}

	for i, expected := range scenario.Expect {
		want, err := ir.MarshalCanonical(expected)
		if err != nil {
			return fmt.Errorf("scenario %s: expect[%d]: %w", scenario.Name, i, err)
		}
		got, err := ir.MarshalCanonical(map[string]any(result.Rows[i]))
		if err != nil {
			return fmt.Errorf("scenario %s: row %d: %w", scenario.Name, i, err)
		}
		if string(want) != string(got) {
			return fmt.Errorf("scenario %s: row %d mismatch:\n  want %s\n  got  %s",
				scenario.Name, i, want, got)
		}
	}
	return nil
}
