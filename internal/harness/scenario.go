package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines an end-to-end query scenario: which plan to run, against
// which graph, with which arguments, and what rows to expect.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Plan is the path to the plan file (CUE or JSON).
	// Relative paths are resolved against the scenario file's directory.
	Plan string `yaml:"plan"`

	// Fixture is the path to the YAML graph fixture.
	// Relative paths are resolved against the scenario file's directory.
	Fixture string `yaml:"fixture"`

	// Args contains the query arguments, keyed by argument name without
	// the "$" prefix.
	Args map[string]any `yaml:"args,omitempty"`

	// Expect lists the expected result rows in order. If empty, the rows
	// are only checked against the golden file.
	Expect []map[string]any `yaml:"expect,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected (catches typos like "expects:" vs "expect:"). Plan and fixture
// paths are resolved relative to the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	base := filepath.Dir(path)
	if scenario.Plan != "" && !filepath.IsAbs(scenario.Plan) {
		scenario.Plan = filepath.Join(base, scenario.Plan)
	}
	if scenario.Fixture != "" && !filepath.IsAbs(scenario.Fixture) {
		scenario.Fixture = filepath.Join(base, scenario.Fixture)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and the
// referenced files exist.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Plan == "" {
		return fmt.Errorf("plan is required")
	}
	if s.Fixture == "" {
		return fmt.Errorf("fixture is required")
	}

	if _, err := os.Stat(s.Plan); os.IsNotExist(err) {
		return fmt.Errorf("plan file not found: %s", s.Plan)
	}
	if _, err := os.Stat(s.Fixture); os.IsNotExist(err) {
		return fmt.Errorf("fixture file not found: %s", s.Fixture)
	}

	return nil
}
