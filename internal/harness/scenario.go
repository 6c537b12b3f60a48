package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// Scenarios compile a source program through the peephole optimizer
// and assert on the folded result, the fold trace, or the diagnostic.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the
	// golden file name, so keep it filesystem-safe.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Source is the program to compile, e.g. "return 1+2*3;".
	Source string `yaml:"source"`

	// SessionToken is an optional fixed session token for runs that
	// persist fold events. If empty, "test-session-default" is used
	// so that golden comparisons stay deterministic.
	SessionToken string `yaml:"session_token,omitempty"`

	// Expect declares the outcome: either a folded result (with an
	// optional fold trace) or a diagnostic error.
	Expect Expectation `yaml:"expect"`
}

// Expectation declares the outcome of compiling a scenario's source.
// Exactly one of Result or Error must be set.
type Expectation struct {
	// Result is the expected type of the returned expression after
	// optimization, in dump notation (e.g. "int(7)", "bot").
	Result string `yaml:"result,omitempty"`

	// Folds is the expected fold trace, in order. Optional: when
	// empty, the fold trace is only checked by golden comparison.
	Folds []ExpectedFold `yaml:"folds,omitempty"`

	// Error is the expected diagnostic. Mutually exclusive with
	// Result.
	Error *ExpectedError `yaml:"error,omitempty"`
}

// ExpectedFold describes one entry of the fold trace.
type ExpectedFold struct {
	// Op is the opcode of the node that folded (e.g. "Mul").
	Op string `yaml:"op"`

	// Result is the constant type it folded to (e.g. "int(6)").
	Result string `yaml:"result"`
}

// ExpectedError describes an expected diagnostic.
type ExpectedError struct {
	// Code is the diagnostic code, e.g. "DIVIDE_BY_ZERO" or
	// "OVERFLOW".
	Code string `yaml:"code"`

	// Pos is the expected source position ("line:col"). Optional.
	Pos string `yaml:"pos,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// The file is validated against the embedded CUE schema first, then
// decoded with strict field checking so typos are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario validates and decodes raw scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("scenario schema: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks constraints the CUE schema cannot express
// conveniently, like mutual exclusion of result and error.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Source == "" {
		return fmt.Errorf("source is required")
	}

	hasResult := s.Expect.Result != ""
	hasError := s.Expect.Error != nil
	if hasResult == hasError {
		return fmt.Errorf("expect: exactly one of result or error is required")
	}
	if hasError && s.Expect.Error.Code == "" {
		return fmt.Errorf("expect.error: code is required")
	}
	for i, fold := range s.Expect.Folds {
		if fold.Op == "" {
			return fmt.Errorf("expect.folds[%d]: op is required", i)
		}
		if fold.Result == "" {
			return fmt.Errorf("expect.folds[%d]: result is required", i)
		}
	}
	return nil
}
