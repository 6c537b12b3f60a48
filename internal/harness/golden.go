package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/seafold/seafold/internal/ir"
)

// Snapshot captures a scenario execution for golden comparison.
// Serialized with canonical JSON so the bytes are deterministic.
type Snapshot struct {
	ScenarioName string
	Source       string
	ReturnType   string
	Dump         string
	Diagnostic   string
	Folds        []FoldTrace
}

// toCanonicalMap converts a Snapshot to a map[string]any for
// canonical JSON serialization. ir.MarshalCanonical only handles
// primitives, slices and string-keyed maps.
func (s *Snapshot) toCanonicalMap() map[string]any {
	foldList := make([]any, len(s.Folds))
	for i, fold := range s.Folds {
		foldList[i] = map[string]any{
			"seq":         fold.Seq,
			"node":        fold.Node,
			"op":          fold.Op,
			"result":      fold.Result,
			"replacement": fold.Replacement,
			"pos":         fold.Pos,
		}
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"source":        s.Source,
		"folds":         foldList,
	}
	if s.ReturnType != "" {
		result["return_type"] = s.ReturnType
	}
	if s.Dump != "" {
		result["dump"] = s.Dump
	}
	if s.Diagnostic != "" {
		result["diagnostic"] = s.Diagnostic
	}
	return result
}

// RunWithGolden executes a scenario and compares the snapshot against
// a golden file at testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if scenario execution fails outright; expectation
// and golden mismatches fail the test via t.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Errorf("scenario %s: %s", scenario.Name, msg)
	}

	snapshot := Snapshot{
		ScenarioName: scenario.Name,
		Source:       scenario.Source,
		ReturnType:   result.ReturnType,
		Dump:         result.Dump,
		Diagnostic:   result.Diagnostic,
		Folds:        result.Folds,
	}

	data, err := ir.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}
