package harness

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/seafold/seafold/internal/ir"
	"github.com/seafold/seafold/internal/optimizer"
	"github.com/seafold/seafold/internal/parser"
)

// FoldTrace is one recorded fold, in the order folds happened.
type FoldTrace struct {
	Seq         int64
	Node        ir.NodeID
	Op          string
	Result      string
	Replacement ir.NodeID
	Pos         string
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates all expectations matched.
	Pass bool

	// Dump is the flat graph listing after optimization. Empty for
	// diagnostic scenarios.
	Dump string

	// ReturnType is the optimized type of the returned expression,
	// in dump notation. Empty for diagnostic scenarios.
	ReturnType string

	// Folds is the recorded fold trace.
	Folds []FoldTrace

	// Diagnostic is the diagnostic code raised, if any.
	Diagnostic string

	// Errors lists expectation mismatches. Empty if Pass is true.
	Errors []string
}

// AddError records an expectation mismatch and fails the result.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// traceRecorder collects fold events in memory.
type traceRecorder struct {
	folds []FoldTrace
}

func (r *traceRecorder) RecordFold(ev optimizer.FoldEvent) error {
	r.folds = append(r.folds, FoldTrace{
		Seq:         ev.Seq,
		Node:        ev.NodeID,
		Op:          ev.Op.String(),
		Result:      ev.Type.String(),
		Replacement: ev.ReplacementID,
		Pos:         ev.Pos.String(),
	})
	return nil
}

// Run compiles a scenario's source and checks its expectations.
//
// Each run uses a fresh node id counter and logical clock, so the
// same scenario always produces the same dump and fold trace.
//
// A scenario error (schema violations, unreadable source) returns a
// non-nil error. Expectation mismatches do not: they fail the Result.
func Run(scenario *Scenario) (*Result, error) {
	rec := &traceRecorder{}
	result := &Result{Pass: true, Errors: []string{}}

	parsed, err := parser.Parse(scenario.Source, optimizer.WithRecorder(rec))
	result.Folds = rec.folds

	if err != nil {
		var oerr *optimizer.Error
		if errors.As(err, &oerr) && oerr.IsDiagnostic() {
			result.Diagnostic = string(oerr.Code)
			checkDiagnostic(result, scenario, oerr)
			return result, nil
		}
		return nil, fmt.Errorf("compile scenario %q: %w", scenario.Name, err)
	}

	result.Dump = ir.Dump(parsed.Ret)
	result.ReturnType = parsed.Ret.In(1).Type().String()
	checkOutcome(result, scenario)

	slog.Debug("scenario executed",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"folds", len(result.Folds),
	)
	return result, nil
}

// checkDiagnostic validates a diagnostic against expect.error.
func checkDiagnostic(result *Result, scenario *Scenario, oerr *optimizer.Error) {
	want := scenario.Expect.Error
	if want == nil {
		result.AddError("unexpected diagnostic %s at %s: %s", oerr.Code, oerr.Pos, oerr.Message)
		return
	}
	if string(oerr.Code) != want.Code {
		result.AddError("diagnostic code = %s, want %s", oerr.Code, want.Code)
	}
	if want.Pos != "" && oerr.Pos.String() != want.Pos {
		result.AddError("diagnostic pos = %s, want %s", oerr.Pos, want.Pos)
	}
}

// checkOutcome validates a successful compile against expect.result
// and expect.folds.
func checkOutcome(result *Result, scenario *Scenario) {
	if scenario.Expect.Error != nil {
		result.AddError("expected diagnostic %s, got result %s", scenario.Expect.Error.Code, result.ReturnType)
		return
	}
	if result.ReturnType != scenario.Expect.Result {
		result.AddError("return type = %s, want %s", result.ReturnType, scenario.Expect.Result)
	}
	if len(scenario.Expect.Folds) == 0 {
		return
	}
	if len(result.Folds) != len(scenario.Expect.Folds) {
		result.AddError("fold count = %d, want %d", len(result.Folds), len(scenario.Expect.Folds))
		return
	}
	for i, want := range scenario.Expect.Folds {
		got := result.Folds[i]
		if got.Op != want.Op {
			result.AddError("folds[%d].op = %s, want %s", i, got.Op, want.Op)
		}
		if got.Result != want.Result {
			result.AddError("folds[%d].result = %s, want %s", i, got.Result, want.Result)
		}
	}
}
