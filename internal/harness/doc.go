// Package harness provides conformance testing for the peephole optimizer.
//
// The harness loads scenario files, compiles their source through the
// parser and optimizer, and validates the resulting graph and fold
// trace against declared expectations and golden snapshots.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	source: "return 1+2*3;"
//	expect:
//	  result: int(7)
//	  folds:
//	    - op: Mul
//	      result: int(6)
//	    - op: Add
//	      result: int(7)
//
// Diagnostic scenarios expect an error instead of a result:
//
//	expect:
//	  error:
//	    code: DIVIDE_BY_ZERO
//	    pos: "1:9"
//
// Every scenario file is validated against an embedded CUE schema
// before decoding, so malformed scenarios fail with a schema error
// rather than a confusing zero-value mismatch downstream.
//
// # Deterministic Testing
//
// Node ids are allocated from a fresh counter per run and fold
// sequence numbers from a fresh logical clock, so the same source
// always produces the same graph dump and the same fold trace. This
// makes golden snapshot comparison byte-stable across runs.
//
// # Usage
//
// Load and run a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/fold_chain.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
