// Package optimizer implements the peephole rewriter: a local,
// per-node rewrite that infers the most precise statically-known type
// of a node via a pure transfer function, and replaces nodes whose
// type is a known constant with canonical Con nodes.
//
// The rewriter is invoked inline by the builder immediately after
// each node is constructed - it never scans the whole graph. Because
// a rewrite can destroy the input node, callers must treat the
// returned reference as the only remaining live one.
package optimizer
