package optimizer

import "github.com/seafold/seafold/internal/ir"

// FoldEvent describes one constant-fold rewrite: the node that was
// folded away, the evaluated type, and the canonical constant that
// replaced it. Every fold emits exactly one event.
type FoldEvent struct {
	// Seq is the logical clock stamp; events within a compilation
	// unit are strictly ordered by it.
	Seq int64

	// NodeID is the folded (discarded) node.
	NodeID ir.NodeID

	// Op is the folded node's opcode.
	Op ir.OpCode

	// Type is the evaluated constant type the fold produced.
	Type ir.Type

	// ReplacementID is the canonical Con node that superseded NodeID.
	ReplacementID ir.NodeID

	// Pos is the folded node's source location.
	Pos ir.Pos
}

// FoldRecorder receives fold events as they happen. Implemented by
// the store's FoldWriter for persistence; tests use in-memory
// recorders. Recording failures stop the rewrite - a fold whose
// event cannot be recorded is treated as not having happened cleanly.
type FoldRecorder interface {
	RecordFold(ev FoldEvent) error
}
