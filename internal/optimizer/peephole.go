package optimizer

import (
	"fmt"
	"log/slog"

	"github.com/seafold/seafold/internal/ir"
)

// Optimizer rewrites nodes one at a time. It owns the fold-event
// clock and holds the two collaborators every fold needs: the id
// counter (sole authority for fresh ids) and the start anchor that
// keeps canonical constants reachable.
type Optimizer struct {
	ids       *ir.NodeIDCounter
	start     *ir.Node
	clock     *Clock
	recorder  FoldRecorder
	idealizer Idealizer
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithRecorder registers a FoldRecorder that persists fold events,
// e.g. the store's FoldWriter. Without one, folds are only logged.
func WithRecorder(r FoldRecorder) Option {
	return func(o *Optimizer) { o.recorder = r }
}

// WithIdealizer installs the algebraic-simplification hook. The
// optimizer ships no rules of its own; see Idealizer.
func WithIdealizer(i Idealizer) Option {
	return func(o *Optimizer) { o.idealizer = i }
}

// New creates an Optimizer bound to a compilation unit's id counter
// and start anchor.
func New(ids *ir.NodeIDCounter, start *ir.Node, opts ...Option) *Optimizer {
	o := &Optimizer{
		ids:   ids,
		start: start,
		clock: NewClock(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start returns the graph's start anchor node.
func (o *Optimizer) Start() *ir.Node { return o.start }

// Peephole consumes ownership of n and returns either n unchanged or
// a brand-new canonical constant that supersedes it. The caller must
// treat the returned node as the only remaining live reference - when
// a fold happens, n is detached and dead on return.
//
// Steps:
//  1. Recompute n's type via the transfer function, using the current
//     types of n's operands.
//  2. If n is already a Con, or its type is not constant: no rewrite.
//  3. Otherwise mint a fresh Con carrying the evaluated type, attach
//     it as an operand of the start anchor (so it stays reachable and
//     is never mistaken for dead code), re-point every consumer of n
//     at the new constant, and discard n.
//
// Arithmetic faults (overflow, division by zero) surface as
// diagnostics carrying n's source position; n is returned unfolded so
// the driver can report and continue or stop. Unsupported opcodes and
// unresolved lattice cases are programming errors and must stop
// compilation.
func (o *Optimizer) Peephole(n *ir.Node) (*ir.Node, error) {
	typ, err := EvalType(n)
	if err != nil {
		return n, err
	}
	n.SetType(typ)

	constant, err := typ.IsConstant()
	if err != nil {
		return n, newNodeError(ErrCodeUnresolvedType, n, err.Error())
	}

	if n.Op() == ir.OpCon || !constant {
		if o.idealizer != nil {
			return o.idealizer.Idealize(n)
		}
		return n, nil
	}

	con, err := o.fold(n, typ)
	if err != nil {
		return n, err
	}
	return con, nil
}

// fold replaces n with a canonical constant of type typ.
func (o *Optimizer) fold(n *ir.Node, typ ir.Type) (*ir.Node, error) {
	con := ir.NewConstant(o.ids, typ, n.Pos())

	// Anchor under start first: the constant must be reachable before
	// the folded node goes away.
	o.start.AddDef(con)

	// Re-point consumers, then discard. Kill asserts the invariant
	// that nothing references n anymore.
	if err := n.ReplaceWith(con); err != nil {
		return nil, newNodeError(ErrCodeLiveUsers, n, fmt.Sprintf("replace failed: %v", err))
	}
	if err := n.Kill(); err != nil {
		return nil, newNodeError(ErrCodeLiveUsers, n, err.Error())
	}

	ev := FoldEvent{
		Seq:           o.clock.Next(),
		NodeID:        n.ID(),
		Op:            n.Op(),
		Type:          typ,
		ReplacementID: con.ID(),
		Pos:           n.Pos(),
	}

	slog.Debug("constant folded",
		"seq", ev.Seq,
		"node", int64(ev.NodeID),
		"op", ev.Op.String(),
		"type", ev.Type.String(),
		"replacement", int64(ev.ReplacementID),
		"pos", ev.Pos.String(),
	)

	if o.recorder != nil {
		if err := o.recorder.RecordFold(ev); err != nil {
			return nil, fmt.Errorf("record fold event for node %d: %w", n.ID(), err)
		}
	}

	return con, nil
}
