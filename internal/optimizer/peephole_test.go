package optimizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seafold/seafold/internal/ir"
)

// memRecorder captures fold events in memory.
type memRecorder struct {
	events []FoldEvent
	fail   error
}

func (r *memRecorder) RecordFold(ev FoldEvent) error {
	if r.fail != nil {
		return r.fail
	}
	r.events = append(r.events, ev)
	return nil
}

// newUnit creates a fresh compilation unit: counter, start anchor and
// optimizer over them.
func newUnit(t *testing.T, opts ...Option) (*ir.NodeIDCounter, *ir.Node, *Optimizer) {
	t.Helper()
	ids := ir.NewNodeIDCounter()
	start := ir.New(ids, ir.OpStart, ir.Pos{})
	o := New(ids, start, opts...)

	// The anchor itself goes through the rewriter like any node.
	got, err := o.Peephole(start)
	require.NoError(t, err)
	require.Same(t, start, got)
	require.True(t, start.Type().Equals(ir.Bot))
	return ids, start, o
}

func TestPeepholeFoldsArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   ir.OpCode
		x, y int64
		want int64
	}{
		{"add_3_4", ir.OpAdd, 3, 4, 7},
		{"sub_3_4", ir.OpSub, 3, 4, -1},
		{"mul_3_4", ir.OpMul, 3, 4, 12},
		{"div_4_3", ir.OpDiv, 4, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, start, o := newUnit(t)
			a := ir.NewConstant(ids, ir.IntFromInt64(tt.x), ir.Pos{})
			b := ir.NewConstant(ids, ir.IntFromInt64(tt.y), ir.Pos{})
			n := ir.New(ids, tt.op, ir.Pos{}, a, b)

			got, err := o.Peephole(n)
			require.NoError(t, err)

			assert.NotSame(t, n, got, "fold must return a brand-new node")
			assert.Equal(t, ir.OpCon, got.Op())
			assert.True(t, got.Type().Equals(ir.IntFromInt64(tt.want)),
				"got %s, want int(%d)", got.Type(), tt.want)

			// Reachability: the canonical constant hangs off start.
			assert.True(t, start.HasDef(got))

			// The folded node is gone: dead, detached, unreferenced.
			assert.True(t, n.Dead())
			assert.Zero(t, n.NumUsers())
			assert.False(t, a.HasUser(n))
			assert.False(t, b.HasUser(n))
		})
	}
}

func TestPeepholeConIdempotent(t *testing.T) {
	ids, _, o := newUnit(t)
	con := ir.NewConstant(ids, ir.IntFromInt64(3), ir.Pos{})

	got, err := o.Peephole(con)
	require.NoError(t, err)
	assert.Same(t, con, got, "folding an already-canonical constant is a no-op")
	assert.True(t, con.Type().Equals(ir.IntFromInt64(3)))

	// And again - still the same node.
	again, err := o.Peephole(got)
	require.NoError(t, err)
	assert.Same(t, con, again)
}

func TestPeepholeNonConstantUnchanged(t *testing.T) {
	// Add(Con(3), Start): Start is never a constant, so no fold.
	ids, start, o := newUnit(t)
	con := ir.NewConstant(ids, ir.IntFromInt64(3), ir.Pos{})
	add := ir.New(ids, ir.OpAdd, ir.Pos{}, con, start)

	got, err := o.Peephole(add)
	require.NoError(t, err)
	assert.Same(t, add, got)
	assert.True(t, add.Type().Equals(ir.Bot))
	assert.False(t, add.Dead())
}

func TestPeepholeDeterministic(t *testing.T) {
	ids, start, o := newUnit(t)
	con := ir.NewConstant(ids, ir.IntFromInt64(3), ir.Pos{})
	add := ir.New(ids, ir.OpAdd, ir.Pos{}, con, start)

	for i := 0; i < 5; i++ {
		got, err := o.Peephole(add)
		require.NoError(t, err)
		assert.Same(t, add, got)
		assert.True(t, add.Type().Equals(ir.Bot))
	}
}

func TestPeepholeRepointsExistingUsers(t *testing.T) {
	// A consumer built before the fold must end up consuming the
	// replacement: no dangling edges.
	ids, start, o := newUnit(t)
	a := ir.NewConstant(ids, ir.IntFromInt64(3), ir.Pos{})
	b := ir.NewConstant(ids, ir.IntFromInt64(4), ir.Pos{})
	add := ir.New(ids, ir.OpAdd, ir.Pos{}, a, b)
	ret := ir.New(ids, ir.OpRet, ir.Pos{}, start, add)

	got, err := o.Peephole(add)
	require.NoError(t, err)
	require.NotSame(t, add, got)

	assert.Same(t, got, ret.In(1), "consumer re-pointed at the canonical constant")
	assert.True(t, got.HasUser(ret))
	assert.False(t, ret.HasDef(add))
	assert.True(t, add.Dead())
}

func TestPeepholeEmitsFoldEvents(t *testing.T) {
	rec := &memRecorder{}
	ids, _, o := newUnit(t, WithRecorder(rec))

	a := ir.NewConstant(ids, ir.IntFromInt64(2), ir.Pos{Line: 1, Col: 8})
	b := ir.NewConstant(ids, ir.IntFromInt64(3), ir.Pos{Line: 1, Col: 10})
	mul := ir.New(ids, ir.OpMul, ir.Pos{Line: 1, Col: 9}, a, b)

	con, err := o.Peephole(mul)
	require.NoError(t, err)

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, int64(1), ev.Seq)
	assert.Equal(t, mul.ID(), ev.NodeID)
	assert.Equal(t, ir.OpMul, ev.Op)
	assert.True(t, ev.Type.Equals(ir.IntFromInt64(6)))
	assert.Equal(t, con.ID(), ev.ReplacementID)
	assert.Equal(t, ir.Pos{Line: 1, Col: 9}, ev.Pos)

	// A second fold gets the next seq.
	c := ir.NewConstant(ids, ir.IntFromInt64(1), ir.Pos{})
	add := ir.New(ids, ir.OpAdd, ir.Pos{}, con, c)
	_, err = o.Peephole(add)
	require.NoError(t, err)
	require.Len(t, rec.events, 2)
	assert.Equal(t, int64(2), rec.events[1].Seq)
}

func TestPeepholeRecorderFailure(t *testing.T) {
	boom := errors.New("disk full")
	rec := &memRecorder{fail: boom}
	ids, _, o := newUnit(t, WithRecorder(rec))

	n := binary(ids, ir.OpAdd, 1, 2)
	_, err := o.Peephole(n)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestPeepholeDiagnosticLeavesNodeUnfolded(t *testing.T) {
	ids, start, o := newUnit(t)
	n := binary(ids, ir.OpDiv, 5, 0)

	got, err := o.Peephole(n)
	require.Error(t, err)
	assert.True(t, IsDivideByZero(err))

	// The offending node survives so the driver can report against it.
	assert.Same(t, n, got)
	assert.False(t, n.Dead())
	assert.False(t, start.HasDef(n))
}

func TestPeepholeUnresolvedLattice(t *testing.T) {
	// A Con carrying Simple forces the unresolved constant-ness path.
	ids, _, o := newUnit(t)
	con := ir.NewConstant(ids, ir.Simple, ir.Pos{})

	_, err := o.Peephole(con)
	require.Error(t, err)

	var oe *Error
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, ErrCodeUnresolvedType, oe.Code)
	assert.False(t, oe.IsDiagnostic())
}

func TestPeepholeUnsupportedOpcodeIsFatal(t *testing.T) {
	ids, _, o := newUnit(t)
	n := ir.New(ids, ir.OpCode(42), ir.Pos{})

	got, err := o.Peephole(n)
	require.Error(t, err)
	assert.True(t, IsUnsupportedOpcode(err))
	assert.Same(t, n, got)
}

// recordingIdealizer marks nodes it saw.
type recordingIdealizer struct {
	seen []ir.NodeID
}

func (i *recordingIdealizer) Idealize(n *ir.Node) (*ir.Node, error) {
	i.seen = append(i.seen, n.ID())
	return n, nil
}

func TestPeepholeIdealizerHook(t *testing.T) {
	ideal := &recordingIdealizer{}
	ids, start, o := newUnit(t, WithIdealizer(ideal))

	// Non-foldable node: the hook runs after constant folding declines.
	con := ir.NewConstant(ids, ir.IntFromInt64(3), ir.Pos{})
	add := ir.New(ids, ir.OpAdd, ir.Pos{}, con, start)
	_, err := o.Peephole(add)
	require.NoError(t, err)
	assert.Contains(t, ideal.seen, add.ID())

	// Foldable node: constant folding wins, the hook is skipped.
	before := len(ideal.seen)
	n := binary(ids, ir.OpAdd, 1, 2)
	_, err = o.Peephole(n)
	require.NoError(t, err)
	assert.Len(t, ideal.seen, before)
}

func TestPeepholeWithoutIdealizerIsPlainNoRewrite(t *testing.T) {
	ids, start, o := newUnit(t)
	con := ir.NewConstant(ids, ir.IntFromInt64(3), ir.Pos{})
	add := ir.New(ids, ir.OpAdd, ir.Pos{}, con, start)

	got, err := o.Peephole(add)
	require.NoError(t, err)
	assert.Same(t, add, got)
}
