package ir

import (
	"errors"
	"fmt"
	"sort"
)

// NodeID uniquely identifies a node within a compilation unit.
// Ids are minted by NodeIDCounter and never reused.
type NodeID int64

// Pos is a source location carried onto every node so diagnostics can
// point at the offending expression.
type Pos struct {
	Line int
	Col  int
}

// String renders "line:col", or "-" for the zero (unknown) position.
func (p Pos) String() string {
	if p.Line == 0 && p.Col == 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// ErrLiveUsers is returned by Kill when a node still has consumers.
// Discarding such a node would leave dangling operand edges; if this
// surfaces, the rewrite protocol was violated and the error is a fatal
// internal-consistency failure, not a user error.
var ErrLiveUsers = errors.New("node still has live users")

// Node is a vertex of the sea-of-nodes graph.
//
// defs is the ordered operand list; users is the unordered set of
// back-references from consumers. The two are mutual inverses and are
// maintained together by every structural edit. users exists purely
// for graph bookkeeping (safe deletion, dead-code detection) - the
// transfer function never reads it.
type Node struct {
	id    NodeID
	op    OpCode // immutable after construction
	typ   Type
	pos   Pos
	defs  []*Node
	users map[NodeID]*Node
	dead  bool
}

// New creates a node with a fresh id and the given operands.
// The type starts at Bot, the pessimistic default; the peephole
// rewriter recomputes it.
func New(ids *NodeIDCounter, op OpCode, pos Pos, defs ...*Node) *Node {
	n := &Node{
		id:    ids.Next(),
		op:    op,
		typ:   Bot,
		pos:   pos,
		users: make(map[NodeID]*Node),
	}
	for _, d := range defs {
		n.AddDef(d)
	}
	return n
}

// NewConstant creates a Con node carrying typ. A constant's type is
// fixed here and never recomputed from operands.
func NewConstant(ids *NodeIDCounter, typ Type, pos Pos) *Node {
	return &Node{
		id:    ids.Next(),
		op:    OpCon,
		typ:   typ,
		pos:   pos,
		users: make(map[NodeID]*Node),
	}
}

// ID returns the node's unique id.
func (n *Node) ID() NodeID { return n.id }

// Op returns the node's opcode.
func (n *Node) Op() OpCode { return n.op }

// Type returns the node's current inferred type.
func (n *Node) Type() Type { return n.typ }

// SetType overwrites the node's inferred type. Visible to every
// holder of a reference to n - node state is shared, never copied.
func (n *Node) SetType(t Type) { n.typ = t }

// Pos returns the node's source location.
func (n *Node) Pos() Pos { return n.pos }

// NumDefs returns the number of operands.
func (n *Node) NumDefs() int { return len(n.defs) }

// In returns the i'th operand.
func (n *Node) In(i int) *Node { return n.defs[i] }

// Defs returns a copy of the ordered operand list.
func (n *Node) Defs() []*Node {
	out := make([]*Node, len(n.defs))
	copy(out, n.defs)
	return out
}

// NumUsers returns the number of distinct consumers.
func (n *Node) NumUsers() int { return len(n.users) }

// HasUser reports whether u consumes n as an operand.
func (n *Node) HasUser(u *Node) bool {
	_, ok := n.users[u.id]
	return ok
}

// HasDef reports whether d appears among n's operands.
func (n *Node) HasDef(d *Node) bool {
	for _, cur := range n.defs {
		if cur == d {
			return true
		}
	}
	return false
}

// UserIDs returns the consumer ids in ascending order. The users set
// itself is unordered; sorting here keeps dumps and tests stable.
func (n *Node) UserIDs() []NodeID {
	ids := make([]NodeID, 0, len(n.users))
	for id := range n.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Dead reports whether the node has been killed. Holding a reference
// to a dead node is a protocol violation by the holder.
func (n *Node) Dead() bool { return n.dead }

// AddDef appends d to n's operands and records n as a user of d.
// A node may appear as an operand more than once (e.g. Add(a, a));
// the users set stays deduplicated by id.
func (n *Node) AddDef(d *Node) {
	n.defs = append(n.defs, d)
	d.users[n.id] = n
}

// RemoveDef removes the first occurrence of d from n's operands and,
// if no occurrence remains, drops n from d's users.
func (n *Node) RemoveDef(d *Node) error {
	idx := -1
	for i, cur := range n.defs {
		if cur == d {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("remove def: node %d is not an operand of node %d", d.id, n.id)
	}
	n.defs = append(n.defs[:idx], n.defs[idx+1:]...)
	if !n.HasDef(d) {
		delete(d.users, n.id)
	}
	return nil
}

// ReplaceWith re-points every consumer of n at repl: each occurrence
// of n in a user's operand list becomes repl, and the user edges move
// with it. Afterwards n has no users and can be killed.
func (n *Node) ReplaceWith(repl *Node) error {
	if repl == n {
		return fmt.Errorf("replace node %d with itself", n.id)
	}
	for _, u := range n.users {
		for i, d := range u.defs {
			if d == n {
				u.defs[i] = repl
				repl.users[u.id] = u
			}
		}
	}
	n.users = make(map[NodeID]*Node)
	return nil
}

// Kill discards a node: detaches all operand edges and marks it dead.
// A node may only be discarded once its users set is empty; violating
// that returns ErrLiveUsers and leaves the graph untouched.
func (n *Node) Kill() error {
	if len(n.users) > 0 {
		return fmt.Errorf("kill node %d (%s): %w (%d remaining)", n.id, n.op, ErrLiveUsers, len(n.users))
	}
	for _, d := range n.defs {
		delete(d.users, n.id)
	}
	n.defs = nil
	n.dead = true
	return nil
}
