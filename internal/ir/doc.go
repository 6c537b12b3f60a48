// Package ir defines the sea-of-nodes intermediate representation:
// the opcode set, the type lattice used for constant propagation, the
// mutable node graph with operand/user edges, and the canonical
// serialization used for content-addressed fold-event identity.
//
// The graph is process-local mutable state with shared ownership:
// many nodes may hold references to the same operand. All structural
// edits go through Node methods so the defs/users duality is kept
// consistent - if A is in B.defs then B is in A.users, always.
package ir
