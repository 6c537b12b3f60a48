package ir

import "fmt"

// OpCode identifies the kind of a graph node.
//
// The set is closed: the optimizer's transfer function treats any
// opcode outside this enumeration as a programming error, never as a
// silent default.
type OpCode int

const (
	// OpStart is the control anchor every compilation unit begins with.
	// Canonical constants are attached under it so they are reachable
	// and never mistaken for dead code.
	OpStart OpCode = iota

	// OpRet returns a value; defs[0] is control, defs[1] is data.
	OpRet

	// OpCon is a constant. Its type is fixed at construction time and
	// is never recomputed from operands.
	OpCon

	// Binary arithmetic. Exactly two operands: defs[0] and defs[1].
	OpAdd
	OpSub
	OpMul
	OpDiv
)

// String returns the opcode name as it appears in graph dumps.
func (op OpCode) String() string {
	switch op {
	case OpStart:
		return "Start"
	case OpRet:
		return "Ret"
	case OpCon:
		return "Con"
	case OpAdd:
		return "Add"
	case OpSub:
		return "Sub"
	case OpMul:
		return "Mul"
	case OpDiv:
		return "Div"
	default:
		return fmt.Sprintf("OpCode(%d)", int(op))
	}
}

// IsArithmetic reports whether the opcode is one of the binary
// arithmetic operations handled by the transfer function.
func (op OpCode) IsArithmetic() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	default:
		return false
	}
}
