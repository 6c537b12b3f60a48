package optimizer

import (
	"errors"
	"fmt"

	"github.com/seafold/seafold/internal/ir"
)

// Error represents a failure detected during type evaluation or
// rewriting. Two classes share this shape:
//
//   - Compile-time diagnostics (overflow, divide-by-zero): reported
//     against the offending node's source location so a driver can
//     surface them to the user instead of aborting the process.
//   - Programming errors (unsupported opcode, unresolved lattice
//     case, live-user kill, malformed arity): the optimizer does not
//     support a construct the front end produced, or the rewrite
//     protocol was violated. Compilation must stop.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Node is the id of the offending node.
	Node ir.NodeID

	// Op is the offending node's opcode.
	Op ir.OpCode

	// Pos is the node's source location, when known.
	Pos ir.Pos
}

// ErrorCode categorizes optimizer errors.
type ErrorCode string

const (
	// ErrCodeOverflow indicates folded arithmetic left the 128-bit
	// signed range.
	ErrCodeOverflow ErrorCode = "OVERFLOW"

	// ErrCodeDivideByZero indicates folding would divide by a
	// literal zero.
	ErrCodeDivideByZero ErrorCode = "DIVIDE_BY_ZERO"

	// ErrCodeUnsupportedOpcode indicates the transfer function has no
	// rule for the node's opcode.
	ErrCodeUnsupportedOpcode ErrorCode = "UNSUPPORTED_OPCODE"

	// ErrCodeUnresolvedType indicates a lattice case with undefined
	// semantics (Simple) reached a decision point.
	ErrCodeUnresolvedType ErrorCode = "UNRESOLVED_TYPE"

	// ErrCodeLiveUsers indicates a node was discarded while other
	// nodes still referenced it as an operand.
	ErrCodeLiveUsers ErrorCode = "LIVE_USERS"

	// ErrCodeMalformedNode indicates a node's operand list does not
	// match its opcode's arity.
	ErrCodeMalformedNode ErrorCode = "MALFORMED_NODE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos != (ir.Pos{}) {
		return fmt.Sprintf("%s: %s: %s (node=%d, op=%s)", e.Pos, e.Code, e.Message, e.Node, e.Op)
	}
	return fmt.Sprintf("%s: %s (node=%d, op=%s)", e.Code, e.Message, e.Node, e.Op)
}

// IsDiagnostic reports whether the error is a user-facing compile
// diagnostic rather than an internal programming error.
func (e *Error) IsDiagnostic() bool {
	return e.Code == ErrCodeOverflow || e.Code == ErrCodeDivideByZero
}

// IsOverflow returns true for 128-bit range overflow diagnostics.
// Uses errors.As to handle wrapped errors.
func IsOverflow(err error) bool {
	var oe *Error
	return errors.As(err, &oe) && oe.Code == ErrCodeOverflow
}

// IsDivideByZero returns true for literal division-by-zero diagnostics.
func IsDivideByZero(err error) bool {
	var oe *Error
	return errors.As(err, &oe) && oe.Code == ErrCodeDivideByZero
}

// IsUnsupportedOpcode returns true when the transfer function had no
// rule for an opcode.
func IsUnsupportedOpcode(err error) bool {
	var oe *Error
	return errors.As(err, &oe) && oe.Code == ErrCodeUnsupportedOpcode
}

func newNodeError(code ErrorCode, n *ir.Node, msg string) *Error {
	return &Error{
		Code:    code,
		Message: msg,
		Node:    n.ID(),
		Op:      n.Op(),
		Pos:     n.Pos(),
	}
}
