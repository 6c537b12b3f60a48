package optimizer

import (
	"fmt"
	"math/big"

	"github.com/seafold/seafold/internal/ir"
)

// EvalType is the transfer function: given a node's opcode and its
// operands' current types, it computes the node's own most precise
// current type. Pure - no side effects, no graph mutation.
//
// Operand types are assumed up to date; no recursive re-evaluation of
// ancestors happens here. This is a local rewrite step, not a global
// fixed-point pass.
//
// Rules:
//   - Start, Ret: always Bot (control carries no foldable value).
//   - Con: its own already-assigned type, unchanged.
//   - Add, Sub, Mul, Div: literal 128-bit two's-complement arithmetic
//     when both operands are Int; Bot otherwise. No partial or
//     symbolic folding (x*0 is not simplified unless x is literal).
//   - Anything else: ErrCodeUnsupportedOpcode. Never a silent default.
//
// Overflow and division by a literal zero return diagnostics carrying
// the node's source position.
func EvalType(n *ir.Node) (ir.Type, error) {
	switch n.Op() {
	case ir.OpStart, ir.OpRet:
		return ir.Bot, nil

	case ir.OpCon:
		// Constants have static type, assigned at construction.
		return n.Type(), nil

	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv:
		return evalArithmetic(n)

	default:
		return ir.Bot, newNodeError(ErrCodeUnsupportedOpcode, n,
			fmt.Sprintf("no transfer rule for opcode %s", n.Op()))
	}
}

// evalArithmetic partially evaluates a binary arithmetic node.
func evalArithmetic(n *ir.Node) (ir.Type, error) {
	if n.NumDefs() != 2 {
		return ir.Bot, newNodeError(ErrCodeMalformedNode, n,
			fmt.Sprintf("%s expects 2 operands, has %d", n.Op(), n.NumDefs()))
	}

	x, xok := n.In(0).Type().IntValue()
	y, yok := n.In(1).Type().IntValue()
	if !xok || !yok {
		// Either operand not a literal constant: conservatively Bot.
		return ir.Bot, nil
	}

	result := new(big.Int)
	switch n.Op() {
	case ir.OpAdd:
		result.Add(x, y)
	case ir.OpSub:
		result.Sub(x, y)
	case ir.OpMul:
		result.Mul(x, y)
	case ir.OpDiv:
		if y.Sign() == 0 {
			return ir.Bot, newNodeError(ErrCodeDivideByZero, n, "division by zero constant")
		}
		// Quo truncates toward zero, matching the required integer
		// division semantics.
		result.Quo(x, y)
	}

	// MinInt128 / -1 is the one division that overflows; the range
	// check below catches it along with add/sub/mul overflow.
	if !ir.InIntRange(result) {
		return ir.Bot, newNodeError(ErrCodeOverflow, n,
			fmt.Sprintf("%s overflows 128-bit integer range", n.Op()))
	}

	return ir.Int(result), nil
}
