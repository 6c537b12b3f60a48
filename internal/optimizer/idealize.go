package optimizer

import "github.com/seafold/seafold/internal/ir"

// Idealizer is the second rewrite hook: pattern-driven algebraic
// simplification beyond constant folding (identity and absorbing
// element rules, strength reduction). It is a designed extension
// point with no built-in rules yet - the optimizer ships none and
// applies an Idealizer only when one is configured via WithIdealizer.
//
// Contract mirrors Peephole: the returned node is the authoritative
// reference. Returning the input unchanged means "no simplification".
// An Idealizer must keep the defs/users duality intact and must not
// discard nodes that still have users.
type Idealizer interface {
	Idealize(n *ir.Node) (*ir.Node, error)
}
