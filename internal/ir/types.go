package ir

import (
	"errors"
	"fmt"
	"math/big"
)

// TypeKind discriminates the cases of the type lattice.
type TypeKind int

const (
	// KindBot: provably not a compile-time constant. The most
	// conservative fact; binary arithmetic over anything non-literal
	// lands here.
	KindBot TypeKind = iota

	// KindTop: compile-time-unknown but not yet proven non-constant.
	KindTop

	// KindSimple: placeholder for a non-integer primitive type.
	// Its constant-ness is unresolved; asking for it is an error.
	KindSimple

	// KindInt: a literal integer constant in the 128-bit signed range.
	KindInt
)

// ErrUnresolvedLattice is returned when a lattice case with undefined
// semantics (Simple) is asked a question it cannot answer yet. The
// optimizer treats it as a programming error, never a silent default.
var ErrUnresolvedLattice = errors.New("unresolved lattice case")

// Int128 value range. Constants are fixed-width 128-bit two's-complement;
// arithmetic that leaves this range is an overflow diagnostic.
var (
	// MaxInt128 is 2^127 - 1.
	MaxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	// MinInt128 is -2^127.
	MinInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// InIntRange reports whether v fits the 128-bit signed range.
func InIntRange(v *big.Int) bool {
	return v.Cmp(MinInt128) >= 0 && v.Cmp(MaxInt128) <= 0
}

// Type is a value in a small bounded lattice describing how precisely
// a node's value is known at compile time.
//
// Types are immutable values: constructors copy the integer payload
// and accessors never expose the internal pointer for mutation.
type Type struct {
	kind  TypeKind
	value *big.Int // non-nil iff kind == KindInt
}

// Lattice elements without a payload.
var (
	Bot    = Type{kind: KindBot}
	Top    = Type{kind: KindTop}
	Simple = Type{kind: KindSimple}
)

// Int returns the lattice element for a literal integer constant.
// The value is copied; callers keep ownership of v.
//
// Int panics if v is outside the 128-bit signed range - constants can
// only enter the graph through the lexer or the transfer function,
// both of which range-check first.
func Int(v *big.Int) Type {
	if !InIntRange(v) {
		panic(fmt.Sprintf("ir.Int: value out of 128-bit range: %s", v))
	}
	return Type{kind: KindInt, value: new(big.Int).Set(v)}
}

// IntFromInt64 is a convenience constructor for small constants.
func IntFromInt64(v int64) Type {
	return Type{kind: KindInt, value: big.NewInt(v)}
}

// Kind returns the lattice case.
func (t Type) Kind() TypeKind { return t.kind }

// IsConstant reports whether the type drives constant folding.
// Top and Int are constant; Bot is not. Simple's constant-ness is
// unresolved and returns ErrUnresolvedLattice rather than defaulting
// to either polarity.
func (t Type) IsConstant() (bool, error) {
	switch t.kind {
	case KindBot:
		return false, nil
	case KindTop, KindInt:
		return true, nil
	case KindSimple:
		return false, fmt.Errorf("constant-ness of Simple: %w", ErrUnresolvedLattice)
	default:
		return false, fmt.Errorf("constant-ness of kind %d: %w", t.kind, ErrUnresolvedLattice)
	}
}

// IntValue returns a copy of the literal value and true when the type
// is Int, nil and false otherwise.
func (t Type) IntValue() (*big.Int, bool) {
	if t.kind != KindInt {
		return nil, false
	}
	return new(big.Int).Set(t.value), true
}

// Equals reports lattice equality: same case and, for Int, the same
// literal value.
func (t Type) Equals(other Type) bool {
	if t.kind != other.kind {
		return false
	}
	if t.kind != KindInt {
		return true
	}
	return t.value.Cmp(other.value) == 0
}

// String renders the type as it appears in graph dumps:
// bot, top, simple, int(42).
func (t Type) String() string {
	switch t.kind {
	case KindBot:
		return "bot"
	case KindTop:
		return "top"
	case KindSimple:
		return "simple"
	case KindInt:
		return fmt.Sprintf("int(%s)", t.value)
	default:
		return fmt.Sprintf("kind(%d)", t.kind)
	}
}
