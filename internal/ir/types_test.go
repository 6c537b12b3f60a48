package ir

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsConstantPolarity(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want bool
	}{
		{"bot_not_constant", Bot, false},
		{"top_constant", Top, true},
		{"int_constant", IntFromInt64(42), true},
		{"int_zero_constant", IntFromInt64(0), true},
		{"int_negative_constant", IntFromInt64(-7), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.typ.IsConstant()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsConstantSimpleUnresolved(t *testing.T) {
	// Simple's constant-ness has no defined polarity yet. It must
	// error out, never silently default.
	_, err := Simple.IsConstant()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedLattice)
}

func TestIntValueCopies(t *testing.T) {
	v := big.NewInt(100)
	typ := Int(v)

	// Mutating the input must not affect the type.
	v.SetInt64(999)
	got, ok := typ.IntValue()
	require.True(t, ok)
	assert.Equal(t, int64(100), got.Int64())

	// Mutating the output must not affect the type either.
	got.SetInt64(-1)
	again, ok := typ.IntValue()
	require.True(t, ok)
	assert.Equal(t, int64(100), again.Int64())
}

func TestIntValueNonInt(t *testing.T) {
	for _, typ := range []Type{Bot, Top, Simple} {
		v, ok := typ.IntValue()
		assert.False(t, ok)
		assert.Nil(t, v)
	}
}

func TestTypeEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"bot_bot", Bot, Bot, true},
		{"top_top", Top, Top, true},
		{"bot_top", Bot, Top, false},
		{"int_same", IntFromInt64(3), IntFromInt64(3), true},
		{"int_diff", IntFromInt64(3), IntFromInt64(4), false},
		{"int_bot", IntFromInt64(3), Bot, false},
		{"simple_simple", Simple, Simple, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equals(tt.b))
			assert.Equal(t, tt.want, tt.b.Equals(tt.a))
		})
	}
}

func TestInIntRange(t *testing.T) {
	one := big.NewInt(1)

	assert.True(t, InIntRange(big.NewInt(0)))
	assert.True(t, InIntRange(MaxInt128))
	assert.True(t, InIntRange(MinInt128))
	assert.False(t, InIntRange(new(big.Int).Add(MaxInt128, one)))
	assert.False(t, InIntRange(new(big.Int).Sub(MinInt128, one)))
}

func TestIntOutOfRangePanics(t *testing.T) {
	tooBig := new(big.Int).Add(MaxInt128, big.NewInt(1))
	assert.Panics(t, func() { Int(tooBig) })
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "bot", Bot.String())
	assert.Equal(t, "top", Top.String())
	assert.Equal(t, "simple", Simple.String())
	assert.Equal(t, "int(42)", IntFromInt64(42).String())
	assert.Equal(t, "int(-1)", IntFromInt64(-1).String())
}
