package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldEventIDDeterministic(t *testing.T) {
	a, err := FoldEventID("session-1", 1, 4, OpAdd, IntFromInt64(7), 5)
	require.NoError(t, err)
	b, err := FoldEventID("session-1", 1, 4, OpAdd, IntFromInt64(7), 5)
	require.NoError(t, err)

	assert.Equal(t, a, b, "same inputs must produce the same id")
	assert.Len(t, a, 64, "hex-encoded SHA-256")
}

func TestFoldEventIDSensitivity(t *testing.T) {
	base := MustFoldEventID("session-1", 1, 4, OpAdd, IntFromInt64(7), 5)

	tests := []struct {
		name string
		id   string
	}{
		{"different_session", MustFoldEventID("session-2", 1, 4, OpAdd, IntFromInt64(7), 5)},
		{"different_seq", MustFoldEventID("session-1", 2, 4, OpAdd, IntFromInt64(7), 5)},
		{"different_node", MustFoldEventID("session-1", 1, 9, OpAdd, IntFromInt64(7), 5)},
		{"different_op", MustFoldEventID("session-1", 1, 4, OpMul, IntFromInt64(7), 5)},
		{"different_type", MustFoldEventID("session-1", 1, 4, OpAdd, IntFromInt64(8), 5)},
		{"different_replacement", MustFoldEventID("session-1", 1, 4, OpAdd, IntFromInt64(7), 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, tt.id)
		})
	}
}

func TestSourceHashStable(t *testing.T) {
	a := SourceHash("return 1+2;")
	b := SourceHash("return 1+2;")
	c := SourceHash("return 1+3;")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestDomainSeparation(t *testing.T) {
	// The same bytes hashed under different domains must differ.
	assert.NotEqual(t,
		hashWithDomain(DomainFoldEvent, []byte("x")),
		hashWithDomain(DomainSource, []byte("x")),
	)
}
