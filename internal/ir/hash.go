package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix
// enables future algorithm migration without id collisions.
const (
	DomainFoldEvent = "seafold/fold/v1"
	DomainSource    = "seafold/source/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data). The null byte
// separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// FoldEventID computes the content-addressed id of a fold event.
// The id is stable across restarts given the same inputs, which makes
// fold-event writes idempotent in the store.
func FoldEventID(session string, seq int64, node NodeID, op OpCode, typ Type, replacement NodeID) (string, error) {
	obj := map[string]any{
		"session":     session,
		"seq":         seq,
		"node":        node,
		"op":          op.String(),
		"type":        typ.String(),
		"replacement": replacement,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("FoldEventID: marshal: %w", err)
	}
	return hashWithDomain(DomainFoldEvent, canonical), nil
}

// MustFoldEventID is like FoldEventID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFoldEventID(session string, seq int64, node NodeID, op OpCode, typ Type, replacement NodeID) string {
	id, err := FoldEventID(session, seq, node, op, typ, replacement)
	if err != nil {
		panic(err)
	}
	return id
}

// SourceHash computes the content-addressed hash of a source program,
// recorded per compile session for traceability.
func SourceHash(src string) string {
	return hashWithDomain(DomainSource, []byte(src))
}
