package testutil

// FixedTokenGenerator generates the same session token every time.
//
// This enables deterministic test execution: the same compile run
// with the same FixedTokenGenerator produces byte-identical fold-event
// logs (fold-event ids are content-addressed over the session token).
//
// Thread-safety: stateless and safe for concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a fixed session token generator.
// If token is empty, Generate() returns "test-session-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-session-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed session token.
//
// Implements store.TokenGenerator.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
