package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TokenGenerator generates unique session tokens for compile runs.
// Implemented by UUIDv7Generator (production) and the fixed generator
// in testutil (tests).
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session tokens.
// UUIDv7 embeds a timestamp in the most significant bits, so session
// tokens sort by creation time - helpful when listing sessions.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Session is a recorded compile run.
type Session struct {
	Token      string
	SourceHash string
	CreatedAt  time.Time
}

// CreateSession records a new compile session and returns its token.
func (s *Store) CreateSession(ctx context.Context, gen TokenGenerator, sourceHash string) (string, error) {
	token := gen.Generate()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, source_hash)
		VALUES (?, ?)
	`, token, sourceHash)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// ListSessions returns all sessions, newest first.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, source_hash, created_at
		FROM sessions
		ORDER BY created_at DESC, token DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		var createdAt string
		if err := rows.Scan(&sess.Token, &sess.SourceHash, &createdAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse session timestamp %q: %w", createdAt, err)
		}
		sess.CreatedAt = ts
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}
