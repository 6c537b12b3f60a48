package store

import (
	"context"
	"fmt"

	"github.com/seafold/seafold/internal/ir"
	"github.com/seafold/seafold/internal/optimizer"
)

// FoldRecord is a persisted fold event.
type FoldRecord struct {
	// ID is the content-addressed hash of the event (ir.FoldEventID).
	ID string `json:"id"`

	// SessionToken links the event to its compile session.
	SessionToken string `json:"session_token"`

	// Seq is the logical clock stamp; unique within a session.
	Seq int64 `json:"seq"`

	// NodeID, Op and ResultType describe the folded node.
	NodeID     ir.NodeID `json:"node_id"`
	Op         string    `json:"op"`
	ResultType string    `json:"result_type"`

	// ReplacementID is the canonical constant that superseded NodeID.
	ReplacementID ir.NodeID `json:"replacement_id"`

	// Pos is the folded node's source location ("line:col" or "-").
	Pos string `json:"pos"`
}

// WriteFoldEvent inserts a fold event. The id is content-addressed,
// so re-recording the same fold is idempotent (ON CONFLICT DO
// NOTHING); other constraint violations still return errors.
func (s *Store) WriteFoldEvent(ctx context.Context, rec FoldRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fold_events
		(id, session_token, seq, node_id, op, result_type, replacement_id, pos)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.SessionToken,
		rec.Seq,
		int64(rec.NodeID),
		rec.Op,
		rec.ResultType,
		int64(rec.ReplacementID),
		rec.Pos,
	)
	if err != nil {
		return fmt.Errorf("write fold event: %w", err)
	}
	return nil
}

// FoldWriter adapts a Store and session into an optimizer.FoldRecorder.
type FoldWriter struct {
	store   *Store
	ctx     context.Context
	session string
}

// NewFoldWriter creates a recorder that persists fold events for the
// given session. The context bounds every write - the optimizer
// itself has no cancellation semantics, so it lives here, at the
// persistence edge.
func (s *Store) NewFoldWriter(ctx context.Context, sessionToken string) *FoldWriter {
	return &FoldWriter{store: s, ctx: ctx, session: sessionToken}
}

// RecordFold implements optimizer.FoldRecorder.
func (w *FoldWriter) RecordFold(ev optimizer.FoldEvent) error {
	id, err := ir.FoldEventID(w.session, ev.Seq, ev.NodeID, ev.Op, ev.Type, ev.ReplacementID)
	if err != nil {
		return fmt.Errorf("fold event id: %w", err)
	}

	return w.store.WriteFoldEvent(w.ctx, FoldRecord{
		ID:            id,
		SessionToken:  w.session,
		Seq:           ev.Seq,
		NodeID:        ev.NodeID,
		Op:            ev.Op.String(),
		ResultType:    ev.Type.String(),
		ReplacementID: ev.ReplacementID,
		Pos:           ev.Pos.String(),
	})
}
