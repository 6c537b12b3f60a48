package store

import (
	"context"
	"fmt"

	"github.com/seafold/seafold/internal/ir"
)

// ReadFoldEvents returns all fold events for a session with
// deterministic ordering: ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the session has no events.
func (s *Store) ReadFoldEvents(ctx context.Context, sessionToken string) ([]FoldRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_token, seq, node_id, op, result_type, replacement_id, pos
		FROM fold_events
		WHERE session_token = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, sessionToken)
	if err != nil {
		return nil, fmt.Errorf("query fold events: %w", err)
	}
	defer rows.Close()

	events := []FoldRecord{}
	for rows.Next() {
		var rec FoldRecord
		var nodeID, replID int64
		if err := rows.Scan(&rec.ID, &rec.SessionToken, &rec.Seq, &nodeID, &rec.Op, &rec.ResultType, &replID, &rec.Pos); err != nil {
			return nil, fmt.Errorf("scan fold event: %w", err)
		}
		rec.NodeID = ir.NodeID(nodeID)
		rec.ReplacementID = ir.NodeID(replID)
		events = append(events, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fold events: %w", err)
	}
	return events, nil
}
