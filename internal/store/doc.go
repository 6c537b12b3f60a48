// Package store persists the optimizer's fold-event log.
//
// Each compile run is a session keyed by a UUIDv7 token; every
// constant fold within the session is recorded as a content-addressed
// fold event. Writes are idempotent (ON CONFLICT DO NOTHING keyed on
// the content hash) and reads are deterministically ordered by seq,
// so a recorded session replays in the exact order folds happened.
package store
