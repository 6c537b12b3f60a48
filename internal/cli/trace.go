package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/seafold/seafold/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string // optional - show a single session's fold events
}

// SessionSummary is one recorded compile session in trace output.
type SessionSummary struct {
	Token      string `json:"token"`
	SourceHash string `json:"source_hash"`
	CreatedAt  string `json:"created_at"`
}

// TraceResult holds the trace output: either a session listing or a
// single session's fold events.
type TraceResult struct {
	Sessions []SessionSummary  `json:"sessions,omitempty"`
	Session  string            `json:"session,omitempty"`
	Events   []store.FoldRecord `json:"events,omitempty"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded fold sessions",
		Long: `Inspect compile sessions recorded with 'seafold compile --db'.

Without --session, lists all recorded sessions, newest first.
With --session, prints the session's fold events in fold order.

Examples:
  seafold trace --db ./seafold.db
  seafold trace --db ./seafold.db --session 0190a8b2-...
  seafold trace --db ./seafold.db --session 0190a8b2-... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token to inspect")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer st.Close()

	ctx := context.Background()
	if opts.Session == "" {
		return traceSessions(ctx, formatter, st)
	}
	return traceEvents(ctx, formatter, st, opts.Session)
}

func traceSessions(ctx context.Context, f *OutputFormatter, st *store.Store) error {
	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "listing sessions", err)
	}

	result := &TraceResult{Sessions: make([]SessionSummary, 0, len(sessions))}
	for _, sess := range sessions {
		result.Sessions = append(result.Sessions, SessionSummary{
			Token:      sess.Token,
			SourceHash: sess.SourceHash,
			CreatedAt:  sess.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}

	if f.Format == "json" {
		return f.Success(result)
	}
	if len(result.Sessions) == 0 {
		fmt.Fprintln(f.Writer, "no sessions recorded")
		return nil
	}
	for _, sess := range result.Sessions {
		fmt.Fprintf(f.Writer, "%s  %s  %s\n", sess.Token, sess.CreatedAt, sess.SourceHash)
	}
	return nil
}

func traceEvents(ctx context.Context, f *OutputFormatter, st *store.Store, session string) error {
	events, err := st.ReadFoldEvents(ctx, session)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading fold events", err)
	}

	result := &TraceResult{Session: session, Events: events}
	if f.Format == "json" {
		return f.Success(result)
	}

	if len(events) == 0 {
		fmt.Fprintf(f.Writer, "no fold events for session %s\n", session)
		return nil
	}
	fmt.Fprintf(f.Writer, "session %s\n", session)
	for _, ev := range events {
		fmt.Fprintf(f.Writer, "  [%d] %s at %s => %s (node #%d -> #%d)\n",
			ev.Seq, ev.Op, ev.Pos, ev.ResultType, ev.NodeID, ev.ReplacementID)
	}
	return nil
}
