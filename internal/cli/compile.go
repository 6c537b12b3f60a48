package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seafold/seafold/internal/ir"
	"github.com/seafold/seafold/internal/optimizer"
	"github.com/seafold/seafold/internal/parser"
	"github.com/seafold/seafold/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Expr     string // inline source instead of a file
	Database string // optional SQLite path for persisting the session
	Session  string // optional fixed session token
}

// FoldSummary is one fold event in compile output.
type FoldSummary struct {
	Seq         int64     `json:"seq"`
	Node        ir.NodeID `json:"node"`
	Op          string    `json:"op"`
	Result      string    `json:"result"`
	Replacement ir.NodeID `json:"replacement"`
	Pos         string    `json:"pos"`
}

// CompileResult holds the compiled and folded graph.
type CompileResult struct {
	Source       string        `json:"source"`
	ReturnType   string        `json:"return_type"`
	Dump         string        `json:"dump"`
	Folds        []FoldSummary `json:"folds"`
	SessionToken string        `json:"session_token,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a program and fold constants",
		Long: `Compile a source program into a node graph, folding constant
expressions as the graph is built.

The output is the final graph dump plus the fold trace. With --db,
the run is recorded as a session and every fold event is persisted
for later inspection with 'seafold trace'.

Exit codes:
  0 - Compiled successfully
  1 - Fold diagnostic (overflow, division by zero)
  2 - Command error (unreadable file, syntax error, database error)

Examples:
  seafold compile program.sf
  seafold compile -e "return 1+2*3;"
  seafold compile -e "return 1+2*3;" --db ./seafold.db
  seafold compile program.sf --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "compile an inline expression instead of a file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for session recording")
	cmd.Flags().StringVar(&opts.Session, "session", "", "fixed session token (default: generated UUIDv7)")

	return cmd
}

// foldCollector keeps fold events for output and optionally forwards
// them to a persistent recorder.
type foldCollector struct {
	folds   []FoldSummary
	forward optimizer.FoldRecorder
}

func (c *foldCollector) RecordFold(ev optimizer.FoldEvent) error {
	c.folds = append(c.folds, FoldSummary{
		Seq:         ev.Seq,
		Node:        ev.NodeID,
		Op:          ev.Op.String(),
		Result:      ev.Type.String(),
		Replacement: ev.ReplacementID,
		Pos:         ev.Pos.String(),
	})
	if c.forward != nil {
		return c.forward.RecordFold(ev)
	}
	return nil
}

func runCompile(opts *CompileOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	source, err := compileSource(opts, args)
	if err != nil {
		return err
	}

	collector := &foldCollector{}
	sessionToken := ""

	// Session recording is optional; without --db the compile is
	// purely in-memory.
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "opening database", err)
		}
		defer st.Close()

		ctx := context.Background()
		var gen store.TokenGenerator = store.UUIDv7Generator{}
		if opts.Session != "" {
			gen = fixedToken(opts.Session)
		}
		sessionToken, err = st.CreateSession(ctx, gen, ir.SourceHash(source))
		if err != nil {
			return WrapExitError(ExitCommandError, "creating session", err)
		}
		collector.forward = st.NewFoldWriter(ctx, sessionToken)
		formatter.VerboseLog("Recording session %s", sessionToken)
	}

	parsed, err := parser.Parse(source, optimizer.WithRecorder(collector))
	if err != nil {
		var oerr *optimizer.Error
		if errors.As(err, &oerr) && oerr.IsDiagnostic() {
			_ = formatter.Error(string(oerr.Code), oerr.Message, map[string]any{
				"node": oerr.Node,
				"op":   oerr.Op.String(),
				"pos":  oerr.Pos.String(),
			})
			return NewExitError(ExitFailure, oerr.Message)
		}
		return WrapExitError(ExitCommandError, "compile failed", err)
	}

	result := &CompileResult{
		Source:       source,
		ReturnType:   parsed.Ret.In(1).Type().String(),
		Dump:         ir.Dump(parsed.Ret),
		Folds:        collector.folds,
		SessionToken: sessionToken,
	}
	return outputCompileSuccess(formatter, result)
}

// compileSource resolves the program text from --expr or a file arg.
func compileSource(opts *CompileOptions, args []string) (string, error) {
	if opts.Expr != "" {
		if len(args) > 0 {
			return "", NewExitError(ExitCommandError, "pass either --expr or a file, not both")
		}
		return opts.Expr, nil
	}
	if len(args) == 0 {
		return "", NewExitError(ExitCommandError, "a source file or --expr is required")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", WrapExitError(ExitCommandError, "reading source file", err)
	}
	return string(data), nil
}

// fixedToken is a TokenGenerator over a caller-supplied token.
type fixedToken string

func (t fixedToken) Generate() string { return string(t) }

func outputCompileSuccess(f *OutputFormatter, result *CompileResult) error {
	if f.Format == "json" {
		return f.Success(result)
	}

	fmt.Fprintf(f.Writer, "return type: %s\n", result.ReturnType)
	if len(result.Folds) > 0 {
		fmt.Fprintf(f.Writer, "folds:\n")
		for _, fold := range result.Folds {
			fmt.Fprintf(f.Writer, "  [%d] %s at %s => %s (node #%d -> #%d)\n",
				fold.Seq, fold.Op, fold.Pos, fold.Result, fold.Node, fold.Replacement)
		}
	}
	fmt.Fprintf(f.Writer, "graph:\n%s", result.Dump)
	if result.SessionToken != "" {
		fmt.Fprintf(f.Writer, "session: %s\n", result.SessionToken)
	}
	return nil
}
