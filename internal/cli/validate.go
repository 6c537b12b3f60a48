package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/seafold/seafold/internal/harness"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidationIssue is a single scenario file that failed validation.
type ValidationIssue struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// ValidationResult holds the outcome of validating a scenarios dir.
type ValidationResult struct {
	Valid  int               `json:"valid"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <scenarios-dir>",
		Short: "Validate scenario files against the schema",
		Long: `Validate scenario YAML files without running them.

Each file is checked against the embedded CUE schema and the
scenario-level constraints (required fields, result/error
exclusivity).

Exit codes:
  0 - All files valid
  1 - One or more files invalid
  2 - Command error (invalid paths, etc.)

Examples:
  seafold validate ./scenarios
  seafold validate ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	paths, err := filepath.Glob(filepath.Join(scenariosDir, "*.yaml"))
	if err != nil {
		return WrapExitError(ExitCommandError, "listing scenarios", err)
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no scenario files in %s", scenariosDir))
	}

	result := &ValidationResult{}
	for _, path := range paths {
		formatter.VerboseLog("Validating: %s", path)
		if _, err := harness.LoadScenario(path); err != nil {
			result.Issues = append(result.Issues, ValidationIssue{
				File:    filepath.Base(path),
				Message: err.Error(),
			})
			continue
		}
		result.Valid++
	}

	if err := outputValidationResult(formatter, result); err != nil {
		return err
	}
	if len(result.Issues) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d invalid scenario file(s)", len(result.Issues)))
	}
	return nil
}

func outputValidationResult(f *OutputFormatter, result *ValidationResult) error {
	if f.Format == "json" {
		return f.Success(result)
	}

	for _, issue := range result.Issues {
		fmt.Fprintf(f.Writer, "INVALID  %s: %s\n", issue.File, issue.Message)
	}
	fmt.Fprintf(f.Writer, "%d valid, %d invalid\n", result.Valid, len(result.Issues))
	return nil
}
