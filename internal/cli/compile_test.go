package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileInlineExpr(t *testing.T) {
	out, err := executeCommand(t, "compile", "-e", "return 1+2*3;")
	require.NoError(t, err)

	assert.Contains(t, out, "return type: int(7)")
	assert.Contains(t, out, "[1] Mul at 1:11 => int(6)")
	assert.Contains(t, out, "[2] Add at 1:9 => int(7)")
	assert.Contains(t, out, "#8 Ret bot defs=[#0 #7] users=[]")
}

func TestCompileFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program.sf")
	require.NoError(t, os.WriteFile(path, []byte("return 4/3;"), 0o644))

	out, err := executeCommand(t, "compile", path)
	require.NoError(t, err)
	assert.Contains(t, out, "return type: int(1)")
}

func TestCompileJSONOutput(t *testing.T) {
	out, err := executeCommand(t, "compile", "-e", "return 1-2;", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "int(-1)", data["return_type"])
	assert.Equal(t, "return 1-2;", data["source"])

	folds, ok := data["folds"].([]any)
	require.True(t, ok)
	require.Len(t, folds, 1)
	fold := folds[0].(map[string]any)
	assert.Equal(t, "Sub", fold["op"])
	assert.Equal(t, "int(-1)", fold["result"])
}

func TestCompileDivideByZeroDiagnostic(t *testing.T) {
	out, err := executeCommand(t, "compile", "-e", "return 1/0;")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "DIVIDE_BY_ZERO")
}

func TestCompileDiagnosticJSON(t *testing.T) {
	out, err := executeCommand(t, "compile", "-e", "return 1/0;", "--format", "json")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DIVIDE_BY_ZERO", resp.Error.Code)
}

func TestCompileSyntaxErrorIsCommandError(t *testing.T) {
	_, err := executeCommand(t, "compile", "-e", "return ;")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCompileMissingSource(t *testing.T) {
	_, err := executeCommand(t, "compile")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCompileExprAndFileConflict(t *testing.T) {
	_, err := executeCommand(t, "compile", "somefile.sf", "-e", "return 1;")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCompileMissingFile(t *testing.T) {
	_, err := executeCommand(t, "compile", filepath.Join(t.TempDir(), "nope.sf"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCompileRecordsSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "seafold.db")

	out, err := executeCommand(t, "compile", "-e", "return 1+2*3;", "--db", db, "--session", "cli-test")
	require.NoError(t, err)
	assert.Contains(t, out, "session: cli-test")

	// The session and its fold events are visible to trace.
	out, err = executeCommand(t, "trace", "--db", db, "--session", "cli-test")
	require.NoError(t, err)
	assert.Contains(t, out, "Mul")
	assert.Contains(t, out, "int(6)")
	assert.Contains(t, out, "Add")
	assert.Contains(t, out, "int(7)")
}
