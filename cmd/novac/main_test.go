package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cybellereaper/nova/internal/ast"
)

func writeSource(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writeSource: %v", err)
	}
	return path
}

func TestRunSucceedsOnValidProgram(t *testing.T) {
	ast.ResetExprIDs()
	dir := t.TempDir()
	path := writeSource(t, dir, "ok.nova", "module m\nfun identity(x: Number): Number = x\n")

	code := run([]string{"--skip-codegen", path})
	if code != exitSuccess {
		t.Fatalf("run() = %d, want %d", code, exitSuccess)
	}
}

func TestRunReportsParseError(t *testing.T) {
	ast.ResetExprIDs()
	dir := t.TempDir()
	path := writeSource(t, dir, "broken.nova", "module m\nfun broken(: Number = 1\n")

	code := run([]string{"--skip-codegen", path})
	if code != exitError {
		t.Fatalf("run() = %d, want %d", code, exitError)
	}
}

func TestRunUsageErrorOnMissingFile(t *testing.T) {
	code := run([]string{})
	if code != exitUsage {
		t.Fatalf("run() = %d, want %d", code, exitUsage)
	}
}

func TestRunVersionFlagShortCircuits(t *testing.T) {
	code := run([]string{"--version"})
	if code != exitSuccess {
		t.Fatalf("run() = %d, want %d", code, exitSuccess)
	}
}

func TestRunUsageErrorOnNonexistentPath(t *testing.T) {
	code := run([]string{"/nonexistent/path/does-not-exist.nova"})
	if code != exitUsage {
		t.Fatalf("run() = %d, want %d", code, exitUsage)
	}
}
