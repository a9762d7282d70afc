// Command novac is the Nova checker of spec.md §6: it runs a single
// source file through the lexer, parser, and analyzer, prints
// diagnostics, and (unless --skip-codegen is given) hands the lowered
// IR to the codegen collaborator. Flag handling follows funxy's
// cmd/funxy/main.go os.Args-dispatch style for the positional file
// argument, layered with pflag for the boolean switches.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/cybellereaper/nova/internal/analyzer"
	"github.com/cybellereaper/nova/internal/ast"
	"github.com/cybellereaper/nova/internal/codegen"
	"github.com/cybellereaper/nova/internal/config"
	"github.com/cybellereaper/nova/internal/diagnostics"
	"github.com/cybellereaper/nova/internal/lowering"
	"github.com/cybellereaper/nova/internal/parser"
)

// Exit codes per spec.md §6: 0 success, 1 compilation error, 2 usage
// error.
const (
	exitSuccess = 0
	exitError   = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("novac", pflag.ContinueOnError)
	strict := flags.Bool("strict", false, "treat warnings as errors")
	skipCodegen := flags.Bool("skip-codegen", false, "stop after analysis; do not invoke the C collaborator")
	output := flags.String("o", "", "output object path (default: <file> with .nova replaced by .o)")
	showVersion := flags.Bool("version", false, "print the toolchain version and exit")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: novac [--strict] [--skip-codegen] [-o path] <file%s>\n", config.SourceFileExt)
	}
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	if *showVersion {
		fmt.Printf("novac %s\n", config.Version)
		return exitSuccess
	}

	rest := flags.Args()
	if len(rest) != 1 {
		flags.Usage()
		return exitUsage
	}
	sourcePath := rest[0]

	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		useColor = false
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "novac: %v\n", err)
		return exitUsage
	}

	ast.ResetExprIDs()
	program, parseDiags, hadParseError := parser.Parse(string(source))

	all := diagnostics.List{}
	all = append(all, parseDiags...)

	if hadParseError {
		printDiagnostics(sourcePath, all, useColor)
		return exitError
	}

	semantics := analyzer.Analyze(program)
	all = append(all, semantics.Diags...)
	printDiagnostics(sourcePath, all, useColor)

	if semantics.Diags.HasErrors() {
		return exitError
	}
	if *strict && len(semantics.Diags.Warnings()) > 0 {
		return exitError
	}

	if *skipCodegen {
		return exitSuccess
	}

	irProgram, lowerErrs := lowering.Lower(program, semantics)
	if len(lowerErrs) != 0 {
		for _, e := range lowerErrs {
			fmt.Fprintf(os.Stderr, "novac: %v\n", e)
		}
		return exitError
	}

	objectPath := *output
	if objectPath == "" {
		objectPath = config.TrimSourceExt(sourcePath) + ".o"
	}
	if err := codegen.EmitObject(irProgram, semantics, objectPath); err != nil {
		fmt.Fprintf(os.Stderr, "novac: %v\n", err)
		return exitError
	}

	return exitSuccess
}

func printDiagnostics(sourcePath string, diags diagnostics.List, useColor bool) {
	diags.SortByPosition()
	errorColor := color.New(color.FgRed, color.Bold)
	warnColor := color.New(color.FgYellow, color.Bold)
	if !useColor {
		errorColor.DisableColor()
		warnColor.DisableColor()
	}

	for _, d := range diags {
		c := errorColor
		if d.Severity == diagnostics.SeverityWarning {
			c = warnColor
		}
		label := c.Sprintf("%s[%s]", d.Severity, d.Code)
		fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: %s\n", relPath(sourcePath), d.Token.Line, d.Token.Column, label, d.Message)
	}
}

func relPath(path string) string {
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return path
}
