package pipeline

import (
	"github.com/cybellereaper/nova/internal/analyzer"
	"github.com/cybellereaper/nova/internal/lowering"
	"github.com/cybellereaper/nova/internal/parser"
)

// ParserStage tokenizes and parses ctx.Source, the way funxy's
// `parser.ParserProcessor` turns a token stream into ctx.AstRoot.
// Nova's lexer has no separate stage here because parser.Parse already
// drives tokenization to completion (spec.md §4.1's `tokenize` entry
// point), so there is no intermediate context field for raw tokens to
// occupy.
type ParserStage struct{}

func (ParserStage) Process(ctx *Context) *Context {
	prog, diags, hadError := parser.Parse(ctx.Source)
	ctx.AstRoot = prog
	ctx.HadParse = true
	ctx.Diagnostics = append(ctx.Diagnostics, diags...)
	ctx.HadError = ctx.HadError || hadError
	return ctx
}

// AnalyzerStage runs semantic analysis over ctx.AstRoot. It degrades
// gracefully when the parser produced nothing to analyze, mirroring
// funxy's `SemanticAnalyzerProcessor`'s `if ctx.AstRoot == nil` guard.
type AnalyzerStage struct{}

func (AnalyzerStage) Process(ctx *Context) *Context {
	if ctx.AstRoot == nil {
		return ctx
	}
	ctx.Semantics = analyzer.Analyze(ctx.AstRoot)
	ctx.Diagnostics = append(ctx.Diagnostics, ctx.Semantics.Diags...)
	ctx.HadError = ctx.HadError || ctx.Semantics.Diags.HasErrors()
	return ctx
}

// LoweringStage lowers ctx.AstRoot into ctx.IR, using the semantic
// context produced by AnalyzerStage. It is skipped, not aborted, when
// an earlier stage found nothing or the program already has errors,
// matching funxy's `EvaluatorProcessor`'s `len(ctx.Errors) > 0` guard
// rather than hard-failing the whole run.
type LoweringStage struct {
	// RunOnError forces lowering to run even when earlier stages
	// reported errors, useful for tooling (e.g. the LSP stub) that
	// wants best-effort IR for hover info despite partial failures.
	RunOnError bool
}

func (s LoweringStage) Process(ctx *Context) *Context {
	if ctx.AstRoot == nil || ctx.Semantics == nil {
		return ctx
	}
	if ctx.HadError && !s.RunOnError {
		return ctx
	}
	irProg, errs := lowering.Lower(ctx.AstRoot, ctx.Semantics)
	ctx.IR = irProg
	ctx.LowerErrs = errs
	return ctx
}
