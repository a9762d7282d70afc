// Package pipeline wires the lexer, parser, analyzer, and lowering
// stages into one ordered run over a shared Context, the way
// funxy/internal/pipeline runs its own Processor chain over a
// PipelineContext. A later stage that finds nothing to work with
// degrades gracefully instead of panicking, matching funxy's
// `pipeline.Run` comment ("continue on errors to collect diagnostics
// from all stages").
package pipeline

import (
	"github.com/cybellereaper/nova/internal/analyzer"
	"github.com/cybellereaper/nova/internal/ast"
	"github.com/cybellereaper/nova/internal/diagnostics"
	"github.com/cybellereaper/nova/internal/ir"
)

// Context is the shared, mutable state threaded through every stage.
type Context struct {
	FilePath string
	Source   string

	AstRoot   *ast.Program
	HadParse  bool
	Semantics *analyzer.Context
	IR        *ir.Program
	LowerErrs []error

	Diagnostics diagnostics.List
	HadError    bool
}

// NewContext starts a run over one file's source text.
func NewContext(filePath, source string) *Context {
	return &Context{FilePath: filePath, Source: source}
}

// Processor is one pipeline stage: it mutates ctx and returns it
// (possibly unchanged) so later stages can inspect partial results,
// per spec.md §5's "always returns (possibly degraded) outputs"
// ordering guarantee.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline runs an ordered list of Processor stages over one Context.
type Pipeline struct {
	stages []Processor
}

// New constructs a Pipeline from an ordered stage list.
func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes every stage in order, always returning the
// (possibly-partial) final Context. A later stage is expected to
// check what earlier stages produced and no-op if it is missing,
// never panic.
func (p *Pipeline) Run(ctx *Context) *Context {
	for _, stage := range p.stages {
		ctx = stage.Process(ctx)
	}
	return ctx
}
