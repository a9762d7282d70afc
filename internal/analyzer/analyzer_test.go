package analyzer_test

import (
	"testing"

	"github.com/cybellereaper/nova/internal/analyzer"
	"github.com/cybellereaper/nova/internal/ast"
	"github.com/cybellereaper/nova/internal/diagnostics"
	"github.com/cybellereaper/nova/internal/effects"
	"github.com/cybellereaper/nova/internal/parser"
	"github.com/cybellereaper/nova/internal/typesystem"
)

func analyze(t *testing.T, src string) (*ast.Program, *analyzer.Context) {
	t.Helper()
	ast.ResetExprIDs()
	prog, diags, hadError := parser.Parse(src)
	if hadError {
		t.Fatalf("unexpected parse errors: %v", diags)
	}
	ctx := analyzer.Analyze(prog)
	return prog, ctx
}

func funDecl(t *testing.T, prog *ast.Program, name string) *ast.Fun {
	t.Helper()
	for _, d := range prog.Decls {
		if fn, ok := d.(*ast.Fun); ok && fn.Name.Lexeme == name {
			return fn
		}
	}
	t.Fatalf("no fun %q in program", name)
	return nil
}

func TestIdentityPipelineScenario(t *testing.T) {
	src := "module demo.core\nfun identity(x: Number): Number = x\nfun pipeline(): Number = 1 |> identity\n"
	prog, ctx := analyze(t, src)
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", ctx.Diags)
	}
	fn := funDecl(t, prog, "pipeline")
	ann, ok := ctx.LookupExpr(fn.Body)
	if !ok {
		t.Fatalf("no annotation recorded for pipeline body")
	}
	if ann.Type != typesystem.Number {
		t.Fatalf("pipeline body type = %s, want Number", ctx.Pool.String(ann.Type))
	}
}

func TestNonExhaustiveMatchWarns(t *testing.T) {
	src := "module m\ntype Flag = Yes | No\nfun only_yes(f: Flag): Number = match f { Yes -> 1 }\n"
	_, ctx := analyze(t, src)
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", ctx.Diags)
	}
	if len(ctx.Diags.Warnings()) == 0 {
		t.Fatalf("expected at least one warning")
	}
}

func TestOptionMatchBindsPayloadType(t *testing.T) {
	src := "module m\ntype Option = Some(Number) | None\nfun wrap(): Option = Some(42)\n" +
		"fun choose(v: Option): Number = match v { Some(value) -> value; None -> 0 }\n"
	prog, ctx := analyze(t, src)
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", ctx.Diags)
	}
	fn := funDecl(t, prog, "choose")
	m := fn.Body.(*ast.Match)
	arm := m.Arms[0]
	ann, ok := ctx.LookupExpr(arm.Body)
	if !ok || ann.Type != typesystem.Number {
		t.Fatalf("Some(value) arm body type = %v, want Number", ann)
	}
}

func TestDuplicateLetProducesError(t *testing.T) {
	src := "module m\nlet x = 1\nlet x = 2\n"
	_, ctx := analyze(t, src)
	if !ctx.Diags.HasErrors() {
		t.Fatalf("expected a duplicate-symbol error")
	}
	found := false
	for _, d := range ctx.Diags.Errors() {
		if d.Code == diagnostics.ErrDuplicateSymbol {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrDuplicateSymbol among %v", ctx.Diags)
	}
}

func TestAsyncEffectPropagatesToFunction(t *testing.T) {
	src := "module m\nfun go(): Number = async { 1 }\n"
	prog, ctx := analyze(t, src)
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", ctx.Diags)
	}
	fn := funDecl(t, prog, "go")
	entry, _ := ctx.Global.Lookup(fn.Name.Lexeme)
	info := ctx.Pool.Info(entry.Type)
	if !effects.Mask(info.Effects).Has(effects.Async) {
		t.Fatalf("function effects = %v, want Async set", info.Effects)
	}
}

func TestUndefinedIdentifierErrors(t *testing.T) {
	src := "module m\nfun f(): Number = y\n"
	_, ctx := analyze(t, src)
	if !ctx.Diags.HasErrors() {
		t.Fatalf("expected an undefined-identifier error")
	}
}

func TestMutualRecursionForwardBinding(t *testing.T) {
	src := "module m\nfun isEven(n: Number): Bool = isOdd(n)\nfun isOdd(n: Number): Bool = isEven(n)\n"
	_, ctx := analyze(t, src)
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected errors from mutual recursion: %v", ctx.Diags)
	}
}
