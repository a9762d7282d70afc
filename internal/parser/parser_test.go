package parser_test

import (
	"testing"

	"github.com/cybellereaper/nova/internal/ast"
	"github.com/cybellereaper/nova/internal/diagnostics"
	"github.com/cybellereaper/nova/internal/parser"
)

func TestParseSimpleFunction(t *testing.T) {
	src := "module demo.core\nfun identity(x: Number): Number = x\n"
	prog, diags, hadError := parser.Parse(src)
	if hadError {
		t.Fatalf("unexpected errors: %v", diags)
	}
	if prog.Module.String() != "demo.core" {
		t.Fatalf("module = %q, want demo.core", prog.Module.String())
	}
	if len(prog.Decls) != 1 {
		t.Fatalf("decl count = %d, want 1", len(prog.Decls))
	}
	fn, ok := prog.Decls[0].(*ast.Fun)
	if !ok {
		t.Fatalf("decl is %T, want *ast.Fun", prog.Decls[0])
	}
	if fn.Name.Lexeme != "identity" {
		t.Fatalf("name = %q", fn.Name.Lexeme)
	}
	if len(fn.Params) != 1 || fn.Params[0].Name.Lexeme != "x" {
		t.Fatalf("params = %+v", fn.Params)
	}
}

func TestParsePipeline(t *testing.T) {
	src := "module m\nfun pipeline(): Number = 1 |> identity\n"
	prog, diags, hadError := parser.Parse(src)
	if hadError {
		t.Fatalf("unexpected errors: %v", diags)
	}
	fn := prog.Decls[0].(*ast.Fun)
	pipe, ok := fn.Body.(*ast.Pipe)
	if !ok {
		t.Fatalf("body is %T, want *ast.Pipe", fn.Body)
	}
	if len(pipe.Stages) != 1 {
		t.Fatalf("stages = %d, want 1", len(pipe.Stages))
	}
}

func TestParseMatchExpression(t *testing.T) {
	src := "module m\ntype Option = Some(Number) | None\nfun choose(v: Option): Number = match v { Some(value) -> value; None -> 0 }\n"
	prog, diags, hadError := parser.Parse(src)
	if hadError {
		t.Fatalf("unexpected errors: %v", diags)
	}
	fn := prog.Decls[1].(*ast.Fun)
	m, ok := fn.Body.(*ast.Match)
	if !ok {
		t.Fatalf("body is %T, want *ast.Match", fn.Body)
	}
	if len(m.Arms) != 2 {
		t.Fatalf("arms = %d, want 2", len(m.Arms))
	}
	if m.Arms[0].Constructor.Lexeme != "Some" || len(m.Arms[0].Params) != 1 {
		t.Fatalf("arm0 = %+v", m.Arms[0])
	}
}

func TestParseLambdaVsGrouping(t *testing.T) {
	src := "module m\nfun f(): Number = (x) -> x\n"
	prog, diags, hadError := parser.Parse(src)
	if hadError {
		t.Fatalf("unexpected errors: %v", diags)
	}
	fn := prog.Decls[0].(*ast.Fun)
	if _, ok := fn.Body.(*ast.Lambda); !ok {
		t.Fatalf("body is %T, want *ast.Lambda", fn.Body)
	}

	src2 := "module m\nfun f(): Number = (1 + 1)\n"
	prog2, _, _ := parser.Parse(src2)
	fn2 := prog2.Decls[0].(*ast.Fun)
	if _, ok := fn2.Body.(*ast.Paren); !ok {
		t.Fatalf("body is %T, want *ast.Paren", fn2.Body)
	}
}

func TestParseIfElseAndWhile(t *testing.T) {
	src := "module m\nfun prefer(): Number = if true { 5 } else { 0 }\nfun spin(flag: Bool): Unit = while flag { 1 }\n"
	prog, diags, hadError := parser.Parse(src)
	if hadError {
		t.Fatalf("unexpected errors: %v", diags)
	}
	if _, ok := prog.Decls[0].(*ast.Fun).Body.(*ast.If); !ok {
		t.Fatalf("expected If body")
	}
	if _, ok := prog.Decls[1].(*ast.Fun).Body.(*ast.While); !ok {
		t.Fatalf("expected While body")
	}
}

func TestParseErrorRecoverySynchronizes(t *testing.T) {
	src := "module m\nfun broken(: Number = 1\nfun ok(): Number = 2\n"
	prog, diags, hadError := parser.Parse(src)
	if !hadError {
		t.Fatalf("expected a parse error")
	}
	if len(diags) == 0 {
		t.Fatalf("expected diagnostics")
	}
	// The parser must still recover and parse the following function.
	found := false
	for _, d := range prog.Decls {
		if fn, ok := d.(*ast.Fun); ok && fn.Name.Lexeme == "ok" {
			found = true
		}
	}
	if !found {
		t.Fatalf("parser did not recover to parse the following declaration: %+v", prog.Decls)
	}
}

func TestParseAsyncAndEffectAndAwait(t *testing.T) {
	src := "module m\nfun go(): Number = async { await (!f()) }\n"
	_, diags, hadError := parser.Parse(src)
	if hadError {
		t.Fatalf("unexpected errors: %v", diags)
	}
}

func TestParseUnterminatedStringReportsL001(t *testing.T) {
	src := "module m\nfun go(): Number = \"unterminated\n"
	_, diags, hadError := parser.Parse(src)
	if !hadError {
		t.Fatalf("expected a parse error")
	}
	if len(diags) == 0 || diags[0].Code != diagnostics.ErrUnterminatedString {
		t.Fatalf("diags = %v, want first code %s", diags, diagnostics.ErrUnterminatedString)
	}
}

func TestParseUnknownByteReportsL002(t *testing.T) {
	src := "module m\nfun go(): Number = 1 ~ 2\n"
	_, diags, hadError := parser.Parse(src)
	if !hadError {
		t.Fatalf("expected a parse error")
	}
	if len(diags) == 0 || diags[0].Code != diagnostics.ErrUnknownByte {
		t.Fatalf("diags = %v, want first code %s", diags, diagnostics.ErrUnknownByte)
	}
}

func TestParseMalformedVariantReportsP003(t *testing.T) {
	src := "module m\ntype Option = | None\n"
	_, diags, hadError := parser.Parse(src)
	if !hadError {
		t.Fatalf("expected a parse error")
	}
	if len(diags) == 0 || diags[0].Code != diagnostics.ErrInvalidTypeDecl {
		t.Fatalf("diags = %v, want first code %s", diags, diagnostics.ErrInvalidTypeDecl)
	}
}

func TestParseMalformedLambdaParamsReportsP004(t *testing.T) {
	// isLambdaAhead already saw the '->' after the matching ')', so the
	// missing comma between params is a malformed lambda, not a bare
	// unexpected token.
	src := "module m\nfun go(): Number = (x y) -> x\n"
	_, diags, hadError := parser.Parse(src)
	if !hadError {
		t.Fatalf("expected a parse error")
	}
	if len(diags) == 0 || diags[0].Code != diagnostics.ErrInvalidLambda {
		t.Fatalf("diags = %v, want first code %s", diags, diagnostics.ErrInvalidLambda)
	}
}
