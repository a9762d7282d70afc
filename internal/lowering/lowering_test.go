package lowering_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cybellereaper/nova/internal/analyzer"
	"github.com/cybellereaper/nova/internal/ast"
	"github.com/cybellereaper/nova/internal/ir"
	"github.com/cybellereaper/nova/internal/lowering"
	"github.com/cybellereaper/nova/internal/parser"
	"github.com/cybellereaper/nova/internal/typesystem"
)

func lowerSource(t *testing.T, src string) (*ir.Program, []error) {
	t.Helper()
	ast.ResetExprIDs()
	prog, diags, hadError := parser.Parse(src)
	if hadError {
		t.Fatalf("unexpected parse errors: %v", diags)
	}
	ctx := analyzer.Analyze(prog)
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected analysis errors: %v", ctx.Diags)
	}
	return lowering.Lower(prog, ctx)
}

func findFn(t *testing.T, irProg *ir.Program, name string) *ir.Function {
	t.Helper()
	for i := range irProg.Functions {
		if irProg.Functions[i].Name.Lexeme == name {
			return &irProg.Functions[i]
		}
	}
	t.Fatalf("no lowered function %q", name)
	return nil
}

func TestPipelineDesugarsToNestedCall(t *testing.T) {
	irProg, errs := lowerSource(t, "module demo.core\nfun identity(x: Number): Number = x\nfun pipeline(): Number = 1 |> identity\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected lowering errors: %v", errs)
	}
	fn := findFn(t, irProg, "pipeline")
	if fn.Body.Kind != ir.KindCall {
		t.Fatalf("body kind = %v, want KindCall", fn.Body.Kind)
	}
	if fn.Body.CalleeToken.Lexeme != "identity" {
		t.Fatalf("callee = %q, want identity", fn.Body.CalleeToken.Lexeme)
	}
	if len(fn.Body.Args) != 1 || fn.Body.Args[0].Kind != ir.KindNumber || fn.Body.Args[0].NumberValue != 1 {
		t.Fatalf("args = %+v", fn.Body.Args)
	}
	if fn.Body.Type != typesystem.Number {
		t.Fatalf("body type = %v, want Number", fn.Body.Type)
	}
}

func TestIfFoldsTrueConditionToThenBranch(t *testing.T) {
	irProg, errs := lowerSource(t, "module m\nfun prefer(): Number = if true { 5 } else { 0 }\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected lowering errors: %v", errs)
	}
	fn := findFn(t, irProg, "prefer")
	if fn.Body.Kind != ir.KindNumber || fn.Body.NumberValue != 5 {
		t.Fatalf("body = %+v, want Number(5)", fn.Body)
	}
}

func TestIfFoldsFalseConditionToElseBranch(t *testing.T) {
	irProg, errs := lowerSource(t, "module m\nfun fallback(): Number = if false { 1 } else { 2 }\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected lowering errors: %v", errs)
	}
	fn := findFn(t, irProg, "fallback")
	if fn.Body.Kind != ir.KindNumber || fn.Body.NumberValue != 2 {
		t.Fatalf("body = %+v, want Number(2)", fn.Body)
	}
}

func TestWhileLowersToIRWhile(t *testing.T) {
	irProg, errs := lowerSource(t, "module m\nfun spin(flag: Bool): Unit = while flag { 1 }\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected lowering errors: %v", errs)
	}
	fn := findFn(t, irProg, "spin")
	if fn.Body.Kind != ir.KindWhile {
		t.Fatalf("body kind = %v, want KindWhile", fn.Body.Kind)
	}
	if fn.Body.Cond.Kind != ir.KindIdentifier || fn.Body.Cond.Identifier.Lexeme != "flag" {
		t.Fatalf("cond = %+v", fn.Body.Cond)
	}
	if fn.ReturnType != typesystem.Unit {
		t.Fatalf("return type = %v, want Unit", fn.ReturnType)
	}
}

func TestMatchLowersArmsWithBindings(t *testing.T) {
	irProg, errs := lowerSource(t, "module m\ntype Option = Some(Number) | None\n"+
		"fun choose(v: Option): Number = match v { Some(value) -> value; None -> 0 }\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected lowering errors: %v", errs)
	}
	fn := findFn(t, irProg, "choose")
	if fn.Body.Kind != ir.KindMatch {
		t.Fatalf("body kind = %v, want KindMatch", fn.Body.Kind)
	}
	if len(fn.Body.Arms) != 2 {
		t.Fatalf("arms = %d, want 2", len(fn.Body.Arms))
	}
	if fn.Body.Arms[0].Constructor.Lexeme != "Some" || len(fn.Body.Arms[0].Bindings) != 1 {
		t.Fatalf("arm0 = %+v", fn.Body.Arms[0])
	}
}

func TestBlockKeepsOnlyLastExpression(t *testing.T) {
	irProg, errs := lowerSource(t, "module m\nfun last(): Number = { 1; 2; 3 }\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected lowering errors: %v", errs)
	}
	fn := findFn(t, irProg, "last")
	if fn.Body.Kind != ir.KindNumber || fn.Body.NumberValue != 3 {
		t.Fatalf("body = %+v, want Number(3)", fn.Body)
	}
}

// callShape is a Type/token-position-free summary of an ir.Expr's call
// structure, so a three-stage pipeline's nested-call desugaring can be
// compared in one shot with cmp.Diff instead of a chain of manual
// field assertions three levels deep.
type callShape struct {
	Kind   ir.Kind
	Callee string
	Args   []callShape
	Number float64
}

func shapeOf(e *ir.Expr) callShape {
	if e == nil {
		return callShape{}
	}
	s := callShape{Kind: e.Kind}
	switch e.Kind {
	case ir.KindNumber:
		s.Number = e.NumberValue
	case ir.KindCall:
		s.Callee = e.CalleeToken.Lexeme
		for _, arg := range e.Args {
			s.Args = append(s.Args, shapeOf(arg))
		}
	}
	return s
}

func TestPipelineDesugarsThreeStagesToLeftNestedCalls(t *testing.T) {
	irProg, errs := lowerSource(t, "module demo.core\n"+
		"fun addOne(x: Number): Number = x\n"+
		"fun double(x: Number): Number = x\n"+
		"fun run(): Number = 1 |> addOne |> double\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected lowering errors: %v", errs)
	}
	fn := findFn(t, irProg, "run")

	got := shapeOf(&fn.Body)
	want := callShape{
		Kind:   ir.KindCall,
		Callee: "double",
		Args: []callShape{
			{
				Kind:   ir.KindCall,
				Callee: "addOne",
				Args:   []callShape{{Kind: ir.KindNumber, Number: 1}},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("pipeline desugar shape mismatch (-want +got):\n%s", diff)
	}
}

func TestLambdaBodyIsUnsupportedAtTopLevel(t *testing.T) {
	irProg, errs := lowerSource(t, "module m\nfun higher() = (x: Number) -> x\n")
	if len(errs) == 0 {
		t.Fatalf("expected a lowering error for a lambda body")
	}
	if len(irProg.Functions) != 0 {
		t.Fatalf("expected no lowered functions, got %d", len(irProg.Functions))
	}
}
