// Package lowering translates an analyzed AST into the ir package's
// typed tree, per spec.md §4.4: pipeline desugaring into nested calls,
// constant folding of boolean-literal `if` conditions, and
// block-value semantics that keep only a block's last expression.
package lowering

import (
	"fmt"
	"strconv"

	"github.com/cybellereaper/nova/internal/analyzer"
	"github.com/cybellereaper/nova/internal/ast"
	"github.com/cybellereaper/nova/internal/effects"
	"github.com/cybellereaper/nova/internal/ir"
	"github.com/cybellereaper/nova/internal/token"
	"github.com/cybellereaper/nova/internal/typesystem"
)

// Error reports why lowering one function failed: an unsupported
// construct, returned out-of-band rather than as a diagnostic, per
// spec.md §7 ("Lowering failure").
type Error struct {
	Token   token.Token
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: lowering: %s", e.Token.Line, e.Token.Column, e.Message)
}

func fail(tok token.Token, format string, args ...any) error {
	return &Error{Token: tok, Message: fmt.Sprintf(format, args...)}
}

type lowerer struct {
	ctx *analyzer.Context
}

// Lower lowers every top-level Fun declaration in program into an
// ir.Program. A function whose body cannot be lowered is skipped and
// its error is appended to the returned error slice; callers decide
// whether a partial program is acceptable (spec.md §7).
func Lower(program *ast.Program, ctx *analyzer.Context) (*ir.Program, []error) {
	l := &lowerer{ctx: ctx}
	out := &ir.Program{}
	var errs []error

	for _, decl := range program.Decls {
		fn, ok := decl.(*ast.Fun)
		if !ok {
			continue
		}
		irFn, err := l.lowerFunction(fn)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out.Functions = append(out.Functions, *irFn)
	}
	return out, errs
}

func (l *lowerer) resolveTypeToken(hasType bool, tok token.Token) typesystem.ID {
	if !hasType {
		return typesystem.Unknown
	}
	if id, ok := typesystem.LookupPrimitive(tok.Lexeme); ok {
		return id
	}
	if id, ok := l.ctx.FindType(tok.Lexeme); ok {
		return id
	}
	return typesystem.Unknown
}

// lowerFunction mirrors spec.md §4.4: copy the name token, resolve
// parameter types, take the return type from the analyzer's
// annotation on the body (falling back to Unknown), copy the body's
// effects, and lower the body expression.
func (l *lowerer) lowerFunction(fn *ast.Fun) (*ir.Function, error) {
	params := make([]ir.Param, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = ir.Param{Name: p.Name, Type: l.resolveTypeToken(p.HasType, p.TypeName)}
	}

	returnType := typesystem.Unknown
	var bodyEffects uint8
	if ann, ok := l.ctx.LookupExpr(fn.Body); ok {
		returnType = ann.Type
		bodyEffects = uint8(ann.Effects)
	}

	body, err := l.lowerExpr(fn.Body)
	if err != nil {
		return nil, err
	}

	return &ir.Function{
		Name:       fn.Name,
		Params:     params,
		ReturnType: returnType,
		Effects:    effects.Mask(bodyEffects),
		Body:       *body,
	}, nil
}

func (l *lowerer) typeOf(e ast.Expr) typesystem.ID {
	if ann, ok := l.ctx.LookupExpr(e); ok {
		return ann.Type
	}
	return typesystem.Unknown
}

// lowerExpr dispatches on AST expression kind, per spec.md §4.4's
// rule table.
func (l *lowerer) lowerExpr(expr ast.Expr) (*ir.Expr, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return l.lowerLiteral(e)
	case *ast.Identifier:
		return &ir.Expr{Kind: ir.KindIdentifier, Type: l.typeOf(e), Identifier: e.Start()}, nil
	case *ast.Call:
		return l.lowerCall(e)
	case *ast.Block:
		return l.lowerBlock(e)
	case *ast.Paren:
		return l.lowerExpr(e.Inner)
	case *ast.If:
		return l.lowerIf(e)
	case *ast.While:
		return l.lowerWhile(e)
	case *ast.Match:
		return l.lowerMatch(e)
	case *ast.Pipe:
		return l.lowerPipe(e)
	case *ast.Async:
		return l.lowerExpr(e.Inner)
	case *ast.Await:
		return l.lowerExpr(e.Inner)
	case *ast.Effect:
		return l.lowerExpr(e.Inner)
	case *ast.Lambda:
		return nil, fail(e.Start(), "lambda expressions are not supported at this nesting level")
	default:
		return nil, fail(expr.Start(), "unsupported expression kind %T", expr)
	}
}

func (l *lowerer) lowerLiteral(lit *ast.Literal) (*ir.Expr, error) {
	switch lit.Kind {
	case ast.LitNumber:
		v, _ := strconv.ParseFloat(lit.Value, 64)
		return &ir.Expr{Kind: ir.KindNumber, Type: l.typeOf(lit), NumberValue: v}, nil
	case ast.LitString:
		return &ir.Expr{Kind: ir.KindString, Type: l.typeOf(lit), StringValue: lit.Value}, nil
	case ast.LitBool:
		return &ir.Expr{Kind: ir.KindBool, Type: l.typeOf(lit), BoolValue: lit.Value == "true"}, nil
	case ast.LitUnit:
		return &ir.Expr{Kind: ir.KindUnit, Type: l.typeOf(lit)}, nil
	case ast.LitList:
		items := make([]*ir.Expr, len(lit.Items))
		for i, item := range lit.Items {
			lowered, err := l.lowerExpr(item)
			if err != nil {
				return nil, err
			}
			items[i] = lowered
		}
		return &ir.Expr{Kind: ir.KindList, Type: l.typeOf(lit), Items: items}, nil
	default:
		return nil, fail(lit.Start(), "unsupported literal kind")
	}
}

// lowerCall requires a plain-identifier callee, per spec.md §4.4.
func (l *lowerer) lowerCall(c *ast.Call) (*ir.Expr, error) {
	callee, ok := c.Callee.(*ast.Identifier)
	if !ok {
		return nil, fail(c.Start(), "call target must be a plain identifier")
	}
	args := make([]*ir.Expr, len(c.Args))
	for i, arg := range c.Args {
		lowered, err := l.lowerExpr(arg.Value)
		if err != nil {
			return nil, err
		}
		args[i] = lowered
	}
	return &ir.Expr{Kind: ir.KindCall, Type: l.typeOf(c), CalleeToken: callee.Start(), Args: args}, nil
}

// lowerBlock keeps only the last expression's value, per spec.md §4.4
// and the §9 design note on block value semantics; an empty block
// lowers to Unit.
func (l *lowerer) lowerBlock(b *ast.Block) (*ir.Expr, error) {
	if len(b.Exprs) == 0 {
		return &ir.Expr{Kind: ir.KindUnit, Type: typesystem.Unit}, nil
	}
	for _, e := range b.Exprs[:len(b.Exprs)-1] {
		if _, err := l.lowerExpr(e); err != nil {
			return nil, err
		}
	}
	return l.lowerExpr(b.Exprs[len(b.Exprs)-1])
}

// lowerIf applies constant folding: a literal Bool condition drops
// the non-taken branch entirely, per spec.md §4.4 and the §8 testable
// properties.
func (l *lowerer) lowerIf(i *ast.If) (*ir.Expr, error) {
	cond, err := l.lowerExpr(i.Cond)
	if err != nil {
		return nil, err
	}

	var elseExpr *ir.Expr
	if i.Else != nil {
		elseExpr, err = l.lowerExpr(i.Else)
		if err != nil {
			return nil, err
		}
	} else {
		elseExpr = &ir.Expr{Kind: ir.KindUnit, Type: typesystem.Unit}
	}

	thenExpr, err := l.lowerExpr(i.Then)
	if err != nil {
		return nil, err
	}

	if cond.Kind == ir.KindBool {
		if cond.BoolValue {
			return thenExpr, nil
		}
		return elseExpr, nil
	}

	return &ir.Expr{Kind: ir.KindIf, Type: l.typeOf(i), Cond: cond, Then: thenExpr, Else: elseExpr}, nil
}

func (l *lowerer) lowerWhile(w *ast.While) (*ir.Expr, error) {
	cond, err := l.lowerExpr(w.Cond)
	if err != nil {
		return nil, err
	}
	body, err := l.lowerExpr(w.Body)
	if err != nil {
		return nil, err
	}
	return &ir.Expr{Kind: ir.KindWhile, Type: typesystem.Unit, Cond: cond, Body: body}, nil
}

func (l *lowerer) lowerMatch(m *ast.Match) (*ir.Expr, error) {
	scrutinee, err := l.lowerExpr(m.Scrutinee)
	if err != nil {
		return nil, err
	}
	arms := make([]ir.MatchArm, len(m.Arms))
	for i, arm := range m.Arms {
		body, err := l.lowerExpr(arm.Body)
		if err != nil {
			return nil, err
		}
		bindings := make([]token.Token, len(arm.Params))
		for j, p := range arm.Params {
			bindings[j] = p.Name
		}
		arms[i] = ir.MatchArm{Constructor: arm.Constructor, Bindings: bindings, Body: body}
	}
	return &ir.Expr{Kind: ir.KindMatch, Type: l.typeOf(m), Scrutinee: scrutinee, Arms: arms}, nil
}

// lowerPipe desugars `target |> s1 |> s2` into a left-associated Call
// chain: `Call(s2, [Call(s1, [target, ...extras1]), ...extras2])`, per
// spec.md §4.4. No Pipe node survives into the IR.
func (l *lowerer) lowerPipe(p *ast.Pipe) (*ir.Expr, error) {
	current, err := l.lowerExpr(p.Target)
	if err != nil {
		return nil, err
	}

	for _, stage := range p.Stages {
		calleeExpr, extraArgs := pipeStageParts(stage)
		callee, ok := calleeExpr.(*ast.Identifier)
		if !ok {
			return nil, fail(stage.Start(), "pipeline stage must be a plain identifier or a call to one")
		}
		args := []*ir.Expr{current}
		for _, extra := range extraArgs {
			loweredArg, err := l.lowerExpr(extra)
			if err != nil {
				return nil, err
			}
			args = append(args, loweredArg)
		}
		current = &ir.Expr{Kind: ir.KindCall, Type: l.typeOf(stage), CalleeToken: callee.Start(), Args: args}
	}

	return current, nil
}

func pipeStageParts(stage ast.Expr) (ast.Expr, []ast.Expr) {
	if call, ok := stage.(*ast.Call); ok {
		extras := make([]ast.Expr, len(call.Args))
		for i, arg := range call.Args {
			extras[i] = arg.Value
		}
		return call.Callee, extras
	}
	return stage, nil
}
