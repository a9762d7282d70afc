package analyzer

import (
	"github.com/cybellereaper/nova/internal/ast"
	"github.com/cybellereaper/nova/internal/diagnostics"
	"github.com/cybellereaper/nova/internal/effects"
	"github.com/cybellereaper/nova/internal/symbols"
	"github.com/cybellereaper/nova/internal/typesystem"
)

// analyzeExpr dispatches on expression kind per the table in
// spec.md §4.3, recording the resulting (TypeId, EffectMask) pair in
// the side table for every node it visits.
func (a *analyzer) analyzeExpr(expr ast.Expr) (typesystem.ID, effects.Mask) {
	switch e := expr.(type) {
	case *ast.Literal:
		return a.analyzeLiteral(e)
	case *ast.Identifier:
		return a.analyzeIdentifier(e)
	case *ast.Block:
		return a.analyzeBlock(e)
	case *ast.Lambda:
		return a.analyzeLambda(e)
	case *ast.Call:
		return a.analyzeCall(e)
	case *ast.Pipe:
		return a.analyzePipe(e)
	case *ast.If:
		return a.analyzeIf(e)
	case *ast.While:
		return a.analyzeWhile(e)
	case *ast.Match:
		return a.analyzeMatch(e)
	case *ast.Async:
		t, eff := a.analyzeExpr(e.Inner)
		return a.ctx.record(e, t, effects.Union(eff, effects.Async)).Type, effects.Union(eff, effects.Async)
	case *ast.Await:
		t, eff := a.analyzeExpr(e.Inner)
		return a.ctx.record(e, t, eff).Type, eff
	case *ast.Effect:
		t, eff := a.analyzeExpr(e.Inner)
		combined := effects.Union(eff, effects.Impure)
		return a.ctx.record(e, t, combined).Type, combined
	case *ast.Paren:
		t, eff := a.analyzeExpr(e.Inner)
		return a.ctx.record(e, t, eff).Type, eff
	default:
		return a.ctx.record(expr, typesystem.Unknown, 0).Type, 0
	}
}

func (a *analyzer) analyzeLiteral(lit *ast.Literal) (typesystem.ID, effects.Mask) {
	if lit.Kind == ast.LitList {
		elemType := typesystem.Unknown
		var union effects.Mask
		for i, item := range lit.Items {
			t, eff := a.analyzeExpr(item)
			union = effects.Union(union, eff)
			if i == 0 {
				elemType = t
				continue
			}
			if unified, ok := typesystem.Unify(elemType, t); ok {
				elemType = unified
			} else {
				a.errorf(diagnostics.ErrTypeMismatch, item.Start(), "list elements have mismatched types %s and %s",
					a.ctx.Pool.String(elemType), a.ctx.Pool.String(t))
			}
		}
		listType := a.ctx.Pool.InternList(elemType)
		return a.ctx.record(lit, listType, union).Type, union
	}

	var t typesystem.ID
	switch lit.Kind {
	case ast.LitNumber:
		t = typesystem.Number
	case ast.LitString:
		t = typesystem.String
	case ast.LitBool:
		t = typesystem.Bool
	case ast.LitUnit:
		t = typesystem.Unit
	}
	return a.ctx.record(lit, t, 0).Type, 0
}

func (a *analyzer) analyzeIdentifier(id *ast.Identifier) (typesystem.ID, effects.Mask) {
	entry, ok := a.scope.Lookup(id.Name)
	if !ok {
		a.errorf(diagnostics.ErrUndefinedIdentifier, id.Start(), "undefined identifier %q", id.Name)
		return a.ctx.record(id, typesystem.Unknown, 0).Type, 0
	}
	return a.ctx.record(id, entry.Type, entry.Effects).Type, entry.Effects
}

func (a *analyzer) analyzeBlock(b *ast.Block) (typesystem.ID, effects.Mask) {
	prev := a.scope
	a.scope = a.scope.Child()
	defer func() { a.scope = prev }()

	if len(b.Exprs) == 0 {
		return a.ctx.record(b, typesystem.Unit, 0).Type, 0
	}
	var last typesystem.ID
	var union effects.Mask
	for _, e := range b.Exprs {
		t, eff := a.analyzeExpr(e)
		last = t
		union = effects.Union(union, eff)
	}
	return a.ctx.record(b, last, union).Type, union
}

func (a *analyzer) analyzeLambda(l *ast.Lambda) (typesystem.ID, effects.Mask) {
	prev := a.scope
	a.scope = a.scope.Child()
	paramTypes := make([]typesystem.ID, len(l.Params))
	for i, p := range l.Params {
		pt := a.resolveTypeToken(p.HasType, p.TypeName)
		paramTypes[i] = pt
		a.scope.DefineHere(symbols.Entry{Name: p.Name.Lexeme, Type: pt})
	}
	bodyType, bodyEffects := a.analyzeExpr(l.Body)
	a.scope = prev

	fnType := a.ctx.Pool.InternFunction(paramTypes, bodyType, uint8(bodyEffects))
	return a.ctx.record(l, fnType, 0).Type, 0
}

func (a *analyzer) analyzeCall(c *ast.Call) (typesystem.ID, effects.Mask) {
	calleeType, calleeEffects := a.analyzeExpr(c.Callee)
	info := a.ctx.Pool.Info(calleeType)
	union := calleeEffects

	if calleeType != typesystem.Unknown && info.Kind != typesystem.KindFunction {
		a.errorf(diagnostics.ErrCallOfNonFunction, c.Start(), "call of non-function")
		for _, arg := range c.Args {
			_, eff := a.analyzeExpr(arg.Value)
			union = effects.Union(union, eff)
		}
		return a.ctx.record(c, typesystem.Unknown, union).Type, union
	}

	if calleeType != typesystem.Unknown && len(info.Params) != len(c.Args) {
		a.errorf(diagnostics.ErrArityMismatch, c.Start(), "expected %d argument(s), got %d", len(info.Params), len(c.Args))
	}

	for i, arg := range c.Args {
		argType, eff := a.analyzeExpr(arg.Value)
		union = effects.Union(union, eff)
		if i < len(info.Params) {
			if _, ok := typesystem.Unify(info.Params[i], argType); !ok {
				a.errorf(diagnostics.ErrTypeMismatch, arg.Value.Start(), "argument %d: expected %s, got %s",
					i+1, a.ctx.Pool.String(info.Params[i]), a.ctx.Pool.String(argType))
			}
		}
	}

	result := typesystem.Unknown
	if calleeType != typesystem.Unknown {
		result = info.Result
		union = effects.Union(union, effects.Mask(info.Effects))
	}
	return a.ctx.record(c, result, union).Type, union
}

// analyzePipe implements spec.md §4.3's pipeline semantics: each stage
// is unified against the value carried forward from the previous
// stage, and the per-stage result is recorded on that stage's own AST
// node (used later by lowering's desugaring).
func (a *analyzer) analyzePipe(p *ast.Pipe) (typesystem.ID, effects.Mask) {
	current, union := a.analyzeExpr(p.Target)

	for _, stage := range p.Stages {
		calleeExpr, extraArgs := pipeStageParts(stage)
		calleeType, calleeEffects := a.analyzeExpr(calleeExpr)
		union = effects.Union(union, calleeEffects)

		info := a.ctx.Pool.Info(calleeType)
		if calleeType == typesystem.Unknown {
			current = typesystem.Unknown
			a.ctx.record(stage, current, union)
			continue
		}
		if info.Kind != typesystem.KindFunction || len(info.Params) < 1 {
			a.errorf(diagnostics.ErrPipeStageNotCallable, stage.Start(), "pipeline stage is not callable")
			current = typesystem.Unknown
			a.ctx.record(stage, current, union)
			continue
		}

		if _, ok := typesystem.Unify(info.Params[0], current); !ok {
			a.errorf(diagnostics.ErrTypeMismatch, stage.Start(), "pipeline stage expects %s, got %s",
				a.ctx.Pool.String(info.Params[0]), a.ctx.Pool.String(current))
		}
		for j, extra := range extraArgs {
			argType, eff := a.analyzeExpr(extra)
			union = effects.Union(union, eff)
			paramIdx := j + 1
			if paramIdx < len(info.Params) {
				if _, ok := typesystem.Unify(info.Params[paramIdx], argType); !ok {
					a.errorf(diagnostics.ErrTypeMismatch, extra.Start(), "pipeline stage argument %d: expected %s, got %s",
						paramIdx+1, a.ctx.Pool.String(info.Params[paramIdx]), a.ctx.Pool.String(argType))
				}
			}
		}

		current = info.Result
		union = effects.Union(union, effects.Mask(info.Effects))
		a.ctx.record(stage, current, union)
	}

	return a.ctx.record(p, current, union).Type, union
}

// pipeStageParts splits a pipeline stage into its callee expression and
// any extra (already-supplied) arguments, per spec.md §4.3: a stage is
// either a bare identifier (arity-1 callee, no extra args) or a Call
// whose Callee is the stage function and whose Args are the extras.
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

func (a *analyzer) analyzeIf(i *ast.If) (typesystem.ID, effects.Mask) {
	condType, condEffects := a.analyzeExpr(i.Cond)
	if condType != typesystem.Unknown && condType != typesystem.Bool {
		a.errorf(diagnostics.ErrConditionNotBool, i.Cond.Start(), "if condition must be Bool, got %s", a.ctx.Pool.String(condType))
	}

	thenType, thenEffects := a.analyzeExpr(i.Then)
	union := effects.Union(condEffects, thenEffects)

	elseType := typesystem.Unit
	if i.Else != nil {
		var elseEffects effects.Mask
		elseType, elseEffects = a.analyzeExpr(i.Else)
		union = effects.Union(union, elseEffects)
	}

	result, ok := typesystem.Unify(thenType, elseType)
	if !ok {
		a.errorf(diagnostics.ErrTypeMismatch, i.Start(), "if branches have mismatched types %s and %s",
			a.ctx.Pool.String(thenType), a.ctx.Pool.String(elseType))
	}
	return a.ctx.record(i, result, union).Type, union
}

func (a *analyzer) analyzeWhile(w *ast.While) (typesystem.ID, effects.Mask) {
	condType, condEffects := a.analyzeExpr(w.Cond)
	if _, ok := typesystem.Unify(condType, typesystem.Bool); !ok {
		a.errorf(diagnostics.ErrConditionNotBool, w.Cond.Start(), "while condition must be Bool, got %s", a.ctx.Pool.String(condType))
	}
	_, bodyEffects := a.analyzeExpr(w.Body)
	union := effects.Union(condEffects, bodyEffects)
	return a.ctx.record(w, typesystem.Unit, union).Type, union
}

// analyzeMatch implements spec.md §4.3's Match rule plus the
// exhaustiveness warning: arm parameters are bound to the matching
// variant's payload field types when the scrutinee is a known Custom
// type; a declared variant left uncovered produces a warning, counting
// only the first occurrence of a repeated constructor.
func (a *analyzer) analyzeMatch(m *ast.Match) (typesystem.ID, effects.Mask) {
	scrutineeType, scrutineeEffects := a.analyzeExpr(m.Scrutinee)
	union := scrutineeEffects

	info := a.ctx.Pool.Info(scrutineeType)
	var record *typesystem.TypeRecord
	if scrutineeType != typesystem.Unknown && info.Kind == typesystem.KindCustom {
		record = info.Record
	}

	var resultType typesystem.ID
	covered := make(map[string]bool)
	for i, arm := range m.Arms {
		var variant *typesystem.VariantInfo
		if record != nil {
			for vi := range record.Variants {
				if record.Variants[vi].Name == arm.Constructor.Lexeme {
					variant = &record.Variants[vi]
					break
				}
			}
		}
		covered[arm.Constructor.Lexeme] = true

		prev := a.scope
		a.scope = a.scope.Child()
		if variant != nil && len(arm.Params) == len(variant.Payload) {
			for pi, param := range arm.Params {
				a.scope.DefineHere(symbols.Entry{Name: param.Name.Lexeme, Type: variant.Payload[pi]})
			}
		}
		bodyType, bodyEffects := a.analyzeExpr(arm.Body)
		a.scope = prev
		union = effects.Union(union, bodyEffects)

		if i == 0 {
			resultType = bodyType
		} else if unified, ok := typesystem.Unify(resultType, bodyType); ok {
			resultType = unified
		} else {
			a.errorf(diagnostics.ErrTypeMismatch, arm.Body.Start(), "match arm bodies have mismatched types %s and %s",
				a.ctx.Pool.String(resultType), a.ctx.Pool.String(bodyType))
		}
	}

	if record != nil {
		for _, variant := range record.Variants {
			if !covered[variant.Name] {
				a.warnf(diagnostics.WarnNonExhaustiveMatch, m.Start(), "match over %q is not exhaustive: missing %q", record.Name, variant.Name)
			}
		}
	}

	return a.ctx.record(m, resultType, union).Type, union
}
