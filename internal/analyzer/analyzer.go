package analyzer

import (
	"github.com/cybellereaper/nova/internal/ast"
	"github.com/cybellereaper/nova/internal/diagnostics"
	"github.com/cybellereaper/nova/internal/effects"
	"github.com/cybellereaper/nova/internal/symbols"
	"github.com/cybellereaper/nova/internal/token"
	"github.com/cybellereaper/nova/internal/typesystem"
)

// analyzer carries the mutable state of one Analyze call: the
// SemanticContext under construction plus the current scope cursor.
type analyzer struct {
	ctx   *Context
	scope *symbols.Scope
}

// Analyze runs both passes of spec.md §4.3 over program's top-level
// declarations and returns the resulting SemanticContext. This is the
// `analyze` entry point of spec.md §6.
func Analyze(program *ast.Program) *Context {
	ctx := newContext()
	a := &analyzer{ctx: ctx, scope: ctx.Global}

	a.registerTypes(program.Decls)
	a.forwardBindFunctions(program.Decls)
	for _, decl := range program.Decls {
		a.analyzeDecl(decl)
	}
	return ctx
}

func (a *analyzer) errorf(code diagnostics.Code, tok token.Token, format string, args ...any) {
	a.ctx.Diags.Add(diagnostics.New(code, tok, format, args...))
}

func (a *analyzer) warnf(code diagnostics.Code, tok token.Token, format string, args ...any) {
	a.ctx.Diags.Add(diagnostics.NewWarning(code, tok, format, args...))
}

// resolveTypeToken resolves an optional type annotation token to a
// TypeId: a primitive keyword, a declared custom type name, or
// Unknown when absent or unrecognized (with a diagnostic in the
// unrecognized case).
func (a *analyzer) resolveTypeToken(hasType bool, tok token.Token) typesystem.ID {
	if !hasType {
		return typesystem.Unknown
	}
	if id, ok := typesystem.LookupPrimitive(tok.Lexeme); ok {
		return id
	}
	if id, ok := a.ctx.FindType(tok.Lexeme); ok {
		return id
	}
	a.errorf(diagnostics.ErrUnknownTypeName, tok, "unknown type name %q", tok.Lexeme)
	return typesystem.Unknown
}

// registerTypes is pass 1 of spec.md §4.3: it allocates a Custom id
// and type record for every TypeDecl and introduces constructor
// bindings for sum types before any declaration body is analyzed.
func (a *analyzer) registerTypes(decls []ast.Decl) {
	for _, decl := range decls {
		td, ok := decl.(*ast.TypeDecl)
		if !ok {
			continue
		}
		record := &typesystem.TypeRecord{Name: td.Name.Lexeme, IsSum: td.DeclKind == ast.KindSum}
		id := a.ctx.Pool.InternCustom(record)
		a.ctx.typeNames[td.Name.Lexeme] = id

		switch td.DeclKind {
		case ast.KindSum:
			a.registerSumType(td, id, record)
		case ast.KindTuple:
			a.registerTupleType(td)
		}
	}
}

func (a *analyzer) registerSumType(td *ast.TypeDecl, ownerID typesystem.ID, record *typesystem.TypeRecord) {
	for _, variant := range td.Variants {
		payload := make([]typesystem.ID, len(variant.Payload))
		for i, field := range variant.Payload {
			payload[i] = a.resolveTypeToken(field.HasType, field.TypeName)
			if field.HasType {
				continue
			}
			// A bare payload field such as `Some(Number)` names its type
			// directly; a bare name that is no known type stays Unknown.
			if id, ok := typesystem.LookupPrimitive(field.Name.Lexeme); ok {
				payload[i] = id
			} else if id, ok := a.ctx.FindType(field.Name.Lexeme); ok {
				payload[i] = id
			}
		}
		record.Variants = append(record.Variants, typesystem.VariantInfo{Name: variant.Name.Lexeme, Payload: payload})

		entry := symbols.Entry{
			Name:          variant.Name.Lexeme,
			IsConstructor: true,
			OwnerType:     ownerID,
			Variant:       &record.Variants[len(record.Variants)-1],
		}
		if len(payload) == 0 {
			entry.Type = ownerID
		} else {
			entry.Type = a.ctx.Pool.InternFunction(payload, ownerID, 0)
		}
		if a.ctx.Global.DefinedHere(entry.Name) {
			a.errorf(diagnostics.ErrDuplicateSymbol, variant.Name, "duplicate symbol %q", entry.Name)
		}
		a.ctx.Global.DefineHere(entry)
	}
}

func (a *analyzer) registerTupleType(td *ast.TypeDecl) {
	if len(td.Fields) == 0 {
		a.warnf(diagnostics.WarnTupleTypeSchema, td.Name, "tuple type %q declares no fields", td.Name.Lexeme)
	}
	for _, field := range td.Fields {
		if !field.HasType {
			a.warnf(diagnostics.WarnTupleTypeSchema, td.Name, "tuple type %q field %q has no type annotation", td.Name.Lexeme, field.Name.Lexeme)
		}
	}
}

// forwardBindFunctions interns a function type and binds the global
// scope entry for every Fun declaration before any body is analyzed,
// per the §9 design note on mutual recursion: the source only
// forward-binds a single function's own name, which is not enough for
// two functions that call each other. analyzeFunDecl below rewrites
// the entry's type in place once the body's actual effects are known.
func (a *analyzer) forwardBindFunctions(decls []ast.Decl) {
	for _, decl := range decls {
		fn, ok := decl.(*ast.Fun)
		if !ok {
			continue
		}
		params := make([]typesystem.ID, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = a.resolveTypeToken(p.HasType, p.TypeName)
		}
		result := a.resolveTypeToken(fn.HasReturnType, fn.ReturnType)
		fnType := a.ctx.Pool.InternFunction(params, result, uint8(effects.Mask(0)))
		if a.ctx.Global.DefinedHere(fn.Name.Lexeme) {
			a.errorf(diagnostics.ErrDuplicateSymbol, fn.Name, "duplicate symbol %q", fn.Name.Lexeme)
		}
		a.ctx.Global.DefineHere(symbols.Entry{Name: fn.Name.Lexeme, Type: fnType})
	}
}

func (a *analyzer) analyzeDecl(decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.Let:
		a.analyzeLetDecl(d)
	case *ast.Fun:
		a.analyzeFunDecl(d)
	case *ast.TypeDecl:
		// fully handled in registerTypes
	}
}

func (a *analyzer) analyzeLetDecl(let *ast.Let) {
	valType, valEffects := a.analyzeExpr(let.Value)
	declared := a.resolveTypeToken(let.HasType, let.TypeName)
	unified, ok := typesystem.Unify(declared, valType)
	if !ok {
		a.errorf(diagnostics.ErrTypeMismatch, let.Name, "let %q: declared type %s does not match value type %s",
			let.Name.Lexeme, a.ctx.Pool.String(declared), a.ctx.Pool.String(valType))
	}
	if a.scope.DefinedHere(let.Name.Lexeme) {
		a.errorf(diagnostics.ErrDuplicateSymbol, let.Name, "duplicate symbol %q", let.Name.Lexeme)
	}
	a.scope.DefineHere(symbols.Entry{Name: let.Name.Lexeme, Type: unified, Effects: valEffects})
}

// analyzeFunDecl analyzes a function body in a fresh child scope
// containing its parameters, then writes the body's inferred type
// (when no return annotation was given) and effects back into the
// function type interned by forwardBindFunctions, per spec.md §4.3.
func (a *analyzer) analyzeFunDecl(fn *ast.Fun) {
	entry, _ := a.ctx.Global.Lookup(fn.Name.Lexeme)
	fnInfo := a.ctx.Pool.Info(entry.Type)

	bodyScope := a.scope.Child()
	prevScope := a.scope
	a.scope = bodyScope
	for i, p := range fn.Params {
		paramType := typesystem.Unknown
		if i < len(fnInfo.Params) {
			paramType = fnInfo.Params[i]
		}
		bodyScope.DefineHere(symbols.Entry{Name: p.Name.Lexeme, Type: paramType})
	}
	bodyType, bodyEffects := a.analyzeExpr(fn.Body)
	a.scope = prevScope

	result := fnInfo.Result
	if !fn.HasReturnType {
		result = bodyType
	} else if unified, ok := typesystem.Unify(fnInfo.Result, bodyType); ok {
		result = unified
	} else {
		a.errorf(diagnostics.ErrTypeMismatch, fn.Name, "function %q: declared return type %s does not match body type %s",
			fn.Name.Lexeme, a.ctx.Pool.String(fnInfo.Result), a.ctx.Pool.String(bodyType))
	}
	a.ctx.Pool.SetFunctionResult(entry.Type, result, uint8(bodyEffects))
}
