// Package analyzer implements the two-pass semantic analysis of
// spec.md §4.3: type registration followed by declaration analysis,
// producing a SemanticContext the lowering stage and external
// collaborators read from afterward.
package analyzer

import (
	"github.com/cybellereaper/nova/internal/ast"
	"github.com/cybellereaper/nova/internal/diagnostics"
	"github.com/cybellereaper/nova/internal/effects"
	"github.com/cybellereaper/nova/internal/symbols"
	"github.com/cybellereaper/nova/internal/typesystem"
)

// Annotation is the (TypeId, EffectMask) pair recorded for every
// analyzed expression, per spec.md §3 ("Expression annotations").
type Annotation struct {
	Type    typesystem.ID
	Effects effects.Mask
}

// Context is the SemanticContext of spec.md §6: owns the type pool,
// the global scope, the side table keyed by ExprID, and the
// accumulated diagnostics. It is exclusively mutated during Analyze
// and read-only afterward.
type Context struct {
	Pool   *typesystem.Pool
	Global *symbols.Scope
	Diags  diagnostics.List

	annotations map[ast.ExprID]Annotation
	typeNames   map[string]typesystem.ID // declared type name -> its Custom id
}

func newContext() *Context {
	return &Context{
		Pool:        typesystem.NewPool(),
		Global:      symbols.NewGlobalScope(),
		annotations: make(map[ast.ExprID]Annotation),
		typeNames:   make(map[string]typesystem.ID),
	}
}

// record writes expr's (type, effects) pair into the side table,
// overwriting any prior entry, per spec.md invariant 2.
func (c *Context) record(expr ast.Expr, t typesystem.ID, e effects.Mask) Annotation {
	a := Annotation{Type: t, Effects: e}
	c.annotations[expr.ExprID()] = a
	return a
}

// LookupExpr returns the recorded annotation for expr, if analysis
// visited it.
func (c *Context) LookupExpr(expr ast.Expr) (Annotation, bool) {
	a, ok := c.annotations[expr.ExprID()]
	return a, ok
}

// TypeInfo exposes the pool's Info for id, per the §6 library surface.
func (c *Context) TypeInfo(id typesystem.ID) typesystem.Info {
	return c.Pool.Info(id)
}

// FindType resolves a declared type name to its interned Custom id.
func (c *Context) FindType(name string) (typesystem.ID, bool) {
	id, ok := c.typeNames[name]
	return id, ok
}

// Reserved id accessors, per the §6 library surface.
func (c *Context) UnknownID() typesystem.ID { return typesystem.Unknown }
func (c *Context) UnitID() typesystem.ID    { return typesystem.Unit }
func (c *Context) NumberID() typesystem.ID  { return typesystem.Number }
func (c *Context) StringID() typesystem.ID  { return typesystem.String }
func (c *Context) BoolID() typesystem.ID    { return typesystem.Bool }
