// Package typesystem interns Nova types as dense integer ids in an
// owning arena, per spec.md §3 ("Type interning") and §9's note that
// stable indices into a single owning vector, not pointers, are what
// keep references valid while the table grows.
package typesystem

import (
	"fmt"
	"strings"
)

// ID identifies an interned type. Reserved ids are assigned before any
// user-declared type, per spec.md invariant 3.
type ID int

const (
	Unknown ID = iota
	Unit
	Number
	String
	Bool

	firstUserID
)

// Kind distinguishes the shape of an interned type.
type Kind int

const (
	KindPrimitive Kind = iota
	KindList
	KindFunction
	KindCustom
)

// TypeRecord is the canonical description of a user-declared sum or
// tuple type: its name, whether it is a sum type, and its variants.
// The declaring ast.TypeDecl is not stored.
type TypeRecord struct {
	Name     string
	IsSum    bool
	Variants []VariantInfo // populated for sum types
}

// VariantInfo is one case of a declared sum type: its name and the
// types of its payload parameters (empty for nullary variants).
type VariantInfo struct {
	Name    string
	Payload []ID
}

// Info describes one interned type, keyed by its ID.
type Info struct {
	Kind Kind

	// KindList
	Element ID

	// KindFunction
	Params  []ID
	Result  ID
	Effects uint8 // effects.Mask value; stored as uint8 to avoid an import cycle

	// KindCustom
	Record *TypeRecord
}

// Pool owns every interned Info for one compilation. It is mutated
// exclusively by the analyzer during a single Analyze call; afterward
// it is read-only for lowering and external consumers, per spec.md §5.
type Pool struct {
	infos []Info
}

// NewPool creates a Pool with the reserved ids already allocated.
func NewPool() *Pool {
	p := &Pool{infos: make([]Info, firstUserID)}
	p.infos[Unknown] = Info{Kind: KindPrimitive}
	p.infos[Unit] = Info{Kind: KindPrimitive}
	p.infos[Number] = Info{Kind: KindPrimitive}
	p.infos[String] = Info{Kind: KindPrimitive}
	p.infos[Bool] = Info{Kind: KindPrimitive}
	return p
}

// Count returns the number of interned types, satisfying invariant 1
// of spec.md §3 (every stored TypeId is < type_count).
func (p *Pool) Count() int {
	return len(p.infos)
}

// Info looks up the Info for id. The zero Info is returned for an
// out-of-range id.
func (p *Pool) Info(id ID) Info {
	if int(id) < 0 || int(id) >= len(p.infos) {
		return Info{}
	}
	return p.infos[id]
}

func (p *Pool) intern(info Info) ID {
	id := ID(len(p.infos))
	p.infos = append(p.infos, info)
	return id
}

// InternList returns the id for List(element), interning a fresh one
// if this element type has not been seen as a list before.
func (p *Pool) InternList(element ID) ID {
	for id, info := range p.infos {
		if info.Kind == KindList && info.Element == element {
			return ID(id)
		}
	}
	return p.intern(Info{Kind: KindList, Element: element})
}

// InternFunction interns a fresh Function(params, result, effects)
// type. Function types are not deduplicated: two syntactically
// identical function declarations intern distinct ids, matching the
// one-function-type-per-declaration model of spec.md §4.3.
func (p *Pool) InternFunction(params []ID, result ID, effects uint8) ID {
	paramsCopy := append([]ID(nil), params...)
	return p.intern(Info{Kind: KindFunction, Params: paramsCopy, Result: result, Effects: effects})
}

// SetFunctionResult rewrites the result type and effects of an
// already-interned function type, used by the analyzer to write a
// function body's inferred type/effects back into its signature after
// analysis (spec.md §4.3, Fun declaration rule).
func (p *Pool) SetFunctionResult(id ID, result ID, effects uint8) {
	if int(id) < 0 || int(id) >= len(p.infos) {
		return
	}
	if p.infos[id].Kind != KindFunction {
		return
	}
	p.infos[id].Result = result
	p.infos[id].Effects = effects
}

// InternCustom interns a fresh Custom(record) type for a newly
// declared sum or tuple type.
func (p *Pool) InternCustom(record *TypeRecord) ID {
	return p.intern(Info{Kind: KindCustom, Record: record})
}

// String renders a human-readable name for id, used by diagnostics and
// the LSP hover surface.
func (p *Pool) String(id ID) string {
	switch id {
	case Unknown:
		return "Unknown"
	case Unit:
		return "Unit"
	case Number:
		return "Number"
	case String:
		return "String"
	case Bool:
		return "Bool"
	}
	info := p.Info(id)
	switch info.Kind {
	case KindList:
		return fmt.Sprintf("List(%s)", p.String(info.Element))
	case KindFunction:
		parts := make([]string, len(info.Params))
		for i, param := range info.Params {
			parts[i] = p.String(param)
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), p.String(info.Result))
	case KindCustom:
		if info.Record != nil {
			return info.Record.Name
		}
		return "Custom"
	}
	return fmt.Sprintf("Type(%d)", int(id))
}

// LookupPrimitive resolves a primitive type name keyword to its
// reserved id. ok is false for any other name.
func LookupPrimitive(name string) (ID, bool) {
	switch name {
	case "Number":
		return Number, true
	case "String":
		return String, true
	case "Bool":
		return Bool, true
	case "Unit":
		return Unit, true
	}
	return 0, false
}
