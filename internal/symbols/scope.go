// Package symbols implements the scope chain the analyzer resolves
// identifiers against, per spec.md §3 ("Scope").
package symbols

import (
	"github.com/cybellereaper/nova/internal/effects"
	"github.com/cybellereaper/nova/internal/typesystem"
)

// Entry binds one name to its resolved type and effect information.
// When IsConstructor is set, Type and Variant point back to the
// declaring custom type, per spec.md invariant 4.
type Entry struct {
	Name          string
	Type          typesystem.ID
	Effects       effects.Mask
	IsConstructor bool
	OwnerType     typesystem.ID  // the Custom type id this constructor belongs to
	Variant       *typesystem.VariantInfo
}

// Scope is one link in a child-to-parent environment chain. Lookup
// walks child-first, matching spec.md's "Scope" data model.
type Scope struct {
	parent  *Scope
	entries map[string]Entry
}

// NewGlobalScope creates the root scope with no parent.
func NewGlobalScope() *Scope {
	return &Scope{entries: make(map[string]Entry)}
}

// Child opens a new scope nested under s.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, entries: make(map[string]Entry)}
}

// Parent returns the enclosing scope, or nil at the root.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// DefineHere binds name in this scope, overwriting any existing
// binding for the same name in this scope only (shadowing an outer
// scope's binding is allowed; redefining within the same scope is the
// caller's responsibility to flag as a duplicate-symbol diagnostic).
func (s *Scope) DefineHere(e Entry) {
	s.entries[e.Name] = e
}

// DefinedHere reports whether name is already bound directly in this
// scope (not an ancestor), used to detect duplicate definitions within
// one scope.
func (s *Scope) DefinedHere(name string) bool {
	_, ok := s.entries[name]
	return ok
}

// Lookup walks the chain child-first and returns the first binding for
// name, or false if none exists in any ancestor.
func (s *Scope) Lookup(name string) (Entry, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if e, ok := cur.entries[name]; ok {
			return e, true
		}
	}
	return Entry{}, false
}
