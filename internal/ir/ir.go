// Package ir defines the lowered typed tree lowering produces from an
// analyzed AST, per spec.md §3 ("IR expression") and §9's note that
// new node kinds (List, If, While, Match, Sequence) extend the
// original_source collaborator's narrower NovaIRExpr union.
package ir

import (
	"github.com/cybellereaper/nova/internal/effects"
	"github.com/cybellereaper/nova/internal/token"
	"github.com/cybellereaper/nova/internal/typesystem"
)

// Kind distinguishes the shape of an Expr.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
	KindUnit
	KindIdentifier
	KindCall
	KindSequence
	KindList
	KindIf
	KindWhile
	KindMatch
)

// Expr is one node of the lowered tree. Every node carries its
// resolved TypeId (invariant 1 of spec.md §3 also applies here: the id
// must be valid in the owning semantic context's pool). Only the
// fields relevant to Kind are populated; this mirrors the tagged
// union of original_source's NovaIRExpr without exposing Go's lack of
// a native union (a single struct with kind-gated fields is the
// idiomatic substitute, matching the analyzer's Info shape).
type Expr struct {
	Kind Kind
	Type typesystem.ID

	NumberValue float64
	StringValue string
	BoolValue   bool

	Identifier token.Token // KindIdentifier

	CalleeToken token.Token // KindCall
	Args        []*Expr     // KindCall

	Items []*Expr // KindSequence, KindList

	Cond *Expr // KindIf, KindWhile
	Then *Expr // KindIf
	Else *Expr // KindIf
	Body *Expr // KindWhile

	Scrutinee *Expr      // KindMatch
	Arms      []MatchArm // KindMatch
}

// MatchArm is one lowered case of a Match node: the constructor token,
// the ordered binding name tokens, and the lowered body.
type MatchArm struct {
	Constructor token.Token
	Bindings    []token.Token
	Body        *Expr
}

// Param is a lowered function parameter: a name token and its
// resolved type.
type Param struct {
	Name token.Token
	Type typesystem.ID
}

// Function is one lowered top-level `fun` declaration.
type Function struct {
	Name       token.Token
	Params     []Param
	ReturnType typesystem.ID
	Effects    effects.Mask
	Body       Expr
}

// Program is the output of lowering: an ordered list of lowered
// functions (let- and type-declarations are not lowered, per
// spec.md §4.4).
type Program struct {
	Functions []Function
}
