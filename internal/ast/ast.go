// Package ast defines the tree of declarations and expressions the
// parser produces. Each node exclusively owns its children; tokens are
// copied by value from the token stream.
package ast

import "github.com/cybellereaper/nova/internal/token"

// Node is the base interface implemented by every AST node.
type Node interface {
	// Start returns the token the node begins at, for diagnostics and
	// the lowering stage's token propagation.
	Start() token.Token
}

// Expr is implemented by every expression node. ExprID is a stable
// identity assigned at construction time so the analyzer's annotation
// side table can key on identity rather than pointer equality, per
// spec.md §9 ("Expression annotation side table").
type Expr interface {
	Node
	ExprID() ExprID
	exprNode()
}

// Decl is implemented by every top-level declaration node.
type Decl interface {
	Node
	declNode()
}

// ExprID is a dense, monotonically increasing identity assigned to
// every Expr on construction.
type ExprID int

var nextExprID ExprID

// newExprID hands out the next identity. Not safe for concurrent
// parsing, matching the single-threaded model of spec.md §5.
func newExprID() ExprID {
	nextExprID++
	return nextExprID
}

// ResetExprIDs rewinds the global id counter. Tests that parse
// multiple independent programs call this between parses so expected
// ids stay stable; production compilation of one file never needs it.
func ResetExprIDs() {
	nextExprID = 0
}

// base is embedded by every Expr implementation to supply the token,
// identity bookkeeping, and marker method in one place.
type base struct {
	tok token.Token
	id  ExprID
}

func newBase(tok token.Token) base {
	return base{tok: tok, id: newExprID()}
}

func (b base) Start() token.Token { return b.tok }
func (b base) ExprID() ExprID     { return b.id }
func (base) exprNode()            {}

// Param is a function or lambda parameter: a name with an optional
// type annotation token (the annotation's identifier token, or the
// zero Token if omitted).
type Param struct {
	Name       token.Token
	HasType    bool
	TypeName   token.Token
}

// Arg is a call argument, optionally labeled (`name = value`). The
// label is preserved on the AST but ignored by the analyzer for
// arity/type checking, per spec.md §9.
type Arg struct {
	Label   token.Token // zero Token if positional
	Labeled bool
	Value   Expr
}

// MatchArm is one case of a Match expression: a constructor name token,
// its binding parameters, and a body.
type MatchArm struct {
	Constructor token.Token
	Params      []Param
	Body        Expr
}

// DottedPath is a `.`-separated sequence of identifiers, used for
// module and import paths.
type DottedPath struct {
	Parts []token.Token
}

func (p DottedPath) String() string {
	s := ""
	for i, part := range p.Parts {
		if i > 0 {
			s += "."
		}
		s += part.Lexeme
	}
	return s
}

// Import is one `import <path> ( '{' name (',' name)* '}' )?` clause.
type Import struct {
	Path    DottedPath
	Symbols []token.Token // nil if no brace-enclosed list was given
}

// Program is the root node produced by parsing one source file: a
// module path, an ordered list of imports, and an ordered list of
// top-level declarations.
type Program struct {
	Module  DottedPath
	Imports []Import
	Decls   []Decl
}

func (p *Program) Start() token.Token {
	if len(p.Module.Parts) > 0 {
		return p.Module.Parts[0]
	}
	return token.Token{}
}
