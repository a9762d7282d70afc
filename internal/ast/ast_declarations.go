package ast

import "github.com/cybellereaper/nova/internal/token"

// declBase carries the token shared by every declaration node, the
// same way base does for expressions, but declarations are not
// currently keyed in any side table so no identity field is needed.
type declBase struct {
	tok token.Token
}

func (d declBase) Start() token.Token { return d.tok }
func (declBase) declNode()            {}

// Let is `let name (':' type)? '=' value`.
type Let struct {
	declBase
	Name       token.Token
	HasType    bool
	TypeName   token.Token
	Value      Expr
}

func NewLet(tok, name token.Token, hasType bool, typeName token.Token, value Expr) *Let {
	return &Let{declBase: declBase{tok}, Name: name, HasType: hasType, TypeName: typeName, Value: value}
}

// Fun is `fun name '(' params ')' (':' type)? '=' body`.
type Fun struct {
	declBase
	Name          token.Token
	Params        []Param
	HasReturnType bool
	ReturnType    token.Token
	Body          Expr
}

func NewFun(tok, name token.Token, params []Param, hasReturn bool, returnType token.Token, body Expr) *Fun {
	return &Fun{declBase: declBase{tok}, Name: name, Params: params, HasReturnType: hasReturn, ReturnType: returnType, Body: body}
}

// Variant is one case of a Sum type: a name and an optional ordered
// payload parameter list.
type Variant struct {
	Name    token.Token
	Payload []Param
}

// TypeDeclKind distinguishes the two TypeDecl shapes in spec.md §3.
type TypeDeclKind int

const (
	KindSum TypeDeclKind = iota
	KindTuple
)

// TypeDecl is `type name = variant ('|' variant)*` (Sum) or
// `type name '(' fields ')'` (Tuple).
type TypeDecl struct {
	declBase
	Name     token.Token
	DeclKind TypeDeclKind
	Variants []Variant // Sum: one or more; Tuple: unused
	Fields   []Param   // Tuple: the field list; Sum: unused
}

func NewSumType(tok, name token.Token, variants []Variant) *TypeDecl {
	return &TypeDecl{declBase: declBase{tok}, Name: name, DeclKind: KindSum, Variants: variants}
}

func NewTupleType(tok, name token.Token, fields []Param) *TypeDecl {
	return &TypeDecl{declBase: declBase{tok}, Name: name, DeclKind: KindTuple, Fields: fields}
}
