// Package token defines the lexical atoms produced by the lexer and
// consumed by the parser, analyzer, and lowering stages.
package token

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	// Literals and names.
	IDENT
	NUMBER
	STRING

	// Keywords.
	MODULE
	IMPORT
	FUN
	LET
	TYPE
	IF
	ELSE
	WHILE
	MATCH
	ASYNC
	AWAIT
	TRUE
	FALSE

	// Punctuation.
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	DOT
	COLON
	SEMI
	ASSIGN
	ARROW     // ->
	FAT_ARROW // => (behaves like ARROW)
	PIPE_GT   // |>
	PIPE      // |
	BANG      // !
)

var names = map[Kind]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	MODULE:    "module",
	IMPORT:    "import",
	FUN:       "fun",
	LET:       "let",
	TYPE:      "type",
	IF:        "if",
	ELSE:      "else",
	WHILE:     "while",
	MATCH:     "match",
	ASYNC:     "async",
	AWAIT:     "await",
	TRUE:      "true",
	FALSE:     "false",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	DOT:       ".",
	COLON:     ":",
	SEMI:      ";",
	ASSIGN:    "=",
	ARROW:     "->",
	FAT_ARROW: "=>",
	PIPE_GT:   "|>",
	PIPE:      "|",
	BANG:      "!",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords maps exact byte-match lexemes to their keyword Kind.
var keywords = map[string]Kind{
	"module": MODULE,
	"import": IMPORT,
	"fun":    FUN,
	"let":    LET,
	"type":   TYPE,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"match":  MATCH,
	"async":  ASYNC,
	"await":  AWAIT,
	"true":   TRUE,
	"false":  FALSE,
}

// LookupIdent classifies a scanned identifier as a keyword or a plain
// IDENT using an exact byte-match table lookup.
func LookupIdent(lexeme string) Kind {
	if kind, ok := keywords[lexeme]; ok {
		return kind
	}
	return IDENT
}

// ErrKind distinguishes the specific lexical failure carried by an
// ILLEGAL token, the way funxy's lexer stashes extra detail in a
// token's Literal field for the parser to surface. Nova's lexer has
// only one error-bearing Kind (ILLEGAL), so the detail goes in its own
// field instead of overloading Lexeme.
type ErrKind int

const (
	ErrNone ErrKind = iota
	ErrUnterminatedString
	ErrUnknownByte
)

// Token is an immutable lexical atom. Lexeme aliases the source buffer
// supplied to the lexer; the buffer must outlive every Token derived
// from it.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int // 1-based
	Column int // 1-based, of the first character
	Err    ErrKind
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) %d:%d", t.Kind, t.Lexeme, t.Line, t.Column)
}

// IsArrow reports whether the token behaves as "->" for parsing
// purposes, per spec.md §4.1 ("=> ... behaves equivalently to -> for
// parsing").
func (t Token) IsArrow() bool {
	return t.Kind == ARROW || t.Kind == FAT_ARROW
}
