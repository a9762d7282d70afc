// Package parser implements the single-pass recursive-descent parser
// with error recovery described in spec.md §4.2.
package parser

import (
	"fmt"

	"github.com/cybellereaper/nova/internal/ast"
	"github.com/cybellereaper/nova/internal/diagnostics"
	"github.com/cybellereaper/nova/internal/lexer"
	"github.com/cybellereaper/nova/internal/token"
)

// topLevelStarters are the token kinds that begin a new top-level form;
// synchronize() stops advancing once one of these is the next token,
// per spec.md §4.2.
var topLevelStarters = map[token.Kind]bool{
	token.FUN:   true,
	token.LET:   true,
	token.TYPE:  true,
	token.IF:    true,
	token.WHILE: true,
	token.MATCH: true,
	token.ASYNC: true,
}

// Parser holds a cursor over the full token array, a diagnostic list,
// and the panic-mode flag used for synchronized recovery.
type Parser struct {
	tokens    []token.Token
	pos       int
	diags     diagnostics.List
	hadError  bool
	panicMode bool
}

// New constructs a Parser over a pre-tokenized stream.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse tokenizes source and parses it to a Program, returning the
// accumulated diagnostics and whether any error-severity diagnostic
// was emitted. This is the `parse` entry point of spec.md §6.
func Parse(source string) (*ast.Program, diagnostics.List, bool) {
	p := New(lexer.Tokenize(source))
	prog := p.ParseProgram()
	return prog, p.diags, p.hadError
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	return p.peekAt(1)
}

func (p *Parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) advance() token.Token {
	tok := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.cur().Kind == kind
}

func (p *Parser) match(kind token.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it has the expected kind,
// otherwise reports a missing-token diagnostic and leaves the cursor
// in place so recovery can inspect it.
func (p *Parser) expect(kind token.Kind, what string) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.errorf(diagnostics.ErrExpectedToken, p.cur(), "expected %s, got %q", what, p.cur().Lexeme)
	return token.Token{}, false
}

// illegalCode maps an ILLEGAL token's carried lexer error kind to the
// diagnostic code it should surface as, per spec.md §7. Tokens with no
// specific kind (shouldn't occur for ILLEGAL, but kept defensive) fall
// back to the generic unexpected-token code.
func illegalCode(tok token.Token) diagnostics.Code {
	switch tok.Err {
	case token.ErrUnterminatedString:
		return diagnostics.ErrUnterminatedString
	case token.ErrUnknownByte:
		return diagnostics.ErrUnknownByte
	default:
		return diagnostics.ErrUnexpectedToken
	}
}

// illegalMessage renders the diagnostic text for an ILLEGAL token,
// mirroring the wording spec.md §7 uses for each lexical error.
func illegalMessage(tok token.Token) string {
	switch tok.Err {
	case token.ErrUnterminatedString:
		return "unterminated string literal"
	case token.ErrUnknownByte:
		return fmt.Sprintf("unknown byte %q", tok.Lexeme)
	default:
		return fmt.Sprintf("unexpected token %q", tok.Lexeme)
	}
}

// errorf reports an error diagnostic unless panicMode is already
// suppressing diagnostics from the current region, then enters panic
// mode, per spec.md §4.2.
func (p *Parser) errorf(code diagnostics.Code, tok token.Token, format string, args ...any) {
	p.hadError = true
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.diags.Add(diagnostics.New(code, tok, format, args...))
}

// synchronize advances past the faulty region: tokens are consumed
// until the previous token was SEMI or the next token begins a
// top-level form, per spec.md §4.2. panicMode is cleared afterward.
func (p *Parser) synchronize() {
	for !p.check(token.EOF) {
		if p.pos > 0 && p.tokens[p.pos-1].Kind == token.SEMI {
			break
		}
		if topLevelStarters[p.cur().Kind] {
			break
		}
		p.advance()
	}
	p.panicMode = false
}

// ParseProgram parses a module header, its imports, and its top-level
// declarations, synchronizing after each declaration that errors so a
// well-formed (possibly incomplete) Program is always returned.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}

	if tok, ok := p.expect(token.MODULE, "'module'"); ok {
		prog.Module = p.parseDottedPath()
	} else {
		_ = tok
		p.synchronize()
	}

	for p.check(token.IMPORT) {
		prog.Imports = append(prog.Imports, p.parseImport())
	}

	for !p.check(token.EOF) {
		decl := p.parseDecl()
		if decl != nil {
			prog.Decls = append(prog.Decls, decl)
		}
		if p.panicMode {
			p.synchronize()
		}
	}

	return prog
}

func (p *Parser) parseDottedPath() ast.DottedPath {
	var path ast.DottedPath
	if tok, ok := p.expect(token.IDENT, "identifier"); ok {
		path.Parts = append(path.Parts, tok)
	}
	for p.match(token.DOT) {
		if tok, ok := p.expect(token.IDENT, "identifier"); ok {
			path.Parts = append(path.Parts, tok)
		}
	}
	return path
}

func (p *Parser) parseImport() ast.Import {
	p.advance() // 'import'
	imp := ast.Import{Path: p.parseDottedPath()}
	if p.match(token.LBRACE) {
		for !p.check(token.RBRACE) && !p.check(token.EOF) {
			if tok, ok := p.expect(token.IDENT, "identifier"); ok {
				imp.Symbols = append(imp.Symbols, tok)
			}
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACE, "'}'")
	}
	return imp
}
