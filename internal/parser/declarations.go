package parser

import (
	"github.com/cybellereaper/nova/internal/ast"
	"github.com/cybellereaper/nova/internal/diagnostics"
	"github.com/cybellereaper/nova/internal/token"
)

// parseDecl dispatches on the leading keyword, per spec.md §4.2.
func (p *Parser) parseDecl() ast.Decl {
	switch p.cur().Kind {
	case token.FUN:
		return p.parseFunDecl()
	case token.LET:
		return p.parseLetDecl()
	case token.TYPE:
		return p.parseTypeDecl()
	case token.ILLEGAL:
		tok := p.cur()
		p.advance()
		p.errorf(illegalCode(tok), tok, "%s", illegalMessage(tok))
		return nil
	default:
		p.errorf(diagnostics.ErrUnexpectedToken, p.cur(), "unexpected top-level token %q", p.cur().Lexeme)
		p.advance()
		return nil
	}
}

// parseParamList parses a comma-separated `name (':' type)?` list,
// shared by function declarations and lambdas.
func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	for !p.check(token.RPAREN) && !p.check(token.EOF) {
		name, ok := p.expect(token.IDENT, "parameter name")
		if !ok {
			break
		}
		param := ast.Param{Name: name}
		if p.match(token.COLON) {
			if typeName, ok := p.expect(token.IDENT, "type name"); ok {
				param.HasType = true
				param.TypeName = typeName
			}
		}
		params = append(params, param)
		if !p.match(token.COMMA) {
			break
		}
	}
	return params
}

// parseFunDecl is `fun name '(' params? ')' (':' type)? '=' expression`.
func (p *Parser) parseFunDecl() ast.Decl {
	tok := p.advance() // 'fun'
	name, ok := p.expect(token.IDENT, "function name")
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.LPAREN, "'('"); !ok {
		return nil
	}
	params := p.parseParamList()
	if _, ok := p.expect(token.RPAREN, "')'"); !ok {
		return nil
	}

	hasReturn := false
	var returnType token.Token
	if p.match(token.COLON) {
		if rt, ok := p.expect(token.IDENT, "return type"); ok {
			hasReturn = true
			returnType = rt
		}
	}

	if _, ok := p.expect(token.ASSIGN, "'='"); !ok {
		return nil
	}
	body := p.parseExpression()
	return ast.NewFun(tok, name, params, hasReturn, returnType, body)
}

// parseLetDecl is `let name (':' type)? '=' expression`.
func (p *Parser) parseLetDecl() ast.Decl {
	tok := p.advance() // 'let'
	name, ok := p.expect(token.IDENT, "binding name")
	if !ok {
		return nil
	}
	hasType := false
	var typeName token.Token
	if p.match(token.COLON) {
		if tn, ok := p.expect(token.IDENT, "type name"); ok {
			hasType = true
			typeName = tn
		}
	}
	if _, ok := p.expect(token.ASSIGN, "'='"); !ok {
		return nil
	}
	value := p.parseExpression()
	return ast.NewLet(tok, name, hasType, typeName, value)
}

// parseTypeDecl is either a sum type
// (`type name = variant ('|' variant)*`) or a tuple type
// (`type name '(' fields ')'`), per spec.md §4.2.
func (p *Parser) parseTypeDecl() ast.Decl {
	tok := p.advance() // 'type'
	name, ok := p.expect(token.IDENT, "type name")
	if !ok {
		return nil
	}

	if p.check(token.LPAREN) {
		p.advance()
		fields := p.parseParamList()
		p.expect(token.RPAREN, "')'")
		return ast.NewTupleType(tok, name, fields)
	}

	if _, ok := p.expect(token.ASSIGN, "'='"); !ok {
		return nil
	}

	var variants []ast.Variant
	variants = append(variants, p.parseVariant())
	for p.match(token.PIPE) {
		variants = append(variants, p.parseVariant())
	}
	return ast.NewSumType(tok, name, variants)
}

// parseVariant parses one `Name ('(' fields ')')?` arm of a sum type.
// A missing constructor name makes the whole declaration malformed, so
// it is reported as ErrInvalidTypeDecl rather than the generic
// expected-token diagnostic.
func (p *Parser) parseVariant() ast.Variant {
	if !p.check(token.IDENT) {
		p.errorf(diagnostics.ErrInvalidTypeDecl, p.cur(), "expected variant name, got %q", p.cur().Lexeme)
		return ast.Variant{}
	}
	name := p.advance()
	v := ast.Variant{Name: name}
	if p.match(token.LPAREN) {
		v.Payload = p.parseParamList()
		p.expect(token.RPAREN, "')'")
	}
	return v
}
