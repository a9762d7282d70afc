package parser

import (
	"github.com/cybellereaper/nova/internal/ast"
	"github.com/cybellereaper/nova/internal/diagnostics"
	"github.com/cybellereaper/nova/internal/token"
)

// parseExpression is the entry point for the expression grammar of
// spec.md §4.2, loosest-binding first: if/while/match/async are
// keyword-led forms tried before falling through to the unary/
// pipeline/call/primary chain.
func (p *Parser) parseExpression() ast.Expr {
	switch p.cur().Kind {
	case token.IF:
		return p.parseIfExpr()
	case token.WHILE:
		return p.parseWhileExpr()
	case token.MATCH:
		return p.parseMatchExpr()
	case token.ASYNC:
		return p.parseAsyncExpr()
	default:
		return p.parseUnary()
	}
}

// parseIfExpr is `if <expr> <block> ('else' (<if-expr> | <block>))?`.
func (p *Parser) parseIfExpr() ast.Expr {
	tok := p.advance() // 'if'
	cond := p.parseExpression()
	then := p.parseBlock()

	var els ast.Expr
	if p.match(token.ELSE) {
		if p.check(token.IF) {
			els = p.parseIfExpr()
		} else {
			els = p.parseBlock()
		}
	}
	return ast.NewIf(tok, cond, then, els)
}

// parseWhileExpr is `while <expr> <block>`.
func (p *Parser) parseWhileExpr() ast.Expr {
	tok := p.advance() // 'while'
	cond := p.parseExpression()
	body := p.parseBlock()
	return ast.NewWhile(tok, cond, body)
}

// parseMatchExpr is `match <expr> '{' arm* '}'`.
func (p *Parser) parseMatchExpr() ast.Expr {
	tok := p.advance() // 'match'
	scrutinee := p.parseExpression()
	if _, ok := p.expect(token.LBRACE, "'{'"); !ok {
		return ast.NewMatch(tok, scrutinee, nil)
	}

	var arms []ast.MatchArm
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		arms = append(arms, p.parseMatchArm())
		for p.match(token.SEMI) {
		}
	}
	p.expect(token.RBRACE, "'}'")
	return ast.NewMatch(tok, scrutinee, arms)
}

// parseMatchArm is `Name ('(' params ')')? '->' <expr>`.
func (p *Parser) parseMatchArm() ast.MatchArm {
	name, _ := p.expect(token.IDENT, "constructor name")
	arm := ast.MatchArm{Constructor: name}
	if p.match(token.LPAREN) {
		arm.Params = p.parseParamList()
		p.expect(token.RPAREN, "')'")
	}
	p.expectArrow(diagnostics.ErrExpectedToken)
	arm.Body = p.parseExpression()
	return arm
}

// expectArrow consumes a trailing '->'/'=>', reporting code when it is
// missing. Callers pick the code: a bare ErrExpectedToken for a match
// arm, ErrInvalidLambda when the arrow closes a lambda's parameter list.
func (p *Parser) expectArrow(code diagnostics.Code) bool {
	if p.cur().IsArrow() {
		p.advance()
		return true
	}
	p.errorf(code, p.cur(), "expected '->', got %q", p.cur().Lexeme)
	return false
}

// parseAsyncExpr is `async <block>`.
func (p *Parser) parseAsyncExpr() ast.Expr {
	tok := p.advance() // 'async'
	body := p.parseBlock()
	return ast.NewAsync(tok, body)
}

// parseUnary handles the prefix forms `await <expr>` and `! <expr>`
// before falling through to the pipeline chain.
func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Kind {
	case token.AWAIT:
		tok := p.advance()
		return ast.NewAwait(tok, p.parseUnary())
	case token.BANG:
		tok := p.advance()
		return ast.NewEffect(tok, p.parseUnary())
	default:
		return p.parsePipeline()
	}
}

// parsePipeline folds any occurrence of `|>` into a single Pipe node,
// per spec.md §4.2: target is the first operand, stages are the
// remaining call-expressions in left-to-right order.
func (p *Parser) parsePipeline() ast.Expr {
	target := p.parseCallExpr()
	if !p.check(token.PIPE_GT) {
		return target
	}
	tok := p.cur()
	var stages []ast.Expr
	for p.match(token.PIPE_GT) {
		stages = append(stages, p.parseCallExpr())
	}
	return ast.NewPipe(tok, target, stages)
}

// parseCallExpr is a primary followed by zero or more call
// applications, each wrapping the previous result in a Call node.
func (p *Parser) parseCallExpr() ast.Expr {
	expr := p.parsePrimary()
	for p.check(token.LPAREN) {
		tok := p.cur()
		args := p.parseArgs()
		expr = ast.NewCall(tok, expr, args)
	}
	return expr
}

func (p *Parser) parseArgs() []ast.Arg {
	p.advance() // '('
	var args []ast.Arg
	for !p.check(token.RPAREN) && !p.check(token.EOF) {
		args = append(args, p.parseArg())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN, "')'")
	return args
}

// parseArg parses either a positional argument or a labeled one
// (`name = value`). Labels are preserved on the AST but ignored by the
// analyzer, per spec.md §9.
func (p *Parser) parseArg() ast.Arg {
	if p.check(token.IDENT) && p.peek().Kind == token.ASSIGN {
		label := p.advance()
		p.advance() // '='
		return ast.Arg{Label: label, Labeled: true, Value: p.parseExpression()}
	}
	return ast.Arg{Value: p.parseExpression()}
}

// parsePrimary parses a literal, identifier, parenthesized expression
// or lambda, block, or list literal.
func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		return ast.NewLiteral(tok, ast.LitNumber, tok.Lexeme)
	case token.STRING:
		p.advance()
		return ast.NewLiteral(tok, ast.LitString, tok.Lexeme)
	case token.TRUE, token.FALSE:
		p.advance()
		return ast.NewLiteral(tok, ast.LitBool, tok.Lexeme)
	case token.IDENT:
		p.advance()
		return ast.NewIdentifier(tok)
	case token.LBRACE:
		return p.parseBlock()
	case token.LBRACKET:
		return p.parseListLiteral()
	case token.LPAREN:
		if p.isLambdaAhead() {
			return p.parseLambda()
		}
		p.advance() // '('
		inner := p.parseExpression()
		p.expect(token.RPAREN, "')'")
		return ast.NewParen(tok, inner)
	case token.ILLEGAL:
		p.advance()
		p.errorf(illegalCode(tok), tok, "%s", illegalMessage(tok))
		return ast.Unit(tok)
	default:
		p.errorf(diagnostics.ErrUnexpectedToken, tok, "unexpected token %q in expression", tok.Lexeme)
		if !p.check(token.EOF) {
			p.advance()
		}
		return ast.Unit(tok)
	}
}

// parseBlock is `{` zero or more expressions optionally separated by
// `;` `}`.
func (p *Parser) parseBlock() ast.Expr {
	tok := p.cur()
	if _, ok := p.expect(token.LBRACE, "'{'"); !ok {
		return ast.NewBlock(tok, nil)
	}
	var exprs []ast.Expr
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		exprs = append(exprs, p.parseExpression())
		for p.match(token.SEMI) {
		}
	}
	p.expect(token.RBRACE, "'}'")
	return ast.NewBlock(tok, exprs)
}

func (p *Parser) parseListLiteral() ast.Expr {
	tok := p.advance() // '['
	var items []ast.Expr
	for !p.check(token.RBRACKET) && !p.check(token.EOF) {
		items = append(items, p.parseExpression())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET, "']'")
	return ast.NewListLiteral(tok, items)
}

// isLambdaAhead implements the bounded look-ahead disambiguation of
// spec.md §4.2: inside a single pair of parens starting at the
// current LPAREN, if every token is an identifier, colon, or comma,
// and the token after the matching close is `->` or `=>`, it is a
// lambda.
func (p *Parser) isLambdaAhead() bool {
	if !p.check(token.LPAREN) {
		return false
	}
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		tok := p.tokens[i]
		switch tok.Kind {
		case token.EOF:
			return false
		case token.LPAREN:
			if depth > 0 {
				return false
			}
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				if i+1 < len(p.tokens) {
					return p.tokens[i+1].IsArrow()
				}
				return false
			}
		case token.IDENT, token.COLON, token.COMMA:
			// allowed inside the parameter list
		default:
			if depth == 1 {
				return false
			}
		}
	}
	return false
}

// parseLambda parses a `(params) -> expr` lambda. isLambdaAhead has
// already confirmed an arrow follows the matching ')', so any failure
// from here on is a malformed lambda, not a generic expression error.
func (p *Parser) parseLambda() ast.Expr {
	tok := p.advance() // '('
	params := p.parseParamList()
	if p.check(token.RPAREN) {
		p.advance()
	} else {
		p.errorf(diagnostics.ErrInvalidLambda, p.cur(), "malformed lambda parameter list: expected ')', got %q", p.cur().Lexeme)
	}
	p.expectArrow(diagnostics.ErrInvalidLambda)
	body := p.parseExpression()
	return ast.NewLambda(tok, params, body)
}
