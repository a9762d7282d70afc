package main

import (
	"fmt"

	"github.com/cybellereaper/nova/internal/ast"
)

// handleHover answers with the type (and effect mask, if non-empty) of
// the expression whose starting token matches the requested position,
// per spec.md §6 ("returns the type of the expression whose starting
// token matches the requested position") — a line-oriented lookup, not
// the funxy LSP's smallest-enclosing-node search.
func (s *Server) handleHover(id interface{}, params HoverParams) error {
	s.mu.RLock()
	doc, ok := s.documents[params.TextDocument.URI]
	s.mu.RUnlock()

	if !ok || doc.astRoot == nil || doc.semantics == nil {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	// LSP positions are 0-based; Nova tokens are 1-based.
	wantLine := params.Position.Line + 1
	wantCol := params.Position.Character + 1

	var found ast.Expr
	ast.Walk(doc.astRoot, func(e ast.Expr) {
		if found != nil {
			return
		}
		tok := e.Start()
		if tok.Line != wantLine {
			return
		}
		if wantCol >= tok.Column && wantCol < tok.Column+len(tok.Lexeme) {
			found = e
		}
	})

	if found == nil {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	annotation, ok := doc.semantics.LookupExpr(found)
	if !ok {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	value := doc.semantics.Pool.String(annotation.Type)
	if !annotation.Effects.IsPure() {
		value = fmt.Sprintf("%s !%s", value, annotation.Effects)
	}

	hover := Hover{Contents: MarkupContent{Kind: "plaintext", Value: value}}
	return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: hover})
}
