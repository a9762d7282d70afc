// Command nova-fmt re-emits a Nova source file's token stream with
// canonical brace-based indentation, per spec.md §6: it is a printer
// over internal/lexer's token stream, not a pretty-printer over the
// AST, so it formats files the parser would reject too. Its shape
// follows internal/lexer's own single-pass, no-backtracking style
// rather than any example formatter.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/cybellereaper/nova/internal/lexer"
	"github.com/cybellereaper/nova/internal/token"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("nova-fmt", pflag.ContinueOnError)
	write := flags.BoolP("write", "w", false, "overwrite the file in place instead of printing to stdout")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: nova-fmt [-w] <file>\n")
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}

	rest := flags.Args()
	if len(rest) != 1 {
		flags.Usage()
		return 2
	}
	path := rest[0]

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nova-fmt: %v\n", err)
		return 1
	}

	formatted := Format(string(source))

	if *write {
		if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "nova-fmt: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Print(formatted)
	return 0
}

// Format re-tokenizes source and re-emits it with indentation rules:
// `{` opens an indented block and breaks the line, `}` dedents before
// printing itself, `;` and `,` insert a line break and a space
// respectively, and `->`/`=>`/`else` always get surrounding
// whitespace.
func Format(source string) string {
	tokens := lexer.Tokenize(source)

	p := &printer{}
	for i, tok := range tokens {
		if tok.Kind == token.EOF || tok.Kind == token.ILLEGAL {
			break
		}
		next := token.Token{Kind: token.EOF}
		if i+1 < len(tokens) {
			next = tokens[i+1]
		}
		p.emit(tok, next)
	}
	p.finish()
	return p.sb.String()
}

type printer struct {
	sb        strings.Builder
	indent    int
	newLine   bool
	needSpace bool
}

const indentUnit = "    "

func (p *printer) raw(s string, noLeadingSpace bool) {
	if p.newLine {
		p.sb.WriteString(strings.Repeat(indentUnit, p.indent))
		p.newLine = false
		p.needSpace = false
	}
	if p.needSpace && !noLeadingSpace {
		p.sb.WriteByte(' ')
	}
	p.sb.WriteString(s)
	p.needSpace = true
}

func (p *printer) breakLine() {
	p.sb.WriteByte('\n')
	p.newLine = true
}

func (p *printer) emit(tok, next token.Token) {
	switch tok.Kind {
	case token.LBRACE:
		p.raw("{", false)
		p.breakLine()
		p.indent++
	case token.RBRACE:
		p.indent--
		if p.indent < 0 {
			p.indent = 0
		}
		if !p.newLine {
			p.breakLine()
		}
		p.raw("}", false)
		if next.Kind != token.ELSE {
			p.breakLine()
		}
	case token.SEMI:
		p.raw(";", true)
		p.breakLine()
	case token.COMMA:
		p.raw(",", true)
	case token.ARROW, token.FAT_ARROW, token.ELSE:
		p.raw(tok.Lexeme, false)
	default:
		p.raw(tok.Lexeme, false)
	}
}

func (p *printer) finish() {
	if !p.newLine {
		p.breakLine()
	}
}
