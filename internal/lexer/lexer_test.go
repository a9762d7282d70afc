package lexer_test

import (
	"testing"

	"github.com/cybellereaper/nova/internal/lexer"
	"github.com/cybellereaper/nova/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeDeclaration(t *testing.T) {
	src := "module demo.core\nfun identity(x: Number): Number = x\n"
	toks := lexer.Tokenize(src)

	want := []token.Kind{
		token.MODULE, token.IDENT, token.DOT, token.IDENT,
		token.FUN, token.IDENT, token.LPAREN, token.IDENT, token.COLON, token.IDENT, token.RPAREN,
		token.COLON, token.IDENT, token.ASSIGN, token.IDENT, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTokenizePipeAndArrow(t *testing.T) {
	src := "1 |> identity -> f"
	toks := lexer.Tokenize(src)
	got := kinds(toks)
	want := []token.Kind{token.NUMBER, token.PIPE_GT, token.IDENT, token.ARROW, token.IDENT, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLineCommentSkipped(t *testing.T) {
	src := "let x = 1 # trailing comment\nlet y = 2\n"
	toks := lexer.Tokenize(src)
	for _, tok := range toks {
		if tok.Kind == token.ILLEGAL {
			t.Fatalf("unexpected illegal token: %v", tok)
		}
	}
	if toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("stream did not terminate in eof: %v", toks[len(toks)-1])
	}
}

func TestNumberWithFraction(t *testing.T) {
	toks := lexer.Tokenize("3.14")
	if toks[0].Kind != token.NUMBER || toks[0].Lexeme != "3.14" {
		t.Fatalf("got %v, want NUMBER(3.14)", toks[0])
	}
}

func TestTripleQuotedString(t *testing.T) {
	toks := lexer.Tokenize(`"""hello
world"""`)
	if toks[0].Kind != token.STRING {
		t.Fatalf("got %v, want STRING", toks[0])
	}
	want := "hello\nworld"
	if toks[0].Lexeme != want {
		t.Fatalf("lexeme = %q, want %q", toks[0].Lexeme, want)
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	toks := lexer.Tokenize(`"unterminated`)
	last := toks[len(toks)-1]
	if last.Kind != token.ILLEGAL {
		t.Fatalf("got %v, want ILLEGAL", last)
	}
	if last.Err != token.ErrUnterminatedString {
		t.Fatalf("err kind = %v, want ErrUnterminatedString", last.Err)
	}
}

func TestUnknownByteStopsTokenization(t *testing.T) {
	toks := lexer.Tokenize("let x = 1 ~ 2")
	last := toks[len(toks)-1]
	if last.Kind != token.ILLEGAL {
		t.Fatalf("got %v, want ILLEGAL", last)
	}
	if last.Lexeme != "~" {
		t.Fatalf("lexeme = %q, want %q", last.Lexeme, "~")
	}
	if last.Err != token.ErrUnknownByte {
		t.Fatalf("err kind = %v, want ErrUnknownByte", last.Err)
	}
}

func TestBackslashEscapeConsumedVerbatim(t *testing.T) {
	toks := lexer.Tokenize(`"a\"b"`)
	if toks[0].Kind != token.STRING {
		t.Fatalf("got %v, want STRING", toks[0])
	}
	if toks[0].Lexeme != `a\"b` {
		t.Fatalf("lexeme = %q, want %q", toks[0].Lexeme, `a\"b`)
	}
}

func TestKeywordVsIdentifier(t *testing.T) {
	toks := lexer.Tokenize("if iffy")
	if toks[0].Kind != token.IF {
		t.Fatalf("got %v, want IF", toks[0])
	}
	if toks[1].Kind != token.IDENT {
		t.Fatalf("got %v, want IDENT", toks[1])
	}
}
