// Package diagnostics accumulates severity-tagged compiler messages
// produced by the lexer, parser, and semantic analyzer.
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/cybellereaper/nova/internal/token"
)

// Severity distinguishes messages that block successful compilation
// from advisory ones.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Code identifiers are short, stage-prefixed strings ("P" for parser,
// "A" for analyzer, "L" for lexer) so a reader can tell which stage
// raised a diagnostic without re-reading the message text.
type Code string

// Lexical diagnostics.
const (
	ErrUnterminatedString Code = "L001"
	ErrUnknownByte        Code = "L002"
)

// Syntactic diagnostics.
const (
	ErrExpectedToken     Code = "P001"
	ErrUnexpectedToken   Code = "P002"
	ErrInvalidTypeDecl   Code = "P003"
	ErrInvalidLambda     Code = "P004"
)

// Semantic diagnostics (errors).
const (
	ErrUndefinedIdentifier  Code = "A001"
	ErrDuplicateSymbol      Code = "A002"
	ErrTypeMismatch         Code = "A003"
	ErrCallOfNonFunction    Code = "A004"
	ErrArityMismatch        Code = "A005"
	ErrPipeStageNotCallable Code = "A006"
	ErrConditionNotBool     Code = "A007"
	ErrUnknownTypeName      Code = "A008"
)

// Semantic diagnostics (warnings).
const (
	WarnNonExhaustiveMatch Code = "A101"
	WarnTupleTypeSchema    Code = "A102"
)

// Diagnostic is a single severity-tagged message anchored to a token
// position.
type Diagnostic struct {
	Code     Code
	Token    token.Token
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s[%s]: %s", d.Token.Line, d.Token.Column, d.Severity, d.Code, d.Message)
}

// New creates an error-severity Diagnostic.
func New(code Code, tok token.Token, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Token: tok, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// NewWarning creates a warning-severity Diagnostic.
func NewWarning(code Code, tok token.Token, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Token: tok, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// List is an ordered collection of diagnostics from one or more
// stages. Within a stage, diagnostics are appended in source-position
// order as they are reported; across stages, lists are concatenated in
// pipeline order (parser, then analyzer) per spec.md §5.
type List []Diagnostic

// Add appends a diagnostic to the list.
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// HasErrors reports whether any error-severity diagnostic is present.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity diagnostics.
func (l List) Errors() List {
	var out List
	for _, d := range l {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the warning-severity diagnostics.
func (l List) Warnings() List {
	var out List
	for _, d := range l {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// SortByPosition orders diagnostics by line then column, stable
// against ties so same-position diagnostics keep their reporting
// order.
func (l List) SortByPosition() {
	sort.SliceStable(l, func(i, j int) bool {
		a, b := l[i].Token, l[j].Token
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}
