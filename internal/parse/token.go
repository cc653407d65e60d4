package parse

import (
	"strings"

	"volta/internal/source"
)

// Kind classifies lexed tokens. The lexer keeps only the shapes the
// design-unit parser distinguishes; every remaining delimiter collapses
// into KindOther.
type Kind uint8

const (
	KindEOF Kind = iota
	// KindIdent is a basic or extended identifier.
	KindIdent
	// KindString is a string literal, quotes included. Operator symbols
	// arrive as strings.
	KindString
	// KindChar is a character literal, quotes included.
	KindChar
	// KindNumber is an abstract literal.
	KindNumber
	KindLParen
	KindRParen
	KindLBracket
	KindRBracket
	KindSemi
	KindColon
	KindComma
	KindDot
	// KindAssign is ":=".
	KindAssign
	// KindArrow is "=>".
	KindArrow
	// KindOther is any delimiter or operator the parser never inspects.
	KindOther
)

// Token is one lexed token. Text is the spelling sliced from the file
// content, with quotes and backslashes kept.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// Keyword reports whether the token spells the given reserved word.
// Basic identifiers compare case-insensitively; extended identifiers
// are never reserved.
func (t Token) Keyword(kw string) bool {
	if t.Kind != KindIdent || len(t.Text) == 0 || t.Text[0] == '\\' {
		return false
	}
	return strings.EqualFold(t.Text, kw)
}
