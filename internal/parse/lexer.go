package parse

import (
	"fmt"

	"fortio.org/safecast"

	"volta/internal/diag"
	"volta/internal/source"
)

// lexer walks the content of one design file. It never fails: malformed
// input yields KindOther tokens plus a diagnostic, and the parser
// resynchronizes at the next semicolon.
type lexer struct {
	file     *source.File
	off      uint32
	limit    uint32
	reporter diag.Reporter
}

func newLexer(file *source.File, reporter diag.Reporter) *lexer {
	limit, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(fmt.Errorf("file length overflow: %w", err))
	}
	return &lexer{file: file, limit: limit, reporter: reporter}
}

// tokens lexes the whole file, ending with one KindEOF token.
func tokens(file *source.File, reporter diag.Reporter) []Token {
	lx := newLexer(file, reporter)
	var out []Token
	for {
		tok := lx.next()
		out = append(out, tok)
		if tok.Kind == KindEOF {
			return out
		}
	}
}

func (lx *lexer) eof() bool {
	return lx.off >= lx.limit
}

func (lx *lexer) peek() byte {
	if lx.eof() {
		return 0
	}
	return lx.file.Content[lx.off]
}

func (lx *lexer) peekAt(n uint32) byte {
	if lx.off+n >= lx.limit {
		return 0
	}
	return lx.file.Content[lx.off+n]
}

func (lx *lexer) span(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.off}
}

func (lx *lexer) token(kind Kind, start uint32) Token {
	sp := lx.span(start)
	return Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *lexer) next() Token {
	lx.skipTrivia()
	start := lx.off
	if lx.eof() {
		return Token{Kind: KindEOF, Span: lx.span(start)}
	}

	ch := lx.peek()
	switch {
	case isIdentStart(ch):
		return lx.scanIdent(start)
	case ch == '\\':
		return lx.scanExtendedIdent(start)
	case isDigit(ch):
		return lx.scanNumber(start)
	case ch == '"':
		return lx.scanString(start)
	case ch == '\'':
		// A tick is a character literal only when a closing tick follows
		// exactly one payload byte; otherwise it is an attribute mark.
		if lx.peekAt(2) == '\'' {
			lx.off += 3
			return lx.token(KindChar, start)
		}
		lx.off++
		return lx.token(KindOther, start)
	}
	return lx.scanDelimiter(start)
}

// skipTrivia consumes whitespace, `--` line comments and `/* */`
// delimited comments.
func (lx *lexer) skipTrivia() {
	for !lx.eof() {
		switch ch := lx.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f':
			lx.off++
		case ch == '-' && lx.peekAt(1) == '-':
			for !lx.eof() && lx.peek() != '\n' {
				lx.off++
			}
		case ch == '/' && lx.peekAt(1) == '*':
			start := lx.off
			lx.off += 2
			for !lx.eof() {
				if lx.peek() == '*' && lx.peekAt(1) == '/' {
					lx.off += 2
					break
				}
				lx.off++
			}
			if lx.eof() && (lx.off < 2 || lx.file.Content[lx.off-2] != '*' || lx.file.Content[lx.off-1] != '/') {
				lx.reporter.Report(diag.Error(diag.SynUnterminated, lx.span(start),
					"Unterminated delimited comment"))
			}
		default:
			return
		}
	}
}

func (lx *lexer) scanIdent(start uint32) Token {
	for !lx.eof() && isIdentPart(lx.peek()) {
		lx.off++
	}
	return lx.token(KindIdent, start)
}

// scanExtendedIdent reads a backslash-delimited identifier. A doubled
// backslash stands for one backslash inside the name.
func (lx *lexer) scanExtendedIdent(start uint32) Token {
	lx.off++
	for !lx.eof() {
		ch := lx.peek()
		if ch == '\\' {
			lx.off++
			if lx.peek() != '\\' {
				return lx.token(KindIdent, start)
			}
			lx.off++
			continue
		}
		if ch == '\n' {
			break
		}
		lx.off++
	}
	lx.reporter.Report(diag.Error(diag.SynUnterminated, lx.span(start),
		"Unterminated extended identifier"))
	return lx.token(KindIdent, start)
}

// scanNumber consumes an abstract literal loosely: decimal and based
// forms, underscores and exponent letters all fold into one token.
func (lx *lexer) scanNumber(start uint32) Token {
	for !lx.eof() {
		ch := lx.peek()
		if !isIdentPart(ch) && ch != '.' && ch != '#' {
			break
		}
		lx.off++
	}
	return lx.token(KindNumber, start)
}

func (lx *lexer) scanString(start uint32) Token {
	lx.off++
	for !lx.eof() {
		ch := lx.peek()
		if ch == '"' {
			lx.off++
			if lx.peek() != '"' {
				return lx.token(KindString, start)
			}
			lx.off++
			continue
		}
		if ch == '\n' {
			break
		}
		lx.off++
	}
	lx.reporter.Report(diag.Error(diag.SynUnterminated, lx.span(start),
		"Unterminated string literal"))
	return lx.token(KindString, start)
}

func (lx *lexer) scanDelimiter(start uint32) Token {
	ch := lx.peek()
	if ch == ':' && lx.peekAt(1) == '=' {
		lx.off += 2
		return lx.token(KindAssign, start)
	}
	if ch == '=' && lx.peekAt(1) == '>' {
		lx.off += 2
		return lx.token(KindArrow, start)
	}
	lx.off++
	switch ch {
	case '(':
		return lx.token(KindLParen, start)
	case ')':
		return lx.token(KindRParen, start)
	case '[':
		return lx.token(KindLBracket, start)
	case ']':
		return lx.token(KindRBracket, start)
	case ';':
		return lx.token(KindSemi, start)
	case ':':
		return lx.token(KindColon, start)
	case ',':
		return lx.token(KindComma, start)
	case '.':
		return lx.token(KindDot, start)
	}
	return lx.token(KindOther, start)
}

func isIdentStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= 0x80
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
