// Package parse turns VHDL source text into the design units the
// analyzer consumes. The declarative skeleton is parsed precisely;
// expressions, subtype indications and sequential statements are
// skipped, so a broken statement body does not hide name-level
// problems. The parser is tolerant: it reports what it cannot follow
// and resynchronizes at the next semicolon, so a parse always yields a
// DesignFile.
package parse

import (
	"fmt"

	"volta/internal/ast"
	"volta/internal/diag"
	"volta/internal/source"
	"volta/internal/symbols"
)

type parser struct {
	syms     *symbols.Table
	reporter diag.Reporter
	toks     []Token
	pos      int
}

// File parses one design file.
func File(file *source.File, syms *symbols.Table, reporter diag.Reporter) *ast.DesignFile {
	p := &parser{syms: syms, reporter: reporter, toks: tokens(file, reporter)}
	return p.parseFile()
}

func (p *parser) tok() Token {
	return p.toks[p.pos]
}

// lookahead peeks n tokens past the cursor, saturating at EOF.
func (p *parser) lookahead(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) at(kind Kind) bool {
	return p.tok().Kind == kind
}

func (p *parser) atKeyword(kw string) bool {
	return p.tok().Keyword(kw)
}

func (p *parser) bump() Token {
	t := p.toks[p.pos]
	if t.Kind != KindEOF {
		p.pos++
	}
	return t
}

func (p *parser) eat(kind Kind) bool {
	if p.at(kind) {
		p.bump()
		return true
	}
	return false
}

func (p *parser) eatKeyword(kw string) bool {
	if p.atKeyword(kw) {
		p.bump()
		return true
	}
	return false
}

func (p *parser) errorAt(t Token, msg string) {
	p.reporter.Report(diag.Error(diag.SynUnexpectedToken, t.Span, msg))
}

func (p *parser) expectKeyword(kw string) {
	if !p.eatKeyword(kw) {
		p.errorAt(p.tok(), fmt.Sprintf("Expected '%s'", kw))
	}
}

func (p *parser) expectSemi() {
	if !p.eat(KindSemi) {
		p.errorAt(p.tok(), "Expected ';'")
		p.skipToSemi()
	}
}

// skipToSemi consumes through the next semicolon outside parentheses
// and returns the span it covered. Interface lists keep semicolons
// inside their parentheses, so the depth tracking matters.
func (p *parser) skipToSemi() source.Span {
	sp := p.tok().Span
	depth := 0
	for !p.at(KindEOF) {
		t := p.tok()
		switch t.Kind {
		case KindLParen:
			depth++
		case KindRParen:
			if depth > 0 {
				depth--
			}
		case KindSemi:
			if depth == 0 {
				p.bump()
				return sp.Cover(t.Span)
			}
		}
		sp = sp.Cover(t.Span)
		p.bump()
	}
	return sp
}

// skipParens consumes one balanced parenthesis group and returns its span.
func (p *parser) skipParens() source.Span {
	sp := p.tok().Span
	depth := 0
	for !p.at(KindEOF) {
		t := p.tok()
		switch t.Kind {
		case KindLParen:
			depth++
		case KindRParen:
			depth--
			if depth <= 0 {
				p.bump()
				return sp.Cover(t.Span)
			}
		}
		p.bump()
	}
	return sp
}

func (p *parser) parseIdent() (ast.Ident, bool) {
	t := p.tok()
	if t.Kind != KindIdent {
		p.errorAt(t, "Expected an identifier")
		return ast.Ident{}, false
	}
	p.bump()
	return ast.Ident{Sym: p.syms.Intern(t.Text), Span: t.Span}, true
}

// parseIdentList reads `id {, id}` and stops at the first token that
// continues neither form.
func (p *parser) parseIdentList() []ast.Ident {
	var out []ast.Ident
	for {
		id, ok := p.parseIdent()
		if !ok {
			return out
		}
		out = append(out, id)
		if !p.eat(KindComma) {
			return out
		}
	}
}

// parseDesignator reads a subprogram or alias designator: an
// identifier, an operator symbol or a character literal.
func (p *parser) parseDesignator() (ast.DesignatorRef, bool) {
	t := p.tok()
	switch t.Kind {
	case KindIdent, KindChar:
		p.bump()
		return ast.DesignatorRef{Designator: ast.Identifier(p.syms.Intern(t.Text)), Span: t.Span}, true
	case KindString:
		p.bump()
		return ast.DesignatorRef{Designator: ast.Operator(p.syms.Intern(t.Text)), Span: t.Span}, true
	}
	p.errorAt(t, "Expected a designator")
	return ast.DesignatorRef{}, false
}

func (p *parser) parseFile() *ast.DesignFile {
	df := &ast.DesignFile{}
	for !p.at(KindEOF) {
		clause := p.parseContextClause()
		if p.at(KindEOF) {
			if len(clause) > 0 {
				p.errorAt(p.tok(), "Expected a design unit after the context clause")
			}
			break
		}
		if unit := p.parseDesignUnit(clause); unit != nil {
			df.Units = append(df.Units, unit)
		}
	}
	return df
}

// parseContextClause reads the library, use and context-reference items
// preceding a design unit. A `context id is` opener belongs to a
// context declaration and ends the clause.
func (p *parser) parseContextClause() []ast.ContextItem {
	var items []ast.ContextItem
	for {
		switch {
		case p.atKeyword("library"):
			p.bump()
			idents := p.parseIdentList()
			p.expectSemi()
			item := ast.ContextItem{Kind: ast.ContextItemLibrary, Libraries: idents}
			if len(idents) > 0 {
				item.Span = idents[0].Span
			}
			items = append(items, item)
		case p.atKeyword("use"):
			p.bump()
			names := p.parseNameList()
			item := ast.ContextItem{Kind: ast.ContextItemUse, Names: names}
			if len(names) > 0 {
				item.Span = names[0].Span
			}
			items = append(items, item)
		case p.atKeyword("context"):
			if p.lookahead(1).Kind == KindIdent && p.lookahead(2).Keyword("is") {
				return items
			}
			p.bump()
			names := p.parseNameList()
			item := ast.ContextItem{Kind: ast.ContextItemReference, Names: names}
			if len(names) > 0 {
				item.Span = names[0].Span
			}
			items = append(items, item)
		default:
			return items
		}
	}
}

func (p *parser) parseDesignUnit(clause []ast.ContextItem) ast.DesignUnit {
	switch {
	case p.eatKeyword("entity"):
		return p.parseEntity(clause)
	case p.eatKeyword("architecture"):
		return p.parseArchitecture(clause)
	case p.eatKeyword("package"):
		return p.parsePackage(clause)
	case p.eatKeyword("configuration"):
		return p.parseConfiguration(clause)
	case p.atKeyword("context"):
		p.bump()
		if len(clause) > 0 {
			p.errorAt(p.tok(), "A context declaration cannot have a context clause")
		}
		return p.parseContextDecl()
	default:
		p.errorAt(p.tok(), "Expected a design unit")
		p.skipToSemi()
		return nil
	}
}

func (p *parser) parseEntity(clause []ast.ContextItem) ast.DesignUnit {
	id, ok := p.parseIdent()
	if !ok {
		p.skipToSemi()
		return nil
	}
	p.expectKeyword("is")
	e := &ast.EntityDecl{ContextClause: clause, Ident: id}
	if p.eatKeyword("generic") {
		e.Generics = p.parseInterfaceList()
		p.expectSemi()
	}
	if p.eatKeyword("port") {
		e.Ports = p.parseInterfaceList()
		p.expectSemi()
	}
	e.Decls = p.parseDeclarativePart()
	if p.eatKeyword("begin") {
		e.Statements = p.parseConcurrentStatements()
	}
	p.expectKeyword("end")
	p.skipToSemi()
	return e
}

func (p *parser) parseArchitecture(clause []ast.ContextItem) ast.DesignUnit {
	id, ok := p.parseIdent()
	if !ok {
		p.skipToSemi()
		return nil
	}
	p.expectKeyword("of")
	entityName, ok := p.parseIdent()
	if !ok {
		p.skipToSemi()
		return nil
	}
	p.expectKeyword("is")
	a := &ast.ArchitectureBody{ContextClause: clause, Ident: id, EntityName: entityName}
	a.Decls = p.parseDeclarativePart()
	p.expectKeyword("begin")
	a.Statements = p.parseConcurrentStatements()
	p.expectKeyword("end")
	p.skipToSemi()
	return a
}

func (p *parser) parsePackage(clause []ast.ContextItem) ast.DesignUnit {
	if p.eatKeyword("body") {
		id, ok := p.parseIdent()
		if !ok {
			p.skipToSemi()
			return nil
		}
		p.expectKeyword("is")
		b := &ast.PackageBody{ContextClause: clause, Ident: id}
		b.Decls = p.parseDeclarativePart()
		p.expectKeyword("end")
		p.skipToSemi()
		return b
	}

	id, ok := p.parseIdent()
	if !ok {
		p.skipToSemi()
		return nil
	}
	p.expectKeyword("is")
	if p.eatKeyword("new") {
		inst := &ast.PackageInstance{ContextClause: clause, Ident: id}
		inst.PackageName = p.parseName()
		// Trailing generic map aspect.
		p.skipToSemi()
		return inst
	}
	pkg := &ast.PackageDecl{ContextClause: clause, Ident: id}
	if p.eatKeyword("generic") {
		pkg.Generics = p.parseInterfaceList()
		p.expectSemi()
	}
	pkg.Decls = p.parseDeclarativePart()
	p.expectKeyword("end")
	p.skipToSemi()
	return pkg
}

// parseConfiguration keeps the header and skips the block configuration
// wholesale; `for ... end for;` pairs nest.
func (p *parser) parseConfiguration(clause []ast.ContextItem) ast.DesignUnit {
	id, ok := p.parseIdent()
	if !ok {
		p.skipToSemi()
		return nil
	}
	p.expectKeyword("of")
	entityName, ok := p.parseIdent()
	if !ok {
		p.skipToSemi()
		return nil
	}
	p.expectKeyword("is")

	depth := 0
	for !p.at(KindEOF) {
		switch {
		case p.atKeyword("for"):
			depth++
			p.bump()
		case p.atKeyword("end") && depth > 0 && p.lookahead(1).Keyword("for"):
			depth--
			p.bump()
			p.bump()
		case p.atKeyword("end") && depth == 0:
			p.bump()
			p.skipToSemi()
			return &ast.ConfigurationDecl{ContextClause: clause, Ident: id, EntityName: entityName}
		default:
			p.bump()
		}
	}
	p.errorAt(p.tok(), "Expected 'end'")
	return &ast.ConfigurationDecl{ContextClause: clause, Ident: id, EntityName: entityName}
}

func (p *parser) parseContextDecl() ast.DesignUnit {
	id, ok := p.parseIdent()
	if !ok {
		p.skipToSemi()
		return nil
	}
	p.expectKeyword("is")
	d := &ast.ContextDecl{Ident: id, Items: p.parseContextClause()}
	p.expectKeyword("end")
	p.skipToSemi()
	return d
}
