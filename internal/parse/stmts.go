package parse

import (
	"volta/internal/ast"
)

// parseConcurrentStatements reads statements until `end` or a generate
// branch keyword, leaving the stopper for the caller. Only the forms
// that open declarative regions are modeled; the rest collapse into
// OtherStatement.
func (p *parser) parseConcurrentStatements() []ast.ConcurrentStatement {
	var stmts []ast.ConcurrentStatement
	for !p.at(KindEOF) && !p.atKeyword("end") &&
		!p.atKeyword("elsif") && !p.atKeyword("else") && !p.atKeyword("when") {
		if s := p.parseConcurrentStatement(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func (p *parser) parseConcurrentStatement() ast.ConcurrentStatement {
	var label ast.Ident
	if p.at(KindIdent) && p.lookahead(1).Kind == KindColon {
		t := p.bump()
		p.bump()
		label = ast.Ident{Sym: p.syms.Intern(t.Text), Span: t.Span}
	}

	switch {
	case p.eatKeyword("block"):
		return p.parseBlock(label)
	case p.atKeyword("process") || p.atKeyword("postponed"):
		p.eatKeyword("postponed")
		p.expectKeyword("process")
		return p.parseProcess(label)
	case p.eatKeyword("for"):
		return p.parseForGenerate(label)
	case p.eatKeyword("if"):
		return p.parseIfGenerate(label)
	case p.eatKeyword("case"):
		return p.parseCaseGenerate(label)
	default:
		// Instantiations, assignments, assertions and procedure calls
		// declare nothing.
		return &ast.OtherStatement{Span: p.skipToSemi()}
	}
}

func (p *parser) parseBlock(label ast.Ident) ast.ConcurrentStatement {
	if p.at(KindLParen) {
		// Guard condition.
		p.skipParens()
	}
	p.eatKeyword("is")
	b := &ast.BlockStatement{Label: label}
	b.Decls = p.parseDeclarativePart()
	p.expectKeyword("begin")
	b.Statements = p.parseConcurrentStatements()
	p.expectKeyword("end")
	p.skipToSemi()
	return b
}

func (p *parser) parseProcess(label ast.Ident) ast.ConcurrentStatement {
	if p.at(KindLParen) {
		// Sensitivity list.
		p.skipParens()
	}
	p.eatKeyword("is")
	proc := &ast.ProcessStatement{Label: label}
	proc.Decls = p.parseDeclarativePart()
	p.expectKeyword("begin")
	p.skipSequentialStatements()
	p.expectKeyword("end")
	p.skipToSemi()
	return proc
}

func (p *parser) parseForGenerate(label ast.Ident) ast.ConcurrentStatement {
	p.skipToGenerate()
	body := p.parseGenerateBody()
	p.expectKeyword("end")
	p.skipToSemi()
	return &ast.ForGenerateStatement{Label: label, Body: body}
}

func (p *parser) parseIfGenerate(label ast.Ident) ast.ConcurrentStatement {
	stmt := &ast.IfGenerateStatement{Label: label}
	for {
		p.skipToGenerate()
		stmt.Conditionals = append(stmt.Conditionals, p.parseGenerateBody())
		if !p.eatKeyword("elsif") {
			break
		}
	}
	if p.eatKeyword("else") {
		p.skipToGenerate()
		body := p.parseGenerateBody()
		stmt.Else = &body
	}
	p.expectKeyword("end")
	p.skipToSemi()
	return stmt
}

func (p *parser) parseCaseGenerate(label ast.Ident) ast.ConcurrentStatement {
	p.skipToGenerate()
	stmt := &ast.CaseGenerateStatement{Label: label}
	for p.eatKeyword("when") {
		for !p.at(KindEOF) && !p.at(KindArrow) {
			p.bump()
		}
		p.eat(KindArrow)
		stmt.Alternatives = append(stmt.Alternatives, p.parseGenerateBody())
	}
	p.expectKeyword("end")
	p.skipToSemi()
	return stmt
}

// skipToGenerate consumes the iteration scheme or condition in front of
// a `generate` keyword.
func (p *parser) skipToGenerate() {
	for !p.at(KindEOF) && !p.atKeyword("generate") {
		p.bump()
	}
	p.expectKeyword("generate")
}

// parseGenerateBody reads one generate branch. The branch has a
// declarative part exactly when a `begin` separates it from the
// statements.
func (p *parser) parseGenerateBody() ast.GenerateBody {
	var body ast.GenerateBody
	if p.atKeyword("begin") || p.atDeclStart() {
		body.Decls = p.parseDeclarativePart()
		p.expectKeyword("begin")
	}
	body.Statements = p.parseConcurrentStatements()
	return body
}

// skipSequentialStatements consumes a statement part without modeling
// it. if, case and loop open nested `end`s; the unmatched `end` closing
// the enclosing body is left for the caller.
func (p *parser) skipSequentialStatements() {
	depth := 0
	for !p.at(KindEOF) {
		t := p.tok()
		switch {
		case t.Keyword("if") || t.Keyword("case") || t.Keyword("loop"):
			depth++
			p.bump()
		case t.Keyword("end"):
			if depth == 0 {
				return
			}
			depth--
			p.bump()
			p.bump()
		default:
			p.bump()
		}
	}
}
