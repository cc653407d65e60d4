package parse

import (
	"volta/internal/ast"
)

// parseNameList reads `name {, name}` and the closing semicolon.
func (p *parser) parseNameList() []*ast.Name {
	var names []*ast.Name
	for {
		n := p.parseName()
		if n == nil {
			p.skipToSemi()
			return names
		}
		names = append(names, n)
		if !p.eat(KindComma) {
			break
		}
	}
	p.expectSemi()
	return names
}

// parseName reads a possibly selected name. Indexed, sliced and
// attribute forms collapse into NameOther since resolving them needs
// type information.
func (p *parser) parseName() *ast.Name {
	t := p.tok()
	var n *ast.Name
	switch t.Kind {
	case KindIdent:
		p.bump()
		n = ast.SimpleName(ast.Identifier(p.syms.Intern(t.Text)), t.Span)
	case KindString:
		p.bump()
		n = ast.SimpleName(ast.Operator(p.syms.Intern(t.Text)), t.Span)
	default:
		p.errorAt(t, "Expected a name")
		return nil
	}

	for {
		switch {
		case p.eat(KindDot):
			s := p.tok()
			switch {
			case s.Keyword("all"):
				p.bump()
				n = ast.SelectedAllName(n, s.Span)
			case s.Kind == KindIdent, s.Kind == KindChar:
				p.bump()
				n = ast.SelectedName(n, ast.DesignatorRef{
					Designator: ast.Identifier(p.syms.Intern(s.Text)),
					Span:       s.Span,
				})
			case s.Kind == KindString:
				p.bump()
				n = ast.SelectedName(n, ast.DesignatorRef{
					Designator: ast.Operator(p.syms.Intern(s.Text)),
					Span:       s.Span,
				})
			default:
				p.errorAt(s, "Expected a suffix after '.'")
				return n
			}
		case p.at(KindLParen):
			sp := p.skipParens()
			n = &ast.Name{Kind: ast.NameOther, Span: n.Span.Cover(sp)}
		default:
			return n
		}
	}
}
