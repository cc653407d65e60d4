package parse

import (
	"volta/internal/ast"
)

// declKeywords are the words that can open a declaration. A generate
// body is declarative exactly when it starts with one of them.
var declKeywords = []string{
	"constant", "signal", "variable", "shared", "file",
	"type", "subtype", "component", "attribute", "alias",
	"function", "procedure", "pure", "impure",
	"use", "package", "for", "group", "disconnect",
}

func (p *parser) atDeclStart() bool {
	for _, kw := range declKeywords {
		if p.atKeyword(kw) {
			return true
		}
	}
	return false
}

// parseDeclarativePart reads declarations until `begin`, `end` or the
// end of input, leaving the stopper for the caller.
func (p *parser) parseDeclarativePart() []ast.Declaration {
	var decls []ast.Declaration
	add := func(d ast.Declaration) {
		if d != nil {
			decls = append(decls, d)
		}
	}
	for {
		switch {
		case p.at(KindEOF) || p.atKeyword("end") || p.atKeyword("begin"):
			return decls
		case p.eatKeyword("constant"):
			decls = append(decls, p.parseObjects(ast.ClassConstant)...)
		case p.eatKeyword("signal"):
			decls = append(decls, p.parseObjects(ast.ClassSignal)...)
		case p.eatKeyword("variable"):
			decls = append(decls, p.parseObjects(ast.ClassVariable)...)
		case p.eatKeyword("shared"):
			p.expectKeyword("variable")
			decls = append(decls, p.parseObjects(ast.ClassSharedVariable)...)
		case p.eatKeyword("file"):
			decls = append(decls, p.parseFiles()...)
		case p.eatKeyword("type"):
			add(p.parseTypeDecl())
		case p.eatKeyword("subtype"):
			add(p.parseSubtypeDecl())
		case p.eatKeyword("component"):
			add(p.parseComponent())
		case p.eatKeyword("attribute"):
			add(p.parseAttribute())
		case p.eatKeyword("alias"):
			add(p.parseAlias())
		case p.atKeyword("function") || p.atKeyword("procedure") ||
			p.atKeyword("pure") || p.atKeyword("impure"):
			add(p.parseSubprogram())
		case p.eatKeyword("use"):
			add(p.parseUseClause())
		case p.eatKeyword("package"):
			add(p.parseNestedPackage())
		case p.atKeyword("for"):
			sp := p.skipToSemi()
			add(&ast.ConfigurationSpec{Span: sp})
		case p.atKeyword("generic") || p.atKeyword("port") ||
			p.atKeyword("group") || p.atKeyword("disconnect"):
			// Block headers and specifications that declare no names.
			p.skipToSemi()
		default:
			p.errorAt(p.tok(), "Unexpected token in declarative part")
			p.skipToSemi()
		}
	}
}

// finishDecl consumes the rest of a declaration through its semicolon
// and reports whether a `:=` default appeared outside parentheses.
func (p *parser) finishDecl() bool {
	hasInit := false
	depth := 0
	for !p.at(KindEOF) {
		switch p.tok().Kind {
		case KindLParen:
			depth++
		case KindRParen:
			if depth > 0 {
				depth--
			}
		case KindAssign:
			if depth == 0 {
				hasInit = true
			}
		case KindSemi:
			if depth == 0 {
				p.bump()
				return hasInit
			}
		}
		p.bump()
	}
	return hasInit
}

// parseObjects finishes an object declaration after its class keyword.
// The identifier list expands into one declaration per name; a constant
// without a default stays deferred.
func (p *parser) parseObjects(class ast.ObjectClass) []ast.Declaration {
	idents := p.parseIdentList()
	hasInit := p.finishDecl()
	decls := make([]ast.Declaration, 0, len(idents))
	for _, id := range idents {
		decls = append(decls, &ast.ObjectDecl{Class: class, Ident: id, HasInit: hasInit})
	}
	return decls
}

func (p *parser) parseFiles() []ast.Declaration {
	idents := p.parseIdentList()
	p.finishDecl()
	decls := make([]ast.Declaration, 0, len(idents))
	for _, id := range idents {
		decls = append(decls, &ast.FileDecl{Ident: id})
	}
	return decls
}

func (p *parser) parseTypeDecl() ast.Declaration {
	id, ok := p.parseIdent()
	if !ok {
		p.skipToSemi()
		return nil
	}
	if p.eat(KindSemi) {
		return &ast.TypeDecl{Ident: id, Def: &ast.IncompleteDef{}}
	}
	p.expectKeyword("is")
	switch {
	case p.at(KindLParen):
		def := p.parseEnumerationDef()
		p.expectSemi()
		return &ast.TypeDecl{Ident: id, Def: def}
	case p.eatKeyword("record"):
		return &ast.TypeDecl{Ident: id, Def: p.parseRecordDef()}
	case p.eatKeyword("protected"):
		if p.eatKeyword("body") {
			decls := p.parseDeclarativePart()
			p.expectKeyword("end")
			p.skipToSemi()
			return &ast.TypeDecl{Ident: id, Def: &ast.ProtectedBodyDef{Decls: decls}}
		}
		return &ast.TypeDecl{Ident: id, Def: p.parseProtectedDef()}
	default:
		// Scalar, array, access, file and physical definitions all
		// collapse into ScalarDef.
		p.skipTypeDefinitionTail()
		return &ast.TypeDecl{Ident: id, Def: &ast.ScalarDef{}}
	}
}

// A subtype introduces a non-overloadable name and nothing else the
// analyzer cares about, so it lands on the same node as a full type.
func (p *parser) parseSubtypeDecl() ast.Declaration {
	id, ok := p.parseIdent()
	if !ok {
		p.skipToSemi()
		return nil
	}
	p.finishDecl()
	return &ast.TypeDecl{Ident: id, Def: &ast.ScalarDef{}}
}

// skipTypeDefinitionTail consumes a definition the parser does not
// model. A physical type carries semicolons between its unit
// declarations, so `units ... end units` is skipped as a block.
func (p *parser) skipTypeDefinitionTail() {
	depth := 0
	for !p.at(KindEOF) {
		t := p.tok()
		switch {
		case t.Kind == KindLParen:
			depth++
		case t.Kind == KindRParen:
			if depth > 0 {
				depth--
			}
		case t.Kind == KindSemi && depth == 0:
			p.bump()
			return
		case t.Keyword("units") && depth == 0:
			for !p.at(KindEOF) && !p.atKeyword("end") {
				p.bump()
			}
			p.skipToSemi()
			return
		}
		p.bump()
	}
}

func (p *parser) parseEnumerationDef() *ast.EnumerationDef {
	def := &ast.EnumerationDef{}
	p.eat(KindLParen)
	for !p.at(KindEOF) && !p.at(KindRParen) {
		t := p.tok()
		if t.Kind != KindIdent && t.Kind != KindChar {
			p.errorAt(t, "Expected an enumeration literal")
			p.bump()
			continue
		}
		p.bump()
		def.Literals = append(def.Literals, ast.EnumLiteral{Designator: ast.DesignatorRef{
			Designator: ast.Identifier(p.syms.Intern(t.Text)),
			Span:       t.Span,
		}})
		if !p.eat(KindComma) {
			break
		}
	}
	if !p.eat(KindRParen) {
		p.errorAt(p.tok(), "Expected ')'")
	}
	return def
}

func (p *parser) parseRecordDef() *ast.RecordDef {
	def := &ast.RecordDef{}
	for !p.at(KindEOF) && !p.atKeyword("end") {
		idents := p.parseIdentList()
		p.finishDecl()
		for _, id := range idents {
			def.Elements = append(def.Elements, ast.ElementDecl{Ident: id})
		}
	}
	p.expectKeyword("end")
	p.skipToSemi()
	return def
}

func (p *parser) parseProtectedDef() *ast.ProtectedDef {
	def := &ast.ProtectedDef{}
	for !p.at(KindEOF) && !p.atKeyword("end") {
		switch {
		case p.atKeyword("function") || p.atKeyword("procedure") ||
			p.atKeyword("pure") || p.atKeyword("impure"):
			if d := p.parseSubprogram(); d != nil {
				if spec, ok := d.(*ast.SubprogramDecl); ok {
					def.Subprograms = append(def.Subprograms, *spec)
				}
			}
		default:
			// Attribute and use entries declare nothing visible outside.
			p.skipToSemi()
		}
	}
	p.expectKeyword("end")
	p.skipToSemi()
	return def
}

func (p *parser) parseComponent() ast.Declaration {
	id, ok := p.parseIdent()
	if !ok {
		p.skipToSemi()
		return nil
	}
	p.eatKeyword("is")
	comp := &ast.ComponentDecl{Ident: id}
	if p.eatKeyword("generic") {
		comp.Generics = p.parseInterfaceList()
		p.expectSemi()
	}
	if p.eatKeyword("port") {
		comp.Ports = p.parseInterfaceList()
		p.expectSemi()
	}
	p.expectKeyword("end")
	p.skipToSemi()
	return comp
}

func (p *parser) parseAttribute() ast.Declaration {
	id, ok := p.parseIdent()
	if !ok {
		p.skipToSemi()
		return nil
	}
	if p.atKeyword("of") {
		// An attribute specification decorates existing names.
		sp := id.Span.Cover(p.skipToSemi())
		return &ast.AttributeSpec{Span: sp}
	}
	p.finishDecl()
	return &ast.AttributeDecl{Ident: id}
}

func (p *parser) parseAlias() ast.Declaration {
	des, ok := p.parseDesignator()
	if !ok {
		p.skipToSemi()
		return nil
	}
	hasSig := false
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
		case KindLBracket:
			// A signature makes the alias overloadable.
			if depth == 0 {
				hasSig = true
			}
		case KindSemi:
			if depth == 0 {
				p.bump()
				return &ast.AliasDecl{Designator: des, HasSignature: hasSig}
			}
		}
		p.bump()
	}
	return &ast.AliasDecl{Designator: des, HasSignature: hasSig}
}

// parseSubprogram reads a declaration or a body after the optional
// purity keyword. Parameters may be wrapped in the 2008 `parameter`
// keyword; a function's return clause is skipped.
func (p *parser) parseSubprogram() ast.Declaration {
	p.eatKeyword("pure")
	p.eatKeyword("impure")
	isFunc := p.atKeyword("function")
	p.bump()
	des, ok := p.parseDesignator()
	if !ok {
		p.skipToSemi()
		return nil
	}
	spec := ast.SubprogramDecl{Designator: des}
	p.eatKeyword("parameter")
	if p.at(KindLParen) {
		spec.Params = p.parseInterfaceList()
	}
	if isFunc {
		for !p.at(KindEOF) && !p.at(KindSemi) && !p.atKeyword("is") {
			p.bump()
		}
	}
	if p.eat(KindSemi) {
		return &spec
	}
	p.expectKeyword("is")
	decls := p.parseDeclarativePart()
	p.expectKeyword("begin")
	p.skipSequentialStatements()
	p.expectKeyword("end")
	p.skipToSemi()
	return &ast.SubprogramBody{Spec: spec, Decls: decls}
}

func (p *parser) parseUseClause() ast.Declaration {
	names := p.parseNameList()
	u := &ast.UseClauseDecl{Names: names}
	if len(names) > 0 {
		u.Span = names[0].Span
	}
	return u
}

// parseNestedPackage handles `package id is new ...` instantiations.
// A nested uninstantiated package is parsed for its structure but
// declares nothing the analyzer tracks across the boundary.
func (p *parser) parseNestedPackage() ast.Declaration {
	p.eatKeyword("body")
	id, ok := p.parseIdent()
	if !ok {
		p.skipToSemi()
		return nil
	}
	p.expectKeyword("is")
	if p.eatKeyword("new") {
		p.skipToSemi()
		return &ast.NestedPackageInstance{Ident: id}
	}
	if p.eatKeyword("generic") {
		p.parseInterfaceList()
		p.expectSemi()
	}
	p.parseDeclarativePart()
	p.expectKeyword("end")
	p.skipToSemi()
	return &ast.NestedPackageInstance{Ident: id}
}

// parseInterfaceList reads `( entry ; entry ... )` for a generic, port
// or parameter list. Identifier lists expand entry-wise.
func (p *parser) parseInterfaceList() []ast.InterfaceDecl {
	var out []ast.InterfaceDecl
	if !p.eat(KindLParen) {
		p.errorAt(p.tok(), "Expected '('")
		return out
	}
	for !p.at(KindEOF) && !p.at(KindRParen) {
		out = append(out, p.parseInterfaceEntry()...)
		if !p.eat(KindSemi) {
			break
		}
	}
	if !p.eat(KindRParen) {
		p.errorAt(p.tok(), "Expected ')'")
	}
	return out
}

func (p *parser) parseInterfaceEntry() []ast.InterfaceDecl {
	switch {
	case p.eatKeyword("type"):
		id, ok := p.parseIdent()
		p.skipInterfaceEntry()
		if !ok {
			return nil
		}
		return []ast.InterfaceDecl{{Kind: ast.InterfaceType, Ident: id}}
	case p.atKeyword("function") || p.atKeyword("procedure") ||
		p.atKeyword("pure") || p.atKeyword("impure"):
		p.eatKeyword("pure")
		p.eatKeyword("impure")
		p.bump()
		t := p.tok()
		if t.Kind != KindIdent && t.Kind != KindString {
			p.errorAt(t, "Expected a designator")
			p.skipInterfaceEntry()
			return nil
		}
		p.bump()
		p.skipInterfaceEntry()
		return []ast.InterfaceDecl{{
			Kind:  ast.InterfaceSubprogram,
			Ident: ast.Ident{Sym: p.syms.Intern(t.Text), Span: t.Span},
		}}
	case p.eatKeyword("package"):
		id, ok := p.parseIdent()
		p.skipInterfaceEntry()
		if !ok {
			return nil
		}
		return []ast.InterfaceDecl{{Kind: ast.InterfacePackage, Ident: id}}
	case p.eatKeyword("file"):
		idents := p.parseIdentList()
		p.skipInterfaceEntry()
		out := make([]ast.InterfaceDecl, 0, len(idents))
		for _, id := range idents {
			out = append(out, ast.InterfaceDecl{Kind: ast.InterfaceFile, Ident: id})
		}
		return out
	default:
		p.eatKeyword("constant")
		p.eatKeyword("signal")
		p.eatKeyword("variable")
		idents := p.parseIdentList()
		p.skipInterfaceEntry()
		out := make([]ast.InterfaceDecl, 0, len(idents))
		for _, id := range idents {
			out = append(out, ast.InterfaceDecl{Kind: ast.InterfaceObject, Ident: id})
		}
		return out
	}
}

// skipInterfaceEntry consumes to the `;` or `)` closing the current
// entry, without eating the terminator.
func (p *parser) skipInterfaceEntry() {
	depth := 0
	for !p.at(KindEOF) {
		switch p.tok().Kind {
		case KindLParen:
			depth++
		case KindRParen:
			if depth == 0 {
				return
			}
			depth--
		case KindSemi:
			if depth == 0 {
				return
			}
		}
		p.bump()
	}
}
