package ast

import (
	"volta/internal/source"
)

// ConcurrentStatement is the closed sum over concurrent statement forms.
// Only the forms that open declarative regions carry structure; the rest
// collapse into OtherStatement.
type ConcurrentStatement interface {
	concurrentNode()
}

// BlockStatement opens a nested region with declarations and statements.
type BlockStatement struct {
	Label      Ident
	Decls      []Declaration
	Statements []ConcurrentStatement
}

// ProcessStatement opens a nested region for its declarative part.
type ProcessStatement struct {
	Label Ident
	Decls []Declaration
}

// GenerateBody is the shared body shape of all generate forms.
type GenerateBody struct {
	Decls      []Declaration
	Statements []ConcurrentStatement
}

// ForGenerateStatement is `for ... generate`.
type ForGenerateStatement struct {
	Label Ident
	Body  GenerateBody
}

// IfGenerateStatement is `if ... generate` with optional else branch.
type IfGenerateStatement struct {
	Label        Ident
	Conditionals []GenerateBody
	Else         *GenerateBody
}

// CaseGenerateStatement is `case ... generate`.
type CaseGenerateStatement struct {
	Label        Ident
	Alternatives []GenerateBody
}

// OtherStatement covers instantiations, assignments and assertions, which
// declare nothing.
type OtherStatement struct {
	Span source.Span
}

func (*BlockStatement) concurrentNode()        {}
func (*ProcessStatement) concurrentNode()      {}
func (*ForGenerateStatement) concurrentNode()  {}
func (*IfGenerateStatement) concurrentNode()   {}
func (*CaseGenerateStatement) concurrentNode() {}
func (*OtherStatement) concurrentNode()        {}
