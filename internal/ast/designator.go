package ast

import (
	"volta/internal/source"
	"volta/internal/symbols"
)

// DesignatorKind distinguishes the two forms a declaration can be named by.
type DesignatorKind uint8

const (
	// DesignatorIdentifier is a plain (or extended) identifier.
	DesignatorIdentifier DesignatorKind = iota
	// DesignatorOperator is an operator symbol such as "+" or "and".
	DesignatorOperator
)

// Designator is the lookup key for a declaration. Comparable: two
// designators denote the same name iff they compare equal.
type Designator struct {
	Kind DesignatorKind
	Sym  symbols.Symbol
}

// Identifier builds an identifier designator.
func Identifier(sym symbols.Symbol) Designator {
	return Designator{Kind: DesignatorIdentifier, Sym: sym}
}

// Operator builds an operator-symbol designator.
func Operator(sym symbols.Symbol) Designator {
	return Designator{Kind: DesignatorOperator, Sym: sym}
}

// Ident pairs an identifier symbol with its source position.
type Ident struct {
	Sym  symbols.Symbol
	Span source.Span
}

// DesignatorRef pairs a designator with its source position.
type DesignatorRef struct {
	Designator Designator
	Span       source.Span
}
