package ast

import (
	"volta/internal/source"
)

// NameKind classifies name syntax. The analyzer resolves only selected
// names; everything else is NameOther and conservatively skipped.
type NameKind uint8

const (
	// NameDesignator is a simple name or operator symbol.
	NameDesignator NameKind = iota
	// NameSelected is prefix.suffix.
	NameSelected
	// NameSelectedAll is prefix.all.
	NameSelectedAll
	// NameOther covers indexed, sliced, attribute and call names, which
	// need type information to resolve.
	NameOther
)

// Name is one node of a (possibly selected) name.
type Name struct {
	Kind NameKind
	Span source.Span

	// Designator is set for NameDesignator.
	Designator Designator
	// Prefix is set for NameSelected and NameSelectedAll.
	Prefix *Name
	// Suffix is set for NameSelected.
	Suffix DesignatorRef
}

// SimpleName builds a NameDesignator node.
func SimpleName(d Designator, span source.Span) *Name {
	return &Name{Kind: NameDesignator, Span: span, Designator: d}
}

// SelectedName builds prefix.suffix, covering both spans.
func SelectedName(prefix *Name, suffix DesignatorRef) *Name {
	return &Name{
		Kind:   NameSelected,
		Span:   prefix.Span.Cover(suffix.Span),
		Prefix: prefix,
		Suffix: suffix,
	}
}

// SelectedAllName builds prefix.all.
func SelectedAllName(prefix *Name, span source.Span) *Name {
	return &Name{Kind: NameSelectedAll, Span: prefix.Span.Cover(span), Prefix: prefix}
}

// IsSelected reports whether the name is in selected form, which is the
// only form use clauses and context references accept.
func (n *Name) IsSelected() bool {
	return n.Kind == NameSelected || n.Kind == NameSelectedAll
}
