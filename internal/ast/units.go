package ast

import (
	"volta/internal/source"
)

// ContextItemKind classifies context clause items.
type ContextItemKind uint8

const (
	// ContextItemLibrary is a `library lib1, lib2;` clause.
	ContextItemLibrary ContextItemKind = iota
	// ContextItemUse is a `use ...;` clause.
	ContextItemUse
	// ContextItemReference is a `context lib.ctx;` reference.
	ContextItemReference
)

// ContextItem is one item of a context clause (or of a context declaration).
type ContextItem struct {
	Kind ContextItemKind
	Span source.Span

	// Libraries is set for ContextItemLibrary.
	Libraries []Ident
	// Names is set for ContextItemUse and ContextItemReference.
	Names []*Name
}

// DesignUnit is the closed sum over parsed design units.
type DesignUnit interface {
	designUnitNode()
}

// EntityDecl is a primary unit with generics, ports, declarations and
// concurrent statements.
type EntityDecl struct {
	ContextClause []ContextItem
	Ident         Ident
	Generics      []InterfaceDecl
	Ports         []InterfaceDecl
	Decls         []Declaration
	Statements    []ConcurrentStatement
}

// ArchitectureBody is a secondary unit extending an entity.
type ArchitectureBody struct {
	ContextClause []ContextItem
	Ident         Ident
	EntityName    Ident
	Decls         []Declaration
	Statements    []ConcurrentStatement
}

// PackageDecl is a primary unit; Generics is non-nil only for VHDL-2008
// generic packages.
type PackageDecl struct {
	ContextClause []ContextItem
	Ident         Ident
	Generics      []InterfaceDecl
	Decls         []Declaration
}

// PackageBody is the secondary unit of a package.
type PackageBody struct {
	ContextClause []ContextItem
	Ident         Ident
	Decls         []Declaration
}

// PackageInstance is a primary unit instantiating a generic package.
type PackageInstance struct {
	ContextClause []ContextItem
	Ident         Ident
	PackageName   *Name
}

// ConfigurationDecl is a primary unit configuring an entity.
type ConfigurationDecl struct {
	ContextClause []ContextItem
	Ident         Ident
	EntityName    Ident
}

// ContextDecl is a reusable named bundle of context items.
type ContextDecl struct {
	Ident Ident
	Items []ContextItem
}

func (*EntityDecl) designUnitNode()        {}
func (*ArchitectureBody) designUnitNode()  {}
func (*PackageDecl) designUnitNode()       {}
func (*PackageBody) designUnitNode()       {}
func (*PackageInstance) designUnitNode()   {}
func (*ConfigurationDecl) designUnitNode() {}
func (*ContextDecl) designUnitNode()       {}

// DesignFile is the parse result of one source file, in source order.
type DesignFile struct {
	Units []DesignUnit
}
