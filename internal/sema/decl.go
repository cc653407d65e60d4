// Package sema implements the semantic analysis pass: declarative-region
// construction, name resolution across libraries, and the structural
// checks attached to both.
package sema

import (
	"volta/internal/ast"
	"volta/internal/library"
	"volta/internal/source"
)

// DeclKind tags the closed variant stored in AnyDeclaration. Every switch
// over it is meant to be exhaustive; a new kind must visit them all.
type DeclKind uint8

const (
	// DeclLibrary is a library made visible by a library clause.
	DeclLibrary DeclKind = iota
	// DeclPackage is a package primary unit.
	DeclPackage
	// DeclContext is a context declaration.
	DeclContext
	// DeclEntity is an entity primary unit.
	DeclEntity
	// DeclConfiguration is a configuration primary unit.
	DeclConfiguration
	// DeclPackageInstance is an instantiated package primary unit.
	DeclPackageInstance
	// DeclEnum is one enumeration literal.
	DeclEnum
	// DeclInterface is a generic, port or parameter list entry.
	DeclInterface
	// DeclElement is a record element.
	DeclElement
	// DeclOther is any declarative-part item (objects, types,
	// subprograms, aliases, attributes, files, nested packages).
	DeclOther
)

// AnyDeclaration is the closed variant over everything a designator can
// resolve to. Exactly the fields matching Kind are set.
type AnyDeclaration struct {
	Kind DeclKind

	// Library is set for DeclLibrary and DeclPackage.
	Library *library.Library
	// Package is set for DeclPackage.
	Package *library.PackageUnit
	// Context is set for DeclContext.
	Context *ast.ContextDecl
	// Entity is set for DeclEntity.
	Entity *library.EntityUnit
	// Config is set for DeclConfiguration.
	Config *ast.ConfigurationDecl
	// Instance is set for DeclPackageInstance.
	Instance *ast.PackageInstance
	// Enum is set for DeclEnum.
	Enum *ast.EnumLiteral
	// Node is set for DeclOther.
	Node ast.Declaration
}

// VisibleDeclaration binds a designator to a declaration inside a region.
type VisibleDeclaration struct {
	Designator ast.Designator
	Decl       AnyDeclaration
	// DeclPos is the position of the first declaration, used for
	// "Previously defined here" notes. Nil for implicit bindings such
	// as libraries.
	DeclPos *source.Span
	// MayOverload is true for subprograms, aliases with a signature and
	// enumeration literals.
	MayOverload bool
}

// VisibleSet is the result of a lookup: one binding or an overload set.
type VisibleSet struct {
	Designator ast.Designator
	Decls      []VisibleDeclaration
}

// Single returns the binding when the set holds exactly one entry.
func (v VisibleSet) Single() (VisibleDeclaration, bool) {
	if len(v.Decls) == 1 {
		return v.Decls[0], true
	}
	return VisibleDeclaration{}, false
}

func spanPtr(s source.Span) *source.Span {
	return &s
}

// libraryDecl builds the implicit binding a library clause introduces.
func libraryDecl(lib *library.Library) AnyDeclaration {
	return AnyDeclaration{Kind: DeclLibrary, Library: lib}
}

func packageDecl(lib *library.Library, pkg *library.PackageUnit) AnyDeclaration {
	return AnyDeclaration{Kind: DeclPackage, Library: lib, Package: pkg}
}
