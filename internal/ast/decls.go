package ast

import (
	"volta/internal/source"
)

// ObjectClass distinguishes object declarations.
type ObjectClass uint8

const (
	ClassConstant ObjectClass = iota
	ClassSignal
	ClassVariable
	ClassSharedVariable
)

// Declaration is the closed sum over everything a declarative part may
// contain. Adding a variant forces every consumer switch to be revisited.
type Declaration interface {
	declNode()
}

// ObjectDecl declares a constant, signal or variable. A constant without
// an initial value is a deferred constant.
type ObjectDecl struct {
	Class   ObjectClass
	Ident   Ident
	HasInit bool
}

// FileDecl declares a file object.
type FileDecl struct {
	Ident Ident
}

// TypeDecl declares a named type; Def tells which definition form.
type TypeDecl struct {
	Ident Ident
	Def   TypeDefinition
}

// ComponentDecl declares a component with its own generic and port lists.
type ComponentDecl struct {
	Ident    Ident
	Generics []InterfaceDecl
	Ports    []InterfaceDecl
}

// AttributeDecl declares a user attribute.
type AttributeDecl struct {
	Ident Ident
}

// AttributeSpec attaches an attribute to entities; it names nothing new.
type AttributeSpec struct {
	Span source.Span
}

// AliasDecl renames an existing entity. An alias with a subprogram
// signature is overloadable.
type AliasDecl struct {
	Designator   DesignatorRef
	HasSignature bool
}

// SubprogramDecl is a function or procedure declaration.
type SubprogramDecl struct {
	Designator DesignatorRef
	Params     []InterfaceDecl
}

// SubprogramBody carries the specification plus a nested declarative part.
type SubprogramBody struct {
	Spec  SubprogramDecl
	Decls []Declaration
}

// UseClauseDecl is a use clause appearing inside a declarative part.
type UseClauseDecl struct {
	Span  source.Span
	Names []*Name
}

// NestedPackageInstance is a `package x is new ...` inside a declarative part.
type NestedPackageInstance struct {
	Ident Ident
}

// ConfigurationSpec is a configuration specification; it names nothing.
type ConfigurationSpec struct {
	Span source.Span
}

func (*ObjectDecl) declNode()            {}
func (*FileDecl) declNode()              {}
func (*TypeDecl) declNode()              {}
func (*ComponentDecl) declNode()         {}
func (*AttributeDecl) declNode()         {}
func (*AttributeSpec) declNode()         {}
func (*AliasDecl) declNode()             {}
func (*SubprogramDecl) declNode()        {}
func (*SubprogramBody) declNode()        {}
func (*UseClauseDecl) declNode()         {}
func (*NestedPackageInstance) declNode() {}
func (*ConfigurationSpec) declNode()     {}

// TypeDefinition is the closed sum over type definition forms.
type TypeDefinition interface {
	typeDefNode()
}

// EnumerationDef lists the enumeration literals.
type EnumerationDef struct {
	Literals []EnumLiteral
}

// EnumLiteral is one literal of an enumeration type. Character literals
// keep their quoted spelling in the designator.
type EnumLiteral struct {
	Designator DesignatorRef
}

// RecordDef lists the record elements.
type RecordDef struct {
	Elements []ElementDecl
}

// ElementDecl is one record element.
type ElementDecl struct {
	Ident Ident
}

// ProtectedDef is a protected type declaration; it awaits a body in the
// same declarative part.
type ProtectedDef struct {
	Subprograms []SubprogramDecl
}

// ProtectedBodyDef is the body of a protected type, with its own
// declarative part.
type ProtectedBodyDef struct {
	Decls []Declaration
}

// IncompleteDef is a forward type declaration ("type t;") awaiting the
// full declaration in the same immediate region.
type IncompleteDef struct{}

// ScalarDef stands in for every remaining definition form (integer,
// physical, array, access, ...) which the analyzer treats uniformly.
type ScalarDef struct{}

func (*EnumerationDef) typeDefNode()   {}
func (*RecordDef) typeDefNode()        {}
func (*ProtectedDef) typeDefNode()     {}
func (*ProtectedBodyDef) typeDefNode() {}
func (*IncompleteDef) typeDefNode()    {}
func (*ScalarDef) typeDefNode()        {}

// InterfaceKind classifies interface list entries.
type InterfaceKind uint8

const (
	InterfaceObject InterfaceKind = iota
	InterfaceFile
	InterfaceType
	InterfaceSubprogram
	InterfacePackage
)

// InterfaceDecl is one entry of a generic, port or parameter list.
type InterfaceDecl struct {
	Kind  InterfaceKind
	Ident Ident
}
