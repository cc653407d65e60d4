// Package library groups parsed design units into named libraries and
// validates the primary/secondary unit structure: one primary unit per
// name, architectures attached to existing entities, bodies attached to
// existing packages.
package library

import (
	"fmt"

	"volta/internal/ast"
	"volta/internal/diag"
	"volta/internal/source"
	"volta/internal/symbols"
)

// PackageUnit pairs a package declaration with its optional body.
type PackageUnit struct {
	Package *ast.PackageDecl
	Body    *ast.PackageBody
}

// Name returns the package identifier.
func (p *PackageUnit) Name() symbols.Symbol {
	return p.Package.Ident.Sym
}

// EntityUnit pairs an entity with its architectures and configurations.
type EntityUnit struct {
	Entity         *ast.EntityDecl
	Architectures  []*ast.ArchitectureBody
	Configurations []*ast.ConfigurationDecl
}

// Name returns the entity identifier.
func (e *EntityUnit) Name() symbols.Symbol {
	return e.Entity.Ident.Sym
}

// Library owns every design unit analyzed under one library name.
type Library struct {
	Name symbols.Symbol

	packages  []*PackageUnit
	pkgByName map[symbols.Symbol]*PackageUnit

	entities  []*EntityUnit
	entByName map[symbols.Symbol]*EntityUnit

	contexts  []*ast.ContextDecl
	instances []*ast.PackageInstance

	primaries map[symbols.Symbol]source.Span
}

// New builds a library from parsed design files. Structural problems
// (duplicate primary units, secondary units without a primary) go to the
// reporter; the offending unit is dropped and analysis continues.
func New(name symbols.Symbol, syms *symbols.Table, files []*ast.DesignFile, reporter diag.Reporter) *Library {
	lib := &Library{
		Name:      name,
		pkgByName: make(map[symbols.Symbol]*PackageUnit),
		entByName: make(map[symbols.Symbol]*EntityUnit),
		primaries: make(map[symbols.Symbol]source.Span),
	}

	// Primary units first so secondary units can attach regardless of
	// file order.
	for _, file := range files {
		for _, unit := range file.Units {
			switch u := unit.(type) {
			case *ast.PackageDecl:
				if lib.claim(u.Ident, syms, reporter) {
					pkg := &PackageUnit{Package: u}
					lib.packages = append(lib.packages, pkg)
					lib.pkgByName[u.Ident.Sym] = pkg
				}
			case *ast.EntityDecl:
				if lib.claim(u.Ident, syms, reporter) {
					ent := &EntityUnit{Entity: u}
					lib.entities = append(lib.entities, ent)
					lib.entByName[u.Ident.Sym] = ent
				}
			case *ast.ContextDecl:
				if lib.claim(u.Ident, syms, reporter) {
					lib.contexts = append(lib.contexts, u)
				}
			case *ast.PackageInstance:
				if lib.claim(u.Ident, syms, reporter) {
					lib.instances = append(lib.instances, u)
				}
			case *ast.ConfigurationDecl, *ast.ArchitectureBody, *ast.PackageBody:
				// Secondary pass below.
			}
		}
	}

	for _, file := range files {
		for _, unit := range file.Units {
			switch u := unit.(type) {
			case *ast.ArchitectureBody:
				lib.addArchitecture(u, syms, reporter)
			case *ast.PackageBody:
				lib.addPackageBody(u, syms, reporter)
			case *ast.ConfigurationDecl:
				lib.addConfiguration(u, syms, reporter)
			}
		}
	}

	return lib
}

// claim reserves a primary-unit name, reporting the duplicate otherwise.
func (l *Library) claim(ident ast.Ident, syms *symbols.Table, reporter diag.Reporter) bool {
	if prev, ok := l.primaries[ident.Sym]; ok {
		reporter.Report(diag.Error(diag.LibDuplicateUnit, ident.Span,
			fmt.Sprintf("Duplicate declaration of '%s'", syms.Name(ident.Sym)),
		).WithNote(prev, "Previously defined here"))
		return false
	}
	l.primaries[ident.Sym] = ident.Span
	return true
}

func (l *Library) addArchitecture(arch *ast.ArchitectureBody, syms *symbols.Table, reporter diag.Reporter) {
	ent, ok := l.entByName[arch.EntityName.Sym]
	if !ok {
		reporter.Report(diag.Error(diag.LibMissingPrimaryUnit, arch.EntityName.Span,
			fmt.Sprintf("No primary unit '%s' within '%s'",
				syms.Name(arch.EntityName.Sym), syms.Name(l.Name))))
		return
	}
	for _, other := range ent.Architectures {
		if other.Ident.Sym == arch.Ident.Sym {
			reporter.Report(diag.Error(diag.LibDuplicateArch, arch.Ident.Span,
				fmt.Sprintf("Duplicate architecture '%s' of entity '%s'",
					syms.Name(arch.Ident.Sym), syms.Name(ent.Name())),
			).WithNote(other.Ident.Span, "Previously defined here"))
			return
		}
	}
	ent.Architectures = append(ent.Architectures, arch)
}

func (l *Library) addPackageBody(body *ast.PackageBody, syms *symbols.Table, reporter diag.Reporter) {
	pkg, ok := l.pkgByName[body.Ident.Sym]
	if !ok {
		reporter.Report(diag.Error(diag.LibMissingPrimaryUnit, body.Ident.Span,
			fmt.Sprintf("No primary unit '%s' within '%s'",
				syms.Name(body.Ident.Sym), syms.Name(l.Name))))
		return
	}
	if pkg.Body != nil {
		reporter.Report(diag.Error(diag.LibDuplicateUnit, body.Ident.Span,
			fmt.Sprintf("Duplicate package body of package '%s'", syms.Name(pkg.Name())),
		).WithNote(pkg.Body.Ident.Span, "Previously defined here"))
		return
	}
	pkg.Body = body
}

func (l *Library) addConfiguration(cfg *ast.ConfigurationDecl, syms *symbols.Table, reporter diag.Reporter) {
	ent, ok := l.entByName[cfg.EntityName.Sym]
	if !ok {
		reporter.Report(diag.Error(diag.LibMissingPrimaryUnit, cfg.EntityName.Span,
			fmt.Sprintf("No primary unit '%s' within '%s'",
				syms.Name(cfg.EntityName.Sym), syms.Name(l.Name))))
		return
	}
	if !l.claim(cfg.Ident, syms, reporter) {
		return
	}
	ent.Configurations = append(ent.Configurations, cfg)
}

// Packages returns the package units in declaration order.
func (l *Library) Packages() []*PackageUnit { return l.packages }

// Entities returns the entity units in declaration order.
func (l *Library) Entities() []*EntityUnit { return l.entities }

// Contexts returns the context declarations in declaration order.
func (l *Library) Contexts() []*ast.ContextDecl { return l.contexts }

// PackageInstances returns the package instances in declaration order.
func (l *Library) PackageInstances() []*ast.PackageInstance { return l.instances }

// Package looks up a package unit by name.
func (l *Library) Package(name symbols.Symbol) (*PackageUnit, bool) {
	pkg, ok := l.pkgByName[name]
	return pkg, ok
}
