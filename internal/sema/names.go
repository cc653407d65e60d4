package sema

import (
	"fmt"

	"volta/internal/ast"
	"volta/internal/diag"
)

// lookupKind classifies the outcome of resolving a (selected) name.
type lookupKind uint8

const (
	// lookupSingle resolved to one binding or overload set.
	lookupSingle lookupKind = iota
	// lookupAllWithin is a prefix.all whose prefix resolved.
	lookupAllWithin
	// lookupUnfinished hit a name form resolution cannot follow yet,
	// such as selection into an object. Not an error.
	lookupUnfinished
	// lookupNotSelected is a name that is not in selected form at all.
	lookupNotSelected
)

// lookupResult carries the resolved set and, for all-within results,
// the prefix name for error positions.
type lookupResult struct {
	kind   lookupKind
	set    VisibleSet
	prefix *ast.Name
}

// lookupSelectedName resolves a name against a region, following
// library and package prefixes across unit boundaries. A non-nil
// diagnostic means resolution failed and the caller should report it.
func (a *Analyzer) lookupSelectedName(region *Region, name *ast.Name) (lookupResult, *diag.Diagnostic) {
	switch name.Kind {
	case ast.NameDesignator:
		set, ok := region.Lookup(name.Designator)
		if !ok {
			d := diag.Error(diag.SemUnresolvedName, name.Span,
				fmt.Sprintf("No declaration of '%s'", a.syms.Name(name.Designator.Sym)))
			return lookupResult{}, &d
		}
		return lookupResult{kind: lookupSingle, set: set}, nil

	case ast.NameSelected:
		prefix, d := a.lookupSelectedName(region, name.Prefix)
		if d != nil {
			return lookupResult{}, d
		}
		switch prefix.kind {
		case lookupAllWithin:
			d := diag.Error(diag.SemAllPrefix, name.Prefix.Span,
				"'.all' may not be the prefix of a selected name")
			return lookupResult{}, &d
		case lookupUnfinished, lookupNotSelected:
			return lookupResult{kind: lookupUnfinished}, nil
		}
		single, ok := prefix.set.Single()
		if !ok {
			return lookupResult{kind: lookupUnfinished}, nil
		}
		return a.lookupSuffix(single, name)

	case ast.NameSelectedAll:
		prefix, d := a.lookupSelectedName(region, name.Prefix)
		if d != nil {
			return lookupResult{}, d
		}
		switch prefix.kind {
		case lookupAllWithin:
			d := diag.Error(diag.SemAllPrefix, name.Prefix.Span,
				"'.all' may not be the prefix of a selected name")
			return lookupResult{}, &d
		case lookupUnfinished, lookupNotSelected:
			return lookupResult{kind: lookupUnfinished}, nil
		}
		return lookupResult{kind: lookupAllWithin, set: prefix.set, prefix: name.Prefix}, nil

	default:
		return lookupResult{kind: lookupNotSelected}, nil
	}
}

// lookupSuffix resolves the suffix of a selected name within the unit
// the prefix denotes.
func (a *Analyzer) lookupSuffix(prefix VisibleDeclaration, name *ast.Name) (lookupResult, *diag.Diagnostic) {
	suffix := name.Suffix
	switch prefix.Decl.Kind {
	case DeclLibrary:
		lib := prefix.Decl.Library
		set, ok := a.libraryRegions[lib.Name].LookupImmediate(suffix.Designator)
		if !ok {
			d := diag.Error(diag.SemMissingPrimaryUnit, suffix.Span,
				fmt.Sprintf("No primary unit '%s' within '%s'",
					a.syms.Name(suffix.Designator.Sym), a.syms.Name(lib.Name)))
			return lookupResult{}, &d
		}
		return lookupResult{kind: lookupSingle, set: set}, nil

	case DeclPackage:
		pkgRegion := a.getPackageRegion(prefix.Decl.Library, prefix.Decl.Package)
		if pkgRegion == nil {
			d := diag.Error(diag.SemCircularDependency, name.Prefix.Span,
				fmt.Sprintf("Found circular dependencies when using package '%s'",
					a.syms.Name(prefix.Decl.Package.Name())))
			return lookupResult{}, &d
		}
		set, ok := pkgRegion.LookupImmediate(suffix.Designator)
		if !ok {
			d := diag.Error(diag.SemMissingPackageName, suffix.Span,
				fmt.Sprintf("No declaration of '%s' within package '%s'",
					a.syms.Name(suffix.Designator.Sym), a.syms.Name(prefix.Decl.Package.Name())))
			return lookupResult{}, &d
		}
		return lookupResult{kind: lookupSingle, set: set}, nil

	default:
		// Selection into objects, records and instances needs type
		// information this pass does not have.
		return lookupResult{kind: lookupUnfinished}, nil
	}
}

// analyzeUseClause resolves the names of a use clause and imports what
// they denote into the region.
func (a *Analyzer) analyzeUseClause(region *Region, names []*ast.Name, reporter diag.Reporter) {
	for _, name := range names {
		if !name.IsSelected() {
			reporter.Report(diag.Error(diag.SemUseMustBeSelected, name.Span,
				"Use clause must be a selected name"))
			continue
		}
		res, d := a.lookupSelectedName(region, name)
		if d != nil {
			reporter.Report(*d)
			continue
		}
		switch res.kind {
		case lookupSingle:
			if single, ok := res.set.Single(); ok && single.Decl.Kind == DeclPackage {
				region.MakePotentiallyVisible(res.set)
			}
			// Imports of individual declarations beyond packages need
			// the declaration itself carried over; plain objects and
			// subprograms are left to the typed pass.
		case lookupAllWithin:
			a.importAllWithin(region, res, reporter)
		case lookupUnfinished:
			// Ignored, could not be resolved this pass.
		case lookupNotSelected:
			reporter.Report(diag.Error(diag.SemUseMustBeSelected, name.Span,
				"Use clause must be a selected name"))
		}
	}
}

// importAllWithin applies a `use prefix.all` whose prefix resolved.
func (a *Analyzer) importAllWithin(region *Region, res lookupResult, reporter diag.Reporter) {
	single, ok := res.set.Single()
	if !ok {
		return
	}
	switch single.Decl.Kind {
	case DeclLibrary:
		region.MakeAllPotentiallyVisible(a.libraryRegions[single.Decl.Library.Name])
	case DeclPackage:
		pkgRegion := a.getPackageRegion(single.Decl.Library, single.Decl.Package)
		if pkgRegion == nil {
			reporter.Report(diag.Error(diag.SemCircularDependency, res.prefix.Span,
				fmt.Sprintf("Found circular dependencies when using package '%s'",
					a.syms.Name(single.Decl.Package.Name()))))
			return
		}
		region.MakeAllPotentiallyVisible(pkgRegion)
	}
}

// analyzeContextClause applies library clauses, use clauses and context
// references to a root region.
func (a *Analyzer) analyzeContextClause(region *Region, items []ast.ContextItem, reporter diag.Reporter) {
	for i := range items {
		item := &items[i]
		switch item.Kind {
		case ast.ContextItemLibrary:
			a.analyzeLibraryClause(region, item.Libraries, reporter)
		case ast.ContextItemUse:
			a.analyzeUseClause(region, item.Names, reporter)
		case ast.ContextItemReference:
			a.analyzeContextReference(region, item.Names, reporter)
		}
	}
}

func (a *Analyzer) analyzeLibraryClause(region *Region, names []ast.Ident, reporter diag.Reporter) {
	for _, ident := range names {
		if ident.Sym == a.workSym {
			reporter.Report(diag.Hint(diag.SemRedundantLibrary, ident.Span,
				"Library clause not necessary for current working library"))
			continue
		}
		lib, ok := a.root.Library(ident.Sym)
		if !ok {
			reporter.Report(diag.Error(diag.SemMissingLibrary, ident.Span,
				fmt.Sprintf("No such library '%s'", a.syms.Name(ident.Sym))))
			continue
		}
		region.MakeLibraryVisible(ident.Sym, lib)
	}
}

func (a *Analyzer) analyzeContextReference(region *Region, names []*ast.Name, reporter diag.Reporter) {
	for _, name := range names {
		if name.Kind != ast.NameSelected {
			reporter.Report(diag.Error(diag.SemContextMustBeSelected, name.Span,
				"Context reference must be a selected name"))
			continue
		}
		res, d := a.lookupSelectedName(region, name)
		if d != nil {
			reporter.Report(*d)
			continue
		}
		if res.kind != lookupSingle {
			continue
		}
		single, ok := res.set.Single()
		if !ok {
			continue
		}
		if single.Decl.Kind != DeclContext {
			reporter.Report(diag.Error(diag.SemNotAContext, name.Span,
				fmt.Sprintf("'%s' does not denote a context declaration",
					a.syms.Name(name.Suffix.Designator.Sym))))
			continue
		}
		// The referenced context was already diagnosed where it was
		// declared; only its effects are wanted here.
		a.analyzeContextClause(region, single.Decl.Context.Items, diag.NopReporter{})
	}
}
