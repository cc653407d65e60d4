package sema

import (
	"fmt"

	"volta/internal/ast"
	"volta/internal/diag"
	"volta/internal/library"
	"volta/internal/symbols"
)

// Options configures the analyzer. Zero value gives the usual VHDL
// library spellings.
type Options struct {
	// WorkName is the identifier denoting the current working library.
	// Defaults to "work".
	WorkName string
	// StdName is the name of the standard library. Defaults to "std".
	StdName string
}

// Analyzer resolves names across the libraries of a design root. One
// analyzer instance covers one Analyze run; the memoized unit regions
// are not meant to survive edits to the design.
type Analyzer struct {
	root *library.DesignRoot
	syms *symbols.Table

	workSym symbols.Symbol
	stdSym  symbols.Symbol
	// standardDes names the STD.STANDARD package.
	standardDes ast.Designator

	// libraryRegions holds one flat region per library with all its
	// primary units immediately visible.
	libraryRegions map[symbols.Symbol]*Region

	ctx *analysisContext
}

// NewAnalyzer builds an analyzer over the given design root with
// default library names.
func NewAnalyzer(root *library.DesignRoot, syms *symbols.Table) *Analyzer {
	return NewAnalyzerWith(root, syms, Options{})
}

// NewAnalyzerWith builds an analyzer with explicit options.
func NewAnalyzerWith(root *library.DesignRoot, syms *symbols.Table, opts Options) *Analyzer {
	if opts.WorkName == "" {
		opts.WorkName = "work"
	}
	if opts.StdName == "" {
		opts.StdName = "std"
	}
	a := &Analyzer{
		root:           root,
		syms:           syms,
		workSym:        syms.Intern(opts.WorkName),
		stdSym:         syms.Intern(opts.StdName),
		standardDes:    ast.Identifier(syms.Intern("standard")),
		libraryRegions: make(map[symbols.Symbol]*Region),
		ctx:            newAnalysisContext(),
	}
	for _, lib := range root.Libraries() {
		a.libraryRegions[lib.Name] = a.buildLibraryRegion(lib)
	}
	return a
}

// buildLibraryRegion lists every primary unit of a library in a flat
// region. The library pass already rejected duplicate primary units, so
// insertion cannot fail here.
func (a *Analyzer) buildLibraryRegion(lib *library.Library) *Region {
	region := NewRegion(nil, a.syms)
	nop := diag.NopReporter{}
	for _, pkg := range lib.Packages() {
		region.Add(VisibleDeclaration{
			Designator: ast.Identifier(pkg.Name()),
			Decl:       packageDecl(lib, pkg),
			DeclPos:    spanPtr(pkg.Package.Ident.Span),
		}, nop)
	}
	for _, ctx := range lib.Contexts() {
		region.Add(VisibleDeclaration{
			Designator: ast.Identifier(ctx.Ident.Sym),
			Decl:       AnyDeclaration{Kind: DeclContext, Context: ctx},
			DeclPos:    spanPtr(ctx.Ident.Span),
		}, nop)
	}
	for _, inst := range lib.PackageInstances() {
		region.Add(VisibleDeclaration{
			Designator: ast.Identifier(inst.Ident.Sym),
			Decl:       AnyDeclaration{Kind: DeclPackageInstance, Instance: inst},
			DeclPos:    spanPtr(inst.Ident.Span),
		}, nop)
	}
	for _, ent := range lib.Entities() {
		region.Add(VisibleDeclaration{
			Designator: ast.Identifier(ent.Name()),
			Decl:       AnyDeclaration{Kind: DeclEntity, Entity: ent},
			DeclPos:    spanPtr(ent.Entity.Ident.Span),
		}, nop)
		for _, cfg := range ent.Configurations {
			region.Add(VisibleDeclaration{
				Designator: ast.Identifier(cfg.Ident.Sym),
				Decl:       AnyDeclaration{Kind: DeclConfiguration, Config: cfg},
				DeclPos:    spanPtr(cfg.Ident.Span),
			}, nop)
		}
	}
	return region
}

// Analyze runs name resolution over the whole design. The standard
// library goes first so STD.STANDARD is available to every root region.
func (a *Analyzer) Analyze(reporter diag.Reporter) {
	if std, ok := a.root.Library(a.stdSym); ok {
		// Units of std are analyzed with an empty root: nothing is
		// visible before STANDARD itself exists.
		for _, pkg := range std.Packages() {
			a.analyzePackage(NewRegion(nil, a.syms), std, pkg, reporter)
		}
	}
	for _, lib := range a.root.Libraries() {
		if lib.Name == a.stdSym {
			continue
		}
		a.AnalyzeLibrary(lib, reporter)
	}
}

// AnalyzeLibrary resolves every unit of one library, packages first so
// contexts and entities can use them.
func (a *Analyzer) AnalyzeLibrary(lib *library.Library, reporter diag.Reporter) {
	for _, pkg := range lib.Packages() {
		a.analyzePackage(a.newRootRegion(lib), lib, pkg, reporter)
	}
	for _, inst := range lib.PackageInstances() {
		// The instantiated package name needs generic resolution, so
		// only the context clause is analyzed here.
		root := a.newRootRegion(lib)
		a.analyzeContextClause(root, inst.ContextClause, reporter)
	}
	for _, ctx := range lib.Contexts() {
		root := a.newRootRegion(lib)
		a.analyzeContextClause(root, ctx.Items, reporter)
	}
	for _, ent := range lib.Entities() {
		a.analyzeEntity(lib, ent, reporter)
	}
}

// newRootRegion builds the implicit outermost region of a design unit:
// the working library under its configured name, the std library, and
// everything STD.STANDARD declares.
func (a *Analyzer) newRootRegion(work *library.Library) *Region {
	region := NewRegion(nil, a.syms)
	region.MakeLibraryVisible(a.workSym, work)
	std, ok := a.root.Library(a.stdSym)
	if !ok {
		return region
	}
	region.MakeLibraryVisible(a.stdSym, std)
	set, ok := a.libraryRegions[a.stdSym].LookupImmediate(a.standardDes)
	if !ok {
		panic("expected package 'standard' in library 'std'")
	}
	single, ok := set.Single()
	if !ok || single.Decl.Kind != DeclPackage {
		panic("expected package 'standard' in library 'std'")
	}
	stdRegion := a.getPackageRegion(std, single.Decl.Package)
	if stdRegion == nil {
		panic("found circular dependency when analyzing package 'standard'")
	}
	region.MakeAllPotentiallyVisible(stdRegion)
	return region
}

func (a *Analyzer) analyzePackage(root *Region, lib *library.Library, pkg *library.PackageUnit, reporter diag.Reporter) {
	a.analyzePackageDeclarationUnit(root, lib, pkg, reporter)
	a.analyzePackageBodyUnit(lib, pkg, reporter)
}

// analyzePackageDeclarationUnit analyzes a package declaration under the
// cycle lock and caches the resulting region. Re-entry while locked
// poisons the cache entry so every later reference to the package fails
// with a circular dependency error instead of recursing.
func (a *Analyzer) analyzePackageDeclarationUnit(root *Region, lib *library.Library, pkg *library.PackageUnit, reporter diag.Reporter) *Region {
	key := unitKey{library: lib.Name, unit: pkg.Name()}
	release, err := a.ctx.lock(key)
	if err != nil {
		reporter.Report(diag.Error(diag.SemCircularDependency, pkg.Package.Ident.Span,
			fmt.Sprintf("Found circular dependency when analyzing '%s.%s'",
				a.syms.Name(lib.Name), a.syms.Name(pkg.Name()))))
		a.ctx.setRegion(key, nil)
	} else {
		a.analyzeLockedPackageDeclaration(release, root, key, pkg, reporter)
	}
	// The first cached value wins, so a cycle discovered while this
	// unit was on the stack overrides the completed region.
	region, _ := a.ctx.region(key)
	return region
}

func (a *Analyzer) analyzeLockedPackageDeclaration(release func(), root *Region, key unitKey, pkg *library.PackageUnit, reporter diag.Reporter) {
	defer release()
	a.analyzeContextClause(root, pkg.Package.ContextClause, reporter)
	region := a.analyzePackageDeclaration(root, pkg.Package, reporter)
	if pkg.Body != nil {
		region.CloseImmediate(reporter)
	} else {
		region.CloseBoth(reporter)
	}
	a.ctx.setRegion(key, region.IntoOwned())
}

func (a *Analyzer) analyzePackageDeclaration(parent *Region, pkg *ast.PackageDecl, reporter diag.Reporter) *Region {
	region := NewRegion(parent, a.syms).InPackageDeclaration()
	region.AddInterfaceList(pkg.Generics, reporter)
	a.analyzeDeclarativePart(region, pkg.Decls, reporter)
	return region
}

// analyzePackageBodyUnit extends the cached declaration region with the
// body. The body gets a fresh copy of the declaration's root so its own
// context clause cannot leak into the cache.
func (a *Analyzer) analyzePackageBodyUnit(lib *library.Library, pkg *library.PackageUnit, reporter diag.Reporter) {
	if pkg.Body == nil {
		return
	}
	key := unitKey{library: lib.Name, unit: pkg.Name()}
	primary, _ := a.ctx.region(key)
	if primary == nil {
		return
	}
	root := primary.CloneParent()
	a.analyzeContextClause(root, pkg.Body.ContextClause, reporter)
	region := primary.Extend(root)
	a.analyzeDeclarativePart(region, pkg.Body.Decls, reporter)
	region.CloseBoth(reporter)
}

// getPackageRegion returns the memoized region of a package, analyzing
// it speculatively (diagnostics discarded) on a cache miss. A nil
// result marks a circular dependency.
func (a *Analyzer) getPackageRegion(lib *library.Library, pkg *library.PackageUnit) *Region {
	key := unitKey{library: lib.Name, unit: pkg.Name()}
	if region, ok := a.ctx.region(key); ok {
		return region
	}
	root := a.newRootRegion(lib)
	return a.analyzePackageDeclarationUnit(root, lib, pkg, diag.NopReporter{})
}

func (a *Analyzer) analyzeEntity(lib *library.Library, ent *library.EntityUnit, reporter diag.Reporter) {
	root := a.newRootRegion(lib)
	a.analyzeContextClause(root, ent.Entity.ContextClause, reporter)
	region := NewRegion(root, a.syms)
	a.analyzeEntityDeclaration(region, ent.Entity, reporter)
	region.CloseImmediate(reporter)

	for _, arch := range ent.Architectures {
		// Each architecture works on its own copy: the entity region
		// plus the architecture's context clause, with the entity's
		// declarations carried into the extended region.
		archRoot := region.Clone()
		a.analyzeContextClause(archRoot, arch.ContextClause, reporter)
		archRegion := region.Extend(archRoot)
		a.analyzeArchitectureBody(archRegion, arch, reporter)
		archRegion.CloseBoth(reporter)
	}
}

func (a *Analyzer) analyzeEntityDeclaration(region *Region, ent *ast.EntityDecl, reporter diag.Reporter) {
	region.AddInterfaceList(ent.Generics, reporter)
	region.AddInterfaceList(ent.Ports, reporter)
	a.analyzeDeclarativePart(region, ent.Decls, reporter)
	a.analyzeConcurrentPart(region, ent.Statements, reporter)
}

func (a *Analyzer) analyzeArchitectureBody(region *Region, arch *ast.ArchitectureBody, reporter diag.Reporter) {
	a.analyzeDeclarativePart(region, arch.Decls, reporter)
	a.analyzeConcurrentPart(region, arch.Statements, reporter)
}

func (a *Analyzer) analyzeDeclarativePart(region *Region, decls []ast.Declaration, reporter diag.Reporter) {
	for _, decl := range decls {
		a.analyzeDeclaration(region, decl, reporter)
	}
}

func (a *Analyzer) analyzeDeclaration(region *Region, decl ast.Declaration, reporter diag.Reporter) {
	switch d := decl.(type) {
	case *ast.ObjectDecl:
		region.Add(VisibleDeclaration{
			Designator: ast.Identifier(d.Ident.Sym),
			Decl:       AnyDeclaration{Kind: DeclOther, Node: d},
			DeclPos:    spanPtr(d.Ident.Span),
		}, reporter)

	case *ast.FileDecl:
		region.Add(VisibleDeclaration{
			Designator: ast.Identifier(d.Ident.Sym),
			Decl:       AnyDeclaration{Kind: DeclOther, Node: d},
			DeclPos:    spanPtr(d.Ident.Span),
		}, reporter)

	case *ast.TypeDecl:
		a.analyzeTypeDeclaration(region, d, reporter)

	case *ast.ComponentDecl:
		region.Add(VisibleDeclaration{
			Designator: ast.Identifier(d.Ident.Sym),
			Decl:       AnyDeclaration{Kind: DeclOther, Node: d},
			DeclPos:    spanPtr(d.Ident.Span),
		}, reporter)
		a.checkInterfaceList(d.Generics, reporter)
		a.checkInterfaceList(d.Ports, reporter)

	case *ast.AttributeDecl:
		region.Add(VisibleDeclaration{
			Designator: ast.Identifier(d.Ident.Sym),
			Decl:       AnyDeclaration{Kind: DeclOther, Node: d},
			DeclPos:    spanPtr(d.Ident.Span),
		}, reporter)

	case *ast.AliasDecl:
		region.Add(VisibleDeclaration{
			Designator:  d.Designator.Designator,
			Decl:        AnyDeclaration{Kind: DeclOther, Node: d},
			DeclPos:     spanPtr(d.Designator.Span),
			MayOverload: d.HasSignature,
		}, reporter)

	case *ast.SubprogramDecl:
		region.Add(VisibleDeclaration{
			Designator:  d.Designator.Designator,
			Decl:        AnyDeclaration{Kind: DeclOther, Node: d},
			DeclPos:     spanPtr(d.Designator.Span),
			MayOverload: true,
		}, reporter)
		a.checkInterfaceList(d.Params, reporter)

	case *ast.SubprogramBody:
		region.Add(VisibleDeclaration{
			Designator:  d.Spec.Designator.Designator,
			Decl:        AnyDeclaration{Kind: DeclOther, Node: d},
			DeclPos:     spanPtr(d.Spec.Designator.Span),
			MayOverload: true,
		}, reporter)
		a.checkInterfaceList(d.Spec.Params, reporter)
		nested := NewRegion(region, a.syms)
		a.analyzeDeclarativePart(nested, d.Decls, reporter)

	case *ast.UseClauseDecl:
		a.analyzeUseClause(region, d.Names, reporter)

	case *ast.NestedPackageInstance:
		region.Add(VisibleDeclaration{
			Designator: ast.Identifier(d.Ident.Sym),
			Decl:       AnyDeclaration{Kind: DeclOther, Node: d},
			DeclPos:    spanPtr(d.Ident.Span),
		}, reporter)

	case *ast.AttributeSpec, *ast.ConfigurationSpec:
		// Declares nothing.
	}
}

func (a *Analyzer) analyzeTypeDeclaration(region *Region, decl *ast.TypeDecl, reporter diag.Reporter) {
	region.Add(VisibleDeclaration{
		Designator: ast.Identifier(decl.Ident.Sym),
		Decl:       AnyDeclaration{Kind: DeclOther, Node: decl},
		DeclPos:    spanPtr(decl.Ident.Span),
	}, reporter)

	switch def := decl.Def.(type) {
	case *ast.EnumerationDef:
		for i := range def.Literals {
			lit := &def.Literals[i]
			region.Add(VisibleDeclaration{
				Designator:  lit.Designator.Designator,
				Decl:        AnyDeclaration{Kind: DeclEnum, Enum: lit},
				DeclPos:     spanPtr(lit.Designator.Span),
				MayOverload: true,
			}, reporter)
		}
	case *ast.RecordDef:
		a.checkElementDeclarations(def.Elements, reporter)
	case *ast.ProtectedDef:
		for i := range def.Subprograms {
			a.checkInterfaceList(def.Subprograms[i].Params, reporter)
		}
	case *ast.ProtectedBodyDef:
		nested := NewRegion(region, a.syms)
		a.analyzeDeclarativePart(nested, def.Decls, reporter)
	}
}

func (a *Analyzer) analyzeConcurrentPart(region *Region, stmts []ast.ConcurrentStatement, reporter diag.Reporter) {
	for _, stmt := range stmts {
		a.analyzeConcurrentStatement(region, stmt, reporter)
	}
}

func (a *Analyzer) analyzeConcurrentStatement(region *Region, stmt ast.ConcurrentStatement, reporter diag.Reporter) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		nested := NewRegion(region, a.syms)
		a.analyzeDeclarativePart(nested, s.Decls, reporter)
		a.analyzeConcurrentPart(nested, s.Statements, reporter)
	case *ast.ProcessStatement:
		nested := NewRegion(region, a.syms)
		a.analyzeDeclarativePart(nested, s.Decls, reporter)
	case *ast.ForGenerateStatement:
		a.analyzeGenerateBody(region, &s.Body, reporter)
	case *ast.IfGenerateStatement:
		for i := range s.Conditionals {
			a.analyzeGenerateBody(region, &s.Conditionals[i], reporter)
		}
		if s.Else != nil {
			a.analyzeGenerateBody(region, s.Else, reporter)
		}
	case *ast.CaseGenerateStatement:
		for i := range s.Alternatives {
			a.analyzeGenerateBody(region, &s.Alternatives[i], reporter)
		}
	case *ast.OtherStatement:
		// Declares nothing.
	}
}

func (a *Analyzer) analyzeGenerateBody(parent *Region, body *ast.GenerateBody, reporter diag.Reporter) {
	nested := NewRegion(parent, a.syms)
	a.analyzeDeclarativePart(nested, body.Decls, reporter)
	a.analyzeConcurrentPart(nested, body.Statements, reporter)
}

// checkInterfaceList validates one generic, port or parameter list in a
// throwaway region of its own. Two lists of the same declaration do not
// see each other.
func (a *Analyzer) checkInterfaceList(list []ast.InterfaceDecl, reporter diag.Reporter) {
	region := NewRegion(nil, a.syms)
	region.AddInterfaceList(list, reporter)
}

func (a *Analyzer) checkElementDeclarations(elems []ast.ElementDecl, reporter diag.Reporter) {
	region := NewRegion(nil, a.syms)
	region.AddElementDeclarations(elems, reporter)
}
