package sema

import (
	"fmt"

	"volta/internal/ast"
	"volta/internal/diag"
	"volta/internal/library"
	"volta/internal/source"
	"volta/internal/symbols"
)

// bindingKind records which completion obligation, if any, a binding
// still carries.
type bindingKind uint8

const (
	bindPlain bindingKind = iota
	// bindDeferred is a deferred constant awaiting its full declaration
	// in the package body.
	bindDeferred
	// bindIncomplete is an incomplete type awaiting its full declaration
	// in the same declarative part.
	bindIncomplete
	// bindProtected is a protected type declaration awaiting its body.
	bindProtected
)

// binding is one designator slot of a region. Overloadable declarations
// share a slot; everything else occupies it exclusively.
type binding struct {
	decls []VisibleDeclaration
	// firstPos is where the current owner of the slot was declared.
	firstPos *source.Span
	kind     bindingKind
	// satisfied flips once the completion the kind demands has been seen.
	satisfied bool
	// bodyPos is where the protected body was found, for duplicate-body
	// notes.
	bodyPos *source.Span
}

func (b *binding) clone() *binding {
	c := *b
	c.decls = append([]VisibleDeclaration(nil), b.decls...)
	return &c
}

// obligation remembers where an incomplete form was declared so the
// close pass can point at it.
type obligation struct {
	des ast.Designator
	pos source.Span
	b   *binding
}

// Region is one declarative region. Immediate bindings shadow
// potentially visible ones, and an enclosing region is consulted only
// after both.
type Region struct {
	parent *Region
	syms   *symbols.Table

	immediate  map[ast.Designator]*binding
	potVisible map[ast.Designator][]VisibleDeclaration

	// inPackageDecl permits deferred constants and forbids their full
	// declarations.
	inPackageDecl bool
	// extended marks a secondary-unit region, where full declarations
	// of deferred constants become legal.
	extended bool

	// Obligations are kept in insertion order so close diagnostics come
	// out deterministically.
	incompletes []obligation
	protecteds  []obligation
	deferreds   []obligation
}

// NewRegion creates an empty region nested in parent. Parent may be nil
// for a root region.
func NewRegion(parent *Region, syms *symbols.Table) *Region {
	return &Region{
		parent:     parent,
		syms:       syms,
		immediate:  make(map[ast.Designator]*binding),
		potVisible: make(map[ast.Designator][]VisibleDeclaration),
	}
}

// InPackageDeclaration marks the region as a package declarative part
// and returns it.
func (r *Region) InPackageDeclaration() *Region {
	r.inPackageDecl = true
	return r
}

// Clone copies the region's own state. The parent chain is shared.
func (r *Region) Clone() *Region {
	c := NewRegion(r.parent, r.syms)
	c.inPackageDecl = r.inPackageDecl
	c.extended = r.extended
	remap := c.copyBindings(r)
	c.incompletes = remapObligations(r.incompletes, remap)
	c.protecteds = remapObligations(r.protecteds, remap)
	c.deferreds = remapObligations(r.deferreds, remap)
	return c
}

// CloneParent returns a mutable copy of the enclosing region, or nil
// for a root region. Secondary units use it to apply their own context
// clause without touching the cached primary region.
func (r *Region) CloneParent() *Region {
	if r.parent == nil {
		return nil
	}
	return r.parent.Clone()
}

// Extend builds the extended declarative region of a secondary unit:
// the primary unit's bindings and imports carry over, unmet deferred
// constant obligations follow along, and root becomes the parent.
// Obligations for incomplete types and protected bodies stay behind
// since the primary's close pass already enforced them.
func (r *Region) Extend(root *Region) *Region {
	e := NewRegion(root, r.syms)
	e.extended = true
	remap := e.copyBindings(r)
	e.deferreds = remapObligations(r.deferreds, remap)
	return e
}

// IntoOwned detaches the region from every region it shares state with
// by deep-copying the parent chain. Cached regions are promoted this
// way so later mutation of per-unit roots cannot leak into the cache.
func (r *Region) IntoOwned() *Region {
	c := r.Clone()
	if c.parent != nil {
		c.parent = c.parent.IntoOwned()
	}
	return c
}

func (r *Region) copyBindings(from *Region) map[*binding]*binding {
	remap := make(map[*binding]*binding, len(from.immediate))
	for des, b := range from.immediate {
		nb := b.clone()
		remap[b] = nb
		r.immediate[des] = nb
	}
	for des, decls := range from.potVisible {
		r.potVisible[des] = append([]VisibleDeclaration(nil), decls...)
	}
	return remap
}

func remapObligations(obligs []obligation, remap map[*binding]*binding) []obligation {
	if len(obligs) == 0 {
		return nil
	}
	out := make([]obligation, len(obligs))
	for i, o := range obligs {
		out[i] = obligation{des: o.des, pos: o.pos, b: remap[o.b]}
	}
	return out
}

func (r *Region) name(des ast.Designator) string {
	return r.syms.Name(des.Sym)
}

func (r *Region) reportDuplicate(reporter diag.Reporter, des ast.Designator, pos, prev *source.Span) {
	d := diag.Error(diag.SemDuplicateDeclaration, *pos,
		fmt.Sprintf("Duplicate declaration of '%s'", r.name(des)))
	if prev != nil {
		d = d.WithNote(*prev, "Previously defined here")
	}
	reporter.Report(d)
}

// addKind classifies how a declaration interacts with an occupied slot.
type addKind uint8

const (
	addPlain addKind = iota
	addDeferredConstant
	addFullConstant
	addIncompleteType
	addFullType
	addProtectedType
	addProtectedBody
)

func classify(d AnyDeclaration) addKind {
	if d.Kind != DeclOther {
		return addPlain
	}
	switch n := d.Node.(type) {
	case *ast.ObjectDecl:
		if n.Class != ast.ClassConstant {
			return addPlain
		}
		if n.HasInit {
			return addFullConstant
		}
		return addDeferredConstant
	case *ast.TypeDecl:
		switch n.Def.(type) {
		case *ast.IncompleteDef:
			return addIncompleteType
		case *ast.ProtectedDef:
			return addProtectedType
		case *ast.ProtectedBodyDef:
			return addProtectedBody
		default:
			return addFullType
		}
	default:
		return addPlain
	}
}

// Add inserts a visible declaration, enforcing the homograph rules.
// Illegal declarations are reported and dropped so later declarations
// of the same designator are judged against a clean slot.
func (r *Region) Add(decl VisibleDeclaration, reporter diag.Reporter) {
	des := decl.Designator
	kind := classify(decl.Decl)
	ex := r.immediate[des]

	switch kind {
	case addDeferredConstant:
		if !r.inPackageDecl {
			reporter.Report(diag.Error(diag.SemDeferredOutsidePackage, *decl.DeclPos,
				"Deferred constants are only allowed in package declarations (not body)"))
			return
		}
		if ex != nil {
			r.reportDuplicate(reporter, des, decl.DeclPos, ex.firstPos)
			return
		}
		b := &binding{decls: []VisibleDeclaration{decl}, firstPos: decl.DeclPos, kind: bindDeferred}
		r.immediate[des] = b
		r.deferreds = append(r.deferreds, obligation{des: des, pos: *decl.DeclPos, b: b})
		return

	case addFullConstant:
		if ex != nil && ex.kind == bindDeferred && !ex.satisfied {
			if r.inPackageDecl {
				reporter.Report(diag.Error(diag.SemFullDeclOutsideBody, *decl.DeclPos,
					"Full declaration of deferred constant is only allowed in a package body"))
			}
			// The obligation counts as met either way so the close
			// pass does not pile a second message on the same slot.
			ex.satisfied = true
			ex.kind = bindPlain
			ex.decls = []VisibleDeclaration{decl}
			ex.firstPos = decl.DeclPos
			return
		}

	case addFullType:
		if ex != nil && ex.kind == bindIncomplete && !ex.satisfied {
			ex.satisfied = true
			ex.kind = bindPlain
			ex.decls = []VisibleDeclaration{decl}
			ex.firstPos = decl.DeclPos
			return
		}

	case addIncompleteType:
		if ex != nil {
			r.reportDuplicate(reporter, des, decl.DeclPos, ex.firstPos)
			return
		}
		b := &binding{decls: []VisibleDeclaration{decl}, firstPos: decl.DeclPos, kind: bindIncomplete}
		r.immediate[des] = b
		r.incompletes = append(r.incompletes, obligation{des: des, pos: *decl.DeclPos, b: b})
		return

	case addProtectedType:
		if ex != nil {
			r.reportDuplicate(reporter, des, decl.DeclPos, ex.firstPos)
			return
		}
		b := &binding{decls: []VisibleDeclaration{decl}, firstPos: decl.DeclPos, kind: bindProtected}
		r.immediate[des] = b
		r.protecteds = append(r.protecteds, obligation{des: des, pos: *decl.DeclPos, b: b})
		return

	case addProtectedBody:
		if ex == nil {
			reporter.Report(diag.Error(diag.SemMissingProtectedDecl, *decl.DeclPos,
				fmt.Sprintf("No declaration of protected type '%s'", r.name(des))))
			return
		}
		if ex.kind != bindProtected {
			r.reportDuplicate(reporter, des, decl.DeclPos, ex.firstPos)
			return
		}
		if ex.satisfied {
			r.reportDuplicate(reporter, des, decl.DeclPos, ex.bodyPos)
			return
		}
		ex.satisfied = true
		ex.bodyPos = decl.DeclPos
		return
	}

	if ex == nil {
		r.immediate[des] = &binding{decls: []VisibleDeclaration{decl}, firstPos: decl.DeclPos}
		return
	}
	if decl.MayOverload && len(ex.decls) > 0 && ex.decls[0].MayOverload {
		ex.decls = append(ex.decls, decl)
		return
	}
	r.reportDuplicate(reporter, des, decl.DeclPos, ex.firstPos)
}

// AddInterfaceList inserts a generic, port or parameter list.
func (r *Region) AddInterfaceList(list []ast.InterfaceDecl, reporter diag.Reporter) {
	for i := range list {
		item := &list[i]
		r.Add(VisibleDeclaration{
			Designator: ast.Identifier(item.Ident.Sym),
			Decl:       AnyDeclaration{Kind: DeclInterface},
			DeclPos:    spanPtr(item.Ident.Span),
		}, reporter)
	}
}

// AddElementDeclarations inserts the elements of a record type.
func (r *Region) AddElementDeclarations(elems []ast.ElementDecl, reporter diag.Reporter) {
	for i := range elems {
		elem := &elems[i]
		r.Add(VisibleDeclaration{
			Designator: ast.Identifier(elem.Ident.Sym),
			Decl:       AnyDeclaration{Kind: DeclElement},
			DeclPos:    spanPtr(elem.Ident.Span),
		}, reporter)
	}
}

// MakeLibraryVisible binds a library name in the immediate scope.
func (r *Region) MakeLibraryVisible(sym symbols.Symbol, lib *library.Library) {
	des := ast.Identifier(sym)
	r.immediate[des] = &binding{decls: []VisibleDeclaration{{
		Designator: des,
		Decl:       libraryDecl(lib),
	}}}
}

// MakePotentiallyVisible imports a lookup result by use clause.
// Ambiguous imports of the same designator accumulate silently and are
// only diagnosed if the name is ever used.
func (r *Region) MakePotentiallyVisible(set VisibleSet) {
	r.potVisible[set.Designator] = append(r.potVisible[set.Designator], set.Decls...)
}

// MakeAllPotentiallyVisible imports every immediate binding of another
// region, as a use clause with an all suffix does.
func (r *Region) MakeAllPotentiallyVisible(other *Region) {
	for des, b := range other.immediate {
		r.potVisible[des] = append(r.potVisible[des], b.decls...)
	}
}

// Lookup resolves a designator: immediate bindings first, then
// potentially visible ones, then the enclosing regions.
func (r *Region) Lookup(des ast.Designator) (VisibleSet, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		if b, ok := reg.immediate[des]; ok {
			return VisibleSet{Designator: des, Decls: b.decls}, true
		}
		if decls, ok := reg.potVisible[des]; ok {
			return VisibleSet{Designator: des, Decls: decls}, true
		}
	}
	return VisibleSet{}, false
}

// LookupImmediate resolves a designator against this region's immediate
// bindings only. Selected names reach into packages and libraries this
// way: imports inside the target are not re-exported.
func (r *Region) LookupImmediate(des ast.Designator) (VisibleSet, bool) {
	if b, ok := r.immediate[des]; ok {
		return VisibleSet{Designator: des, Decls: b.decls}, true
	}
	return VisibleSet{}, false
}

// CloseImmediate reports the obligations that must be met within this
// declarative part: full declarations for incomplete types and bodies
// for protected types. Deferred constants are left for CloseBoth since
// their completion lives in the package body.
func (r *Region) CloseImmediate(reporter diag.Reporter) {
	for _, o := range r.incompletes {
		if o.b.satisfied {
			continue
		}
		reporter.Report(diag.Error(diag.SemMissingFullType, o.pos,
			fmt.Sprintf("Missing full type declaration of incomplete type '%s'", r.name(o.des))))
		reporter.Report(diag.Hint(diag.SemMissingFullType, o.pos,
			"The full type declaration shall occur immediately within the same declarative part"))
	}
	for _, o := range r.protecteds {
		if o.b.satisfied {
			continue
		}
		reporter.Report(diag.Error(diag.SemMissingProtectedBody, o.pos,
			fmt.Sprintf("Missing body for protected type '%s'", r.name(o.des))))
	}
}

// CloseBoth runs CloseImmediate and additionally reports deferred
// constants that never received a full declaration. Used when no
// further region can complete them: package declarations without a
// body, and secondary units.
func (r *Region) CloseBoth(reporter diag.Reporter) {
	r.CloseImmediate(reporter)
	for _, o := range r.deferreds {
		if o.b.satisfied {
			continue
		}
		reporter.Report(diag.Error(diag.SemMissingFullConstant, o.pos,
			fmt.Sprintf("Deferred constant '%s' lacks corresponding full constant declaration in package body", r.name(o.des))))
	}
}
