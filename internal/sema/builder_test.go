package sema

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"volta/internal/ast"
	"volta/internal/diag"
	"volta/internal/library"
	"volta/internal/source"
	"volta/internal/symbols"
)

// code pairs a pseudo-source snippet with AST construction helpers.
// The snippet is never parsed; it exists so tests can assert exact
// diagnostic positions via substring occurrence, while the matching AST
// is assembled by hand.
type code struct {
	t    *testing.T
	syms *symbols.Table
	file source.FileID
	text string
}

type testSetup struct {
	t    *testing.T
	syms *symbols.Table
	fs   *source.FileSet
}

func newSetup(t *testing.T) *testSetup {
	return &testSetup{t: t, syms: symbols.NewTable(), fs: source.NewFileSet()}
}

func (ts *testSetup) code(name, text string) *code {
	id := ts.fs.AddVirtual(name, []byte(text))
	return &code{t: ts.t, syms: ts.syms, file: id, text: text}
}

// s returns the span of the nth occurrence of substr.
func (c *code) s(substr string, occurrence int) source.Span {
	c.t.Helper()
	off := -1
	from := 0
	for i := 0; i < occurrence; i++ {
		idx := strings.Index(c.text[from:], substr)
		if idx < 0 {
			c.t.Fatalf("occurrence %d of %q not found in snippet", occurrence, substr)
		}
		off = from + idx
		from = off + 1
	}
	return source.Span{File: c.file, Start: uint32(off), End: uint32(off + len(substr))}
}

func (c *code) s1(substr string) source.Span {
	c.t.Helper()
	return c.s(substr, 1)
}

func (c *code) sym(name string) symbols.Symbol {
	return c.syms.Intern(name)
}

func (c *code) ident(name string, occurrence int) ast.Ident {
	c.t.Helper()
	return ast.Ident{Sym: c.sym(name), Span: c.s(name, occurrence)}
}

func (c *code) desRef(name string, occurrence int) ast.DesignatorRef {
	c.t.Helper()
	return ast.DesignatorRef{Designator: ast.Identifier(c.sym(name)), Span: c.s(name, occurrence)}
}

func (c *code) opRef(op string, occurrence int) ast.DesignatorRef {
	c.t.Helper()
	return ast.DesignatorRef{Designator: ast.Operator(c.sym(op)), Span: c.s(op, occurrence)}
}

// name builds a (selected) name from the nth occurrence of its dotted
// spelling, giving each component the span it has in the snippet.
func (c *code) name(dotted string, occurrence int) *ast.Name {
	c.t.Helper()
	full := c.s(dotted, occurrence)
	offset := full.Start
	var n *ast.Name
	for i, part := range strings.Split(dotted, ".") {
		span := source.Span{File: c.file, Start: offset, End: offset + uint32(len(part))}
		switch {
		case i == 0:
			n = ast.SimpleName(ast.Identifier(c.sym(part)), span)
		case part == "all":
			n = ast.SelectedAllName(n, span)
		default:
			n = ast.SelectedName(n, ast.DesignatorRef{
				Designator: ast.Identifier(c.sym(part)),
				Span:       span,
			})
		}
		offset += uint32(len(part)) + 1
	}
	return n
}

func (c *code) name1(dotted string) *ast.Name {
	c.t.Helper()
	return c.name(dotted, 1)
}

// AST shorthands. Tests read better when a declaration is one call.

func constant(id ast.Ident) *ast.ObjectDecl {
	return &ast.ObjectDecl{Class: ast.ClassConstant, Ident: id, HasInit: true}
}

func deferredConstant(id ast.Ident) *ast.ObjectDecl {
	return &ast.ObjectDecl{Class: ast.ClassConstant, Ident: id}
}

func signal(id ast.Ident) *ast.ObjectDecl {
	return &ast.ObjectDecl{Class: ast.ClassSignal, Ident: id, HasInit: true}
}

func variable(id ast.Ident) *ast.ObjectDecl {
	return &ast.ObjectDecl{Class: ast.ClassVariable, Ident: id, HasInit: true}
}

func fileObject(id ast.Ident) *ast.FileDecl {
	return &ast.FileDecl{Ident: id}
}

func scalarType(id ast.Ident) *ast.TypeDecl {
	return &ast.TypeDecl{Ident: id, Def: &ast.ScalarDef{}}
}

func incompleteType(id ast.Ident) *ast.TypeDecl {
	return &ast.TypeDecl{Ident: id, Def: &ast.IncompleteDef{}}
}

func enumType(id ast.Ident, literals ...ast.DesignatorRef) *ast.TypeDecl {
	def := &ast.EnumerationDef{}
	for _, lit := range literals {
		def.Literals = append(def.Literals, ast.EnumLiteral{Designator: lit})
	}
	return &ast.TypeDecl{Ident: id, Def: def}
}

func recordType(id ast.Ident, elements ...ast.Ident) *ast.TypeDecl {
	def := &ast.RecordDef{}
	for _, elem := range elements {
		def.Elements = append(def.Elements, ast.ElementDecl{Ident: elem})
	}
	return &ast.TypeDecl{Ident: id, Def: def}
}

func protectedType(id ast.Ident, subprograms ...ast.SubprogramDecl) *ast.TypeDecl {
	return &ast.TypeDecl{Ident: id, Def: &ast.ProtectedDef{Subprograms: subprograms}}
}

func protectedBody(id ast.Ident, decls ...ast.Declaration) *ast.TypeDecl {
	return &ast.TypeDecl{Ident: id, Def: &ast.ProtectedBodyDef{Decls: decls}}
}

func procedure(des ast.DesignatorRef, params ...ast.InterfaceDecl) *ast.SubprogramDecl {
	return &ast.SubprogramDecl{Designator: des, Params: params}
}

func procedureBody(des ast.DesignatorRef, decls ...ast.Declaration) *ast.SubprogramBody {
	return &ast.SubprogramBody{Spec: ast.SubprogramDecl{Designator: des}, Decls: decls}
}

func alias(des ast.DesignatorRef, hasSignature bool) *ast.AliasDecl {
	return &ast.AliasDecl{Designator: des, HasSignature: hasSignature}
}

func useDecl(names ...*ast.Name) *ast.UseClauseDecl {
	u := &ast.UseClauseDecl{Names: names}
	if len(names) > 0 {
		u.Span = names[0].Span
	}
	return u
}

func param(id ast.Ident) ast.InterfaceDecl {
	return ast.InterfaceDecl{Kind: ast.InterfaceObject, Ident: id}
}

func libraryClause(idents ...ast.Ident) ast.ContextItem {
	item := ast.ContextItem{Kind: ast.ContextItemLibrary, Libraries: idents}
	if len(idents) > 0 {
		item.Span = idents[0].Span
	}
	return item
}

func useItem(names ...*ast.Name) ast.ContextItem {
	item := ast.ContextItem{Kind: ast.ContextItemUse, Names: names}
	if len(names) > 0 {
		item.Span = names[0].Span
	}
	return item
}

func contextRef(names ...*ast.Name) ast.ContextItem {
	item := ast.ContextItem{Kind: ast.ContextItemReference, Names: names}
	if len(names) > 0 {
		item.Span = names[0].Span
	}
	return item
}

func designFile(units ...ast.DesignUnit) *ast.DesignFile {
	return &ast.DesignFile{Units: units}
}

// Expected diagnostic shorthands.

func (c *code) duplicate(name string, occurrence, prevOccurrence int) diag.Diagnostic {
	c.t.Helper()
	return diag.Error(diag.SemDuplicateDeclaration, c.s(name, occurrence),
		fmt.Sprintf("Duplicate declaration of '%s'", name),
	).WithNote(c.s(name, prevOccurrence), "Previously defined here")
}

// Pipeline helpers.

type libFiles struct {
	name  string
	files []*ast.DesignFile
}

// analyze builds the libraries in order, runs the analyzer and returns
// every diagnostic from both the structural and the semantic pass.
func (ts *testSetup) analyze(libs ...libFiles) *diag.Bag {
	ts.t.Helper()
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}
	root := library.NewDesignRoot()
	for _, lf := range libs {
		root.AddLibrary(library.New(ts.syms.Intern(lf.name), ts.syms, lf.files, reporter))
	}
	NewAnalyzer(root, ts.syms).Analyze(reporter)
	return bag
}

// analyzeDecls runs just the declarative-part pass into the given region.
func (ts *testSetup) analyzeDecls(region *Region, decls ...ast.Declaration) *diag.Bag {
	ts.t.Helper()
	bag := diag.NewBag()
	a := NewAnalyzer(library.NewDesignRoot(), ts.syms)
	a.analyzeDeclarativePart(region, decls, diag.BagReporter{Bag: bag})
	return bag
}

func checkDiagnostics(t *testing.T, bag *diag.Bag, want ...diag.Diagnostic) {
	t.Helper()
	wantBag := diag.NewBag()
	for _, d := range want {
		wantBag.Add(d)
	}
	wantBag.Sort()
	bag.Sort()
	got := bag.Items()
	expected := wantBag.Items()
	if len(got) != len(expected) {
		t.Fatalf("got %d diagnostics, want %d:\n got: %v\nwant: %v",
			len(got), len(expected), format(got), format(expected))
	}
	for i := range got {
		if !reflect.DeepEqual(got[i], expected[i]) {
			t.Errorf("diagnostic %d:\n got: %+v\nwant: %+v", i, got[i], expected[i])
		}
	}
}

func checkNoDiagnostics(t *testing.T, bag *diag.Bag) {
	t.Helper()
	if bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got:\n%v", format(bag.Items()))
	}
}

func format(diags []diag.Diagnostic) string {
	var b strings.Builder
	for _, d := range diags {
		fmt.Fprintf(&b, "  %s %s at %s %v\n", d.Severity, d.Message, d.Primary, d.Notes)
	}
	return b.String()
}
