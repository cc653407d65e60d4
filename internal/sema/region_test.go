package sema

import (
	"testing"

	"volta/internal/ast"
	"volta/internal/diag"
)

func TestDuplicateDeclarations(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
constant a1 : natural := 0;
constant a1 : natural := 0;
signal b1 : natural;
signal b1 : natural;
variable c1 : natural;
variable c1 : natural;
file d1 : text;
file d1 : text;
type e1 is (alpha, beta);
type e1 is (gamma, delta);
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		constant(c.ident("a1", 1)),
		constant(c.ident("a1", 2)),
		signal(c.ident("b1", 1)),
		signal(c.ident("b1", 2)),
		variable(c.ident("c1", 1)),
		variable(c.ident("c1", 2)),
		fileObject(c.ident("d1", 1)),
		fileObject(c.ident("d1", 2)),
		enumType(c.ident("e1", 1), c.desRef("alpha", 1), c.desRef("beta", 1)),
		enumType(c.ident("e1", 2), c.desRef("gamma", 1), c.desRef("delta", 1)),
	)
	checkDiagnostics(t, bag,
		c.duplicate("a1", 2, 1),
		c.duplicate("b1", 2, 1),
		c.duplicate("c1", 2, 1),
		c.duplicate("d1", 2, 1),
		c.duplicate("e1", 2, 1),
	)
}

func TestHomographsAreCaseInsensitive(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
constant a1 : natural := 0;
constant A1 : natural := 0;
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		constant(c.ident("a1", 1)),
		constant(c.ident("A1", 1)),
	)
	checkDiagnostics(t, bag,
		diag.Error(diag.SemDuplicateDeclaration, c.s1("A1"),
			"Duplicate declaration of 'a1'",
		).WithNote(c.s1("a1"), "Previously defined here"))
}

func TestOverloadedSubprogramsShareDesignator(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
procedure proc(a : natural);
procedure proc(a : boolean);
function "+"(a, b : rec_t) return rec_t;
function "+"(a, b : other_t) return other_t;
alias al1 is proc [natural];
alias al1 is proc [boolean];
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		procedure(c.desRef("proc", 1)),
		procedure(c.desRef("proc", 2)),
		procedure(c.opRef(`"+"`, 1)),
		procedure(c.opRef(`"+"`, 2)),
		alias(c.desRef("al1", 1), true),
		alias(c.desRef("al1", 2), true),
	)
	checkNoDiagnostics(t, bag)
}

func TestOverloadableDoesNotMixWithObjects(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
constant a1 : natural := 0;
procedure a1(x : natural);
alias b1 is foo;
alias b1 is bar;
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		constant(c.ident("a1", 1)),
		procedure(c.desRef("a1", 2)),
		// Aliases without a signature are not overloadable.
		alias(c.desRef("b1", 1), false),
		alias(c.desRef("b1", 2), false),
	)
	checkDiagnostics(t, bag,
		c.duplicate("a1", 2, 1),
		c.duplicate("b1", 2, 1),
	)
}

func TestEnumLiteralsOverload(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
type e1 is (alpha, beta);
type e2 is (alpha, gamma);
procedure beta(x : natural);
constant gamma : natural := 0;
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		enumType(c.ident("e1", 1), c.desRef("alpha", 1), c.desRef("beta", 1)),
		enumType(c.ident("e2", 1), c.desRef("alpha", 2), c.desRef("gamma", 1)),
		procedure(c.desRef("beta", 2)),
		constant(c.ident("gamma", 2)),
	)
	checkDiagnostics(t, bag,
		c.duplicate("gamma", 2, 1),
	)
}

func TestCharacterEnumLiteralsKeepCase(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
type e1 is ('a', 'b');
type e2 is ('A', 'a');
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		enumType(c.ident("e1", 1), c.desRef("'a'", 1), c.desRef("'b'", 1)),
		// 'A' folds to itself, so it is no homograph of 'a'; the second
		// 'a' overloads with e1's literal.
		enumType(c.ident("e2", 1), c.desRef("'A'", 1), c.desRef("'a'", 2)),
	)
	checkNoDiagnostics(t, bag)
}

func TestDeferredConstantOutsidePackageDeclaration(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
constant a1 : natural;
constant a1 : natural := 0;
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		deferredConstant(c.ident("a1", 1)),
		// The deferred declaration was dropped, so the full one is
		// not a duplicate.
		constant(c.ident("a1", 2)),
	)
	checkDiagnostics(t, bag,
		diag.Error(diag.SemDeferredOutsidePackage, c.s("a1", 1),
			"Deferred constants are only allowed in package declarations (not body)"))
}

func TestDeferredConstantAfterConstant(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
constant a1 : natural := 0;
constant a1 : natural;
`)
	region := NewRegion(nil, ts.syms).InPackageDeclaration()
	bag := ts.analyzeDecls(region,
		constant(c.ident("a1", 1)),
		deferredConstant(c.ident("a1", 2)),
	)
	region.CloseBoth(diag.BagReporter{Bag: bag})
	checkDiagnostics(t, bag,
		c.duplicate("a1", 2, 1),
	)
}

func TestFullDeclarationInPackageDeclaration(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
constant a1 : natural;
constant a1 : natural := 0;
`)
	region := NewRegion(nil, ts.syms).InPackageDeclaration()
	bag := ts.analyzeDecls(region,
		deferredConstant(c.ident("a1", 1)),
		constant(c.ident("a1", 2)),
	)
	region.CloseBoth(diag.BagReporter{Bag: bag})
	checkDiagnostics(t, bag,
		diag.Error(diag.SemFullDeclOutsideBody, c.s("a1", 2),
			"Full declaration of deferred constant is only allowed in a package body"))
}

func TestDeferredConstantCompletedInBody(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
package pkg is
  constant a1 : natural;
end package;
package body pkg is
  constant a1 : natural := 0;
end package body;
`)
	bag := ts.analyze(libFiles{"libname", []*ast.DesignFile{designFile(
		&ast.PackageDecl{
			Ident: c.ident("pkg", 1),
			Decls: []ast.Declaration{deferredConstant(c.ident("a1", 1))},
		},
		&ast.PackageBody{
			Ident: c.ident("pkg", 2),
			Decls: []ast.Declaration{constant(c.ident("a1", 2))},
		},
	)}})
	checkNoDiagnostics(t, bag)
}

func TestDeferredConstantLacksFullDeclaration(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
package pkg1 is
  constant a1 : natural;
end package;
package pkg2 is
  constant b1 : natural;
end package;
package body pkg2 is
end package body;
`)
	bag := ts.analyze(libFiles{"libname", []*ast.DesignFile{designFile(
		&ast.PackageDecl{
			Ident: c.ident("pkg1", 1),
			Decls: []ast.Declaration{deferredConstant(c.ident("a1", 1))},
		},
		&ast.PackageDecl{
			Ident: c.ident("pkg2", 1),
			Decls: []ast.Declaration{deferredConstant(c.ident("b1", 1))},
		},
		&ast.PackageBody{Ident: c.ident("pkg2", 2)},
	)}})
	checkDiagnostics(t, bag,
		diag.Error(diag.SemMissingFullConstant, c.s("a1", 1),
			"Deferred constant 'a1' lacks corresponding full constant declaration in package body"),
		diag.Error(diag.SemMissingFullConstant, c.s("b1", 1),
			"Deferred constant 'b1' lacks corresponding full constant declaration in package body"),
	)
}

func TestDuplicateFullDeclarationInBody(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
package pkg is
  constant a1 : natural;
end package;
package body pkg is
  constant a1 : natural := 0;
  constant a1 : natural := 0;
end package body;
`)
	bag := ts.analyze(libFiles{"libname", []*ast.DesignFile{designFile(
		&ast.PackageDecl{
			Ident: c.ident("pkg", 1),
			Decls: []ast.Declaration{deferredConstant(c.ident("a1", 1))},
		},
		&ast.PackageBody{
			Ident: c.ident("pkg", 2),
			Decls: []ast.Declaration{
				constant(c.ident("a1", 2)),
				constant(c.ident("a1", 3)),
			},
		},
	)}})
	checkDiagnostics(t, bag,
		c.duplicate("a1", 3, 2),
	)
}

func TestIncompleteTypeCompletedInSameRegion(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
type rec_t;
type rec_t is record
end record;
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		incompleteType(c.ident("rec_t", 1)),
		recordType(c.ident("rec_t", 2)),
	)
	region.CloseBoth(diag.BagReporter{Bag: bag})
	checkNoDiagnostics(t, bag)
}

func TestMissingFullTypeDeclaration(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
type rec_t;
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		incompleteType(c.ident("rec_t", 1)),
	)
	region.CloseBoth(diag.BagReporter{Bag: bag})
	checkDiagnostics(t, bag,
		diag.Error(diag.SemMissingFullType, c.s1("rec_t"),
			"Missing full type declaration of incomplete type 'rec_t'"),
		diag.Hint(diag.SemMissingFullType, c.s1("rec_t"),
			"The full type declaration shall occur immediately within the same declarative part"),
	)
}

func TestDuplicateIncompleteType(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
type rec_t;
type rec_t;
type rec_t is record
end record;
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		incompleteType(c.ident("rec_t", 1)),
		incompleteType(c.ident("rec_t", 2)),
		recordType(c.ident("rec_t", 3)),
	)
	region.CloseBoth(diag.BagReporter{Bag: bag})
	checkDiagnostics(t, bag,
		c.duplicate("rec_t", 2, 1),
	)
}

func TestBodyDoesNotCompleteIncompleteType(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
package pkg is
  type rec_t;
end package;
package body pkg is
  type rec_t is record
  end record;
end package body;
`)
	bag := ts.analyze(libFiles{"libname", []*ast.DesignFile{designFile(
		&ast.PackageDecl{
			Ident: c.ident("pkg", 1),
			Decls: []ast.Declaration{incompleteType(c.ident("rec_t", 1))},
		},
		&ast.PackageBody{
			Ident: c.ident("pkg", 2),
			Decls: []ast.Declaration{recordType(c.ident("rec_t", 2))},
		},
	)}})
	checkDiagnostics(t, bag,
		diag.Error(diag.SemMissingFullType, c.s("rec_t", 1),
			"Missing full type declaration of incomplete type 'rec_t'"),
		diag.Hint(diag.SemMissingFullType, c.s("rec_t", 1),
			"The full type declaration shall occur immediately within the same declarative part"),
	)
}

func TestProtectedTypeWithBody(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
type prot_t is protected
end protected;
type prot_t is protected body
end protected body;
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		protectedType(c.ident("prot_t", 1)),
		protectedBody(c.ident("prot_t", 2)),
	)
	region.CloseBoth(diag.BagReporter{Bag: bag})
	checkNoDiagnostics(t, bag)
}

func TestMissingProtectedBody(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
type prot_t is protected
end protected;
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		protectedType(c.ident("prot_t", 1)),
	)
	region.CloseBoth(diag.BagReporter{Bag: bag})
	checkDiagnostics(t, bag,
		diag.Error(diag.SemMissingProtectedBody, c.s1("prot_t"),
			"Missing body for protected type 'prot_t'"))
}

func TestProtectedBodyWithoutDeclaration(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
type prot_t is protected body
end protected body;
type prot_t is protected
end protected;
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		protectedBody(c.ident("prot_t", 1)),
		// The orphaned body was dropped, so this declaration inserts
		// cleanly and then misses its own body.
		protectedType(c.ident("prot_t", 2)),
	)
	region.CloseBoth(diag.BagReporter{Bag: bag})
	checkDiagnostics(t, bag,
		diag.Error(diag.SemMissingProtectedDecl, c.s("prot_t", 1),
			"No declaration of protected type 'prot_t'"),
		diag.Error(diag.SemMissingProtectedBody, c.s("prot_t", 2),
			"Missing body for protected type 'prot_t'"),
	)
}

func TestDuplicateProtectedBody(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
type prot_t is protected
end protected;
type prot_t is protected body
end protected body;
type prot_t is protected body
end protected body;
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		protectedType(c.ident("prot_t", 1)),
		protectedBody(c.ident("prot_t", 2)),
		protectedBody(c.ident("prot_t", 3)),
	)
	region.CloseBoth(diag.BagReporter{Bag: bag})
	checkDiagnostics(t, bag,
		c.duplicate("prot_t", 3, 2),
	)
}

func TestProtectedBodyOverNonProtectedDeclaration(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
constant prot_t : natural := 0;
type prot_t is protected body
end protected body;
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		constant(c.ident("prot_t", 1)),
		protectedBody(c.ident("prot_t", 2)),
	)
	region.CloseBoth(diag.BagReporter{Bag: bag})
	checkDiagnostics(t, bag,
		c.duplicate("prot_t", 2, 1),
	)
}

func TestProtectedBodyDeclarativePartIsChecked(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
type prot_t is protected
end protected;
type prot_t is protected body
  variable a1 : natural;
  variable a1 : natural;
end protected body;
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		protectedType(c.ident("prot_t", 1)),
		protectedBody(c.ident("prot_t", 2),
			variable(c.ident("a1", 1)),
			variable(c.ident("a1", 2)),
		),
	)
	region.CloseBoth(diag.BagReporter{Bag: bag})
	checkDiagnostics(t, bag,
		c.duplicate("a1", 2, 1),
	)
}

func TestDuplicateInterfaceNames(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
component comp is
  generic (g1 : natural; g1 : natural);
  port (p1 : natural; p1 : natural);
end component;
procedure proc(x1, x1 : natural);
type rec_t is record
  e1 : natural;
  e1 : natural;
end record;
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region,
		&ast.ComponentDecl{
			Ident:    c.ident("comp", 1),
			Generics: []ast.InterfaceDecl{param(c.ident("g1", 1)), param(c.ident("g1", 2))},
			Ports:    []ast.InterfaceDecl{param(c.ident("p1", 1)), param(c.ident("p1", 2))},
		},
		procedure(c.desRef("proc", 1), param(c.ident("x1", 1)), param(c.ident("x1", 2))),
		recordType(c.ident("rec_t", 1), c.ident("e1", 1), c.ident("e1", 2)),
	)
	checkDiagnostics(t, bag,
		c.duplicate("g1", 2, 1),
		c.duplicate("p1", 2, 1),
		c.duplicate("x1", 2, 1),
		c.duplicate("e1", 2, 1),
	)
}

func TestSubprogramBodyParametersCheckedApartFromLocals(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
procedure proc(a1 : natural) is
  variable a1 : natural;
begin
end procedure;
`)
	region := NewRegion(nil, ts.syms)
	body := procedureBody(c.desRef("proc", 1), variable(c.ident("a1", 2)))
	body.Spec.Params = []ast.InterfaceDecl{param(c.ident("a1", 1))}
	bag := ts.analyzeDecls(region, body)
	checkNoDiagnostics(t, bag)
}

func TestSubprogramBodyDuplicateParameters(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
procedure proc(a1 : natural; a1 : natural) is
begin
end procedure;
`)
	region := NewRegion(nil, ts.syms)
	body := procedureBody(c.desRef("proc", 1))
	body.Spec.Params = []ast.InterfaceDecl{
		param(c.ident("a1", 1)),
		param(c.ident("a1", 2)),
	}
	bag := ts.analyzeDecls(region, body)
	checkDiagnostics(t, bag,
		c.duplicate("a1", 2, 1),
	)
}

func TestComponentGenericAndPortListsAreSeparate(t *testing.T) {
	ts := newSetup(t)
	c := ts.code("t.vhd", `
component comp is
  generic (n1 : natural);
  port (n1 : natural);
end component;
`)
	region := NewRegion(nil, ts.syms)
	bag := ts.analyzeDecls(region, &ast.ComponentDecl{
		Ident:    c.ident("comp", 1),
		Generics: []ast.InterfaceDecl{param(c.ident("n1", 1))},
		Ports:    []ast.InterfaceDecl{param(c.ident("n1", 2))},
	})
	checkNoDiagnostics(t, bag)
}
