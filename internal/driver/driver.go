// Package driver ties the pipeline together: parsed design files go in,
// a sorted diagnostic bag comes out, with an optional disk cache keyed
// by workspace content.
package driver

import (
	"volta/internal/ast"
	"volta/internal/diag"
	"volta/internal/library"
	"volta/internal/sema"
	"volta/internal/symbols"
)

// ParsedLibrary is the input of one library: its name plus the design
// files parsed for it, in manifest order.
type ParsedLibrary struct {
	Name  string
	Files []*ast.DesignFile
}

// Analyze builds the design root from the parsed libraries and runs the
// structural and semantic passes. The returned bag is sorted and
// deduplicated.
func Analyze(syms *symbols.Table, libs []ParsedLibrary, opts sema.Options) *diag.Bag {
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}

	root := library.NewDesignRoot()
	for _, lib := range libs {
		root.AddLibrary(library.New(syms.Intern(lib.Name), syms, lib.Files, reporter))
	}
	sema.NewAnalyzerWith(root, syms, opts).Analyze(reporter)

	bag.Sort()
	bag.Dedup()
	return bag
}
