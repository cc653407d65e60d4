package driver

import (
	"context"

	"volta/internal/diag"
	"volta/internal/parse"
	"volta/internal/project"
	"volta/internal/sema"
	"volta/internal/symbols"
)

// CheckResult is what one workspace check produces.
type CheckResult struct {
	Workspace *project.Workspace
	Bag       *diag.Bag
	// FromCache is set when the diagnostics were replayed from the
	// disk cache instead of re-analyzed.
	FromCache bool
}

// CheckWorkspace loads the workspace under rootDir, parses every design
// file and analyzes the libraries. With a non-nil cache, a workspace
// whose content digest is already known replays the stored diagnostics.
func CheckWorkspace(ctx context.Context, rootDir string, cache *DiskCache, opts sema.Options) (*CheckResult, error) {
	ws, err := project.Open(ctx, rootDir)
	if err != nil {
		return nil, err
	}

	key := WorkspaceDigest(ws.FileSet)
	var payload DiskPayload
	if hit, err := cache.Get(key, &payload); err == nil && hit {
		return &CheckResult{Workspace: ws, Bag: DecodeBag(&payload, ws.FileSet), FromCache: true}, nil
	}

	syms := symbols.NewTable()
	parseBag := diag.NewBag()
	reporter := diag.BagReporter{Bag: parseBag}
	libs := make([]ParsedLibrary, 0, len(ws.Libraries))
	for _, lib := range ws.Libraries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parsed := ParsedLibrary{Name: lib.Name}
		for _, id := range lib.Files {
			parsed.Files = append(parsed.Files, parse.File(ws.FileSet.Get(id), syms, reporter))
		}
		libs = append(libs, parsed)
	}

	bag := Analyze(syms, libs, opts)
	bag.Merge(parseBag)
	bag.Sort()
	bag.Dedup()

	// A failed cache write only costs the next run a re-analysis.
	_ = cache.Put(key, EncodeBag(bag, ws.FileSet))

	return &CheckResult{Workspace: ws, Bag: bag}, nil
}
