package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"volta/internal/source"
)

// LoadedLibrary pairs a library name with the files loaded for it.
type LoadedLibrary struct {
	Name  string
	Files []source.FileID
}

// Workspace is the fully loaded project: the file set plus the
// library-to-file mapping, in manifest (sorted) order.
type Workspace struct {
	Root      string
	FileSet   *source.FileSet
	Libraries []LoadedLibrary
}

// Open loads the manifest in rootDir and every file it names.
func Open(ctx context.Context, rootDir string) (*Workspace, error) {
	manifest, err := LoadManifest(filepath.Join(rootDir, ManifestName))
	if err != nil {
		return nil, err
	}
	sources, err := manifest.Resolve(rootDir)
	if err != nil {
		return nil, err
	}
	return Load(ctx, rootDir, sources)
}

// Load reads every source file concurrently and registers the contents
// in a fresh file set. File contents are read in parallel; the file set
// itself is filled sequentially since it is not safe for concurrent
// writers.
func Load(ctx context.Context, rootDir string, sources []LibrarySource) (*Workspace, error) {
	fs := source.NewFileSetWithBase(rootDir)
	ws := &Workspace{Root: rootDir, FileSet: fs}

	type loaded struct {
		content []byte
		flags   source.FileFlags
	}
	results := make(map[string]*loaded)
	for _, src := range sources {
		for _, path := range src.Paths {
			if _, ok := results[path]; !ok {
				results[path] = &loaded{}
			}
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for path, slot := range results {
		path, slot := path, slot
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// #nosec G304 -- paths come from the workspace manifest
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			slot.content, slot.flags = source.Normalize(content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make(map[string]source.FileID, len(results))
	for _, src := range sources {
		lib := LoadedLibrary{Name: src.Name}
		for _, path := range src.Paths {
			id, ok := ids[path]
			if !ok {
				slot := results[path]
				id = fs.Add(path, slot.content, slot.flags)
				ids[path] = id
			}
			lib.Files = append(lib.Files, id)
		}
		ws.Libraries = append(ws.Libraries, lib)
	}
	return ws, nil
}
