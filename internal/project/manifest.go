// Package project locates and loads the workspace: a TOML manifest
// mapping library names to source file globs, and the file contents
// behind them.
package project

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the workspace is configured by.
const ManifestName = "vhdl_ls.toml"

// Manifest mirrors the on-disk TOML structure:
//
//	[libraries]
//	lib.files = ["src/*.vhd"]
type Manifest struct {
	Libraries map[string]LibraryConfig `toml:"libraries"`
}

// LibraryConfig lists the file glob patterns of one library.
type LibraryConfig struct {
	Files []string `toml:"files"`
}

// LibrarySource is one resolved library: its name and the files behind
// the globs, absolute and deduplicated.
type LibrarySource struct {
	Name  string
	Paths []string
}

// LoadManifest reads and decodes a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", path, err)
	}
	return &m, nil
}

// Resolve expands every glob relative to rootDir. Libraries come out
// sorted by name and file lists deduplicated, so the same manifest
// always produces the same workspace. A pattern matching nothing is an
// error: a typo in the manifest should not silently drop a library.
func (m *Manifest) Resolve(rootDir string) ([]LibrarySource, error) {
	out := make([]LibrarySource, 0, len(m.Libraries))
	for name, cfg := range m.Libraries {
		seen := make(map[string]bool)
		src := LibrarySource{Name: name}
		for _, pattern := range cfg.Files {
			if !filepath.IsAbs(pattern) {
				pattern = filepath.Join(rootDir, pattern)
			}
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("library %s: bad pattern %q: %w", name, pattern, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("library %s: pattern %q matched no files", name, pattern)
			}
			sort.Strings(matches)
			for _, match := range matches {
				if seen[match] {
					continue
				}
				seen[match] = true
				src.Paths = append(src.Paths, match)
			}
		}
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
