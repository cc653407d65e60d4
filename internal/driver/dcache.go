package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"volta/internal/diag"
	"volta/internal/source"
)

// Digest is a sha256 content hash.
type Digest [32]byte

// Increment when the payload format changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache memoizes analysis results on disk, keyed by the content
// digest of the whole workspace. A reopened editing session skips
// re-analysis when no file changed. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedNote mirrors diag.Note with the file path spelled out, since
// FileIDs are not stable across sessions.
type CachedNote struct {
	Message string
	Path    string
	Start   uint32
	End     uint32
}

// CachedDiagnostic is one diagnostic in cacheable form.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Path     string
	Start    uint32
	End      uint32
	Notes    []CachedNote
}

// DiskPayload is what one workspace digest maps to.
type DiskPayload struct {
	Schema      uint16
	Diagnostics []CachedDiagnostic
}

// OpenDiskCache initializes a disk cache under the user cache dir,
// honoring XDG_CACHE_HOME.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// WorkspaceDigest folds the hashes of every file into one cache key.
// Files are folded in path order so load order does not matter.
func WorkspaceDigest(fs *source.FileSet) Digest {
	type entry struct {
		path string
		hash [32]byte
	}
	entries := make([]entry, 0, fs.Len())
	for i := 0; i < fs.Len(); i++ {
		f := fs.Get(source.FileID(i))
		entries = append(entries, entry{path: f.Path, hash: f.Hash})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })

	h := sha256.New()
	for _, e := range entries {
		h.Write([]byte(e.path))
		h.Write([]byte{0})
		h.Write(e.hash[:])
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "diags", hex.EncodeToString(key[:])+".mp")
}

// Put writes a payload atomically.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or a schema mismatch is a clean
// miss, not an error.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, nil
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// EncodeBag converts a bag into cacheable form.
func EncodeBag(bag *diag.Bag, fs *source.FileSet) *DiskPayload {
	payload := &DiskPayload{Schema: diskCacheSchemaVersion}
	for _, d := range bag.Items() {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Path:     pathOf(fs, d.Primary),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{
				Message: n.Msg,
				Path:    pathOf(fs, n.Span),
				Start:   n.Span.Start,
				End:     n.Span.End,
			})
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}
	return payload
}

// DecodeBag rebuilds a bag against the current file set. Diagnostics
// whose file is gone are dropped; the digest key makes that unlikely.
func DecodeBag(payload *DiskPayload, fs *source.FileSet) *diag.Bag {
	bag := diag.NewBag()
	for _, cd := range payload.Diagnostics {
		file, ok := fs.GetByPath(cd.Path)
		if !ok {
			continue
		}
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code),
			source.Span{File: file.ID, Start: cd.Start, End: cd.End}, cd.Message)
		for _, n := range cd.Notes {
			noteFile, ok := fs.GetByPath(n.Path)
			if !ok {
				continue
			}
			d = d.WithNote(source.Span{File: noteFile.ID, Start: n.Start, End: n.End}, n.Message)
		}
		bag.Add(d)
	}
	return bag
}

func pathOf(fs *source.FileSet, span source.Span) string {
	if f := fs.Get(span.File); f != nil {
		return f.Path
	}
	return ""
}
