// Package diagfmt renders diagnostic bags for humans and tools.
package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows paths relative to the workspace root when
	// possible, absolute otherwise.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
	// Context is the number of source lines shown around the primary
	// line. Zero shows only the line itself.
	Context uint8
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	// IncludePositions adds line/col fields next to byte offsets.
	IncludePositions bool
	PathMode         PathMode
	IncludeNotes     bool
	// Max truncates the output, not the bag. Zero means unlimited.
	Max int
}
