package sema

import (
	"errors"

	"volta/internal/symbols"
)

// ErrCircularDependency is returned by lock when a primary unit is
// re-entered while its own analysis is still on the stack.
var ErrCircularDependency = errors.New("circular dependency")

type unitKey struct {
	library symbols.Symbol
	unit    symbols.Symbol
}

// analysisContext memoizes the resolved region of every primary unit
// and tracks which units are currently being analyzed. A unit caught in
// a cycle is cached with a nil region so every later reference fails
// the same way without re-analysis.
type analysisContext struct {
	regions map[unitKey]*Region
	cached  map[unitKey]bool
	locked  map[unitKey]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		regions: make(map[unitKey]*Region),
		cached:  make(map[unitKey]bool),
		locked:  make(map[unitKey]bool),
	}
}

// lock marks the unit as in progress and returns a release callback to
// defer. Re-entry returns ErrCircularDependency.
func (c *analysisContext) lock(key unitKey) (func(), error) {
	if c.locked[key] {
		return nil, ErrCircularDependency
	}
	c.locked[key] = true
	return func() { delete(c.locked, key) }, nil
}

// region returns the cached region of a unit. The second result tells
// whether the unit has been analyzed at all; a true result with a nil
// region marks a circular dependency.
func (c *analysisContext) region(key unitKey) (*Region, bool) {
	return c.regions[key], c.cached[key]
}

// setRegion caches a result. The first write wins: once a cycle has
// poisoned a unit, a completed speculative analysis must not overwrite
// the sentinel.
func (c *analysisContext) setRegion(key unitKey, region *Region) {
	if c.cached[key] {
		return
	}
	c.cached[key] = true
	c.regions[key] = region
}
